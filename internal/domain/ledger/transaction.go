package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// TransactionType represents the type of stock movement
type TransactionType string

const (
	// TransactionTypeIn represents stock entering the warehouse (receiving, put-away)
	TransactionTypeIn TransactionType = "IN"
	// TransactionTypeOut represents stock leaving the warehouse (picking, shipping)
	TransactionTypeOut TransactionType = "OUT"
	// TransactionTypeAdjustment represents a signed correction to on-hand stock
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
	// TransactionTypeTransferIn represents stock arriving from another warehouse
	TransactionTypeTransferIn TransactionType = "TRANSFER_IN"
	// TransactionTypeTransferOut represents stock leaving for another warehouse
	TransactionTypeTransferOut TransactionType = "TRANSFER_OUT"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIn,
		TransactionTypeOut,
		TransactionTypeAdjustment,
		TransactionTypeTransferIn,
		TransactionTypeTransferOut:
		return true
	}
	return false
}

// IsIncrease returns true if this transaction type increases on-hand quantity.
// Adjustments carry their own sign and report false here.
func (t TransactionType) IsIncrease() bool {
	switch t {
	case TransactionTypeIn, TransactionTypeTransferIn:
		return true
	}
	return false
}

// IsDecrease returns true if this transaction type decreases on-hand quantity
func (t TransactionType) IsDecrease() bool {
	switch t {
	case TransactionTypeOut, TransactionTypeTransferOut:
		return true
	}
	return false
}

// SourceType represents the source document type for a transaction
type SourceType string

const (
	// SourceTypePurchaseOrder is a purchase order
	SourceTypePurchaseOrder SourceType = "PURCHASE_ORDER"
	// SourceTypeGoodsReceipt is a goods receipt
	SourceTypeGoodsReceipt SourceType = "GOODS_RECEIPT"
	// SourceTypePutAway is a put-away task
	SourceTypePutAway SourceType = "PUT_AWAY"
	// SourceTypePickList is a pick list
	SourceTypePickList SourceType = "PICK_LIST"
	// SourceTypeReservation is a stock reservation
	SourceTypeReservation SourceType = "RESERVATION"
	// SourceTypeTransfer is an inter-warehouse transfer
	SourceTypeTransfer SourceType = "TRANSFER"
	// SourceTypeCycleCount is a cycle count
	SourceTypeCycleCount SourceType = "CYCLE_COUNT"
	// SourceTypeAdjustment is a manual stock adjustment
	SourceTypeAdjustment SourceType = "ADJUSTMENT"
	// SourceTypeInitialStock is initial stock setup
	SourceTypeInitialStock SourceType = "INITIAL_STOCK"
)

// String returns the string representation of SourceType
func (s SourceType) String() string {
	return string(s)
}

// IsValid returns true if the source type is valid
func (s SourceType) IsValid() bool {
	switch s {
	case SourceTypePurchaseOrder,
		SourceTypeGoodsReceipt,
		SourceTypePutAway,
		SourceTypePickList,
		SourceTypeReservation,
		SourceTypeTransfer,
		SourceTypeCycleCount,
		SourceTypeAdjustment,
		SourceTypeInitialStock:
		return true
	}
	return false
}

// InventoryTransaction is an immutable record of one stock movement.
// Transactions are never updated or deleted; corrections are made with
// new compensating transactions.
type InventoryTransaction struct {
	shared.BaseEntity
	TenantID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_tx_tenant_time,priority:1"`
	Number          string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_stock_tx_tenant_number"`
	StockLevelID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_tx_level"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_tx_item"`
	WarehouseID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_tx_warehouse"`
	LotID           *uuid.UUID      `gorm:"type:uuid;index"`
	SerialID        *uuid.UUID      `gorm:"type:uuid;index"`
	TransactionType TransactionType `gorm:"type:varchar(20);not null;index:idx_stock_tx_type"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`                       // Positive; adjustments carry a sign
	UnitCost        decimal.Decimal `gorm:"type:decimal(18,4);not null"`                       // Cost per unit at time of movement (audit only)
	TotalCost       decimal.Decimal `gorm:"type:decimal(18,4);not null"`                       // Quantity * UnitCost
	QuantityBefore  decimal.Decimal `gorm:"type:decimal(18,4);not null"`                       // On-hand before the movement
	QuantityAfter   decimal.Decimal `gorm:"type:decimal(18,4);not null"`                       // On-hand after the movement
	SourceType      SourceType      `gorm:"type:varchar(30);not null;index:idx_stock_tx_source"`
	SourceID        string          `gorm:"type:varchar(50);not null;index:idx_stock_tx_source"`
	SourceLineID    string          `gorm:"type:varchar(50)"`
	Reference       string          `gorm:"type:varchar(100)"`
	Reason          string          `gorm:"type:varchar(255)"`
	PerformedBy     *uuid.UUID      `gorm:"type:uuid"`
	ApprovedBy      *uuid.UUID      `gorm:"type:uuid"`
	IsApproved      bool            `gorm:"not null;default:true"`
	TransactionDate time.Time       `gorm:"type:timestamptz;not null;index:idx_stock_tx_tenant_time,priority:2"`
}

// TableName returns the table name for GORM
func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}

// NewTransactionNumber builds a transaction number from date and a per-day sequence
func NewTransactionNumber(date time.Time, sequence int64) string {
	return fmt.Sprintf("TXN-%s-%06d", date.Format("20060102"), sequence)
}

// NewInventoryTransaction creates a new inventory transaction
func NewInventoryTransaction(
	tenantID uuid.UUID,
	number string,
	stockLevelID uuid.UUID,
	itemID uuid.UUID,
	warehouseID uuid.UUID,
	txType TransactionType,
	quantity decimal.Decimal,
	quantityBefore decimal.Decimal,
	quantityAfter decimal.Decimal,
	sourceType SourceType,
	sourceID string,
) (*InventoryTransaction, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Transaction number cannot be empty")
	}
	if stockLevelID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STOCK_LEVEL", "Stock level ID cannot be empty")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
	}
	if quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be zero")
	}
	if txType != TransactionTypeAdjustment && quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !sourceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE_TYPE", "Invalid source type")
	}
	if sourceID == "" {
		return nil, shared.NewDomainError("INVALID_SOURCE_ID", "Source ID cannot be empty")
	}

	tx := &InventoryTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		TenantID:        tenantID,
		Number:          number,
		StockLevelID:    stockLevelID,
		ItemID:          itemID,
		WarehouseID:     warehouseID,
		TransactionType: txType,
		Quantity:        quantity,
		UnitCost:        decimal.Zero,
		TotalCost:       decimal.Zero,
		QuantityBefore:  quantityBefore,
		QuantityAfter:   quantityAfter,
		SourceType:      sourceType,
		SourceID:        sourceID,
		IsApproved:      true,
		TransactionDate: time.Now(),
	}

	return tx, nil
}

// WithUnitCost sets the unit cost and derives the total cost
func (t *InventoryTransaction) WithUnitCost(unitCost decimal.Decimal) *InventoryTransaction {
	t.UnitCost = unitCost
	t.TotalCost = t.Quantity.Mul(unitCost).Abs()
	return t
}

// WithLotID sets the lot for the transaction
func (t *InventoryTransaction) WithLotID(lotID uuid.UUID) *InventoryTransaction {
	t.LotID = &lotID
	return t
}

// WithSerialID sets the serial for the transaction
func (t *InventoryTransaction) WithSerialID(serialID uuid.UUID) *InventoryTransaction {
	t.SerialID = &serialID
	return t
}

// WithSourceLineID sets the source line ID for the transaction
func (t *InventoryTransaction) WithSourceLineID(lineID string) *InventoryTransaction {
	t.SourceLineID = lineID
	return t
}

// WithReference sets the reference number for the transaction
func (t *InventoryTransaction) WithReference(reference string) *InventoryTransaction {
	t.Reference = reference
	return t
}

// WithReason sets the reason for the transaction
func (t *InventoryTransaction) WithReason(reason string) *InventoryTransaction {
	t.Reason = reason
	return t
}

// WithPerformedBy sets the user who performed the movement
func (t *InventoryTransaction) WithPerformedBy(userID uuid.UUID) *InventoryTransaction {
	t.PerformedBy = &userID
	return t
}

// WithApproval records the approver of a gated movement
func (t *InventoryTransaction) WithApproval(approverID uuid.UUID) *InventoryTransaction {
	t.ApprovedBy = &approverID
	t.IsApproved = true
	return t
}
