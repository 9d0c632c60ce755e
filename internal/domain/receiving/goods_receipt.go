package receiving

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// GoodsReceiptStatus represents the status of a goods receipt
type GoodsReceiptStatus string

const (
	GoodsReceiptStatusDraft    GoodsReceiptStatus = "DRAFT"
	GoodsReceiptStatusReceived GoodsReceiptStatus = "RECEIVED"
)

// String returns the string representation of GoodsReceiptStatus
func (s GoodsReceiptStatus) String() string {
	return string(s)
}

// GoodsReceiptLine represents one received item on a goods receipt
type GoodsReceiptLine struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	GoodsReceiptID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU             string          `gorm:"type:varchar(50);not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	POLineID        *uuid.UUID      `gorm:"type:uuid;index"` // Purchase order line this receipt fulfils
	LotNumber       string          `gorm:"type:varchar(50)"`
	ManufactureDate *time.Time      `gorm:"type:date"`
	ExpiryDate      *time.Time      `gorm:"type:date"`
	SerialNumbers   pq.StringArray  `gorm:"type:text[]"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName returns the table name for GORM
func (GoodsReceiptLine) TableName() string {
	return "goods_receipt_lines"
}

// GoodsReceipt records stock that physically arrived at the dock.
// Receiving a receipt drives the purchase order, lot and serial records
// and opens a put-away task; stock goes on hand at put-away completion.
type GoodsReceipt struct {
	shared.TenantAggregateRoot
	Number          string             `gorm:"type:varchar(50);not null;uniqueIndex:idx_gr_tenant_number"`
	WarehouseID     uuid.UUID          `gorm:"type:uuid;not null;index"`
	PurchaseOrderID *uuid.UUID         `gorm:"type:uuid;index"` // Optional; blind receipts have no order
	Status          GoodsReceiptStatus `gorm:"type:varchar(20);not null;index"`
	ReceivedAt      *time.Time         `gorm:"type:timestamptz"`
	ReceivedBy      *uuid.UUID         `gorm:"type:uuid"`
	Remark          string             `gorm:"type:text"`
	Lines           []GoodsReceiptLine `gorm:"foreignKey:GoodsReceiptID;references:ID"`
}

// TableName returns the table name for GORM
func (GoodsReceipt) TableName() string {
	return "goods_receipts"
}

// NewGoodsReceiptNumber builds a receipt number from date and a per-day sequence
func NewGoodsReceiptNumber(date time.Time, sequence int64) string {
	return fmt.Sprintf("GR-%s-%06d", date.Format("20060102"), sequence)
}

// NewGoodsReceipt creates a new draft goods receipt
func NewGoodsReceipt(tenantID uuid.UUID, number string, warehouseID uuid.UUID) (*GoodsReceipt, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Receipt number cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}

	return &GoodsReceipt{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		WarehouseID:         warehouseID,
		Status:              GoodsReceiptStatusDraft,
		Lines:               make([]GoodsReceiptLine, 0),
	}, nil
}

// WithPurchaseOrder links the receipt to the order being fulfilled
func (gr *GoodsReceipt) WithPurchaseOrder(poID uuid.UUID) *GoodsReceipt {
	gr.PurchaseOrderID = &poID
	return gr
}

// AddLine adds a received item to a draft receipt
func (gr *GoodsReceipt) AddLine(line GoodsReceiptLine) error {
	if gr.Status != GoodsReceiptStatusDraft {
		return shared.NewDomainError("INVALID_STATUS", "Lines can only be added in DRAFT status")
	}
	if line.ItemID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if !line.Quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
	}
	if line.UnitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	if len(line.SerialNumbers) > 0 && !line.Quantity.Equal(decimal.NewFromInt(int64(len(line.SerialNumbers)))) {
		return shared.NewDomainError("SERIAL_COUNT_MISMATCH", "Serial count must match received quantity")
	}

	now := time.Now()
	line.ID = uuid.New()
	line.GoodsReceiptID = gr.ID
	line.CreatedAt = now
	line.UpdatedAt = now

	gr.Lines = append(gr.Lines, line)
	gr.UpdatedAt = now
	gr.IncrementVersion()

	return nil
}

// MarkReceived confirms the receipt; lines are frozen afterwards
func (gr *GoodsReceipt) MarkReceived(receiverID uuid.UUID) error {
	if gr.Status != GoodsReceiptStatusDraft {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Receipt is already %s", gr.Status))
	}
	if len(gr.Lines) == 0 {
		return shared.NewDomainError("EMPTY_RECEIPT", "Receipt must have at least one line")
	}

	now := time.Now()
	gr.Status = GoodsReceiptStatusReceived
	gr.ReceivedAt = &now
	gr.ReceivedBy = &receiverID
	gr.UpdatedAt = now
	gr.IncrementVersion()

	gr.AddDomainEvent(NewGoodsReceiptReceivedEvent(gr))

	return nil
}
