package receiving

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft             PurchaseOrderStatus = "DRAFT"
	PurchaseOrderStatusApproved          PurchaseOrderStatus = "APPROVED"
	PurchaseOrderStatusPartiallyReceived PurchaseOrderStatus = "PARTIALLY_RECEIVED"
	PurchaseOrderStatusReceived          PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderStatusClosed            PurchaseOrderStatus = "CLOSED"
	PurchaseOrderStatusCancelled         PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusApproved, PurchaseOrderStatusPartiallyReceived,
		PurchaseOrderStatusReceived, PurchaseOrderStatusClosed, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusApproved || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusApproved:
		return target == PurchaseOrderStatusPartiallyReceived || target == PurchaseOrderStatusReceived ||
			target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusPartiallyReceived:
		return target == PurchaseOrderStatusReceived || target == PurchaseOrderStatusClosed
	case PurchaseOrderStatusReceived:
		return target == PurchaseOrderStatusClosed
	case PurchaseOrderStatusClosed, PurchaseOrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PurchaseOrderItem represents a line item on a purchase order
type PurchaseOrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU             string          `gorm:"type:varchar(50);not null"`
	OrderedQty      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQty     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// Outstanding returns the quantity still to be received
func (i *PurchaseOrderItem) Outstanding() decimal.Decimal {
	outstanding := i.OrderedQty.Sub(i.ReceivedQty)
	if outstanding.IsNegative() {
		return decimal.Zero
	}
	return outstanding
}

// PurchaseOrder represents expected inbound stock from a supplier
// It is the aggregate root for the receiving workflow's order side
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	Number      string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_po_tenant_number"`
	SupplierRef string              `gorm:"type:varchar(100)"` // Free-form supplier reference
	WarehouseID uuid.UUID           `gorm:"type:uuid;not null;index"`
	Status      PurchaseOrderStatus `gorm:"type:varchar(30);not null;index"`
	OrderDate   time.Time           `gorm:"type:timestamptz;not null"`
	ExpectedAt  *time.Time          `gorm:"type:timestamptz"`
	ApprovedAt  *time.Time          `gorm:"type:timestamptz"`
	ApprovedBy  *uuid.UUID          `gorm:"type:uuid"`
	ClosedAt    *time.Time          `gorm:"type:timestamptz"`
	Remark      string              `gorm:"type:text"`
	Items       []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrderNumber builds a purchase order number from date and a per-day sequence
func NewPurchaseOrderNumber(date time.Time, sequence int64) string {
	return fmt.Sprintf("PO-%s-%06d", date.Format("20060102"), sequence)
}

// NewPurchaseOrder creates a new draft purchase order
func NewPurchaseOrder(tenantID uuid.UUID, number string, warehouseID uuid.UUID, supplierRef string) (*PurchaseOrder, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Order number cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}

	po := &PurchaseOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		SupplierRef:         supplierRef,
		WarehouseID:         warehouseID,
		Status:              PurchaseOrderStatusDraft,
		OrderDate:           time.Now(),
		Items:               make([]PurchaseOrderItem, 0),
	}

	po.AddDomainEvent(NewPurchaseOrderCreatedEvent(po))

	return po, nil
}

// AddItem adds a line to a draft order
func (po *PurchaseOrder) AddItem(itemID uuid.UUID, sku string, orderedQty, unitCost decimal.Decimal) error {
	if po.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATUS", "Lines can only be added in DRAFT status")
	}
	if itemID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if !orderedQty.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Ordered quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	for _, line := range po.Items {
		if line.ItemID == itemID {
			return shared.NewDomainError("DUPLICATE_ITEM", "Item already exists on the order")
		}
	}

	now := time.Now()
	po.Items = append(po.Items, PurchaseOrderItem{
		ID:              uuid.New(),
		PurchaseOrderID: po.ID,
		ItemID:          itemID,
		SKU:             sku,
		OrderedQty:      orderedQty,
		ReceivedQty:     decimal.Zero,
		UnitCost:        unitCost,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	po.UpdatedAt = now
	po.IncrementVersion()

	return nil
}

// Approve moves the order from draft to approved so receipts can be posted
func (po *PurchaseOrder) Approve(approverID uuid.UUID) error {
	if !po.Status.CanTransitionTo(PurchaseOrderStatusApproved) {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Order cannot be approved from %s", po.Status))
	}
	if len(po.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Order must have at least one line")
	}

	now := time.Now()
	po.Status = PurchaseOrderStatusApproved
	po.ApprovedAt = &now
	po.ApprovedBy = &approverID
	po.UpdatedAt = now
	po.IncrementVersion()

	po.AddDomainEvent(NewPurchaseOrderApprovedEvent(po))

	return nil
}

// RecordReceipt increments the received quantity on a line. Receipts over the
// ordered quantity are rejected unless allowOverReceipt is set. The order
// status follows the aggregate received state.
func (po *PurchaseOrder) RecordReceipt(lineID uuid.UUID, quantity decimal.Decimal, allowOverReceipt bool) error {
	if po.Status != PurchaseOrderStatusApproved && po.Status != PurchaseOrderStatusPartiallyReceived {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Receipts cannot be posted against a %s order", po.Status))
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
	}

	idx := -1
	for i := range po.Items {
		if po.Items[i].ID == lineID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return shared.ErrNotFound
	}

	line := &po.Items[idx]
	newReceived := line.ReceivedQty.Add(quantity)
	if newReceived.GreaterThan(line.OrderedQty) && !allowOverReceipt {
		return shared.NewDomainError("OVER_RECEIPT",
			fmt.Sprintf("Receipt would exceed ordered quantity on line %s", line.SKU))
	}

	now := time.Now()
	line.ReceivedQty = newReceived
	line.UpdatedAt = now

	if po.isFullyReceived() {
		po.Status = PurchaseOrderStatusReceived
	} else {
		po.Status = PurchaseOrderStatusPartiallyReceived
	}
	po.UpdatedAt = now
	po.IncrementVersion()

	return nil
}

// Close ends the order; remaining outstanding quantities are abandoned
func (po *PurchaseOrder) Close() error {
	if !po.Status.CanTransitionTo(PurchaseOrderStatusClosed) {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Order cannot be closed from %s", po.Status))
	}

	now := time.Now()
	po.Status = PurchaseOrderStatusClosed
	po.ClosedAt = &now
	po.UpdatedAt = now
	po.IncrementVersion()

	po.AddDomainEvent(NewPurchaseOrderClosedEvent(po))

	return nil
}

// Cancel cancels an order that has received no stock
func (po *PurchaseOrder) Cancel() error {
	if !po.Status.CanTransitionTo(PurchaseOrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Order cannot be cancelled from %s", po.Status))
	}
	for _, line := range po.Items {
		if line.ReceivedQty.IsPositive() {
			return shared.NewDomainError("INVALID_STATUS", "Orders with receipts must be closed, not cancelled")
		}
	}

	po.Status = PurchaseOrderStatusCancelled
	po.UpdatedAt = time.Now()
	po.IncrementVersion()

	return nil
}

// FindItem returns the line for an item ID, or nil
func (po *PurchaseOrder) FindItem(itemID uuid.UUID) *PurchaseOrderItem {
	for i := range po.Items {
		if po.Items[i].ItemID == itemID {
			return &po.Items[i]
		}
	}
	return nil
}

func (po *PurchaseOrder) isFullyReceived() bool {
	for _, line := range po.Items {
		if line.ReceivedQty.LessThan(line.OrderedQty) {
			return false
		}
	}
	return true
}
