package transfer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// TransferStatus represents the status of an inventory transfer
type TransferStatus string

const (
	TransferStatusDraft     TransferStatus = "DRAFT"
	TransferStatusShipped   TransferStatus = "SHIPPED"
	TransferStatusReceived  TransferStatus = "RECEIVED"
	TransferStatusCancelled TransferStatus = "CANCELLED"
)

// IsValid checks if the status is a valid TransferStatus
func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferStatusDraft, TransferStatusShipped, TransferStatusReceived, TransferStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of TransferStatus
func (s TransferStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s TransferStatus) CanTransitionTo(target TransferStatus) bool {
	switch s {
	case TransferStatusDraft:
		return target == TransferStatusShipped || target == TransferStatusCancelled
	case TransferStatusShipped:
		return target == TransferStatusReceived
	case TransferStatusReceived, TransferStatusCancelled:
		return false // Terminal states
	}
	return false
}

// TransferLine represents one item quantity moving between warehouses
type TransferLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TransferID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU         string          `gorm:"type:varchar(50);not null"`
	LotID       *uuid.UUID      `gorm:"type:uuid"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShippedQty  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReceivedQty decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (TransferLine) TableName() string {
	return "transfer_lines"
}

// InTransit returns the quantity shipped but not yet received on this line
func (l *TransferLine) InTransit() decimal.Decimal {
	return l.ShippedQty.Sub(l.ReceivedQty)
}

// InventoryTransfer moves stock between two warehouses. Shipping removes stock
// from the source; receiving adds the same quantities at the destination. A
// short receipt must be settled by an explicit adjustment referencing this
// transfer.
type InventoryTransfer struct {
	shared.TenantAggregateRoot
	Number        string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_transfer_tenant_number"`
	SourceID      uuid.UUID      `gorm:"type:uuid;not null;index"`
	DestinationID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Status        TransferStatus `gorm:"type:varchar(20);not null;index"`
	ExpectedAt    *time.Time     `gorm:"type:timestamptz"`
	ShippedAt     *time.Time     `gorm:"type:timestamptz"`
	ReceivedAt    *time.Time     `gorm:"type:timestamptz"`
	OverdueNoted  bool           `gorm:"not null;default:false"`
	Notes         string         `gorm:"type:text"`
	Lines         []TransferLine `gorm:"foreignKey:TransferID;references:ID"`
}

// TableName returns the table name for GORM
func (InventoryTransfer) TableName() string {
	return "inventory_transfers"
}

// NewTransferNumber builds a transfer number from date and a per-day sequence
func NewTransferNumber(date time.Time, sequence int64) string {
	return fmt.Sprintf("TRF-%s-%06d", date.Format("20060102"), sequence)
}

// NewInventoryTransfer creates a new transfer between two distinct warehouses
func NewInventoryTransfer(tenantID uuid.UUID, number string, sourceID, destinationID uuid.UUID) (*InventoryTransfer, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Transfer number cannot be empty")
	}
	if sourceID == uuid.Nil || destinationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Source and destination warehouses are required")
	}
	if sourceID == destinationID {
		return nil, shared.NewDomainError("SAME_WAREHOUSE", "Source and destination must differ")
	}

	tr := &InventoryTransfer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		SourceID:            sourceID,
		DestinationID:       destinationID,
		Status:              TransferStatusDraft,
		Lines:               make([]TransferLine, 0),
	}

	tr.AddDomainEvent(NewTransferCreatedEvent(tr))

	return tr, nil
}

// WithExpectedAt sets the expected arrival time
func (t *InventoryTransfer) WithExpectedAt(expected time.Time) *InventoryTransfer {
	t.ExpectedAt = &expected
	return t
}

// WithNotes sets free-form notes
func (t *InventoryTransfer) WithNotes(notes string) *InventoryTransfer {
	t.Notes = notes
	return t
}

// AddLine adds a line while the transfer is still a draft
func (t *InventoryTransfer) AddLine(itemID uuid.UUID, sku string, quantity decimal.Decimal, lotID *uuid.UUID) error {
	if t.Status != TransferStatusDraft {
		return shared.NewDomainError("INVALID_STATUS", "Lines can only be added in DRAFT status")
	}
	if itemID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Transfer quantity must be positive")
	}

	now := time.Now()
	t.Lines = append(t.Lines, TransferLine{
		ID:          uuid.New(),
		TransferID:  t.ID,
		ItemID:      itemID,
		SKU:         sku,
		LotID:       lotID,
		Quantity:    quantity,
		ShippedQty:  decimal.Zero,
		ReceivedQty: decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	t.UpdatedAt = now
	t.IncrementVersion()

	return nil
}

// Ship marks every line shipped at its full quantity. The caller posts the
// matching stock removals at the source before saving.
func (t *InventoryTransfer) Ship() error {
	if !t.Status.CanTransitionTo(TransferStatusShipped) {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Transfer cannot ship from %s", t.Status))
	}
	if len(t.Lines) == 0 {
		return shared.NewDomainError("EMPTY_TRANSFER", "Transfer must have at least one line")
	}

	now := time.Now()
	for i := range t.Lines {
		t.Lines[i].ShippedQty = t.Lines[i].Quantity
		t.Lines[i].UpdatedAt = now
	}
	t.Status = TransferStatusShipped
	t.ShippedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferShippedEvent(t))

	return nil
}

// Receive marks every line received at exactly its shipped quantity. Receipts
// always match shipments; a short arrival is settled afterwards with an
// adjustment referencing the transfer.
func (t *InventoryTransfer) Receive() error {
	if !t.Status.CanTransitionTo(TransferStatusReceived) {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Transfer cannot be received from %s", t.Status))
	}

	now := time.Now()
	for i := range t.Lines {
		t.Lines[i].ReceivedQty = t.Lines[i].ShippedQty
		t.Lines[i].UpdatedAt = now
	}
	t.Status = TransferStatusReceived
	t.ReceivedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferReceivedEvent(t))

	return nil
}

// Cancel abandons a draft transfer. Shipped transfers cannot be cancelled;
// the stock is already in transit and must be received.
func (t *InventoryTransfer) Cancel() error {
	if !t.Status.CanTransitionTo(TransferStatusCancelled) {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Transfer cannot be cancelled from %s", t.Status))
	}

	t.Status = TransferStatusCancelled
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// IsOverdue reports whether a shipped transfer has passed its expected arrival
func (t *InventoryTransfer) IsOverdue(now time.Time) bool {
	return t.Status == TransferStatusShipped && t.ExpectedAt != nil && now.After(*t.ExpectedAt)
}

// MarkOverdue flags an overdue shipped transfer once
func (t *InventoryTransfer) MarkOverdue(now time.Time) error {
	if !t.IsOverdue(now) {
		return shared.NewDomainError("NOT_OVERDUE", "Transfer is not overdue")
	}
	if t.OverdueNoted {
		return nil
	}

	t.OverdueNoted = true
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferOverdueEvent(t))

	return nil
}
