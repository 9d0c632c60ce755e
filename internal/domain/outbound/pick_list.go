package outbound

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// PickListStatus represents the status of a pick list
type PickListStatus string

const (
	PickListStatusCreated    PickListStatus = "CREATED"
	PickListStatusInProgress PickListStatus = "IN_PROGRESS"
	PickListStatusCompleted  PickListStatus = "COMPLETED"
	PickListStatusCancelled  PickListStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PickListStatus
func (s PickListStatus) IsValid() bool {
	switch s {
	case PickListStatusCreated, PickListStatusInProgress, PickListStatusCompleted, PickListStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PickListStatus
func (s PickListStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PickListStatus) CanTransitionTo(target PickListStatus) bool {
	switch s {
	case PickListStatusCreated:
		return target == PickListStatusInProgress || target == PickListStatusCancelled
	case PickListStatusInProgress:
		return target == PickListStatusCompleted || target == PickListStatusCancelled
	case PickListStatusCompleted, PickListStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PickLineStatus represents the state of one pick line
type PickLineStatus string

const (
	PickLineStatusPending   PickLineStatus = "PENDING"
	PickLineStatusAllocated PickLineStatus = "ALLOCATED"
	PickLineStatusPicked    PickLineStatus = "PICKED"
	PickLineStatusShort     PickLineStatus = "SHORT"
	PickLineStatusCancelled PickLineStatus = "CANCELLED"
)

// PickLine represents one item quantity to pick
type PickLine struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PickListID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU           string          `gorm:"type:varchar(50);not null"`
	LocationID    *uuid.UUID      `gorm:"type:uuid"`
	BinID         *uuid.UUID      `gorm:"type:uuid"`
	LotID         *uuid.UUID      `gorm:"type:uuid;index"`
	SerialID      *uuid.UUID      `gorm:"type:uuid;index"`
	ReservationID *uuid.UUID      `gorm:"type:uuid;index"` // Reservation this line consumes, if any
	QtyToPick     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QtyPicked     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status        PickLineStatus  `gorm:"type:varchar(20);not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName returns the table name for GORM
func (PickLine) TableName() string {
	return "pick_lines"
}

// Remaining returns the quantity still to pick on this line
func (l *PickLine) Remaining() decimal.Decimal {
	remaining := l.QtyToPick.Sub(l.QtyPicked)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// PickList directs warehouse staff to collect stock for an outbound movement.
// Starting the list allocates stock; completing a line ships it.
type PickList struct {
	shared.TenantAggregateRoot
	Number      string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_picklist_tenant_number"`
	WarehouseID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Status      PickListStatus `gorm:"type:varchar(20);not null;index"`
	Reference   string         `gorm:"type:varchar(100)"` // Outbound order reference
	StartedAt   *time.Time     `gorm:"type:timestamptz"`
	CompletedAt *time.Time     `gorm:"type:timestamptz"`
	Lines       []PickLine     `gorm:"foreignKey:PickListID;references:ID"`
}

// TableName returns the table name for GORM
func (PickList) TableName() string {
	return "pick_lists"
}

// NewPickListNumber builds a pick list number from date and a per-day sequence
func NewPickListNumber(date time.Time, sequence int64) string {
	return fmt.Sprintf("PL-%s-%06d", date.Format("20060102"), sequence)
}

// NewPickList creates a new pick list
func NewPickList(tenantID uuid.UUID, number string, warehouseID uuid.UUID) (*PickList, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Pick list number cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}

	pl := &PickList{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		WarehouseID:         warehouseID,
		Status:              PickListStatusCreated,
		Lines:               make([]PickLine, 0),
	}

	pl.AddDomainEvent(NewPickListCreatedEvent(pl))

	return pl, nil
}

// WithReference records the outbound order reference
func (pl *PickList) WithReference(reference string) *PickList {
	pl.Reference = reference
	return pl
}

// AddLine adds a line before the list is started
func (pl *PickList) AddLine(line PickLine) error {
	if pl.Status != PickListStatusCreated {
		return shared.NewDomainError("INVALID_STATUS", "Lines can only be added in CREATED status")
	}
	if line.ItemID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if !line.QtyToPick.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity to pick must be positive")
	}

	now := time.Now()
	line.ID = uuid.New()
	line.PickListID = pl.ID
	line.QtyPicked = decimal.Zero
	line.Status = PickLineStatusPending
	line.CreatedAt = now
	line.UpdatedAt = now

	pl.Lines = append(pl.Lines, line)
	pl.UpdatedAt = now
	pl.IncrementVersion()

	return nil
}

// Start moves the list to in-progress once every line has stock allocated
func (pl *PickList) Start() error {
	if !pl.Status.CanTransitionTo(PickListStatusInProgress) {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Pick list cannot start from %s", pl.Status))
	}
	if len(pl.Lines) == 0 {
		return shared.NewDomainError("EMPTY_PICK_LIST", "Pick list must have at least one line")
	}
	for i := range pl.Lines {
		if pl.Lines[i].Status != PickLineStatusAllocated {
			return shared.NewDomainError("LINE_NOT_ALLOCATED",
				fmt.Sprintf("Line %s has no allocation", pl.Lines[i].SKU))
		}
	}

	now := time.Now()
	pl.Status = PickListStatusInProgress
	pl.StartedAt = &now
	pl.UpdatedAt = now
	pl.IncrementVersion()

	return nil
}

// MarkLineAllocated records that stock was moved into the allocated bucket for a line
func (pl *PickList) MarkLineAllocated(lineID uuid.UUID) error {
	if pl.Status != PickListStatusCreated {
		return shared.NewDomainError("INVALID_STATUS", "Allocation happens before the list starts")
	}

	line := pl.findLine(lineID)
	if line == nil {
		return shared.ErrNotFound
	}
	if line.Status != PickLineStatusPending {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Line is %s, not PENDING", line.Status))
	}

	line.Status = PickLineStatusAllocated
	line.UpdatedAt = time.Now()
	pl.IncrementVersion()

	return nil
}

// RecordPick records picked quantity on a line. A pick below the requested
// quantity marks the line short; the caller resolves the shortfall.
func (pl *PickList) RecordPick(lineID uuid.UUID, quantity decimal.Decimal) error {
	if pl.Status != PickListStatusInProgress {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Picks cannot be recorded on a %s list", pl.Status))
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Picked quantity must be positive")
	}

	line := pl.findLine(lineID)
	if line == nil {
		return shared.ErrNotFound
	}
	if line.Status != PickLineStatusAllocated && line.Status != PickLineStatusShort {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Line is %s and cannot be picked", line.Status))
	}
	if quantity.GreaterThan(line.Remaining()) {
		return shared.NewDomainError("INVALID_QUANTITY", "Pick exceeds remaining quantity on line")
	}

	now := time.Now()
	line.QtyPicked = line.QtyPicked.Add(quantity)
	if line.QtyPicked.Equal(line.QtyToPick) {
		line.Status = PickLineStatusPicked
	} else {
		line.Status = PickLineStatusShort
	}
	line.UpdatedAt = now
	pl.UpdatedAt = now
	pl.IncrementVersion()

	return nil
}

// Complete finishes the list once no line is still allocated and unpicked
func (pl *PickList) Complete() error {
	if !pl.Status.CanTransitionTo(PickListStatusCompleted) {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Pick list cannot complete from %s", pl.Status))
	}
	for i := range pl.Lines {
		if pl.Lines[i].Status == PickLineStatusAllocated {
			return shared.NewDomainError("LINE_NOT_PICKED",
				fmt.Sprintf("Line %s has not been picked", pl.Lines[i].SKU))
		}
	}

	now := time.Now()
	pl.Status = PickListStatusCompleted
	pl.CompletedAt = &now
	pl.UpdatedAt = now
	pl.IncrementVersion()

	pl.AddDomainEvent(NewPickListCompletedEvent(pl))

	return nil
}

// Cancel abandons the list. Unpicked allocated lines are marked cancelled so
// the caller can release their allocations; picked stock stays shipped.
func (pl *PickList) Cancel() error {
	if !pl.Status.CanTransitionTo(PickListStatusCancelled) {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Pick list cannot be cancelled from %s", pl.Status))
	}

	now := time.Now()
	for i := range pl.Lines {
		if pl.Lines[i].Status == PickLineStatusAllocated || pl.Lines[i].Status == PickLineStatusPending ||
			pl.Lines[i].Status == PickLineStatusShort {
			pl.Lines[i].Status = PickLineStatusCancelled
			pl.Lines[i].UpdatedAt = now
		}
	}
	pl.Status = PickListStatusCancelled
	pl.UpdatedAt = now
	pl.IncrementVersion()

	pl.AddDomainEvent(NewPickListCancelledEvent(pl))

	return nil
}

// UnpickedAllocation returns, per line, the allocated quantity that was never
// picked. Used to build compensating releases on cancellation.
func (pl *PickList) UnpickedAllocation() map[uuid.UUID]decimal.Decimal {
	unpicked := make(map[uuid.UUID]decimal.Decimal)
	for i := range pl.Lines {
		line := &pl.Lines[i]
		remaining := line.Remaining()
		if remaining.IsPositive() && line.Status != PickLineStatusPending {
			unpicked[line.ID] = remaining
		}
	}
	return unpicked
}

func (pl *PickList) findLine(lineID uuid.UUID) *PickLine {
	for i := range pl.Lines {
		if pl.Lines[i].ID == lineID {
			return &pl.Lines[i]
		}
	}
	return nil
}
