package receiving

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// PutAwayStatus represents the status of a put-away task
type PutAwayStatus string

const (
	PutAwayStatusOpen       PutAwayStatus = "OPEN"
	PutAwayStatusInProgress PutAwayStatus = "IN_PROGRESS"
	PutAwayStatusCompleted  PutAwayStatus = "COMPLETED"
	PutAwayStatusCancelled  PutAwayStatus = "CANCELLED"
)

// String returns the string representation of PutAwayStatus
func (s PutAwayStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PutAwayStatus) CanTransitionTo(target PutAwayStatus) bool {
	switch s {
	case PutAwayStatusOpen:
		return target == PutAwayStatusInProgress || target == PutAwayStatusCancelled
	case PutAwayStatusInProgress:
		return target == PutAwayStatusCompleted || target == PutAwayStatusCancelled
	case PutAwayStatusCompleted, PutAwayStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PutAwayItem represents one quantity of stock to move into a bin.
// The Completed flag makes re-driving a partially applied task safe:
// a completed line is never applied to the ledger twice.
type PutAwayItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PutAwayTaskID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU           string          `gorm:"type:varchar(50);not null"`
	LotID         *uuid.UUID      `gorm:"type:uuid;index"`
	SerialID      *uuid.UUID      `gorm:"type:uuid;index"`
	LocationID    *uuid.UUID      `gorm:"type:uuid"`
	BinID         *uuid.UUID      `gorm:"type:uuid"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Completed     bool            `gorm:"not null;default:false"`
	CompletedAt   *time.Time      `gorm:"type:timestamptz"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName returns the table name for GORM
func (PutAwayItem) TableName() string {
	return "put_away_items"
}

// PutAwayTask moves received stock from the dock into storage bins.
// Completing a line is the point where stock actually goes on hand.
type PutAwayTask struct {
	shared.TenantAggregateRoot
	Number         string        `gorm:"type:varchar(50);not null;uniqueIndex:idx_putaway_tenant_number"`
	WarehouseID    uuid.UUID     `gorm:"type:uuid;not null;index"`
	GoodsReceiptID uuid.UUID     `gorm:"type:uuid;not null;index"`
	Status         PutAwayStatus `gorm:"type:varchar(20);not null;index"`
	StartedAt      *time.Time    `gorm:"type:timestamptz"`
	CompletedAt    *time.Time    `gorm:"type:timestamptz"`
	Items          []PutAwayItem `gorm:"foreignKey:PutAwayTaskID;references:ID"`
}

// TableName returns the table name for GORM
func (PutAwayTask) TableName() string {
	return "put_away_tasks"
}

// NewPutAwayNumber builds a put-away number from date and a per-day sequence
func NewPutAwayNumber(date time.Time, sequence int64) string {
	return fmt.Sprintf("PA-%s-%06d", date.Format("20060102"), sequence)
}

// NewPutAwayTask creates a new open put-away task for a received goods receipt
func NewPutAwayTask(tenantID uuid.UUID, number string, warehouseID, goodsReceiptID uuid.UUID) (*PutAwayTask, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Task number cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if goodsReceiptID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECEIPT", "Goods receipt ID cannot be empty")
	}

	return &PutAwayTask{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		WarehouseID:         warehouseID,
		GoodsReceiptID:      goodsReceiptID,
		Status:              PutAwayStatusOpen,
		Items:               make([]PutAwayItem, 0),
	}, nil
}

// AddItem adds a line to an open task
func (pt *PutAwayTask) AddItem(item PutAwayItem) error {
	if pt.Status != PutAwayStatusOpen {
		return shared.NewDomainError("INVALID_STATUS", "Lines can only be added in OPEN status")
	}
	if item.ItemID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if !item.Quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	now := time.Now()
	item.ID = uuid.New()
	item.PutAwayTaskID = pt.ID
	item.Completed = false
	item.CreatedAt = now
	item.UpdatedAt = now

	pt.Items = append(pt.Items, item)
	pt.UpdatedAt = now
	pt.IncrementVersion()

	return nil
}

// Start moves the task to in-progress
func (pt *PutAwayTask) Start() error {
	if !pt.Status.CanTransitionTo(PutAwayStatusInProgress) {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Task cannot start from %s", pt.Status))
	}
	if len(pt.Items) == 0 {
		return shared.NewDomainError("EMPTY_TASK", "Task must have at least one line")
	}

	now := time.Now()
	pt.Status = PutAwayStatusInProgress
	pt.StartedAt = &now
	pt.UpdatedAt = now
	pt.IncrementVersion()

	return nil
}

// CompleteItem marks a line as put away. Completing an already completed
// line is a no-op so the task can be re-driven after a partial failure.
// Returns true when the line state actually changed.
func (pt *PutAwayTask) CompleteItem(lineID uuid.UUID) (bool, error) {
	if pt.Status != PutAwayStatusInProgress {
		return false, shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Lines cannot be completed on a %s task", pt.Status))
	}

	idx := -1
	for i := range pt.Items {
		if pt.Items[i].ID == lineID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, shared.ErrNotFound
	}

	line := &pt.Items[idx]
	if line.Completed {
		return false, nil
	}

	now := time.Now()
	line.Completed = true
	line.CompletedAt = &now
	line.UpdatedAt = now

	if pt.allItemsCompleted() {
		pt.Status = PutAwayStatusCompleted
		pt.CompletedAt = &now
		pt.AddDomainEvent(NewPutAwayCompletedEvent(pt))
	}
	pt.UpdatedAt = now
	pt.IncrementVersion()

	return true, nil
}

// Cancel abandons the task; completed lines keep their posted stock
func (pt *PutAwayTask) Cancel() error {
	if !pt.Status.CanTransitionTo(PutAwayStatusCancelled) {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Task cannot be cancelled from %s", pt.Status))
	}

	pt.Status = PutAwayStatusCancelled
	pt.UpdatedAt = time.Now()
	pt.IncrementVersion()

	return nil
}

// PendingItems returns the lines not yet put away
func (pt *PutAwayTask) PendingItems() []PutAwayItem {
	pending := make([]PutAwayItem, 0)
	for _, item := range pt.Items {
		if !item.Completed {
			pending = append(pending, item)
		}
	}
	return pending
}

func (pt *PutAwayTask) allItemsCompleted() bool {
	for _, item := range pt.Items {
		if !item.Completed {
			return false
		}
	}
	return true
}
