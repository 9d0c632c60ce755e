package outbound

import (
	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypePickList = "PickList"
)

// Event type constants
const (
	EventTypePickListCreated   = "PickListCreated"
	EventTypePickListCompleted = "PickListCompleted"
	EventTypePickListCancelled = "PickListCancelled"
)

// PickListCreatedEvent is published when a pick list is created
type PickListCreatedEvent struct {
	shared.BaseDomainEvent
	PickListID  uuid.UUID `json:"pick_list_id"`
	Number      string    `json:"number"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
}

// NewPickListCreatedEvent creates a new PickListCreatedEvent
func NewPickListCreatedEvent(pl *PickList) *PickListCreatedEvent {
	return &PickListCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePickListCreated, AggregateTypePickList, pl.ID, pl.TenantID),
		PickListID:      pl.ID,
		Number:          pl.Number,
		WarehouseID:     pl.WarehouseID,
	}
}

// PickListCompletedEvent is published when every line of a pick list is resolved
type PickListCompletedEvent struct {
	shared.BaseDomainEvent
	PickListID  uuid.UUID `json:"pick_list_id"`
	Number      string    `json:"number"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
	LineCount   int       `json:"line_count"`
}

// NewPickListCompletedEvent creates a new PickListCompletedEvent
func NewPickListCompletedEvent(pl *PickList) *PickListCompletedEvent {
	return &PickListCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePickListCompleted, AggregateTypePickList, pl.ID, pl.TenantID),
		PickListID:      pl.ID,
		Number:          pl.Number,
		WarehouseID:     pl.WarehouseID,
		LineCount:       len(pl.Lines),
	}
}

// PickListCancelledEvent is published when a pick list is cancelled
type PickListCancelledEvent struct {
	shared.BaseDomainEvent
	PickListID uuid.UUID `json:"pick_list_id"`
	Number     string    `json:"number"`
}

// NewPickListCancelledEvent creates a new PickListCancelledEvent
func NewPickListCancelledEvent(pl *PickList) *PickListCancelledEvent {
	return &PickListCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePickListCancelled, AggregateTypePickList, pl.ID, pl.TenantID),
		PickListID:      pl.ID,
		Number:          pl.Number,
	}
}
