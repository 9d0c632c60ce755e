package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeStockLevel  = "StockLevel"
	AggregateTypeReservation = "Reservation"
)

// Event type constants
const (
	EventTypeStockLevelChanged      = "StockLevelChanged"
	EventTypeStockBelowReorderPoint = "StockBelowReorderPoint"
	EventTypeReservationCreated     = "ReservationCreated"
	EventTypeReservationReleased    = "ReservationReleased"
	EventTypeReservationConsumed    = "ReservationConsumed"
	EventTypeReservationExpired     = "ReservationExpired"
)

// StockLevelChangedEvent is published on every successful balance change
type StockLevelChangedEvent struct {
	shared.BaseDomainEvent
	StockLevelID   uuid.UUID       `json:"stock_level_id"`
	ItemID         uuid.UUID       `json:"item_id"`
	WarehouseID    uuid.UUID       `json:"warehouse_id"`
	LotID          *uuid.UUID      `json:"lot_id,omitempty"`
	OnHandDelta    decimal.Decimal `json:"on_hand_delta"`
	ReservedDelta  decimal.Decimal `json:"reserved_delta"`
	AllocatedDelta decimal.Decimal `json:"allocated_delta"`
	OnHandBefore   decimal.Decimal `json:"on_hand_before"`
	OnHandAfter    decimal.Decimal `json:"on_hand_after"`
}

// NewStockLevelChangedEvent creates a new StockLevelChangedEvent
func NewStockLevelChangedEvent(level *StockLevel, delta StockDelta, onHandBefore decimal.Decimal) *StockLevelChangedEvent {
	return &StockLevelChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockLevelChanged, AggregateTypeStockLevel, level.ID, level.TenantID),
		StockLevelID:    level.ID,
		ItemID:          level.ItemID,
		WarehouseID:     level.WarehouseID,
		LotID:           level.LotID,
		OnHandDelta:     delta.OnHand,
		ReservedDelta:   delta.Reserved,
		AllocatedDelta:  delta.Allocated,
		OnHandBefore:    onHandBefore,
		OnHandAfter:     level.OnHand,
	}
}

// StockBelowReorderPointEvent is published when available stock for an item
// falls to or below its reorder point
type StockBelowReorderPointEvent struct {
	shared.BaseDomainEvent
	ItemID       uuid.UUID       `json:"item_id"`
	WarehouseID  uuid.UUID       `json:"warehouse_id"`
	Available    decimal.Decimal `json:"available"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	ReorderQty   decimal.Decimal `json:"reorder_qty"`
}

// NewStockBelowReorderPointEvent creates a new StockBelowReorderPointEvent
func NewStockBelowReorderPointEvent(
	tenantID, itemID, warehouseID uuid.UUID,
	available, reorderPoint, reorderQty decimal.Decimal,
) *StockBelowReorderPointEvent {
	return &StockBelowReorderPointEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowReorderPoint, AggregateTypeStockLevel, itemID, tenantID),
		ItemID:          itemID,
		WarehouseID:     warehouseID,
		Available:       available,
		ReorderPoint:    reorderPoint,
		ReorderQty:      reorderQty,
	}
}

// ReservationCreatedEvent is published when stock is reserved
type ReservationCreatedEvent struct {
	shared.BaseDomainEvent
	ReservationID uuid.UUID       `json:"reservation_id"`
	Number        string          `json:"number"`
	ItemID        uuid.UUID       `json:"item_id"`
	WarehouseID   uuid.UUID       `json:"warehouse_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	Type          ReservationType `json:"type"`
}

// NewReservationCreatedEvent creates a new ReservationCreatedEvent
func NewReservationCreatedEvent(r *Reservation) *ReservationCreatedEvent {
	return &ReservationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReservationCreated, AggregateTypeReservation, r.ID, r.TenantID),
		ReservationID:   r.ID,
		Number:          r.Number,
		ItemID:          r.ItemID,
		WarehouseID:     r.WarehouseID,
		Quantity:        r.Quantity,
		Type:            r.Type,
	}
}

// ReservationReleasedEvent is published when a reservation is released
type ReservationReleasedEvent struct {
	shared.BaseDomainEvent
	ReservationID uuid.UUID       `json:"reservation_id"`
	Number        string          `json:"number"`
	ItemID        uuid.UUID       `json:"item_id"`
	WarehouseID   uuid.UUID       `json:"warehouse_id"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// NewReservationReleasedEvent creates a new ReservationReleasedEvent
func NewReservationReleasedEvent(r *Reservation) *ReservationReleasedEvent {
	return &ReservationReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReservationReleased, AggregateTypeReservation, r.ID, r.TenantID),
		ReservationID:   r.ID,
		Number:          r.Number,
		ItemID:          r.ItemID,
		WarehouseID:     r.WarehouseID,
		Quantity:        r.Quantity,
	}
}

// ReservationConsumedEvent is published when a reservation is fulfilled
type ReservationConsumedEvent struct {
	shared.BaseDomainEvent
	ReservationID uuid.UUID       `json:"reservation_id"`
	Number        string          `json:"number"`
	ItemID        uuid.UUID       `json:"item_id"`
	WarehouseID   uuid.UUID       `json:"warehouse_id"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// NewReservationConsumedEvent creates a new ReservationConsumedEvent
func NewReservationConsumedEvent(r *Reservation) *ReservationConsumedEvent {
	return &ReservationConsumedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReservationConsumed, AggregateTypeReservation, r.ID, r.TenantID),
		ReservationID:   r.ID,
		Number:          r.Number,
		ItemID:          r.ItemID,
		WarehouseID:     r.WarehouseID,
		Quantity:        r.Quantity,
	}
}

// ReservationExpiredEvent is published when the expiry sweep releases a reservation
type ReservationExpiredEvent struct {
	shared.BaseDomainEvent
	ReservationID uuid.UUID       `json:"reservation_id"`
	Number        string          `json:"number"`
	ItemID        uuid.UUID       `json:"item_id"`
	WarehouseID   uuid.UUID       `json:"warehouse_id"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// NewReservationExpiredEvent creates a new ReservationExpiredEvent
func NewReservationExpiredEvent(r *Reservation) *ReservationExpiredEvent {
	return &ReservationExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReservationExpired, AggregateTypeReservation, r.ID, r.TenantID),
		ReservationID:   r.ID,
		Number:          r.Number,
		ItemID:          r.ItemID,
		WarehouseID:     r.WarehouseID,
		Quantity:        r.Quantity,
	}
}
