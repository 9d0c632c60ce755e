package catalog

import (
	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeItem      = "Item"
	AggregateTypeWarehouse = "Warehouse"
)

// Event type constants
const (
	EventTypeItemCreated       = "ItemCreated"
	EventTypeItemUpdated       = "ItemUpdated"
	EventTypeItemStatusChanged = "ItemStatusChanged"
	EventTypeWarehouseCreated  = "WarehouseCreated"
)

// ItemCreatedEvent is published when a new item is created
type ItemCreatedEvent struct {
	shared.BaseDomainEvent
	ItemID        uuid.UUID `json:"item_id"`
	SKU           string    `json:"sku"`
	Name          string    `json:"name"`
	Unit          string    `json:"unit"`
	LotTracked    bool      `json:"lot_tracked"`
	SerialTracked bool      `json:"serial_tracked"`
}

// NewItemCreatedEvent creates a new ItemCreatedEvent
func NewItemCreatedEvent(item *Item) *ItemCreatedEvent {
	return &ItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemCreated, AggregateTypeItem, item.ID, item.TenantID),
		ItemID:          item.ID,
		SKU:             item.SKU,
		Name:            item.Name,
		Unit:            item.Unit,
		LotTracked:      item.LotTracked,
		SerialTracked:   item.SerialTracked,
	}
}

// ItemUpdatedEvent is published when an item is updated
type ItemUpdatedEvent struct {
	shared.BaseDomainEvent
	ItemID uuid.UUID `json:"item_id"`
	SKU    string    `json:"sku"`
	Name   string    `json:"name"`
}

// NewItemUpdatedEvent creates a new ItemUpdatedEvent
func NewItemUpdatedEvent(item *Item) *ItemUpdatedEvent {
	return &ItemUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemUpdated, AggregateTypeItem, item.ID, item.TenantID),
		ItemID:          item.ID,
		SKU:             item.SKU,
		Name:            item.Name,
	}
}

// ItemStatusChangedEvent is published when an item's status changes
type ItemStatusChangedEvent struct {
	shared.BaseDomainEvent
	ItemID uuid.UUID  `json:"item_id"`
	SKU    string     `json:"sku"`
	Status ItemStatus `json:"status"`
}

// NewItemStatusChangedEvent creates a new ItemStatusChangedEvent
func NewItemStatusChangedEvent(item *Item) *ItemStatusChangedEvent {
	return &ItemStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemStatusChanged, AggregateTypeItem, item.ID, item.TenantID),
		ItemID:          item.ID,
		SKU:             item.SKU,
		Status:          item.Status,
	}
}

// WarehouseCreatedEvent is published when a new warehouse is created
type WarehouseCreatedEvent struct {
	shared.BaseDomainEvent
	WarehouseID uuid.UUID `json:"warehouse_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
}

// NewWarehouseCreatedEvent creates a new WarehouseCreatedEvent
func NewWarehouseCreatedEvent(warehouse *Warehouse) *WarehouseCreatedEvent {
	return &WarehouseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWarehouseCreated, AggregateTypeWarehouse, warehouse.ID, warehouse.TenantID),
		WarehouseID:     warehouse.ID,
		Code:            warehouse.Code,
		Name:            warehouse.Name,
	}
}
