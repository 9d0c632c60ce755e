package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// ItemStatus represents the status of an item
type ItemStatus string

const (
	ItemStatusActive       ItemStatus = "active"
	ItemStatusInactive     ItemStatus = "inactive"
	ItemStatusDiscontinued ItemStatus = "discontinued"
)

// Item represents a stock-keeping unit in the catalog
// It is the aggregate root for item master-data operations
type Item struct {
	shared.TenantAggregateRoot
	SKU           string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_item_tenant_sku,priority:2"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	Barcode       string          `gorm:"type:varchar(50);index"`
	Unit          string          `gorm:"type:varchar(20);not null"` // Base unit (e.g., "pcs", "kg", "box")
	LotTracked    bool            `gorm:"not null;default:false"`
	SerialTracked bool            `gorm:"not null;default:false"`
	ReorderPoint  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderQty    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LeadTimeDays  int             `gorm:"not null;default:0"`
	Status        ItemStatus      `gorm:"type:varchar(20);not null;default:'active'"`
	Attributes    string          `gorm:"type:jsonb"` // JSON storage for custom attributes
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "items"
}

// NewItem creates a new item
func NewItem(tenantID uuid.UUID, sku, name, unit string) (*Item, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateItemName(name); err != nil {
		return nil, err
	}
	if err := validateUnit(unit); err != nil {
		return nil, err
	}

	item := &Item{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 strings.ToUpper(sku),
		Name:                name,
		Unit:                unit,
		ReorderPoint:        decimal.Zero,
		ReorderQty:          decimal.Zero,
		Status:              ItemStatusActive,
		Attributes:          "{}",
	}

	item.AddDomainEvent(NewItemCreatedEvent(item))

	return item, nil
}

// NewLotTrackedItem creates a new item with lot tracking enabled
func NewLotTrackedItem(tenantID uuid.UUID, sku, name, unit string) (*Item, error) {
	item, err := NewItem(tenantID, sku, name, unit)
	if err != nil {
		return nil, err
	}
	item.LotTracked = true
	return item, nil
}

// NewSerialTrackedItem creates a new item with serial tracking enabled
func NewSerialTrackedItem(tenantID uuid.UUID, sku, name, unit string) (*Item, error) {
	item, err := NewItem(tenantID, sku, name, unit)
	if err != nil {
		return nil, err
	}
	item.SerialTracked = true
	return item, nil
}

// Update updates the item's basic information
func (i *Item) Update(name, description string) error {
	if err := validateItemName(name); err != nil {
		return err
	}

	i.Name = name
	i.Description = description
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewItemUpdatedEvent(i))

	return nil
}

// SetBarcode sets the item barcode
func (i *Item) SetBarcode(barcode string) error {
	if barcode != "" && len(barcode) > 50 {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode cannot exceed 50 characters")
	}

	i.Barcode = barcode
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// SetReplenishment sets the reorder point, reorder quantity and lead time
func (i *Item) SetReplenishment(reorderPoint, reorderQty decimal.Decimal, leadTimeDays int) error {
	if reorderPoint.IsNegative() {
		return shared.NewDomainError("INVALID_REORDER_POINT", "Reorder point cannot be negative")
	}
	if reorderQty.IsNegative() {
		return shared.NewDomainError("INVALID_REORDER_QTY", "Reorder quantity cannot be negative")
	}
	if leadTimeDays < 0 {
		return shared.NewDomainError("INVALID_LEAD_TIME", "Lead time cannot be negative")
	}

	i.ReorderPoint = reorderPoint
	i.ReorderQty = reorderQty
	i.LeadTimeDays = leadTimeDays
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// EnableLotTracking turns on lot tracking for the item
// Tracking mode changes only affect stock received afterwards
func (i *Item) EnableLotTracking() {
	if i.LotTracked {
		return
	}
	i.LotTracked = true
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// EnableSerialTracking turns on serial tracking for the item
func (i *Item) EnableSerialTracking() {
	if i.SerialTracked {
		return
	}
	i.SerialTracked = true
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// Activate sets the item status to active
func (i *Item) Activate() error {
	if i.Status == ItemStatusActive {
		return nil
	}
	if i.Status == ItemStatusDiscontinued {
		return shared.NewDomainError("ITEM_DISCONTINUED", "Discontinued items cannot be reactivated")
	}

	i.Status = ItemStatusActive
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewItemStatusChangedEvent(i))

	return nil
}

// Deactivate sets the item status to inactive
func (i *Item) Deactivate() {
	if i.Status == ItemStatusInactive {
		return
	}

	i.Status = ItemStatusInactive
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewItemStatusChangedEvent(i))
}

// Discontinue permanently retires the item
func (i *Item) Discontinue() {
	if i.Status == ItemStatusDiscontinued {
		return
	}

	i.Status = ItemStatusDiscontinued
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewItemStatusChangedEvent(i))
}

// IsActive returns true if the item can be used in new documents
func (i *Item) IsActive() bool {
	return i.Status == ItemStatusActive
}

func validateSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU is required")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	return nil
}

func validateItemName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Item name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot exceed 200 characters")
	}
	return nil
}

func validateUnit(unit string) error {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit is required")
	}
	if len(unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}
	return nil
}
