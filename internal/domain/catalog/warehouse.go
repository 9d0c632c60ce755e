package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// WarehouseStatus represents the status of a warehouse
type WarehouseStatus string

const (
	WarehouseStatusActive   WarehouseStatus = "active"
	WarehouseStatusInactive WarehouseStatus = "inactive"
)

// Warehouse represents a physical stock-holding site
// It is the aggregate root for the site hierarchy (warehouse > location > bin)
type Warehouse struct {
	shared.TenantAggregateRoot
	Code      string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_warehouse_tenant_code,priority:2"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Status    WarehouseStatus `gorm:"type:varchar(20);not null;default:'active'"`
	IsDefault bool            `gorm:"not null;default:false"`
	Address   string          `gorm:"type:text"`
	Notes     string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new warehouse
func NewWarehouse(tenantID uuid.UUID, code, name string) (*Warehouse, error) {
	if err := validateSiteCode(code); err != nil {
		return nil, err
	}
	if err := validateSiteName(name); err != nil {
		return nil, err
	}

	warehouse := &Warehouse{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Status:              WarehouseStatusActive,
	}

	warehouse.AddDomainEvent(NewWarehouseCreatedEvent(warehouse))

	return warehouse, nil
}

// Update updates the warehouse's basic information
func (w *Warehouse) Update(name, address string) error {
	if err := validateSiteName(name); err != nil {
		return err
	}

	w.Name = name
	w.Address = address
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// SetDefault marks the warehouse as the default site for operations
func (w *Warehouse) SetDefault(isDefault bool) {
	w.IsDefault = isDefault
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}

// Deactivate sets the warehouse status to inactive
// Deactivation does not touch stock; existing balances stay queryable
func (w *Warehouse) Deactivate() {
	if w.Status == WarehouseStatusInactive {
		return
	}

	w.Status = WarehouseStatusInactive
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}

// Activate sets the warehouse status to active
func (w *Warehouse) Activate() {
	if w.Status == WarehouseStatusActive {
		return
	}

	w.Status = WarehouseStatusActive
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}

// IsActive returns true if the warehouse can be used in new documents
func (w *Warehouse) IsActive() bool {
	return w.Status == WarehouseStatusActive
}

// Location represents a zone or area within a warehouse
type Location struct {
	shared.TenantAggregateRoot
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_location_warehouse_code,priority:2"`
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_location_warehouse_code,priority:3"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Status      WarehouseStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "locations"
}

// NewLocation creates a new location within a warehouse
func NewLocation(tenantID, warehouseID uuid.UUID, code, name string) (*Location, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.ErrInvalidReference
	}
	if err := validateSiteCode(code); err != nil {
		return nil, err
	}
	if err := validateSiteName(name); err != nil {
		return nil, err
	}

	return &Location{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		WarehouseID:         warehouseID,
		Code:                strings.ToUpper(code),
		Name:                name,
		Status:              WarehouseStatusActive,
	}, nil
}

// Deactivate sets the location status to inactive
func (l *Location) Deactivate() {
	if l.Status == WarehouseStatusInactive {
		return
	}
	l.Status = WarehouseStatusInactive
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// IsActive returns true if the location can be used in new documents
func (l *Location) IsActive() bool {
	return l.Status == WarehouseStatusActive
}

// Bin represents the smallest addressable storage slot within a location
type Bin struct {
	shared.TenantAggregateRoot
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;index"`
	LocationID  uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_bin_location_code,priority:2"`
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_bin_location_code,priority:3"`
	Status      WarehouseStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Bin) TableName() string {
	return "bins"
}

// NewBin creates a new bin within a location
func NewBin(tenantID, warehouseID, locationID uuid.UUID, code string) (*Bin, error) {
	if warehouseID == uuid.Nil || locationID == uuid.Nil {
		return nil, shared.ErrInvalidReference
	}
	if err := validateSiteCode(code); err != nil {
		return nil, err
	}

	return &Bin{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		WarehouseID:         warehouseID,
		LocationID:          locationID,
		Code:                strings.ToUpper(code),
		Status:              WarehouseStatusActive,
	}, nil
}

// Deactivate sets the bin status to inactive
func (b *Bin) Deactivate() {
	if b.Status == WarehouseStatusInactive {
		return
	}
	b.Status = WarehouseStatusInactive
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// IsActive returns true if the bin can be used in new documents
func (b *Bin) IsActive() bool {
	return b.Status == WarehouseStatusActive
}

func validateSiteCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Code is required")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Code cannot exceed 50 characters")
	}
	return nil
}

func validateSiteName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}
