package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/shared"
)

// MasterDataValidator answers reference checks for stock operations. Every
// movement names an item and a warehouse, optionally a location and bin;
// all four must resolve to active master data before anything moves.
type MasterDataValidator struct {
	itemRepo      catalog.ItemRepository
	warehouseRepo catalog.WarehouseRepository
	locationRepo  catalog.LocationRepository
	binRepo       catalog.BinRepository
}

// NewMasterDataValidator creates a new MasterDataValidator
func NewMasterDataValidator(
	itemRepo catalog.ItemRepository,
	warehouseRepo catalog.WarehouseRepository,
	locationRepo catalog.LocationRepository,
	binRepo catalog.BinRepository,
) *MasterDataValidator {
	return &MasterDataValidator{
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		locationRepo:  locationRepo,
		binRepo:       binRepo,
	}
}

// ValidateItem checks that the item exists and is active
func (v *MasterDataValidator) ValidateItem(ctx context.Context, tenantID, itemID uuid.UUID) error {
	item, err := v.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return shared.ErrInvalidReference
	}
	if !item.IsActive() {
		return shared.ErrInvalidReference
	}
	return nil
}

// ValidateWarehouse checks that the warehouse exists and is active
func (v *MasterDataValidator) ValidateWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) error {
	warehouse, err := v.warehouseRepo.FindByIDForTenant(ctx, tenantID, warehouseID)
	if err != nil {
		return shared.ErrInvalidReference
	}
	if !warehouse.IsActive() {
		return shared.ErrInvalidReference
	}
	return nil
}

// ValidateLocation checks that the location exists, is active and belongs
// to the given warehouse
func (v *MasterDataValidator) ValidateLocation(ctx context.Context, tenantID, warehouseID, locationID uuid.UUID) error {
	location, err := v.locationRepo.FindByIDForTenant(ctx, tenantID, locationID)
	if err != nil {
		return shared.ErrInvalidReference
	}
	if location.WarehouseID != warehouseID || !location.IsActive() {
		return shared.ErrInvalidReference
	}
	return nil
}

// ValidateBin checks that the bin exists, is active and belongs to the
// given location
func (v *MasterDataValidator) ValidateBin(ctx context.Context, tenantID, locationID, binID uuid.UUID) error {
	bin, err := v.binRepo.FindByIDForTenant(ctx, tenantID, binID)
	if err != nil {
		return shared.ErrInvalidReference
	}
	if bin.LocationID != locationID || !bin.IsActive() {
		return shared.ErrInvalidReference
	}
	return nil
}
