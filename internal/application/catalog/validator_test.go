package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/shared"
)

func TestMasterDataValidator(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	setup := func(t *testing.T) (*catalogFixture, *catalog.Item, *catalog.Warehouse, *catalog.Location, *catalog.Bin) {
		t.Helper()
		f := newCatalogFixture()

		item, err := catalog.NewItem(tenantID, "WIDGET-001", "Widget", "EA")
		require.NoError(t, err)
		f.itemRepo.add(item)

		warehouse, err := catalog.NewWarehouse(tenantID, "MAIN", "Main DC")
		require.NoError(t, err)
		f.warehouseRepo.add(warehouse)

		location, err := catalog.NewLocation(tenantID, warehouse.ID, "ZONE-A", "Zone A")
		require.NoError(t, err)
		f.locationRepo.add(location)

		bin, err := catalog.NewBin(tenantID, warehouse.ID, location.ID, "A-01-01")
		require.NoError(t, err)
		f.binRepo.add(bin)

		return f, item, warehouse, location, bin
	}

	t.Run("passes for active references", func(t *testing.T) {
		f, item, warehouse, location, bin := setup(t)
		v := f.validator()

		assert.NoError(t, v.ValidateItem(ctx, tenantID, item.ID))
		assert.NoError(t, v.ValidateWarehouse(ctx, tenantID, warehouse.ID))
		assert.NoError(t, v.ValidateLocation(ctx, tenantID, warehouse.ID, location.ID))
		assert.NoError(t, v.ValidateBin(ctx, tenantID, location.ID, bin.ID))
	})

	t.Run("unknown references fail", func(t *testing.T) {
		f, _, warehouse, location, _ := setup(t)
		v := f.validator()

		assert.ErrorIs(t, v.ValidateItem(ctx, tenantID, uuid.New()), shared.ErrInvalidReference)
		assert.ErrorIs(t, v.ValidateWarehouse(ctx, tenantID, uuid.New()), shared.ErrInvalidReference)
		assert.ErrorIs(t, v.ValidateLocation(ctx, tenantID, warehouse.ID, uuid.New()), shared.ErrInvalidReference)
		assert.ErrorIs(t, v.ValidateBin(ctx, tenantID, location.ID, uuid.New()), shared.ErrInvalidReference)
	})

	t.Run("inactive references fail", func(t *testing.T) {
		f, item, warehouse, _, _ := setup(t)
		v := f.validator()

		item.Deactivate()
		f.itemRepo.add(item)
		assert.ErrorIs(t, v.ValidateItem(ctx, tenantID, item.ID), shared.ErrInvalidReference)

		warehouse.Deactivate()
		f.warehouseRepo.add(warehouse)
		assert.ErrorIs(t, v.ValidateWarehouse(ctx, tenantID, warehouse.ID), shared.ErrInvalidReference)
	})

	t.Run("location must belong to the named warehouse", func(t *testing.T) {
		f, _, _, location, bin := setup(t)
		v := f.validator()

		otherWarehouse, err := catalog.NewWarehouse(tenantID, "WH2", "Second DC")
		require.NoError(t, err)
		f.warehouseRepo.add(otherWarehouse)

		assert.ErrorIs(t, v.ValidateLocation(ctx, tenantID, otherWarehouse.ID, location.ID), shared.ErrInvalidReference)

		otherLocation, err := catalog.NewLocation(tenantID, otherWarehouse.ID, "ZONE-X", "Zone X")
		require.NoError(t, err)
		f.locationRepo.add(otherLocation)

		assert.ErrorIs(t, v.ValidateBin(ctx, tenantID, otherLocation.ID, bin.ID), shared.ErrInvalidReference)
	})

	t.Run("references in another tenant are invisible", func(t *testing.T) {
		f, item, _, _, _ := setup(t)
		v := f.validator()

		assert.ErrorIs(t, v.ValidateItem(ctx, uuid.New(), item.ID), shared.ErrInvalidReference)
	})
}
