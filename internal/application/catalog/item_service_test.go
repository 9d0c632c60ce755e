package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/shared"
)

func TestItemService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates an active item with normalized SKU", func(t *testing.T) {
		f := newCatalogFixture()
		svc := f.itemService()

		resp, err := svc.Create(ctx, tenantID, CreateItemRequest{
			SKU:     "widget-001",
			Name:    "Widget",
			Unit:    "EA",
			Barcode: "4006381333931",
		})

		require.NoError(t, err)
		assert.Equal(t, "WIDGET-001", resp.SKU)
		assert.Equal(t, "active", resp.Status)
		assert.Equal(t, "4006381333931", resp.Barcode)
		assert.False(t, resp.LotTracked)
	})

	t.Run("rejects a duplicate SKU regardless of case", func(t *testing.T) {
		f := newCatalogFixture()
		svc := f.itemService()

		_, err := svc.Create(ctx, tenantID, CreateItemRequest{SKU: "WIDGET-001", Name: "Widget", Unit: "EA"})
		require.NoError(t, err)

		_, err = svc.Create(ctx, tenantID, CreateItemRequest{SKU: "widget-001", Name: "Widget again", Unit: "EA"})
		assert.ErrorContains(t, err, "already exists")
	})

	t.Run("same SKU in another tenant is allowed", func(t *testing.T) {
		f := newCatalogFixture()
		svc := f.itemService()

		_, err := svc.Create(ctx, tenantID, CreateItemRequest{SKU: "WIDGET-001", Name: "Widget", Unit: "EA"})
		require.NoError(t, err)

		_, err = svc.Create(ctx, uuid.New(), CreateItemRequest{SKU: "WIDGET-001", Name: "Widget", Unit: "EA"})
		assert.NoError(t, err)
	})

	t.Run("enables tracking flags from the request", func(t *testing.T) {
		f := newCatalogFixture()
		svc := f.itemService()

		resp, err := svc.Create(ctx, tenantID, CreateItemRequest{
			SKU:           "BATT-01",
			Name:          "Battery",
			Unit:          "EA",
			LotTracked:    true,
			SerialTracked: true,
		})

		require.NoError(t, err)
		assert.True(t, resp.LotTracked)
		assert.True(t, resp.SerialTracked)
	})
}

func TestItemService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("merges only the provided fields", func(t *testing.T) {
		f := newCatalogFixture()
		svc := f.itemService()

		created, err := svc.Create(ctx, tenantID, CreateItemRequest{
			SKU:         "WIDGET-001",
			Name:        "Widget",
			Description: "Original description",
			Unit:        "EA",
		})
		require.NoError(t, err)

		newName := "Widget v2"
		updated, err := svc.Update(ctx, tenantID, created.ID, UpdateItemRequest{Name: &newName})

		require.NoError(t, err)
		assert.Equal(t, "Widget v2", updated.Name)
		assert.Equal(t, "Original description", updated.Description)
	})

	t.Run("unknown item returns not found", func(t *testing.T) {
		f := newCatalogFixture()
		svc := f.itemService()

		name := "x"
		_, err := svc.Update(ctx, tenantID, uuid.New(), UpdateItemRequest{Name: &name})
		assert.Error(t, err)
	})
}

func TestItemService_SetReplenishment(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("stores reorder parameters", func(t *testing.T) {
		f := newCatalogFixture()
		svc := f.itemService()

		created, err := svc.Create(ctx, tenantID, CreateItemRequest{SKU: "WIDGET-001", Name: "Widget", Unit: "EA"})
		require.NoError(t, err)

		resp, err := svc.SetReplenishment(ctx, tenantID, created.ID, SetReplenishmentRequest{
			ReorderPoint: decimal.NewFromInt(20),
			ReorderQty:   decimal.NewFromInt(100),
			LeadTimeDays: 7,
		})

		require.NoError(t, err)
		assert.True(t, resp.ReorderPoint.Equal(decimal.NewFromInt(20)))
		assert.True(t, resp.ReorderQty.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, 7, resp.LeadTimeDays)
	})

	t.Run("rejects a negative reorder point", func(t *testing.T) {
		f := newCatalogFixture()
		svc := f.itemService()

		created, err := svc.Create(ctx, tenantID, CreateItemRequest{SKU: "WIDGET-001", Name: "Widget", Unit: "EA"})
		require.NoError(t, err)

		_, err = svc.SetReplenishment(ctx, tenantID, created.ID, SetReplenishmentRequest{
			ReorderPoint: decimal.NewFromInt(-1),
			ReorderQty:   decimal.NewFromInt(10),
		})
		assert.Error(t, err)
	})
}

func TestItemService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("deactivated item can be reactivated", func(t *testing.T) {
		f := newCatalogFixture()
		svc := f.itemService()

		created, err := svc.Create(ctx, tenantID, CreateItemRequest{SKU: "WIDGET-001", Name: "Widget", Unit: "EA"})
		require.NoError(t, err)

		resp, err := svc.Deactivate(ctx, tenantID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, string(catalog.ItemStatusInactive), resp.Status)

		resp, err = svc.Activate(ctx, tenantID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, string(catalog.ItemStatusActive), resp.Status)
	})

	t.Run("discontinued item cannot be reactivated", func(t *testing.T) {
		f := newCatalogFixture()
		svc := f.itemService()

		created, err := svc.Create(ctx, tenantID, CreateItemRequest{SKU: "WIDGET-001", Name: "Widget", Unit: "EA"})
		require.NoError(t, err)

		_, err = svc.Discontinue(ctx, tenantID, created.ID)
		require.NoError(t, err)

		_, err = svc.Activate(ctx, tenantID, created.ID)
		assert.Error(t, err)
	})
}

func TestItemService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("returns only the tenant's items with a total", func(t *testing.T) {
		f := newCatalogFixture()
		svc := f.itemService()

		_, err := svc.Create(ctx, tenantID, CreateItemRequest{SKU: "A-001", Name: "A", Unit: "EA"})
		require.NoError(t, err)
		_, err = svc.Create(ctx, tenantID, CreateItemRequest{SKU: "B-001", Name: "B", Unit: "EA"})
		require.NoError(t, err)
		_, err = svc.Create(ctx, uuid.New(), CreateItemRequest{SKU: "C-001", Name: "C", Unit: "EA"})
		require.NoError(t, err)

		resp, err := svc.List(ctx, tenantID, shared.Filter{})
		require.NoError(t, err)
		assert.Len(t, resp.Items, 2)
		assert.Equal(t, int64(2), resp.Total)
	})
}
