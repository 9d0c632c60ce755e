package catalog

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/shared"
)

// fakeItemRepo is an in-memory ItemRepository handing out copies so a failed
// save never leaks mutations into the store
type fakeItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*catalog.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uuid.UUID]*catalog.Item)}
}

func (r *fakeItemRepo) add(item *catalog.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *item
	r.items[item.ID] = &c
}

func (r *fakeItemRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := *item
	return &c, nil
}

func (r *fakeItemRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*catalog.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	c := *item
	return &c, nil
}

func (r *fakeItemRepo) FindBySKU(_ context.Context, tenantID uuid.UUID, sku string) (*catalog.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.TenantID == tenantID && item.SKU == sku {
			c := *item
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeItemRepo) FindByIDs(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]catalog.Item, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.items[id]; ok && item.TenantID == tenantID {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *fakeItemRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]catalog.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]catalog.Item, 0)
	for _, item := range r.items {
		if item.TenantID == tenantID {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *fakeItemRepo) FindBelowReorderPoint(_ context.Context, tenantID uuid.UUID) ([]catalog.Item, error) {
	return nil, nil
}

func (r *fakeItemRepo) Save(_ context.Context, item *catalog.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *item
	r.items[item.ID] = &c
	return nil
}

func (r *fakeItemRepo) Count(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, item := range r.items {
		if item.TenantID == tenantID {
			total++
		}
	}
	return total, nil
}

// fakeWarehouseRepo is an in-memory WarehouseRepository
type fakeWarehouseRepo struct {
	mu         sync.Mutex
	warehouses map[uuid.UUID]*catalog.Warehouse
}

func newFakeWarehouseRepo() *fakeWarehouseRepo {
	return &fakeWarehouseRepo{warehouses: make(map[uuid.UUID]*catalog.Warehouse)}
}

func (r *fakeWarehouseRepo) add(warehouse *catalog.Warehouse) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *warehouse
	r.warehouses[warehouse.ID] = &c
}

func (r *fakeWarehouseRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	warehouse, ok := r.warehouses[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := *warehouse
	return &c, nil
}

func (r *fakeWarehouseRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*catalog.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	warehouse, ok := r.warehouses[id]
	if !ok || warehouse.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	c := *warehouse
	return &c, nil
}

func (r *fakeWarehouseRepo) FindByCode(_ context.Context, tenantID uuid.UUID, code string) (*catalog.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, warehouse := range r.warehouses {
		if warehouse.TenantID == tenantID && warehouse.Code == code {
			c := *warehouse
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeWarehouseRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]catalog.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]catalog.Warehouse, 0)
	for _, warehouse := range r.warehouses {
		if warehouse.TenantID == tenantID {
			result = append(result, *warehouse)
		}
	}
	return result, nil
}

func (r *fakeWarehouseRepo) Save(_ context.Context, warehouse *catalog.Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *warehouse
	r.warehouses[warehouse.ID] = &c
	return nil
}

// fakeLocationRepo is an in-memory LocationRepository
type fakeLocationRepo struct {
	mu        sync.Mutex
	locations map[uuid.UUID]*catalog.Location
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{locations: make(map[uuid.UUID]*catalog.Location)}
}

func (r *fakeLocationRepo) add(location *catalog.Location) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *location
	r.locations[location.ID] = &c
}

func (r *fakeLocationRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*catalog.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	location, ok := r.locations[id]
	if !ok || location.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	c := *location
	return &c, nil
}

func (r *fakeLocationRepo) FindByWarehouse(_ context.Context, tenantID, warehouseID uuid.UUID) ([]catalog.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]catalog.Location, 0)
	for _, location := range r.locations {
		if location.TenantID == tenantID && location.WarehouseID == warehouseID {
			result = append(result, *location)
		}
	}
	return result, nil
}

func (r *fakeLocationRepo) Save(_ context.Context, location *catalog.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *location
	r.locations[location.ID] = &c
	return nil
}

// fakeBinRepo is an in-memory BinRepository
type fakeBinRepo struct {
	mu   sync.Mutex
	bins map[uuid.UUID]*catalog.Bin
}

func newFakeBinRepo() *fakeBinRepo {
	return &fakeBinRepo{bins: make(map[uuid.UUID]*catalog.Bin)}
}

func (r *fakeBinRepo) add(bin *catalog.Bin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *bin
	r.bins[bin.ID] = &c
}

func (r *fakeBinRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*catalog.Bin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bin, ok := r.bins[id]
	if !ok || bin.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	c := *bin
	return &c, nil
}

func (r *fakeBinRepo) FindByLocation(_ context.Context, tenantID, locationID uuid.UUID) ([]catalog.Bin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]catalog.Bin, 0)
	for _, bin := range r.bins {
		if bin.TenantID == tenantID && bin.LocationID == locationID {
			result = append(result, *bin)
		}
	}
	return result, nil
}

func (r *fakeBinRepo) Save(_ context.Context, bin *catalog.Bin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *bin
	r.bins[bin.ID] = &c
	return nil
}

// catalogFixture bundles the fakes behind the catalog services
type catalogFixture struct {
	itemRepo      *fakeItemRepo
	warehouseRepo *fakeWarehouseRepo
	locationRepo  *fakeLocationRepo
	binRepo       *fakeBinRepo
}

func newCatalogFixture() *catalogFixture {
	return &catalogFixture{
		itemRepo:      newFakeItemRepo(),
		warehouseRepo: newFakeWarehouseRepo(),
		locationRepo:  newFakeLocationRepo(),
		binRepo:       newFakeBinRepo(),
	}
}

func (f *catalogFixture) itemService() *ItemService {
	return NewItemService(f.itemRepo)
}

func (f *catalogFixture) warehouseService() *WarehouseService {
	return NewWarehouseService(f.warehouseRepo, f.locationRepo, f.binRepo)
}

func (f *catalogFixture) validator() *MasterDataValidator {
	return NewMasterDataValidator(f.itemRepo, f.warehouseRepo, f.locationRepo, f.binRepo)
}
