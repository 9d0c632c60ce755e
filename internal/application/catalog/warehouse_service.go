package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/shared"
)

// WarehouseService handles the site hierarchy: warehouses, their locations
// and the bins inside them
type WarehouseService struct {
	warehouseRepo  catalog.WarehouseRepository
	locationRepo   catalog.LocationRepository
	binRepo        catalog.BinRepository
	eventPublisher shared.EventPublisher
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(
	warehouseRepo catalog.WarehouseRepository,
	locationRepo catalog.LocationRepository,
	binRepo catalog.BinRepository,
) *WarehouseService {
	return &WarehouseService{
		warehouseRepo: warehouseRepo,
		locationRepo:  locationRepo,
		binRepo:       binRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *WarehouseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateWarehouse creates a new warehouse
func (s *WarehouseService) CreateWarehouse(ctx context.Context, tenantID uuid.UUID, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	existing, err := s.warehouseRepo.FindByCode(ctx, tenantID, strings.ToUpper(req.Code))
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Warehouse with this code already exists")
	}

	warehouse, err := catalog.NewWarehouse(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if req.Address != "" {
		if err := warehouse.Update(req.Name, req.Address); err != nil {
			return nil, err
		}
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, &warehouse.TenantAggregateRoot)

	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// GetWarehouse retrieves a warehouse by ID
func (s *WarehouseService) GetWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, warehouseID)
	if err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// ListWarehouses retrieves warehouses for a tenant
func (s *WarehouseService) ListWarehouses(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]WarehouseResponse, error) {
	warehouses, err := s.warehouseRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return ToWarehouseResponses(warehouses), nil
}

// UpdateWarehouse updates a warehouse's basic information
func (s *WarehouseService) UpdateWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, warehouseID)
	if err != nil {
		return nil, err
	}

	name := warehouse.Name
	address := warehouse.Address
	if req.Name != nil {
		name = *req.Name
	}
	if req.Address != nil {
		address = *req.Address
	}
	if err := warehouse.Update(name, address); err != nil {
		return nil, err
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// SetDefaultWarehouse marks a warehouse as the tenant's default site and
// clears the flag on any warehouse that previously held it
func (s *WarehouseService) SetDefaultWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, warehouseID)
	if err != nil {
		return nil, err
	}
	if !warehouse.IsActive() {
		return nil, shared.NewDomainError("INACTIVE_WAREHOUSE", "Cannot set an inactive warehouse as default")
	}

	others, err := s.warehouseRepo.FindAllForTenant(ctx, tenantID, shared.Filter{})
	if err != nil {
		return nil, err
	}
	for i := range others {
		if others[i].IsDefault && others[i].ID != warehouseID {
			others[i].SetDefault(false)
			if err := s.warehouseRepo.Save(ctx, &others[i]); err != nil {
				return nil, err
			}
		}
	}

	warehouse.SetDefault(true)
	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// ActivateWarehouse sets the warehouse active
func (s *WarehouseService) ActivateWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, warehouseID)
	if err != nil {
		return nil, err
	}
	warehouse.Activate()
	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// DeactivateWarehouse sets the warehouse inactive. Stock in the warehouse
// stays queryable; new documents just stop referencing it.
func (s *WarehouseService) DeactivateWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, warehouseID)
	if err != nil {
		return nil, err
	}
	warehouse.Deactivate()
	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// CreateLocation creates a location within a warehouse
func (s *WarehouseService) CreateLocation(ctx context.Context, tenantID, warehouseID uuid.UUID, req CreateLocationRequest) (*LocationResponse, error) {
	warehouse, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, warehouseID)
	if err != nil {
		return nil, err
	}
	if !warehouse.IsActive() {
		return nil, shared.NewDomainError("INACTIVE_WAREHOUSE", "Warehouse "+warehouse.Code+" is not active")
	}

	location, err := catalog.NewLocation(tenantID, warehouseID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.locationRepo.Save(ctx, location); err != nil {
		return nil, err
	}
	response := ToLocationResponse(location)
	return &response, nil
}

// ListLocations retrieves the locations within a warehouse
func (s *WarehouseService) ListLocations(ctx context.Context, tenantID, warehouseID uuid.UUID) ([]LocationResponse, error) {
	locations, err := s.locationRepo.FindByWarehouse(ctx, tenantID, warehouseID)
	if err != nil {
		return nil, err
	}
	return ToLocationResponses(locations), nil
}

// CreateBin creates a bin within a location
func (s *WarehouseService) CreateBin(ctx context.Context, tenantID, locationID uuid.UUID, req CreateBinRequest) (*BinResponse, error) {
	location, err := s.locationRepo.FindByIDForTenant(ctx, tenantID, locationID)
	if err != nil {
		return nil, err
	}
	if !location.IsActive() {
		return nil, shared.NewDomainError("INACTIVE_LOCATION", "Location "+location.Code+" is not active")
	}

	bin, err := catalog.NewBin(tenantID, location.WarehouseID, locationID, req.Code)
	if err != nil {
		return nil, err
	}
	if err := s.binRepo.Save(ctx, bin); err != nil {
		return nil, err
	}
	response := ToBinResponse(bin)
	return &response, nil
}

// ListBins retrieves the bins within a location
func (s *WarehouseService) ListBins(ctx context.Context, tenantID, locationID uuid.UUID) ([]BinResponse, error) {
	bins, err := s.binRepo.FindByLocation(ctx, tenantID, locationID)
	if err != nil {
		return nil, err
	}
	return ToBinResponses(bins), nil
}

func (s *WarehouseService) publishEvents(ctx context.Context, root *shared.TenantAggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	events := root.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	root.ClearDomainEvents()
}
