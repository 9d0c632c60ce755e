package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/shared"
)

// ItemService handles item master-data operations
type ItemService struct {
	itemRepo       catalog.ItemRepository
	eventPublisher shared.EventPublisher
}

// NewItemService creates a new ItemService
func NewItemService(itemRepo catalog.ItemRepository) *ItemService {
	return &ItemService{itemRepo: itemRepo}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ItemService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new item
func (s *ItemService) Create(ctx context.Context, tenantID uuid.UUID, req CreateItemRequest) (*ItemResponse, error) {
	existing, err := s.itemRepo.FindBySKU(ctx, tenantID, strings.ToUpper(req.SKU))
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Item with this SKU already exists")
	}

	item, err := catalog.NewItem(tenantID, req.SKU, req.Name, req.Unit)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := item.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.Barcode != "" {
		if err := item.SetBarcode(req.Barcode); err != nil {
			return nil, err
		}
	}
	if req.LotTracked {
		item.EnableLotTracking()
	}
	if req.SerialTracked {
		item.EnableSerialTracking()
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, &item.TenantAggregateRoot)

	response := ToItemResponse(item)
	return &response, nil
}

// Get retrieves an item by ID
func (s *ItemService) Get(ctx context.Context, tenantID, itemID uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// GetBySKU retrieves an item by SKU
func (s *ItemService) GetBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*ItemResponse, error) {
	item, err := s.itemRepo.FindBySKU(ctx, tenantID, sku)
	if err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// List retrieves items for a tenant with a total count
func (s *ItemService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*ItemListResponse, error) {
	items, err := s.itemRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.itemRepo.Count(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return &ItemListResponse{Items: ToItemResponses(items), Total: total}, nil
}

// Update updates an item's basic information
func (s *ItemService) Update(ctx context.Context, tenantID, itemID uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}

	name := item.Name
	description := item.Description
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if err := item.Update(name, description); err != nil {
		return nil, err
	}
	if req.Barcode != nil {
		if err := item.SetBarcode(*req.Barcode); err != nil {
			return nil, err
		}
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, &item.TenantAggregateRoot)

	response := ToItemResponse(item)
	return &response, nil
}

// SetReplenishment sets the reorder point, reorder quantity and lead time
func (s *ItemService) SetReplenishment(ctx context.Context, tenantID, itemID uuid.UUID, req SetReplenishmentRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	if err := item.SetReplenishment(req.ReorderPoint, req.ReorderQty, req.LeadTimeDays); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// Activate sets the item status to active
func (s *ItemService) Activate(ctx context.Context, tenantID, itemID uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	if err := item.Activate(); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, &item.TenantAggregateRoot)

	response := ToItemResponse(item)
	return &response, nil
}

// Deactivate sets the item status to inactive. Existing stock stays
// queryable; the item just stops appearing on new documents.
func (s *ItemService) Deactivate(ctx context.Context, tenantID, itemID uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	item.Deactivate()
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, &item.TenantAggregateRoot)

	response := ToItemResponse(item)
	return &response, nil
}

// Discontinue permanently retires the item
func (s *ItemService) Discontinue(ctx context.Context, tenantID, itemID uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	item.Discontinue()
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, &item.TenantAggregateRoot)

	response := ToItemResponse(item)
	return &response, nil
}

func (s *ItemService) publishEvents(ctx context.Context, root *shared.TenantAggregateRoot) {
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
