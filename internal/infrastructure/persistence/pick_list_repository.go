package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/outbound"
	"github.com/wms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPickListRepository implements PickListRepository using GORM
type GormPickListRepository struct {
	db *gorm.DB
}

// NewGormPickListRepository creates a new GormPickListRepository
func NewGormPickListRepository(db *gorm.DB) *GormPickListRepository {
	return &GormPickListRepository{db: db}
}

// FindByID finds a pick list with its lines by ID
func (r *GormPickListRepository) FindByID(ctx context.Context, id uuid.UUID) (*outbound.PickList, error) {
	var pl outbound.PickList
	if err := r.db.WithContext(ctx).Preload("Lines").First(&pl, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pl, nil
}

// FindByIDForTenant finds a pick list by ID within a tenant
func (r *GormPickListRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*outbound.PickList, error) {
	var pl outbound.PickList
	if err := r.db.WithContext(ctx).Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&pl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pl, nil
}

// FindByNumber finds a pick list by its number within a tenant
func (r *GormPickListRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*outbound.PickList, error) {
	var pl outbound.PickList
	if err := r.db.WithContext(ctx).Preload("Lines").
		Where("tenant_id = ? AND number = ?", tenantID, number).
		First(&pl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pl, nil
}

// FindByStatus finds pick lists in a given status for a tenant
func (r *GormPickListRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status outbound.PickListStatus, filter shared.Filter) ([]outbound.PickList, error) {
	var lists []outbound.PickList
	query := r.db.WithContext(ctx).Model(&outbound.PickList{}).Preload("Lines").
		Where("tenant_id = ? AND status = ?", tenantID, status)
	query = applyFilter(query, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, DocumentSortFields, "created_at")

	if err := query.Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

// FindAllForTenant finds all pick lists for a tenant
func (r *GormPickListRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]outbound.PickList, error) {
	var lists []outbound.PickList
	query := r.db.WithContext(ctx).Model(&outbound.PickList{}).Preload("Lines").
		Where("tenant_id = ?", tenantID)
	query = applyFilter(query, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, DocumentSortFields, "created_at")

	if err := query.Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

// Save creates or updates a pick list and its lines
func (r *GormPickListRepository) Save(ctx context.Context, pl *outbound.PickList) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(pl).Error
}

// Ensure GormPickListRepository implements PickListRepository
var _ outbound.PickListRepository = (*GormPickListRepository)(nil)
