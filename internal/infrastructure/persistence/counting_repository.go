package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/counting"
	"github.com/wms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCycleCountRepository implements CycleCountRepository using GORM
type GormCycleCountRepository struct {
	db *gorm.DB
}

// NewGormCycleCountRepository creates a new GormCycleCountRepository
func NewGormCycleCountRepository(db *gorm.DB) *GormCycleCountRepository {
	return &GormCycleCountRepository{db: db}
}

// FindByID finds a cycle count with its lines by ID
func (r *GormCycleCountRepository) FindByID(ctx context.Context, id uuid.UUID) (*counting.CycleCount, error) {
	var cc counting.CycleCount
	if err := r.db.WithContext(ctx).Preload("Lines").First(&cc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cc, nil
}

// FindByIDForTenant finds a cycle count by ID within a tenant
func (r *GormCycleCountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*counting.CycleCount, error) {
	var cc counting.CycleCount
	if err := r.db.WithContext(ctx).Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&cc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cc, nil
}

// FindByNumber finds a cycle count by its number within a tenant
func (r *GormCycleCountRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*counting.CycleCount, error) {
	var cc counting.CycleCount
	if err := r.db.WithContext(ctx).Preload("Lines").
		Where("tenant_id = ? AND number = ?", tenantID, number).
		First(&cc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cc, nil
}

// FindByStatus finds cycle counts in a given status for a tenant
func (r *GormCycleCountRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status counting.CycleCountStatus, filter shared.Filter) ([]counting.CycleCount, error) {
	var counts []counting.CycleCount
	query := r.db.WithContext(ctx).Model(&counting.CycleCount{}).Preload("Lines").
		Where("tenant_id = ? AND status = ?", tenantID, status)
	query = applyFilter(query, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, DocumentSortFields, "created_at")

	if err := query.Find(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// FindAllForTenant finds all cycle counts for a tenant
func (r *GormCycleCountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]counting.CycleCount, error) {
	var counts []counting.CycleCount
	query := r.db.WithContext(ctx).Model(&counting.CycleCount{}).Preload("Lines").
		Where("tenant_id = ?", tenantID)
	query = applyFilter(query, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, DocumentSortFields, "created_at")

	if err := query.Find(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// Save creates or updates a cycle count and its lines
func (r *GormCycleCountRepository) Save(ctx context.Context, cc *counting.CycleCount) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(cc).Error
}

// GormAdjustmentRepository implements AdjustmentRepository using GORM
type GormAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormAdjustmentRepository creates a new GormAdjustmentRepository
func NewGormAdjustmentRepository(db *gorm.DB) *GormAdjustmentRepository {
	return &GormAdjustmentRepository{db: db}
}

// FindByID finds an adjustment by ID
func (r *GormAdjustmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*counting.StockAdjustment, error) {
	var adj counting.StockAdjustment
	if err := r.db.WithContext(ctx).First(&adj, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &adj, nil
}

// FindByIDForTenant finds an adjustment by ID within a tenant
func (r *GormAdjustmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*counting.StockAdjustment, error) {
	var adj counting.StockAdjustment
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&adj).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &adj, nil
}

// FindPending finds pending adjustments for a tenant
func (r *GormAdjustmentRepository) FindPending(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]counting.StockAdjustment, error) {
	var adjustments []counting.StockAdjustment
	query := r.db.WithContext(ctx).Model(&counting.StockAdjustment{}).
		Where("tenant_id = ? AND status = ?", tenantID, counting.AdjustmentStatusPending)
	query = applyFilter(query, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, DocumentSortFields, "created_at")

	if err := query.Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

// FindByCycleCount finds adjustments raised by a cycle count
func (r *GormAdjustmentRepository) FindByCycleCount(ctx context.Context, tenantID, cycleCountID uuid.UUID) ([]counting.StockAdjustment, error) {
	var adjustments []counting.StockAdjustment
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND cycle_count_id = ?", tenantID, cycleCountID).
		Order("created_at ASC").
		Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

// FindAllForTenant finds all adjustments for a tenant
func (r *GormAdjustmentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]counting.StockAdjustment, error) {
	var adjustments []counting.StockAdjustment
	query := r.db.WithContext(ctx).Model(&counting.StockAdjustment{}).
		Where("tenant_id = ?", tenantID)
	query = applyFilter(query, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, DocumentSortFields, "created_at")

	if err := query.Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

// Save creates or updates an adjustment
func (r *GormAdjustmentRepository) Save(ctx context.Context, a *counting.StockAdjustment) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// Ensure the repositories implement their interfaces
var _ counting.CycleCountRepository = (*GormCycleCountRepository)(nil)
var _ counting.AdjustmentRepository = (*GormAdjustmentRepository)(nil)
