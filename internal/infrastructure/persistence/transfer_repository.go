package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/transfer"
	"gorm.io/gorm"
)

// GormTransferRepository implements TransferRepository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// FindByID finds a transfer with its lines by ID
func (r *GormTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*transfer.InventoryTransfer, error) {
	var t transfer.InventoryTransfer
	if err := r.db.WithContext(ctx).Preload("Lines").First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByIDForTenant finds a transfer by ID within a tenant
func (r *GormTransferRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*transfer.InventoryTransfer, error) {
	var t transfer.InventoryTransfer
	if err := r.db.WithContext(ctx).Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByNumber finds a transfer by its number within a tenant
func (r *GormTransferRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*transfer.InventoryTransfer, error) {
	var t transfer.InventoryTransfer
	if err := r.db.WithContext(ctx).Preload("Lines").
		Where("tenant_id = ? AND number = ?", tenantID, number).
		First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByStatus finds transfers in a given status for a tenant
func (r *GormTransferRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status transfer.TransferStatus, filter shared.Filter) ([]transfer.InventoryTransfer, error) {
	var transfers []transfer.InventoryTransfer
	query := r.db.WithContext(ctx).Model(&transfer.InventoryTransfer{}).Preload("Lines").
		Where("tenant_id = ? AND status = ?", tenantID, status)
	query = applyFilter(query, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, DocumentSortFields, "created_at")

	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// FindOverdue finds shipped transfers past their expected arrival that have
// not yet been flagged. Runs across tenants for the scheduler.
func (r *GormTransferRepository) FindOverdue(ctx context.Context, now time.Time, limit int) ([]transfer.InventoryTransfer, error) {
	var transfers []transfer.InventoryTransfer
	query := r.db.WithContext(ctx).Preload("Lines").
		Where("status = ? AND overdue_noted = FALSE AND expected_at IS NOT NULL AND expected_at < ?",
			transfer.TransferStatusShipped, now).
		Order("expected_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// FindAllForTenant finds all transfers for a tenant
func (r *GormTransferRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]transfer.InventoryTransfer, error) {
	var transfers []transfer.InventoryTransfer
	query := r.db.WithContext(ctx).Model(&transfer.InventoryTransfer{}).Preload("Lines").
		Where("tenant_id = ?", tenantID)
	query = applyFilter(query, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, DocumentSortFields, "created_at")

	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// Save creates or updates a transfer and its lines
func (r *GormTransferRepository) Save(ctx context.Context, t *transfer.InventoryTransfer) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(t).Error
}

// Ensure GormTransferRepository implements TransferRepository
var _ transfer.TransferRepository = (*GormTransferRepository)(nil)
