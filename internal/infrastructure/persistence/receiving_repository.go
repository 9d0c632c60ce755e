package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/receiving"
	"github.com/wms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds an order with its lines by ID
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*receiving.PurchaseOrder, error) {
	var po receiving.PurchaseOrder
	if err := r.db.WithContext(ctx).Preload("Items").First(&po, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// FindByIDForTenant finds an order by ID within a tenant
func (r *GormPurchaseOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*receiving.PurchaseOrder, error) {
	var po receiving.PurchaseOrder
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&po).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// FindByNumber finds an order by its number within a tenant
func (r *GormPurchaseOrderRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*receiving.PurchaseOrder, error) {
	var po receiving.PurchaseOrder
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("tenant_id = ? AND number = ?", tenantID, number).
		First(&po).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// FindByStatus finds orders in a given status for a tenant
func (r *GormPurchaseOrderRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status receiving.PurchaseOrderStatus, filter shared.Filter) ([]receiving.PurchaseOrder, error) {
	var orders []receiving.PurchaseOrder
	query := r.db.WithContext(ctx).Model(&receiving.PurchaseOrder{}).Preload("Items").
		Where("tenant_id = ? AND status = ?", tenantID, status)
	query = applyFilter(query, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, DocumentSortFields, "created_at")

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindAllForTenant finds all orders for a tenant
func (r *GormPurchaseOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]receiving.PurchaseOrder, error) {
	var orders []receiving.PurchaseOrder
	query := r.db.WithContext(ctx).Model(&receiving.PurchaseOrder{}).Preload("Items").
		Where("tenant_id = ?", tenantID)
	query = applyFilter(query, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, DocumentSortFields, "created_at")

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates an order and its lines
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, po *receiving.PurchaseOrder) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(po).Error
}

// GormGoodsReceiptRepository implements GoodsReceiptRepository using GORM
type GormGoodsReceiptRepository struct {
	db *gorm.DB
}

// NewGormGoodsReceiptRepository creates a new GormGoodsReceiptRepository
func NewGormGoodsReceiptRepository(db *gorm.DB) *GormGoodsReceiptRepository {
	return &GormGoodsReceiptRepository{db: db}
}

// FindByID finds a receipt with its lines by ID
func (r *GormGoodsReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*receiving.GoodsReceipt, error) {
	var gr receiving.GoodsReceipt
	if err := r.db.WithContext(ctx).Preload("Lines").First(&gr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &gr, nil
}

// FindByIDForTenant finds a receipt by ID within a tenant
func (r *GormGoodsReceiptRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*receiving.GoodsReceipt, error) {
	var gr receiving.GoodsReceipt
	if err := r.db.WithContext(ctx).Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&gr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &gr, nil
}

// FindByPurchaseOrder finds receipts posted against an order
func (r *GormGoodsReceiptRepository) FindByPurchaseOrder(ctx context.Context, tenantID, poID uuid.UUID) ([]receiving.GoodsReceipt, error) {
	var receipts []receiving.GoodsReceipt
	if err := r.db.WithContext(ctx).Preload("Lines").
		Where("tenant_id = ? AND purchase_order_id = ?", tenantID, poID).
		Order("created_at ASC").
		Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// FindAllForTenant finds all receipts for a tenant
func (r *GormGoodsReceiptRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]receiving.GoodsReceipt, error) {
	var receipts []receiving.GoodsReceipt
	query := r.db.WithContext(ctx).Model(&receiving.GoodsReceipt{}).Preload("Lines").
		Where("tenant_id = ?", tenantID)
	query = applyFilter(query, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, DocumentSortFields, "created_at")

	if err := query.Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// Save creates or updates a receipt and its lines
func (r *GormGoodsReceiptRepository) Save(ctx context.Context, gr *receiving.GoodsReceipt) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(gr).Error
}

// GormPutAwayRepository implements PutAwayRepository using GORM
type GormPutAwayRepository struct {
	db *gorm.DB
}

// NewGormPutAwayRepository creates a new GormPutAwayRepository
func NewGormPutAwayRepository(db *gorm.DB) *GormPutAwayRepository {
	return &GormPutAwayRepository{db: db}
}

// FindByID finds a task with its lines by ID
func (r *GormPutAwayRepository) FindByID(ctx context.Context, id uuid.UUID) (*receiving.PutAwayTask, error) {
	var task receiving.PutAwayTask
	if err := r.db.WithContext(ctx).Preload("Items").First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// FindByIDForTenant finds a task by ID within a tenant
func (r *GormPutAwayRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*receiving.PutAwayTask, error) {
	var task receiving.PutAwayTask
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// FindByGoodsReceipt finds the task opened for a goods receipt
func (r *GormPutAwayRepository) FindByGoodsReceipt(ctx context.Context, tenantID, goodsReceiptID uuid.UUID) (*receiving.PutAwayTask, error) {
	var task receiving.PutAwayTask
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("tenant_id = ? AND goods_receipt_id = ?", tenantID, goodsReceiptID).
		First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// FindOpen finds tasks not yet completed or cancelled for a tenant
func (r *GormPutAwayRepository) FindOpen(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]receiving.PutAwayTask, error) {
	var tasks []receiving.PutAwayTask
	query := r.db.WithContext(ctx).Model(&receiving.PutAwayTask{}).Preload("Items").
		Where("tenant_id = ? AND status NOT IN ?", tenantID,
			[]receiving.PutAwayStatus{receiving.PutAwayStatusCompleted, receiving.PutAwayStatusCancelled})
	query = applyFilter(query, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, DocumentSortFields, "created_at")

	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Save creates or updates a task and its lines
func (r *GormPutAwayRepository) Save(ctx context.Context, task *receiving.PutAwayTask) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(task).Error
}

// Ensure the repositories implement their interfaces
var _ receiving.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
var _ receiving.GoodsReceiptRepository = (*GormGoodsReceiptRepository)(nil)
var _ receiving.PutAwayRepository = (*GormPutAwayRepository)(nil)
