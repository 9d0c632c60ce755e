package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTransactionRepository implements the append-only transaction log using GORM.
// Transactions are never updated or deleted once written.
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create appends a transaction to the log
func (r *GormTransactionRepository) Create(ctx context.Context, tx *ledger.InventoryTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.InventoryTransaction, error) {
	var tx ledger.InventoryTransaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindBySourceLine finds the transaction already posted for one source
// document line, if any
func (r *GormTransactionRepository) FindBySourceLine(ctx context.Context, tenantID uuid.UUID, sourceType ledger.SourceType, sourceID, sourceLineID string, txType ledger.TransactionType) (*ledger.InventoryTransaction, error) {
	var tx ledger.InventoryTransaction
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND source_type = ? AND source_id = ? AND source_line_id = ? AND transaction_type = ?",
			tenantID, sourceType, sourceID, sourceLineID, txType).
		First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// Query finds transactions matching the query, newest first
func (r *GormTransactionRepository) Query(ctx context.Context, tenantID uuid.UUID, query ledger.TransactionQuery, filter shared.Filter) ([]ledger.InventoryTransaction, error) {
	var txs []ledger.InventoryTransaction
	q := r.applyQuery(ctx, tenantID, query)
	q = applyFilter(q, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, TransactionSortFields, "transaction_date")

	if err := q.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// CountForQuery counts transactions matching the query
func (r *GormTransactionRepository) CountForQuery(ctx context.Context, tenantID uuid.UUID, query ledger.TransactionQuery) (int64, error) {
	var count int64
	if err := r.applyQuery(ctx, tenantID, query).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormTransactionRepository) applyQuery(ctx context.Context, tenantID uuid.UUID, query ledger.TransactionQuery) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&ledger.InventoryTransaction{}).
		Where("tenant_id = ?", tenantID)

	if query.ItemID != nil {
		q = q.Where("item_id = ?", *query.ItemID)
	}
	if query.WarehouseID != nil {
		q = q.Where("warehouse_id = ?", *query.WarehouseID)
	}
	if query.LotID != nil {
		q = q.Where("lot_id = ?", *query.LotID)
	}
	if query.Type != nil {
		q = q.Where("transaction_type = ?", *query.Type)
	}
	if query.SourceType != nil {
		q = q.Where("source_type = ?", *query.SourceType)
	}
	if query.SourceID != "" {
		q = q.Where("source_id = ?", query.SourceID)
	}
	if query.From != nil {
		q = q.Where("transaction_date >= ?", *query.From)
	}
	if query.To != nil {
		q = q.Where("transaction_date < ?", *query.To)
	}

	return q
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ ledger.TransactionRepository = (*GormTransactionRepository)(nil)
