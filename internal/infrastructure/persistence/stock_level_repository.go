package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockLevelRepository implements StockLevelRepository using GORM
type GormStockLevelRepository struct {
	db *gorm.DB
}

// NewGormStockLevelRepository creates a new GormStockLevelRepository
func NewGormStockLevelRepository(db *gorm.DB) *GormStockLevelRepository {
	return &GormStockLevelRepository{db: db}
}

// FindByID finds a stock level by its ID
func (r *GormStockLevelRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.StockLevel, error) {
	var level ledger.StockLevel
	if err := r.db.WithContext(ctx).First(&level, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

// FindByKey finds the stock level row for a key
func (r *GormStockLevelRepository) FindByKey(ctx context.Context, key ledger.StockKey) (*ledger.StockLevel, error) {
	var level ledger.StockLevel
	if err := r.keyQuery(ctx, key).First(&level).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

// GetOrCreate finds the stock level for a key, creating a zero row if absent.
// Creation uses ON CONFLICT DO NOTHING so two writers racing on the same key
// both end up reading the single surviving row.
func (r *GormStockLevelRepository) GetOrCreate(ctx context.Context, key ledger.StockKey) (*ledger.StockLevel, error) {
	level, err := r.FindByKey(ctx, key)
	if err == nil {
		return level, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	level, err = ledger.NewStockLevel(key)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "tenant_id"}, {Name: "item_id"}, {Name: "warehouse_id"},
				{Name: "location_id"}, {Name: "bin_id"}, {Name: "lot_id"}, {Name: "serial_id"},
			},
			DoNothing: true,
		}).
		Create(level)
	if result.Error != nil {
		return nil, result.Error
	}

	// Lost the race; fetch the row the other writer created
	if result.RowsAffected == 0 {
		return r.FindByKey(ctx, key)
	}

	return level, nil
}

// FindByItem finds all stock rows for an item within a tenant
func (r *GormStockLevelRepository) FindByItem(ctx context.Context, tenantID, itemID uuid.UUID) ([]ledger.StockLevel, error) {
	var levels []ledger.StockLevel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_id = ?", tenantID, itemID).
		Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// FindByItemAndWarehouse finds all stock rows for an item in one warehouse
func (r *GormStockLevelRepository) FindByItemAndWarehouse(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) ([]ledger.StockLevel, error) {
	var levels []ledger.StockLevel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_id = ? AND warehouse_id = ?", tenantID, itemID, warehouseID).
		Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// FindByLot finds all stock rows pinned to a lot
func (r *GormStockLevelRepository) FindByLot(ctx context.Context, tenantID, lotID uuid.UUID) ([]ledger.StockLevel, error) {
	var levels []ledger.StockLevel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND lot_id = ?", tenantID, lotID).
		Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// FindAllForTenant finds all stock rows for a tenant
func (r *GormStockLevelRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ledger.StockLevel, error) {
	var levels []ledger.StockLevel
	query := r.db.WithContext(ctx).Model(&ledger.StockLevel{}).Where("tenant_id = ?", tenantID)

	for key, value := range filter.Filters {
		switch key {
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "item_id":
			query = query.Where("item_id = ?", value)
		case "lot_id":
			query = query.Where("lot_id = ?", value)
		case "has_stock":
			if value == true {
				query = query.Where("on_hand > 0")
			}
		}
	}

	query = applyFilter(query, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, StockLevelSortFields, "created_at")

	if err := query.Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// Save creates or updates a stock level without optimistic locking
func (r *GormStockLevelRepository) Save(ctx context.Context, level *ledger.StockLevel) error {
	return r.db.WithContext(ctx).Save(level).Error
}

// SaveWithLock updates a stock level using its version as a compare-and-swap
// token. The in-memory aggregate already incremented its version, so the row
// must still hold the previous one.
func (r *GormStockLevelRepository) SaveWithLock(ctx context.Context, level *ledger.StockLevel) error {
	result := r.db.WithContext(ctx).
		Model(level).
		Where("id = ? AND version = ?", level.ID, level.Version-1).
		Updates(map[string]interface{}{
			"on_hand":          level.OnHand,
			"reserved":         level.Reserved,
			"allocated":        level.Allocated,
			"last_movement_at": level.LastMovementAt,
			"version":          level.Version,
			"updated_at":       level.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func (r *GormStockLevelRepository) keyQuery(ctx context.Context, key ledger.StockKey) *gorm.DB {
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_id = ? AND warehouse_id = ?", key.TenantID, key.ItemID, key.WarehouseID)
	query = nullableDimension(query, "location_id", key.LocationID)
	query = nullableDimension(query, "bin_id", key.BinID)
	query = nullableDimension(query, "lot_id", key.LotID)
	query = nullableDimension(query, "serial_id", key.SerialID)
	return query
}

// nullableDimension matches an optional key dimension; a nil pointer means
// the row must hold NULL, not "any value"
func nullableDimension(query *gorm.DB, column string, id *uuid.UUID) *gorm.DB {
	if id == nil {
		return query.Where(column + " IS NULL")
	}
	return query.Where(column+" = ?", *id)
}

// Ensure GormStockLevelRepository implements StockLevelRepository
var _ ledger.StockLevelRepository = (*GormStockLevelRepository)(nil)
