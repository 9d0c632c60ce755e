package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormLotRepository implements LotRepository using GORM
type GormLotRepository struct {
	db *gorm.DB
}

// NewGormLotRepository creates a new GormLotRepository
func NewGormLotRepository(db *gorm.DB) *GormLotRepository {
	return &GormLotRepository{db: db}
}

// FindByID finds a lot by its ID
func (r *GormLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.LotNumber, error) {
	var lot ledger.LotNumber
	if err := r.db.WithContext(ctx).First(&lot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindByNumber finds a lot by item and lot number
func (r *GormLotRepository) FindByNumber(ctx context.Context, tenantID, itemID uuid.UUID, number string) (*ledger.LotNumber, error) {
	var lot ledger.LotNumber
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_id = ? AND number = ?", tenantID, itemID, number).
		First(&lot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindByItem finds all lots for an item
func (r *GormLotRepository) FindByItem(ctx context.Context, tenantID, itemID uuid.UUID) ([]ledger.LotNumber, error) {
	var lots []ledger.LotNumber
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_id = ?", tenantID, itemID).
		Order("received_at ASC").
		Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindExpiringBefore finds lots whose expiry date falls before the cutoff
func (r *GormLotRepository) FindExpiringBefore(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) ([]ledger.LotNumber, error) {
	var lots []ledger.LotNumber
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND expiry_date IS NOT NULL AND expiry_date < ?", tenantID, cutoff).
		Order("expiry_date ASC").
		Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// Save creates or updates a lot
func (r *GormLotRepository) Save(ctx context.Context, lot *ledger.LotNumber) error {
	return r.db.WithContext(ctx).Save(lot).Error
}

// GormSerialRepository implements SerialRepository using GORM
type GormSerialRepository struct {
	db *gorm.DB
}

// NewGormSerialRepository creates a new GormSerialRepository
func NewGormSerialRepository(db *gorm.DB) *GormSerialRepository {
	return &GormSerialRepository{db: db}
}

// FindByID finds a serial by its ID
func (r *GormSerialRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.SerialNumber, error) {
	var serial ledger.SerialNumber
	if err := r.db.WithContext(ctx).First(&serial, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &serial, nil
}

// FindByNumber finds a serial by item and serial number
func (r *GormSerialRepository) FindByNumber(ctx context.Context, tenantID, itemID uuid.UUID, number string) (*ledger.SerialNumber, error) {
	var serial ledger.SerialNumber
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_id = ? AND number = ?", tenantID, itemID, number).
		First(&serial).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &serial, nil
}

// FindByItemAndStatus finds serials for an item in a given status
func (r *GormSerialRepository) FindByItemAndStatus(ctx context.Context, tenantID, itemID uuid.UUID, status ledger.SerialStatus) ([]ledger.SerialNumber, error) {
	var serials []ledger.SerialNumber
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_id = ? AND status = ?", tenantID, itemID, status).
		Order("received_at ASC").
		Find(&serials).Error; err != nil {
		return nil, err
	}
	return serials, nil
}

// Save creates or updates a serial
func (r *GormSerialRepository) Save(ctx context.Context, serial *ledger.SerialNumber) error {
	return r.db.WithContext(ctx).Save(serial).Error
}

// Ensure the repositories implement their interfaces
var _ ledger.LotRepository = (*GormLotRepository)(nil)
var _ ledger.SerialRepository = (*GormSerialRepository)(nil)
