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

// GormReservationRepository implements ReservationRepository using GORM
type GormReservationRepository struct {
	db *gorm.DB
}

// NewGormReservationRepository creates a new GormReservationRepository
func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

// FindByID finds a reservation by its ID
func (r *GormReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Reservation, error) {
	var reservation ledger.Reservation
	if err := r.db.WithContext(ctx).First(&reservation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

// FindByIDForTenant finds a reservation by ID within a tenant
func (r *GormReservationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Reservation, error) {
	var reservation ledger.Reservation
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&reservation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

// FindActiveByItem finds active reservations for an item in a warehouse
func (r *GormReservationRepository) FindActiveByItem(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) ([]ledger.Reservation, error) {
	var reservations []ledger.Reservation
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_id = ? AND warehouse_id = ? AND status = ?",
			tenantID, itemID, warehouseID, ledger.ReservationStatusActive).
		Order("created_at ASC").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindByReference finds reservations linked to a source document
func (r *GormReservationRepository) FindByReference(ctx context.Context, tenantID uuid.UUID, refType, refID string) ([]ledger.Reservation, error) {
	var reservations []ledger.Reservation
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND reference_type = ? AND reference_id = ?", tenantID, refType, refID).
		Order("created_at ASC").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindExpired finds active reservations whose deadline has passed.
// Runs across tenants for the scheduler sweep.
func (r *GormReservationRepository) FindExpired(ctx context.Context, now time.Time, limit int) ([]ledger.Reservation, error) {
	var reservations []ledger.Reservation
	query := r.db.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", ledger.ReservationStatusActive, now).
		Order("expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindAllForTenant finds all reservations for a tenant
func (r *GormReservationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ledger.Reservation, error) {
	var reservations []ledger.Reservation
	query := r.db.WithContext(ctx).Model(&ledger.Reservation{}).Where("tenant_id = ?", tenantID)

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "item_id":
			query = query.Where("item_id = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		}
	}

	query = applyFilter(query, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, ReservationSortFields, "created_at")

	if err := query.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// Save creates or updates a reservation
func (r *GormReservationRepository) Save(ctx context.Context, reservation *ledger.Reservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

// SaveWithLock updates a reservation using its version as a compare-and-swap token
func (r *GormReservationRepository) SaveWithLock(ctx context.Context, reservation *ledger.Reservation) error {
	result := r.db.WithContext(ctx).
		Model(reservation).
		Where("id = ? AND version = ?", reservation.ID, reservation.Version-1).
		Updates(map[string]interface{}{
			"quantity":    reservation.Quantity,
			"status":      reservation.Status,
			"expires_at":  reservation.ExpiresAt,
			"released_at": reservation.ReleasedAt,
			"consumed_at": reservation.ConsumedAt,
			"version":     reservation.Version,
			"updated_at":  reservation.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormReservationRepository implements ReservationRepository
var _ ledger.ReservationRepository = (*GormReservationRepository)(nil)
