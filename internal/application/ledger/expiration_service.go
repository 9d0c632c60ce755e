package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// expiredBatchSize caps one sweep so a backlog never blocks the scheduler tick
const expiredBatchSize = 200

// ReservationExpirationService expires active reservations whose deadline has
// passed, returning their stock to the available pool
type ReservationExpirationService struct {
	scope           TransactionScope
	reservationRepo ledger.ReservationRepository
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
}

// NewReservationExpirationService creates a new ReservationExpirationService
func NewReservationExpirationService(
	scope TransactionScope,
	reservationRepo ledger.ReservationRepository,
	logger *zap.Logger,
) *ReservationExpirationService {
	return &ReservationExpirationService{
		scope:           scope,
		reservationRepo: reservationRepo,
		logger:          logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReservationExpirationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ExpirationStats contains statistics about one expiration sweep
type ExpirationStats struct {
	TotalExpired int       `json:"total_expired"`
	Released     int       `json:"released"`
	Skipped      int       `json:"skipped"`
	Failed       int       `json:"failed"`
	ProcessedAt  time.Time `json:"processed_at"`
}

// ExpireReservations finds active past-expiry reservations and expires each
// one with a compensating balance change. A reservation consumed between the
// find and the expire loses the race and is skipped, not failed.
func (s *ReservationExpirationService) ExpireReservations(ctx context.Context) (*ExpirationStats, error) {
	now := time.Now()
	stats := &ExpirationStats{ProcessedAt: now}

	expired, err := s.reservationRepo.FindExpired(ctx, now, expiredBatchSize)
	if err != nil {
		s.logger.Error("Failed to find expired reservations", zap.Error(err))
		return nil, err
	}

	stats.TotalExpired = len(expired)
	if stats.TotalExpired == 0 {
		s.logger.Debug("No expired reservations found")
		return stats, nil
	}

	s.logger.Info("Found expired reservations", zap.Int("count", stats.TotalExpired))

	for i := range expired {
		err := s.expireOne(ctx, &expired[i], now)
		switch {
		case err == nil:
			stats.Released++
		case errors.Is(err, shared.ErrInvalidState):
			// Consumed or released while the sweep was running
			stats.Skipped++
		default:
			s.logger.Error("Failed to expire reservation",
				zap.String("reservation_id", expired[i].ID.String()),
				zap.String("number", expired[i].Number),
				zap.Error(err),
			)
			stats.Failed++
		}
	}

	s.logger.Info("Completed reservation expiration sweep",
		zap.Int("total", stats.TotalExpired),
		zap.Int("released", stats.Released),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
	)

	return stats, nil
}

// expireOne expires a single reservation inside one unit of work, retrying
// on version conflicts with a fresh read
func (s *ReservationExpirationService) expireOne(ctx context.Context, stale *ledger.Reservation, now time.Time) error {
	var lastErr error
	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		var retry bool
		err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			reservation, err := repos.ReservationRepo().FindByID(ctx, stale.ID)
			if err != nil {
				return err
			}
			if !reservation.IsActive() {
				return shared.ErrInvalidState
			}
			if err := reservation.Expire(now); err != nil {
				return err
			}

			level, err := repos.StockLevelRepo().GetOrCreate(ctx, ledger.StockKey{
				TenantID:    reservation.TenantID,
				ItemID:      reservation.ItemID,
				WarehouseID: reservation.WarehouseID,
				LotID:       reservation.LotID,
			})
			if err != nil {
				return err
			}
			if err := level.ReleaseReservation(reservation.Quantity); err != nil {
				return err
			}
			if err := repos.StockLevelRepo().SaveWithLock(ctx, level); err != nil {
				if errors.Is(err, shared.ErrConcurrencyConflict) {
					retry = true
				}
				return err
			}
			if err := repos.ReservationRepo().SaveWithLock(ctx, reservation); err != nil {
				if errors.Is(err, shared.ErrConcurrencyConflict) {
					retry = true
				}
				return err
			}

			s.publishEvents(ctx, &level.TenantAggregateRoot)
			s.publishEvents(ctx, &reservation.TenantAggregateRoot)
			return nil
		})
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return lastErr
}

func (s *ReservationExpirationService) publishEvents(ctx context.Context, root *shared.TenantAggregateRoot) {
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
