package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/shared"
)

const sequenceKindReservation = "RSV"

// ReservationService manages claims on available stock. Creating a
// reservation moves stock into the reserved bucket; releasing returns it;
// consuming removes it from on-hand with an OUT transaction.
type ReservationService struct {
	scope           TransactionScope
	reservationRepo ledger.ReservationRepository
	validator       ReferenceValidator
	eventPublisher  shared.EventPublisher
	defaultExpiry   time.Duration
}

// NewReservationService creates a new ReservationService
func NewReservationService(
	scope TransactionScope,
	reservationRepo ledger.ReservationRepository,
	validator ReferenceValidator,
) *ReservationService {
	return &ReservationService{
		scope:           scope,
		reservationRepo: reservationRepo,
		validator:       validator,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReservationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetDefaultExpiration sets the expiry applied to reservations created
// without an explicit expires_at. Zero disables the default.
func (s *ReservationService) SetDefaultExpiration(d time.Duration) {
	s.defaultExpiry = d
}

// GetByID retrieves a reservation by ID
func (s *ReservationService) GetByID(ctx context.Context, tenantID, reservationID uuid.UUID) (*ReservationResponse, error) {
	reservation, err := s.reservationRepo.FindByIDForTenant(ctx, tenantID, reservationID)
	if err != nil {
		return nil, err
	}
	response := ToReservationResponse(reservation)
	return &response, nil
}

// List retrieves reservations for a tenant
func (s *ReservationService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ReservationResponse, error) {
	reservations, err := s.reservationRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return ToReservationResponses(reservations), nil
}

// Create reserves available stock and records the claim. The balance change
// and the reservation row commit together.
func (s *ReservationService) Create(ctx context.Context, tenantID uuid.UUID, req CreateReservationRequest) (*ReservationResponse, error) {
	resType := ledger.ReservationType(req.Type)
	if !resType.IsValid() {
		return nil, shared.NewDomainError("INVALID_RESERVATION_TYPE", "Invalid reservation type")
	}
	if s.validator != nil {
		if err := s.validator.ValidateItem(ctx, tenantID, req.ItemID); err != nil {
			return nil, err
		}
		if err := s.validator.ValidateWarehouse(ctx, tenantID, req.WarehouseID); err != nil {
			return nil, err
		}
	}

	key := ledger.StockKey{
		TenantID:    tenantID,
		ItemID:      req.ItemID,
		WarehouseID: req.WarehouseID,
		LotID:       req.LotID,
	}

	var response *ReservationResponse
	err := s.executeWithRetry(ctx, func(repos TransactionalRepositories) (bool, error) {
		level, err := repos.StockLevelRepo().GetOrCreate(ctx, key)
		if err != nil {
			return false, err
		}
		if err := level.Reserve(req.Quantity); err != nil {
			return false, err
		}
		if err := repos.StockLevelRepo().SaveWithLock(ctx, level); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				return true, err
			}
			return false, err
		}

		now := time.Now()
		seq, err := repos.SequenceRepo().Next(ctx, tenantID, sequenceKindReservation, now)
		if err != nil {
			return false, err
		}
		reservation, err := ledger.NewReservation(tenantID, ledger.NewReservationNumber(now, seq),
			req.ItemID, req.WarehouseID, req.Quantity, resType)
		if err != nil {
			return false, err
		}
		if req.ReferenceType != "" || req.ReferenceID != "" {
			reservation.WithReference(req.ReferenceType, req.ReferenceID)
		}
		if req.ExpiresAt != nil {
			reservation.WithExpiry(*req.ExpiresAt)
		} else if s.defaultExpiry > 0 {
			reservation.WithExpiry(now.Add(s.defaultExpiry))
		}
		if req.LotID != nil {
			reservation.WithLot(*req.LotID)
		}
		if err := repos.ReservationRepo().Save(ctx, reservation); err != nil {
			return false, err
		}

		r := ToReservationResponse(reservation)
		response = &r
		s.publishEvents(ctx, &level.TenantAggregateRoot)
		s.publishEvents(ctx, &reservation.TenantAggregateRoot)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// Release returns a reservation's stock to the available pool. Releasing an
// already released or expired reservation is a no-op.
func (s *ReservationService) Release(ctx context.Context, tenantID, reservationID uuid.UUID) (*ReservationResponse, error) {
	var response *ReservationResponse
	err := s.executeWithRetry(ctx, func(repos TransactionalRepositories) (bool, error) {
		reservation, err := repos.ReservationRepo().FindByIDForTenant(ctx, tenantID, reservationID)
		if err != nil {
			return false, err
		}

		wasActive := reservation.IsActive()
		if err := reservation.Release(); err != nil {
			return false, err
		}
		if !wasActive {
			// Already terminal, nothing to undo
			r := ToReservationResponse(reservation)
			response = &r
			return false, nil
		}

		if retry, err := s.releaseStock(ctx, repos, reservation); err != nil {
			return retry, err
		}
		if err := repos.ReservationRepo().SaveWithLock(ctx, reservation); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				return true, err
			}
			return false, err
		}

		r := ToReservationResponse(reservation)
		response = &r
		s.publishEvents(ctx, &reservation.TenantAggregateRoot)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// Consume removes reserved stock from on-hand and writes an OUT transaction.
// Only active reservations can be consumed.
func (s *ReservationService) Consume(ctx context.Context, tenantID, reservationID uuid.UUID, performedBy *uuid.UUID) (*ReservationResponse, error) {
	var response *ReservationResponse
	err := s.executeWithRetry(ctx, func(repos TransactionalRepositories) (bool, error) {
		reservation, err := repos.ReservationRepo().FindByIDForTenant(ctx, tenantID, reservationID)
		if err != nil {
			return false, err
		}
		if err := reservation.Consume(); err != nil {
			return false, err
		}

		level, err := repos.StockLevelRepo().GetOrCreate(ctx, s.stockKeyFor(reservation))
		if err != nil {
			return false, err
		}
		before := level.OnHand
		if err := level.ConsumeReserved(reservation.Quantity); err != nil {
			return false, err
		}
		if err := repos.StockLevelRepo().SaveWithLock(ctx, level); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				return true, err
			}
			return false, err
		}
		if err := repos.ReservationRepo().SaveWithLock(ctx, reservation); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				return true, err
			}
			return false, err
		}

		now := time.Now()
		seq, err := repos.SequenceRepo().Next(ctx, tenantID, sequenceKindTransaction, now)
		if err != nil {
			return false, err
		}
		tx, err := ledger.NewInventoryTransaction(
			tenantID,
			ledger.NewTransactionNumber(now, seq),
			level.ID,
			level.ItemID,
			level.WarehouseID,
			ledger.TransactionTypeOut,
			reservation.Quantity,
			before,
			level.OnHand,
			ledger.SourceTypeReservation,
			reservation.Number,
		)
		if err != nil {
			return false, err
		}
		if reservation.LotID != nil {
			tx.WithLotID(*reservation.LotID)
		}
		if performedBy != nil {
			tx.WithPerformedBy(*performedBy)
		}
		if err := repos.TransactionRepo().Create(ctx, tx); err != nil {
			return false, err
		}

		r := ToReservationResponse(reservation)
		response = &r
		s.publishEvents(ctx, &level.TenantAggregateRoot)
		s.publishEvents(ctx, &reservation.TenantAggregateRoot)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// releaseStock returns the reserved quantity of a reservation to the
// available pool. The first return value signals a retryable conflict.
func (s *ReservationService) releaseStock(ctx context.Context, repos TransactionalRepositories, reservation *ledger.Reservation) (bool, error) {
	level, err := repos.StockLevelRepo().GetOrCreate(ctx, s.stockKeyFor(reservation))
	if err != nil {
		return false, err
	}
	if err := level.ReleaseReservation(reservation.Quantity); err != nil {
		return false, err
	}
	if err := repos.StockLevelRepo().SaveWithLock(ctx, level); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			return true, err
		}
		return false, err
	}
	s.publishEvents(ctx, &level.TenantAggregateRoot)
	return false, nil
}

func (s *ReservationService) stockKeyFor(reservation *ledger.Reservation) ledger.StockKey {
	return ledger.StockKey{
		TenantID:    reservation.TenantID,
		ItemID:      reservation.ItemID,
		WarehouseID: reservation.WarehouseID,
		LotID:       reservation.LotID,
	}
}

func (s *ReservationService) executeWithRetry(ctx context.Context, fn func(repos TransactionalRepositories) (bool, error)) error {
	var lastErr error
	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		var retry bool
		err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			var innerErr error
			retry, innerErr = fn(repos)
			return innerErr
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

func (s *ReservationService) publishEvents(ctx context.Context, root *shared.TenantAggregateRoot) {
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
