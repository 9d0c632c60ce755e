package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// ReservationType represents why stock was reserved
type ReservationType string

const (
	ReservationTypeOrder    ReservationType = "ORDER"
	ReservationTypeTransfer ReservationType = "TRANSFER"
	ReservationTypeHold     ReservationType = "HOLD"
)

// IsValid returns true if the reservation type is valid
func (t ReservationType) IsValid() bool {
	switch t {
	case ReservationTypeOrder, ReservationTypeTransfer, ReservationTypeHold:
		return true
	}
	return false
}

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus string

const (
	ReservationStatusActive   ReservationStatus = "ACTIVE"
	ReservationStatusReleased ReservationStatus = "RELEASED"
	ReservationStatusConsumed ReservationStatus = "CONSUMED"
	ReservationStatusExpired  ReservationStatus = "EXPIRED"
)

// IsTerminal returns true once the reservation can no longer change state
func (s ReservationStatus) IsTerminal() bool {
	return s != ReservationStatusActive
}

// Reservation is a claim on available stock for a future outbound movement.
// The reserved quantity stays on hand but cannot be taken by other documents.
type Reservation struct {
	shared.TenantAggregateRoot
	Number        string            `gorm:"type:varchar(50);not null;uniqueIndex:idx_reservation_tenant_number"`
	ItemID        uuid.UUID         `gorm:"type:uuid;not null;index"`
	WarehouseID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	LotID         *uuid.UUID        `gorm:"type:uuid;index"`
	Quantity      decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Type          ReservationType   `gorm:"type:varchar(20);not null"`
	Status        ReservationStatus `gorm:"type:varchar(20);not null;index"`
	ReferenceType string            `gorm:"type:varchar(30)"` // Document type holding the claim
	ReferenceID   string            `gorm:"type:varchar(50);index"`
	ExpiresAt     *time.Time        `gorm:"type:timestamptz;index"`
	ReleasedAt    *time.Time        `gorm:"type:timestamptz"`
	ConsumedAt    *time.Time        `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (Reservation) TableName() string {
	return "reservations"
}

// NewReservationNumber builds a reservation number from date and a per-day sequence
func NewReservationNumber(date time.Time, sequence int64) string {
	return fmt.Sprintf("RSV-%s-%06d", date.Format("20060102"), sequence)
}

// NewReservation creates a new active reservation
func NewReservation(
	tenantID uuid.UUID,
	number string,
	itemID, warehouseID uuid.UUID,
	quantity decimal.Decimal,
	resType ReservationType,
) (*Reservation, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Reservation number cannot be empty")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Reservation quantity must be positive")
	}
	if !resType.IsValid() {
		return nil, shared.NewDomainError("INVALID_RESERVATION_TYPE", "Invalid reservation type")
	}

	reservation := &Reservation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		ItemID:              itemID,
		WarehouseID:         warehouseID,
		Quantity:            quantity,
		Type:                resType,
		Status:              ReservationStatusActive,
	}

	reservation.AddDomainEvent(NewReservationCreatedEvent(reservation))

	return reservation, nil
}

// WithReference links the reservation to the document holding the claim
func (r *Reservation) WithReference(refType, refID string) *Reservation {
	r.ReferenceType = refType
	r.ReferenceID = refID
	return r
}

// WithExpiry sets the expiration deadline for the reservation
func (r *Reservation) WithExpiry(expiresAt time.Time) *Reservation {
	r.ExpiresAt = &expiresAt
	return r
}

// WithLot pins the reservation to a specific lot
func (r *Reservation) WithLot(lotID uuid.UUID) *Reservation {
	r.LotID = &lotID
	return r
}

// IsActive returns true if the reservation still holds stock
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationStatusActive
}

// IsExpired returns true if an active reservation has passed its deadline
func (r *Reservation) IsExpired(now time.Time) bool {
	return r.Status == ReservationStatusActive && r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}

// Release gives the reserved quantity back to the available pool.
// Releasing an already released or expired reservation is a no-op; a
// consumed reservation cannot be released.
func (r *Reservation) Release() error {
	switch r.Status {
	case ReservationStatusReleased, ReservationStatusExpired:
		return nil
	case ReservationStatusConsumed:
		return shared.NewDomainError("RESERVATION_CONSUMED", "Consumed reservations cannot be released")
	}

	now := time.Now()
	r.Status = ReservationStatusReleased
	r.ReleasedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReservationReleasedEvent(r))

	return nil
}

// Consume fulfils the reservation, removing the claim together with the stock
func (r *Reservation) Consume() error {
	if r.Status != ReservationStatusActive {
		return shared.NewDomainError("RESERVATION_NOT_ACTIVE",
			fmt.Sprintf("Reservation %s is %s and cannot be consumed", r.Number, r.Status))
	}

	now := time.Now()
	r.Status = ReservationStatusConsumed
	r.ConsumedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReservationConsumedEvent(r))

	return nil
}

// Expire marks an active reservation past its deadline as expired
func (r *Reservation) Expire(now time.Time) error {
	if !r.IsExpired(now) {
		return shared.NewDomainError("RESERVATION_NOT_EXPIRED", "Reservation has not passed its deadline")
	}

	r.Status = ReservationStatusExpired
	r.ReleasedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReservationExpiredEvent(r))

	return nil
}
