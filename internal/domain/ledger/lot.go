package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// LotNumber identifies one received batch of a lot-tracked item.
// Remaining quantity is never stored here; it is always derived from the
// lot-level stock rows so the ledger stays the single source of truth.
type LotNumber struct {
	shared.TenantAggregateRoot
	Number           string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_lot_tenant_item_number,priority:3"`
	ItemID           uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_lot_tenant_item_number,priority:2"`
	ManufactureDate  *time.Time      `gorm:"type:date"`
	ExpiryDate       *time.Time      `gorm:"type:date;index"`
	ReceivedAt       time.Time       `gorm:"type:timestamptz;not null"`
	QuantityReceived decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SupplierRef      string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (LotNumber) TableName() string {
	return "lot_numbers"
}

// NewLotNumber creates a new lot record at receiving time
func NewLotNumber(
	tenantID uuid.UUID,
	number string,
	itemID uuid.UUID,
	quantityReceived decimal.Decimal,
) (*LotNumber, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_LOT_NUMBER", "Lot number cannot be empty")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if !quantityReceived.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
	}

	return &LotNumber{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		ItemID:              itemID,
		ReceivedAt:          time.Now(),
		QuantityReceived:    quantityReceived,
	}, nil
}

// WithDates sets the manufacture and expiry dates
func (l *LotNumber) WithDates(manufactureDate, expiryDate *time.Time) (*LotNumber, error) {
	if manufactureDate != nil && expiryDate != nil && expiryDate.Before(*manufactureDate) {
		return nil, shared.NewDomainError("INVALID_EXPIRY", "Expiry date cannot precede manufacture date")
	}
	l.ManufactureDate = manufactureDate
	l.ExpiryDate = expiryDate
	return l, nil
}

// WithSupplierRef records the supplier's own batch reference
func (l *LotNumber) WithSupplierRef(ref string) *LotNumber {
	l.SupplierRef = ref
	return l
}

// IsExpired returns true if the lot has passed its expiry date
func (l *LotNumber) IsExpired(now time.Time) bool {
	return l.ExpiryDate != nil && now.After(*l.ExpiryDate)
}

// SerialStatus represents the lifecycle state of a serialized unit
type SerialStatus string

const (
	SerialStatusAvailable SerialStatus = "AVAILABLE"
	SerialStatusAllocated SerialStatus = "ALLOCATED"
	SerialStatusShipped   SerialStatus = "SHIPPED"
	SerialStatusDisposed  SerialStatus = "DISPOSED"
)

// CanTransitionTo returns true if the serial may move to the target status
func (s SerialStatus) CanTransitionTo(target SerialStatus) bool {
	switch s {
	case SerialStatusAvailable:
		return target == SerialStatusAllocated || target == SerialStatusShipped || target == SerialStatusDisposed
	case SerialStatusAllocated:
		return target == SerialStatusAvailable || target == SerialStatusShipped || target == SerialStatusDisposed
	case SerialStatusShipped, SerialStatusDisposed:
		return false
	}
	return false
}

// SerialNumber identifies one serialized unit of a serial-tracked item.
// The per-serial stock row holds at most one unit on hand.
type SerialNumber struct {
	shared.TenantAggregateRoot
	Number      string       `gorm:"type:varchar(50);not null;uniqueIndex:idx_serial_tenant_item_number,priority:3"`
	ItemID      uuid.UUID    `gorm:"type:uuid;not null;index;uniqueIndex:idx_serial_tenant_item_number,priority:2"`
	LotID       *uuid.UUID   `gorm:"type:uuid;index"`
	Status      SerialStatus `gorm:"type:varchar(20);not null;index"`
	ReceivedAt  time.Time    `gorm:"type:timestamptz;not null"`
	ShippedAt   *time.Time   `gorm:"type:timestamptz"`
	DisposedAt  *time.Time   `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (SerialNumber) TableName() string {
	return "serial_numbers"
}

// NewSerialNumber creates a new serial record at receiving time
func NewSerialNumber(tenantID uuid.UUID, number string, itemID uuid.UUID) (*SerialNumber, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_SERIAL_NUMBER", "Serial number cannot be empty")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}

	return &SerialNumber{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		ItemID:              itemID,
		Status:              SerialStatusAvailable,
		ReceivedAt:          time.Now(),
	}, nil
}

// WithLot links the serial to the lot it was received under
func (s *SerialNumber) WithLot(lotID uuid.UUID) *SerialNumber {
	s.LotID = &lotID
	return s
}

// Allocate marks the serial as claimed by an outbound document
func (s *SerialNumber) Allocate() error {
	return s.transition(SerialStatusAllocated)
}

// Deallocate returns an allocated serial to the available pool
func (s *SerialNumber) Deallocate() error {
	if s.Status != SerialStatusAllocated {
		return shared.NewDomainError("SERIAL_NOT_ALLOCATED", "Serial is not allocated")
	}
	return s.transition(SerialStatusAvailable)
}

// Ship marks the serial as having left the warehouse
func (s *SerialNumber) Ship() error {
	if err := s.transition(SerialStatusShipped); err != nil {
		return err
	}
	now := time.Now()
	s.ShippedAt = &now
	return nil
}

// Dispose retires the serial (damage, write-off)
func (s *SerialNumber) Dispose() error {
	if err := s.transition(SerialStatusDisposed); err != nil {
		return err
	}
	now := time.Now()
	s.DisposedAt = &now
	return nil
}

func (s *SerialNumber) transition(target SerialStatus) error {
	if !s.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_SERIAL_TRANSITION",
			"Serial cannot move from "+string(s.Status)+" to "+string(target))
	}
	s.Status = target
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}
