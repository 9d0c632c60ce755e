package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// StockKey identifies a single stock balance row. ItemID and WarehouseID are
// required; the remaining dimensions narrow the balance down to a location,
// bin, lot or serial when the tenant tracks stock at that granularity.
type StockKey struct {
	TenantID    uuid.UUID
	ItemID      uuid.UUID
	WarehouseID uuid.UUID
	LocationID  *uuid.UUID
	BinID       *uuid.UUID
	LotID       *uuid.UUID
	SerialID    *uuid.UUID
}

// Validate checks that the required dimensions are present
func (k StockKey) Validate() error {
	if k.TenantID == uuid.Nil {
		return shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if k.ItemID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if k.WarehouseID == uuid.Nil {
		return shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if k.BinID != nil && k.LocationID == nil {
		return shared.NewDomainError("INVALID_KEY", "Bin-level stock requires a location")
	}
	return nil
}

// StockDelta is a signed change to the three balance buckets of a stock row.
// A single delta is applied atomically: either all three buckets move or none do.
type StockDelta struct {
	OnHand    decimal.Decimal
	Reserved  decimal.Decimal
	Allocated decimal.Decimal
}

// IsZero returns true if the delta changes nothing
func (d StockDelta) IsZero() bool {
	return d.OnHand.IsZero() && d.Reserved.IsZero() && d.Allocated.IsZero()
}

// StockLevel represents the current balance for one stock key.
// It is the aggregate root for all stock movements; every change goes
// through ApplyDelta so the balance invariants hold at every commit.
type StockLevel struct {
	shared.TenantAggregateRoot
	ItemID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_level_key,priority:2"`
	WarehouseID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_level_key,priority:3"`
	LocationID     *uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_stock_level_key,priority:4"`
	BinID          *uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_stock_level_key,priority:5"`
	LotID          *uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_stock_level_key,priority:6"`
	SerialID       *uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_stock_level_key,priority:7"`
	OnHand         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Reserved       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Allocated      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LastMovementAt time.Time       `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (StockLevel) TableName() string {
	return "stock_levels"
}

// NewStockLevel creates a zero-balance stock level for a key.
// Rows are created lazily on first movement and never deleted; a zero
// balance is meaningful history.
func NewStockLevel(key StockKey) (*StockLevel, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	return &StockLevel{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(key.TenantID),
		ItemID:              key.ItemID,
		WarehouseID:         key.WarehouseID,
		LocationID:          key.LocationID,
		BinID:               key.BinID,
		LotID:               key.LotID,
		SerialID:            key.SerialID,
		OnHand:              decimal.Zero,
		Reserved:            decimal.Zero,
		Allocated:           decimal.Zero,
	}, nil
}

// Key returns the stock key of this row
func (s *StockLevel) Key() StockKey {
	return StockKey{
		TenantID:    s.TenantID,
		ItemID:      s.ItemID,
		WarehouseID: s.WarehouseID,
		LocationID:  s.LocationID,
		BinID:       s.BinID,
		LotID:       s.LotID,
		SerialID:    s.SerialID,
	}
}

// Available returns the quantity free for new reservations
func (s *StockLevel) Available() decimal.Decimal {
	return s.OnHand.Sub(s.Reserved).Sub(s.Allocated)
}

// ApplyDelta applies a signed change to the balance buckets.
// The change is rejected and the row left untouched when it would produce a
// negative bucket or push Reserved+Allocated above OnHand.
func (s *StockLevel) ApplyDelta(delta StockDelta) error {
	if delta.IsZero() {
		return nil
	}

	newOnHand := s.OnHand.Add(delta.OnHand)
	newReserved := s.Reserved.Add(delta.Reserved)
	newAllocated := s.Allocated.Add(delta.Allocated)

	if newReserved.IsNegative() || newAllocated.IsNegative() {
		return shared.ErrInvariantViolation
	}
	if newOnHand.IsNegative() {
		return shared.ErrInsufficientStock
	}
	if newReserved.Add(newAllocated).GreaterThan(newOnHand) {
		return shared.ErrInsufficientStock
	}

	onHandBefore := s.OnHand

	s.OnHand = newOnHand
	s.Reserved = newReserved
	s.Allocated = newAllocated
	s.LastMovementAt = time.Now()
	s.UpdatedAt = s.LastMovementAt
	s.IncrementVersion()

	s.AddDomainEvent(NewStockLevelChangedEvent(s, delta, onHandBefore))

	return nil
}

// Receive increases on-hand stock
func (s *StockLevel) Receive(quantity decimal.Decimal) error {
	if err := validatePositive(quantity); err != nil {
		return err
	}
	return s.ApplyDelta(StockDelta{OnHand: quantity})
}

// Issue decreases on-hand stock without touching reservations
func (s *StockLevel) Issue(quantity decimal.Decimal) error {
	if err := validatePositive(quantity); err != nil {
		return err
	}
	return s.ApplyDelta(StockDelta{OnHand: quantity.Neg()})
}

// Reserve moves available stock into the reserved bucket
func (s *StockLevel) Reserve(quantity decimal.Decimal) error {
	if err := validatePositive(quantity); err != nil {
		return err
	}
	return s.ApplyDelta(StockDelta{Reserved: quantity})
}

// ReleaseReservation returns reserved stock to the available pool
func (s *StockLevel) ReleaseReservation(quantity decimal.Decimal) error {
	if err := validatePositive(quantity); err != nil {
		return err
	}
	return s.ApplyDelta(StockDelta{Reserved: quantity.Neg()})
}

// ConsumeReserved removes reserved stock from on-hand in one step
func (s *StockLevel) ConsumeReserved(quantity decimal.Decimal) error {
	if err := validatePositive(quantity); err != nil {
		return err
	}
	return s.ApplyDelta(StockDelta{OnHand: quantity.Neg(), Reserved: quantity.Neg()})
}

// AllocateFromReserved moves reserved stock into the allocated bucket for picking
func (s *StockLevel) AllocateFromReserved(quantity decimal.Decimal) error {
	if err := validatePositive(quantity); err != nil {
		return err
	}
	return s.ApplyDelta(StockDelta{Reserved: quantity.Neg(), Allocated: quantity})
}

// AllocateFromAvailable moves free stock directly into the allocated bucket
func (s *StockLevel) AllocateFromAvailable(quantity decimal.Decimal) error {
	if err := validatePositive(quantity); err != nil {
		return err
	}
	return s.ApplyDelta(StockDelta{Allocated: quantity})
}

// ReleaseAllocation returns allocated stock to the available pool
func (s *StockLevel) ReleaseAllocation(quantity decimal.Decimal) error {
	if err := validatePositive(quantity); err != nil {
		return err
	}
	return s.ApplyDelta(StockDelta{Allocated: quantity.Neg()})
}

// ConsumeAllocated removes allocated stock from on-hand in one step
func (s *StockLevel) ConsumeAllocated(quantity decimal.Decimal) error {
	if err := validatePositive(quantity); err != nil {
		return err
	}
	return s.ApplyDelta(StockDelta{OnHand: quantity.Neg(), Allocated: quantity.Neg()})
}

// AdjustTo moves on-hand stock to the counted quantity and returns the variance applied
func (s *StockLevel) AdjustTo(actualQuantity decimal.Decimal) (decimal.Decimal, error) {
	if actualQuantity.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Actual quantity cannot be negative")
	}

	variance := actualQuantity.Sub(s.OnHand)
	if variance.IsZero() {
		return decimal.Zero, nil
	}
	if err := s.ApplyDelta(StockDelta{OnHand: variance}); err != nil {
		return decimal.Zero, err
	}
	return variance, nil
}

// CanFulfill returns true if the available quantity covers the requested amount
func (s *StockLevel) CanFulfill(quantity decimal.Decimal) bool {
	return s.Available().GreaterThanOrEqual(quantity)
}

func validatePositive(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return nil
}
