package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// StockLevelRepository defines the interface for stock level persistence
type StockLevelRepository interface {
	// FindByID finds a stock level by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockLevel, error)

	// FindByKey finds the stock level row for a key
	FindByKey(ctx context.Context, key StockKey) (*StockLevel, error)

	// GetOrCreate finds the stock level for a key, creating a zero row if absent
	GetOrCreate(ctx context.Context, key StockKey) (*StockLevel, error)

	// FindByItem finds all stock rows for an item within a tenant
	FindByItem(ctx context.Context, tenantID, itemID uuid.UUID) ([]StockLevel, error)

	// FindByItemAndWarehouse finds all stock rows for an item in one warehouse
	FindByItemAndWarehouse(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) ([]StockLevel, error)

	// FindByLot finds all stock rows pinned to a lot
	FindByLot(ctx context.Context, tenantID, lotID uuid.UUID) ([]StockLevel, error)

	// FindAllForTenant finds all stock rows for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockLevel, error)

	// Save creates or updates a stock level without optimistic locking
	Save(ctx context.Context, level *StockLevel) error

	// SaveWithLock updates a stock level using its version as a compare-and-swap
	// token. Returns shared.ErrConcurrencyConflict when another writer got there first.
	SaveWithLock(ctx context.Context, level *StockLevel) error
}

// TransactionQuery filters the transaction log
type TransactionQuery struct {
	ItemID      *uuid.UUID
	WarehouseID *uuid.UUID
	LotID       *uuid.UUID
	Type        *TransactionType
	SourceType  *SourceType
	SourceID    string
	From        *time.Time
	To          *time.Time
}

// TransactionRepository defines the interface for the append-only transaction log
type TransactionRepository interface {
	// Create appends a transaction to the log
	Create(ctx context.Context, tx *InventoryTransaction) error

	// FindByID finds a transaction by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryTransaction, error)

	// FindBySourceLine finds the transaction already posted for one source
	// document line, if any
	FindBySourceLine(ctx context.Context, tenantID uuid.UUID, sourceType SourceType, sourceID, sourceLineID string, txType TransactionType) (*InventoryTransaction, error)

	// Query finds transactions matching the query, newest first
	Query(ctx context.Context, tenantID uuid.UUID, query TransactionQuery, filter shared.Filter) ([]InventoryTransaction, error)

	// CountForQuery counts transactions matching the query
	CountForQuery(ctx context.Context, tenantID uuid.UUID, query TransactionQuery) (int64, error)
}

// ReservationRepository defines the interface for reservation persistence
type ReservationRepository interface {
	// FindByID finds a reservation by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Reservation, error)

	// FindByIDForTenant finds a reservation by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Reservation, error)

	// FindActiveByItem finds active reservations for an item in a warehouse
	FindActiveByItem(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) ([]Reservation, error)

	// FindByReference finds reservations linked to a source document
	FindByReference(ctx context.Context, tenantID uuid.UUID, refType, refID string) ([]Reservation, error)

	// FindExpired finds active reservations whose deadline has passed
	FindExpired(ctx context.Context, now time.Time, limit int) ([]Reservation, error)

	// FindAllForTenant finds all reservations for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Reservation, error)

	// Save creates or updates a reservation
	Save(ctx context.Context, reservation *Reservation) error

	// SaveWithLock updates a reservation using its version as a compare-and-swap token
	SaveWithLock(ctx context.Context, reservation *Reservation) error
}

// LotRepository defines the interface for lot number persistence
type LotRepository interface {
	// FindByID finds a lot by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*LotNumber, error)

	// FindByNumber finds a lot by item and lot number
	FindByNumber(ctx context.Context, tenantID, itemID uuid.UUID, number string) (*LotNumber, error)

	// FindByItem finds all lots for an item
	FindByItem(ctx context.Context, tenantID, itemID uuid.UUID) ([]LotNumber, error)

	// FindExpiringBefore finds lots whose expiry date falls before the cutoff
	FindExpiringBefore(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) ([]LotNumber, error)

	// Save creates or updates a lot
	Save(ctx context.Context, lot *LotNumber) error
}

// SerialRepository defines the interface for serial number persistence
type SerialRepository interface {
	// FindByID finds a serial by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*SerialNumber, error)

	// FindByNumber finds a serial by item and serial number
	FindByNumber(ctx context.Context, tenantID, itemID uuid.UUID, number string) (*SerialNumber, error)

	// FindByItemAndStatus finds serials for an item in a given status
	FindByItemAndStatus(ctx context.Context, tenantID, itemID uuid.UUID, status SerialStatus) ([]SerialNumber, error)

	// Save creates or updates a serial
	Save(ctx context.Context, serial *SerialNumber) error
}

// SequenceRepository hands out per-tenant daily sequences for document numbers
type SequenceRepository interface {
	// Next returns the next sequence value for a document kind on a date
	Next(ctx context.Context, tenantID uuid.UUID, kind string, date time.Time) (int64, error)
}
