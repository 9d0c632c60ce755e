package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/shared"
)

// MockEventPublisher collects published domain events
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{events: make([]shared.DomainEvent, 0)}
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

func keyString(key ledger.StockKey) string {
	return fmt.Sprintf("%s|%s|%s|%v|%v|%v|%v",
		key.TenantID, key.ItemID, key.WarehouseID, key.LocationID, key.BinID, key.LotID, key.SerialID)
}

// fakeStockLevelRepo is an in-memory StockLevelRepository. Reads hand out
// copies so a failed save never leaks mutations into the store; setting
// conflicts forces the next saves to fail with a version conflict.
type fakeStockLevelRepo struct {
	mu        sync.Mutex
	levels    map[string]*ledger.StockLevel
	conflicts int
	saves     int
}

func newFakeStockLevelRepo() *fakeStockLevelRepo {
	return &fakeStockLevelRepo{levels: make(map[string]*ledger.StockLevel)}
}

func (r *fakeStockLevelRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, level := range r.levels {
		if level.ID == id {
			c := *level
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeStockLevelRepo) FindByKey(_ context.Context, key ledger.StockKey) (*ledger.StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	level, ok := r.levels[keyString(key)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := *level
	return &c, nil
}

func (r *fakeStockLevelRepo) GetOrCreate(_ context.Context, key ledger.StockKey) (*ledger.StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if level, ok := r.levels[keyString(key)]; ok {
		c := *level
		return &c, nil
	}
	level, err := ledger.NewStockLevel(key)
	if err != nil {
		return nil, err
	}
	stored := *level
	r.levels[keyString(key)] = &stored
	c := stored
	return &c, nil
}

func (r *fakeStockLevelRepo) FindByItem(_ context.Context, tenantID, itemID uuid.UUID) ([]ledger.StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]ledger.StockLevel, 0)
	for _, level := range r.levels {
		if level.TenantID == tenantID && level.ItemID == itemID {
			result = append(result, *level)
		}
	}
	return result, nil
}

func (r *fakeStockLevelRepo) FindByItemAndWarehouse(_ context.Context, tenantID, itemID, warehouseID uuid.UUID) ([]ledger.StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]ledger.StockLevel, 0)
	for _, level := range r.levels {
		if level.TenantID == tenantID && level.ItemID == itemID && level.WarehouseID == warehouseID {
			result = append(result, *level)
		}
	}
	return result, nil
}

func (r *fakeStockLevelRepo) FindByLot(_ context.Context, tenantID, lotID uuid.UUID) ([]ledger.StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]ledger.StockLevel, 0)
	for _, level := range r.levels {
		if level.TenantID == tenantID && level.LotID != nil && *level.LotID == lotID {
			result = append(result, *level)
		}
	}
	return result, nil
}

func (r *fakeStockLevelRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]ledger.StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]ledger.StockLevel, 0)
	for _, level := range r.levels {
		if level.TenantID == tenantID {
			result = append(result, *level)
		}
	}
	return result, nil
}

func (r *fakeStockLevelRepo) Save(_ context.Context, level *ledger.StockLevel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *level
	r.levels[keyString(level.Key())] = &stored
	return nil
}

func (r *fakeStockLevelRepo) SaveWithLock(_ context.Context, level *ledger.StockLevel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.conflicts > 0 {
		r.conflicts--
		return shared.ErrConcurrencyConflict
	}
	stored := *level
	r.levels[keyString(level.Key())] = &stored
	return nil
}

// fakeTransactionRepo is an in-memory append-only transaction log
type fakeTransactionRepo struct {
	mu  sync.Mutex
	txs []ledger.InventoryTransaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{txs: make([]ledger.InventoryTransaction, 0)}
}

func (r *fakeTransactionRepo) Create(_ context.Context, tx *ledger.InventoryTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txs = append(r.txs, *tx)
	return nil
}

func (r *fakeTransactionRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.InventoryTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.txs {
		if r.txs[i].ID == id {
			c := r.txs[i]
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTransactionRepo) FindBySourceLine(_ context.Context, tenantID uuid.UUID, sourceType ledger.SourceType, sourceID, sourceLineID string, txType ledger.TransactionType) (*ledger.InventoryTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.txs {
		tx := &r.txs[i]
		if tx.TenantID == tenantID && tx.SourceType == sourceType && tx.SourceID == sourceID &&
			tx.SourceLineID == sourceLineID && tx.TransactionType == txType {
			c := *tx
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTransactionRepo) Query(_ context.Context, tenantID uuid.UUID, query ledger.TransactionQuery, _ shared.Filter) ([]ledger.InventoryTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]ledger.InventoryTransaction, 0)
	for i := range r.txs {
		if r.txs[i].TenantID != tenantID {
			continue
		}
		if query.ItemID != nil && r.txs[i].ItemID != *query.ItemID {
			continue
		}
		if query.Type != nil && r.txs[i].TransactionType != *query.Type {
			continue
		}
		result = append(result, r.txs[i])
	}
	return result, nil
}

func (r *fakeTransactionRepo) CountForQuery(ctx context.Context, tenantID uuid.UUID, query ledger.TransactionQuery) (int64, error) {
	txs, err := r.Query(ctx, tenantID, query, shared.Filter{})
	return int64(len(txs)), err
}

func (r *fakeTransactionRepo) all() []ledger.InventoryTransaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]ledger.InventoryTransaction, len(r.txs))
	copy(result, r.txs)
	return result
}

// fakeReservationRepo is an in-memory ReservationRepository
type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[uuid.UUID]*ledger.Reservation
	conflicts    int
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: make(map[uuid.UUID]*ledger.Reservation)}
}

func (r *fakeReservationRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reservation, ok := r.reservations[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := *reservation
	return &c, nil
}

func (r *fakeReservationRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Reservation, error) {
	reservation, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return reservation, nil
}

func (r *fakeReservationRepo) FindActiveByItem(_ context.Context, tenantID, itemID, warehouseID uuid.UUID) ([]ledger.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]ledger.Reservation, 0)
	for _, reservation := range r.reservations {
		if reservation.TenantID == tenantID && reservation.ItemID == itemID &&
			reservation.WarehouseID == warehouseID && reservation.Status == ledger.ReservationStatusActive {
			result = append(result, *reservation)
		}
	}
	return result, nil
}

func (r *fakeReservationRepo) FindByReference(_ context.Context, tenantID uuid.UUID, refType, refID string) ([]ledger.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]ledger.Reservation, 0)
	for _, reservation := range r.reservations {
		if reservation.TenantID == tenantID && reservation.ReferenceType == refType && reservation.ReferenceID == refID {
			result = append(result, *reservation)
		}
	}
	return result, nil
}

func (r *fakeReservationRepo) FindExpired(_ context.Context, now time.Time, limit int) ([]ledger.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]ledger.Reservation, 0)
	for _, reservation := range r.reservations {
		if reservation.IsExpired(now) && len(result) < limit {
			result = append(result, *reservation)
		}
	}
	return result, nil
}

func (r *fakeReservationRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]ledger.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]ledger.Reservation, 0)
	for _, reservation := range r.reservations {
		if reservation.TenantID == tenantID {
			result = append(result, *reservation)
		}
	}
	return result, nil
}

func (r *fakeReservationRepo) Save(_ context.Context, reservation *ledger.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *reservation
	r.reservations[reservation.ID] = &stored
	return nil
}

func (r *fakeReservationRepo) SaveWithLock(_ context.Context, reservation *ledger.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflicts > 0 {
		r.conflicts--
		return shared.ErrConcurrencyConflict
	}
	stored := *reservation
	r.reservations[reservation.ID] = &stored
	return nil
}

// fakeSequenceRepo hands out monotonically increasing sequences per kind
type fakeSequenceRepo struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func newFakeSequenceRepo() *fakeSequenceRepo {
	return &fakeSequenceRepo{seqs: make(map[string]int64)}
}

func (r *fakeSequenceRepo) Next(_ context.Context, tenantID uuid.UUID, kind string, date time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := fmt.Sprintf("%s|%s|%s", tenantID, kind, date.Format("20060102"))
	r.seqs[key]++
	return r.seqs[key], nil
}

// fakeItemRepo serves only the lookups the ledger services need
type fakeItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*catalog.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uuid.UUID]*catalog.Item)}
}

func (r *fakeItemRepo) add(item *catalog.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
}

func (r *fakeItemRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return item, nil
}

func (r *fakeItemRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Item, error) {
	item, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return item, nil
}

func (r *fakeItemRepo) FindBySKU(_ context.Context, _ uuid.UUID, _ string) (*catalog.Item, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeItemRepo) FindByIDs(_ context.Context, _ uuid.UUID, _ []uuid.UUID) ([]catalog.Item, error) {
	return nil, nil
}

func (r *fakeItemRepo) FindAllForTenant(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]catalog.Item, error) {
	return nil, nil
}

func (r *fakeItemRepo) FindBelowReorderPoint(_ context.Context, _ uuid.UUID) ([]catalog.Item, error) {
	return nil, nil
}

func (r *fakeItemRepo) Save(_ context.Context, item *catalog.Item) error {
	r.add(item)
	return nil
}

func (r *fakeItemRepo) Count(_ context.Context, _ uuid.UUID, _ shared.Filter) (int64, error) {
	return 0, nil
}

// ledgerFixture wires the fakes behind a no-op transaction scope
type ledgerFixture struct {
	stockRepo       *fakeStockLevelRepo
	transactionRepo *fakeTransactionRepo
	reservationRepo *fakeReservationRepo
	sequenceRepo    *fakeSequenceRepo
	itemRepo        *fakeItemRepo
	scope           *NoOpTransactionScope
	publisher       *MockEventPublisher
}

func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{
		stockRepo:       newFakeStockLevelRepo(),
		transactionRepo: newFakeTransactionRepo(),
		reservationRepo: newFakeReservationRepo(),
		sequenceRepo:    newFakeSequenceRepo(),
		itemRepo:        newFakeItemRepo(),
		publisher:       NewMockEventPublisher(),
	}
	f.scope = NewNoOpTransactionScope(
		f.stockRepo, f.transactionRepo, f.reservationRepo, nil, nil, f.sequenceRepo)
	return f
}

func (f *ledgerFixture) ledgerService() *LedgerService {
	svc := NewLedgerService(f.scope, f.stockRepo, f.transactionRepo, f.itemRepo, nil)
	svc.SetEventPublisher(f.publisher)
	return svc
}

func (f *ledgerFixture) reservationService() *ReservationService {
	svc := NewReservationService(f.scope, f.reservationRepo, nil)
	svc.SetEventPublisher(f.publisher)
	return svc
}
