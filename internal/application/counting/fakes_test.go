package counting

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	ledgerapp "github.com/wms/backend/internal/application/ledger"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/counting"
	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/shared"
)

func keyString(key ledger.StockKey) string {
	return fmt.Sprintf("%s|%s|%s|%v|%v|%v|%v",
		key.TenantID, key.ItemID, key.WarehouseID, key.LocationID, key.BinID, key.LotID, key.SerialID)
}

// fakeStockLevelRepo is an in-memory StockLevelRepository handing out copies
// so a failed save never leaks mutations into the store
type fakeStockLevelRepo struct {
	mu     sync.Mutex
	levels map[string]*ledger.StockLevel
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

func (r *fakeStockLevelRepo) SaveWithLock(ctx context.Context, level *ledger.StockLevel) error {
	return r.Save(ctx, level)
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

// fakeReservationRepo satisfies the repository interface for the scope wiring
type fakeReservationRepo struct{}

func (r *fakeReservationRepo) FindByID(_ context.Context, _ uuid.UUID) (*ledger.Reservation, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeReservationRepo) FindByIDForTenant(_ context.Context, _, _ uuid.UUID) (*ledger.Reservation, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeReservationRepo) FindActiveByItem(_ context.Context, _, _, _ uuid.UUID) ([]ledger.Reservation, error) {
	return nil, nil
}

func (r *fakeReservationRepo) FindByReference(_ context.Context, _ uuid.UUID, _, _ string) ([]ledger.Reservation, error) {
	return nil, nil
}

func (r *fakeReservationRepo) FindExpired(_ context.Context, _ time.Time, _ int) ([]ledger.Reservation, error) {
	return nil, nil
}

func (r *fakeReservationRepo) FindAllForTenant(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]ledger.Reservation, error) {
	return nil, nil
}

func (r *fakeReservationRepo) Save(_ context.Context, _ *ledger.Reservation) error { return nil }

func (r *fakeReservationRepo) SaveWithLock(_ context.Context, _ *ledger.Reservation) error {
	return nil
}

// fakeLotRepo satisfies the repository interface for the scope wiring
type fakeLotRepo struct{}

func (r *fakeLotRepo) FindByID(_ context.Context, _ uuid.UUID) (*ledger.LotNumber, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeLotRepo) FindByNumber(_ context.Context, _, _ uuid.UUID, _ string) (*ledger.LotNumber, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeLotRepo) FindByItem(_ context.Context, _, _ uuid.UUID) ([]ledger.LotNumber, error) {
	return nil, nil
}

func (r *fakeLotRepo) FindExpiringBefore(_ context.Context, _ uuid.UUID, _ time.Time) ([]ledger.LotNumber, error) {
	return nil, nil
}

func (r *fakeLotRepo) Save(_ context.Context, _ *ledger.LotNumber) error { return nil }

// fakeSerialRepo satisfies the repository interface for the scope wiring
type fakeSerialRepo struct{}

func (r *fakeSerialRepo) FindByID(_ context.Context, _ uuid.UUID) (*ledger.SerialNumber, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeSerialRepo) FindByNumber(_ context.Context, _, _ uuid.UUID, _ string) (*ledger.SerialNumber, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeSerialRepo) FindByItemAndStatus(_ context.Context, _, _ uuid.UUID, _ ledger.SerialStatus) ([]ledger.SerialNumber, error) {
	return nil, nil
}

func (r *fakeSerialRepo) Save(_ context.Context, _ *ledger.SerialNumber) error { return nil }

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

// fakeItemRepo serves only the lookups the counting service needs
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

// fakeCycleCountRepo is an in-memory CycleCountRepository
type fakeCycleCountRepo struct {
	mu     sync.Mutex
	counts map[uuid.UUID]*counting.CycleCount
}

func newFakeCycleCountRepo() *fakeCycleCountRepo {
	return &fakeCycleCountRepo{counts: make(map[uuid.UUID]*counting.CycleCount)}
}

func (r *fakeCycleCountRepo) FindByID(_ context.Context, id uuid.UUID) (*counting.CycleCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cc, ok := r.counts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := *cc
	c.Lines = append([]counting.CycleCountLine(nil), cc.Lines...)
	return &c, nil
}

func (r *fakeCycleCountRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*counting.CycleCount, error) {
	cc, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cc.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return cc, nil
}

func (r *fakeCycleCountRepo) FindByNumber(_ context.Context, tenantID uuid.UUID, number string) (*counting.CycleCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cc := range r.counts {
		if cc.TenantID == tenantID && cc.Number == number {
			c := *cc
			c.Lines = append([]counting.CycleCountLine(nil), cc.Lines...)
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCycleCountRepo) FindByStatus(_ context.Context, tenantID uuid.UUID, status counting.CycleCountStatus, _ shared.Filter) ([]counting.CycleCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]counting.CycleCount, 0)
	for _, cc := range r.counts {
		if cc.TenantID == tenantID && cc.Status == status {
			result = append(result, *cc)
		}
	}
	return result, nil
}

func (r *fakeCycleCountRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]counting.CycleCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]counting.CycleCount, 0)
	for _, cc := range r.counts {
		if cc.TenantID == tenantID {
			result = append(result, *cc)
		}
	}
	return result, nil
}

func (r *fakeCycleCountRepo) Save(_ context.Context, cc *counting.CycleCount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *cc
	c.Lines = append([]counting.CycleCountLine(nil), cc.Lines...)
	r.counts[cc.ID] = &c
	return nil
}

// fakeAdjustmentRepo is an in-memory AdjustmentRepository
type fakeAdjustmentRepo struct {
	mu          sync.Mutex
	adjustments map[uuid.UUID]*counting.StockAdjustment
}

func newFakeAdjustmentRepo() *fakeAdjustmentRepo {
	return &fakeAdjustmentRepo{adjustments: make(map[uuid.UUID]*counting.StockAdjustment)}
}

func (r *fakeAdjustmentRepo) FindByID(_ context.Context, id uuid.UUID) (*counting.StockAdjustment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.adjustments[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := *a
	return &c, nil
}

func (r *fakeAdjustmentRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*counting.StockAdjustment, error) {
	a, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return a, nil
}

func (r *fakeAdjustmentRepo) FindPending(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]counting.StockAdjustment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]counting.StockAdjustment, 0)
	for _, a := range r.adjustments {
		if a.TenantID == tenantID && a.Status == counting.AdjustmentStatusPending {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (r *fakeAdjustmentRepo) FindByCycleCount(_ context.Context, tenantID, cycleCountID uuid.UUID) ([]counting.StockAdjustment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]counting.StockAdjustment, 0)
	for _, a := range r.adjustments {
		if a.TenantID == tenantID && a.CycleCountID != nil && *a.CycleCountID == cycleCountID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (r *fakeAdjustmentRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]counting.StockAdjustment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]counting.StockAdjustment, 0)
	for _, a := range r.adjustments {
		if a.TenantID == tenantID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (r *fakeAdjustmentRepo) Save(_ context.Context, a *counting.StockAdjustment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *a
	r.adjustments[a.ID] = &c
	return nil
}

func (r *fakeAdjustmentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.adjustments)
}

// countingFixture wires the fakes behind a no-op transaction scope
type countingFixture struct {
	stockRepo       *fakeStockLevelRepo
	transactionRepo *fakeTransactionRepo
	sequenceRepo    *fakeSequenceRepo
	itemRepo        *fakeItemRepo
	cycleCountRepo  *fakeCycleCountRepo
	adjustmentRepo  *fakeAdjustmentRepo
	scope           *ledgerapp.NoOpTransactionScope
}

func newCountingFixture() *countingFixture {
	f := &countingFixture{
		stockRepo:       newFakeStockLevelRepo(),
		transactionRepo: newFakeTransactionRepo(),
		sequenceRepo:    newFakeSequenceRepo(),
		itemRepo:        newFakeItemRepo(),
		cycleCountRepo:  newFakeCycleCountRepo(),
		adjustmentRepo:  newFakeAdjustmentRepo(),
	}
	f.scope = ledgerapp.NewNoOpTransactionScope(
		f.stockRepo, f.transactionRepo, &fakeReservationRepo{}, &fakeLotRepo{}, &fakeSerialRepo{}, f.sequenceRepo).
		WithCountingRepos(f.cycleCountRepo, f.adjustmentRepo)
	return f
}

func (f *countingFixture) service() *CountingService {
	return NewCountingService(f.scope, f.cycleCountRepo, f.adjustmentRepo, f.itemRepo)
}
