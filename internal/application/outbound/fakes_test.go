package outbound

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	ledgerapp "github.com/wms/backend/internal/application/ledger"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/outbound"
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

// fakeReservationRepo is an in-memory ReservationRepository
type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[uuid.UUID]*ledger.Reservation
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

func (r *fakeReservationRepo) SaveWithLock(ctx context.Context, reservation *ledger.Reservation) error {
	return r.Save(ctx, reservation)
}

// fakeLotRepo is an in-memory LotRepository
type fakeLotRepo struct {
	mu   sync.Mutex
	lots map[uuid.UUID]*ledger.LotNumber
}

func newFakeLotRepo() *fakeLotRepo {
	return &fakeLotRepo{lots: make(map[uuid.UUID]*ledger.LotNumber)}
}

func (r *fakeLotRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.LotNumber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lot, ok := r.lots[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return lot, nil
}

func (r *fakeLotRepo) FindByNumber(_ context.Context, tenantID, itemID uuid.UUID, number string) (*ledger.LotNumber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, lot := range r.lots {
		if lot.TenantID == tenantID && lot.ItemID == itemID && lot.Number == number {
			return lot, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeLotRepo) FindByItem(_ context.Context, tenantID, itemID uuid.UUID) ([]ledger.LotNumber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]ledger.LotNumber, 0)
	for _, lot := range r.lots {
		if lot.TenantID == tenantID && lot.ItemID == itemID {
			result = append(result, *lot)
		}
	}
	return result, nil
}

func (r *fakeLotRepo) FindExpiringBefore(_ context.Context, _ uuid.UUID, _ time.Time) ([]ledger.LotNumber, error) {
	return nil, nil
}

func (r *fakeLotRepo) Save(_ context.Context, lot *ledger.LotNumber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lots[lot.ID] = lot
	return nil
}

// fakeSerialRepo is an in-memory SerialRepository
type fakeSerialRepo struct {
	mu      sync.Mutex
	serials map[uuid.UUID]*ledger.SerialNumber
}

func newFakeSerialRepo() *fakeSerialRepo {
	return &fakeSerialRepo{serials: make(map[uuid.UUID]*ledger.SerialNumber)}
}

func (r *fakeSerialRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.SerialNumber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	serial, ok := r.serials[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := *serial
	return &c, nil
}

func (r *fakeSerialRepo) FindByNumber(_ context.Context, tenantID, itemID uuid.UUID, number string) (*ledger.SerialNumber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, serial := range r.serials {
		if serial.TenantID == tenantID && serial.ItemID == itemID && serial.Number == number {
			c := *serial
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSerialRepo) FindByItemAndStatus(_ context.Context, tenantID, itemID uuid.UUID, status ledger.SerialStatus) ([]ledger.SerialNumber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]ledger.SerialNumber, 0)
	for _, serial := range r.serials {
		if serial.TenantID == tenantID && serial.ItemID == itemID && serial.Status == status {
			result = append(result, *serial)
		}
	}
	return result, nil
}

func (r *fakeSerialRepo) Save(_ context.Context, serial *ledger.SerialNumber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *serial
	r.serials[serial.ID] = &stored
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

// fakeItemRepo serves only the lookups the picking service needs
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

// fakePickListRepo is an in-memory PickListRepository
type fakePickListRepo struct {
	mu    sync.Mutex
	lists map[uuid.UUID]*outbound.PickList
}

func newFakePickListRepo() *fakePickListRepo {
	return &fakePickListRepo{lists: make(map[uuid.UUID]*outbound.PickList)}
}

func (r *fakePickListRepo) FindByID(_ context.Context, id uuid.UUID) (*outbound.PickList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pl, ok := r.lists[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := *pl
	c.Lines = append([]outbound.PickLine(nil), pl.Lines...)
	return &c, nil
}

func (r *fakePickListRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*outbound.PickList, error) {
	pl, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pl.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return pl, nil
}

func (r *fakePickListRepo) FindByNumber(_ context.Context, tenantID uuid.UUID, number string) (*outbound.PickList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, pl := range r.lists {
		if pl.TenantID == tenantID && pl.Number == number {
			c := *pl
			c.Lines = append([]outbound.PickLine(nil), pl.Lines...)
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakePickListRepo) FindByStatus(_ context.Context, tenantID uuid.UUID, status outbound.PickListStatus, _ shared.Filter) ([]outbound.PickList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]outbound.PickList, 0)
	for _, pl := range r.lists {
		if pl.TenantID == tenantID && pl.Status == status {
			result = append(result, *pl)
		}
	}
	return result, nil
}

func (r *fakePickListRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]outbound.PickList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]outbound.PickList, 0)
	for _, pl := range r.lists {
		if pl.TenantID == tenantID {
			result = append(result, *pl)
		}
	}
	return result, nil
}

func (r *fakePickListRepo) Save(_ context.Context, pl *outbound.PickList) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *pl
	c.Lines = append([]outbound.PickLine(nil), pl.Lines...)
	r.lists[pl.ID] = &c
	return nil
}

func (r *fakePickListRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lists)
}

// scopedPickListRepo counts saves that arrive through the transaction scope,
// as opposed to the service's own repository handle
type scopedPickListRepo struct {
	*fakePickListRepo
	scopedMu    sync.Mutex
	scopedSaves int
}

func (r *scopedPickListRepo) Save(ctx context.Context, pl *outbound.PickList) error {
	r.scopedMu.Lock()
	r.scopedSaves++
	r.scopedMu.Unlock()
	return r.fakePickListRepo.Save(ctx, pl)
}

func (r *scopedPickListRepo) scopedCount() int {
	r.scopedMu.Lock()
	defer r.scopedMu.Unlock()
	return r.scopedSaves
}

// pickingFixture wires the fakes behind a no-op transaction scope
type pickingFixture struct {
	stockRepo       *fakeStockLevelRepo
	transactionRepo *fakeTransactionRepo
	reservationRepo *fakeReservationRepo
	lotRepo         *fakeLotRepo
	serialRepo      *fakeSerialRepo
	sequenceRepo    *fakeSequenceRepo
	itemRepo        *fakeItemRepo
	pickListRepo    *fakePickListRepo
	scope           *ledgerapp.NoOpTransactionScope
}

func newPickingFixture() *pickingFixture {
	f := &pickingFixture{
		stockRepo:       newFakeStockLevelRepo(),
		transactionRepo: newFakeTransactionRepo(),
		reservationRepo: newFakeReservationRepo(),
		lotRepo:         newFakeLotRepo(),
		serialRepo:      newFakeSerialRepo(),
		sequenceRepo:    newFakeSequenceRepo(),
		itemRepo:        newFakeItemRepo(),
		pickListRepo:    newFakePickListRepo(),
	}
	f.scope = ledgerapp.NewNoOpTransactionScope(
		f.stockRepo, f.transactionRepo, f.reservationRepo, f.lotRepo, f.serialRepo, f.sequenceRepo).
		WithPickListRepo(f.pickListRepo)
	return f
}

func (f *pickingFixture) service() *PickingService {
	return NewPickingService(f.scope, f.pickListRepo, f.itemRepo)
}
