package receiving

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	ledgerapp "github.com/wms/backend/internal/application/ledger"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/receiving"
	"github.com/wms/backend/internal/domain/shared"
)

type fakePurchaseOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*receiving.PurchaseOrder
}

func newFakePurchaseOrderRepo() *fakePurchaseOrderRepo {
	return &fakePurchaseOrderRepo{orders: make(map[uuid.UUID]*receiving.PurchaseOrder)}
}

func (r *fakePurchaseOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*receiving.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	po, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *po
	return &copied, nil
}

func (r *fakePurchaseOrderRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*receiving.PurchaseOrder, error) {
	po, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return po, nil
}

func (r *fakePurchaseOrderRepo) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*receiving.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, po := range r.orders {
		if po.TenantID == tenantID && po.Number == number {
			copied := *po
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakePurchaseOrderRepo) FindByStatus(ctx context.Context, tenantID uuid.UUID, status receiving.PurchaseOrderStatus, filter shared.Filter) ([]receiving.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []receiving.PurchaseOrder
	for _, po := range r.orders {
		if po.TenantID == tenantID && po.Status == status {
			result = append(result, *po)
		}
	}
	return result, nil
}

func (r *fakePurchaseOrderRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]receiving.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []receiving.PurchaseOrder
	for _, po := range r.orders {
		if po.TenantID == tenantID {
			result = append(result, *po)
		}
	}
	return result, nil
}

func (r *fakePurchaseOrderRepo) Save(ctx context.Context, po *receiving.PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *po
	r.orders[po.ID] = &copied
	return nil
}

type fakeGoodsReceiptRepo struct {
	mu       sync.Mutex
	receipts map[uuid.UUID]*receiving.GoodsReceipt
}

func newFakeGoodsReceiptRepo() *fakeGoodsReceiptRepo {
	return &fakeGoodsReceiptRepo{receipts: make(map[uuid.UUID]*receiving.GoodsReceipt)}
}

func (r *fakeGoodsReceiptRepo) FindByID(ctx context.Context, id uuid.UUID) (*receiving.GoodsReceipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	gr, ok := r.receipts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *gr
	return &copied, nil
}

func (r *fakeGoodsReceiptRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*receiving.GoodsReceipt, error) {
	gr, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if gr.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return gr, nil
}

func (r *fakeGoodsReceiptRepo) FindByPurchaseOrder(ctx context.Context, tenantID, poID uuid.UUID) ([]receiving.GoodsReceipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []receiving.GoodsReceipt
	for _, gr := range r.receipts {
		if gr.TenantID == tenantID && gr.PurchaseOrderID != nil && *gr.PurchaseOrderID == poID {
			result = append(result, *gr)
		}
	}
	return result, nil
}

func (r *fakeGoodsReceiptRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]receiving.GoodsReceipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []receiving.GoodsReceipt
	for _, gr := range r.receipts {
		if gr.TenantID == tenantID {
			result = append(result, *gr)
		}
	}
	return result, nil
}

func (r *fakeGoodsReceiptRepo) Save(ctx context.Context, gr *receiving.GoodsReceipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *gr
	r.receipts[gr.ID] = &copied
	return nil
}

type fakePutAwayRepo struct {
	mu        sync.Mutex
	tasks     map[uuid.UUID]*receiving.PutAwayTask
	saves     int
	failSaves int
}

func newFakePutAwayRepo() *fakePutAwayRepo {
	return &fakePutAwayRepo{tasks: make(map[uuid.UUID]*receiving.PutAwayTask)}
}

func (r *fakePutAwayRepo) FindByID(ctx context.Context, id uuid.UUID) (*receiving.PutAwayTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *task
	copied.Items = append([]receiving.PutAwayItem(nil), task.Items...)
	return &copied, nil
}

func (r *fakePutAwayRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*receiving.PutAwayTask, error) {
	task, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return task, nil
}

func (r *fakePutAwayRepo) FindByGoodsReceipt(ctx context.Context, tenantID, goodsReceiptID uuid.UUID) (*receiving.PutAwayTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, task := range r.tasks {
		if task.TenantID == tenantID && task.GoodsReceiptID == goodsReceiptID {
			copied := *task
			copied.Items = append([]receiving.PutAwayItem(nil), task.Items...)
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakePutAwayRepo) FindOpen(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]receiving.PutAwayTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []receiving.PutAwayTask
	for _, task := range r.tasks {
		if task.TenantID == tenantID &&
			(task.Status == receiving.PutAwayStatusOpen || task.Status == receiving.PutAwayStatusInProgress) {
			result = append(result, *task)
		}
	}
	return result, nil
}

func (r *fakePutAwayRepo) Save(ctx context.Context, task *receiving.PutAwayTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSaves > 0 {
		r.failSaves--
		return errors.New("storage unavailable")
	}
	r.saves++
	copied := *task
	copied.Items = append([]receiving.PutAwayItem(nil), task.Items...)
	r.tasks[task.ID] = &copied
	return nil
}

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

func (r *fakeItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
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

func (r *fakeItemRepo) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*catalog.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.TenantID == tenantID && item.SKU == sku {
			return item, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeItemRepo) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Item, error) {
	var result []catalog.Item
	for _, id := range ids {
		if item, err := r.FindByIDForTenant(ctx, tenantID, id); err == nil {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *fakeItemRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []catalog.Item
	for _, item := range r.items {
		if item.TenantID == tenantID {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *fakeItemRepo) FindBelowReorderPoint(ctx context.Context, tenantID uuid.UUID) ([]catalog.Item, error) {
	return nil, nil
}

func (r *fakeItemRepo) Save(ctx context.Context, item *catalog.Item) error {
	r.add(item)
	return nil
}

func (r *fakeItemRepo) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	items, _ := r.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(items)), nil
}

type fakeLotRepo struct {
	mu   sync.Mutex
	lots map[uuid.UUID]*ledger.LotNumber
}

func newFakeLotRepo() *fakeLotRepo {
	return &fakeLotRepo{lots: make(map[uuid.UUID]*ledger.LotNumber)}
}

func (r *fakeLotRepo) FindByID(ctx context.Context, id uuid.UUID) (*ledger.LotNumber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lot, ok := r.lots[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return lot, nil
}

func (r *fakeLotRepo) FindByNumber(ctx context.Context, tenantID, itemID uuid.UUID, number string) (*ledger.LotNumber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, lot := range r.lots {
		if lot.TenantID == tenantID && lot.ItemID == itemID && lot.Number == number {
			return lot, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeLotRepo) FindByItem(ctx context.Context, tenantID, itemID uuid.UUID) ([]ledger.LotNumber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []ledger.LotNumber
	for _, lot := range r.lots {
		if lot.TenantID == tenantID && lot.ItemID == itemID {
			result = append(result, *lot)
		}
	}
	return result, nil
}

func (r *fakeLotRepo) FindExpiringBefore(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) ([]ledger.LotNumber, error) {
	return nil, nil
}

func (r *fakeLotRepo) Save(ctx context.Context, lot *ledger.LotNumber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lots[lot.ID] = lot
	return nil
}

func (r *fakeLotRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lots)
}

type fakeSerialRepo struct {
	mu      sync.Mutex
	serials map[uuid.UUID]*ledger.SerialNumber
}

func newFakeSerialRepo() *fakeSerialRepo {
	return &fakeSerialRepo{serials: make(map[uuid.UUID]*ledger.SerialNumber)}
}

func (r *fakeSerialRepo) FindByID(ctx context.Context, id uuid.UUID) (*ledger.SerialNumber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	serial, ok := r.serials[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return serial, nil
}

func (r *fakeSerialRepo) FindByNumber(ctx context.Context, tenantID, itemID uuid.UUID, number string) (*ledger.SerialNumber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, serial := range r.serials {
		if serial.TenantID == tenantID && serial.ItemID == itemID && serial.Number == number {
			return serial, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSerialRepo) FindByItemAndStatus(ctx context.Context, tenantID, itemID uuid.UUID, status ledger.SerialStatus) ([]ledger.SerialNumber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []ledger.SerialNumber
	for _, serial := range r.serials {
		if serial.TenantID == tenantID && serial.ItemID == itemID && serial.Status == status {
			result = append(result, *serial)
		}
	}
	return result, nil
}

func (r *fakeSerialRepo) Save(ctx context.Context, serial *ledger.SerialNumber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.serials[serial.ID] = serial
	return nil
}

func (r *fakeSerialRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.serials)
}

type fakeSequenceRepo struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newFakeSequenceRepo() *fakeSequenceRepo {
	return &fakeSequenceRepo{counters: make(map[string]int64)}
}

func (r *fakeSequenceRepo) Next(ctx context.Context, tenantID uuid.UUID, kind string, date time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := fmt.Sprintf("%s|%s|%s", tenantID, kind, date.Format("20060102"))
	r.counters[key]++
	return r.counters[key], nil
}

// fakeStockPoster records inbound movements instead of touching a ledger
type fakeStockPoster struct {
	mu       sync.Mutex
	requests []ledgerapp.ReceiveStockRequest
	err      error
}

func (p *fakeStockPoster) Receive(ctx context.Context, tenantID uuid.UUID, req ledgerapp.ReceiveStockRequest) (*ledgerapp.TransactionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	p.requests = append(p.requests, req)
	return &ledgerapp.TransactionResponse{ID: uuid.New(), ItemID: req.ItemID}, nil
}

func (p *fakeStockPoster) all() []ledgerapp.ReceiveStockRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ledgerapp.ReceiveStockRequest(nil), p.requests...)
}

type receivingFixture struct {
	poRepo      *fakePurchaseOrderRepo
	receiptRepo *fakeGoodsReceiptRepo
	putAwayRepo *fakePutAwayRepo
	itemRepo    *fakeItemRepo
	lotRepo     *fakeLotRepo
	serialRepo  *fakeSerialRepo
	poster      *fakeStockPoster
}

func newReceivingFixture() *receivingFixture {
	return &receivingFixture{
		poRepo:      newFakePurchaseOrderRepo(),
		receiptRepo: newFakeGoodsReceiptRepo(),
		putAwayRepo: newFakePutAwayRepo(),
		itemRepo:    newFakeItemRepo(),
		lotRepo:     newFakeLotRepo(),
		serialRepo:  newFakeSerialRepo(),
		poster:      &fakeStockPoster{},
	}
}

func (f *receivingFixture) service() *ReceivingService {
	return NewReceivingService(
		f.poRepo, f.receiptRepo, f.putAwayRepo,
		f.itemRepo, f.lotRepo, f.serialRepo,
		newFakeSequenceRepo(), f.poster,
	)
}
