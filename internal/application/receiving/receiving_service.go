package receiving

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	ledgerapp "github.com/wms/backend/internal/application/ledger"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/receiving"
	"github.com/wms/backend/internal/domain/shared"
)

const (
	sequenceKindPurchaseOrder = "PO"
	sequenceKindGoodsReceipt  = "GR"
	sequenceKindPutAway       = "PA"
)

// StockPoster posts confirmed inbound movements to the stock ledger
type StockPoster interface {
	Receive(ctx context.Context, tenantID uuid.UUID, req ledgerapp.ReceiveStockRequest) (*ledgerapp.TransactionResponse, error)
}

// ReceivingService manages the inbound workflow from purchase order through
// goods receipt to put-away. Stock goes on hand only when a put-away line
// completes, so partially applied tasks can be re-driven safely.
type ReceivingService struct {
	poRepo         receiving.PurchaseOrderRepository
	receiptRepo    receiving.GoodsReceiptRepository
	putAwayRepo    receiving.PutAwayRepository
	itemRepo       catalog.ItemRepository
	lotRepo        ledger.LotRepository
	serialRepo     ledger.SerialRepository
	sequenceRepo   ledger.SequenceRepository
	stockPoster    StockPoster
	eventPublisher shared.EventPublisher

	// allowOverReceipt accepts receipts above the ordered quantity when set.
	// Over-receipt tolerance is a site policy, not a caller's choice.
	allowOverReceipt bool
}

// NewReceivingService creates a new ReceivingService
func NewReceivingService(
	poRepo receiving.PurchaseOrderRepository,
	receiptRepo receiving.GoodsReceiptRepository,
	putAwayRepo receiving.PutAwayRepository,
	itemRepo catalog.ItemRepository,
	lotRepo ledger.LotRepository,
	serialRepo ledger.SerialRepository,
	sequenceRepo ledger.SequenceRepository,
	stockPoster StockPoster,
) *ReceivingService {
	return &ReceivingService{
		poRepo:       poRepo,
		receiptRepo:  receiptRepo,
		putAwayRepo:  putAwayRepo,
		itemRepo:     itemRepo,
		lotRepo:      lotRepo,
		serialRepo:   serialRepo,
		sequenceRepo: sequenceRepo,
		stockPoster:  stockPoster,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReceivingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetAllowOverReceipt configures whether receipts may exceed the ordered quantity
func (s *ReceivingService) SetAllowOverReceipt(allow bool) {
	s.allowOverReceipt = allow
}

// CreatePurchaseOrder creates a draft purchase order with its lines
func (s *ReceivingService) CreatePurchaseOrder(ctx context.Context, tenantID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must have at least one line")
	}

	now := time.Now()
	seq, err := s.sequenceRepo.Next(ctx, tenantID, sequenceKindPurchaseOrder, now)
	if err != nil {
		return nil, err
	}

	po, err := receiving.NewPurchaseOrder(tenantID, receiving.NewPurchaseOrderNumber(now, seq), req.WarehouseID, req.SupplierRef)
	if err != nil {
		return nil, err
	}
	po.ExpectedAt = req.ExpectedAt
	po.Remark = req.Remark

	for _, line := range req.Lines {
		item, err := s.activeItem(ctx, tenantID, line.ItemID)
		if err != nil {
			return nil, err
		}
		if err := po.AddItem(item.ID, item.SKU, line.OrderedQty, line.UnitCost); err != nil {
			return nil, err
		}
	}

	if err := s.poRepo.Save(ctx, po); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, &po.TenantAggregateRoot)

	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// ApprovePurchaseOrder approves a draft order so receipts can be posted
func (s *ReceivingService) ApprovePurchaseOrder(ctx context.Context, tenantID, poID, approverID uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByIDForTenant(ctx, tenantID, poID)
	if err != nil {
		return nil, err
	}
	if err := po.Approve(approverID); err != nil {
		return nil, err
	}
	if err := s.poRepo.Save(ctx, po); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, &po.TenantAggregateRoot)

	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// ClosePurchaseOrder closes an order, abandoning outstanding quantities
func (s *ReceivingService) ClosePurchaseOrder(ctx context.Context, tenantID, poID uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByIDForTenant(ctx, tenantID, poID)
	if err != nil {
		return nil, err
	}
	if err := po.Close(); err != nil {
		return nil, err
	}
	if err := s.poRepo.Save(ctx, po); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, &po.TenantAggregateRoot)

	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// CancelPurchaseOrder cancels an order that has received no stock
func (s *ReceivingService) CancelPurchaseOrder(ctx context.Context, tenantID, poID uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByIDForTenant(ctx, tenantID, poID)
	if err != nil {
		return nil, err
	}
	if err := po.Cancel(); err != nil {
		return nil, err
	}
	if err := s.poRepo.Save(ctx, po); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// GetPurchaseOrder retrieves an order with its lines
func (s *ReceivingService) GetPurchaseOrder(ctx context.Context, tenantID, poID uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByIDForTenant(ctx, tenantID, poID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// ListPurchaseOrders retrieves orders for a tenant
func (s *ReceivingService) ListPurchaseOrders(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PurchaseOrderResponse, error) {
	orders, err := s.poRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return ToPurchaseOrderResponses(orders), nil
}

// CreateGoodsReceipt creates a draft goods receipt. Lines for lot-tracked
// items must carry a lot number; serial-tracked items must carry one serial
// per unit. Receipts may reference an approved purchase order or stand alone.
func (s *ReceivingService) CreateGoodsReceipt(ctx context.Context, tenantID uuid.UUID, req CreateGoodsReceiptRequest) (*GoodsReceiptResponse, error) {
	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_RECEIPT", "Receipt must have at least one line")
	}

	var po *receiving.PurchaseOrder
	if req.PurchaseOrderID != nil {
		var err error
		po, err = s.poRepo.FindByIDForTenant(ctx, tenantID, *req.PurchaseOrderID)
		if err != nil {
			return nil, err
		}
		if po.Status != receiving.PurchaseOrderStatusApproved && po.Status != receiving.PurchaseOrderStatusPartiallyReceived {
			return nil, shared.NewDomainError("INVALID_STATUS", "Receipts can only reference an approved order")
		}
		if po.WarehouseID != req.WarehouseID {
			return nil, shared.NewDomainError("WAREHOUSE_MISMATCH", "Receipt warehouse must match the order warehouse")
		}
	}

	now := time.Now()
	seq, err := s.sequenceRepo.Next(ctx, tenantID, sequenceKindGoodsReceipt, now)
	if err != nil {
		return nil, err
	}
	gr, err := receiving.NewGoodsReceipt(tenantID, receiving.NewGoodsReceiptNumber(now, seq), req.WarehouseID)
	if err != nil {
		return nil, err
	}
	if po != nil {
		gr.WithPurchaseOrder(po.ID)
	}
	gr.Remark = req.Remark

	for _, lineReq := range req.Lines {
		item, err := s.activeItem(ctx, tenantID, lineReq.ItemID)
		if err != nil {
			return nil, err
		}
		if item.LotTracked && lineReq.LotNumber == "" {
			return nil, shared.NewDomainError("LOT_REQUIRED", "Item "+item.SKU+" is lot tracked")
		}
		if item.SerialTracked && len(lineReq.SerialNumbers) == 0 {
			return nil, shared.NewDomainError("SERIAL_REQUIRED", "Item "+item.SKU+" is serial tracked")
		}

		line := receiving.GoodsReceiptLine{
			ItemID:          item.ID,
			SKU:             item.SKU,
			Quantity:        lineReq.Quantity,
			UnitCost:        lineReq.UnitCost,
			LotNumber:       lineReq.LotNumber,
			ManufactureDate: lineReq.ManufactureDate,
			ExpiryDate:      lineReq.ExpiryDate,
			SerialNumbers:   pq.StringArray(lineReq.SerialNumbers),
		}
		if po != nil {
			poLine := po.FindItem(item.ID)
			if poLine == nil {
				return nil, shared.NewDomainError("ITEM_NOT_ON_ORDER", "Item "+item.SKU+" is not on the referenced order")
			}
			line.POLineID = &poLine.ID
		}
		if err := gr.AddLine(line); err != nil {
			return nil, err
		}
	}

	if err := s.receiptRepo.Save(ctx, gr); err != nil {
		return nil, err
	}

	response := ToGoodsReceiptResponse(gr)
	return &response, nil
}

// ConfirmGoodsReceipt confirms a draft receipt. Confirmation records receipt
// quantities on the linked purchase order, creates lot and serial records for
// tracked lines, and opens a put-away task with one line per lot quantity and
// one line per serialized unit.
func (s *ReceivingService) ConfirmGoodsReceipt(ctx context.Context, tenantID, receiptID uuid.UUID, req ConfirmGoodsReceiptRequest) (*ConfirmReceiptResult, error) {
	gr, err := s.receiptRepo.FindByIDForTenant(ctx, tenantID, receiptID)
	if err != nil {
		return nil, err
	}
	if gr.Status != receiving.GoodsReceiptStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATUS", "Receipt is already confirmed")
	}

	var po *receiving.PurchaseOrder
	if gr.PurchaseOrderID != nil {
		po, err = s.poRepo.FindByIDForTenant(ctx, tenantID, *gr.PurchaseOrderID)
		if err != nil {
			return nil, err
		}
		for i := range gr.Lines {
			line := &gr.Lines[i]
			if line.POLineID == nil {
				continue
			}
			if err := po.RecordReceipt(*line.POLineID, line.Quantity, s.allowOverReceipt); err != nil {
				return nil, err
			}
		}
	}

	now := time.Now()
	seq, err := s.sequenceRepo.Next(ctx, tenantID, sequenceKindPutAway, now)
	if err != nil {
		return nil, err
	}
	task, err := receiving.NewPutAwayTask(tenantID, receiving.NewPutAwayNumber(now, seq), gr.WarehouseID, gr.ID)
	if err != nil {
		return nil, err
	}

	for i := range gr.Lines {
		if err := s.openPutAwayLines(ctx, tenantID, task, &gr.Lines[i]); err != nil {
			return nil, err
		}
	}

	if err := gr.MarkReceived(req.ReceivedBy); err != nil {
		return nil, err
	}

	if po != nil {
		if err := s.poRepo.Save(ctx, po); err != nil {
			return nil, err
		}
	}
	if err := s.receiptRepo.Save(ctx, gr); err != nil {
		return nil, err
	}
	if err := s.putAwayRepo.Save(ctx, task); err != nil {
		return nil, err
	}

	if po != nil {
		s.publishEvents(ctx, &po.TenantAggregateRoot)
	}
	s.publishEvents(ctx, &gr.TenantAggregateRoot)
	s.publishEvents(ctx, &task.TenantAggregateRoot)

	return &ConfirmReceiptResult{
		GoodsReceipt: ToGoodsReceiptResponse(gr),
		PutAwayTask:  ToPutAwayTaskResponse(task),
	}, nil
}

// openPutAwayLines records lot and serial numbers for a confirmed receipt
// line and adds the matching put-away lines to the task. Serialized units
// get one put-away line each so every serial lands in its own bin.
func (s *ReceivingService) openPutAwayLines(ctx context.Context, tenantID uuid.UUID, task *receiving.PutAwayTask, line *receiving.GoodsReceiptLine) error {
	var lotID *uuid.UUID
	if line.LotNumber != "" {
		lot, err := s.recordLot(ctx, tenantID, line)
		if err != nil {
			return err
		}
		lotID = &lot.ID
	}

	if len(line.SerialNumbers) > 0 {
		for _, serialNumber := range line.SerialNumbers {
			serial, err := s.recordSerial(ctx, tenantID, line, serialNumber, lotID)
			if err != nil {
				return err
			}
			serialID := serial.ID
			if err := task.AddItem(receiving.PutAwayItem{
				ItemID:   line.ItemID,
				SKU:      line.SKU,
				LotID:    lotID,
				SerialID: &serialID,
				Quantity: decimal.NewFromInt(1),
				UnitCost: line.UnitCost,
			}); err != nil {
				return err
			}
		}
		return nil
	}

	return task.AddItem(receiving.PutAwayItem{
		ItemID:   line.ItemID,
		SKU:      line.SKU,
		LotID:    lotID,
		Quantity: line.Quantity,
		UnitCost: line.UnitCost,
	})
}

// recordLot creates the lot record for a receipt line, reusing an existing
// record when the supplier ships the same lot across multiple receipts
func (s *ReceivingService) recordLot(ctx context.Context, tenantID uuid.UUID, line *receiving.GoodsReceiptLine) (*ledger.LotNumber, error) {
	existing, err := s.lotRepo.FindByNumber(ctx, tenantID, line.ItemID, line.LotNumber)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	lot, err := ledger.NewLotNumber(tenantID, line.LotNumber, line.ItemID, line.Quantity)
	if err != nil {
		return nil, err
	}
	if _, err := lot.WithDates(line.ManufactureDate, line.ExpiryDate); err != nil {
		return nil, err
	}
	if err := s.lotRepo.Save(ctx, lot); err != nil {
		return nil, err
	}
	return lot, nil
}

func (s *ReceivingService) recordSerial(ctx context.Context, tenantID uuid.UUID, line *receiving.GoodsReceiptLine, number string, lotID *uuid.UUID) (*ledger.SerialNumber, error) {
	if existing, err := s.serialRepo.FindByNumber(ctx, tenantID, line.ItemID, number); err == nil {
		return nil, shared.NewDomainError("DUPLICATE_SERIAL", "Serial "+existing.Number+" already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	serial, err := ledger.NewSerialNumber(tenantID, number, line.ItemID)
	if err != nil {
		return nil, err
	}
	if lotID != nil {
		serial.WithLot(*lotID)
	}
	if err := s.serialRepo.Save(ctx, serial); err != nil {
		return nil, err
	}
	return serial, nil
}

// GetGoodsReceipt retrieves a receipt with its lines
func (s *ReceivingService) GetGoodsReceipt(ctx context.Context, tenantID, receiptID uuid.UUID) (*GoodsReceiptResponse, error) {
	gr, err := s.receiptRepo.FindByIDForTenant(ctx, tenantID, receiptID)
	if err != nil {
		return nil, err
	}
	response := ToGoodsReceiptResponse(gr)
	return &response, nil
}

// ListGoodsReceipts retrieves receipts for a tenant
func (s *ReceivingService) ListGoodsReceipts(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]GoodsReceiptResponse, error) {
	receipts, err := s.receiptRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return ToGoodsReceiptResponses(receipts), nil
}

// StartPutAway moves a put-away task to in-progress
func (s *ReceivingService) StartPutAway(ctx context.Context, tenantID, taskID uuid.UUID) (*PutAwayTaskResponse, error) {
	task, err := s.putAwayRepo.FindByIDForTenant(ctx, tenantID, taskID)
	if err != nil {
		return nil, err
	}
	if err := task.Start(); err != nil {
		return nil, err
	}
	if err := s.putAwayRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	response := ToPutAwayTaskResponse(task)
	return &response, nil
}

// CompletePutAwayItem completes one put-away line, posting its stock on hand
// at the line's bin. Completing an already completed line is a no-op, so a
// task that failed between the ledger post and the save can be re-driven
// without double-counting.
func (s *ReceivingService) CompletePutAwayItem(ctx context.Context, tenantID, taskID, lineID uuid.UUID, performedBy *uuid.UUID) (*PutAwayTaskResponse, error) {
	task, err := s.putAwayRepo.FindByIDForTenant(ctx, tenantID, taskID)
	if err != nil {
		return nil, err
	}

	changed, err := task.CompleteItem(lineID)
	if err != nil {
		return nil, err
	}
	if changed {
		line := findPutAwayItem(task, lineID)
		if line == nil {
			return nil, shared.ErrNotFound
		}
		_, err := s.stockPoster.Receive(ctx, tenantID, ledgerapp.ReceiveStockRequest{
			StockKeyRequest: ledgerapp.StockKeyRequest{
				ItemID:      line.ItemID,
				WarehouseID: task.WarehouseID,
				LocationID:  line.LocationID,
				BinID:       line.BinID,
				LotID:       line.LotID,
				SerialID:    line.SerialID,
			},
			Quantity:    line.Quantity,
			UnitCost:    line.UnitCost,
			SourceType:  string(ledger.SourceTypePutAway),
			SourceID:    task.Number,
			SourceLine:  line.ID.String(),
			PerformedBy: performedBy,
		})
		if err != nil {
			return nil, err
		}
		if err := s.putAwayRepo.Save(ctx, task); err != nil {
			return nil, err
		}
		s.publishEvents(ctx, &task.TenantAggregateRoot)
	}

	response := ToPutAwayTaskResponse(task)
	return &response, nil
}

// AssignPutAwayBin sets the target location and bin on a pending line
func (s *ReceivingService) AssignPutAwayBin(ctx context.Context, tenantID, taskID, lineID uuid.UUID, locationID, binID *uuid.UUID) (*PutAwayTaskResponse, error) {
	task, err := s.putAwayRepo.FindByIDForTenant(ctx, tenantID, taskID)
	if err != nil {
		return nil, err
	}
	line := findPutAwayItem(task, lineID)
	if line == nil {
		return nil, shared.ErrNotFound
	}
	if line.Completed {
		return nil, shared.NewDomainError("INVALID_STATUS", "Line is already put away")
	}

	line.LocationID = locationID
	line.BinID = binID
	line.UpdatedAt = time.Now()
	task.UpdatedAt = line.UpdatedAt
	task.IncrementVersion()

	if err := s.putAwayRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	response := ToPutAwayTaskResponse(task)
	return &response, nil
}

// CancelPutAway abandons a task; lines already put away keep their stock
func (s *ReceivingService) CancelPutAway(ctx context.Context, tenantID, taskID uuid.UUID) (*PutAwayTaskResponse, error) {
	task, err := s.putAwayRepo.FindByIDForTenant(ctx, tenantID, taskID)
	if err != nil {
		return nil, err
	}
	if err := task.Cancel(); err != nil {
		return nil, err
	}
	if err := s.putAwayRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	response := ToPutAwayTaskResponse(task)
	return &response, nil
}

// GetPutAwayTask retrieves a task with its lines
func (s *ReceivingService) GetPutAwayTask(ctx context.Context, tenantID, taskID uuid.UUID) (*PutAwayTaskResponse, error) {
	task, err := s.putAwayRepo.FindByIDForTenant(ctx, tenantID, taskID)
	if err != nil {
		return nil, err
	}
	response := ToPutAwayTaskResponse(task)
	return &response, nil
}

// ListOpenPutAways retrieves tasks not yet completed or cancelled
func (s *ReceivingService) ListOpenPutAways(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PutAwayTaskResponse, error) {
	tasks, err := s.putAwayRepo.FindOpen(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return ToPutAwayTaskResponses(tasks), nil
}

func (s *ReceivingService) activeItem(ctx context.Context, tenantID, itemID uuid.UUID) (*catalog.Item, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	if !item.IsActive() {
		return nil, shared.NewDomainError("INACTIVE_ITEM", "Item "+item.SKU+" is not active")
	}
	return item, nil
}

func findPutAwayItem(task *receiving.PutAwayTask, lineID uuid.UUID) *receiving.PutAwayItem {
	for i := range task.Items {
		if task.Items[i].ID == lineID {
			return &task.Items[i]
		}
	}
	return nil
}

func (s *ReceivingService) publishEvents(ctx context.Context, root *shared.TenantAggregateRoot) {
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
