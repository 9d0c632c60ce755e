package transfer

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	ledgerapp "github.com/wms/backend/internal/application/ledger"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/transfer"
)

const (
	sequenceKindTransfer    = "TRF"
	sequenceKindTransaction = "TXN"

	// maxSaveRetries bounds optimistic lock retries for one unit of work
	maxSaveRetries = 3

	// overdueScanBatch caps transfers flagged per sweep run
	overdueScanBatch = 100
)

// TransferService moves stock between warehouses. Shipping removes the full
// line quantities at the source with TRANSFER_OUT transactions; receiving adds
// the same quantities at the destination with TRANSFER_IN transactions, so
// every completed transfer nets to zero across the two warehouses.
type TransferService struct {
	scope          ledgerapp.TransactionScope
	transferRepo   transfer.TransferRepository
	itemRepo       catalog.ItemRepository
	eventPublisher shared.EventPublisher
}

// NewTransferService creates a new TransferService
func NewTransferService(
	scope ledgerapp.TransactionScope,
	transferRepo transfer.TransferRepository,
	itemRepo catalog.ItemRepository,
) *TransferService {
	return &TransferService{
		scope:        scope,
		transferRepo: transferRepo,
		itemRepo:     itemRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *TransferService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetTransfer retrieves a transfer with its lines
func (s *TransferService) GetTransfer(ctx context.Context, tenantID, transferID uuid.UUID) (*TransferResponse, error) {
	t, err := s.transferRepo.FindByIDForTenant(ctx, tenantID, transferID)
	if err != nil {
		return nil, err
	}
	response := ToTransferResponse(t)
	return &response, nil
}

// ListTransfers retrieves transfers for a tenant
func (s *TransferService) ListTransfers(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]TransferResponse, error) {
	transfers, err := s.transferRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return ToTransferResponses(transfers), nil
}

// ListTransfersByStatus retrieves transfers in a given status for a tenant
func (s *TransferService) ListTransfersByStatus(ctx context.Context, tenantID uuid.UUID, status transfer.TransferStatus, filter shared.Filter) ([]TransferResponse, error) {
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Invalid transfer status")
	}
	transfers, err := s.transferRepo.FindByStatus(ctx, tenantID, status, filter)
	if err != nil {
		return nil, err
	}
	return ToTransferResponses(transfers), nil
}

// CreateTransfer creates a draft transfer between two warehouses. Lot tracked
// items must name the lot that will move so the destination keeps lot identity.
func (s *TransferService) CreateTransfer(ctx context.Context, tenantID uuid.UUID, req CreateTransferRequest) (*TransferResponse, error) {
	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_TRANSFER", "Transfer must have at least one line")
	}

	items := make(map[uuid.UUID]*catalog.Item, len(req.Lines))
	for _, line := range req.Lines {
		if _, ok := items[line.ItemID]; ok {
			continue
		}
		item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, line.ItemID)
		if err != nil {
			return nil, err
		}
		if !item.IsActive() {
			return nil, shared.NewDomainError("INACTIVE_ITEM", "Item "+item.SKU+" is not active")
		}
		items[line.ItemID] = item
	}

	var response *TransferResponse
	err := s.executeWithRetry(ctx, func(repos ledgerapp.TransactionalRepositories) (bool, error) {
		now := time.Now()
		seq, err := repos.SequenceRepo().Next(ctx, tenantID, sequenceKindTransfer, now)
		if err != nil {
			return false, err
		}
		t, err := transfer.NewInventoryTransfer(tenantID, transfer.NewTransferNumber(now, seq),
			req.SourceWarehouseID, req.DestinationWarehouseID)
		if err != nil {
			return false, err
		}
		if req.ExpectedAt != nil {
			t.WithExpectedAt(*req.ExpectedAt)
		}
		t.WithNotes(req.Notes)

		for _, lineReq := range req.Lines {
			item := items[lineReq.ItemID]
			if item.LotTracked && lineReq.LotID == nil {
				return false, shared.NewDomainError("LOT_REQUIRED", "Item "+item.SKU+" requires a lot")
			}
			if err := t.AddLine(item.ID, item.SKU, lineReq.Quantity, lineReq.LotID); err != nil {
				return false, err
			}
		}

		if err := repos.TransferRepo().Save(ctx, t); err != nil {
			return false, err
		}

		r := ToTransferResponse(t)
		response = &r
		s.publishEvents(ctx, &t.TenantAggregateRoot)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// ShipTransfer ships a draft transfer, removing every line's quantity from the
// source warehouse. Stock removals and the status change commit together, so a
// line with insufficient stock ships nothing.
func (s *TransferService) ShipTransfer(ctx context.Context, tenantID, transferID uuid.UUID, req ShipTransferRequest) (*TransferResponse, error) {
	var response *TransferResponse
	err := s.executeWithRetry(ctx, func(repos ledgerapp.TransactionalRepositories) (bool, error) {
		t, err := s.transferRepo.FindByIDForTenant(ctx, tenantID, transferID)
		if err != nil {
			return false, err
		}
		if err := t.Ship(); err != nil {
			return false, err
		}

		for i := range t.Lines {
			if retry, err := s.drainSourceLine(ctx, repos, t, &t.Lines[i], req.PerformedBy); err != nil {
				return retry, err
			}
		}

		if err := repos.TransferRepo().Save(ctx, t); err != nil {
			return false, err
		}

		r := ToTransferResponse(t)
		response = &r
		s.publishEvents(ctx, &t.TenantAggregateRoot)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// drainSourceLine removes one line's shipped quantity from the source
// warehouse, draining stocked rows in a stable bin order. A lot line drains
// only rows of that lot; a lotless line drains only lotless rows.
func (s *TransferService) drainSourceLine(
	ctx context.Context,
	repos ledgerapp.TransactionalRepositories,
	t *transfer.InventoryTransfer,
	line *transfer.TransferLine,
	performedBy *uuid.UUID,
) (bool, error) {
	rows, err := repos.StockLevelRepo().FindByItemAndWarehouse(ctx, t.TenantID, line.ItemID, t.SourceID)
	if err != nil {
		return false, err
	}
	matching := make([]ledger.StockLevel, 0, len(rows))
	for _, row := range rows {
		if row.SerialID != nil {
			continue
		}
		if line.LotID != nil {
			if row.LotID != nil && *row.LotID == *line.LotID {
				matching = append(matching, row)
			}
			continue
		}
		if row.LotID == nil {
			matching = append(matching, row)
		}
	}
	sort.Slice(matching, func(i, j int) bool {
		return stockRowOrder(&matching[i]) < stockRowOrder(&matching[j])
	})

	remaining := line.ShippedQty
	for i := range matching {
		if remaining.IsZero() {
			break
		}
		row := &matching[i]
		take := decimal.Min(remaining, row.Available())
		if !take.IsPositive() {
			continue
		}
		before := row.OnHand
		if err := row.Issue(take); err != nil {
			return false, err
		}
		if err := repos.StockLevelRepo().SaveWithLock(ctx, row); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				return true, err
			}
			return false, err
		}
		if err := s.postMovement(ctx, repos, t, line, row, ledger.TransactionTypeTransferOut, take, before, performedBy); err != nil {
			return false, err
		}
		remaining = remaining.Sub(take)
	}

	if remaining.IsPositive() {
		return false, shared.ErrInsufficientStock
	}
	return false, nil
}

// ReceiveTransfer receives a shipped transfer at its destination. Every line
// arrives at exactly its shipped quantity, so the TRANSFER_IN postings mirror
// the TRANSFER_OUT postings and the transfer nets to zero.
func (s *TransferService) ReceiveTransfer(ctx context.Context, tenantID, transferID uuid.UUID, req ReceiveTransferRequest) (*TransferResponse, error) {
	var response *TransferResponse
	err := s.executeWithRetry(ctx, func(repos ledgerapp.TransactionalRepositories) (bool, error) {
		t, err := s.transferRepo.FindByIDForTenant(ctx, tenantID, transferID)
		if err != nil {
			return false, err
		}
		if err := t.Receive(); err != nil {
			return false, err
		}

		for i := range t.Lines {
			line := &t.Lines[i]
			level, err := repos.StockLevelRepo().GetOrCreate(ctx, ledger.StockKey{
				TenantID:    t.TenantID,
				ItemID:      line.ItemID,
				WarehouseID: t.DestinationID,
				LotID:       line.LotID,
			})
			if err != nil {
				return false, err
			}
			before := level.OnHand
			if err := level.Receive(line.ReceivedQty); err != nil {
				return false, err
			}
			if err := repos.StockLevelRepo().SaveWithLock(ctx, level); err != nil {
				if errors.Is(err, shared.ErrConcurrencyConflict) {
					return true, err
				}
				return false, err
			}
			if err := s.postMovement(ctx, repos, t, line, level, ledger.TransactionTypeTransferIn, line.ReceivedQty, before, req.PerformedBy); err != nil {
				return false, err
			}
		}

		if err := repos.TransferRepo().Save(ctx, t); err != nil {
			return false, err
		}

		r := ToTransferResponse(t)
		response = &r
		s.publishEvents(ctx, &t.TenantAggregateRoot)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// CancelTransfer abandons a draft transfer. Shipped stock is in transit and
// must be received, never cancelled.
func (s *TransferService) CancelTransfer(ctx context.Context, tenantID, transferID uuid.UUID) (*TransferResponse, error) {
	t, err := s.transferRepo.FindByIDForTenant(ctx, tenantID, transferID)
	if err != nil {
		return nil, err
	}
	if err := t.Cancel(); err != nil {
		return nil, err
	}
	if err := s.transferRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	response := ToTransferResponse(t)
	return &response, nil
}

// FlagOverdueTransfers flags shipped transfers past their expected arrival and
// emits an overdue event for each. Runs across tenants from the scheduler and
// returns the number of transfers flagged.
func (s *TransferService) FlagOverdueTransfers(ctx context.Context, now time.Time) (int, error) {
	overdue, err := s.transferRepo.FindOverdue(ctx, now, overdueScanBatch)
	if err != nil {
		return 0, err
	}

	flagged := 0
	for i := range overdue {
		t := &overdue[i]
		if err := t.MarkOverdue(now); err != nil {
			continue
		}
		if err := s.transferRepo.Save(ctx, t); err != nil {
			return flagged, err
		}
		s.publishEvents(ctx, &t.TenantAggregateRoot)
		flagged++
	}
	return flagged, nil
}

// postMovement writes one transfer side of the ledger for a stock row touched
// by shipping or receiving
func (s *TransferService) postMovement(
	ctx context.Context,
	repos ledgerapp.TransactionalRepositories,
	t *transfer.InventoryTransfer,
	line *transfer.TransferLine,
	level *ledger.StockLevel,
	txType ledger.TransactionType,
	quantity decimal.Decimal,
	before decimal.Decimal,
	performedBy *uuid.UUID,
) error {
	now := time.Now()
	seq, err := repos.SequenceRepo().Next(ctx, t.TenantID, sequenceKindTransaction, now)
	if err != nil {
		return err
	}
	tx, err := ledger.NewInventoryTransaction(
		t.TenantID,
		ledger.NewTransactionNumber(now, seq),
		level.ID,
		line.ItemID,
		level.WarehouseID,
		txType,
		quantity,
		before,
		level.OnHand,
		ledger.SourceTypeTransfer,
		t.Number,
	)
	if err != nil {
		return err
	}
	tx.WithSourceLineID(line.ID.String())
	if line.LotID != nil {
		tx.WithLotID(*line.LotID)
	}
	if performedBy != nil {
		tx.WithPerformedBy(*performedBy)
	}
	return repos.TransactionRepo().Create(ctx, tx)
}

// stockRowOrder gives stock rows a stable drain order by location, bin and row ID
func stockRowOrder(row *ledger.StockLevel) string {
	var location, bin string
	if row.LocationID != nil {
		location = row.LocationID.String()
	}
	if row.BinID != nil {
		bin = row.BinID.String()
	}
	return location + "|" + bin + "|" + row.ID.String()
}

func (s *TransferService) executeWithRetry(ctx context.Context, fn func(repos ledgerapp.TransactionalRepositories) (bool, error)) error {
	var lastErr error
	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		var retry bool
		err := s.scope.Execute(ctx, func(repos ledgerapp.TransactionalRepositories) error {
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

func (s *TransferService) publishEvents(ctx context.Context, root *shared.TenantAggregateRoot) {
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
