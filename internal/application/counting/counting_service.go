package counting

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	ledgerapp "github.com/wms/backend/internal/application/ledger"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/counting"
	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/shared"
)

const (
	sequenceKindCycleCount  = "CC"
	sequenceKindAdjustment  = "ADJ"
	sequenceKindTransaction = "TXN"

	// maxSaveRetries bounds optimistic lock retries for one unit of work
	maxSaveRetries = 3
)

// CountingService manages cycle counts and stock adjustments. A cycle count
// freezes snapshot quantities, collects physical counts and, on approval,
// turns every variance into an applied stock adjustment. Manual adjustments
// stay inert until a second person approves them.
type CountingService struct {
	scope          ledgerapp.TransactionScope
	cycleCountRepo counting.CycleCountRepository
	adjustmentRepo counting.AdjustmentRepository
	itemRepo       catalog.ItemRepository
	eventPublisher shared.EventPublisher
}

// NewCountingService creates a new CountingService
func NewCountingService(
	scope ledgerapp.TransactionScope,
	cycleCountRepo counting.CycleCountRepository,
	adjustmentRepo counting.AdjustmentRepository,
	itemRepo catalog.ItemRepository,
) *CountingService {
	return &CountingService{
		scope:          scope,
		cycleCountRepo: cycleCountRepo,
		adjustmentRepo: adjustmentRepo,
		itemRepo:       itemRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CountingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetCycleCount retrieves a cycle count with its lines
func (s *CountingService) GetCycleCount(ctx context.Context, tenantID, countID uuid.UUID) (*CycleCountResponse, error) {
	cc, err := s.cycleCountRepo.FindByIDForTenant(ctx, tenantID, countID)
	if err != nil {
		return nil, err
	}
	response := ToCycleCountResponse(cc)
	return &response, nil
}

// ListCycleCounts retrieves cycle counts for a tenant
func (s *CountingService) ListCycleCounts(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CycleCountResponse, error) {
	counts, err := s.cycleCountRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return ToCycleCountResponses(counts), nil
}

// CreateCycleCount snapshots the requested stock positions into a draft count.
// Serialized rows are skipped; serialized stock is verified unit by unit, not
// counted in bulk.
func (s *CountingService) CreateCycleCount(ctx context.Context, tenantID uuid.UUID, req CreateCycleCountRequest) (*CycleCountResponse, error) {
	countDate := time.Now()
	if req.CountDate != nil {
		countDate = *req.CountDate
	}

	var response *CycleCountResponse
	err := s.executeWithRetry(ctx, func(repos ledgerapp.TransactionalRepositories) (bool, error) {
		rows, err := s.snapshotRows(ctx, repos, tenantID, req)
		if err != nil {
			return false, err
		}
		if len(rows) == 0 {
			return false, shared.NewDomainError("NO_STOCK_POSITIONS", "No stock positions match the count scope")
		}

		now := time.Now()
		seq, err := repos.SequenceRepo().Next(ctx, tenantID, sequenceKindCycleCount, now)
		if err != nil {
			return false, err
		}
		cc, err := counting.NewCycleCount(tenantID, counting.NewCycleCountNumber(now, seq),
			req.WarehouseID, countDate, req.CreatedBy)
		if err != nil {
			return false, err
		}

		skus := make(map[uuid.UUID]string)
		for _, row := range rows {
			sku, ok := skus[row.ItemID]
			if !ok {
				item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, row.ItemID)
				if err != nil {
					return false, err
				}
				sku = item.SKU
				skus[row.ItemID] = sku
			}
			if err := cc.AddLine(row.ID, row.ItemID, sku, row.LocationID, row.BinID, row.LotID, row.OnHand); err != nil {
				return false, err
			}
		}

		if err := repos.CycleCountRepo().Save(ctx, cc); err != nil {
			return false, err
		}

		r := ToCycleCountResponse(cc)
		response = &r
		s.publishEvents(ctx, &cc.TenantAggregateRoot)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// snapshotRows resolves the stock rows in scope for a new count, in a stable
// order so line numbering is deterministic
func (s *CountingService) snapshotRows(ctx context.Context, repos ledgerapp.TransactionalRepositories, tenantID uuid.UUID, req CreateCycleCountRequest) ([]ledger.StockLevel, error) {
	var rows []ledger.StockLevel
	if len(req.ItemIDs) > 0 {
		for _, itemID := range req.ItemIDs {
			itemRows, err := repos.StockLevelRepo().FindByItemAndWarehouse(ctx, tenantID, itemID, req.WarehouseID)
			if err != nil {
				return nil, err
			}
			rows = append(rows, itemRows...)
		}
	} else {
		all, err := repos.StockLevelRepo().FindAllForTenant(ctx, tenantID, shared.Filter{})
		if err != nil {
			return nil, err
		}
		for _, row := range all {
			if row.WarehouseID == req.WarehouseID {
				rows = append(rows, row)
			}
		}
	}

	countable := make([]ledger.StockLevel, 0, len(rows))
	for _, row := range rows {
		if row.SerialID == nil {
			countable = append(countable, row)
		}
	}
	sort.Slice(countable, func(i, j int) bool {
		return stockRowOrder(&countable[i]) < stockRowOrder(&countable[j])
	})
	return countable, nil
}

// StartCounting freezes the draft and opens it for counting
func (s *CountingService) StartCounting(ctx context.Context, tenantID, countID uuid.UUID) (*CycleCountResponse, error) {
	cc, err := s.cycleCountRepo.FindByIDForTenant(ctx, tenantID, countID)
	if err != nil {
		return nil, err
	}
	if err := cc.StartCounting(); err != nil {
		return nil, err
	}
	if err := s.cycleCountRepo.Save(ctx, cc); err != nil {
		return nil, err
	}
	response := ToCycleCountResponse(cc)
	return &response, nil
}

// RecordCount records the physical count for one line
func (s *CountingService) RecordCount(ctx context.Context, tenantID, countID, lineID uuid.UUID, req RecordCountRequest) (*CycleCountResponse, error) {
	cc, err := s.cycleCountRepo.FindByIDForTenant(ctx, tenantID, countID)
	if err != nil {
		return nil, err
	}
	if err := cc.RecordLineCount(lineID, req.CountedQty, req.Remark); err != nil {
		return nil, err
	}
	if err := s.cycleCountRepo.Save(ctx, cc); err != nil {
		return nil, err
	}
	response := ToCycleCountResponse(cc)
	return &response, nil
}

// SubmitCycleCount submits a fully counted cycle count for approval
func (s *CountingService) SubmitCycleCount(ctx context.Context, tenantID, countID uuid.UUID) (*CycleCountResponse, error) {
	cc, err := s.cycleCountRepo.FindByIDForTenant(ctx, tenantID, countID)
	if err != nil {
		return nil, err
	}
	if err := cc.SubmitForApproval(); err != nil {
		return nil, err
	}
	if err := s.cycleCountRepo.Save(ctx, cc); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, &cc.TenantAggregateRoot)

	response := ToCycleCountResponse(cc)
	return &response, nil
}

// ApproveCycleCount accepts the count and applies every variance to stock.
// Each variance line becomes an approved adjustment plus an ADJUSTMENT
// transaction whose before and after quantities are the frozen snapshot and
// the counted quantity. The variance is applied as a delta to the current
// row, so movements that happened after the snapshot survive the count.
func (s *CountingService) ApproveCycleCount(ctx context.Context, tenantID, countID uuid.UUID, req CountDecisionRequest) (*CycleCountResponse, error) {
	var response *CycleCountResponse
	err := s.executeWithRetry(ctx, func(repos ledgerapp.TransactionalRepositories) (bool, error) {
		cc, err := s.cycleCountRepo.FindByIDForTenant(ctx, tenantID, countID)
		if err != nil {
			return false, err
		}
		if err := cc.Approve(req.DecidedBy, req.Note); err != nil {
			return false, err
		}

		for _, line := range cc.VarianceLinesSlice() {
			if retry, err := s.applyVarianceLine(ctx, repos, cc, line, req); err != nil {
				return retry, err
			}
		}

		if err := repos.CycleCountRepo().Save(ctx, cc); err != nil {
			return false, err
		}

		r := ToCycleCountResponse(cc)
		response = &r
		s.publishEvents(ctx, &cc.TenantAggregateRoot)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// applyVarianceLine raises and applies one adjustment for a counted variance
func (s *CountingService) applyVarianceLine(
	ctx context.Context,
	repos ledgerapp.TransactionalRepositories,
	cc *counting.CycleCount,
	line counting.CycleCountLine,
	req CountDecisionRequest,
) (bool, error) {
	adjType := counting.AdjustmentTypeDecrease
	if line.Variance.IsPositive() {
		adjType = counting.AdjustmentTypeIncrease
	}

	now := time.Now()
	seq, err := repos.SequenceRepo().Next(ctx, cc.TenantID, sequenceKindAdjustment, now)
	if err != nil {
		return false, err
	}
	adj, err := counting.NewStockAdjustment(cc.TenantID, counting.NewAdjustmentNumber(now, seq),
		line.StockLevelID, line.ItemID, cc.WarehouseID, adjType, line.Variance, "Cycle count variance", cc.CreatedBy)
	if err != nil {
		return false, err
	}
	adj.WithReference(cc.Number).WithCycleCount(cc.ID)
	if err := adj.Approve(req.DecidedBy, req.Note); err != nil {
		return false, err
	}

	level, err := repos.StockLevelRepo().FindByID(ctx, line.StockLevelID)
	if err != nil {
		return false, err
	}
	if _, err := level.AdjustTo(level.OnHand.Add(line.Variance)); err != nil {
		return false, err
	}
	if err := repos.StockLevelRepo().SaveWithLock(ctx, level); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			return true, err
		}
		return false, err
	}

	txSeq, err := repos.SequenceRepo().Next(ctx, cc.TenantID, sequenceKindTransaction, now)
	if err != nil {
		return false, err
	}
	tx, err := ledger.NewInventoryTransaction(
		cc.TenantID,
		ledger.NewTransactionNumber(now, txSeq),
		level.ID,
		line.ItemID,
		cc.WarehouseID,
		ledger.TransactionTypeAdjustment,
		line.Variance,
		line.SnapshotQty,
		line.CountedQty,
		ledger.SourceTypeCycleCount,
		cc.Number,
	)
	if err != nil {
		return false, err
	}
	tx.WithSourceLineID(line.ID.String())
	tx.WithReason("Cycle count variance")
	if line.LotID != nil {
		tx.WithLotID(*line.LotID)
	}
	tx.WithPerformedBy(cc.CreatedBy)
	tx.WithApproval(req.DecidedBy)
	if err := repos.TransactionRepo().Create(ctx, tx); err != nil {
		return false, err
	}

	if err := s.adjustmentRepo.Save(ctx, adj); err != nil {
		return false, err
	}
	s.publishEvents(ctx, &adj.TenantAggregateRoot)
	return false, nil
}

// RejectCycleCount declines the count and leaves stock untouched
func (s *CountingService) RejectCycleCount(ctx context.Context, tenantID, countID uuid.UUID, req CountDecisionRequest) (*CycleCountResponse, error) {
	cc, err := s.cycleCountRepo.FindByIDForTenant(ctx, tenantID, countID)
	if err != nil {
		return nil, err
	}
	if err := cc.Reject(req.DecidedBy, req.Note); err != nil {
		return nil, err
	}
	if err := s.cycleCountRepo.Save(ctx, cc); err != nil {
		return nil, err
	}
	response := ToCycleCountResponse(cc)
	return &response, nil
}

// CancelCycleCount abandons a count that has not yet been submitted
func (s *CountingService) CancelCycleCount(ctx context.Context, tenantID, countID uuid.UUID) (*CycleCountResponse, error) {
	cc, err := s.cycleCountRepo.FindByIDForTenant(ctx, tenantID, countID)
	if err != nil {
		return nil, err
	}
	if err := cc.Cancel(); err != nil {
		return nil, err
	}
	if err := s.cycleCountRepo.Save(ctx, cc); err != nil {
		return nil, err
	}
	response := ToCycleCountResponse(cc)
	return &response, nil
}

// GetAdjustment retrieves an adjustment
func (s *CountingService) GetAdjustment(ctx context.Context, tenantID, adjustmentID uuid.UUID) (*AdjustmentResponse, error) {
	adj, err := s.adjustmentRepo.FindByIDForTenant(ctx, tenantID, adjustmentID)
	if err != nil {
		return nil, err
	}
	response := ToAdjustmentResponse(adj)
	return &response, nil
}

// ListPendingAdjustments retrieves pending adjustments for a tenant
func (s *CountingService) ListPendingAdjustments(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]AdjustmentResponse, error) {
	adjustments, err := s.adjustmentRepo.FindPending(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return ToAdjustmentResponses(adjustments), nil
}

// RequestAdjustment raises a pending manual adjustment. Stock does not move
// until a second person approves it.
func (s *CountingService) RequestAdjustment(ctx context.Context, tenantID uuid.UUID, req RequestAdjustmentRequest) (*AdjustmentResponse, error) {
	adjType := counting.AdjustmentType(req.Type)
	if !adjType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Invalid adjustment type")
	}
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, req.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.IsActive() {
		return nil, shared.NewDomainError("INACTIVE_ITEM", "Item "+item.SKU+" is not active")
	}

	var response *AdjustmentResponse
	err = s.executeWithRetry(ctx, func(repos ledgerapp.TransactionalRepositories) (bool, error) {
		level, err := repos.StockLevelRepo().GetOrCreate(ctx, req.ToStockKey(tenantID))
		if err != nil {
			return false, err
		}

		now := time.Now()
		seq, err := repos.SequenceRepo().Next(ctx, tenantID, sequenceKindAdjustment, now)
		if err != nil {
			return false, err
		}
		adj, err := counting.NewStockAdjustment(tenantID, counting.NewAdjustmentNumber(now, seq),
			level.ID, req.ItemID, req.WarehouseID, adjType, req.Quantity, req.Reason, req.RequestedBy)
		if err != nil {
			return false, err
		}
		adj.WithReference(req.Reference)

		if err := repos.AdjustmentRepo().Save(ctx, adj); err != nil {
			return false, err
		}

		r := ToAdjustmentResponse(adj)
		response = &r
		s.publishEvents(ctx, &adj.TenantAggregateRoot)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// ApproveAdjustment applies a pending adjustment to stock. The requester can
// never approve their own adjustment.
func (s *CountingService) ApproveAdjustment(ctx context.Context, tenantID, adjustmentID uuid.UUID, req AdjustmentDecisionRequest) (*AdjustmentResponse, error) {
	var response *AdjustmentResponse
	err := s.executeWithRetry(ctx, func(repos ledgerapp.TransactionalRepositories) (bool, error) {
		adj, err := s.adjustmentRepo.FindByIDForTenant(ctx, tenantID, adjustmentID)
		if err != nil {
			return false, err
		}
		if err := adj.Approve(req.DecidedBy, req.Note); err != nil {
			return false, err
		}

		level, err := repos.StockLevelRepo().FindByID(ctx, adj.StockLevelID)
		if err != nil {
			return false, err
		}
		before := level.OnHand
		if _, err := level.AdjustTo(before.Add(adj.Quantity)); err != nil {
			return false, err
		}
		if err := repos.StockLevelRepo().SaveWithLock(ctx, level); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				return true, err
			}
			return false, err
		}

		now := time.Now()
		seq, err := repos.SequenceRepo().Next(ctx, tenantID, sequenceKindTransaction, now)
		if err != nil {
			return false, err
		}
		tx, err := ledger.NewInventoryTransaction(
			tenantID,
			ledger.NewTransactionNumber(now, seq),
			level.ID,
			adj.ItemID,
			adj.WarehouseID,
			ledger.TransactionTypeAdjustment,
			adj.Quantity,
			before,
			level.OnHand,
			ledger.SourceTypeAdjustment,
			adj.Number,
		)
		if err != nil {
			return false, err
		}
		tx.WithReason(adj.Reason)
		if level.LotID != nil {
			tx.WithLotID(*level.LotID)
		}
		tx.WithPerformedBy(adj.RequestedBy)
		tx.WithApproval(req.DecidedBy)
		if err := repos.TransactionRepo().Create(ctx, tx); err != nil {
			return false, err
		}

		if err := repos.AdjustmentRepo().Save(ctx, adj); err != nil {
			return false, err
		}

		r := ToAdjustmentResponse(adj)
		response = &r
		s.publishEvents(ctx, &adj.TenantAggregateRoot)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// RejectAdjustment declines a pending adjustment and leaves stock untouched
func (s *CountingService) RejectAdjustment(ctx context.Context, tenantID, adjustmentID uuid.UUID, req AdjustmentDecisionRequest) (*AdjustmentResponse, error) {
	adj, err := s.adjustmentRepo.FindByIDForTenant(ctx, tenantID, adjustmentID)
	if err != nil {
		return nil, err
	}
	if err := adj.Reject(req.DecidedBy, req.Note); err != nil {
		return nil, err
	}
	if err := s.adjustmentRepo.Save(ctx, adj); err != nil {
		return nil, err
	}
	response := ToAdjustmentResponse(adj)
	return &response, nil
}

// stockRowOrder gives stock rows a stable count order by location, bin and row ID
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

func (s *CountingService) executeWithRetry(ctx context.Context, fn func(repos ledgerapp.TransactionalRepositories) (bool, error)) error {
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

func (s *CountingService) publishEvents(ctx context.Context, root *shared.TenantAggregateRoot) {
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
