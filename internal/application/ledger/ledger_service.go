package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/shared"
)

const (
	// maxSaveRetries bounds the optimistic-lock retry loop on a contended stock row
	maxSaveRetries = 3

	sequenceKindTransaction = "TXN"
)

// ReferenceValidator checks that master-data references on a movement exist
// and are active before any stock is touched
type ReferenceValidator interface {
	// ValidateItem checks that the item exists and is active
	ValidateItem(ctx context.Context, tenantID, itemID uuid.UUID) error
	// ValidateWarehouse checks that the warehouse exists and is active
	ValidateWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) error
	// ValidateLocation checks that the location exists within the warehouse
	ValidateLocation(ctx context.Context, tenantID, warehouseID, locationID uuid.UUID) error
	// ValidateBin checks that the bin exists within the location
	ValidateBin(ctx context.Context, tenantID, locationID, binID uuid.UUID) error
}

// LedgerService posts stock movements. Every balance change and its
// transaction log entry are written in one unit of work; contended rows are
// retried a bounded number of times on version conflicts.
type LedgerService struct {
	scope           TransactionScope
	stockRepo       ledger.StockLevelRepository
	transactionRepo ledger.TransactionRepository
	itemRepo        catalog.ItemRepository
	validator       ReferenceValidator
	eventPublisher  shared.EventPublisher
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	scope TransactionScope,
	stockRepo ledger.StockLevelRepository,
	transactionRepo ledger.TransactionRepository,
	itemRepo catalog.ItemRepository,
	validator ReferenceValidator,
) *LedgerService {
	return &LedgerService{
		scope:           scope,
		stockRepo:       stockRepo,
		transactionRepo: transactionRepo,
		itemRepo:        itemRepo,
		validator:       validator,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetStockLevel retrieves one stock balance row by key
func (s *LedgerService) GetStockLevel(ctx context.Context, key ledger.StockKey) (*StockLevelResponse, error) {
	level, err := s.stockRepo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	response := ToStockLevelResponse(level)
	return &response, nil
}

// ListByItem retrieves all stock rows for an item across warehouses
func (s *LedgerService) ListByItem(ctx context.Context, tenantID, itemID uuid.UUID) ([]StockLevelResponse, error) {
	levels, err := s.stockRepo.FindByItem(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	return ToStockLevelResponses(levels), nil
}

// GetItemAvailability aggregates stock for an item in one warehouse across
// all locations, bins and lots
func (s *LedgerService) GetItemAvailability(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (*ItemAvailabilityResponse, error) {
	levels, err := s.stockRepo.FindByItemAndWarehouse(ctx, tenantID, itemID, warehouseID)
	if err != nil {
		return nil, err
	}

	response := &ItemAvailabilityResponse{
		ItemID:      itemID,
		WarehouseID: warehouseID,
		OnHand:      decimal.Zero,
		Reserved:    decimal.Zero,
		Allocated:   decimal.Zero,
		Available:   decimal.Zero,
	}
	for i := range levels {
		response.OnHand = response.OnHand.Add(levels[i].OnHand)
		response.Reserved = response.Reserved.Add(levels[i].Reserved)
		response.Allocated = response.Allocated.Add(levels[i].Allocated)
		response.Available = response.Available.Add(levels[i].Available())
	}
	return response, nil
}

// List retrieves stock rows for a tenant with pagination
func (s *LedgerService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockLevelResponse, error) {
	levels, err := s.stockRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return ToStockLevelResponses(levels), nil
}

// Receive adds stock to a balance row and writes an IN transaction
func (s *LedgerService) Receive(ctx context.Context, tenantID uuid.UUID, req ReceiveStockRequest) (*TransactionResponse, error) {
	sourceType := ledger.SourceType(req.SourceType)
	if !sourceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE_TYPE", "Invalid source type")
	}
	if err := s.validateReferences(ctx, tenantID, req.StockKeyRequest); err != nil {
		return nil, err
	}

	movement := movementRequest{
		key:         req.ToStockKey(tenantID),
		txType:      ledger.TransactionTypeIn,
		quantity:    req.Quantity,
		unitCost:    req.UnitCost,
		sourceType:  sourceType,
		sourceID:    req.SourceID,
		sourceLine:  req.SourceLine,
		reference:   req.Reference,
		reason:      req.Reason,
		performedBy: req.PerformedBy,
		mutate: func(level *ledger.StockLevel) error {
			return level.Receive(req.Quantity)
		},
	}
	return s.postMovement(ctx, movement)
}

// Issue removes stock from a balance row and writes an OUT transaction
func (s *LedgerService) Issue(ctx context.Context, tenantID uuid.UUID, req IssueStockRequest) (*TransactionResponse, error) {
	sourceType := ledger.SourceType(req.SourceType)
	if !sourceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE_TYPE", "Invalid source type")
	}
	if err := s.validateReferences(ctx, tenantID, req.StockKeyRequest); err != nil {
		return nil, err
	}

	movement := movementRequest{
		key:         req.ToStockKey(tenantID),
		txType:      ledger.TransactionTypeOut,
		quantity:    req.Quantity,
		sourceType:  sourceType,
		sourceID:    req.SourceID,
		sourceLine:  req.SourceLine,
		reference:   req.Reference,
		reason:      req.Reason,
		performedBy: req.PerformedBy,
		mutate: func(level *ledger.StockLevel) error {
			return level.Issue(req.Quantity)
		},
	}
	response, err := s.postMovement(ctx, movement)
	if err != nil {
		return nil, err
	}

	s.checkReorderPoint(ctx, tenantID, req.ItemID, req.WarehouseID)

	return response, nil
}

// Adjust sets on-hand to a counted quantity and writes a signed ADJUSTMENT
// transaction for the variance. A zero variance posts nothing.
func (s *LedgerService) Adjust(ctx context.Context, tenantID uuid.UUID, req AdjustStockRequest) (*TransactionResponse, error) {
	sourceType := ledger.SourceType(req.SourceType)
	if !sourceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE_TYPE", "Invalid source type")
	}
	if err := s.validateReferences(ctx, tenantID, req.StockKeyRequest); err != nil {
		return nil, err
	}

	var response *TransactionResponse
	err := s.executeWithRetry(ctx, func(repos TransactionalRepositories) (bool, error) {
		level, err := repos.StockLevelRepo().GetOrCreate(ctx, req.ToStockKey(tenantID))
		if err != nil {
			return false, err
		}

		before := level.OnHand
		variance, err := level.AdjustTo(req.ActualQuantity)
		if err != nil {
			return false, err
		}
		if variance.IsZero() {
			response = nil
			return false, nil
		}

		if err := repos.StockLevelRepo().SaveWithLock(ctx, level); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				return true, err
			}
			return false, err
		}

		tx, err := s.buildTransaction(ctx, repos, level, ledger.TransactionTypeAdjustment, variance, before, sourceType, req.SourceID)
		if err != nil {
			return false, err
		}
		tx.WithReason(req.Reason)
		if req.PerformedBy != nil {
			tx.WithPerformedBy(*req.PerformedBy)
		}
		if req.ApprovedBy != nil {
			tx.WithApproval(*req.ApprovedBy)
		}
		if err := repos.TransactionRepo().Create(ctx, tx); err != nil {
			return false, err
		}

		r := ToTransactionResponse(tx)
		response = &r
		s.publishEvents(ctx, &level.TenantAggregateRoot)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// QueryTransactions retrieves transaction log entries matching the filter
func (s *LedgerService) QueryTransactions(ctx context.Context, tenantID uuid.UUID, filter TransactionListFilter) ([]TransactionResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	query := ledger.TransactionQuery{
		ItemID:      filter.ItemID,
		WarehouseID: filter.WarehouseID,
		LotID:       filter.LotID,
		SourceID:    filter.SourceID,
		From:        filter.From,
		To:          filter.To,
	}
	if filter.Type != "" {
		txType := ledger.TransactionType(filter.Type)
		if !txType.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
		}
		query.Type = &txType
	}
	if filter.SourceType != "" {
		sourceType := ledger.SourceType(filter.SourceType)
		if !sourceType.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_SOURCE_TYPE", "Invalid source type")
		}
		query.SourceType = &sourceType
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "transaction_date",
		OrderDir: "desc",
	}

	txs, err := s.transactionRepo.Query(ctx, tenantID, query, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.transactionRepo.CountForQuery(ctx, tenantID, query)
	if err != nil {
		return nil, 0, err
	}

	return ToTransactionResponses(txs), total, nil
}

// movementRequest carries one balance mutation plus the transaction metadata
// recorded alongside it
type movementRequest struct {
	key         ledger.StockKey
	txType      ledger.TransactionType
	quantity    decimal.Decimal
	unitCost    decimal.Decimal
	sourceType  ledger.SourceType
	sourceID    string
	sourceLine  string
	reference   string
	reason      string
	performedBy *uuid.UUID
	mutate      func(level *ledger.StockLevel) error
}

// postMovement applies one mutation and its log entry atomically, retrying on
// version conflicts with a fresh read each attempt
func (s *LedgerService) postMovement(ctx context.Context, movement movementRequest) (*TransactionResponse, error) {
	var response *TransactionResponse
	err := s.executeWithRetry(ctx, func(repos TransactionalRepositories) (bool, error) {
		// A workflow that crashed between its ledger post and its own save
		// replays the same source line; hand back the posting it already made
		// instead of moving stock twice.
		if movement.sourceLine != "" {
			prior, err := repos.TransactionRepo().FindBySourceLine(ctx, movement.key.TenantID,
				movement.sourceType, movement.sourceID, movement.sourceLine, movement.txType)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return false, err
			}
			if err == nil {
				r := ToTransactionResponse(prior)
				response = &r
				return false, nil
			}
		}

		level, err := repos.StockLevelRepo().GetOrCreate(ctx, movement.key)
		if err != nil {
			return false, err
		}

		before := level.OnHand
		if err := movement.mutate(level); err != nil {
			return false, err
		}

		if err := repos.StockLevelRepo().SaveWithLock(ctx, level); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				return true, err
			}
			return false, err
		}

		tx, err := s.buildTransaction(ctx, repos, level, movement.txType, movement.quantity, before, movement.sourceType, movement.sourceID)
		if err != nil {
			return false, err
		}
		if !movement.unitCost.IsZero() {
			tx.WithUnitCost(movement.unitCost)
		}
		if movement.sourceLine != "" {
			tx.WithSourceLineID(movement.sourceLine)
		}
		if movement.reference != "" {
			tx.WithReference(movement.reference)
		}
		if movement.reason != "" {
			tx.WithReason(movement.reason)
		}
		if movement.performedBy != nil {
			tx.WithPerformedBy(*movement.performedBy)
		}
		if err := repos.TransactionRepo().Create(ctx, tx); err != nil {
			return false, err
		}

		r := ToTransactionResponse(tx)
		response = &r
		s.publishEvents(ctx, &level.TenantAggregateRoot)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// buildTransaction allocates the next document number and creates the log entry
func (s *LedgerService) buildTransaction(
	ctx context.Context,
	repos TransactionalRepositories,
	level *ledger.StockLevel,
	txType ledger.TransactionType,
	quantity decimal.Decimal,
	onHandBefore decimal.Decimal,
	sourceType ledger.SourceType,
	sourceID string,
) (*ledger.InventoryTransaction, error) {
	now := time.Now()
	seq, err := repos.SequenceRepo().Next(ctx, level.TenantID, sequenceKindTransaction, now)
	if err != nil {
		return nil, err
	}

	tx, err := ledger.NewInventoryTransaction(
		level.TenantID,
		ledger.NewTransactionNumber(now, seq),
		level.ID,
		level.ItemID,
		level.WarehouseID,
		txType,
		quantity,
		onHandBefore,
		level.OnHand,
		sourceType,
		sourceID,
	)
	if err != nil {
		return nil, err
	}
	if level.LotID != nil {
		tx.WithLotID(*level.LotID)
	}
	if level.SerialID != nil {
		tx.WithSerialID(*level.SerialID)
	}
	return tx, nil
}

// executeWithRetry runs fn inside the transaction scope, retrying the whole
// unit of work when fn signals a retryable conflict
func (s *LedgerService) executeWithRetry(ctx context.Context, fn func(repos TransactionalRepositories) (bool, error)) error {
	var lastErr error
	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		var retry bool
		err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
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

func (s *LedgerService) validateReferences(ctx context.Context, tenantID uuid.UUID, key StockKeyRequest) error {
	if s.validator == nil {
		return nil
	}
	if err := s.validator.ValidateItem(ctx, tenantID, key.ItemID); err != nil {
		return err
	}
	if err := s.validator.ValidateWarehouse(ctx, tenantID, key.WarehouseID); err != nil {
		return err
	}
	if key.LocationID != nil {
		if err := s.validator.ValidateLocation(ctx, tenantID, key.WarehouseID, *key.LocationID); err != nil {
			return err
		}
	}
	if key.BinID != nil {
		if key.LocationID == nil {
			return shared.NewDomainError("INVALID_KEY", "Bin-level stock requires a location")
		}
		if err := s.validator.ValidateBin(ctx, tenantID, *key.LocationID, *key.BinID); err != nil {
			return err
		}
	}
	return nil
}

// checkReorderPoint publishes a replenishment alert when available stock for
// an item in a warehouse falls to or below the item's reorder point. Runs
// after the movement commits; a failed check never fails the movement.
func (s *LedgerService) checkReorderPoint(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) {
	if s.eventPublisher == nil || s.itemRepo == nil {
		return
	}

	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil || !item.ReorderPoint.IsPositive() {
		return
	}

	availability, err := s.GetItemAvailability(ctx, tenantID, itemID, warehouseID)
	if err != nil {
		return
	}
	if availability.Available.GreaterThan(item.ReorderPoint) {
		return
	}

	event := ledger.NewStockBelowReorderPointEvent(
		tenantID, itemID, warehouseID,
		availability.Available, item.ReorderPoint, item.ReorderQty,
	)
	_ = s.eventPublisher.Publish(ctx, event)
}

// publishEvents publishes domain events from an aggregate root
func (s *LedgerService) publishEvents(ctx context.Context, root *shared.TenantAggregateRoot) {
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
