package outbound

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
	"github.com/wms/backend/internal/domain/outbound"
	"github.com/wms/backend/internal/domain/shared"
)

const (
	sequenceKindPickList    = "PL"
	sequenceKindTransaction = "TXN"

	// maxSaveRetries bounds optimistic lock retries for one unit of work
	maxSaveRetries = 3
)

// PickingService manages the outbound picking workflow. Creating a list
// allocates stock row by row; recording a pick removes the allocated stock
// from on-hand with an OUT transaction; cancellation releases whatever was
// allocated but never picked.
type PickingService struct {
	scope          ledgerapp.TransactionScope
	pickListRepo   outbound.PickListRepository
	itemRepo       catalog.ItemRepository
	eventPublisher shared.EventPublisher
}

// NewPickingService creates a new PickingService
func NewPickingService(
	scope ledgerapp.TransactionScope,
	pickListRepo outbound.PickListRepository,
	itemRepo catalog.ItemRepository,
) *PickingService {
	return &PickingService{
		scope:        scope,
		pickListRepo: pickListRepo,
		itemRepo:     itemRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PickingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetPickList retrieves a pick list with its lines
func (s *PickingService) GetPickList(ctx context.Context, tenantID, listID uuid.UUID) (*PickListResponse, error) {
	pl, err := s.pickListRepo.FindByIDForTenant(ctx, tenantID, listID)
	if err != nil {
		return nil, err
	}
	response := ToPickListResponse(pl)
	return &response, nil
}

// ListPickLists retrieves pick lists for a tenant
func (s *PickingService) ListPickLists(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PickListResponse, error) {
	lists, err := s.pickListRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return ToPickListResponses(lists), nil
}

// CreatePickList creates a pick list and allocates stock for every line.
// Reservation-backed lines move the claim from reserved to allocated; lot
// tracked lines are split across lots by the list's pick policy; everything
// else allocates from available stock, one pick line per stocked bin. The
// list and all allocations commit together, so a failed line allocates
// nothing.
func (s *PickingService) CreatePickList(ctx context.Context, tenantID uuid.UUID, req CreatePickListRequest) (*PickListResponse, error) {
	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_PICK_LIST", "Pick list must have at least one line")
	}
	policy := ledger.LotPickPolicy(req.LotPolicy)
	if req.LotPolicy == "" {
		policy = ledger.LotPickPolicyFEFO
	}
	if !policy.IsValid() {
		return nil, shared.NewDomainError("INVALID_PICK_POLICY", "Invalid lot pick policy")
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

	var response *PickListResponse
	err := s.executeWithRetry(ctx, func(repos ledgerapp.TransactionalRepositories) (bool, error) {
		now := time.Now()
		seq, err := repos.SequenceRepo().Next(ctx, tenantID, sequenceKindPickList, now)
		if err != nil {
			return false, err
		}
		pl, err := outbound.NewPickList(tenantID, outbound.NewPickListNumber(now, seq), req.WarehouseID)
		if err != nil {
			return false, err
		}
		pl.WithReference(req.Reference)

		for _, lineReq := range req.Lines {
			if retry, err := s.allocateLine(ctx, repos, pl, items[lineReq.ItemID], lineReq, policy, now); err != nil {
				return retry, err
			}
		}

		if err := repos.PickListRepo().Save(ctx, pl); err != nil {
			return false, err
		}

		r := ToPickListResponse(pl)
		response = &r
		s.publishEvents(ctx, &pl.TenantAggregateRoot)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// allocateLine allocates stock for one requested line and appends the
// resulting pick lines. The first return value signals a retryable conflict.
func (s *PickingService) allocateLine(
	ctx context.Context,
	repos ledgerapp.TransactionalRepositories,
	pl *outbound.PickList,
	item *catalog.Item,
	req PickLineRequest,
	policy ledger.LotPickPolicy,
	now time.Time,
) (bool, error) {
	if req.ReservationID != nil {
		return s.allocateFromReservation(ctx, repos, pl, item, req)
	}
	if req.SerialID != nil {
		return s.allocateSerialUnit(ctx, repos, pl, item, req)
	}

	rows, err := repos.StockLevelRepo().FindByItemAndWarehouse(ctx, pl.TenantID, item.ID, pl.WarehouseID)
	if err != nil {
		return false, err
	}

	if item.LotTracked {
		return s.allocateByLotPolicy(ctx, repos, pl, item, req, policy, rows, now)
	}

	free := make([]ledger.StockLevel, 0, len(rows))
	for _, row := range rows {
		if row.SerialID == nil {
			free = append(free, row)
		}
	}
	return s.allocateFromRows(ctx, repos, pl, item, req.Quantity, free, nil)
}

func (s *PickingService) allocateFromReservation(
	ctx context.Context,
	repos ledgerapp.TransactionalRepositories,
	pl *outbound.PickList,
	item *catalog.Item,
	req PickLineRequest,
) (bool, error) {
	reservation, err := repos.ReservationRepo().FindByIDForTenant(ctx, pl.TenantID, *req.ReservationID)
	if err != nil {
		return false, err
	}
	if !reservation.IsActive() {
		return false, shared.NewDomainError("RESERVATION_NOT_ACTIVE", "Reservation "+reservation.Number+" is not active")
	}
	if reservation.ItemID != item.ID || reservation.WarehouseID != pl.WarehouseID {
		return false, shared.NewDomainError("RESERVATION_MISMATCH", "Reservation does not match the requested line")
	}
	if !req.Quantity.Equal(reservation.Quantity) {
		return false, shared.NewDomainError("RESERVATION_MISMATCH", "Line quantity must match the reservation quantity")
	}

	level, err := repos.StockLevelRepo().GetOrCreate(ctx, ledger.StockKey{
		TenantID:    pl.TenantID,
		ItemID:      item.ID,
		WarehouseID: pl.WarehouseID,
		LotID:       reservation.LotID,
	})
	if err != nil {
		return false, err
	}
	if err := level.AllocateFromReserved(req.Quantity); err != nil {
		return false, err
	}
	if err := repos.StockLevelRepo().SaveWithLock(ctx, level); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			return true, err
		}
		return false, err
	}

	return false, s.appendAllocatedLine(pl, outbound.PickLine{
		ItemID:        item.ID,
		SKU:           item.SKU,
		LotID:         reservation.LotID,
		ReservationID: req.ReservationID,
		QtyToPick:     req.Quantity,
	})
}

func (s *PickingService) allocateSerialUnit(
	ctx context.Context,
	repos ledgerapp.TransactionalRepositories,
	pl *outbound.PickList,
	item *catalog.Item,
	req PickLineRequest,
) (bool, error) {
	if !req.Quantity.Equal(decimal.NewFromInt(1)) {
		return false, shared.NewDomainError("INVALID_QUANTITY", "A serialized line picks exactly one unit")
	}
	serial, err := repos.SerialRepo().FindByID(ctx, *req.SerialID)
	if err != nil {
		return false, err
	}
	if serial.TenantID != pl.TenantID || serial.ItemID != item.ID {
		return false, shared.ErrInvalidReference
	}
	if err := serial.Allocate(); err != nil {
		return false, err
	}

	rows, err := repos.StockLevelRepo().FindByItemAndWarehouse(ctx, pl.TenantID, item.ID, pl.WarehouseID)
	if err != nil {
		return false, err
	}
	unit := make([]ledger.StockLevel, 0, 1)
	for _, row := range rows {
		if row.SerialID != nil && *row.SerialID == serial.ID {
			unit = append(unit, row)
		}
	}

	retry, err := s.allocateFromRows(ctx, repos, pl, item, req.Quantity, unit, serial.LotID)
	if err != nil {
		return retry, err
	}
	return false, repos.SerialRepo().Save(ctx, serial)
}

// allocateByLotPolicy splits a lot tracked line across lots chosen by the
// pick policy, skipping expired lots
func (s *PickingService) allocateByLotPolicy(
	ctx context.Context,
	repos ledgerapp.TransactionalRepositories,
	pl *outbound.PickList,
	item *catalog.Item,
	req PickLineRequest,
	policy ledger.LotPickPolicy,
	rows []ledger.StockLevel,
	now time.Time,
) (bool, error) {
	available := make(map[uuid.UUID]decimal.Decimal)
	for _, row := range rows {
		if row.LotID == nil || row.SerialID != nil {
			continue
		}
		available[*row.LotID] = available[*row.LotID].Add(row.Available())
	}

	lots, err := repos.LotRepo().FindByItem(ctx, pl.TenantID, item.ID)
	if err != nil {
		return false, err
	}

	var result ledger.LotSelectionResult
	if req.LotID != nil {
		var chosen ledger.LotAvailability
		for i := range lots {
			if lots[i].ID == *req.LotID {
				chosen = ledger.LotAvailability{Lot: &lots[i], Available: available[lots[i].ID]}
				break
			}
		}
		result, err = ledger.SelectSpecifiedLot(req.Quantity, chosen, now)
	} else {
		candidates := make([]ledger.LotAvailability, 0, len(lots))
		for i := range lots {
			candidates = append(candidates, ledger.LotAvailability{
				Lot:       &lots[i],
				Available: available[lots[i].ID],
			})
		}
		result, err = ledger.SelectLots(policy, req.Quantity, candidates, now)
	}
	if err != nil {
		return false, err
	}
	if !result.IsFullyCovered() {
		return false, shared.ErrInsufficientStock
	}

	for _, selection := range result.Selections {
		lotID := selection.LotID
		lotRows := make([]ledger.StockLevel, 0, len(rows))
		for _, row := range rows {
			if row.LotID != nil && *row.LotID == lotID && row.SerialID == nil {
				lotRows = append(lotRows, row)
			}
		}
		if retry, err := s.allocateFromRows(ctx, repos, pl, item, selection.Quantity, lotRows, &lotID); err != nil {
			return retry, err
		}
	}
	return false, nil
}

// allocateFromRows allocates a quantity across the given stock rows in a
// deterministic bin order, adding one pick line per row touched
func (s *PickingService) allocateFromRows(
	ctx context.Context,
	repos ledgerapp.TransactionalRepositories,
	pl *outbound.PickList,
	item *catalog.Item,
	quantity decimal.Decimal,
	rows []ledger.StockLevel,
	lotID *uuid.UUID,
) (bool, error) {
	sort.Slice(rows, func(i, j int) bool {
		return stockRowOrder(&rows[i]) < stockRowOrder(&rows[j])
	})

	remaining := quantity
	for i := range rows {
		if remaining.IsZero() {
			break
		}
		row := &rows[i]
		take := decimal.Min(remaining, row.Available())
		if !take.IsPositive() {
			continue
		}
		if err := row.AllocateFromAvailable(take); err != nil {
			return false, err
		}
		if err := repos.StockLevelRepo().SaveWithLock(ctx, row); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				return true, err
			}
			return false, err
		}
		if err := s.appendAllocatedLine(pl, outbound.PickLine{
			ItemID:     item.ID,
			SKU:        item.SKU,
			LocationID: row.LocationID,
			BinID:      row.BinID,
			LotID:      lotID,
			SerialID:   row.SerialID,
			QtyToPick:  take,
		}); err != nil {
			return false, err
		}
		remaining = remaining.Sub(take)
	}

	if remaining.IsPositive() {
		return false, shared.ErrInsufficientStock
	}
	return false, nil
}

func (s *PickingService) appendAllocatedLine(pl *outbound.PickList, line outbound.PickLine) error {
	if err := pl.AddLine(line); err != nil {
		return err
	}
	return pl.MarkLineAllocated(pl.Lines[len(pl.Lines)-1].ID)
}

// StartPickList moves an allocated list to in-progress
func (s *PickingService) StartPickList(ctx context.Context, tenantID, listID uuid.UUID) (*PickListResponse, error) {
	pl, err := s.pickListRepo.FindByIDForTenant(ctx, tenantID, listID)
	if err != nil {
		return nil, err
	}
	if err := pl.Start(); err != nil {
		return nil, err
	}
	if err := s.pickListRepo.Save(ctx, pl); err != nil {
		return nil, err
	}
	response := ToPickListResponse(pl)
	return &response, nil
}

// RecordPick records a picked quantity on one line, removing the stock from
// on-hand with an OUT transaction. Fully picking a reservation-backed line
// consumes its reservation; fully picking a serialized line ships the serial.
func (s *PickingService) RecordPick(ctx context.Context, tenantID, listID, lineID uuid.UUID, req RecordPickRequest) (*PickListResponse, error) {
	var response *PickListResponse
	err := s.executeWithRetry(ctx, func(repos ledgerapp.TransactionalRepositories) (bool, error) {
		pl, err := s.pickListRepo.FindByIDForTenant(ctx, tenantID, listID)
		if err != nil {
			return false, err
		}
		if err := pl.RecordPick(lineID, req.Quantity); err != nil {
			return false, err
		}
		line := pickLineByID(pl, lineID)
		if line == nil {
			return false, shared.ErrNotFound
		}

		level, err := repos.StockLevelRepo().GetOrCreate(ctx, ledger.StockKey{
			TenantID:    tenantID,
			ItemID:      line.ItemID,
			WarehouseID: pl.WarehouseID,
			LocationID:  line.LocationID,
			BinID:       line.BinID,
			LotID:       line.LotID,
			SerialID:    line.SerialID,
		})
		if err != nil {
			return false, err
		}
		before := level.OnHand
		if err := level.ConsumeAllocated(req.Quantity); err != nil {
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
			line.ItemID,
			pl.WarehouseID,
			ledger.TransactionTypeOut,
			req.Quantity,
			before,
			level.OnHand,
			ledger.SourceTypePickList,
			pl.Number,
		)
		if err != nil {
			return false, err
		}
		tx.WithSourceLineID(line.ID.String())
		if line.LotID != nil {
			tx.WithLotID(*line.LotID)
		}
		if line.SerialID != nil {
			tx.WithSerialID(*line.SerialID)
		}
		if req.PerformedBy != nil {
			tx.WithPerformedBy(*req.PerformedBy)
		}
		if err := repos.TransactionRepo().Create(ctx, tx); err != nil {
			return false, err
		}

		if line.Status == outbound.PickLineStatusPicked {
			if retry, err := s.settlePickedLine(ctx, repos, line); err != nil {
				return retry, err
			}
		}

		if err := repos.PickListRepo().Save(ctx, pl); err != nil {
			return false, err
		}

		r := ToPickListResponse(pl)
		response = &r
		s.publishEvents(ctx, &pl.TenantAggregateRoot)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// settlePickedLine consumes the reservation behind a fully picked line and
// ships its serial, if either exists
func (s *PickingService) settlePickedLine(ctx context.Context, repos ledgerapp.TransactionalRepositories, line *outbound.PickLine) (bool, error) {
	if line.ReservationID != nil {
		reservation, err := repos.ReservationRepo().FindByID(ctx, *line.ReservationID)
		if err != nil {
			return false, err
		}
		if err := reservation.Consume(); err != nil {
			return false, err
		}
		if err := repos.ReservationRepo().SaveWithLock(ctx, reservation); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				return true, err
			}
			return false, err
		}
	}
	if line.SerialID != nil {
		serial, err := repos.SerialRepo().FindByID(ctx, *line.SerialID)
		if err != nil {
			return false, err
		}
		if err := serial.Ship(); err != nil {
			return false, err
		}
		if err := repos.SerialRepo().Save(ctx, serial); err != nil {
			return false, err
		}
	}
	return false, nil
}

// CompletePickList finishes a list once every line is picked, short-settled
// or cancelled
func (s *PickingService) CompletePickList(ctx context.Context, tenantID, listID uuid.UUID) (*PickListResponse, error) {
	pl, err := s.pickListRepo.FindByIDForTenant(ctx, tenantID, listID)
	if err != nil {
		return nil, err
	}
	if err := pl.Complete(); err != nil {
		return nil, err
	}
	if err := s.pickListRepo.Save(ctx, pl); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, &pl.TenantAggregateRoot)

	response := ToPickListResponse(pl)
	return &response, nil
}

// CancelPickList abandons a list and releases every allocation that was never
// picked. Reservation-backed quantities go back to the reserved bucket so the
// claim survives the cancelled list; everything else returns to available.
func (s *PickingService) CancelPickList(ctx context.Context, tenantID, listID uuid.UUID) (*PickListResponse, error) {
	var response *PickListResponse
	err := s.executeWithRetry(ctx, func(repos ledgerapp.TransactionalRepositories) (bool, error) {
		pl, err := s.pickListRepo.FindByIDForTenant(ctx, tenantID, listID)
		if err != nil {
			return false, err
		}
		unpicked := pl.UnpickedAllocation()
		if err := pl.Cancel(); err != nil {
			return false, err
		}

		for lineID, quantity := range unpicked {
			line := pickLineByID(pl, lineID)
			if line == nil {
				return false, shared.ErrNotFound
			}
			if retry, err := s.releaseLineAllocation(ctx, repos, pl, line, quantity); err != nil {
				return retry, err
			}
		}

		if err := repos.PickListRepo().Save(ctx, pl); err != nil {
			return false, err
		}

		r := ToPickListResponse(pl)
		response = &r
		s.publishEvents(ctx, &pl.TenantAggregateRoot)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (s *PickingService) releaseLineAllocation(
	ctx context.Context,
	repos ledgerapp.TransactionalRepositories,
	pl *outbound.PickList,
	line *outbound.PickLine,
	quantity decimal.Decimal,
) (bool, error) {
	level, err := repos.StockLevelRepo().GetOrCreate(ctx, ledger.StockKey{
		TenantID:    pl.TenantID,
		ItemID:      line.ItemID,
		WarehouseID: pl.WarehouseID,
		LocationID:  line.LocationID,
		BinID:       line.BinID,
		LotID:       line.LotID,
		SerialID:    line.SerialID,
	})
	if err != nil {
		return false, err
	}
	if err := level.ReleaseAllocation(quantity); err != nil {
		return false, err
	}
	if line.ReservationID != nil {
		// The claim outlives the cancelled list
		if err := level.Reserve(quantity); err != nil {
			return false, err
		}
	}
	if err := repos.StockLevelRepo().SaveWithLock(ctx, level); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			return true, err
		}
		return false, err
	}

	if line.SerialID != nil {
		serial, err := repos.SerialRepo().FindByID(ctx, *line.SerialID)
		if err != nil {
			return false, err
		}
		if err := serial.Deallocate(); err != nil {
			return false, err
		}
		if err := repos.SerialRepo().Save(ctx, serial); err != nil {
			return false, err
		}
	}
	return false, nil
}

// stockRowOrder gives stock rows a stable pick order by location, bin and row ID
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

func pickLineByID(pl *outbound.PickList, lineID uuid.UUID) *outbound.PickLine {
	for i := range pl.Lines {
		if pl.Lines[i].ID == lineID {
			return &pl.Lines[i]
		}
	}
	return nil
}

func (s *PickingService) executeWithRetry(ctx context.Context, fn func(repos ledgerapp.TransactionalRepositories) (bool, error)) error {
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

func (s *PickingService) publishEvents(ctx context.Context, root *shared.TenantAggregateRoot) {
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
