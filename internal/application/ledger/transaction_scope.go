package ledger

import (
	"context"

	"github.com/wms/backend/internal/domain/counting"
	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/outbound"
	"github.com/wms/backend/internal/domain/transfer"
)

// TransactionScope provides transactional access to ledger repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the ledger repositories within
// a transaction. The stock level is the aggregate root; the transaction log is
// append-only and written in the same unit of work as the balance change it
// records.
type TransactionalRepositories interface {
	// StockLevelRepo returns the stock level repository scoped to the current transaction
	StockLevelRepo() ledger.StockLevelRepository
	// TransactionRepo returns the transaction log repository scoped to the current transaction
	TransactionRepo() ledger.TransactionRepository
	// ReservationRepo returns the reservation repository scoped to the current transaction
	ReservationRepo() ledger.ReservationRepository
	// LotRepo returns the lot repository scoped to the current transaction
	LotRepo() ledger.LotRepository
	// SerialRepo returns the serial repository scoped to the current transaction
	SerialRepo() ledger.SerialRepository
	// SequenceRepo returns the document sequence repository scoped to the current transaction
	SequenceRepo() ledger.SequenceRepository
	// PickListRepo returns the pick list repository scoped to the current
	// transaction, so a picked quantity and its OUT posting commit together
	PickListRepo() outbound.PickListRepository
	// TransferRepo returns the transfer repository scoped to the current
	// transaction, so a status change and its postings commit together
	TransferRepo() transfer.TransferRepository
	// CycleCountRepo returns the cycle count repository scoped to the current transaction
	CycleCountRepo() counting.CycleCountRepository
	// AdjustmentRepo returns the adjustment repository scoped to the current transaction
	AdjustmentRepo() counting.AdjustmentRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	stockLevelRepo  ledger.StockLevelRepository
	transactionRepo ledger.TransactionRepository
	reservationRepo ledger.ReservationRepository
	lotRepo         ledger.LotRepository
	serialRepo      ledger.SerialRepository
	sequenceRepo    ledger.SequenceRepository
	pickListRepo    outbound.PickListRepository
	transferRepo    transfer.TransferRepository
	cycleCountRepo  counting.CycleCountRepository
	adjustmentRepo  counting.AdjustmentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	stockLevelRepo ledger.StockLevelRepository,
	transactionRepo ledger.TransactionRepository,
	reservationRepo ledger.ReservationRepository,
	lotRepo ledger.LotRepository,
	serialRepo ledger.SerialRepository,
	sequenceRepo ledger.SequenceRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		stockLevelRepo:  stockLevelRepo,
		transactionRepo: transactionRepo,
		reservationRepo: reservationRepo,
		lotRepo:         lotRepo,
		serialRepo:      serialRepo,
		sequenceRepo:    sequenceRepo,
	}
}

// WithPickListRepo sets the pick list repository handed out by the scope.
func (s *NoOpTransactionScope) WithPickListRepo(repo outbound.PickListRepository) *NoOpTransactionScope {
	s.pickListRepo = repo
	return s
}

// WithTransferRepo sets the transfer repository handed out by the scope.
func (s *NoOpTransactionScope) WithTransferRepo(repo transfer.TransferRepository) *NoOpTransactionScope {
	s.transferRepo = repo
	return s
}

// WithCountingRepos sets the cycle count and adjustment repositories handed
// out by the scope.
func (s *NoOpTransactionScope) WithCountingRepos(cycleCountRepo counting.CycleCountRepository, adjustmentRepo counting.AdjustmentRepository) *NoOpTransactionScope {
	s.cycleCountRepo = cycleCountRepo
	s.adjustmentRepo = adjustmentRepo
	return s
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StockLevelRepo returns the stock level repository.
func (s *NoOpTransactionScope) StockLevelRepo() ledger.StockLevelRepository {
	return s.stockLevelRepo
}

// TransactionRepo returns the transaction log repository.
func (s *NoOpTransactionScope) TransactionRepo() ledger.TransactionRepository {
	return s.transactionRepo
}

// ReservationRepo returns the reservation repository.
func (s *NoOpTransactionScope) ReservationRepo() ledger.ReservationRepository {
	return s.reservationRepo
}

// LotRepo returns the lot repository.
func (s *NoOpTransactionScope) LotRepo() ledger.LotRepository {
	return s.lotRepo
}

// SerialRepo returns the serial repository.
func (s *NoOpTransactionScope) SerialRepo() ledger.SerialRepository {
	return s.serialRepo
}

// SequenceRepo returns the document sequence repository.
func (s *NoOpTransactionScope) SequenceRepo() ledger.SequenceRepository {
	return s.sequenceRepo
}

// PickListRepo returns the pick list repository.
func (s *NoOpTransactionScope) PickListRepo() outbound.PickListRepository {
	return s.pickListRepo
}

// TransferRepo returns the transfer repository.
func (s *NoOpTransactionScope) TransferRepo() transfer.TransferRepository {
	return s.transferRepo
}

// CycleCountRepo returns the cycle count repository.
func (s *NoOpTransactionScope) CycleCountRepo() counting.CycleCountRepository {
	return s.cycleCountRepo
}

// AdjustmentRepo returns the adjustment repository.
func (s *NoOpTransactionScope) AdjustmentRepo() counting.AdjustmentRepository {
	return s.adjustmentRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
