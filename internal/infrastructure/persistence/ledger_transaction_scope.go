package persistence

import (
	"context"

	ledgerapp "github.com/wms/backend/internal/application/ledger"
	"github.com/wms/backend/internal/domain/counting"
	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/outbound"
	"github.com/wms/backend/internal/domain/transfer"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Every balance change and its transaction log entry commit or roll back
// together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos ledgerapp.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to the ledger repositories
// scoped to one open transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// StockLevelRepo returns the stock level repository scoped to the current transaction
func (r *gormTransactionalRepositories) StockLevelRepo() ledger.StockLevelRepository {
	return NewGormStockLevelRepository(r.tx)
}

// TransactionRepo returns the transaction log repository scoped to the current transaction
func (r *gormTransactionalRepositories) TransactionRepo() ledger.TransactionRepository {
	return NewGormTransactionRepository(r.tx)
}

// ReservationRepo returns the reservation repository scoped to the current transaction
func (r *gormTransactionalRepositories) ReservationRepo() ledger.ReservationRepository {
	return NewGormReservationRepository(r.tx)
}

// LotRepo returns the lot repository scoped to the current transaction
func (r *gormTransactionalRepositories) LotRepo() ledger.LotRepository {
	return NewGormLotRepository(r.tx)
}

// SerialRepo returns the serial repository scoped to the current transaction
func (r *gormTransactionalRepositories) SerialRepo() ledger.SerialRepository {
	return NewGormSerialRepository(r.tx)
}

// SequenceRepo returns the document sequence repository scoped to the current transaction
func (r *gormTransactionalRepositories) SequenceRepo() ledger.SequenceRepository {
	return NewGormSequenceRepository(r.tx)
}

// PickListRepo returns the pick list repository scoped to the current transaction
func (r *gormTransactionalRepositories) PickListRepo() outbound.PickListRepository {
	return NewGormPickListRepository(r.tx)
}

// TransferRepo returns the transfer repository scoped to the current transaction
func (r *gormTransactionalRepositories) TransferRepo() transfer.TransferRepository {
	return NewGormTransferRepository(r.tx)
}

// CycleCountRepo returns the cycle count repository scoped to the current transaction
func (r *gormTransactionalRepositories) CycleCountRepo() counting.CycleCountRepository {
	return NewGormCycleCountRepository(r.tx)
}

// AdjustmentRepo returns the adjustment repository scoped to the current transaction
func (r *gormTransactionalRepositories) AdjustmentRepo() counting.AdjustmentRepository {
	return NewGormAdjustmentRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ ledgerapp.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ ledgerapp.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
