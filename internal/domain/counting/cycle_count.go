package counting

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// CycleCountStatus represents the status of a cycle count
type CycleCountStatus string

const (
	CycleCountStatusDraft           CycleCountStatus = "DRAFT"
	CycleCountStatusCounting        CycleCountStatus = "COUNTING"
	CycleCountStatusPendingApproval CycleCountStatus = "PENDING_APPROVAL"
	CycleCountStatusApproved        CycleCountStatus = "APPROVED"
	CycleCountStatusRejected        CycleCountStatus = "REJECTED"
	CycleCountStatusCancelled       CycleCountStatus = "CANCELLED"
)

// IsValid checks if the status is a valid CycleCountStatus
func (s CycleCountStatus) IsValid() bool {
	switch s {
	case CycleCountStatusDraft, CycleCountStatusCounting, CycleCountStatusPendingApproval,
		CycleCountStatusApproved, CycleCountStatusRejected, CycleCountStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of CycleCountStatus
func (s CycleCountStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s CycleCountStatus) CanTransitionTo(target CycleCountStatus) bool {
	switch s {
	case CycleCountStatusDraft:
		return target == CycleCountStatusCounting || target == CycleCountStatusCancelled
	case CycleCountStatusCounting:
		return target == CycleCountStatusPendingApproval || target == CycleCountStatusCancelled
	case CycleCountStatusPendingApproval:
		return target == CycleCountStatusApproved || target == CycleCountStatusRejected
	case CycleCountStatusApproved, CycleCountStatusRejected, CycleCountStatusCancelled:
		return false // Terminal states
	}
	return false
}

// CycleCountLine represents one stock position being counted
type CycleCountLine struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CycleCountID uuid.UUID       `gorm:"type:uuid;not null;index"`
	StockLevelID uuid.UUID       `gorm:"type:uuid;not null"`
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU          string          `gorm:"type:varchar(50);not null"`
	LocationID   *uuid.UUID      `gorm:"type:uuid"`
	BinID        *uuid.UUID      `gorm:"type:uuid"`
	LotID        *uuid.UUID      `gorm:"type:uuid"`
	SnapshotQty  decimal.Decimal `gorm:"type:decimal(18,4);not null"` // On-hand when the count was frozen
	CountedQty   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Variance     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Counted - Snapshot
	Counted      bool            `gorm:"not null;default:false"`
	Remark       string          `gorm:"type:varchar(255)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (CycleCountLine) TableName() string {
	return "cycle_count_lines"
}

// RecordCount records the physical count for this line
func (l *CycleCountLine) RecordCount(countedQty decimal.Decimal, remark string) error {
	if countedQty.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot be negative")
	}

	l.CountedQty = countedQty
	l.Variance = countedQty.Sub(l.SnapshotQty)
	l.Counted = true
	l.Remark = remark
	l.UpdatedAt = time.Now()

	return nil
}

// HasVariance returns true if the count differs from the snapshot
func (l *CycleCountLine) HasVariance() bool {
	return l.Counted && !l.Variance.IsZero()
}

// CycleCount is a physical count of selected stock positions. Snapshot
// quantities are frozen when counting starts; approval turns variances into
// stock adjustments.
type CycleCount struct {
	shared.TenantAggregateRoot
	Number        string           `gorm:"type:varchar(50);not null;uniqueIndex:idx_cycle_count_tenant_number"`
	WarehouseID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	Status        CycleCountStatus `gorm:"type:varchar(20);not null;index"`
	CountDate     time.Time        `gorm:"type:timestamptz;not null"`
	StartedAt     *time.Time       `gorm:"type:timestamptz"`
	CompletedAt   *time.Time       `gorm:"type:timestamptz"`
	ApprovedAt    *time.Time       `gorm:"type:timestamptz"`
	ApprovedBy    *uuid.UUID       `gorm:"type:uuid"`
	CreatedBy     uuid.UUID        `gorm:"type:uuid;not null"`
	TotalLines    int              `gorm:"not null;default:0"`
	CountedLines  int              `gorm:"not null;default:0"`
	VarianceLines int              `gorm:"not null;default:0"`
	ApprovalNote  string           `gorm:"type:varchar(255)"`
	Lines         []CycleCountLine `gorm:"foreignKey:CycleCountID;references:ID"`
}

// TableName returns the table name for GORM
func (CycleCount) TableName() string {
	return "cycle_counts"
}

// NewCycleCountNumber builds a cycle count number from date and a per-day sequence
func NewCycleCountNumber(date time.Time, sequence int64) string {
	return fmt.Sprintf("CC-%s-%06d", date.Format("20060102"), sequence)
}

// NewCycleCount creates a new cycle count
func NewCycleCount(tenantID uuid.UUID, number string, warehouseID uuid.UUID, countDate time.Time, createdBy uuid.UUID) (*CycleCount, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Cycle count number cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CREATOR", "Creator ID cannot be empty")
	}

	cc := &CycleCount{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		WarehouseID:         warehouseID,
		Status:              CycleCountStatusDraft,
		CountDate:           countDate,
		CreatedBy:           createdBy,
		Lines:               make([]CycleCountLine, 0),
	}

	cc.AddDomainEvent(NewCycleCountCreatedEvent(cc))

	return cc, nil
}

// AddLine snapshots one stock position into the count
func (cc *CycleCount) AddLine(stockLevelID, itemID uuid.UUID, sku string, locationID, binID, lotID *uuid.UUID, snapshotQty decimal.Decimal) error {
	if cc.Status != CycleCountStatusDraft {
		return shared.NewDomainError("INVALID_STATUS", "Lines can only be added in DRAFT status")
	}
	if stockLevelID == uuid.Nil || itemID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM", "Stock level and item IDs cannot be empty")
	}
	for _, line := range cc.Lines {
		if line.StockLevelID == stockLevelID {
			return shared.NewDomainError("DUPLICATE_LINE", "Stock position already in cycle count")
		}
	}

	now := time.Now()
	cc.Lines = append(cc.Lines, CycleCountLine{
		ID:           uuid.New(),
		CycleCountID: cc.ID,
		StockLevelID: stockLevelID,
		ItemID:       itemID,
		SKU:          sku,
		LocationID:   locationID,
		BinID:        binID,
		LotID:        lotID,
		SnapshotQty:  snapshotQty,
		CountedQty:   decimal.Zero,
		Variance:     decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	cc.TotalLines++
	cc.UpdatedAt = now
	cc.IncrementVersion()

	return nil
}

// StartCounting freezes the snapshot and opens the count
func (cc *CycleCount) StartCounting() error {
	if !cc.Status.CanTransitionTo(CycleCountStatusCounting) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot transition from %s to COUNTING", cc.Status))
	}
	if cc.TotalLines == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot start counting with no lines")
	}

	now := time.Now()
	cc.Status = CycleCountStatusCounting
	cc.StartedAt = &now
	cc.UpdatedAt = now
	cc.IncrementVersion()

	return nil
}

// RecordLineCount records the physical count for one line. Recounting a line
// replaces the earlier count.
func (cc *CycleCount) RecordLineCount(lineID uuid.UUID, countedQty decimal.Decimal, remark string) error {
	if cc.Status != CycleCountStatusCounting {
		return shared.NewDomainError("INVALID_STATUS", "Counts can only be recorded in COUNTING status")
	}

	for i := range cc.Lines {
		if cc.Lines[i].ID == lineID {
			wasCounted := cc.Lines[i].Counted

			if err := cc.Lines[i].RecordCount(countedQty, remark); err != nil {
				return err
			}

			if !wasCounted {
				cc.CountedLines++
			}
			cc.recalculateVariances()
			cc.UpdatedAt = time.Now()
			cc.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Line not found in cycle count")
}

func (cc *CycleCount) recalculateVariances() {
	cc.VarianceLines = 0
	for i := range cc.Lines {
		if cc.Lines[i].HasVariance() {
			cc.VarianceLines++
		}
	}
}

// SubmitForApproval closes counting once every line has been counted
func (cc *CycleCount) SubmitForApproval() error {
	if !cc.Status.CanTransitionTo(CycleCountStatusPendingApproval) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot transition from %s to PENDING_APPROVAL", cc.Status))
	}
	if cc.CountedLines != cc.TotalLines {
		return shared.NewDomainError("INCOMPLETE_COUNT",
			fmt.Sprintf("Not all lines have been counted (%d/%d)", cc.CountedLines, cc.TotalLines))
	}

	now := time.Now()
	cc.Status = CycleCountStatusPendingApproval
	cc.CompletedAt = &now
	cc.UpdatedAt = now
	cc.IncrementVersion()

	cc.AddDomainEvent(NewCycleCountSubmittedEvent(cc))

	return nil
}

// Approve accepts the count. The caller posts one adjustment per variance line.
func (cc *CycleCount) Approve(approverID uuid.UUID, note string) error {
	if !cc.Status.CanTransitionTo(CycleCountStatusApproved) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot transition from %s to APPROVED", cc.Status))
	}
	if approverID == uuid.Nil {
		return shared.NewDomainError("INVALID_APPROVER", "Approver ID cannot be empty")
	}

	now := time.Now()
	cc.Status = CycleCountStatusApproved
	cc.ApprovedAt = &now
	cc.ApprovedBy = &approverID
	cc.ApprovalNote = note
	cc.UpdatedAt = now
	cc.IncrementVersion()

	cc.AddDomainEvent(NewCycleCountApprovedEvent(cc))

	return nil
}

// Reject declines the count. Stock is left untouched.
func (cc *CycleCount) Reject(approverID uuid.UUID, note string) error {
	if !cc.Status.CanTransitionTo(CycleCountStatusRejected) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot transition from %s to REJECTED", cc.Status))
	}
	if approverID == uuid.Nil {
		return shared.NewDomainError("INVALID_APPROVER", "Approver ID cannot be empty")
	}

	now := time.Now()
	cc.Status = CycleCountStatusRejected
	cc.ApprovedAt = &now
	cc.ApprovedBy = &approverID
	cc.ApprovalNote = note
	cc.UpdatedAt = now
	cc.IncrementVersion()

	return nil
}

// Cancel abandons a count that has not yet been submitted
func (cc *CycleCount) Cancel() error {
	if !cc.Status.CanTransitionTo(CycleCountStatusCancelled) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot transition from %s to CANCELLED", cc.Status))
	}

	cc.Status = CycleCountStatusCancelled
	cc.UpdatedAt = time.Now()
	cc.IncrementVersion()

	return nil
}

// VarianceLinesSlice returns the counted lines whose quantity differs from the snapshot
func (cc *CycleCount) VarianceLinesSlice() []CycleCountLine {
	variances := make([]CycleCountLine, 0, cc.VarianceLines)
	for i := range cc.Lines {
		if cc.Lines[i].HasVariance() {
			variances = append(variances, cc.Lines[i])
		}
	}
	return variances
}
