package counting

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// AdjustmentType classifies a stock adjustment
type AdjustmentType string

const (
	AdjustmentTypeIncrease AdjustmentType = "INCREASE"
	AdjustmentTypeDecrease AdjustmentType = "DECREASE"
	AdjustmentTypeWriteOff AdjustmentType = "WRITE_OFF"
	AdjustmentTypeFound    AdjustmentType = "FOUND"
	AdjustmentTypeDamage   AdjustmentType = "DAMAGE"
)

// IsValid checks if the type is a valid AdjustmentType
func (t AdjustmentType) IsValid() bool {
	switch t {
	case AdjustmentTypeIncrease, AdjustmentTypeDecrease, AdjustmentTypeWriteOff,
		AdjustmentTypeFound, AdjustmentTypeDamage:
		return true
	}
	return false
}

// IsIncrease returns true if the type adds stock
func (t AdjustmentType) IsIncrease() bool {
	return t == AdjustmentTypeIncrease || t == AdjustmentTypeFound
}

// String returns the string representation of AdjustmentType
func (t AdjustmentType) String() string {
	return string(t)
}

// AdjustmentStatus represents the status of a stock adjustment
type AdjustmentStatus string

const (
	AdjustmentStatusPending  AdjustmentStatus = "PENDING"
	AdjustmentStatusApproved AdjustmentStatus = "APPROVED"
	AdjustmentStatusRejected AdjustmentStatus = "REJECTED"
)

// IsValid checks if the status is a valid AdjustmentStatus
func (s AdjustmentStatus) IsValid() bool {
	switch s {
	case AdjustmentStatusPending, AdjustmentStatusApproved, AdjustmentStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of AdjustmentStatus
func (s AdjustmentStatus) String() string {
	return string(s)
}

// StockAdjustment corrects one stock position by a signed quantity. Stock only
// moves when the adjustment is approved; pending adjustments carry no effect.
type StockAdjustment struct {
	shared.TenantAggregateRoot
	Number       string           `gorm:"type:varchar(50);not null;uniqueIndex:idx_adjustment_tenant_number"`
	StockLevelID uuid.UUID        `gorm:"type:uuid;not null;index"`
	ItemID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	WarehouseID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	Type         AdjustmentType   `gorm:"type:varchar(20);not null"`
	Status       AdjustmentStatus `gorm:"type:varchar(20);not null;index"`
	Quantity     decimal.Decimal  `gorm:"type:decimal(18,4);not null"` // Signed delta to on-hand
	Reason       string           `gorm:"type:varchar(255);not null"`
	Reference    string           `gorm:"type:varchar(100)"` // Cycle count or transfer that raised it
	CycleCountID *uuid.UUID       `gorm:"type:uuid;index"`
	RequestedBy  uuid.UUID        `gorm:"type:uuid;not null"`
	DecidedBy    *uuid.UUID       `gorm:"type:uuid"`
	DecidedAt    *time.Time       `gorm:"type:timestamptz"`
	DecisionNote string           `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (StockAdjustment) TableName() string {
	return "stock_adjustments"
}

// NewAdjustmentNumber builds an adjustment number from date and a per-day sequence
func NewAdjustmentNumber(date time.Time, sequence int64) string {
	return fmt.Sprintf("ADJ-%s-%06d", date.Format("20060102"), sequence)
}

// NewStockAdjustment creates a pending adjustment. The quantity sign must
// match the adjustment type.
func NewStockAdjustment(tenantID uuid.UUID, number string, stockLevelID, itemID, warehouseID uuid.UUID,
	adjType AdjustmentType, quantity decimal.Decimal, reason string, requestedBy uuid.UUID) (*StockAdjustment, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Adjustment number cannot be empty")
	}
	if stockLevelID == uuid.Nil || itemID == uuid.Nil || warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE_ID", "Stock level, item and warehouse IDs are required")
	}
	if !adjType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", fmt.Sprintf("Invalid adjustment type: %s", adjType))
	}
	if quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment quantity cannot be zero")
	}
	if adjType.IsIncrease() && quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Increase adjustments require a positive quantity")
	}
	if !adjType.IsIncrease() && quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Decrease adjustments require a negative quantity")
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Adjustment reason cannot be empty")
	}
	if requestedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REQUESTER", "Requester ID cannot be empty")
	}

	adj := &StockAdjustment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		StockLevelID:        stockLevelID,
		ItemID:              itemID,
		WarehouseID:         warehouseID,
		Type:                adjType,
		Status:              AdjustmentStatusPending,
		Quantity:            quantity,
		Reason:              reason,
		RequestedBy:         requestedBy,
	}

	adj.AddDomainEvent(NewAdjustmentRequestedEvent(adj))

	return adj, nil
}

// WithReference records the document that raised this adjustment
func (a *StockAdjustment) WithReference(reference string) *StockAdjustment {
	a.Reference = reference
	return a
}

// WithCycleCount links the adjustment to the cycle count that produced it
func (a *StockAdjustment) WithCycleCount(cycleCountID uuid.UUID) *StockAdjustment {
	a.CycleCountID = &cycleCountID
	return a
}

// Approve accepts the adjustment. The caller applies the stock delta and
// writes the ledger transaction in the same unit of work.
func (a *StockAdjustment) Approve(approverID uuid.UUID, note string) error {
	if a.Status != AdjustmentStatusPending {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Adjustment is %s, only PENDING can be approved", a.Status))
	}
	if approverID == uuid.Nil {
		return shared.NewDomainError("INVALID_APPROVER", "Approver ID cannot be empty")
	}
	if approverID == a.RequestedBy {
		return shared.NewDomainError("SELF_APPROVAL", "Requester cannot approve their own adjustment")
	}

	now := time.Now()
	a.Status = AdjustmentStatusApproved
	a.DecidedBy = &approverID
	a.DecidedAt = &now
	a.DecisionNote = note
	a.UpdatedAt = now
	a.IncrementVersion()

	a.AddDomainEvent(NewAdjustmentApprovedEvent(a))

	return nil
}

// Reject declines the adjustment. Stock is left untouched.
func (a *StockAdjustment) Reject(approverID uuid.UUID, note string) error {
	if a.Status != AdjustmentStatusPending {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Adjustment is %s, only PENDING can be rejected", a.Status))
	}
	if approverID == uuid.Nil {
		return shared.NewDomainError("INVALID_APPROVER", "Approver ID cannot be empty")
	}

	now := time.Now()
	a.Status = AdjustmentStatusRejected
	a.DecidedBy = &approverID
	a.DecidedAt = &now
	a.DecisionNote = note
	a.UpdatedAt = now
	a.IncrementVersion()

	return nil
}
