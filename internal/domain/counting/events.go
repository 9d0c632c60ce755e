package counting

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeCycleCount      = "CycleCount"
	AggregateTypeStockAdjustment = "StockAdjustment"
)

// Event type constants
const (
	EventTypeCycleCountCreated   = "CycleCountCreated"
	EventTypeCycleCountSubmitted = "CycleCountSubmitted"
	EventTypeCycleCountApproved  = "CycleCountApproved"
	EventTypeAdjustmentRequested = "AdjustmentRequested"
	EventTypeAdjustmentApproved  = "AdjustmentApproved"
)

// CycleCountCreatedEvent is published when a cycle count is created
type CycleCountCreatedEvent struct {
	shared.BaseDomainEvent
	CycleCountID uuid.UUID `json:"cycle_count_id"`
	Number       string    `json:"number"`
	WarehouseID  uuid.UUID `json:"warehouse_id"`
}

// NewCycleCountCreatedEvent creates a new CycleCountCreatedEvent
func NewCycleCountCreatedEvent(cc *CycleCount) *CycleCountCreatedEvent {
	return &CycleCountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCycleCountCreated, AggregateTypeCycleCount, cc.ID, cc.TenantID),
		CycleCountID:    cc.ID,
		Number:          cc.Number,
		WarehouseID:     cc.WarehouseID,
	}
}

// CycleCountSubmittedEvent is published when a count is submitted for approval
type CycleCountSubmittedEvent struct {
	shared.BaseDomainEvent
	CycleCountID  uuid.UUID `json:"cycle_count_id"`
	Number        string    `json:"number"`
	VarianceLines int       `json:"variance_lines"`
}

// NewCycleCountSubmittedEvent creates a new CycleCountSubmittedEvent
func NewCycleCountSubmittedEvent(cc *CycleCount) *CycleCountSubmittedEvent {
	return &CycleCountSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCycleCountSubmitted, AggregateTypeCycleCount, cc.ID, cc.TenantID),
		CycleCountID:    cc.ID,
		Number:          cc.Number,
		VarianceLines:   cc.VarianceLines,
	}
}

// CycleCountApprovedEvent is published when a count is approved
type CycleCountApprovedEvent struct {
	shared.BaseDomainEvent
	CycleCountID  uuid.UUID `json:"cycle_count_id"`
	Number        string    `json:"number"`
	WarehouseID   uuid.UUID `json:"warehouse_id"`
	VarianceLines int       `json:"variance_lines"`
}

// NewCycleCountApprovedEvent creates a new CycleCountApprovedEvent
func NewCycleCountApprovedEvent(cc *CycleCount) *CycleCountApprovedEvent {
	return &CycleCountApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCycleCountApproved, AggregateTypeCycleCount, cc.ID, cc.TenantID),
		CycleCountID:    cc.ID,
		Number:          cc.Number,
		WarehouseID:     cc.WarehouseID,
		VarianceLines:   cc.VarianceLines,
	}
}

// AdjustmentRequestedEvent is published when a stock adjustment is raised
type AdjustmentRequestedEvent struct {
	shared.BaseDomainEvent
	AdjustmentID uuid.UUID       `json:"adjustment_id"`
	Number       string          `json:"number"`
	Type         AdjustmentType  `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// NewAdjustmentRequestedEvent creates a new AdjustmentRequestedEvent
func NewAdjustmentRequestedEvent(a *StockAdjustment) *AdjustmentRequestedEvent {
	return &AdjustmentRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdjustmentRequested, AggregateTypeStockAdjustment, a.ID, a.TenantID),
		AdjustmentID:    a.ID,
		Number:          a.Number,
		Type:            a.Type,
		Quantity:        a.Quantity,
	}
}

// AdjustmentApprovedEvent is published when a stock adjustment is approved
type AdjustmentApprovedEvent struct {
	shared.BaseDomainEvent
	AdjustmentID uuid.UUID       `json:"adjustment_id"`
	Number       string          `json:"number"`
	StockLevelID uuid.UUID       `json:"stock_level_id"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// NewAdjustmentApprovedEvent creates a new AdjustmentApprovedEvent
func NewAdjustmentApprovedEvent(a *StockAdjustment) *AdjustmentApprovedEvent {
	return &AdjustmentApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdjustmentApproved, AggregateTypeStockAdjustment, a.ID, a.TenantID),
		AdjustmentID:    a.ID,
		Number:          a.Number,
		StockLevelID:    a.StockLevelID,
		Quantity:        a.Quantity,
	}
}
