package transfer

import (
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeTransfer = "InventoryTransfer"
)

// Event type constants
const (
	EventTypeTransferCreated  = "TransferCreated"
	EventTypeTransferShipped  = "TransferShipped"
	EventTypeTransferReceived = "TransferReceived"
	EventTypeTransferOverdue  = "TransferOverdue"
)

// TransferCreatedEvent is published when a transfer is created
type TransferCreatedEvent struct {
	shared.BaseDomainEvent
	TransferID    uuid.UUID `json:"transfer_id"`
	Number        string    `json:"number"`
	SourceID      uuid.UUID `json:"source_id"`
	DestinationID uuid.UUID `json:"destination_id"`
}

// NewTransferCreatedEvent creates a new TransferCreatedEvent
func NewTransferCreatedEvent(t *InventoryTransfer) *TransferCreatedEvent {
	return &TransferCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferCreated, AggregateTypeTransfer, t.ID, t.TenantID),
		TransferID:      t.ID,
		Number:          t.Number,
		SourceID:        t.SourceID,
		DestinationID:   t.DestinationID,
	}
}

// TransferShippedEvent is published when stock leaves the source warehouse
type TransferShippedEvent struct {
	shared.BaseDomainEvent
	TransferID uuid.UUID `json:"transfer_id"`
	Number     string    `json:"number"`
	SourceID   uuid.UUID `json:"source_id"`
	LineCount  int       `json:"line_count"`
}

// NewTransferShippedEvent creates a new TransferShippedEvent
func NewTransferShippedEvent(t *InventoryTransfer) *TransferShippedEvent {
	return &TransferShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferShipped, AggregateTypeTransfer, t.ID, t.TenantID),
		TransferID:      t.ID,
		Number:          t.Number,
		SourceID:        t.SourceID,
		LineCount:       len(t.Lines),
	}
}

// TransferReceivedEvent is published when stock arrives at the destination
type TransferReceivedEvent struct {
	shared.BaseDomainEvent
	TransferID    uuid.UUID `json:"transfer_id"`
	Number        string    `json:"number"`
	DestinationID uuid.UUID `json:"destination_id"`
	LineCount     int       `json:"line_count"`
}

// NewTransferReceivedEvent creates a new TransferReceivedEvent
func NewTransferReceivedEvent(t *InventoryTransfer) *TransferReceivedEvent {
	return &TransferReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferReceived, AggregateTypeTransfer, t.ID, t.TenantID),
		TransferID:      t.ID,
		Number:          t.Number,
		DestinationID:   t.DestinationID,
		LineCount:       len(t.Lines),
	}
}

// TransferOverdueEvent is published when a shipped transfer passes its expected arrival
type TransferOverdueEvent struct {
	shared.BaseDomainEvent
	TransferID uuid.UUID  `json:"transfer_id"`
	Number     string     `json:"number"`
	ExpectedAt *time.Time `json:"expected_at,omitempty"`
}

// NewTransferOverdueEvent creates a new TransferOverdueEvent
func NewTransferOverdueEvent(t *InventoryTransfer) *TransferOverdueEvent {
	return &TransferOverdueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferOverdue, AggregateTypeTransfer, t.ID, t.TenantID),
		TransferID:      t.ID,
		Number:          t.Number,
		ExpectedAt:      t.ExpectedAt,
	}
}
