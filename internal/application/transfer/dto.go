package transfer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/transfer"
)

// TransferLineRequest represents one item quantity on a new transfer
type TransferLineRequest struct {
	ItemID   uuid.UUID       `json:"item_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	LotID    *uuid.UUID      `json:"lot_id"`
}

// CreateTransferRequest represents a request to create an inventory transfer
type CreateTransferRequest struct {
	SourceWarehouseID      uuid.UUID             `json:"source_warehouse_id" binding:"required"`
	DestinationWarehouseID uuid.UUID             `json:"destination_warehouse_id" binding:"required"`
	ExpectedAt             *time.Time            `json:"expected_at"`
	Notes                  string                `json:"notes"`
	Lines                  []TransferLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ShipTransferRequest represents a request to ship a transfer from its source
type ShipTransferRequest struct {
	PerformedBy *uuid.UUID `json:"performed_by"`
}

// ReceiveTransferRequest represents a request to receive a shipped transfer
type ReceiveTransferRequest struct {
	PerformedBy *uuid.UUID `json:"performed_by"`
}

// TransferLineResponse represents a transfer line in API responses
type TransferLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	ItemID      uuid.UUID       `json:"item_id"`
	SKU         string          `json:"sku"`
	LotID       *uuid.UUID      `json:"lot_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	ShippedQty  decimal.Decimal `json:"shipped_qty"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	InTransit   decimal.Decimal `json:"in_transit"`
}

// TransferResponse represents an inventory transfer in API responses
type TransferResponse struct {
	ID            uuid.UUID              `json:"id"`
	Number        string                 `json:"number"`
	SourceID      uuid.UUID              `json:"source_warehouse_id"`
	DestinationID uuid.UUID              `json:"destination_warehouse_id"`
	Status        string                 `json:"status"`
	ExpectedAt    *time.Time             `json:"expected_at,omitempty"`
	ShippedAt     *time.Time             `json:"shipped_at,omitempty"`
	ReceivedAt    *time.Time             `json:"received_at,omitempty"`
	OverdueNoted  bool                   `json:"overdue_noted"`
	Notes         string                 `json:"notes,omitempty"`
	Lines         []TransferLineResponse `json:"lines"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	Version       int                    `json:"version"`
}

// ToTransferResponse converts an InventoryTransfer to a TransferResponse
func ToTransferResponse(t *transfer.InventoryTransfer) TransferResponse {
	lines := make([]TransferLineResponse, len(t.Lines))
	for i := range t.Lines {
		line := &t.Lines[i]
		lines[i] = TransferLineResponse{
			ID:          line.ID,
			ItemID:      line.ItemID,
			SKU:         line.SKU,
			LotID:       line.LotID,
			Quantity:    line.Quantity,
			ShippedQty:  line.ShippedQty,
			ReceivedQty: line.ReceivedQty,
			InTransit:   line.InTransit(),
		}
	}
	return TransferResponse{
		ID:            t.ID,
		Number:        t.Number,
		SourceID:      t.SourceID,
		DestinationID: t.DestinationID,
		Status:        t.Status.String(),
		ExpectedAt:    t.ExpectedAt,
		ShippedAt:     t.ShippedAt,
		ReceivedAt:    t.ReceivedAt,
		OverdueNoted:  t.OverdueNoted,
		Notes:         t.Notes,
		Lines:         lines,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		Version:       t.Version,
	}
}

// ToTransferResponses converts a slice of InventoryTransfers
func ToTransferResponses(transfers []transfer.InventoryTransfer) []TransferResponse {
	responses := make([]TransferResponse, len(transfers))
	for i := range transfers {
		responses[i] = ToTransferResponse(&transfers[i])
	}
	return responses
}
