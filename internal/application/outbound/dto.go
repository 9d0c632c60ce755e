package outbound

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/outbound"
)

// PickLineRequest represents one requested quantity on a new pick list.
// A line may claim an existing reservation, name a specific lot, or name a
// single serialized unit; otherwise stock is allocated by the list's policy.
type PickLineRequest struct {
	ItemID        uuid.UUID       `json:"item_id" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	ReservationID *uuid.UUID      `json:"reservation_id"`
	LotID         *uuid.UUID      `json:"lot_id"`
	SerialID      *uuid.UUID      `json:"serial_id"`
}

// CreatePickListRequest represents a request to create and allocate a pick list
type CreatePickListRequest struct {
	WarehouseID uuid.UUID         `json:"warehouse_id" binding:"required"`
	Reference   string            `json:"reference"`
	LotPolicy   string            `json:"lot_policy"`
	Lines       []PickLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// RecordPickRequest represents a picked quantity on one line
type RecordPickRequest struct {
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	PerformedBy *uuid.UUID      `json:"performed_by"`
}

// PickLineResponse represents a pick line in API responses
type PickLineResponse struct {
	ID            uuid.UUID       `json:"id"`
	ItemID        uuid.UUID       `json:"item_id"`
	SKU           string          `json:"sku"`
	LocationID    *uuid.UUID      `json:"location_id,omitempty"`
	BinID         *uuid.UUID      `json:"bin_id,omitempty"`
	LotID         *uuid.UUID      `json:"lot_id,omitempty"`
	SerialID      *uuid.UUID      `json:"serial_id,omitempty"`
	ReservationID *uuid.UUID      `json:"reservation_id,omitempty"`
	QtyToPick     decimal.Decimal `json:"qty_to_pick"`
	QtyPicked     decimal.Decimal `json:"qty_picked"`
	Remaining     decimal.Decimal `json:"remaining"`
	Status        string          `json:"status"`
}

// PickListResponse represents a pick list in API responses
type PickListResponse struct {
	ID          uuid.UUID          `json:"id"`
	Number      string             `json:"number"`
	WarehouseID uuid.UUID          `json:"warehouse_id"`
	Status      string             `json:"status"`
	Reference   string             `json:"reference,omitempty"`
	StartedAt   *time.Time         `json:"started_at,omitempty"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
	Lines       []PickLineResponse `json:"lines"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Version     int                `json:"version"`
}

// ToPickListResponse converts a PickList to a PickListResponse
func ToPickListResponse(pl *outbound.PickList) PickListResponse {
	lines := make([]PickLineResponse, len(pl.Lines))
	for i := range pl.Lines {
		line := &pl.Lines[i]
		lines[i] = PickLineResponse{
			ID:            line.ID,
			ItemID:        line.ItemID,
			SKU:           line.SKU,
			LocationID:    line.LocationID,
			BinID:         line.BinID,
			LotID:         line.LotID,
			SerialID:      line.SerialID,
			ReservationID: line.ReservationID,
			QtyToPick:     line.QtyToPick,
			QtyPicked:     line.QtyPicked,
			Remaining:     line.Remaining(),
			Status:        string(line.Status),
		}
	}
	return PickListResponse{
		ID:          pl.ID,
		Number:      pl.Number,
		WarehouseID: pl.WarehouseID,
		Status:      pl.Status.String(),
		Reference:   pl.Reference,
		StartedAt:   pl.StartedAt,
		CompletedAt: pl.CompletedAt,
		Lines:       lines,
		CreatedAt:   pl.CreatedAt,
		UpdatedAt:   pl.UpdatedAt,
		Version:     pl.Version,
	}
}

// ToPickListResponses converts a slice of PickLists
func ToPickListResponses(lists []outbound.PickList) []PickListResponse {
	responses := make([]PickListResponse, len(lists))
	for i := range lists {
		responses[i] = ToPickListResponse(&lists[i])
	}
	return responses
}
