package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/ledger"
)

// StockLevelResponse represents a stock balance row in API responses
type StockLevelResponse struct {
	ID             uuid.UUID       `json:"id"`
	TenantID       uuid.UUID       `json:"tenant_id"`
	ItemID         uuid.UUID       `json:"item_id"`
	WarehouseID    uuid.UUID       `json:"warehouse_id"`
	LocationID     *uuid.UUID      `json:"location_id,omitempty"`
	BinID          *uuid.UUID      `json:"bin_id,omitempty"`
	LotID          *uuid.UUID      `json:"lot_id,omitempty"`
	SerialID       *uuid.UUID      `json:"serial_id,omitempty"`
	OnHand         decimal.Decimal `json:"on_hand"`
	Reserved       decimal.Decimal `json:"reserved"`
	Allocated      decimal.Decimal `json:"allocated"`
	Available      decimal.Decimal `json:"available"`
	LastMovementAt time.Time       `json:"last_movement_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// ToStockLevelResponse converts a StockLevel to a StockLevelResponse
func ToStockLevelResponse(level *ledger.StockLevel) StockLevelResponse {
	return StockLevelResponse{
		ID:             level.ID,
		TenantID:       level.TenantID,
		ItemID:         level.ItemID,
		WarehouseID:    level.WarehouseID,
		LocationID:     level.LocationID,
		BinID:          level.BinID,
		LotID:          level.LotID,
		SerialID:       level.SerialID,
		OnHand:         level.OnHand,
		Reserved:       level.Reserved,
		Allocated:      level.Allocated,
		Available:      level.Available(),
		LastMovementAt: level.LastMovementAt,
		UpdatedAt:      level.UpdatedAt,
		Version:        level.Version,
	}
}

// ToStockLevelResponses converts a slice of StockLevels
func ToStockLevelResponses(levels []ledger.StockLevel) []StockLevelResponse {
	responses := make([]StockLevelResponse, len(levels))
	for i := range levels {
		responses[i] = ToStockLevelResponse(&levels[i])
	}
	return responses
}

// ItemAvailabilityResponse aggregates stock for an item in one warehouse
type ItemAvailabilityResponse struct {
	ItemID      uuid.UUID       `json:"item_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	OnHand      decimal.Decimal `json:"on_hand"`
	Reserved    decimal.Decimal `json:"reserved"`
	Allocated   decimal.Decimal `json:"allocated"`
	Available   decimal.Decimal `json:"available"`
}

// TransactionResponse represents a transaction log entry in API responses
type TransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	Number          string          `json:"number"`
	StockLevelID    uuid.UUID       `json:"stock_level_id"`
	ItemID          uuid.UUID       `json:"item_id"`
	WarehouseID     uuid.UUID       `json:"warehouse_id"`
	LotID           *uuid.UUID      `json:"lot_id,omitempty"`
	SerialID        *uuid.UUID      `json:"serial_id,omitempty"`
	TransactionType string          `json:"transaction_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	QuantityBefore  decimal.Decimal `json:"quantity_before"`
	QuantityAfter   decimal.Decimal `json:"quantity_after"`
	SourceType      string          `json:"source_type"`
	SourceID        string          `json:"source_id"`
	SourceLineID    string          `json:"source_line_id,omitempty"`
	Reference       string          `json:"reference,omitempty"`
	Reason          string          `json:"reason,omitempty"`
	PerformedBy     *uuid.UUID      `json:"performed_by,omitempty"`
	TransactionDate time.Time       `json:"transaction_date"`
}

// ToTransactionResponse converts an InventoryTransaction to a TransactionResponse
func ToTransactionResponse(tx *ledger.InventoryTransaction) TransactionResponse {
	return TransactionResponse{
		ID:              tx.ID,
		Number:          tx.Number,
		StockLevelID:    tx.StockLevelID,
		ItemID:          tx.ItemID,
		WarehouseID:     tx.WarehouseID,
		LotID:           tx.LotID,
		SerialID:        tx.SerialID,
		TransactionType: tx.TransactionType.String(),
		Quantity:        tx.Quantity,
		UnitCost:        tx.UnitCost,
		TotalCost:       tx.TotalCost,
		QuantityBefore:  tx.QuantityBefore,
		QuantityAfter:   tx.QuantityAfter,
		SourceType:      tx.SourceType.String(),
		SourceID:        tx.SourceID,
		SourceLineID:    tx.SourceLineID,
		Reference:       tx.Reference,
		Reason:          tx.Reason,
		PerformedBy:     tx.PerformedBy,
		TransactionDate: tx.TransactionDate,
	}
}

// ToTransactionResponses converts a slice of InventoryTransactions
func ToTransactionResponses(txs []ledger.InventoryTransaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txs))
	for i := range txs {
		responses[i] = ToTransactionResponse(&txs[i])
	}
	return responses
}

// ReservationResponse represents a reservation in API responses
type ReservationResponse struct {
	ID            uuid.UUID       `json:"id"`
	Number        string          `json:"number"`
	ItemID        uuid.UUID       `json:"item_id"`
	WarehouseID   uuid.UUID       `json:"warehouse_id"`
	LotID         *uuid.UUID      `json:"lot_id,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToReservationResponse converts a Reservation to a ReservationResponse
func ToReservationResponse(r *ledger.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:            r.ID,
		Number:        r.Number,
		ItemID:        r.ItemID,
		WarehouseID:   r.WarehouseID,
		LotID:         r.LotID,
		Quantity:      r.Quantity,
		Type:          string(r.Type),
		Status:        string(r.Status),
		ReferenceType: r.ReferenceType,
		ReferenceID:   r.ReferenceID,
		ExpiresAt:     r.ExpiresAt,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// ToReservationResponses converts a slice of Reservations
func ToReservationResponses(reservations []ledger.Reservation) []ReservationResponse {
	responses := make([]ReservationResponse, len(reservations))
	for i := range reservations {
		responses[i] = ToReservationResponse(&reservations[i])
	}
	return responses
}

// StockKeyRequest identifies a stock balance row in movement requests
type StockKeyRequest struct {
	ItemID      uuid.UUID  `json:"item_id" binding:"required"`
	WarehouseID uuid.UUID  `json:"warehouse_id" binding:"required"`
	LocationID  *uuid.UUID `json:"location_id"`
	BinID       *uuid.UUID `json:"bin_id"`
	LotID       *uuid.UUID `json:"lot_id"`
	SerialID    *uuid.UUID `json:"serial_id"`
}

// ToStockKey converts the request to a domain stock key
func (r StockKeyRequest) ToStockKey(tenantID uuid.UUID) ledger.StockKey {
	return ledger.StockKey{
		TenantID:    tenantID,
		ItemID:      r.ItemID,
		WarehouseID: r.WarehouseID,
		LocationID:  r.LocationID,
		BinID:       r.BinID,
		LotID:       r.LotID,
		SerialID:    r.SerialID,
	}
}

// ReceiveStockRequest represents a request to add stock
type ReceiveStockRequest struct {
	StockKeyRequest
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	SourceType  string          `json:"source_type" binding:"required"`
	SourceID    string          `json:"source_id" binding:"required"`
	SourceLine  string          `json:"source_line_id"`
	Reference   string          `json:"reference"`
	Reason      string          `json:"reason"`
	PerformedBy *uuid.UUID      `json:"performed_by"`
}

// IssueStockRequest represents a request to remove stock
type IssueStockRequest struct {
	StockKeyRequest
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	SourceType  string          `json:"source_type" binding:"required"`
	SourceID    string          `json:"source_id" binding:"required"`
	SourceLine  string          `json:"source_line_id"`
	Reference   string          `json:"reference"`
	Reason      string          `json:"reason"`
	PerformedBy *uuid.UUID      `json:"performed_by"`
}

// AdjustStockRequest represents a request to set on-hand to a counted quantity
type AdjustStockRequest struct {
	StockKeyRequest
	ActualQuantity decimal.Decimal `json:"actual_quantity"`
	SourceType     string          `json:"source_type" binding:"required"`
	SourceID       string          `json:"source_id" binding:"required"`
	Reason         string          `json:"reason" binding:"required"`
	PerformedBy    *uuid.UUID      `json:"performed_by"`
	ApprovedBy     *uuid.UUID      `json:"approved_by"`
}

// CreateReservationRequest represents a request to reserve stock
type CreateReservationRequest struct {
	ItemID        uuid.UUID       `json:"item_id" binding:"required"`
	WarehouseID   uuid.UUID       `json:"warehouse_id" binding:"required"`
	LotID         *uuid.UUID      `json:"lot_id"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	Type          string          `json:"type" binding:"required"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   string          `json:"reference_id"`
	ExpiresAt     *time.Time      `json:"expires_at"`
}

// TransactionListFilter represents filter options for the transaction log
type TransactionListFilter struct {
	ItemID      *uuid.UUID `form:"item_id"`
	WarehouseID *uuid.UUID `form:"warehouse_id"`
	LotID       *uuid.UUID `form:"lot_id"`
	Type        string     `form:"type"`
	SourceType  string     `form:"source_type"`
	SourceID    string     `form:"source_id"`
	From        *time.Time `form:"from" time_format:"2006-01-02"`
	To          *time.Time `form:"to" time_format:"2006-01-02"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}
