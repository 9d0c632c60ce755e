package counting

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	ledgerapp "github.com/wms/backend/internal/application/ledger"
	"github.com/wms/backend/internal/domain/counting"
)

// CreateCycleCountRequest represents a request to snapshot stock into a count.
// An empty item list counts every stocked position in the warehouse.
type CreateCycleCountRequest struct {
	WarehouseID uuid.UUID   `json:"warehouse_id" binding:"required"`
	CountDate   *time.Time  `json:"count_date"`
	CreatedBy   uuid.UUID   `json:"created_by" binding:"required"`
	ItemIDs     []uuid.UUID `json:"item_ids"`
}

// RecordCountRequest represents a physical count for one line
type RecordCountRequest struct {
	CountedQty decimal.Decimal `json:"counted_qty"`
	Remark     string          `json:"remark"`
}

// CountDecisionRequest represents an approve or reject decision on a count
type CountDecisionRequest struct {
	DecidedBy uuid.UUID `json:"decided_by" binding:"required"`
	Note      string    `json:"note"`
}

// RequestAdjustmentRequest represents a request for a manual stock adjustment
type RequestAdjustmentRequest struct {
	ledgerapp.StockKeyRequest
	Type        string          `json:"type" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Reason      string          `json:"reason" binding:"required"`
	Reference   string          `json:"reference"`
	RequestedBy uuid.UUID       `json:"requested_by" binding:"required"`
}

// AdjustmentDecisionRequest represents an approve or reject decision on an adjustment
type AdjustmentDecisionRequest struct {
	DecidedBy uuid.UUID `json:"decided_by" binding:"required"`
	Note      string    `json:"note"`
}

// CycleCountLineResponse represents a cycle count line in API responses
type CycleCountLineResponse struct {
	ID           uuid.UUID       `json:"id"`
	StockLevelID uuid.UUID       `json:"stock_level_id"`
	ItemID       uuid.UUID       `json:"item_id"`
	SKU          string          `json:"sku"`
	LocationID   *uuid.UUID      `json:"location_id,omitempty"`
	BinID        *uuid.UUID      `json:"bin_id,omitempty"`
	LotID        *uuid.UUID      `json:"lot_id,omitempty"`
	SnapshotQty  decimal.Decimal `json:"snapshot_qty"`
	CountedQty   decimal.Decimal `json:"counted_qty"`
	Variance     decimal.Decimal `json:"variance"`
	Counted      bool            `json:"counted"`
	Remark       string          `json:"remark,omitempty"`
}

// CycleCountResponse represents a cycle count in API responses
type CycleCountResponse struct {
	ID            uuid.UUID                `json:"id"`
	Number        string                   `json:"number"`
	WarehouseID   uuid.UUID                `json:"warehouse_id"`
	Status        string                   `json:"status"`
	CountDate     time.Time                `json:"count_date"`
	StartedAt     *time.Time               `json:"started_at,omitempty"`
	CompletedAt   *time.Time               `json:"completed_at,omitempty"`
	ApprovedAt    *time.Time               `json:"approved_at,omitempty"`
	ApprovedBy    *uuid.UUID               `json:"approved_by,omitempty"`
	CreatedBy     uuid.UUID                `json:"created_by"`
	TotalLines    int                      `json:"total_lines"`
	CountedLines  int                      `json:"counted_lines"`
	VarianceLines int                      `json:"variance_lines"`
	ApprovalNote  string                   `json:"approval_note,omitempty"`
	Lines         []CycleCountLineResponse `json:"lines"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
	Version       int                      `json:"version"`
}

// ToCycleCountResponse converts a CycleCount to a CycleCountResponse
func ToCycleCountResponse(cc *counting.CycleCount) CycleCountResponse {
	lines := make([]CycleCountLineResponse, len(cc.Lines))
	for i := range cc.Lines {
		line := &cc.Lines[i]
		lines[i] = CycleCountLineResponse{
			ID:           line.ID,
			StockLevelID: line.StockLevelID,
			ItemID:       line.ItemID,
			SKU:          line.SKU,
			LocationID:   line.LocationID,
			BinID:        line.BinID,
			LotID:        line.LotID,
			SnapshotQty:  line.SnapshotQty,
			CountedQty:   line.CountedQty,
			Variance:     line.Variance,
			Counted:      line.Counted,
			Remark:       line.Remark,
		}
	}
	return CycleCountResponse{
		ID:            cc.ID,
		Number:        cc.Number,
		WarehouseID:   cc.WarehouseID,
		Status:        cc.Status.String(),
		CountDate:     cc.CountDate,
		StartedAt:     cc.StartedAt,
		CompletedAt:   cc.CompletedAt,
		ApprovedAt:    cc.ApprovedAt,
		ApprovedBy:    cc.ApprovedBy,
		CreatedBy:     cc.CreatedBy,
		TotalLines:    cc.TotalLines,
		CountedLines:  cc.CountedLines,
		VarianceLines: cc.VarianceLines,
		ApprovalNote:  cc.ApprovalNote,
		Lines:         lines,
		CreatedAt:     cc.CreatedAt,
		UpdatedAt:     cc.UpdatedAt,
		Version:       cc.Version,
	}
}

// ToCycleCountResponses converts a slice of CycleCounts
func ToCycleCountResponses(counts []counting.CycleCount) []CycleCountResponse {
	responses := make([]CycleCountResponse, len(counts))
	for i := range counts {
		responses[i] = ToCycleCountResponse(&counts[i])
	}
	return responses
}

// AdjustmentResponse represents a stock adjustment in API responses
type AdjustmentResponse struct {
	ID           uuid.UUID       `json:"id"`
	Number       string          `json:"number"`
	StockLevelID uuid.UUID       `json:"stock_level_id"`
	ItemID       uuid.UUID       `json:"item_id"`
	WarehouseID  uuid.UUID       `json:"warehouse_id"`
	Type         string          `json:"type"`
	Status       string          `json:"status"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       string          `json:"reason"`
	Reference    string          `json:"reference,omitempty"`
	CycleCountID *uuid.UUID      `json:"cycle_count_id,omitempty"`
	RequestedBy  uuid.UUID       `json:"requested_by"`
	DecidedBy    *uuid.UUID      `json:"decided_by,omitempty"`
	DecidedAt    *time.Time      `json:"decided_at,omitempty"`
	DecisionNote string          `json:"decision_note,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToAdjustmentResponse converts a StockAdjustment to an AdjustmentResponse
func ToAdjustmentResponse(a *counting.StockAdjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID:           a.ID,
		Number:       a.Number,
		StockLevelID: a.StockLevelID,
		ItemID:       a.ItemID,
		WarehouseID:  a.WarehouseID,
		Type:         a.Type.String(),
		Status:       a.Status.String(),
		Quantity:     a.Quantity,
		Reason:       a.Reason,
		Reference:    a.Reference,
		CycleCountID: a.CycleCountID,
		RequestedBy:  a.RequestedBy,
		DecidedBy:    a.DecidedBy,
		DecidedAt:    a.DecidedAt,
		DecisionNote: a.DecisionNote,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// ToAdjustmentResponses converts a slice of StockAdjustments
func ToAdjustmentResponses(adjustments []counting.StockAdjustment) []AdjustmentResponse {
	responses := make([]AdjustmentResponse, len(adjustments))
	for i := range adjustments {
		responses[i] = ToAdjustmentResponse(&adjustments[i])
	}
	return responses
}
