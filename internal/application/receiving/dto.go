package receiving

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/receiving"
)

// PurchaseOrderLineRequest represents one line on a new purchase order
type PurchaseOrderLineRequest struct {
	ItemID     uuid.UUID       `json:"item_id" binding:"required"`
	OrderedQty decimal.Decimal `json:"ordered_qty" binding:"required"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	WarehouseID uuid.UUID                  `json:"warehouse_id" binding:"required"`
	SupplierRef string                     `json:"supplier_ref"`
	ExpectedAt  *time.Time                 `json:"expected_at"`
	Remark      string                     `json:"remark"`
	Lines       []PurchaseOrderLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// PurchaseOrderLineResponse represents a purchase order line in API responses
type PurchaseOrderLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	ItemID      uuid.UUID       `json:"item_id"`
	SKU         string          `json:"sku"`
	OrderedQty  decimal.Decimal `json:"ordered_qty"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	Outstanding decimal.Decimal `json:"outstanding"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID          uuid.UUID                   `json:"id"`
	Number      string                      `json:"number"`
	SupplierRef string                      `json:"supplier_ref,omitempty"`
	WarehouseID uuid.UUID                   `json:"warehouse_id"`
	Status      string                      `json:"status"`
	OrderDate   time.Time                   `json:"order_date"`
	ExpectedAt  *time.Time                  `json:"expected_at,omitempty"`
	ApprovedAt  *time.Time                  `json:"approved_at,omitempty"`
	ApprovedBy  *uuid.UUID                  `json:"approved_by,omitempty"`
	ClosedAt    *time.Time                  `json:"closed_at,omitempty"`
	Remark      string                      `json:"remark,omitempty"`
	Lines       []PurchaseOrderLineResponse `json:"lines"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
	Version     int                         `json:"version"`
}

// ToPurchaseOrderResponse converts a PurchaseOrder to a PurchaseOrderResponse
func ToPurchaseOrderResponse(po *receiving.PurchaseOrder) PurchaseOrderResponse {
	lines := make([]PurchaseOrderLineResponse, len(po.Items))
	for i := range po.Items {
		line := &po.Items[i]
		lines[i] = PurchaseOrderLineResponse{
			ID:          line.ID,
			ItemID:      line.ItemID,
			SKU:         line.SKU,
			OrderedQty:  line.OrderedQty,
			ReceivedQty: line.ReceivedQty,
			Outstanding: line.Outstanding(),
			UnitCost:    line.UnitCost,
		}
	}
	return PurchaseOrderResponse{
		ID:          po.ID,
		Number:      po.Number,
		SupplierRef: po.SupplierRef,
		WarehouseID: po.WarehouseID,
		Status:      po.Status.String(),
		OrderDate:   po.OrderDate,
		ExpectedAt:  po.ExpectedAt,
		ApprovedAt:  po.ApprovedAt,
		ApprovedBy:  po.ApprovedBy,
		ClosedAt:    po.ClosedAt,
		Remark:      po.Remark,
		Lines:       lines,
		CreatedAt:   po.CreatedAt,
		UpdatedAt:   po.UpdatedAt,
		Version:     po.Version,
	}
}

// ToPurchaseOrderResponses converts a slice of PurchaseOrders
func ToPurchaseOrderResponses(orders []receiving.PurchaseOrder) []PurchaseOrderResponse {
	responses := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToPurchaseOrderResponse(&orders[i])
	}
	return responses
}

// GoodsReceiptLineRequest represents one received item on a new goods receipt
type GoodsReceiptLineRequest struct {
	ItemID          uuid.UUID       `json:"item_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	LotNumber       string          `json:"lot_number"`
	ManufactureDate *time.Time      `json:"manufacture_date"`
	ExpiryDate      *time.Time      `json:"expiry_date"`
	SerialNumbers   []string        `json:"serial_numbers"`
}

// CreateGoodsReceiptRequest represents a request to create a draft goods receipt
type CreateGoodsReceiptRequest struct {
	WarehouseID     uuid.UUID                 `json:"warehouse_id" binding:"required"`
	PurchaseOrderID *uuid.UUID                `json:"purchase_order_id"`
	Remark          string                    `json:"remark"`
	Lines           []GoodsReceiptLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ConfirmGoodsReceiptRequest represents a request to confirm a draft receipt
type ConfirmGoodsReceiptRequest struct {
	ReceivedBy uuid.UUID `json:"received_by" binding:"required"`
}

// GoodsReceiptLineResponse represents a goods receipt line in API responses
type GoodsReceiptLineResponse struct {
	ID              uuid.UUID       `json:"id"`
	ItemID          uuid.UUID       `json:"item_id"`
	SKU             string          `json:"sku"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	POLineID        *uuid.UUID      `json:"po_line_id,omitempty"`
	LotNumber       string          `json:"lot_number,omitempty"`
	ManufactureDate *time.Time      `json:"manufacture_date,omitempty"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
	SerialNumbers   []string        `json:"serial_numbers,omitempty"`
}

// GoodsReceiptResponse represents a goods receipt in API responses
type GoodsReceiptResponse struct {
	ID              uuid.UUID                  `json:"id"`
	Number          string                     `json:"number"`
	WarehouseID     uuid.UUID                  `json:"warehouse_id"`
	PurchaseOrderID *uuid.UUID                 `json:"purchase_order_id,omitempty"`
	Status          string                     `json:"status"`
	ReceivedAt      *time.Time                 `json:"received_at,omitempty"`
	ReceivedBy      *uuid.UUID                 `json:"received_by,omitempty"`
	Remark          string                     `json:"remark,omitempty"`
	Lines           []GoodsReceiptLineResponse `json:"lines"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

// ToGoodsReceiptResponse converts a GoodsReceipt to a GoodsReceiptResponse
func ToGoodsReceiptResponse(gr *receiving.GoodsReceipt) GoodsReceiptResponse {
	lines := make([]GoodsReceiptLineResponse, len(gr.Lines))
	for i := range gr.Lines {
		line := &gr.Lines[i]
		lines[i] = GoodsReceiptLineResponse{
			ID:              line.ID,
			ItemID:          line.ItemID,
			SKU:             line.SKU,
			Quantity:        line.Quantity,
			UnitCost:        line.UnitCost,
			POLineID:        line.POLineID,
			LotNumber:       line.LotNumber,
			ManufactureDate: line.ManufactureDate,
			ExpiryDate:      line.ExpiryDate,
			SerialNumbers:   line.SerialNumbers,
		}
	}
	return GoodsReceiptResponse{
		ID:              gr.ID,
		Number:          gr.Number,
		WarehouseID:     gr.WarehouseID,
		PurchaseOrderID: gr.PurchaseOrderID,
		Status:          gr.Status.String(),
		ReceivedAt:      gr.ReceivedAt,
		ReceivedBy:      gr.ReceivedBy,
		Remark:          gr.Remark,
		Lines:           lines,
		CreatedAt:       gr.CreatedAt,
		UpdatedAt:       gr.UpdatedAt,
	}
}

// ToGoodsReceiptResponses converts a slice of GoodsReceipts
func ToGoodsReceiptResponses(receipts []receiving.GoodsReceipt) []GoodsReceiptResponse {
	responses := make([]GoodsReceiptResponse, len(receipts))
	for i := range receipts {
		responses[i] = ToGoodsReceiptResponse(&receipts[i])
	}
	return responses
}

// PutAwayItemResponse represents a put-away line in API responses
type PutAwayItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ItemID      uuid.UUID       `json:"item_id"`
	SKU         string          `json:"sku"`
	LotID       *uuid.UUID      `json:"lot_id,omitempty"`
	SerialID    *uuid.UUID      `json:"serial_id,omitempty"`
	LocationID  *uuid.UUID      `json:"location_id,omitempty"`
	BinID       *uuid.UUID      `json:"bin_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Completed   bool            `json:"completed"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// PutAwayTaskResponse represents a put-away task in API responses
type PutAwayTaskResponse struct {
	ID             uuid.UUID             `json:"id"`
	Number         string                `json:"number"`
	WarehouseID    uuid.UUID             `json:"warehouse_id"`
	GoodsReceiptID uuid.UUID             `json:"goods_receipt_id"`
	Status         string                `json:"status"`
	StartedAt      *time.Time            `json:"started_at,omitempty"`
	CompletedAt    *time.Time            `json:"completed_at,omitempty"`
	Items          []PutAwayItemResponse `json:"items"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// ToPutAwayTaskResponse converts a PutAwayTask to a PutAwayTaskResponse
func ToPutAwayTaskResponse(task *receiving.PutAwayTask) PutAwayTaskResponse {
	items := make([]PutAwayItemResponse, len(task.Items))
	for i := range task.Items {
		item := &task.Items[i]
		items[i] = PutAwayItemResponse{
			ID:          item.ID,
			ItemID:      item.ItemID,
			SKU:         item.SKU,
			LotID:       item.LotID,
			SerialID:    item.SerialID,
			LocationID:  item.LocationID,
			BinID:       item.BinID,
			Quantity:    item.Quantity,
			UnitCost:    item.UnitCost,
			Completed:   item.Completed,
			CompletedAt: item.CompletedAt,
		}
	}
	return PutAwayTaskResponse{
		ID:             task.ID,
		Number:         task.Number,
		WarehouseID:    task.WarehouseID,
		GoodsReceiptID: task.GoodsReceiptID,
		Status:         task.Status.String(),
		StartedAt:      task.StartedAt,
		CompletedAt:    task.CompletedAt,
		Items:          items,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
}

// ToPutAwayTaskResponses converts a slice of PutAwayTasks
func ToPutAwayTaskResponses(tasks []receiving.PutAwayTask) []PutAwayTaskResponse {
	responses := make([]PutAwayTaskResponse, len(tasks))
	for i := range tasks {
		responses[i] = ToPutAwayTaskResponse(&tasks[i])
	}
	return responses
}

// ConfirmReceiptResult bundles the confirmed receipt with the put-away task it opened
type ConfirmReceiptResult struct {
	GoodsReceipt GoodsReceiptResponse `json:"goods_receipt"`
	PutAwayTask  PutAwayTaskResponse  `json:"put_away_task"`
}
