package receiving

import (
	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypePurchaseOrder = "PurchaseOrder"
	AggregateTypeGoodsReceipt  = "GoodsReceipt"
	AggregateTypePutAwayTask   = "PutAwayTask"
)

// Event type constants
const (
	EventTypePurchaseOrderCreated  = "PurchaseOrderCreated"
	EventTypePurchaseOrderApproved = "PurchaseOrderApproved"
	EventTypePurchaseOrderClosed   = "PurchaseOrderClosed"
	EventTypeGoodsReceiptReceived  = "GoodsReceiptReceived"
	EventTypePutAwayCompleted      = "PutAwayCompleted"
)

// PurchaseOrderCreatedEvent is published when a purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderID uuid.UUID `json:"purchase_order_id"`
	Number          string    `json:"number"`
	WarehouseID     uuid.UUID `json:"warehouse_id"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(po *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, po.ID, po.TenantID),
		PurchaseOrderID: po.ID,
		Number:          po.Number,
		WarehouseID:     po.WarehouseID,
	}
}

// PurchaseOrderApprovedEvent is published when a purchase order is approved
type PurchaseOrderApprovedEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderID uuid.UUID `json:"purchase_order_id"`
	Number          string    `json:"number"`
}

// NewPurchaseOrderApprovedEvent creates a new PurchaseOrderApprovedEvent
func NewPurchaseOrderApprovedEvent(po *PurchaseOrder) *PurchaseOrderApprovedEvent {
	return &PurchaseOrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderApproved, AggregateTypePurchaseOrder, po.ID, po.TenantID),
		PurchaseOrderID: po.ID,
		Number:          po.Number,
	}
}

// PurchaseOrderClosedEvent is published when a purchase order is closed
type PurchaseOrderClosedEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderID uuid.UUID `json:"purchase_order_id"`
	Number          string    `json:"number"`
}

// NewPurchaseOrderClosedEvent creates a new PurchaseOrderClosedEvent
func NewPurchaseOrderClosedEvent(po *PurchaseOrder) *PurchaseOrderClosedEvent {
	return &PurchaseOrderClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderClosed, AggregateTypePurchaseOrder, po.ID, po.TenantID),
		PurchaseOrderID: po.ID,
		Number:          po.Number,
	}
}

// GoodsReceiptReceivedEvent is published when a goods receipt is confirmed
type GoodsReceiptReceivedEvent struct {
	shared.BaseDomainEvent
	GoodsReceiptID  uuid.UUID  `json:"goods_receipt_id"`
	Number          string     `json:"number"`
	WarehouseID     uuid.UUID  `json:"warehouse_id"`
	PurchaseOrderID *uuid.UUID `json:"purchase_order_id,omitempty"`
	LineCount       int        `json:"line_count"`
}

// NewGoodsReceiptReceivedEvent creates a new GoodsReceiptReceivedEvent
func NewGoodsReceiptReceivedEvent(gr *GoodsReceipt) *GoodsReceiptReceivedEvent {
	return &GoodsReceiptReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGoodsReceiptReceived, AggregateTypeGoodsReceipt, gr.ID, gr.TenantID),
		GoodsReceiptID:  gr.ID,
		Number:          gr.Number,
		WarehouseID:     gr.WarehouseID,
		PurchaseOrderID: gr.PurchaseOrderID,
		LineCount:       len(gr.Lines),
	}
}

// PutAwayCompletedEvent is published when every line of a put-away task is done
type PutAwayCompletedEvent struct {
	shared.BaseDomainEvent
	PutAwayTaskID  uuid.UUID `json:"put_away_task_id"`
	Number         string    `json:"number"`
	GoodsReceiptID uuid.UUID `json:"goods_receipt_id"`
	WarehouseID    uuid.UUID `json:"warehouse_id"`
}

// NewPutAwayCompletedEvent creates a new PutAwayCompletedEvent
func NewPutAwayCompletedEvent(pt *PutAwayTask) *PutAwayCompletedEvent {
	return &PutAwayCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePutAwayCompleted, AggregateTypePutAwayTask, pt.ID, pt.TenantID),
		PutAwayTaskID:   pt.ID,
		Number:          pt.Number,
		GoodsReceiptID:  pt.GoodsReceiptID,
		WarehouseID:     pt.WarehouseID,
	}
}
