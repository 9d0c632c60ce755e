package ledger

import (
	"context"

	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReorderAlertHandler surfaces replenishment alerts when available stock
// falls to or below an item's reorder point
type ReorderAlertHandler struct {
	logger *zap.Logger
}

// NewReorderAlertHandler creates a new ReorderAlertHandler
func NewReorderAlertHandler(logger *zap.Logger) *ReorderAlertHandler {
	return &ReorderAlertHandler{logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *ReorderAlertHandler) EventTypes() []string {
	return []string{ledger.EventTypeStockBelowReorderPoint}
}

// Handle processes a StockBelowReorderPointEvent
func (h *ReorderAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*ledger.StockBelowReorderPointEvent)
	if !ok {
		return nil
	}

	h.logger.Warn("Stock below reorder point",
		zap.String("tenant_id", e.TenantID().String()),
		zap.String("item_id", e.ItemID.String()),
		zap.String("warehouse_id", e.WarehouseID.String()),
		zap.String("available", e.Available.String()),
		zap.String("reorder_point", e.ReorderPoint.String()),
		zap.String("suggested_qty", e.ReorderQty.String()),
	)
	return nil
}

var _ shared.EventHandler = (*ReorderAlertHandler)(nil)
