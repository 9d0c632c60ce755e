package receiving

import (
	"context"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID finds an order with its lines by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByIDForTenant finds an order by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrder, error)

	// FindByNumber finds an order by its number within a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*PurchaseOrder, error)

	// FindByStatus finds orders in a given status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status PurchaseOrderStatus, filter shared.Filter) ([]PurchaseOrder, error)

	// FindAllForTenant finds all orders for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// Save creates or updates an order and its lines
	Save(ctx context.Context, po *PurchaseOrder) error
}

// GoodsReceiptRepository defines the interface for goods receipt persistence
type GoodsReceiptRepository interface {
	// FindByID finds a receipt with its lines by ID
	FindByID(ctx context.Context, id uuid.UUID) (*GoodsReceipt, error)

	// FindByIDForTenant finds a receipt by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*GoodsReceipt, error)

	// FindByPurchaseOrder finds receipts posted against an order
	FindByPurchaseOrder(ctx context.Context, tenantID, poID uuid.UUID) ([]GoodsReceipt, error)

	// FindAllForTenant finds all receipts for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]GoodsReceipt, error)

	// Save creates or updates a receipt and its lines
	Save(ctx context.Context, gr *GoodsReceipt) error
}

// PutAwayRepository defines the interface for put-away task persistence
type PutAwayRepository interface {
	// FindByID finds a task with its lines by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PutAwayTask, error)

	// FindByIDForTenant finds a task by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PutAwayTask, error)

	// FindByGoodsReceipt finds the task opened for a goods receipt
	FindByGoodsReceipt(ctx context.Context, tenantID, goodsReceiptID uuid.UUID) (*PutAwayTask, error)

	// FindOpen finds tasks not yet completed or cancelled for a tenant
	FindOpen(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PutAwayTask, error)

	// Save creates or updates a task and its lines
	Save(ctx context.Context, task *PutAwayTask) error
}
