package counting

import (
	"context"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// CycleCountRepository defines the interface for cycle count persistence
type CycleCountRepository interface {
	// FindByID finds a cycle count with its lines by ID
	FindByID(ctx context.Context, id uuid.UUID) (*CycleCount, error)

	// FindByIDForTenant finds a cycle count by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CycleCount, error)

	// FindByNumber finds a cycle count by its number within a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*CycleCount, error)

	// FindByStatus finds cycle counts in a given status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status CycleCountStatus, filter shared.Filter) ([]CycleCount, error)

	// FindAllForTenant finds all cycle counts for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CycleCount, error)

	// Save creates or updates a cycle count and its lines
	Save(ctx context.Context, cc *CycleCount) error
}

// AdjustmentRepository defines the interface for stock adjustment persistence
type AdjustmentRepository interface {
	// FindByID finds an adjustment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockAdjustment, error)

	// FindByIDForTenant finds an adjustment by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StockAdjustment, error)

	// FindPending finds pending adjustments for a tenant
	FindPending(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockAdjustment, error)

	// FindByCycleCount finds adjustments raised by a cycle count
	FindByCycleCount(ctx context.Context, tenantID, cycleCountID uuid.UUID) ([]StockAdjustment, error)

	// FindAllForTenant finds all adjustments for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockAdjustment, error)

	// Save creates or updates an adjustment
	Save(ctx context.Context, a *StockAdjustment) error
}
