package transfer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// TransferRepository defines the interface for inventory transfer persistence
type TransferRepository interface {
	// FindByID finds a transfer with its lines by ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryTransfer, error)

	// FindByIDForTenant finds a transfer by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*InventoryTransfer, error)

	// FindByNumber finds a transfer by its number within a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*InventoryTransfer, error)

	// FindByStatus finds transfers in a given status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status TransferStatus, filter shared.Filter) ([]InventoryTransfer, error)

	// FindOverdue finds shipped transfers past their expected arrival that
	// have not yet been flagged. Runs across tenants for the scheduler.
	FindOverdue(ctx context.Context, now time.Time, limit int) ([]InventoryTransfer, error)

	// FindAllForTenant finds all transfers for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]InventoryTransfer, error)

	// Save creates or updates a transfer and its lines
	Save(ctx context.Context, t *InventoryTransfer) error
}
