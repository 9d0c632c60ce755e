package outbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// PickListRepository defines the interface for pick list persistence
type PickListRepository interface {
	// FindByID finds a pick list with its lines by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PickList, error)

	// FindByIDForTenant finds a pick list by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PickList, error)

	// FindByNumber finds a pick list by its number within a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*PickList, error)

	// FindByStatus finds pick lists in a given status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status PickListStatus, filter shared.Filter) ([]PickList, error)

	// FindAllForTenant finds all pick lists for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PickList, error)

	// Save creates or updates a pick list and its lines
	Save(ctx context.Context, pl *PickList) error
}
