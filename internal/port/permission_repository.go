package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taxdesk/internal/domain"
)

// AssociatePermissionRepository defines the contract for delegated permission
// persistence. Upsert enforces one row per (associate, client, area) via the
// table's uniqueness constraint; a duplicate grant updates level and expiry.
type AssociatePermissionRepository interface {
	Upsert(ctx context.Context, perm *domain.AssociatePermission) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.AssociatePermission, error)
	// ListFor returns every grant for (associate, client, area). The
	// uniqueness constraint should make this at most one row; the
	// authorization gate still resolves duplicates by taking the highest
	// level.
	ListFor(ctx context.Context, tenantID, associateID, clientID uuid.UUID, area domain.PermissionArea) ([]domain.AssociatePermission, error)
	ListByAssociate(ctx context.Context, tenantID, associateID uuid.UUID, area domain.PermissionArea) ([]domain.AssociatePermission, error)
	ListExpiringWithin(ctx context.Context, tenantID uuid.UUID, until time.Time, offset, limit int) ([]domain.AssociatePermission, int, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
