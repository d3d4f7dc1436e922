package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taxdesk/internal/domain"
)

// OnBehalfFilter narrows on-behalf action queries.
type OnBehalfFilter struct {
	AssociateID *uuid.UUID
	ClientID    *uuid.UUID
	From        *time.Time
	To          *time.Time
}

// OnBehalfActionRepository defines the contract for the append-only on-behalf
// action log. Entries are never updated or deleted through application paths;
// MarkNotified flips the single mutable flag.
type OnBehalfActionRepository interface {
	Create(ctx context.Context, action *domain.OnBehalfAction) error
	List(ctx context.Context, tenantID uuid.UUID, filter OnBehalfFilter, offset, limit int) ([]domain.OnBehalfAction, int, error)
	CountByAction(ctx context.Context, tenantID uuid.UUID, filter OnBehalfFilter) ([]domain.OnBehalfActionCount, error)
	ListUnnotified(ctx context.Context, limit int) ([]domain.OnBehalfAction, error)
	MarkNotified(ctx context.Context, id uuid.UUID, at time.Time) error
}
