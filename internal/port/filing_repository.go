package port

import (
	"context"

	"github.com/google/uuid"

	"taxdesk/internal/domain"
)

// FilingFilter narrows filing list queries. ClientIDs, when non-nil,
// restricts results to that set; the service uses it to scope associates to
// their delegated clients.
type FilingFilter struct {
	ClientID  *uuid.UUID
	ClientIDs []uuid.UUID
	TaxType   *domain.TaxType
	Status    *domain.FilingStatus
	TaxYear   *int
	Search    string
}

// FilingRepository defines the contract for tax filing persistence.
type FilingRepository interface {
	Create(ctx context.Context, filing *domain.TaxFiling) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.TaxFiling, error)
	List(ctx context.Context, tenantID uuid.UUID, filter FilingFilter, offset, limit int) ([]domain.TaxFiling, int, error)
	Update(ctx context.Context, filing *domain.TaxFiling) error
	UpdateStatus(ctx context.Context, filing *domain.TaxFiling) error
	UpdateAuthority(ctx context.Context, filing *domain.TaxFiling) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// FilingScheduleRepository defines the contract for schedule persistence.
// ReplaceAll deletes the filing's current schedule set and inserts the new
// one; callers wrap it in a transaction together with the parent update.
type FilingScheduleRepository interface {
	ReplaceAll(ctx context.Context, tenantID, filingID uuid.UUID, schedules []domain.FilingSchedule) error
	ListByFiling(ctx context.Context, tenantID, filingID uuid.UUID) ([]domain.FilingSchedule, error)
}

// FilingAttachmentRepository defines the contract for attachment metadata.
type FilingAttachmentRepository interface {
	Create(ctx context.Context, att *domain.FilingAttachment) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.FilingAttachment, error)
	ListByFiling(ctx context.Context, tenantID, filingID uuid.UUID) ([]domain.FilingAttachment, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
