package port

import (
	"context"

	"taxdesk/internal/domain"
)

// TransmitResult is the authority's acknowledgement of a filing submission.
type TransmitResult struct {
	Reference string
	Status    domain.AuthorityStatus
}

// AuthorityGateway abstracts the external tax authority system.
type AuthorityGateway interface {
	Transmit(ctx context.Context, filing *domain.TaxFiling, schedules []domain.FilingSchedule) (*TransmitResult, error)
	Status(ctx context.Context, reference string) (domain.AuthorityStatus, error)
}
