package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"taxdesk/internal/domain"
	"taxdesk/internal/port"
)

// MockAuthorityGateway is a mock implementation of port.AuthorityGateway.
type MockAuthorityGateway struct {
	mock.Mock
}

func (m *MockAuthorityGateway) Transmit(ctx context.Context, filing *domain.TaxFiling, schedules []domain.FilingSchedule) (*port.TransmitResult, error) {
	args := m.Called(ctx, filing, schedules)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.TransmitResult), args.Error(1)
}

func (m *MockAuthorityGateway) Status(ctx context.Context, reference string) (domain.AuthorityStatus, error) {
	args := m.Called(ctx, reference)
	return args.Get(0).(domain.AuthorityStatus), args.Error(1)
}
