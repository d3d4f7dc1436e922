package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxdesk/internal/domain"
	"taxdesk/internal/port"
)

// MockOnBehalfRepo is a mock implementation of port.OnBehalfActionRepository.
type MockOnBehalfRepo struct {
	mock.Mock
}

func (m *MockOnBehalfRepo) Create(ctx context.Context, action *domain.OnBehalfAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func (m *MockOnBehalfRepo) List(ctx context.Context, tenantID uuid.UUID, filter port.OnBehalfFilter, offset, limit int) ([]domain.OnBehalfAction, int, error) {
	args := m.Called(ctx, tenantID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.OnBehalfAction), args.Int(1), args.Error(2)
}

func (m *MockOnBehalfRepo) CountByAction(ctx context.Context, tenantID uuid.UUID, filter port.OnBehalfFilter) ([]domain.OnBehalfActionCount, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OnBehalfActionCount), args.Error(1)
}

func (m *MockOnBehalfRepo) ListUnnotified(ctx context.Context, limit int) ([]domain.OnBehalfAction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OnBehalfAction), args.Error(1)
}

func (m *MockOnBehalfRepo) MarkNotified(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}
