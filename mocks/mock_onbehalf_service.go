package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxdesk/internal/domain"
	"taxdesk/internal/port"
	"taxdesk/internal/service"
)

// MockOnBehalfService is a mock implementation of service.OnBehalfService.
type MockOnBehalfService struct {
	mock.Mock
}

func (m *MockOnBehalfService) Record(ctx context.Context, actor domain.ActorContext, input service.RecordActionInput) (uuid.UUID, error) {
	args := m.Called(ctx, actor, input)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockOnBehalfService) List(ctx context.Context, actor domain.ActorContext, filter port.OnBehalfFilter, page, pageSize int) ([]domain.OnBehalfAction, int, error) {
	args := m.Called(ctx, actor, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.OnBehalfAction), args.Int(1), args.Error(2)
}

func (m *MockOnBehalfService) CountByAction(ctx context.Context, actor domain.ActorContext, filter port.OnBehalfFilter) ([]domain.OnBehalfActionCount, error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OnBehalfActionCount), args.Error(1)
}
