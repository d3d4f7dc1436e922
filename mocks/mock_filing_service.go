package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxdesk/internal/domain"
	"taxdesk/internal/export"
	"taxdesk/internal/port"
	"taxdesk/internal/service"
)

// MockFilingService is a mock implementation of service.FilingService.
type MockFilingService struct {
	mock.Mock
}

func (m *MockFilingService) Create(ctx context.Context, actor domain.ActorContext, input service.CreateFilingInput, meta domain.RequestMeta) (*domain.TaxFiling, error) {
	args := m.Called(ctx, actor, input, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxFiling), args.Error(1)
}

func (m *MockFilingService) Get(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID) (*domain.TaxFiling, error) {
	args := m.Called(ctx, actor, filingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxFiling), args.Error(1)
}

func (m *MockFilingService) List(ctx context.Context, actor domain.ActorContext, filter port.FilingFilter, page, pageSize int) ([]domain.TaxFiling, int, error) {
	args := m.Called(ctx, actor, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.TaxFiling), args.Int(1), args.Error(2)
}

func (m *MockFilingService) Update(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID, input service.UpdateFilingInput, meta domain.RequestMeta) (*domain.TaxFiling, error) {
	args := m.Called(ctx, actor, filingID, input, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxFiling), args.Error(1)
}

func (m *MockFilingService) Delete(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID) error {
	args := m.Called(ctx, actor, filingID)
	return args.Error(0)
}

func (m *MockFilingService) Validate(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID) (*domain.ValidationReport, error) {
	args := m.Called(ctx, actor, filingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ValidationReport), args.Error(1)
}

func (m *MockFilingService) Submit(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID, reason string, meta domain.RequestMeta) (*domain.TaxFiling, error) {
	args := m.Called(ctx, actor, filingID, reason, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxFiling), args.Error(1)
}

func (m *MockFilingService) Review(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID, input service.ReviewInput) (*domain.TaxFiling, error) {
	args := m.Called(ctx, actor, filingID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxFiling), args.Error(1)
}

func (m *MockFilingService) ListSchedules(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID) ([]domain.FilingSchedule, error) {
	args := m.Called(ctx, actor, filingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FilingSchedule), args.Error(1)
}

func (m *MockFilingService) SaveSchedules(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID, schedules []service.ScheduleInput, reason string, meta domain.RequestMeta) ([]domain.FilingSchedule, error) {
	args := m.Called(ctx, actor, filingID, schedules, reason, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FilingSchedule), args.Error(1)
}

func (m *MockFilingService) Transmit(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID) (*domain.TaxFiling, error) {
	args := m.Called(ctx, actor, filingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxFiling), args.Error(1)
}

func (m *MockFilingService) RefreshAuthorityStatus(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID) (*domain.TaxFiling, error) {
	args := m.Called(ctx, actor, filingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxFiling), args.Error(1)
}

func (m *MockFilingService) ExportRegister(ctx context.Context, actor domain.ActorContext, filter port.FilingFilter) ([]export.RegisterRow, error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]export.RegisterRow), args.Error(1)
}
