package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxdesk/internal/domain"
)

// MockScheduleRepo is a mock implementation of port.FilingScheduleRepository.
type MockScheduleRepo struct {
	mock.Mock
}

func (m *MockScheduleRepo) ReplaceAll(ctx context.Context, tenantID, filingID uuid.UUID, schedules []domain.FilingSchedule) error {
	args := m.Called(ctx, tenantID, filingID, schedules)
	return args.Error(0)
}

func (m *MockScheduleRepo) ListByFiling(ctx context.Context, tenantID, filingID uuid.UUID) ([]domain.FilingSchedule, error) {
	args := m.Called(ctx, tenantID, filingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FilingSchedule), args.Error(1)
}
