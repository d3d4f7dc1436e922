package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxdesk/internal/domain"
)

// MockAttachmentRepo is a mock implementation of port.FilingAttachmentRepository.
type MockAttachmentRepo struct {
	mock.Mock
}

func (m *MockAttachmentRepo) Create(ctx context.Context, att *domain.FilingAttachment) error {
	args := m.Called(ctx, att)
	return args.Error(0)
}

func (m *MockAttachmentRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.FilingAttachment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FilingAttachment), args.Error(1)
}

func (m *MockAttachmentRepo) ListByFiling(ctx context.Context, tenantID, filingID uuid.UUID) ([]domain.FilingAttachment, error) {
	args := m.Called(ctx, tenantID, filingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FilingAttachment), args.Error(1)
}

func (m *MockAttachmentRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}
