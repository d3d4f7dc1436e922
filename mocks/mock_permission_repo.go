package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxdesk/internal/domain"
)

// MockPermissionRepo is a mock implementation of port.AssociatePermissionRepository.
type MockPermissionRepo struct {
	mock.Mock
}

func (m *MockPermissionRepo) Upsert(ctx context.Context, perm *domain.AssociatePermission) error {
	args := m.Called(ctx, perm)
	return args.Error(0)
}

func (m *MockPermissionRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.AssociatePermission, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssociatePermission), args.Error(1)
}

func (m *MockPermissionRepo) ListFor(ctx context.Context, tenantID, associateID, clientID uuid.UUID, area domain.PermissionArea) ([]domain.AssociatePermission, error) {
	args := m.Called(ctx, tenantID, associateID, clientID, area)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AssociatePermission), args.Error(1)
}

func (m *MockPermissionRepo) ListByAssociate(ctx context.Context, tenantID, associateID uuid.UUID, area domain.PermissionArea) ([]domain.AssociatePermission, error) {
	args := m.Called(ctx, tenantID, associateID, area)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AssociatePermission), args.Error(1)
}

func (m *MockPermissionRepo) ListExpiringWithin(ctx context.Context, tenantID uuid.UUID, until time.Time, offset, limit int) ([]domain.AssociatePermission, int, error) {
	args := m.Called(ctx, tenantID, until, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.AssociatePermission), args.Int(1), args.Error(2)
}

func (m *MockPermissionRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}
