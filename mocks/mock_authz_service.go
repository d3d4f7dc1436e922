package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxdesk/internal/domain"
	"taxdesk/internal/service"
)

// MockAuthzService is a mock implementation of service.AuthzService.
type MockAuthzService struct {
	mock.Mock
}

func (m *MockAuthzService) Authorize(ctx context.Context, actor domain.ActorContext, clientID uuid.UUID, area domain.PermissionArea, required domain.PermissionLevel) (*service.Decision, error) {
	args := m.Called(ctx, actor, clientID, area, required)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Decision), args.Error(1)
}
