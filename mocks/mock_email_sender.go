package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"taxdesk/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendOnBehalfNotice(ctx context.Context, toEmail, toName, associateName string, action *domain.OnBehalfAction) error {
	args := m.Called(ctx, toEmail, toName, associateName, action)
	return args.Error(0)
}

func (m *MockEmailSender) SendPermissionNotice(ctx context.Context, toEmail, toName string, perm *domain.AssociatePermission) error {
	args := m.Called(ctx, toEmail, toName, perm)
	return args.Error(0)
}
