package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"taxdesk/internal/domain"
	"taxdesk/internal/service"
	"taxdesk/mocks"
)

func TestAuthzService_AdminBypassesDelegation(t *testing.T) {
	permRepo := new(mocks.MockPermissionRepo)
	svc := service.NewAuthzService(permRepo)

	actor := domain.ActorContext{UserID: uuid.New(), TenantID: uuid.New(), Role: domain.RoleAdmin}

	decision, err := svc.Authorize(context.Background(), actor, uuid.New(), domain.AreaTaxFilings, domain.PermissionSubmit)

	assert.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, service.SourceRole, decision.Source)
	assert.Equal(t, domain.PermissionSubmit, decision.Level)
	permRepo.AssertNotCalled(t, "ListFor", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthzService_ClientActsOnOwnData(t *testing.T) {
	permRepo := new(mocks.MockPermissionRepo)
	svc := service.NewAuthzService(permRepo)

	clientID := uuid.New()
	actor := domain.ActorContext{UserID: uuid.New(), TenantID: uuid.New(), Role: domain.RoleClient, ClientID: &clientID}

	decision, err := svc.Authorize(context.Background(), actor, clientID, domain.AreaTaxFilings, domain.PermissionSubmit)

	assert.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, service.SourceSelf, decision.Source)
}

func TestAuthzService_ClientDeniedOnOtherClient(t *testing.T) {
	permRepo := new(mocks.MockPermissionRepo)
	svc := service.NewAuthzService(permRepo)

	ownClient := uuid.New()
	actor := domain.ActorContext{UserID: uuid.New(), TenantID: uuid.New(), Role: domain.RoleClient, ClientID: &ownClient}

	decision, err := svc.Authorize(context.Background(), actor, uuid.New(), domain.AreaTaxFilings, domain.PermissionRead)

	assert.NoError(t, err)
	assert.False(t, decision.Allowed)
}

func TestAuthzService_AssociateLevelMonotonicity(t *testing.T) {
	// a grant at a level authorizes that level and everything below it
	cases := []struct {
		granted  domain.PermissionLevel
		required domain.PermissionLevel
		allowed  bool
	}{
		{domain.PermissionSubmit, domain.PermissionRead, true},
		{domain.PermissionSubmit, domain.PermissionSubmit, true},
		{domain.PermissionUpdate, domain.PermissionCreate, true},
		{domain.PermissionUpdate, domain.PermissionSubmit, false},
		{domain.PermissionCreate, domain.PermissionUpdate, false},
		{domain.PermissionRead, domain.PermissionCreate, false},
		{domain.PermissionRead, domain.PermissionRead, true},
	}

	for _, tc := range cases {
		permRepo := new(mocks.MockPermissionRepo)
		svc := service.NewAuthzService(permRepo)

		tenantID := uuid.New()
		clientID := uuid.New()
		actor := domain.ActorContext{UserID: uuid.New(), TenantID: tenantID, Role: domain.RoleAssociate}

		permRepo.On("ListFor", mock.Anything, tenantID, actor.UserID, clientID, domain.AreaTaxFilings).
			Return([]domain.AssociatePermission{{Level: tc.granted}}, nil)

		decision, err := svc.Authorize(context.Background(), actor, clientID, domain.AreaTaxFilings, tc.required)

		assert.NoError(t, err)
		assert.Equal(t, tc.allowed, decision.Allowed, "granted %s required %s", tc.granted, tc.required)
	}
}

func TestAuthzService_ExpiredGrantAuthorizesNothing(t *testing.T) {
	permRepo := new(mocks.MockPermissionRepo)
	svc := service.NewAuthzService(permRepo)

	tenantID := uuid.New()
	clientID := uuid.New()
	actor := domain.ActorContext{UserID: uuid.New(), TenantID: tenantID, Role: domain.RoleAssociate}

	past := time.Now().UTC().Add(-time.Hour)
	permRepo.On("ListFor", mock.Anything, tenantID, actor.UserID, clientID, domain.AreaTaxFilings).
		Return([]domain.AssociatePermission{{Level: domain.PermissionSubmit, ExpiresAt: &past}}, nil)

	decision, err := svc.Authorize(context.Background(), actor, clientID, domain.AreaTaxFilings, domain.PermissionRead)

	assert.NoError(t, err)
	assert.False(t, decision.Allowed)
}

func TestAuthzService_HighestUnexpiredLevelWins(t *testing.T) {
	permRepo := new(mocks.MockPermissionRepo)
	svc := service.NewAuthzService(permRepo)

	tenantID := uuid.New()
	clientID := uuid.New()
	actor := domain.ActorContext{UserID: uuid.New(), TenantID: tenantID, Role: domain.RoleAssociate}

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(24 * time.Hour)
	permRepo.On("ListFor", mock.Anything, tenantID, actor.UserID, clientID, domain.AreaTaxFilings).
		Return([]domain.AssociatePermission{
			{Level: domain.PermissionSubmit, ExpiresAt: &past},
			{Level: domain.PermissionRead, ExpiresAt: &future},
			{Level: domain.PermissionUpdate},
		}, nil)

	decision, err := svc.Authorize(context.Background(), actor, clientID, domain.AreaTaxFilings, domain.PermissionUpdate)

	assert.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, domain.PermissionUpdate, decision.Level)
	assert.Equal(t, service.SourceDelegated, decision.Source)
}

func TestAuthzService_NoGrantDenied(t *testing.T) {
	permRepo := new(mocks.MockPermissionRepo)
	svc := service.NewAuthzService(permRepo)

	tenantID := uuid.New()
	clientID := uuid.New()
	actor := domain.ActorContext{UserID: uuid.New(), TenantID: tenantID, Role: domain.RoleAssociate}

	permRepo.On("ListFor", mock.Anything, tenantID, actor.UserID, clientID, domain.AreaPayments).
		Return([]domain.AssociatePermission{}, nil)

	decision, err := svc.Authorize(context.Background(), actor, clientID, domain.AreaPayments, domain.PermissionRead)

	assert.NoError(t, err)
	assert.False(t, decision.Allowed)
}

func TestAuthzService_InvalidRequiredLevel(t *testing.T) {
	permRepo := new(mocks.MockPermissionRepo)
	svc := service.NewAuthzService(permRepo)

	actor := domain.ActorContext{UserID: uuid.New(), TenantID: uuid.New(), Role: domain.RoleAdmin}

	_, err := svc.Authorize(context.Background(), actor, uuid.New(), domain.AreaTaxFilings, "owner")

	assert.ErrorIs(t, err, domain.ErrInvalidPermission)
}
