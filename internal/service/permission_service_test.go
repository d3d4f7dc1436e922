package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"taxdesk/internal/domain"
	"taxdesk/internal/service"
	"taxdesk/mocks"
)

type permissionMocks struct {
	permRepo   *mocks.MockPermissionRepo
	userRepo   *mocks.MockUserRepo
	clientRepo *mocks.MockClientRepo
	sender     *mocks.MockEmailSender
}

func newPermissionService() (service.PermissionService, *permissionMocks) {
	m := &permissionMocks{
		permRepo:   new(mocks.MockPermissionRepo),
		userRepo:   new(mocks.MockUserRepo),
		clientRepo: new(mocks.MockClientRepo),
		sender:     new(mocks.MockEmailSender),
	}
	svc := service.NewPermissionService(m.permRepo, m.userRepo, m.clientRepo, m.sender)
	return svc, m
}

func TestPermissionService_Grant_Success(t *testing.T) {
	svc, m := newPermissionService()
	tenantID := uuid.New()
	actor := adminActor(tenantID)
	associateID := uuid.New()
	clientID := uuid.New()

	m.userRepo.On("GetByID", mock.Anything, tenantID, associateID).
		Return(&domain.User{ID: associateID, TenantID: tenantID, Role: domain.RoleAssociate, FullName: "Priya N"}, nil)
	m.clientRepo.On("GetByID", mock.Anything, tenantID, clientID).
		Return(&domain.Client{ID: clientID, TenantID: tenantID, Name: "Acme Ltd", Email: "owner@acme.test"}, nil)
	m.permRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(p *domain.AssociatePermission) bool {
		return p.AssociateID == associateID && p.ClientID == clientID &&
			p.Area == domain.AreaTaxFilings && p.Level == domain.PermissionUpdate &&
			p.GrantedBy == actor.UserID
	})).Return(nil)
	m.sender.On("SendPermissionNotice", mock.Anything, "owner@acme.test", "Acme Ltd", mock.Anything).Return(nil)

	perm, err := svc.Grant(context.Background(), actor, service.GrantInput{
		AssociateID: associateID,
		ClientID:    clientID,
		Area:        domain.AreaTaxFilings,
		Level:       domain.PermissionUpdate,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.PermissionUpdate, perm.Level)
	m.permRepo.AssertExpectations(t)
	m.sender.AssertExpectations(t)
}

func TestPermissionService_Grant_NoticeFailureDoesNotFailGrant(t *testing.T) {
	svc, m := newPermissionService()
	tenantID := uuid.New()
	actor := adminActor(tenantID)
	associateID := uuid.New()
	clientID := uuid.New()

	m.userRepo.On("GetByID", mock.Anything, tenantID, associateID).
		Return(&domain.User{ID: associateID, Role: domain.RoleAssociate}, nil)
	m.clientRepo.On("GetByID", mock.Anything, tenantID, clientID).
		Return(&domain.Client{ID: clientID, Name: "Acme Ltd", Email: "owner@acme.test"}, nil)
	m.permRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	m.sender.On("SendPermissionNotice", mock.Anything, "owner@acme.test", "Acme Ltd", mock.Anything).
		Return(errors.New("smtp unavailable"))

	perm, err := svc.Grant(context.Background(), actor, service.GrantInput{
		AssociateID: associateID,
		ClientID:    clientID,
		Area:        domain.AreaTaxFilings,
		Level:       domain.PermissionRead,
	})

	assert.NoError(t, err)
	assert.NotNil(t, perm)
}

func TestPermissionService_Grant_NonReviewerForbidden(t *testing.T) {
	svc, m := newPermissionService()
	actor := associateActor(uuid.New())

	_, err := svc.Grant(context.Background(), actor, service.GrantInput{
		AssociateID: uuid.New(),
		ClientID:    uuid.New(),
		Area:        domain.AreaTaxFilings,
		Level:       domain.PermissionRead,
	})

	assert.ErrorIs(t, err, domain.ErrForbidden)
	m.permRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestPermissionService_Grant_SelfGrantRejected(t *testing.T) {
	svc, _ := newPermissionService()
	actor := adminActor(uuid.New())

	_, err := svc.Grant(context.Background(), actor, service.GrantInput{
		AssociateID: actor.UserID,
		ClientID:    uuid.New(),
		Area:        domain.AreaTaxFilings,
		Level:       domain.PermissionRead,
	})

	assert.ErrorIs(t, err, domain.ErrSelfGrant)
}

func TestPermissionService_Grant_InvalidAreaAndLevel(t *testing.T) {
	svc, _ := newPermissionService()
	actor := adminActor(uuid.New())

	_, err := svc.Grant(context.Background(), actor, service.GrantInput{
		AssociateID: uuid.New(),
		ClientID:    uuid.New(),
		Area:        "payroll",
		Level:       domain.PermissionRead,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArea)

	_, err = svc.Grant(context.Background(), actor, service.GrantInput{
		AssociateID: uuid.New(),
		ClientID:    uuid.New(),
		Area:        domain.AreaTaxFilings,
		Level:       "owner",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPermission)
}

func TestPermissionService_Grant_PastExpiryRejected(t *testing.T) {
	svc, _ := newPermissionService()
	actor := adminActor(uuid.New())

	past := time.Now().UTC().Add(-time.Hour)
	_, err := svc.Grant(context.Background(), actor, service.GrantInput{
		AssociateID: uuid.New(),
		ClientID:    uuid.New(),
		Area:        domain.AreaTaxFilings,
		Level:       domain.PermissionRead,
		ExpiresAt:   &past,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidPermission)
}

func TestPermissionService_Grant_TargetMustBeAssociate(t *testing.T) {
	svc, m := newPermissionService()
	tenantID := uuid.New()
	actor := adminActor(tenantID)
	targetID := uuid.New()

	m.userRepo.On("GetByID", mock.Anything, tenantID, targetID).
		Return(&domain.User{ID: targetID, Role: domain.RoleAdmin}, nil)

	_, err := svc.Grant(context.Background(), actor, service.GrantInput{
		AssociateID: targetID,
		ClientID:    uuid.New(),
		Area:        domain.AreaTaxFilings,
		Level:       domain.PermissionRead,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidPermission)
	m.permRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestPermissionService_Revoke_NonReviewerForbidden(t *testing.T) {
	svc, m := newPermissionService()
	actor := associateActor(uuid.New())

	err := svc.Revoke(context.Background(), actor, uuid.New())

	assert.ErrorIs(t, err, domain.ErrForbidden)
	m.permRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestPermissionService_Get_AssociateSeesOwnGrantOnly(t *testing.T) {
	svc, m := newPermissionService()
	tenantID := uuid.New()
	actor := associateActor(tenantID)
	permID := uuid.New()

	m.permRepo.On("GetByID", mock.Anything, tenantID, permID).
		Return(&domain.AssociatePermission{ID: permID, AssociateID: uuid.New()}, nil)

	_, err := svc.Get(context.Background(), actor, permID)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPermissionService_ListForAssociate_FiltersExpired(t *testing.T) {
	svc, m := newPermissionService()
	tenantID := uuid.New()
	actor := associateActor(tenantID)

	activeClient := uuid.New()
	expiredClient := uuid.New()
	past := time.Now().UTC().Add(-time.Hour)
	m.permRepo.On("ListByAssociate", mock.Anything, tenantID, actor.UserID, domain.AreaTaxFilings).
		Return([]domain.AssociatePermission{
			{ClientID: activeClient, Area: domain.AreaTaxFilings, Level: domain.PermissionSubmit},
			{ClientID: expiredClient, Area: domain.AreaTaxFilings, Level: domain.PermissionSubmit, ExpiresAt: &past},
		}, nil)
	m.clientRepo.On("GetByID", mock.Anything, tenantID, activeClient).
		Return(&domain.Client{ID: activeClient, Name: "Acme Ltd"}, nil)

	delegated, err := svc.ListForAssociate(context.Background(), actor, actor.UserID, domain.AreaTaxFilings)

	assert.NoError(t, err)
	assert.Len(t, delegated, 1)
	assert.Equal(t, activeClient, delegated[0].Client.ID)
	m.clientRepo.AssertNotCalled(t, "GetByID", mock.Anything, tenantID, expiredClient)
}

func TestPermissionService_ListForAssociate_OtherAssociateForbidden(t *testing.T) {
	svc, _ := newPermissionService()
	actor := associateActor(uuid.New())

	_, err := svc.ListForAssociate(context.Background(), actor, uuid.New(), domain.AreaTaxFilings)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPermissionService_ListExpiringWithin_DefaultsWindow(t *testing.T) {
	svc, m := newPermissionService()
	tenantID := uuid.New()
	actor := adminActor(tenantID)

	m.permRepo.On("ListExpiringWithin", mock.Anything, tenantID, mock.MatchedBy(func(until time.Time) bool {
		// days<=0 falls back to 30
		earliest := time.Now().UTC().AddDate(0, 0, 29)
		latest := time.Now().UTC().AddDate(0, 0, 31)
		return until.After(earliest) && until.Before(latest)
	}), 0, 20).Return([]domain.AssociatePermission{}, 0, nil)

	_, _, err := svc.ListExpiringWithin(context.Background(), actor, 0, 1, 20)

	assert.NoError(t, err)
	m.permRepo.AssertExpectations(t)
}
