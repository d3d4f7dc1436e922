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

type workerMocks struct {
	actionRepo *mocks.MockOnBehalfRepo
	clientRepo *mocks.MockClientRepo
	userRepo   *mocks.MockUserRepo
	sender     *mocks.MockEmailSender
}

func newNotifyWorker() (*service.NotifyWorker, *workerMocks) {
	m := &workerMocks{
		actionRepo: new(mocks.MockOnBehalfRepo),
		clientRepo: new(mocks.MockClientRepo),
		userRepo:   new(mocks.MockUserRepo),
		sender:     new(mocks.MockEmailSender),
	}
	worker := service.NewNotifyWorker(m.actionRepo, m.clientRepo, m.userRepo, m.sender, service.NotifyWorkerConfig{
		PollInterval: 10 * time.Millisecond,
		BatchSize:    10,
		Concurrency:  2,
	})
	return worker, m
}

func unnotifiedAction(tenantID uuid.UUID) domain.OnBehalfAction {
	return domain.OnBehalfAction{
		ID:          uuid.New(),
		TenantID:    tenantID,
		AssociateID: uuid.New(),
		ClientID:    uuid.New(),
		Action:      domain.ActionUpdate,
		EntityType:  domain.EntityTaxFiling,
		EntityID:    uuid.New(),
	}
}

func runWorkerUntil(t *testing.T, worker *service.NotifyWorker, done chan struct{}) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(stopped)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for worker to process action")
	}
	cancel()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for worker to stop")
	}
}

func TestNotifyWorker_SendsNoticeAndMarksNotified(t *testing.T) {
	worker, m := newNotifyWorker()

	tenantID := uuid.New()
	action := unnotifiedAction(tenantID)
	client := &domain.Client{ID: action.ClientID, TenantID: tenantID, Name: "Acme Ltd", Email: "owner@acme.test"}
	associate := &domain.User{ID: action.AssociateID, TenantID: tenantID, FullName: "Priya Sharma"}

	done := make(chan struct{})

	m.actionRepo.On("ListUnnotified", mock.Anything, 10).Return([]domain.OnBehalfAction{action}, nil).Once()
	m.actionRepo.On("ListUnnotified", mock.Anything, 10).Return([]domain.OnBehalfAction{}, nil)
	m.clientRepo.On("GetByID", mock.Anything, tenantID, action.ClientID).Return(client, nil)
	m.userRepo.On("GetByID", mock.Anything, tenantID, action.AssociateID).Return(associate, nil)
	m.sender.On("SendOnBehalfNotice", mock.Anything, "owner@acme.test", "Acme Ltd", "Priya Sharma", mock.MatchedBy(func(a *domain.OnBehalfAction) bool {
		return a.ID == action.ID
	})).Return(nil)
	m.actionRepo.On("MarkNotified", mock.Anything, action.ID, mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) { close(done) }).
		Return(nil)

	runWorkerUntil(t, worker, done)

	m.sender.AssertExpectations(t)
	m.actionRepo.AssertExpectations(t)
}

func TestNotifyWorker_MarksNotifiedWhenClientHasNoEmail(t *testing.T) {
	worker, m := newNotifyWorker()

	tenantID := uuid.New()
	action := unnotifiedAction(tenantID)
	client := &domain.Client{ID: action.ClientID, TenantID: tenantID, Name: "No Mail Ltd", Email: ""}

	done := make(chan struct{})

	m.actionRepo.On("ListUnnotified", mock.Anything, 10).Return([]domain.OnBehalfAction{action}, nil).Once()
	m.actionRepo.On("ListUnnotified", mock.Anything, 10).Return([]domain.OnBehalfAction{}, nil)
	m.clientRepo.On("GetByID", mock.Anything, tenantID, action.ClientID).Return(client, nil)
	m.actionRepo.On("MarkNotified", mock.Anything, action.ID, mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) { close(done) }).
		Return(nil)

	runWorkerUntil(t, worker, done)

	m.sender.AssertNotCalled(t, "SendOnBehalfNotice",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.actionRepo.AssertExpectations(t)
}

func TestNotifyWorker_SendFailureLeavesActionUnnotified(t *testing.T) {
	worker, m := newNotifyWorker()

	tenantID := uuid.New()
	action := unnotifiedAction(tenantID)
	client := &domain.Client{ID: action.ClientID, TenantID: tenantID, Name: "Acme Ltd", Email: "owner@acme.test"}
	associate := &domain.User{ID: action.AssociateID, TenantID: tenantID, FullName: "Priya Sharma"}

	done := make(chan struct{})

	m.actionRepo.On("ListUnnotified", mock.Anything, 10).Return([]domain.OnBehalfAction{action}, nil).Once()
	m.actionRepo.On("ListUnnotified", mock.Anything, 10).Return([]domain.OnBehalfAction{}, nil)
	m.clientRepo.On("GetByID", mock.Anything, tenantID, action.ClientID).Return(client, nil)
	m.userRepo.On("GetByID", mock.Anything, tenantID, action.AssociateID).Return(associate, nil)
	m.sender.On("SendOnBehalfNotice", mock.Anything, "owner@acme.test", "Acme Ltd", "Priya Sharma", mock.Anything).
		Run(func(args mock.Arguments) { close(done) }).
		Return(assert.AnError)

	runWorkerUntil(t, worker, done)

	m.actionRepo.AssertNotCalled(t, "MarkNotified", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotifyWorker_FallsBackOnAssociateName(t *testing.T) {
	worker, m := newNotifyWorker()

	tenantID := uuid.New()
	action := unnotifiedAction(tenantID)
	client := &domain.Client{ID: action.ClientID, TenantID: tenantID, Name: "Acme Ltd", Email: "owner@acme.test"}

	done := make(chan struct{})

	m.actionRepo.On("ListUnnotified", mock.Anything, 10).Return([]domain.OnBehalfAction{action}, nil).Once()
	m.actionRepo.On("ListUnnotified", mock.Anything, 10).Return([]domain.OnBehalfAction{}, nil)
	m.clientRepo.On("GetByID", mock.Anything, tenantID, action.ClientID).Return(client, nil)
	m.userRepo.On("GetByID", mock.Anything, tenantID, action.AssociateID).Return(nil, assert.AnError)
	m.sender.On("SendOnBehalfNotice", mock.Anything, "owner@acme.test", "Acme Ltd", "an associate", mock.Anything).
		Return(nil)
	m.actionRepo.On("MarkNotified", mock.Anything, action.ID, mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) { close(done) }).
		Return(nil)

	runWorkerUntil(t, worker, done)

	m.sender.AssertExpectations(t)
}
