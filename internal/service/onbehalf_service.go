package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"taxdesk/internal/domain"
	"taxdesk/internal/port"
)

// RecordActionInput captures one associate-initiated mutation for the audit
// log. Before and After hold JSON snapshots of the touched entity.
type RecordActionInput struct {
	ClientID   uuid.UUID
	Action     domain.ActionVerb
	EntityType domain.EntityType
	EntityID   uuid.UUID
	Before     interface{}
	After      interface{}
	Reason     string
	Meta       domain.RequestMeta
}

// OnBehalfService is the append-only on-behalf action log. Record is called
// inside the same transaction as the mutation it describes.
type OnBehalfService interface {
	Record(ctx context.Context, actor domain.ActorContext, input RecordActionInput) (uuid.UUID, error)
	List(ctx context.Context, actor domain.ActorContext, filter port.OnBehalfFilter, page, pageSize int) ([]domain.OnBehalfAction, int, error)
	CountByAction(ctx context.Context, actor domain.ActorContext, filter port.OnBehalfFilter) ([]domain.OnBehalfActionCount, error)
}

type onBehalfService struct {
	actionRepo port.OnBehalfActionRepository
}

// NewOnBehalfService creates the on-behalf action log service.
func NewOnBehalfService(actionRepo port.OnBehalfActionRepository) OnBehalfService {
	return &onBehalfService{actionRepo: actionRepo}
}

func (s *onBehalfService) Record(ctx context.Context, actor domain.ActorContext, input RecordActionInput) (uuid.UUID, error) {
	before, err := marshalSnapshot(input.Before)
	if err != nil {
		return uuid.Nil, fmt.Errorf("onbehalf.Record before: %w", err)
	}
	after, err := marshalSnapshot(input.After)
	if err != nil {
		return uuid.Nil, fmt.Errorf("onbehalf.Record after: %w", err)
	}

	action := &domain.OnBehalfAction{
		ID:          uuid.New(),
		TenantID:    actor.TenantID,
		AssociateID: actor.UserID,
		ClientID:    input.ClientID,
		Action:      input.Action,
		EntityType:  input.EntityType,
		EntityID:    input.EntityID,
		BeforeState: before,
		AfterState:  after,
		Reason:      input.Reason,
		IPAddress:   input.Meta.IPAddress,
		UserAgent:   input.Meta.UserAgent,
	}
	if err := s.actionRepo.Create(ctx, action); err != nil {
		return uuid.Nil, fmt.Errorf("onbehalf.Record: %w", err)
	}
	return action.ID, nil
}

func (s *onBehalfService) List(ctx context.Context, actor domain.ActorContext, filter port.OnBehalfFilter, page, pageSize int) ([]domain.OnBehalfAction, int, error) {
	if !actor.Role.IsReviewer() {
		// Associates see only their own trail; clients only actions
		// taken against them.
		switch actor.Role {
		case domain.RoleAssociate:
			filter.AssociateID = &actor.UserID
		case domain.RoleClient:
			if actor.ClientID == nil {
				return nil, 0, domain.ErrForbidden
			}
			filter.ClientID = actor.ClientID
		default:
			return nil, 0, domain.ErrForbidden
		}
	}

	offset := (page - 1) * pageSize
	actions, total, err := s.actionRepo.List(ctx, actor.TenantID, filter, offset, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("onbehalf.List: %w", err)
	}
	return actions, total, nil
}

func (s *onBehalfService) CountByAction(ctx context.Context, actor domain.ActorContext, filter port.OnBehalfFilter) ([]domain.OnBehalfActionCount, error) {
	if !actor.Role.IsReviewer() {
		return nil, domain.ErrForbidden
	}
	counts, err := s.actionRepo.CountByAction(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("onbehalf.CountByAction: %w", err)
	}
	return counts, nil
}

func marshalSnapshot(v interface{}) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return raw, nil
}
