package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taxdesk/internal/domain"
	"taxdesk/internal/port"
)

// DecisionSource names which rule authorized a request.
const (
	SourceRole      = "role"
	SourceSelf      = "self"
	SourceDelegated = "delegated"
)

// Decision is the outcome of an authorization check. Level carries the
// effective permission level that was resolved for the actor.
type Decision struct {
	Allowed bool                   `json:"allowed"`
	Level   domain.PermissionLevel `json:"level,omitempty"`
	Source  string                 `json:"source,omitempty"`
}

// AuthzService resolves whether an actor may act on a client's data within a
// functional area at a required permission level. The check is a pure
// decision; callers log denials and enforce the result.
type AuthzService interface {
	Authorize(ctx context.Context, actor domain.ActorContext, clientID uuid.UUID, area domain.PermissionArea, required domain.PermissionLevel) (*Decision, error)
}

type authzService struct {
	permRepo port.AssociatePermissionRepository
}

// NewAuthzService creates the authorization gate.
func NewAuthzService(permRepo port.AssociatePermissionRepository) AuthzService {
	return &authzService{permRepo: permRepo}
}

func (s *authzService) Authorize(ctx context.Context, actor domain.ActorContext, clientID uuid.UUID, area domain.PermissionArea, required domain.PermissionLevel) (*Decision, error) {
	if domain.PermissionRank(required) == 0 {
		return nil, domain.ErrInvalidPermission
	}

	// Admins act on any client in their tenant; role supersedes delegation.
	if actor.Role == domain.RoleAdmin || actor.Role == domain.RoleSystemAdmin {
		return &Decision{Allowed: true, Level: domain.PermissionSubmit, Source: SourceRole}, nil
	}

	// A client acts on their own data at full level.
	if actor.Role == domain.RoleClient {
		if actor.IsClientFor(clientID) {
			return &Decision{Allowed: true, Level: domain.PermissionSubmit, Source: SourceSelf}, nil
		}
		return &Decision{Allowed: false}, nil
	}

	if actor.Role != domain.RoleAssociate {
		return &Decision{Allowed: false}, nil
	}

	perms, err := s.permRepo.ListFor(ctx, actor.TenantID, actor.UserID, clientID, area)
	if err != nil {
		return nil, fmt.Errorf("authz.Authorize: %w", err)
	}

	// The uniqueness constraint should leave at most one row; if duplicates
	// exist the highest unexpired level wins.
	now := time.Now().UTC()
	effective := domain.PermissionLevel("")
	for i := range perms {
		p := &perms[i]
		if p.Expired(now) {
			continue
		}
		if domain.PermissionRank(p.Level) > domain.PermissionRank(effective) {
			effective = p.Level
		}
	}

	if effective == "" {
		return &Decision{Allowed: false}, nil
	}
	if domain.PermissionRank(effective) < domain.PermissionRank(required) {
		return &Decision{Allowed: false, Level: effective, Source: SourceDelegated}, nil
	}
	return &Decision{Allowed: true, Level: effective, Source: SourceDelegated}, nil
}
