package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"taxdesk/internal/domain"
	"taxdesk/internal/port"
)

// GrantInput is the DTO for granting or updating a delegated permission.
type GrantInput struct {
	AssociateID uuid.UUID              `json:"associate_id" binding:"required"`
	ClientID    uuid.UUID              `json:"client_id" binding:"required"`
	Area        domain.PermissionArea  `json:"area" binding:"required"`
	Level       domain.PermissionLevel `json:"level" binding:"required"`
	ExpiresAt   *time.Time             `json:"expires_at"`
}

// DelegatedClient pairs a client with the level an associate holds over it.
type DelegatedClient struct {
	Client domain.Client          `json:"client"`
	Area   domain.PermissionArea  `json:"area"`
	Level  domain.PermissionLevel `json:"level"`
}

// PermissionService administers delegated permissions. All mutations are
// restricted to admin roles; a duplicate grant updates the existing row.
type PermissionService interface {
	Grant(ctx context.Context, actor domain.ActorContext, input GrantInput) (*domain.AssociatePermission, error)
	Revoke(ctx context.Context, actor domain.ActorContext, permissionID uuid.UUID) error
	Get(ctx context.Context, actor domain.ActorContext, permissionID uuid.UUID) (*domain.AssociatePermission, error)
	ListForAssociate(ctx context.Context, actor domain.ActorContext, associateID uuid.UUID, area domain.PermissionArea) ([]DelegatedClient, error)
	ListExpiringWithin(ctx context.Context, actor domain.ActorContext, days, page, pageSize int) ([]domain.AssociatePermission, int, error)
}

type permissionService struct {
	permRepo   port.AssociatePermissionRepository
	userRepo   port.UserRepository
	clientRepo port.ClientRepository
	sender     port.EmailSender
}

// NewPermissionService creates the permission administration service.
func NewPermissionService(
	permRepo port.AssociatePermissionRepository,
	userRepo port.UserRepository,
	clientRepo port.ClientRepository,
	sender port.EmailSender,
) PermissionService {
	return &permissionService{
		permRepo:   permRepo,
		userRepo:   userRepo,
		clientRepo: clientRepo,
		sender:     sender,
	}
}

func (s *permissionService) Grant(ctx context.Context, actor domain.ActorContext, input GrantInput) (*domain.AssociatePermission, error) {
	if !actor.Role.IsReviewer() {
		return nil, domain.ErrForbidden
	}
	if !domain.ValidPermissionAreas[input.Area] {
		return nil, domain.ErrInvalidArea
	}
	if !domain.ValidPermissionLevels[input.Level] {
		return nil, domain.ErrInvalidPermission
	}
	if actor.UserID == input.AssociateID {
		return nil, domain.ErrSelfGrant
	}
	if input.ExpiresAt != nil && !input.ExpiresAt.After(time.Now().UTC()) {
		return nil, fmt.Errorf("%w: expiry must be in the future", domain.ErrInvalidPermission)
	}

	associate, err := s.userRepo.GetByID(ctx, actor.TenantID, input.AssociateID)
	if err != nil {
		return nil, err
	}
	if associate.Role != domain.RoleAssociate {
		return nil, fmt.Errorf("%w: grants apply to associate users only", domain.ErrInvalidPermission)
	}
	client, err := s.clientRepo.GetByID(ctx, actor.TenantID, input.ClientID)
	if err != nil {
		return nil, err
	}

	perm := &domain.AssociatePermission{
		ID:          uuid.New(),
		TenantID:    actor.TenantID,
		AssociateID: input.AssociateID,
		ClientID:    input.ClientID,
		Area:        input.Area,
		Level:       input.Level,
		ExpiresAt:   input.ExpiresAt,
		GrantedBy:   actor.UserID,
	}
	if err := s.permRepo.Upsert(ctx, perm); err != nil {
		return nil, fmt.Errorf("permission.Grant: %w", err)
	}

	// Best effort; the grant stands even if the notice cannot be sent.
	if client.Email != "" {
		if err := s.sender.SendPermissionNotice(ctx, client.Email, client.Name, perm); err != nil {
			log.Printf("permission.Grant: notice send failed for client %s: %v", client.ID, err)
		}
	}
	return perm, nil
}

func (s *permissionService) Revoke(ctx context.Context, actor domain.ActorContext, permissionID uuid.UUID) error {
	if !actor.Role.IsReviewer() {
		return domain.ErrForbidden
	}
	return s.permRepo.Delete(ctx, actor.TenantID, permissionID)
}

func (s *permissionService) Get(ctx context.Context, actor domain.ActorContext, permissionID uuid.UUID) (*domain.AssociatePermission, error) {
	perm, err := s.permRepo.GetByID(ctx, actor.TenantID, permissionID)
	if err != nil {
		return nil, err
	}
	// Associates may inspect their own grants; everyone else needs admin.
	if !actor.Role.IsReviewer() && perm.AssociateID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	return perm, nil
}

func (s *permissionService) ListForAssociate(ctx context.Context, actor domain.ActorContext, associateID uuid.UUID, area domain.PermissionArea) ([]DelegatedClient, error) {
	if !actor.Role.IsReviewer() && actor.UserID != associateID {
		return nil, domain.ErrForbidden
	}
	if area != "" && !domain.ValidPermissionAreas[area] {
		return nil, domain.ErrInvalidArea
	}

	perms, err := s.permRepo.ListByAssociate(ctx, actor.TenantID, associateID, area)
	if err != nil {
		return nil, fmt.Errorf("permission.ListForAssociate: %w", err)
	}

	now := time.Now().UTC()
	out := make([]DelegatedClient, 0, len(perms))
	for i := range perms {
		p := &perms[i]
		if p.Expired(now) {
			continue
		}
		client, err := s.clientRepo.GetByID(ctx, actor.TenantID, p.ClientID)
		if err != nil {
			return nil, fmt.Errorf("permission.ListForAssociate: %w", err)
		}
		out = append(out, DelegatedClient{Client: *client, Area: p.Area, Level: p.Level})
	}
	return out, nil
}

func (s *permissionService) ListExpiringWithin(ctx context.Context, actor domain.ActorContext, days, page, pageSize int) ([]domain.AssociatePermission, int, error) {
	if !actor.Role.IsReviewer() {
		return nil, 0, domain.ErrForbidden
	}
	if days <= 0 {
		days = 30
	}
	until := time.Now().UTC().AddDate(0, 0, days)
	offset := (page - 1) * pageSize
	perms, total, err := s.permRepo.ListExpiringWithin(ctx, actor.TenantID, until, offset, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("permission.ListExpiringWithin: %w", err)
	}
	return perms, total, nil
}
