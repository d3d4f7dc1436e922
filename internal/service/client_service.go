package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"taxdesk/internal/domain"
	"taxdesk/internal/port"
)

// CreateClientInput is the DTO for registering a client business.
type CreateClientInput struct {
	Name      string `json:"name" binding:"required"`
	TaxNumber string `json:"tax_number" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone"`
}

// UpdateClientInput is the DTO for updating a client business.
type UpdateClientInput struct {
	Name      *string `json:"name"`
	TaxNumber *string `json:"tax_number"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	IsActive  *bool   `json:"is_active"`
}

// ClientService manages the client business registry.
type ClientService interface {
	Create(ctx context.Context, actor domain.ActorContext, input CreateClientInput) (*domain.Client, error)
	Get(ctx context.Context, actor domain.ActorContext, clientID uuid.UUID) (*domain.Client, error)
	List(ctx context.Context, actor domain.ActorContext, search string, page, pageSize int) ([]domain.Client, int, error)
	Update(ctx context.Context, actor domain.ActorContext, clientID uuid.UUID, input UpdateClientInput) (*domain.Client, error)
	Delete(ctx context.Context, actor domain.ActorContext, clientID uuid.UUID) error
}

type clientService struct {
	clientRepo port.ClientRepository
	authz      AuthzService
}

// NewClientService creates the client registry service.
func NewClientService(clientRepo port.ClientRepository, authz AuthzService) ClientService {
	return &clientService{clientRepo: clientRepo, authz: authz}
}

func (s *clientService) Create(ctx context.Context, actor domain.ActorContext, input CreateClientInput) (*domain.Client, error) {
	if !actor.Role.IsReviewer() {
		return nil, domain.ErrForbidden
	}
	client := &domain.Client{
		ID:        uuid.New(),
		TenantID:  actor.TenantID,
		Name:      input.Name,
		TaxNumber: input.TaxNumber,
		Email:     input.Email,
		Phone:     input.Phone,
		IsActive:  true,
		CreatedBy: actor.UserID,
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("client.Create: %w", err)
	}
	return client, nil
}

func (s *clientService) Get(ctx context.Context, actor domain.ActorContext, clientID uuid.UUID) (*domain.Client, error) {
	decision, err := s.authz.Authorize(ctx, actor, clientID, domain.AreaTaxFilings, domain.PermissionRead)
	if err != nil {
		return nil, fmt.Errorf("client.Get: %w", err)
	}
	if !decision.Allowed {
		return nil, domain.ErrForbidden
	}
	return s.clientRepo.GetByID(ctx, actor.TenantID, clientID)
}

func (s *clientService) List(ctx context.Context, actor domain.ActorContext, search string, page, pageSize int) ([]domain.Client, int, error) {
	if !actor.Role.IsReviewer() && actor.Role != domain.RoleAssociate {
		return nil, 0, domain.ErrForbidden
	}
	offset := (page - 1) * pageSize
	clients, total, err := s.clientRepo.List(ctx, actor.TenantID, search, offset, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("client.List: %w", err)
	}
	return clients, total, nil
}

func (s *clientService) Update(ctx context.Context, actor domain.ActorContext, clientID uuid.UUID, input UpdateClientInput) (*domain.Client, error) {
	if !actor.Role.IsReviewer() {
		return nil, domain.ErrForbidden
	}
	client, err := s.clientRepo.GetByID(ctx, actor.TenantID, clientID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		client.Name = *input.Name
	}
	if input.TaxNumber != nil {
		client.TaxNumber = *input.TaxNumber
	}
	if input.Email != nil {
		client.Email = *input.Email
	}
	if input.Phone != nil {
		client.Phone = *input.Phone
	}
	if input.IsActive != nil {
		client.IsActive = *input.IsActive
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("client.Update: %w", err)
	}
	return client, nil
}

func (s *clientService) Delete(ctx context.Context, actor domain.ActorContext, clientID uuid.UUID) error {
	if !actor.Role.IsReviewer() {
		return domain.ErrForbidden
	}
	return s.clientRepo.Delete(ctx, actor.TenantID, clientID)
}
