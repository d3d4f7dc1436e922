package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"taxdesk/internal/domain"
	"taxdesk/internal/port"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// CreateTenantInput is the DTO for provisioning a practice.
type CreateTenantInput struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

// UpdateTenantInput is the DTO for updating a practice.
type UpdateTenantInput struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
}

// TenantService manages practice provisioning. All operations are restricted
// to system admins.
type TenantService interface {
	Create(ctx context.Context, actor domain.ActorContext, input CreateTenantInput) (*domain.Tenant, error)
	Get(ctx context.Context, actor domain.ActorContext, tenantID uuid.UUID) (*domain.Tenant, error)
	List(ctx context.Context, actor domain.ActorContext, page, pageSize int) ([]domain.Tenant, int, error)
	Update(ctx context.Context, actor domain.ActorContext, tenantID uuid.UUID, input UpdateTenantInput) (*domain.Tenant, error)
}

type tenantService struct {
	tenantRepo port.TenantRepository
}

// NewTenantService creates the tenant provisioning service.
func NewTenantService(tenantRepo port.TenantRepository) TenantService {
	return &tenantService{tenantRepo: tenantRepo}
}

func (s *tenantService) Create(ctx context.Context, actor domain.ActorContext, input CreateTenantInput) (*domain.Tenant, error) {
	if actor.Role != domain.RoleSystemAdmin {
		return nil, domain.ErrForbidden
	}
	if !slugPattern.MatchString(input.Slug) {
		return nil, fmt.Errorf("%w: slug must be lowercase alphanumeric with hyphens", domain.ErrDuplicateTenantSlug)
	}

	tenant := &domain.Tenant{
		ID:       uuid.New(),
		Name:     input.Name,
		Slug:     input.Slug,
		IsActive: true,
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

func (s *tenantService) Get(ctx context.Context, actor domain.ActorContext, tenantID uuid.UUID) (*domain.Tenant, error) {
	// Any member may read their own practice record.
	if actor.Role != domain.RoleSystemAdmin && actor.TenantID != tenantID {
		return nil, domain.ErrForbidden
	}
	return s.tenantRepo.GetByID(ctx, tenantID)
}

func (s *tenantService) List(ctx context.Context, actor domain.ActorContext, page, pageSize int) ([]domain.Tenant, int, error) {
	if actor.Role != domain.RoleSystemAdmin {
		return nil, 0, domain.ErrForbidden
	}
	offset := (page - 1) * pageSize
	tenants, total, err := s.tenantRepo.List(ctx, offset, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("tenant.List: %w", err)
	}
	return tenants, total, nil
}

func (s *tenantService) Update(ctx context.Context, actor domain.ActorContext, tenantID uuid.UUID, input UpdateTenantInput) (*domain.Tenant, error) {
	if actor.Role != domain.RoleSystemAdmin {
		return nil, domain.ErrForbidden
	}
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		tenant.Name = *input.Name
	}
	if input.IsActive != nil {
		tenant.IsActive = *input.IsActive
	}
	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}
