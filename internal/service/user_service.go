package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taxdesk/internal/domain"
	"taxdesk/internal/port"
)

// CreateUserInput is the DTO for creating a user in the practice.
type CreateUserInput struct {
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=8"`
	FullName string          `json:"full_name" binding:"required"`
	Role     domain.UserRole `json:"role" binding:"required"`
	ClientID *uuid.UUID      `json:"client_id"`
}

// UpdateUserInput is the DTO for updating a user.
type UpdateUserInput struct {
	FullName *string          `json:"full_name"`
	Role     *domain.UserRole `json:"role"`
	ClientID *uuid.UUID       `json:"client_id"`
	IsActive *bool            `json:"is_active"`
	Password *string          `json:"password"`
}

// UserService manages user accounts within a practice.
type UserService interface {
	Create(ctx context.Context, actor domain.ActorContext, input CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, actor domain.ActorContext, userID uuid.UUID) (*domain.User, error)
	List(ctx context.Context, actor domain.ActorContext, page, pageSize int) ([]domain.User, int, error)
	Update(ctx context.Context, actor domain.ActorContext, userID uuid.UUID, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, actor domain.ActorContext, userID uuid.UUID) error
}

type userService struct {
	userRepo   port.UserRepository
	clientRepo port.ClientRepository
}

// NewUserService creates the user management service.
func NewUserService(userRepo port.UserRepository, clientRepo port.ClientRepository) UserService {
	return &userService{userRepo: userRepo, clientRepo: clientRepo}
}

func validRole(role domain.UserRole) bool {
	switch role {
	case domain.RoleSystemAdmin, domain.RoleAdmin, domain.RoleAssociate, domain.RoleClient:
		return true
	}
	return false
}

func (s *userService) Create(ctx context.Context, actor domain.ActorContext, input CreateUserInput) (*domain.User, error) {
	if !actor.Role.IsReviewer() {
		return nil, domain.ErrForbidden
	}
	if !validRole(input.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrForbidden, input.Role)
	}
	// Only a system admin may mint another admin account.
	if input.Role.IsReviewer() && actor.Role != domain.RoleSystemAdmin {
		return nil, domain.ErrForbidden
	}
	if input.Role == domain.RoleClient {
		if input.ClientID == nil {
			return nil, fmt.Errorf("%w: client users require a client_id", domain.ErrClientNotFound)
		}
		if _, err := s.clientRepo.GetByID(ctx, actor.TenantID, *input.ClientID); err != nil {
			return nil, err
		}
	} else {
		input.ClientID = nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("user.Create: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		TenantID:     actor.TenantID,
		Email:        input.Email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Role:         input.Role,
		ClientID:     input.ClientID,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, actor domain.ActorContext, userID uuid.UUID) (*domain.User, error) {
	if !actor.Role.IsReviewer() && actor.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return s.userRepo.GetByID(ctx, actor.TenantID, userID)
}

func (s *userService) List(ctx context.Context, actor domain.ActorContext, page, pageSize int) ([]domain.User, int, error) {
	if !actor.Role.IsReviewer() {
		return nil, 0, domain.ErrForbidden
	}
	offset := (page - 1) * pageSize
	users, total, err := s.userRepo.List(ctx, actor.TenantID, offset, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("user.List: %w", err)
	}
	return users, total, nil
}

func (s *userService) Update(ctx context.Context, actor domain.ActorContext, userID uuid.UUID, input UpdateUserInput) (*domain.User, error) {
	if !actor.Role.IsReviewer() && actor.UserID != userID {
		return nil, domain.ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, actor.TenantID, userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	// Role and activation changes are admin-only even on your own account.
	if input.Role != nil {
		if !actor.Role.IsReviewer() {
			return nil, domain.ErrForbidden
		}
		if !validRole(*input.Role) {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrForbidden, *input.Role)
		}
		user.Role = *input.Role
	}
	if input.ClientID != nil {
		if !actor.Role.IsReviewer() {
			return nil, domain.ErrForbidden
		}
		if _, err := s.clientRepo.GetByID(ctx, actor.TenantID, *input.ClientID); err != nil {
			return nil, err
		}
		user.ClientID = input.ClientID
	}
	if input.IsActive != nil {
		if !actor.Role.IsReviewer() {
			return nil, domain.ErrForbidden
		}
		user.IsActive = *input.IsActive
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("user.Update: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, actor domain.ActorContext, userID uuid.UUID) error {
	if !actor.Role.IsReviewer() {
		return domain.ErrForbidden
	}
	if actor.UserID == userID {
		return fmt.Errorf("%w: cannot delete your own account", domain.ErrForbidden)
	}
	return s.userRepo.Delete(ctx, actor.TenantID, userID)
}
