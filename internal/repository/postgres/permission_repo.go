package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taxdesk/internal/domain"
	"taxdesk/internal/port"
)

type permissionRepo struct {
	db *sqlx.DB
}

// NewPermissionRepo creates a new PostgreSQL-backed AssociatePermissionRepository.
func NewPermissionRepo(db *sqlx.DB) port.AssociatePermissionRepository {
	return &permissionRepo{db: db}
}

func (r *permissionRepo) Upsert(ctx context.Context, perm *domain.AssociatePermission) error {
	if perm.ID == uuid.Nil {
		perm.ID = uuid.New()
	}
	now := time.Now().UTC()
	perm.CreatedAt = now
	perm.UpdatedAt = now

	query := `INSERT INTO associate_permissions (
		id, tenant_id, associate_id, client_id, area, level, expires_at, granted_by, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (associate_id, client_id, area)
	DO UPDATE SET level = EXCLUDED.level, expires_at = EXCLUDED.expires_at,
		granted_by = EXCLUDED.granted_by, updated_at = EXCLUDED.updated_at`

	_, err := q(ctx, r.db).ExecContext(ctx, query,
		perm.ID, perm.TenantID, perm.AssociateID, perm.ClientID,
		perm.Area, perm.Level, perm.ExpiresAt, perm.GrantedBy,
		perm.CreatedAt, perm.UpdatedAt)
	if err != nil {
		return fmt.Errorf("permissionRepo.Upsert: %w", err)
	}
	return nil
}

func (r *permissionRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.AssociatePermission, error) {
	var perm domain.AssociatePermission
	err := q(ctx, r.db).GetContext(ctx, &perm,
		"SELECT * FROM associate_permissions WHERE id = $1 AND tenant_id = $2", id, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPermissionNotFound
		}
		return nil, fmt.Errorf("permissionRepo.GetByID: %w", err)
	}
	return &perm, nil
}

func (r *permissionRepo) ListFor(ctx context.Context, tenantID, associateID, clientID uuid.UUID, area domain.PermissionArea) ([]domain.AssociatePermission, error) {
	var perms []domain.AssociatePermission
	err := q(ctx, r.db).SelectContext(ctx, &perms,
		`SELECT * FROM associate_permissions
		 WHERE tenant_id = $1 AND associate_id = $2 AND client_id = $3 AND area = $4`,
		tenantID, associateID, clientID, area)
	if err != nil {
		return nil, fmt.Errorf("permissionRepo.ListFor: %w", err)
	}
	return perms, nil
}

func (r *permissionRepo) ListByAssociate(ctx context.Context, tenantID, associateID uuid.UUID, area domain.PermissionArea) ([]domain.AssociatePermission, error) {
	query := `SELECT * FROM associate_permissions
		 WHERE tenant_id = $1 AND associate_id = $2`
	args := []interface{}{tenantID, associateID}
	if area != "" {
		query += " AND area = $3"
		args = append(args, area)
	}
	query += " ORDER BY created_at ASC"

	var perms []domain.AssociatePermission
	err := q(ctx, r.db).SelectContext(ctx, &perms, query, args...)
	if err != nil {
		return nil, fmt.Errorf("permissionRepo.ListByAssociate: %w", err)
	}
	return perms, nil
}

// ListExpiringWithin returns grants with NOW() < expires_at <= until.
// Already-expired grants are excluded.
func (r *permissionRepo) ListExpiringWithin(ctx context.Context, tenantID uuid.UUID, until time.Time, offset, limit int) ([]domain.AssociatePermission, int, error) {
	var total int
	err := q(ctx, r.db).GetContext(ctx, &total,
		`SELECT COUNT(*) FROM associate_permissions
		 WHERE tenant_id = $1 AND expires_at > NOW() AND expires_at <= $2`,
		tenantID, until)
	if err != nil {
		return nil, 0, fmt.Errorf("permissionRepo.ListExpiringWithin count: %w", err)
	}

	var perms []domain.AssociatePermission
	err = q(ctx, r.db).SelectContext(ctx, &perms,
		`SELECT * FROM associate_permissions
		 WHERE tenant_id = $1 AND expires_at > NOW() AND expires_at <= $2
		 ORDER BY expires_at ASC LIMIT $3 OFFSET $4`,
		tenantID, until, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("permissionRepo.ListExpiringWithin: %w", err)
	}
	return perms, total, nil
}

func (r *permissionRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result, err := q(ctx, r.db).ExecContext(ctx,
		"DELETE FROM associate_permissions WHERE id = $1 AND tenant_id = $2", id, tenantID)
	if err != nil {
		return fmt.Errorf("permissionRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrPermissionNotFound
	}
	return nil
}
