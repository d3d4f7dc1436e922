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

type clientRepo struct {
	db *sqlx.DB
}

// NewClientRepo creates a new PostgreSQL-backed ClientRepository.
func NewClientRepo(db *sqlx.DB) port.ClientRepository {
	return &clientRepo{db: db}
}

func (r *clientRepo) Create(ctx context.Context, c *domain.Client) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := q(ctx, r.db).ExecContext(ctx,
		`INSERT INTO clients (id, tenant_id, name, tax_number, email, phone, is_active, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.TenantID, c.Name, c.TaxNumber, c.Email, c.Phone,
		c.IsActive, c.CreatedBy, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("clientRepo.Create: %w", err)
	}
	return nil
}

func (r *clientRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Client, error) {
	var c domain.Client
	err := q(ctx, r.db).GetContext(ctx, &c,
		"SELECT * FROM clients WHERE id = $1 AND tenant_id = $2", id, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("clientRepo.GetByID: %w", err)
	}
	return &c, nil
}

func (r *clientRepo) List(ctx context.Context, tenantID uuid.UUID, search string, offset, limit int) ([]domain.Client, int, error) {
	clause := "WHERE tenant_id = $1"
	args := []interface{}{tenantID}
	if search != "" {
		clause += " AND (name ILIKE $2 OR tax_number ILIKE $2)"
		args = append(args, "%"+search+"%")
	}

	var total int
	err := q(ctx, r.db).GetContext(ctx, &total,
		"SELECT COUNT(*) FROM clients "+clause, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("clientRepo.List count: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT * FROM clients %s ORDER BY name ASC LIMIT $%d OFFSET $%d",
		clause, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var clients []domain.Client
	err = q(ctx, r.db).SelectContext(ctx, &clients, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("clientRepo.List: %w", err)
	}
	return clients, total, nil
}

func (r *clientRepo) Update(ctx context.Context, c *domain.Client) error {
	c.UpdatedAt = time.Now().UTC()
	result, err := q(ctx, r.db).ExecContext(ctx,
		`UPDATE clients SET name = $1, tax_number = $2, email = $3, phone = $4,
			is_active = $5, updated_at = $6
		 WHERE id = $7 AND tenant_id = $8`,
		c.Name, c.TaxNumber, c.Email, c.Phone, c.IsActive, c.UpdatedAt,
		c.ID, c.TenantID)
	if err != nil {
		return fmt.Errorf("clientRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *clientRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result, err := q(ctx, r.db).ExecContext(ctx,
		"DELETE FROM clients WHERE id = $1 AND tenant_id = $2", id, tenantID)
	if err != nil {
		return fmt.Errorf("clientRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}
