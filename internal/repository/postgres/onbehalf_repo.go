package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taxdesk/internal/domain"
	"taxdesk/internal/port"
)

type onBehalfRepo struct {
	db *sqlx.DB
}

// NewOnBehalfRepo creates a new PostgreSQL-backed OnBehalfActionRepository.
func NewOnBehalfRepo(db *sqlx.DB) port.OnBehalfActionRepository {
	return &onBehalfRepo{db: db}
}

func (r *onBehalfRepo) Create(ctx context.Context, a *domain.OnBehalfAction) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now().UTC()

	query := `INSERT INTO on_behalf_actions (
		id, tenant_id, associate_id, client_id, action, entity_type, entity_id,
		before_state, after_state, reason, ip_address, user_agent,
		client_notified, notified_at, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7,
		$8, $9, $10, $11, $12,
		$13, $14, $15
	)`

	_, err := q(ctx, r.db).ExecContext(ctx, query,
		a.ID, a.TenantID, a.AssociateID, a.ClientID, a.Action, a.EntityType, a.EntityID,
		a.BeforeState, a.AfterState, a.Reason, a.IPAddress, a.UserAgent,
		a.ClientNotified, a.NotifiedAt, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("onBehalfRepo.Create: %w", err)
	}
	return nil
}

// buildOnBehalfWhere constructs a dynamic WHERE clause for action log queries.
func buildOnBehalfWhere(tenantID uuid.UUID, filter port.OnBehalfFilter) (clause string, args []interface{}) {
	args = []interface{}{tenantID}
	clause = "WHERE a.tenant_id = $1"
	argN := 2

	if filter.AssociateID != nil {
		clause += fmt.Sprintf(" AND a.associate_id = $%d", argN)
		args = append(args, *filter.AssociateID)
		argN++
	}
	if filter.ClientID != nil {
		clause += fmt.Sprintf(" AND a.client_id = $%d", argN)
		args = append(args, *filter.ClientID)
		argN++
	}
	if filter.From != nil {
		clause += fmt.Sprintf(" AND a.created_at >= $%d", argN)
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		clause += fmt.Sprintf(" AND a.created_at <= $%d", argN)
		args = append(args, *filter.To)
		argN++ //nolint:ineffassign // argN kept incremented for consistency
	}

	return clause, args
}

func (r *onBehalfRepo) List(ctx context.Context, tenantID uuid.UUID, filter port.OnBehalfFilter, offset, limit int) ([]domain.OnBehalfAction, int, error) {
	clause, args := buildOnBehalfWhere(tenantID, filter)

	var total int
	err := q(ctx, r.db).GetContext(ctx, &total,
		"SELECT COUNT(*) FROM on_behalf_actions a "+clause, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("onBehalfRepo.List count: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT a.* FROM on_behalf_actions a %s ORDER BY a.created_at DESC LIMIT $%d OFFSET $%d",
		clause, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var actions []domain.OnBehalfAction
	err = q(ctx, r.db).SelectContext(ctx, &actions, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("onBehalfRepo.List: %w", err)
	}
	return actions, total, nil
}

func (r *onBehalfRepo) CountByAction(ctx context.Context, tenantID uuid.UUID, filter port.OnBehalfFilter) ([]domain.OnBehalfActionCount, error) {
	clause, args := buildOnBehalfWhere(tenantID, filter)

	query := `SELECT a.action, a.entity_type, COUNT(*) AS count
		 FROM on_behalf_actions a ` + clause + `
		 GROUP BY a.action, a.entity_type
		 ORDER BY count DESC`

	var counts []domain.OnBehalfActionCount
	err := q(ctx, r.db).SelectContext(ctx, &counts, query, args...)
	if err != nil {
		return nil, fmt.Errorf("onBehalfRepo.CountByAction: %w", err)
	}
	return counts, nil
}

func (r *onBehalfRepo) ListUnnotified(ctx context.Context, limit int) ([]domain.OnBehalfAction, error) {
	var actions []domain.OnBehalfAction
	err := q(ctx, r.db).SelectContext(ctx, &actions,
		`SELECT * FROM on_behalf_actions
		 WHERE client_notified = FALSE
		 ORDER BY created_at ASC LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("onBehalfRepo.ListUnnotified: %w", err)
	}
	return actions, nil
}

func (r *onBehalfRepo) MarkNotified(ctx context.Context, id uuid.UUID, at time.Time) error {
	result, err := q(ctx, r.db).ExecContext(ctx,
		"UPDATE on_behalf_actions SET client_notified = TRUE, notified_at = $1 WHERE id = $2",
		at, id)
	if err != nil {
		return fmt.Errorf("onBehalfRepo.MarkNotified: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
