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

type scheduleRepo struct {
	db *sqlx.DB
}

// NewScheduleRepo creates a new PostgreSQL-backed FilingScheduleRepository.
func NewScheduleRepo(db *sqlx.DB) port.FilingScheduleRepository {
	return &scheduleRepo{db: db}
}

func (r *scheduleRepo) ReplaceAll(ctx context.Context, tenantID, filingID uuid.UUID, schedules []domain.FilingSchedule) error {
	_, err := q(ctx, r.db).ExecContext(ctx,
		"DELETE FROM filing_schedules WHERE filing_id = $1 AND tenant_id = $2",
		filingID, tenantID)
	if err != nil {
		return fmt.Errorf("scheduleRepo.ReplaceAll delete: %w", err)
	}

	now := time.Now().UTC()
	for i := range schedules {
		s := &schedules[i]
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		s.FilingID = filingID
		s.TenantID = tenantID
		s.Position = i
		s.CreatedAt = now

		_, err := q(ctx, r.db).ExecContext(ctx,
			`INSERT INTO filing_schedules (
				id, filing_id, tenant_id, description, amount, taxable_amount, position, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			s.ID, s.FilingID, s.TenantID, s.Description, s.Amount, s.TaxableAmount, s.Position, s.CreatedAt)
		if err != nil {
			return fmt.Errorf("scheduleRepo.ReplaceAll insert: %w", err)
		}
	}
	return nil
}

func (r *scheduleRepo) ListByFiling(ctx context.Context, tenantID, filingID uuid.UUID) ([]domain.FilingSchedule, error) {
	var schedules []domain.FilingSchedule
	err := q(ctx, r.db).SelectContext(ctx, &schedules,
		`SELECT * FROM filing_schedules
		 WHERE filing_id = $1 AND tenant_id = $2
		 ORDER BY position ASC`,
		filingID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("scheduleRepo.ListByFiling: %w", err)
	}
	return schedules, nil
}
