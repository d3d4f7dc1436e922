package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taxdesk/internal/domain"
	"taxdesk/internal/port"
)

type filingRepo struct {
	db *sqlx.DB
}

// NewFilingRepo creates a new PostgreSQL-backed FilingRepository.
func NewFilingRepo(db *sqlx.DB) port.FilingRepository {
	return &filingRepo{db: db}
}

func (r *filingRepo) Create(ctx context.Context, f *domain.TaxFiling) error {
	now := time.Now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now

	query := `INSERT INTO tax_filings (
		id, tenant_id, client_id, tax_type, tax_year, period,
		declared_amount, taxable_amount, computed_tax, status,
		submitted_by, submitted_at, reviewed_by, reviewed_at, review_comments,
		authority_status, authority_ref, transmitted_at,
		created_by, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8, $9, $10,
		$11, $12, $13, $14, $15,
		$16, $17, $18,
		$19, $20, $21
	)`

	_, err := q(ctx, r.db).ExecContext(ctx, query,
		f.ID, f.TenantID, f.ClientID, f.TaxType, f.TaxYear, f.Period,
		f.DeclaredAmount, f.TaxableAmount, f.ComputedTax, f.Status,
		f.SubmittedBy, f.SubmittedAt, f.ReviewedBy, f.ReviewedAt, f.ReviewComments,
		f.AuthorityStatus, f.AuthorityRef, f.TransmittedAt,
		f.CreatedBy, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("filingRepo.Create: %w", err)
	}
	return nil
}

func (r *filingRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.TaxFiling, error) {
	var f domain.TaxFiling
	err := q(ctx, r.db).GetContext(ctx, &f,
		"SELECT * FROM tax_filings WHERE id = $1 AND tenant_id = $2", id, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFilingNotFound
		}
		return nil, fmt.Errorf("filingRepo.GetByID: %w", err)
	}
	return &f, nil
}

// buildFilingWhere constructs a dynamic WHERE clause for filing list queries.
func buildFilingWhere(tenantID uuid.UUID, filter port.FilingFilter) (clause string, args []interface{}) {
	args = []interface{}{tenantID}
	clause = "WHERE f.tenant_id = $1"
	argN := 2

	if filter.ClientID != nil {
		clause += fmt.Sprintf(" AND f.client_id = $%d", argN)
		args = append(args, *filter.ClientID)
		argN++
	}
	if filter.ClientIDs != nil {
		placeholders := make([]string, len(filter.ClientIDs))
		for i, id := range filter.ClientIDs {
			placeholders[i] = fmt.Sprintf("$%d", argN)
			args = append(args, id)
			argN++
		}
		if len(placeholders) == 0 {
			clause += " AND FALSE"
		} else {
			clause += " AND f.client_id IN (" + strings.Join(placeholders, ", ") + ")"
		}
	}
	if filter.TaxType != nil {
		clause += fmt.Sprintf(" AND f.tax_type = $%d", argN)
		args = append(args, *filter.TaxType)
		argN++
	}
	if filter.Status != nil {
		clause += fmt.Sprintf(" AND f.status = $%d", argN)
		args = append(args, *filter.Status)
		argN++
	}
	if filter.TaxYear != nil {
		clause += fmt.Sprintf(" AND f.tax_year = $%d", argN)
		args = append(args, *filter.TaxYear)
		argN++
	}
	if filter.Search != "" {
		clause += fmt.Sprintf(" AND f.period ILIKE $%d", argN)
		args = append(args, "%"+filter.Search+"%")
		argN++ //nolint:ineffassign // argN kept incremented for consistency
	}

	return clause, args
}

func (r *filingRepo) List(ctx context.Context, tenantID uuid.UUID, filter port.FilingFilter, offset, limit int) ([]domain.TaxFiling, int, error) {
	clause, args := buildFilingWhere(tenantID, filter)

	var total int
	err := q(ctx, r.db).GetContext(ctx, &total,
		"SELECT COUNT(*) FROM tax_filings f "+clause, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("filingRepo.List count: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT f.* FROM tax_filings f %s ORDER BY f.created_at DESC LIMIT $%d OFFSET $%d",
		clause, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var filings []domain.TaxFiling
	err = q(ctx, r.db).SelectContext(ctx, &filings, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("filingRepo.List: %w", err)
	}
	return filings, total, nil
}

func (r *filingRepo) Update(ctx context.Context, f *domain.TaxFiling) error {
	f.UpdatedAt = time.Now().UTC()
	result, err := q(ctx, r.db).ExecContext(ctx,
		`UPDATE tax_filings SET
			tax_type = $1, tax_year = $2, period = $3,
			declared_amount = $4, taxable_amount = $5, computed_tax = $6,
			updated_at = $7
		 WHERE id = $8 AND tenant_id = $9`,
		f.TaxType, f.TaxYear, f.Period,
		f.DeclaredAmount, f.TaxableAmount, f.ComputedTax,
		f.UpdatedAt, f.ID, f.TenantID)
	if err != nil {
		return fmt.Errorf("filingRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrFilingNotFound
	}
	return nil
}

func (r *filingRepo) UpdateStatus(ctx context.Context, f *domain.TaxFiling) error {
	f.UpdatedAt = time.Now().UTC()
	result, err := q(ctx, r.db).ExecContext(ctx,
		`UPDATE tax_filings SET
			status = $1, submitted_by = $2, submitted_at = $3,
			reviewed_by = $4, reviewed_at = $5, review_comments = $6,
			updated_at = $7
		 WHERE id = $8 AND tenant_id = $9`,
		f.Status, f.SubmittedBy, f.SubmittedAt,
		f.ReviewedBy, f.ReviewedAt, f.ReviewComments,
		f.UpdatedAt, f.ID, f.TenantID)
	if err != nil {
		return fmt.Errorf("filingRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrFilingNotFound
	}
	return nil
}

func (r *filingRepo) UpdateAuthority(ctx context.Context, f *domain.TaxFiling) error {
	f.UpdatedAt = time.Now().UTC()
	result, err := q(ctx, r.db).ExecContext(ctx,
		`UPDATE tax_filings SET
			authority_status = $1, authority_ref = $2, transmitted_at = $3,
			updated_at = $4
		 WHERE id = $5 AND tenant_id = $6`,
		f.AuthorityStatus, f.AuthorityRef, f.TransmittedAt,
		f.UpdatedAt, f.ID, f.TenantID)
	if err != nil {
		return fmt.Errorf("filingRepo.UpdateAuthority: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrFilingNotFound
	}
	return nil
}

func (r *filingRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result, err := q(ctx, r.db).ExecContext(ctx,
		"DELETE FROM tax_filings WHERE id = $1 AND tenant_id = $2", id, tenantID)
	if err != nil {
		return fmt.Errorf("filingRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrFilingNotFound
	}
	return nil
}
