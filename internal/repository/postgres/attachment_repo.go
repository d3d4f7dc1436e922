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

type attachmentRepo struct {
	db *sqlx.DB
}

// NewAttachmentRepo creates a new PostgreSQL-backed FilingAttachmentRepository.
func NewAttachmentRepo(db *sqlx.DB) port.FilingAttachmentRepository {
	return &attachmentRepo{db: db}
}

func (r *attachmentRepo) Create(ctx context.Context, att *domain.FilingAttachment) error {
	if att.ID == uuid.Nil {
		att.ID = uuid.New()
	}
	att.CreatedAt = time.Now().UTC()

	_, err := q(ctx, r.db).ExecContext(ctx,
		`INSERT INTO filing_attachments (
			id, filing_id, tenant_id, uploaded_by, file_name, original_name,
			file_type, file_size, s3_bucket, s3_key, content_type, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		att.ID, att.FilingID, att.TenantID, att.UploadedBy, att.FileName, att.OriginalName,
		att.FileType, att.FileSize, att.S3Bucket, att.S3Key, att.ContentType, att.CreatedAt)
	if err != nil {
		return fmt.Errorf("attachmentRepo.Create: %w", err)
	}
	return nil
}

func (r *attachmentRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.FilingAttachment, error) {
	var att domain.FilingAttachment
	err := q(ctx, r.db).GetContext(ctx, &att,
		"SELECT * FROM filing_attachments WHERE id = $1 AND tenant_id = $2", id, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("attachmentRepo.GetByID: %w", err)
	}
	return &att, nil
}

func (r *attachmentRepo) ListByFiling(ctx context.Context, tenantID, filingID uuid.UUID) ([]domain.FilingAttachment, error) {
	var atts []domain.FilingAttachment
	err := q(ctx, r.db).SelectContext(ctx, &atts,
		`SELECT * FROM filing_attachments
		 WHERE filing_id = $1 AND tenant_id = $2
		 ORDER BY created_at ASC`,
		filingID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("attachmentRepo.ListByFiling: %w", err)
	}
	return atts, nil
}

func (r *attachmentRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result, err := q(ctx, r.db).ExecContext(ctx,
		"DELETE FROM filing_attachments WHERE id = $1 AND tenant_id = $2", id, tenantID)
	if err != nil {
		return fmt.Errorf("attachmentRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
