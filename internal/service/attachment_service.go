package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"taxdesk/internal/config"
	"taxdesk/internal/domain"
	"taxdesk/internal/port"
)

// AttachmentUploadInput is the DTO for attachment upload requests.
type AttachmentUploadInput struct {
	FilingID uuid.UUID
	File     multipart.File
	Header   *multipart.FileHeader
	Reason   string
	Meta     domain.RequestMeta
}

// AttachmentService manages supporting documents uploaded against filings.
// Uploads and deletions are allowed only while the filing is in draft.
type AttachmentService interface {
	Upload(ctx context.Context, actor domain.ActorContext, input AttachmentUploadInput) (*domain.FilingAttachment, error)
	List(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID) ([]domain.FilingAttachment, error)
	GetDownloadURL(ctx context.Context, actor domain.ActorContext, attachmentID uuid.UUID) (string, error)
	Delete(ctx context.Context, actor domain.ActorContext, attachmentID uuid.UUID) error
}

type attachmentService struct {
	attachmentRepo port.FilingAttachmentRepository
	filingRepo     port.FilingRepository
	authz          AuthzService
	audit          OnBehalfService
	tx             port.TxManager
	storage        port.ObjectStorage
	cfg            *config.S3Config
}

// NewAttachmentService creates the filing attachment service.
func NewAttachmentService(
	attachmentRepo port.FilingAttachmentRepository,
	filingRepo port.FilingRepository,
	authz AuthzService,
	audit OnBehalfService,
	tx port.TxManager,
	storage port.ObjectStorage,
	cfg *config.S3Config,
) AttachmentService {
	return &attachmentService{
		attachmentRepo: attachmentRepo,
		filingRepo:     filingRepo,
		authz:          authz,
		audit:          audit,
		tx:             tx,
		storage:        storage,
		cfg:            cfg,
	}
}

func (s *attachmentService) requireLevel(ctx context.Context, actor domain.ActorContext, clientID uuid.UUID, required domain.PermissionLevel) error {
	decision, err := s.authz.Authorize(ctx, actor, clientID, domain.AreaDocuments, required)
	if err != nil {
		return fmt.Errorf("attachment.authorize: %w", err)
	}
	if !decision.Allowed {
		return domain.ErrForbidden
	}
	return nil
}

func (s *attachmentService) Upload(ctx context.Context, actor domain.ActorContext, input AttachmentUploadInput) (*domain.FilingAttachment, error) {
	filing, err := s.filingRepo.GetByID(ctx, actor.TenantID, input.FilingID)
	if err != nil {
		return nil, err
	}
	if err := s.requireLevel(ctx, actor, filing.ClientID, domain.PermissionUpdate); err != nil {
		return nil, err
	}
	if filing.Status != domain.FilingStatusDraft {
		return nil, domain.NewInvalidState("attach to", filing.Status, domain.FilingStatusDraft)
	}

	// Validate file extension
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	// Validate file size
	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// Read first 512 bytes for magic-byte content type detection
	buf := make([]byte, 512)
	n, err := input.File.Read(buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading file header: %w", err)
	}
	detectedType := http.DetectContentType(buf[:n])
	if _, validContent := domain.AllowedContentTypes[detectedType]; !validContent {
		return nil, domain.ErrUnsupportedFileType
	}

	// Seek back to beginning for upload
	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking file: %w", err)
	}

	attachmentID := uuid.New()
	s3Key := fmt.Sprintf("tenants/%s/filings/%s/%s", actor.TenantID, filing.ID, attachmentID)
	contentType := domain.FileContentTypes[fileType]

	att := &domain.FilingAttachment{
		ID:           attachmentID,
		FilingID:     filing.ID,
		TenantID:     actor.TenantID,
		UploadedBy:   actor.UserID,
		FileName:     attachmentID.String() + "." + ext,
		OriginalName: input.Header.Filename,
		FileType:     fileType,
		FileSize:     input.Header.Size,
		S3Bucket:     s.cfg.Bucket,
		S3Key:        s3Key,
		ContentType:  contentType,
	}

	log.Printf("attachmentService.Upload: uploading %s (%s, %d bytes) against filing %s",
		input.Header.Filename, contentType, input.Header.Size, filing.ID)

	// Upload to S3 first; metadata and audit commit together afterwards so
	// a storage failure leaves no orphan row.
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         s3Key,
		Body:        input.File,
		ContentType: contentType,
		Size:        input.Header.Size,
	}); err != nil {
		log.Printf("attachmentService.Upload: storage upload failed for %s: %v", attachmentID, err)
		return nil, domain.ErrUploadFailed
	}

	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.attachmentRepo.Create(txCtx, att); err != nil {
			return err
		}
		if actor.Role != domain.RoleAssociate {
			return nil
		}
		_, err := s.audit.Record(txCtx, actor, RecordActionInput{
			ClientID:   filing.ClientID,
			Action:     domain.ActionUpload,
			EntityType: domain.EntityFilingAttachment,
			EntityID:   att.ID,
			After:      att,
			Reason:     input.Reason,
			Meta:       input.Meta,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("attachment.Upload: %w", err)
	}
	return att, nil
}

func (s *attachmentService) List(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID) ([]domain.FilingAttachment, error) {
	filing, err := s.filingRepo.GetByID(ctx, actor.TenantID, filingID)
	if err != nil {
		return nil, err
	}
	if err := s.requireLevel(ctx, actor, filing.ClientID, domain.PermissionRead); err != nil {
		return nil, err
	}
	return s.attachmentRepo.ListByFiling(ctx, actor.TenantID, filingID)
}

func (s *attachmentService) GetDownloadURL(ctx context.Context, actor domain.ActorContext, attachmentID uuid.UUID) (string, error) {
	att, err := s.attachmentRepo.GetByID(ctx, actor.TenantID, attachmentID)
	if err != nil {
		return "", err
	}
	filing, err := s.filingRepo.GetByID(ctx, actor.TenantID, att.FilingID)
	if err != nil {
		return "", err
	}
	if err := s.requireLevel(ctx, actor, filing.ClientID, domain.PermissionRead); err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, att.S3Bucket, att.S3Key, s.cfg.PresignExpiry)
}

func (s *attachmentService) Delete(ctx context.Context, actor domain.ActorContext, attachmentID uuid.UUID) error {
	att, err := s.attachmentRepo.GetByID(ctx, actor.TenantID, attachmentID)
	if err != nil {
		return err
	}
	filing, err := s.filingRepo.GetByID(ctx, actor.TenantID, att.FilingID)
	if err != nil {
		return err
	}
	if err := s.requireLevel(ctx, actor, filing.ClientID, domain.PermissionUpdate); err != nil {
		return err
	}
	if filing.Status != domain.FilingStatusDraft {
		return domain.NewInvalidState("detach from", filing.Status, domain.FilingStatusDraft)
	}

	if err := s.attachmentRepo.Delete(ctx, actor.TenantID, attachmentID); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, att.S3Bucket, att.S3Key); err != nil {
		// The row is gone; log the orphaned object rather than failing
		// the request.
		log.Printf("attachmentService.Delete: storage delete failed for %s: %v", att.S3Key, err)
	}
	return nil
}
