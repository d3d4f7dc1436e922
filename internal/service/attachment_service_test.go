package service_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"taxdesk/internal/config"
	"taxdesk/internal/domain"
	"taxdesk/internal/port"
	"taxdesk/internal/service"
	"taxdesk/mocks"
)

type attachmentMocks struct {
	attachmentRepo *mocks.MockAttachmentRepo
	filingRepo     *mocks.MockFilingRepo
	authz          *mocks.MockAuthzService
	audit          *mocks.MockOnBehalfService
	tx             *mocks.MockTxManager
	storage        *mocks.MockObjectStorage
}

func testS3Config() config.S3Config {
	return config.S3Config{
		Region:        "us-east-1",
		Bucket:        "test-bucket",
		MaxFileSizeMB: 25,
		PresignExpiry: 3600,
	}
}

func newAttachmentService(cfg *config.S3Config) (service.AttachmentService, *attachmentMocks) {
	m := &attachmentMocks{
		attachmentRepo: new(mocks.MockAttachmentRepo),
		filingRepo:     new(mocks.MockFilingRepo),
		authz:          new(mocks.MockAuthzService),
		audit:          new(mocks.MockOnBehalfService),
		tx:             new(mocks.MockTxManager),
		storage:        new(mocks.MockObjectStorage),
	}
	svc := service.NewAttachmentService(m.attachmentRepo, m.filingRepo, m.authz, m.audit, m.tx, m.storage, cfg)
	return svc, m
}

// createMultipartFile builds a fake multipart file header and content.
func createMultipartFile(t *testing.T, filename string, content []byte, contentType string) (multipart.File, *multipart.FileHeader) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)

	part, _ := writer.CreatePart(h)
	_, _ = part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content) + 1024))
	assert.NoError(t, err)
	file, err := form.File["file"][0].Open()
	assert.NoError(t, err)
	return file, form.File["file"][0]
}

func pdfContent() []byte {
	return []byte("%PDF-1.4 test content that is at least a few bytes long for detection purposes")
}

func TestAttachmentService_Upload_Success(t *testing.T) {
	cfg := testS3Config()
	svc, m := newAttachmentService(&cfg)

	tenantID := uuid.New()
	actor := adminActor(tenantID)
	filing := draftFiling(tenantID, uuid.New())

	file, header := createMultipartFile(t, "return-support.pdf", pdfContent(), "application/pdf")
	defer file.Close()

	m.filingRepo.On("GetByID", mock.Anything, tenantID, filing.ID).Return(filing, nil)
	m.authz.On("Authorize", mock.Anything, actor, filing.ClientID, domain.AreaDocuments, domain.PermissionUpdate).
		Return(allowDecision(domain.PermissionSubmit), nil)
	m.storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "test-bucket" && in.ContentType == "application/pdf"
	})).Return(&port.UploadOutput{Location: "https://test-bucket.s3.amazonaws.com/x", ETag: "abc"}, nil)
	m.tx.On("WithinTx", mock.Anything, mock.Anything).Return(nil)
	m.attachmentRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.FilingAttachment")).Return(nil)

	att, err := svc.Upload(context.Background(), actor, service.AttachmentUploadInput{
		FilingID: filing.ID,
		File:     file,
		Header:   header,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.FileTypePDF, att.FileType)
	assert.Equal(t, "return-support.pdf", att.OriginalName)
	assert.Contains(t, att.S3Key, "tenants/"+tenantID.String())
	m.storage.AssertExpectations(t)
	m.attachmentRepo.AssertExpectations(t)
}

func TestAttachmentService_Upload_OnlyInDraft(t *testing.T) {
	cfg := testS3Config()
	svc, m := newAttachmentService(&cfg)

	tenantID := uuid.New()
	actor := adminActor(tenantID)
	filing := draftFiling(tenantID, uuid.New())
	filing.Status = domain.FilingStatusSubmitted

	file, header := createMultipartFile(t, "late.pdf", pdfContent(), "application/pdf")
	defer file.Close()

	m.filingRepo.On("GetByID", mock.Anything, tenantID, filing.ID).Return(filing, nil)
	m.authz.On("Authorize", mock.Anything, actor, filing.ClientID, domain.AreaDocuments, domain.PermissionUpdate).
		Return(allowDecision(domain.PermissionSubmit), nil)

	_, err := svc.Upload(context.Background(), actor, service.AttachmentUploadInput{
		FilingID: filing.ID,
		File:     file,
		Header:   header,
	})

	assert.True(t, domain.IsInvalidState(err))
	m.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestAttachmentService_Upload_UnsupportedExtension(t *testing.T) {
	cfg := testS3Config()
	svc, m := newAttachmentService(&cfg)

	tenantID := uuid.New()
	actor := adminActor(tenantID)
	filing := draftFiling(tenantID, uuid.New())

	file, header := createMultipartFile(t, "macro.xlsm", []byte("PK fake zip content"), "application/octet-stream")
	defer file.Close()

	m.filingRepo.On("GetByID", mock.Anything, tenantID, filing.ID).Return(filing, nil)
	m.authz.On("Authorize", mock.Anything, actor, filing.ClientID, domain.AreaDocuments, domain.PermissionUpdate).
		Return(allowDecision(domain.PermissionSubmit), nil)

	_, err := svc.Upload(context.Background(), actor, service.AttachmentUploadInput{
		FilingID: filing.ID,
		File:     file,
		Header:   header,
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestAttachmentService_Upload_ContentMismatchRejected(t *testing.T) {
	cfg := testS3Config()
	svc, m := newAttachmentService(&cfg)

	tenantID := uuid.New()
	actor := adminActor(tenantID)
	filing := draftFiling(tenantID, uuid.New())

	// extension says pdf, bytes say plain text
	file, header := createMultipartFile(t, "fake.pdf", []byte("just some plain text, not a pdf at all"), "application/pdf")
	defer file.Close()

	m.filingRepo.On("GetByID", mock.Anything, tenantID, filing.ID).Return(filing, nil)
	m.authz.On("Authorize", mock.Anything, actor, filing.ClientID, domain.AreaDocuments, domain.PermissionUpdate).
		Return(allowDecision(domain.PermissionSubmit), nil)

	_, err := svc.Upload(context.Background(), actor, service.AttachmentUploadInput{
		FilingID: filing.ID,
		File:     file,
		Header:   header,
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	m.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestAttachmentService_Upload_FileTooLarge(t *testing.T) {
	cfg := testS3Config()
	cfg.MaxFileSizeMB = 0
	svc, m := newAttachmentService(&cfg)

	tenantID := uuid.New()
	actor := adminActor(tenantID)
	filing := draftFiling(tenantID, uuid.New())

	file, header := createMultipartFile(t, "huge.pdf", pdfContent(), "application/pdf")
	defer file.Close()

	m.filingRepo.On("GetByID", mock.Anything, tenantID, filing.ID).Return(filing, nil)
	m.authz.On("Authorize", mock.Anything, actor, filing.ClientID, domain.AreaDocuments, domain.PermissionUpdate).
		Return(allowDecision(domain.PermissionSubmit), nil)

	_, err := svc.Upload(context.Background(), actor, service.AttachmentUploadInput{
		FilingID: filing.ID,
		File:     file,
		Header:   header,
	})

	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	m.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestAttachmentService_Upload_StorageFailureLeavesNoRow(t *testing.T) {
	cfg := testS3Config()
	svc, m := newAttachmentService(&cfg)

	tenantID := uuid.New()
	actor := adminActor(tenantID)
	filing := draftFiling(tenantID, uuid.New())

	file, header := createMultipartFile(t, "support.pdf", pdfContent(), "application/pdf")
	defer file.Close()

	m.filingRepo.On("GetByID", mock.Anything, tenantID, filing.ID).Return(filing, nil)
	m.authz.On("Authorize", mock.Anything, actor, filing.ClientID, domain.AreaDocuments, domain.PermissionUpdate).
		Return(allowDecision(domain.PermissionSubmit), nil)
	m.storage.On("Upload", mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	_, err := svc.Upload(context.Background(), actor, service.AttachmentUploadInput{
		FilingID: filing.ID,
		File:     file,
		Header:   header,
	})

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	m.attachmentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAttachmentService_Upload_AssociateWritesAuditRecord(t *testing.T) {
	cfg := testS3Config()
	svc, m := newAttachmentService(&cfg)

	tenantID := uuid.New()
	actor := associateActor(tenantID)
	filing := draftFiling(tenantID, uuid.New())

	file, header := createMultipartFile(t, "support.pdf", pdfContent(), "application/pdf")
	defer file.Close()

	m.filingRepo.On("GetByID", mock.Anything, tenantID, filing.ID).Return(filing, nil)
	m.authz.On("Authorize", mock.Anything, actor, filing.ClientID, domain.AreaDocuments, domain.PermissionUpdate).
		Return(allowDecision(domain.PermissionSubmit), nil)
	m.storage.On("Upload", mock.Anything, mock.Anything).
		Return(&port.UploadOutput{Location: "https://s3/x", ETag: "abc"}, nil)
	m.tx.On("WithinTx", mock.Anything, mock.Anything).Return(nil)
	m.attachmentRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.FilingAttachment")).Return(nil)
	m.audit.On("Record", mock.Anything, actor, mock.MatchedBy(func(in service.RecordActionInput) bool {
		return in.Action == domain.ActionUpload && in.EntityType == domain.EntityFilingAttachment
	})).Return(uuid.New(), nil)

	_, err := svc.Upload(context.Background(), actor, service.AttachmentUploadInput{
		FilingID: filing.ID,
		File:     file,
		Header:   header,
	})

	assert.NoError(t, err)
	m.audit.AssertExpectations(t)
}

func TestAttachmentService_Delete_OnlyInDraft(t *testing.T) {
	cfg := testS3Config()
	svc, m := newAttachmentService(&cfg)

	tenantID := uuid.New()
	actor := adminActor(tenantID)
	filing := draftFiling(tenantID, uuid.New())
	filing.Status = domain.FilingStatusApproved
	att := &domain.FilingAttachment{ID: uuid.New(), FilingID: filing.ID, TenantID: tenantID, S3Bucket: "test-bucket", S3Key: "k"}

	m.attachmentRepo.On("GetByID", mock.Anything, tenantID, att.ID).Return(att, nil)
	m.filingRepo.On("GetByID", mock.Anything, tenantID, filing.ID).Return(filing, nil)
	m.authz.On("Authorize", mock.Anything, actor, filing.ClientID, domain.AreaDocuments, domain.PermissionUpdate).
		Return(allowDecision(domain.PermissionSubmit), nil)

	err := svc.Delete(context.Background(), actor, att.ID)

	assert.True(t, domain.IsInvalidState(err))
	m.attachmentRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestAttachmentService_Delete_ToleratesStorageFailure(t *testing.T) {
	cfg := testS3Config()
	svc, m := newAttachmentService(&cfg)

	tenantID := uuid.New()
	actor := adminActor(tenantID)
	filing := draftFiling(tenantID, uuid.New())
	att := &domain.FilingAttachment{ID: uuid.New(), FilingID: filing.ID, TenantID: tenantID, S3Bucket: "test-bucket", S3Key: "k"}

	m.attachmentRepo.On("GetByID", mock.Anything, tenantID, att.ID).Return(att, nil)
	m.filingRepo.On("GetByID", mock.Anything, tenantID, filing.ID).Return(filing, nil)
	m.authz.On("Authorize", mock.Anything, actor, filing.ClientID, domain.AreaDocuments, domain.PermissionUpdate).
		Return(allowDecision(domain.PermissionSubmit), nil)
	m.attachmentRepo.On("Delete", mock.Anything, tenantID, att.ID).Return(nil)
	m.storage.On("Delete", mock.Anything, "test-bucket", "k").Return(assert.AnError)

	err := svc.Delete(context.Background(), actor, att.ID)

	assert.NoError(t, err)
	m.attachmentRepo.AssertExpectations(t)
}

func TestAttachmentService_GetDownloadURL(t *testing.T) {
	cfg := testS3Config()
	svc, m := newAttachmentService(&cfg)

	tenantID := uuid.New()
	actor := adminActor(tenantID)
	filing := draftFiling(tenantID, uuid.New())
	att := &domain.FilingAttachment{ID: uuid.New(), FilingID: filing.ID, TenantID: tenantID, S3Bucket: "test-bucket", S3Key: "tenants/x/filings/y/z"}

	m.attachmentRepo.On("GetByID", mock.Anything, tenantID, att.ID).Return(att, nil)
	m.filingRepo.On("GetByID", mock.Anything, tenantID, filing.ID).Return(filing, nil)
	m.authz.On("Authorize", mock.Anything, actor, filing.ClientID, domain.AreaDocuments, domain.PermissionRead).
		Return(allowDecision(domain.PermissionSubmit), nil)
	m.storage.On("GetPresignedURL", mock.Anything, "test-bucket", att.S3Key, int64(3600)).
		Return("https://signed.example/url", nil)

	url, err := svc.GetDownloadURL(context.Background(), actor, att.ID)

	assert.NoError(t, err)
	assert.Equal(t, "https://signed.example/url", url)
}
