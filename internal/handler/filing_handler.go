package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taxdesk/internal/domain"
	"taxdesk/internal/export"
	"taxdesk/internal/port"
	"taxdesk/internal/service"
)

// FilingHandler handles tax filing endpoints: lifecycle, schedules,
// attachments, and register export.
type FilingHandler struct {
	filingService     service.FilingService
	attachmentService service.AttachmentService
}

// NewFilingHandler creates a new FilingHandler.
func NewFilingHandler(filingService service.FilingService, attachmentService service.AttachmentService) *FilingHandler {
	return &FilingHandler{
		filingService:     filingService,
		attachmentService: attachmentService,
	}
}

// Create handles POST /api/v1/tax-filings
func (h *FilingHandler) Create(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	var input service.CreateFilingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	filing, err := h.filingService.Create(c.Request.Context(), actor, input, requestMeta(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, filing)
}

// List handles GET /api/v1/tax-filings
func (h *FilingHandler) List(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	filter, err := parseFilingFilter(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	page, pageSize := parsePagination(c)

	filings, total, err := h.filingService.List(c.Request.Context(), actor, filter, page, pageSize)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, filings, buildPagMeta(page, pageSize, total))
}

// GetByID handles GET /api/v1/tax-filings/:id
func (h *FilingHandler) GetByID(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	filingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid filing ID")
		return
	}

	filing, err := h.filingService.Get(c.Request.Context(), actor, filingID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, filing)
}

// Update handles PUT /api/v1/tax-filings/:id
func (h *FilingHandler) Update(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	filingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid filing ID")
		return
	}

	var input service.UpdateFilingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	filing, err := h.filingService.Update(c.Request.Context(), actor, filingID, input, requestMeta(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, filing)
}

// Delete handles DELETE /api/v1/tax-filings/:id
func (h *FilingHandler) Delete(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	filingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid filing ID")
		return
	}

	if err := h.filingService.Delete(c.Request.Context(), actor, filingID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"deleted": true})
}

// Validate handles GET /api/v1/tax-filings/:id/validate
func (h *FilingHandler) Validate(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	filingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid filing ID")
		return
	}

	report, err := h.filingService.Validate(c.Request.Context(), actor, filingID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, report)
}

// Submit handles POST /api/v1/tax-filings/:id/submit
func (h *FilingHandler) Submit(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	filingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid filing ID")
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	// body is optional for submit
	_ = c.ShouldBindJSON(&req)

	filing, err := h.filingService.Submit(c.Request.Context(), actor, filingID, req.Reason, requestMeta(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, filing)
}

// Review handles POST /api/v1/tax-filings/:id/review
func (h *FilingHandler) Review(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	filingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid filing ID")
		return
	}

	var input service.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	filing, err := h.filingService.Review(c.Request.Context(), actor, filingID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, filing)
}

// ListSchedules handles GET /api/v1/tax-filings/:id/schedules
func (h *FilingHandler) ListSchedules(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	filingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid filing ID")
		return
	}

	schedules, err := h.filingService.ListSchedules(c.Request.Context(), actor, filingID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, schedules)
}

// SaveSchedules handles POST /api/v1/tax-filings/:id/schedules
func (h *FilingHandler) SaveSchedules(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	filingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid filing ID")
		return
	}

	var req struct {
		Schedules []service.ScheduleInput `json:"schedules" binding:"required"`
		Reason    string                  `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	schedules, err := h.filingService.SaveSchedules(c.Request.Context(), actor, filingID, req.Schedules, req.Reason, requestMeta(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, schedules)
}

// Transmit handles POST /api/v1/tax-filings/:id/transmit
func (h *FilingHandler) Transmit(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	filingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid filing ID")
		return
	}

	filing, err := h.filingService.Transmit(c.Request.Context(), actor, filingID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, filing)
}

// AuthorityStatus handles POST /api/v1/tax-filings/:id/authority-status
func (h *FilingHandler) AuthorityStatus(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	filingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid filing ID")
		return
	}

	filing, err := h.filingService.RefreshAuthorityStatus(c.Request.Context(), actor, filingID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, filing)
}

// Export handles GET /api/v1/tax-filings/export?format=csv|xlsx
func (h *FilingHandler) Export(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	filter, err := parseFilingFilter(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "format must be csv or xlsx")
		return
	}

	rows, err := h.filingService.ExportRegister(c.Request.Context(), actor, filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename("filings_register", format)
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")

	if format == "xlsx" {
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Status(http.StatusOK)
		if err := export.WriteXLSX(c.Writer, rows); err != nil {
			HandleError(c, err)
		}
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if _, err := c.Writer.Write(export.BOM); err != nil {
		HandleError(c, err)
		return
	}
	w := export.NewCSVWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		HandleError(c, err)
		return
	}
	if err := w.WriteRows(rows); err != nil {
		HandleError(c, err)
		return
	}
	w.Flush()
	if err := w.Error(); err != nil {
		HandleError(c, err)
	}
}

// UploadAttachment handles POST /api/v1/tax-filings/:id/attachments
func (h *FilingHandler) UploadAttachment(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	filingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid filing ID")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "file is required")
		return
	}
	defer file.Close()

	attachment, err := h.attachmentService.Upload(c.Request.Context(), actor, service.AttachmentUploadInput{
		FilingID: filingID,
		File:     file,
		Header:   header,
		Reason:   c.PostForm("reason"),
		Meta:     requestMeta(c),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, attachment)
}

// ListAttachments handles GET /api/v1/tax-filings/:id/attachments
func (h *FilingHandler) ListAttachments(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	filingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid filing ID")
		return
	}

	attachments, err := h.attachmentService.List(c.Request.Context(), actor, filingID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, attachments)
}

// AttachmentDownloadURL handles GET /api/v1/attachments/:id/download-url
func (h *FilingHandler) AttachmentDownloadURL(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	attachmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid attachment ID")
		return
	}

	url, err := h.attachmentService.GetDownloadURL(c.Request.Context(), actor, attachmentID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"download_url": url})
}

// DeleteAttachment handles DELETE /api/v1/attachments/:id
func (h *FilingHandler) DeleteAttachment(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	attachmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid attachment ID")
		return
	}

	if err := h.attachmentService.Delete(c.Request.Context(), actor, attachmentID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"deleted": true})
}

// parseFilingFilter builds a filing filter from query parameters.
func parseFilingFilter(c *gin.Context) (port.FilingFilter, error) {
	var filter port.FilingFilter

	if raw := c.Query("clientId"); raw != "" {
		clientID, err := uuid.Parse(raw)
		if err != nil {
			return filter, err
		}
		filter.ClientID = &clientID
	}
	if raw := c.Query("taxType"); raw != "" {
		taxType := domain.TaxType(raw)
		filter.TaxType = &taxType
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.FilingStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("taxYear"); raw != "" {
		taxYear, err := strconv.Atoi(raw)
		if err != nil {
			return filter, err
		}
		filter.TaxYear = &taxYear
	}
	filter.Search = c.Query("search")

	return filter, nil
}
