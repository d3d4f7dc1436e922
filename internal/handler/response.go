package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxdesk/internal/domain"
	"taxdesk/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"pagination,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalCount  int `json:"totalCount"`
	TotalPages  int `json:"totalPages"`
}

const maxPageSize = 100

// parsePagination reads page and pageSize query params, clamping pageSize
// to 100.
func parsePagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// buildPagMeta computes pagination metadata from the page inputs and total.
func buildPagMeta(page, pageSize, total int) PagMeta {
	totalPages := (total + pageSize - 1) / pageSize
	return PagMeta{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalCount:  total,
		TotalPages:  totalPages,
	}
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var ise *domain.InvalidStateError
	if errors.As(err, &ise) {
		return http.StatusBadRequest, "INVALID_STATE", ise.Error()
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrFilingNotFound):
		return http.StatusNotFound, "FILING_NOT_FOUND", "tax filing not found"
	case errors.Is(err, domain.ErrClientNotFound):
		return http.StatusNotFound, "CLIENT_NOT_FOUND", "client not found"
	case errors.Is(err, domain.ErrPermissionNotFound):
		return http.StatusNotFound, "PERMISSION_NOT_FOUND", "permission grant not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrTenantInactive):
		return http.StatusForbidden, "TENANT_INACTIVE", "tenant is inactive"
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "USER_INACTIVE", "user is inactive"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", "email already exists for this tenant"
	case errors.Is(err, domain.ErrDuplicateTenantSlug):
		return http.StatusConflict, "DUPLICATE_SLUG", "tenant slug already exists"
	case errors.Is(err, domain.ErrInvalidTaxType):
		return http.StatusBadRequest, "INVALID_TAX_TYPE", "invalid tax type"
	case errors.Is(err, domain.ErrInvalidPeriod):
		return http.StatusBadRequest, "INVALID_PERIOD", "invalid tax year or period"
	case errors.Is(err, domain.ErrInvalidSchedule):
		return http.StatusBadRequest, "INVALID_SCHEDULE", err.Error()
	case errors.Is(err, domain.ErrInvalidDecision):
		return http.StatusBadRequest, "INVALID_DECISION", "invalid review decision; allowed: approve, reject"
	case errors.Is(err, domain.ErrValidationFailed):
		return http.StatusBadRequest, "VALIDATION_FAILED", "filing has blocking validation issues"
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden, "PERMISSION_DENIED", "insufficient delegated permission"
	case errors.Is(err, domain.ErrPermissionExpired):
		return http.StatusForbidden, "PERMISSION_EXPIRED", "delegated permission has expired"
	case errors.Is(err, domain.ErrInvalidPermission):
		return http.StatusBadRequest, "INVALID_PERMISSION", err.Error()
	case errors.Is(err, domain.ErrInvalidArea):
		return http.StatusBadRequest, "INVALID_AREA", "invalid permission area"
	case errors.Is(err, domain.ErrSelfGrant):
		return http.StatusBadRequest, "SELF_GRANT", "cannot grant a permission to yourself"
	case errors.Is(err, domain.ErrNotTransmittable):
		return http.StatusBadRequest, "NOT_TRANSMITTABLE", "only approved filings can be transmitted"
	case errors.Is(err, domain.ErrAlreadyTransmitted):
		return http.StatusConflict, "ALREADY_TRANSMITTED", "filing has already been transmitted"
	case errors.Is(err, domain.ErrAuthorityUnavailable):
		return http.StatusBadGateway, "AUTHORITY_UNAVAILABLE", "tax authority service unavailable"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, jpg, png"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// extractActor builds the service-layer actor from the authenticated request
// context. Returns false if auth context is missing (error response already
// written).
func extractActor(c *gin.Context) (domain.ActorContext, bool) {
	actor, err := middleware.GetActor(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context")
		return domain.ActorContext{}, false
	}
	return actor, true
}

// requestMeta captures the caller's network identity for audit entries.
func requestMeta(c *gin.Context) domain.RequestMeta {
	return domain.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
