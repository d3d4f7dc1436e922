package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taxdesk/internal/domain"
	"taxdesk/internal/service"
)

// PermissionHandler handles delegation grant administration endpoints.
type PermissionHandler struct {
	permissionService service.PermissionService
}

// NewPermissionHandler creates a new PermissionHandler.
func NewPermissionHandler(permissionService service.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissionService: permissionService}
}

// Grant handles POST /api/v1/permissions
func (h *PermissionHandler) Grant(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	var input service.GrantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	perm, err := h.permissionService.Grant(c.Request.Context(), actor, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, perm)
}

// Revoke handles DELETE /api/v1/permissions/:id
func (h *PermissionHandler) Revoke(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	permissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid permission ID")
		return
	}

	if err := h.permissionService.Revoke(c.Request.Context(), actor, permissionID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"revoked": true})
}

// GetByID handles GET /api/v1/permissions/:id
func (h *PermissionHandler) GetByID(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	permissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid permission ID")
		return
	}

	perm, err := h.permissionService.Get(c.Request.Context(), actor, permissionID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, perm)
}

// ListForAssociate handles GET /api/v1/associates/:id/permissions
func (h *PermissionHandler) ListForAssociate(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	associateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid associate ID")
		return
	}

	area := domain.PermissionArea(c.DefaultQuery("area", string(domain.AreaTaxFilings)))

	delegated, err := h.permissionService.ListForAssociate(c.Request.Context(), actor, associateID, area)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, delegated)
}

// ListExpiring handles GET /api/v1/permissions/expiring?days=30
func (h *PermissionHandler) ListExpiring(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 1 {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "days must be a positive integer")
		return
	}
	page, pageSize := parsePagination(c)

	perms, total, err := h.permissionService.ListExpiringWithin(c.Request.Context(), actor, days, page, pageSize)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, perms, buildPagMeta(page, pageSize, total))
}
