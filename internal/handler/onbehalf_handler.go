package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taxdesk/internal/port"
	"taxdesk/internal/service"
)

// OnBehalfHandler handles read access to the on-behalf action log.
type OnBehalfHandler struct {
	onBehalfService service.OnBehalfService
}

// NewOnBehalfHandler creates a new OnBehalfHandler.
func NewOnBehalfHandler(onBehalfService service.OnBehalfService) *OnBehalfHandler {
	return &OnBehalfHandler{onBehalfService: onBehalfService}
}

// List handles GET /api/v1/on-behalf-actions
func (h *OnBehalfHandler) List(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	filter, err := parseOnBehalfFilter(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	page, pageSize := parsePagination(c)

	actions, total, err := h.onBehalfService.List(c.Request.Context(), actor, filter, page, pageSize)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, actions, buildPagMeta(page, pageSize, total))
}

// Counts handles GET /api/v1/on-behalf-actions/counts
func (h *OnBehalfHandler) Counts(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	filter, err := parseOnBehalfFilter(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	counts, err := h.onBehalfService.CountByAction(c.Request.Context(), actor, filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, counts)
}

// parseOnBehalfFilter builds an action log filter from query parameters.
func parseOnBehalfFilter(c *gin.Context) (port.OnBehalfFilter, error) {
	var filter port.OnBehalfFilter

	if raw := c.Query("associate_id"); raw != "" {
		associateID, err := uuid.Parse(raw)
		if err != nil {
			return filter, err
		}
		filter.AssociateID = &associateID
	}
	if raw := c.Query("client_id"); raw != "" {
		clientID, err := uuid.Parse(raw)
		if err != nil {
			return filter, err
		}
		filter.ClientID = &clientID
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, err
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, err
		}
		filter.To = &to
	}

	return filter, nil
}
