package activity

import (
	"github.com/gin-gonic/gin"

	"github.com/mechashelf/admin/internal/domain"
	"github.com/mechashelf/admin/internal/pkg"
)

// Handler handles REST API requests for the activity log.
type Handler struct {
	svc domain.ActivityService
}

// NewHandler creates a Handler with the given service.
func NewHandler(svc domain.ActivityService) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /api/v1/activity.
func (h *Handler) List(c *gin.Context) {
	req := pkg.ParsePageRequest(c)

	result, err := h.svc.List(c.Request.Context(), req)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, result)
}
