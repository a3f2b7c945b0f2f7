package activity

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mechashelf/admin/internal/domain"
	"github.com/mechashelf/admin/internal/pkg"
)

// PageHandler renders the activity log page.
type PageHandler struct {
	svc domain.ActivityService
}

// NewPageHandler creates a PageHandler with the given service.
func NewPageHandler(svc domain.ActivityService) *PageHandler {
	return &PageHandler{svc: svc}
}

// ListPage renders the activity log with pagination and optional entity and
// action filters.
// GET /activity
func (h *PageHandler) ListPage(c *gin.Context) {
	req := pkg.ParsePageRequest(c)
	if req.Sort == "" || req.Sort == "id:desc" {
		req.Sort = "created_at:desc"
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "errors/500.html", gin.H{})
		return
	}

	c.HTML(http.StatusOK, "activity/list.html", gin.H{
		"Entries":    result.Items,
		"Pagination": result,
		"Entities":   domain.Entities,
		"Entity":     req.Filter["entity"],
		"Action":     req.Filter["action"],
		"BaseURL":    "/activity",
	})
}
