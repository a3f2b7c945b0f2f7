// Package entityadmin is the generic admin surface for one catalog entity:
// a paginated, searchable list page with create, edit, and soft-delete, plus
// a small JSON API proxying the same collection. All seven entity screens are
// instances of this package parameterized by a domain.EntityDescriptor.
package entityadmin

import (
	"github.com/gin-gonic/gin"

	"github.com/mechashelf/admin/internal/catalog"
	"github.com/mechashelf/admin/internal/domain"
	"github.com/mechashelf/admin/internal/pkg"
)

// Handler proxies REST API requests for one entity to the catalog backend.
type Handler struct {
	res      *catalog.Resource
	desc     domain.EntityDescriptor
	pageSize int
}

// NewHandler creates a Handler for one entity resource.
func NewHandler(res *catalog.Resource, pageSize int) *Handler {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Handler{res: res, desc: res.Descriptor(), pageSize: pageSize}
}

// List handles GET /api/v1/<slug>.
func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if !pkg.BindAndValidate(c, &q) {
		return
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = h.pageSize
	}

	page, err := h.res.List(c.Request.Context(), q.Page, q.Limit, q.Search)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, page)
}

// Get handles GET /api/v1/<slug>/:id.
func (h *Handler) Get(c *gin.Context) {
	record, err := h.res.Fetch(c.Request.Context(), c.Param("id"))
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, record)
}
