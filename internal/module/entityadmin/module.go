package entityadmin

import "github.com/gin-gonic/gin"

// Module implements the app.Module interface for one catalog entity.
type Module struct {
	slug        string
	handler     *Handler
	pageHandler *PageHandler
}

// NewModule creates a Module with the given handlers.
// Panics if h or ph is nil.
func NewModule(slug string, h *Handler, ph *PageHandler) *Module {
	if h == nil {
		panic("entityadmin.NewModule: handler must not be nil")
	}
	if ph == nil {
		panic("entityadmin.NewModule: pageHandler must not be nil")
	}
	return &Module{slug: slug, handler: h, pageHandler: ph}
}

// RegisterRoutes registers the entity's API and page routes.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	// API routes
	api.GET("/"+m.slug, m.handler.List)
	api.GET("/"+m.slug+"/:id", m.handler.Get)

	// Page routes
	pages.GET("/"+m.slug, m.pageHandler.ListPage)
	pages.GET("/"+m.slug+"/new", m.pageHandler.NewPage)
	pages.GET("/"+m.slug+"/:id/edit", m.pageHandler.EditPage)
	pages.POST("/"+m.slug, m.pageHandler.CreateHTMX)
	pages.POST("/"+m.slug+"/:id", m.pageHandler.UpdateHTMX)
	pages.DELETE("/"+m.slug+"/:id", m.pageHandler.DeleteHTMX)
}
