package activity

import "github.com/gin-gonic/gin"

// Module implements the app.Module interface for the activity log.
type Module struct {
	handler     *Handler
	pageHandler *PageHandler
}

// NewModule creates a Module with the given handlers.
// Panics if h or ph is nil.
func NewModule(h *Handler, ph *PageHandler) *Module {
	if h == nil {
		panic("activity.NewModule: handler must not be nil")
	}
	if ph == nil {
		panic("activity.NewModule: pageHandler must not be nil")
	}
	return &Module{handler: h, pageHandler: ph}
}

// RegisterRoutes registers activity API and page routes.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	api.GET("/activity", m.handler.List)

	pages.GET("/activity", m.pageHandler.ListPage)
}
