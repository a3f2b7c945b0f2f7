package app

import "github.com/gin-gonic/gin"

// Module is a self-registering feature area of the console. Each catalog
// entity screen and the activity log implement it, attaching their JSON
// endpoints to the api group and their HTML screens to the pages group.
type Module interface {
	RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup)
}
