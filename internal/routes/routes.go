package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"storm_drain/internal/controllers"
)

// Controllers bundles the handler set the router mounts.
type Controllers struct {
	Ingestion *controllers.IngestionController
	Drainage  *controllers.DrainageController
	Chat      *controllers.ChatController
}

func SetupRouter(ctrl Controllers) *gin.Engine {
	r := gin.New()

	// Recovery + request logging must be registered before the route groups.
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())

	IngestionRoutes(r, ctrl.Ingestion)
	ChatRoutes(r, ctrl.Chat)
	DrainageRoutes(r, ctrl.Drainage)
	HealthRoutes(r)

	return r
}
