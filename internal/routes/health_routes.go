package routes

import (
	"github.com/gin-gonic/gin"

	"storm_drain/internal/controllers"
)

func HealthRoutes(r *gin.Engine) {
	r.GET("/health", controllers.Health)
}
