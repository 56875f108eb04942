package routes

import (
	"github.com/gin-gonic/gin"

	"storm_drain/internal/controllers"
)

func DrainageRoutes(r *gin.Engine, dc *controllers.DrainageController) {
	drainage := r.Group("/drainage")
	{
		drainage.GET("", dc.List)
		drainage.GET("/geojson", dc.GeoJSON)
		drainage.GET("/:location_id", dc.GetByLocation)
	}
}
