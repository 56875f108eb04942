package routes

import (
	"github.com/gin-gonic/gin"

	"storm_drain/internal/controllers"
)

func IngestionRoutes(r *gin.Engine, ic *controllers.IngestionController) {
	ingestion := r.Group("/ingestion")
	{
		ingestion.POST("/drainage", ic.Ingest)
		ingestion.POST("/sweep", ic.Sweep)
	}
}
