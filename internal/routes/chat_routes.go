package routes

import (
	"github.com/gin-gonic/gin"

	"storm_drain/internal/controllers"
)

func ChatRoutes(r *gin.Engine, cc *controllers.ChatController) {
	chat := r.Group("/chat")
	{
		chat.POST("/query", cc.Query)
	}
}
