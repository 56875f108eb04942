package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health is the static liveness probe.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "storm-drain-backend",
	})
}
