package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	logrus "github.com/sirupsen/logrus"

	"storm_drain/internal/agent"
)

// ChatController bridges /chat/query to the agent loop under a wall-clock
// budget.
type ChatController struct {
	agent   *agent.Agent
	timeout time.Duration
}

func NewChatController(a *agent.Agent, timeout time.Duration) *ChatController {
	return &ChatController{agent: a, timeout: timeout}
}

type chatInput struct {
	Query     string `json:"query" binding:"required"`
	SessionID string `json:"session_id"`
}

type chatResult struct {
	answer    string
	intent    string
	toolsUsed []string
}

// Query runs the full pipeline for one question. The whole turn gets one
// deadline; if it expires, whatever the abandoned turn eventually produces
// is discarded and the caller sees a timeout, never a partial answer.
func (cc *ChatController) Query(c *gin.Context) {
	var input chatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat payload: " + err.Error()})
		return
	}

	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	log := logrus.WithField("session_id", sessionID)
	log.Infof("chat query received")

	ctx, cancel := context.WithTimeout(c.Request.Context(), cc.timeout)
	defer cancel()

	done := make(chan chatResult, 1)
	go func() {
		answer, intent, toolsUsed := cc.agent.Answer(ctx, input.Query)
		done <- chatResult{answer: answer, intent: intent, toolsUsed: toolsUsed}
	}()

	select {
	case <-ctx.Done():
		log.Warn("chat query timed out")
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Chat request timed out"})
	case res := <-done:
		log.WithField("intent", res.intent).Infof("chat query answered, tools=%v", res.toolsUsed)
		c.JSON(http.StatusOK, gin.H{
			"answer":     res.answer,
			"intent":     res.intent,
			"tools_used": res.toolsUsed,
		})
	}
}
