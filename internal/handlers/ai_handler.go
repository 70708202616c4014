package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"finance-dashboard-backend/internal/services/advisor"
)

type AIHandler struct {
	advisorSvc *advisor.Service
}

func NewAIHandler(advisorSvc *advisor.Service) *AIHandler {
	return &AIHandler{advisorSvc: advisorSvc}
}

// Analyze runs the one-shot report over a client-provided data summary.
func (h *AIHandler) Analyze(c *gin.Context) {
	var payload struct {
		Role        string `json:"role"`
		DataSummary string `json:"dataSummary"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	content, err := h.advisorSvc.Analyze(c.Request.Context(), payload.Role, payload.DataSummary)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content})
}

// Chat answers one mentor-chat turn, tool calls included.
func (h *AIHandler) Chat(c *gin.Context) {
	var payload struct {
		Message string                `json:"message"`
		History []advisor.ChatMessage `json:"history"`
	}
	if err := c.BindJSON(&payload); err != nil || payload.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	content, err := h.advisorSvc.Chat(c.Request.Context(), payload.Message, payload.History)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content})
}

// Upstream failures surface whole, no retry, no stored-state change.
func (h *AIHandler) renderError(c *gin.Context, err error) {
	if errors.Is(err, advisor.ErrNotConfigured) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请先配置 API Key"})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}
