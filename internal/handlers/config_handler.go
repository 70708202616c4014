package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finance-dashboard-backend/internal/models"
	"finance-dashboard-backend/internal/repository"
)

type ConfigHandler struct {
	configRepo *repository.ConfigRepository
}

func NewConfigHandler(configRepo *repository.ConfigRepository) *ConfigHandler {
	return &ConfigHandler{configRepo: configRepo}
}

// Get returns the saved AI config, or an empty object when none exists.
func (h *ConfigHandler) Get(c *gin.Context) {
	cfg, err := h.configRepo.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if cfg == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// Save creates or replaces the singleton config.
func (h *ConfigHandler) Save(c *gin.Context) {
	var cfg models.AIConfig
	if err := c.BindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if err := h.configRepo.Save(&cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
