package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finance-dashboard-backend/internal/repository"
	"finance-dashboard-backend/internal/services/tagging"
)

type TagHandler struct {
	tagRepo *repository.TagRepository
	tagSvc  *tagging.Service
}

func NewTagHandler(tagRepo *repository.TagRepository, tagSvc *tagging.Service) *TagHandler {
	return &TagHandler{tagRepo: tagRepo, tagSvc: tagSvc}
}

// List returns every tag with usage count and non-shadow spend total.
func (h *TagHandler) List(c *gin.Context) {
	stats, err := h.tagRepo.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// AutoApply runs the rule engine over all non-shadow transactions.
func (h *TagHandler) AutoApply(c *gin.Context) {
	processed, err := h.tagSvc.AutoApply()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "processed": processed})
}

// TagTransaction attaches tags to one transaction.
func (h *TagHandler) TagTransaction(c *gin.Context) {
	var payload struct {
		TagNames []string `json:"tagNames"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if err := h.tagSvc.TagTransaction(c.Param("id"), payload.TagNames); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UntagTransaction removes one tag from a transaction.
func (h *TagHandler) UntagTransaction(c *gin.Context) {
	if err := h.tagRepo.Detach(c.Param("id"), c.Param("tagName")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// TagMerchant attaches tags to every non-shadow transaction of one
// merchant.
func (h *TagHandler) TagMerchant(c *gin.Context) {
	var payload struct {
		MerchantName string   `json:"merchantName"`
		TagNames     []string `json:"tagNames"`
	}
	if err := c.BindJSON(&payload); err != nil || payload.MerchantName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	affected, err := h.tagSvc.TagMerchant(payload.MerchantName, payload.TagNames)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "affected": affected})
}
