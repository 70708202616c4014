package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	handler "finance-dashboard-backend/internal/handlers"
	"finance-dashboard-backend/internal/repository"
	"finance-dashboard-backend/internal/services/advisor"
	"finance-dashboard-backend/internal/services/importer"
	"finance-dashboard-backend/internal/services/tagging"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, log zerolog.Logger) {
	txRepo := repository.NewTransactionRepository(db)
	tagRepo := repository.NewTagRepository(db)
	configRepo := repository.NewConfigRepository(db)

	importSvc := importer.NewService(db, txRepo, log)
	tagSvc := tagging.NewService(db, txRepo)
	advisorSvc := advisor.NewService(configRepo, advisor.NewToolExecutor(txRepo), log)

	billHandler := handler.NewBillHandler(txRepo, importSvc)
	tagHandler := handler.NewTagHandler(tagRepo, tagSvc)
	aiHandler := handler.NewAIHandler(advisorSvc)
	configHandler := handler.NewConfigHandler(configRepo)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Bill routes
	bills := api.Group("/bills")
	bills.GET("", billHandler.List)
	bills.POST("", billHandler.Save)
	bills.DELETE("", billHandler.DeleteAll)
	bills.POST("/import", billHandler.Upload)
	bills.POST("/:id/tags", tagHandler.TagTransaction)
	bills.DELETE("/:id/tags/:tagName", tagHandler.UntagTransaction)

	// Tag routes
	tags := api.Group("/tags")
	tags.GET("", tagHandler.List)
	tags.POST("/auto-apply", tagHandler.AutoApply)
	tags.POST("/batch/merchant", tagHandler.TagMerchant)

	// Import audit trail
	api.GET("/batches", billHandler.ListBatches)

	// AI config + mentor routes
	api.GET("/config", configHandler.Get)
	api.POST("/config", configHandler.Save)

	ai := api.Group("/ai")
	ai.POST("/analyze", aiHandler.Analyze)
	ai.POST("/chat", aiHandler.Chat)
}
