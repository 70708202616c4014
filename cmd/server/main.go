package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"finance-dashboard-backend/internal/config"
	"finance-dashboard-backend/internal/logger"
	"finance-dashboard-backend/internal/models"
	"finance-dashboard-backend/internal/routes"
)

func main() {
	log := logger.New()

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, relying on system env")
	}

	db := config.InitDB()

	if err := db.SetupJoinTable(&models.Transaction{}, "Tags", &models.TransactionTag{}); err != nil {
		log.Fatal().Err(err).Msg("setup join table")
	}
	if err := db.AutoMigrate(
		&models.Transaction{},
		&models.Tag{},
		&models.AIConfig{},
		&models.ImportBatch{},
	); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, db, log)

	addr := config.ListenAddr()
	log.Info().Str("addr", addr).Msg("backend listening")
	if err := r.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
