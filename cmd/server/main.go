package main

import (
	"log"
	"net/http"

	"pharmacy_backend/internal/config"
	"pharmacy_backend/internal/database"
	"pharmacy_backend/internal/middleware"
	"pharmacy_backend/internal/router"
	"pharmacy_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize Logger
	utils.InitLogger()

	cfg := config.Load()

	// Initialize Database
	database.InitDB(cfg)
	utils.LogInfo("Database initialized", map[string]interface{}{"host": cfg.DBHost, "name": cfg.DBName})

	engine := gin.Default()

	engine.Use(middleware.RequestID())
	engine.Use(utils.GinLogger())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	engine.GET("/healthz", func(c *gin.Context) {
		if err := database.GetDB().Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Setup all application routes
	router.Setup(engine, database.GetDB(), cfg)

	utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.HTTPPort})

	if err := engine.Run(":" + cfg.HTTPPort); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
