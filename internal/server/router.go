package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/herdsight/herdsight-backend/internal/handlers"
	"github.com/herdsight/herdsight-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler           *handlers.AuthHandler
	AuthMiddleware        *middleware.AuthMiddleware
	ClassificationHandler *handlers.ClassificationHandler
	ClassifyHandler       *handlers.ClassifyHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/auth/signup", cfg.AuthHandler.Signup)
		api.POST("/auth/login", cfg.AuthHandler.Login)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Classification history
	protected.GET("/classifications", cfg.ClassificationHandler.List)
	protected.POST("/classifications", cfg.ClassificationHandler.Create)
	// Static route first so "clear" is never captured as an :id value.
	protected.DELETE("/classifications/clear", cfg.ClassificationHandler.Clear)
	protected.GET("/classifications/:id", cfg.ClassificationHandler.Get)
	protected.PUT("/classifications/:id", cfg.ClassificationHandler.Update)
	protected.DELETE("/classifications/:id", cfg.ClassificationHandler.Delete)
	// Analyze and save
	protected.POST("/classify", cfg.ClassifyHandler.Classify)

	return router
}
