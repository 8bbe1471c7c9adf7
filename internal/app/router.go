package app

import (
	"github.com/gin-gonic/gin"

	"github.com/herdsight/herdsight-backend/internal/server"
)

func wireRouter(handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:           handlerset.Auth,
		AuthMiddleware:        middlewareset.Auth,
		ClassificationHandler: handlerset.Classification,
		ClassifyHandler:       handlerset.Classify,
	})
}
