package app

import (
	"github.com/herdsight/herdsight-backend/internal/middleware"
	"github.com/herdsight/herdsight-backend/internal/pkg/logger"
)

type Middleware struct {
	Auth *middleware.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, serviceset Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: middleware.NewAuthMiddleware(log, serviceset.Auth),
	}
}
