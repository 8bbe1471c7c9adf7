package app

import (
	"github.com/herdsight/herdsight-backend/internal/handlers"
	"github.com/herdsight/herdsight-backend/internal/pkg/logger"
)

type Handlers struct {
	Auth           *handlers.AuthHandler
	Classification *handlers.ClassificationHandler
	Classify       *handlers.ClassifyHandler
}

func wireHandlers(log *logger.Logger, cfg Config, reposet Repos, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:           handlers.NewAuthHandler(log, serviceset.Auth),
		Classification: handlers.NewClassificationHandler(log, serviceset.Classification),
		Classify: handlers.NewClassifyHandler(
			log,
			reposet.User,
			serviceset.Analyzer,
			serviceset.Farm,
			serviceset.Classification,
			cfg.MaxUploadBytes,
		),
	}
}
