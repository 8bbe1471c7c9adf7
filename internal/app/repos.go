package app

import (
	"gorm.io/gorm"

	"github.com/herdsight/herdsight-backend/internal/pkg/logger"
	"github.com/herdsight/herdsight-backend/internal/repos"
)

type Repos struct {
	User           repos.UserRepo
	Farm           repos.FarmRepo
	Classification repos.ClassificationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:           repos.NewUserRepo(db, log),
		Farm:           repos.NewFarmRepo(db, log),
		Classification: repos.NewClassificationRepo(db, log),
	}
}
