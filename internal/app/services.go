package app

import (
	"gorm.io/gorm"

	"github.com/herdsight/herdsight-backend/internal/pkg/logger"
	"github.com/herdsight/herdsight-backend/internal/services"
)

type Services struct {
	Auth           services.AuthService
	Farm           services.FarmService
	Classification services.ClassificationService
	Analyzer       services.Analyzer
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	var analyzer services.Analyzer
	if cfg.GeminiAPIKey != "" {
		ga, err := services.NewGeminiAnalyzer(log, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return Services{}, err
		}
		analyzer = ga
	} else {
		log.Warn("GEMINI_API_KEY not set, using mock analyzer")
		analyzer = services.NewMockAnalyzer(log)
	}

	return Services{
		Auth:           services.NewAuthService(db, log, reposet.User, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		Farm:           services.NewFarmService(db, log, reposet.Farm),
		Classification: services.NewClassificationService(db, log, reposet.Classification, reposet.Farm),
		Analyzer:       analyzer,
	}, nil
}
