package app

import (
	"time"

	"github.com/herdsight/herdsight-backend/internal/pkg/logger"
	"github.com/herdsight/herdsight-backend/internal/utils"
)

const defaultJWTSecret = "defaultsecret"

type Config struct {
	Env            string
	Port           string
	JWTSecretKey   string
	AccessTokenTTL time.Duration
	GeminiAPIKey   string
	GeminiModel    string
	MaxUploadBytes int64
}

func LoadConfig(log *logger.Logger) Config {
	env := utils.GetEnv("APP_ENV", "development", log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", defaultJWTSecret, log)
	if env == "production" && jwtSecretKey == defaultJWTSecret {
		// Refuse to boot with a guessable signing key in production.
		log.Fatal("JWT_SECRET_KEY must be set in production")
	}
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	maxUploadMB := utils.GetEnvAsInt("MAX_UPLOAD_MB", 10, log)
	return Config{
		Env:            env,
		Port:           utils.GetEnv("PORT", "8080", log),
		JWTSecretKey:   jwtSecretKey,
		AccessTokenTTL: time.Duration(accessTokenTTLSeconds) * time.Second,
		GeminiAPIKey:   utils.GetEnv("GEMINI_API_KEY", "", log),
		GeminiModel:    utils.GetEnv("GEMINI_MODEL", "gemini-1.5-flash", log),
		MaxUploadBytes: int64(maxUploadMB) * 1024 * 1024,
	}
}
