package app

import (
	"time"

	"github.com/playdeck/gameguide-backend/internal/platform/logger"
	"github.com/playdeck/gameguide-backend/internal/utils"
)

type Config struct {
	Env          string
	Port         string
	ServiceName  string
	JWTSecretKey string
	// TokenTTL bounds the JWT lifetime. The Redis session expires on its
	// own sliding window, so the token deliberately outlives it.
	TokenTTL     time.Duration
	MaxQuestions int
	SearchTopK   int
}

func LoadConfig(log *logger.Logger) Config {
	env := utils.GetEnv("APP_ENV", "development", log)
	port := utils.GetEnv("PORT", "8080", log)
	serviceName := utils.GetEnv("SERVICE_NAME", "gameguide-backend", log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	tokenTTLHours := utils.GetEnvAsInt("JWT_TTL_HOURS", 24, log)
	maxQuestions := utils.GetEnvAsInt("MAX_QUESTIONS_PER_USER", 3, log)
	searchTopK := utils.GetEnvAsInt("SEARCH_TOP_K", 1, log)
	return Config{
		Env:          env,
		Port:         port,
		ServiceName:  serviceName,
		JWTSecretKey: jwtSecretKey,
		TokenTTL:     time.Duration(tokenTTLHours) * time.Hour,
		MaxQuestions: maxQuestions,
		SearchTopK:   searchTopK,
	}
}
