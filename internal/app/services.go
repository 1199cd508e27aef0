package app

import (
	"github.com/playdeck/gameguide-backend/internal/platform/logger"
	"github.com/playdeck/gameguide-backend/internal/services"
)

type Services struct {
	Auth      services.AuthService
	Answer    services.AnswerService
	Chat      services.ChatService
	Feedback  services.FeedbackService
	Catalog   services.CatalogService
	Analytics services.AnalyticsService
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, reposet Repos) Services {
	log.Info("Wiring services...")

	relatedness := services.NewRelatednessService(log, clients.Openai)
	rewrite := services.NewRewriteService(log, clients.Openai)
	search := services.NewGameSearchService(log, clients.Openai, clients.Vector)
	generate := services.NewAnswerGenService(log, clients.Openai)
	answer := services.NewAnswerService(log, relatedness, rewrite, search, generate, reposet.SearchedGame)

	return Services{
		Auth:      services.NewAuthService(log, reposet.User, clients.Sessions, cfg.JWTSecretKey, cfg.TokenTTL),
		Answer:    answer,
		Chat:      services.NewChatService(log, answer, reposet.Chat, reposet.Feedback, cfg.MaxQuestions, cfg.SearchTopK),
		Feedback:  services.NewFeedbackService(log, reposet.Feedback),
		Catalog:   services.NewCatalogService(log, clients.Openai, clients.Vector),
		Analytics: services.NewAnalyticsService(log, reposet.Analytics),
	}
}
