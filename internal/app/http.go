package app

import (
	httpserver "github.com/playdeck/gameguide-backend/internal/http"
	httpH "github.com/playdeck/gameguide-backend/internal/http/handlers"
	httpMW "github.com/playdeck/gameguide-backend/internal/http/middleware"
	"github.com/playdeck/gameguide-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health    *httpH.HealthHandler
	Auth      *httpH.AuthHandler
	Chat      *httpH.ChatHandler
	Feedback  *httpH.FeedbackHandler
	Analytics *httpH.AnalyticsHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(),
		Auth:      httpH.NewAuthHandler(log, serviceset.Auth, serviceset.Chat),
		Chat:      httpH.NewChatHandler(log, serviceset.Chat),
		Feedback:  httpH.NewFeedbackHandler(serviceset.Feedback),
		Analytics: httpH.NewAnalyticsHandler(log, serviceset.Analytics),
	}
}

func wireMiddleware(log *logger.Logger, serviceset Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, serviceset.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlerset Handlers, middleware Middleware) *httpserver.Server {
	return httpserver.NewServer(httpserver.RouterConfig{
		Log:              log,
		ServiceName:      cfg.ServiceName,
		HealthHandler:    handlerset.Health,
		AuthHandler:      handlerset.Auth,
		AuthMiddleware:   middleware.Auth,
		ChatHandler:      handlerset.Chat,
		FeedbackHandler:  handlerset.Feedback,
		AnalyticsHandler: handlerset.Analytics,
	})
}
