package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/playdeck/gameguide-backend/internal/http/handlers"
	httpMW "github.com/playdeck/gameguide-backend/internal/http/middleware"
	"github.com/playdeck/gameguide-backend/internal/platform/logger"
)

const defaultServiceName = "gameguide-backend"

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string

	AuthHandler      *httpH.AuthHandler
	AuthMiddleware   *httpMW.AuthMiddleware
	ChatHandler      *httpH.ChatHandler
	FeedbackHandler  *httpH.FeedbackHandler
	AnalyticsHandler *httpH.AnalyticsHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}

		// Analytics endpoints serve aggregates only and stay public.
		if cfg.AnalyticsHandler != nil {
			api.GET("/analytics/users", cfg.AnalyticsHandler.Users)
			api.GET("/analytics/feedback", cfg.AnalyticsHandler.Feedback)
			api.GET("/analytics/games", cfg.AnalyticsHandler.Games)
			api.GET("/analytics/chats", cfg.AnalyticsHandler.Chats)
			api.GET("/analytics/search-performance", cfg.AnalyticsHandler.SearchPerformance)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// Chat
		if cfg.ChatHandler != nil {
			protected.POST("/chats/ask", cfg.ChatHandler.Ask)
			protected.GET("/chats", cfg.ChatHandler.History)
		}

		// Feedback
		if cfg.FeedbackHandler != nil {
			protected.GET("/feedback/:id", cfg.FeedbackHandler.Get)
			protected.PUT("/feedback/:id", cfg.FeedbackHandler.Update)
		}
	}

	return r
}
