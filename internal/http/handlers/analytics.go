package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playdeck/gameguide-backend/internal/http/response"
	"github.com/playdeck/gameguide-backend/internal/platform/logger"
	"github.com/playdeck/gameguide-backend/internal/services"
)

type AnalyticsHandler struct {
	log              *logger.Logger
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(log *logger.Logger, analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		log:              log.With("handler", "AnalyticsHandler"),
		analyticsService: analyticsService,
	}
}

// GET /api/analytics/users
func (h *AnalyticsHandler) Users(c *gin.Context) {
	report, err := h.analyticsService.Users(c.Request.Context())
	if err != nil {
		h.log.Error("Users analytics failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "analytics_failed", err)
		return
	}
	response.RespondOK(c, report)
}

// GET /api/analytics/feedback
func (h *AnalyticsHandler) Feedback(c *gin.Context) {
	report, err := h.analyticsService.Feedback(c.Request.Context())
	if err != nil {
		h.log.Error("Feedback analytics failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "analytics_failed", err)
		return
	}
	response.RespondOK(c, report)
}

// GET /api/analytics/games
func (h *AnalyticsHandler) Games(c *gin.Context) {
	report, err := h.analyticsService.Games(c.Request.Context())
	if err != nil {
		h.log.Error("Games analytics failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "analytics_failed", err)
		return
	}
	response.RespondOK(c, report)
}

// GET /api/analytics/chats
func (h *AnalyticsHandler) Chats(c *gin.Context) {
	report, err := h.analyticsService.Chats(c.Request.Context())
	if err != nil {
		h.log.Error("Chats analytics failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "analytics_failed", err)
		return
	}
	response.RespondOK(c, report)
}

// GET /api/analytics/search-performance
func (h *AnalyticsHandler) SearchPerformance(c *gin.Context) {
	response.RespondOK(c, gin.H{"benchmarks": h.analyticsService.SearchPerformance()})
}
