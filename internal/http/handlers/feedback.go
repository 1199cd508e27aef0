package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/playdeck/gameguide-backend/internal/http/response"
	"github.com/playdeck/gameguide-backend/internal/services"
)

type FeedbackHandler struct {
	feedbackService services.FeedbackService
}

func NewFeedbackHandler(feedbackService services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// GET /api/feedback/:id
func (h *FeedbackHandler) Get(c *gin.Context) {
	feedbackID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_feedback_id", err)
		return
	}
	feedback, err := h.feedbackService.Get(c.Request.Context(), feedbackID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFeedbackNotFound):
			response.RespondError(c, http.StatusNotFound, "feedback_not_found", err)
		case errors.Is(err, services.ErrNotAuthenticated):
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		default:
			response.RespondError(c, http.StatusInternalServerError, "feedback_failed", err)
		}
		return
	}
	response.RespondOK(c, gin.H{"feedback": feedback})
}

// PUT /api/feedback/:id
func (h *FeedbackHandler) Update(c *gin.Context) {
	feedbackID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_feedback_id", err)
		return
	}
	var req struct {
		FeedbackType string `json:"feedbackType"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	feedback, err := h.feedbackService.UpdateType(c.Request.Context(), feedbackID, req.FeedbackType)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		case errors.Is(err, services.ErrFeedbackNotFound):
			response.RespondError(c, http.StatusNotFound, "feedback_not_found", err)
		case errors.Is(err, services.ErrForbidden):
			response.RespondError(c, http.StatusForbidden, "forbidden", err)
		case errors.Is(err, services.ErrNotAuthenticated):
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		default:
			response.RespondError(c, http.StatusInternalServerError, "feedback_failed", err)
		}
		return
	}
	response.RespondOK(c, gin.H{"feedback": feedback})
}
