package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playdeck/gameguide-backend/internal/http/response"
	"github.com/playdeck/gameguide-backend/internal/platform/logger"
	"github.com/playdeck/gameguide-backend/internal/services"
)

type ChatHandler struct {
	log         *logger.Logger
	chatService services.ChatService
}

func NewChatHandler(log *logger.Logger, chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		log:         log.With("handler", "ChatHandler"),
		chatService: chatService,
	}
}

// POST /api/chats/ask
func (h *ChatHandler) Ask(c *gin.Context) {
	var req struct {
		Question string `json:"question"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	outcome, err := h.chatService.Ask(c.Request.Context(), req.Question)
	if err != nil {
		var limitErr *services.QuestionLimitError
		switch {
		case errors.As(err, &limitErr):
			response.RespondError(c, http.StatusTooManyRequests, "question_limit", err)
		case errors.Is(err, services.ErrInvalidInput):
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		case errors.Is(err, services.ErrNotAuthenticated):
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		default:
			h.log.Error("Ask failed", "error", err)
			response.RespondError(c, http.StatusInternalServerError, "ask_failed", err)
		}
		return
	}
	response.RespondOK(c, outcome)
}

// GET /api/chats
func (h *ChatHandler) History(c *gin.Context) {
	chats, err := h.chatService.History(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrNotAuthenticated) {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
			return
		}
		h.log.Error("History failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "history_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"chats": chats})
}
