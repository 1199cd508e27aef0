package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/playdeck/gameguide-backend/internal/domain"
	"github.com/playdeck/gameguide-backend/internal/http/response"
	"github.com/playdeck/gameguide-backend/internal/platform/logger"
	"github.com/playdeck/gameguide-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
	chatService services.ChatService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService, chatService services.ChatService) *AuthHandler {
	return &AuthHandler{
		log:         log.With("handler", "AuthHandler"),
		authService: authService,
		chatService: chatService,
	}
}

// POST /api/register
func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		UserName string `json:"userName"`
		Gender   string `json:"gender"`
		Age      int    `json:"age"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user := types.User{
		UserName: req.UserName,
		Gender:   req.Gender,
		Age:      req.Age,
	}
	created, err := ah.authService.RegisterUser(c.Request.Context(), &user)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		case errors.Is(err, services.ErrUserNameTaken):
			response.RespondError(c, http.StatusConflict, "username_taken", err)
		default:
			ah.log.Error("Register failed", "error", err)
			response.RespondError(c, http.StatusInternalServerError, "registration_failed", err)
		}
		return
	}
	response.RespondCreated(c, gin.H{"user": created})
}

// POST /api/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		UserName string `json:"userName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	token, user, err := ah.authService.LoginUser(c.Request.Context(), req.UserName)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		case errors.Is(err, services.ErrUserNotFound):
			response.RespondError(c, http.StatusUnauthorized, "unknown_username", err)
		default:
			ah.log.Error("Login failed", "error", err)
			response.RespondError(c, http.StatusInternalServerError, "login_failed", err)
		}
		return
	}
	chatHistory, err := ah.chatService.HistoryForUser(c.Request.Context(), user.ID)
	if err != nil {
		ah.log.Error("Login history reload failed", "error", err, "user_id", user.ID)
		response.RespondError(c, http.StatusInternalServerError, "login_failed", err)
		return
	}
	expiresIn := int(ah.authService.SessionTTL().Seconds())
	response.RespondOK(c, gin.H{
		"token":       token,
		"expiresIn":   expiresIn,
		"user":        user,
		"chatHistory": chatHistory,
	})
}

// POST /api/logout
func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.LogoutUser(c.Request.Context()); err != nil {
		response.RespondError(c, http.StatusBadRequest, "logout_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
