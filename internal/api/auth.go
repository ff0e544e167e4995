package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-chat/backend/internal/service"
)

// AuthHandler turns identity-provider tokens into sessions.
type AuthHandler struct {
	sessions service.ISessionService
	logger   *zap.Logger
}

func NewAuthHandler(sessions service.ISessionService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, logger: logger}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/session", h.CreateSession)
}

// CreateSession verifies the ID token and records the sign-in.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var req SessionRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.sessions.SignIn(c.Request.Context(), req.IDToken)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
