package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-chat/backend/internal/service"
)

// LLMHandler exposes the AI recipe endpoints.
type LLMHandler struct {
	chat   service.IChatService
	logger *zap.Logger
}

func NewLLMHandler(chat service.IChatService, logger *zap.Logger) *LLMHandler {
	return &LLMHandler{chat: chat, logger: logger}
}

func (h *LLMHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/generate-recipe", h.GenerateRecipe)
	router.POST("/chat", h.Chat)
}

// GenerateRecipe handles a one-shot prompt and returns the recipe draft.
func (h *LLMHandler) GenerateRecipe(c *gin.Context) {
	var req GenerateRecipeRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	recipe, err := h.chat.GenerateRecipe(c.Request.Context(), req.options())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// Chat answers the last user message of the submitted history.
func (h *LLMHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	reply, err := h.chat.Chat(c.Request.Context(), req.toService())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}
