package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-chat/backend/internal/service"
)

type NewsletterHandler struct {
	newsletter service.INewsletterService
	logger     *zap.Logger
}

func NewNewsletterHandler(newsletter service.INewsletterService, logger *zap.Logger) *NewsletterHandler {
	return &NewsletterHandler{newsletter: newsletter, logger: logger}
}

func (h *NewsletterHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/newsletter", h.Subscribe)
}

// Subscribe answers 201 with the subscription. A repeat address returns the
// existing record with created false.
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req NewsletterRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.newsletter.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}
