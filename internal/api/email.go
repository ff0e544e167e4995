package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-chat/backend/internal/apperrors"
	"github.com/pageza/recipe-chat/backend/internal/service"
)

type EmailHandler struct {
	email  service.IEmailService
	logger *zap.Logger
}

func NewEmailHandler(email service.IEmailService, logger *zap.Logger) *EmailHandler {
	return &EmailHandler{email: email, logger: logger}
}

func (h *EmailHandler) RegisterRoutes(router *gin.RouterGroup) {
	email := router.Group("/email")
	{
		email.POST("/recipe", h.SendRecipe)
		email.POST("/test", h.SendTest)
	}
}

// SendRecipe emails a formatted recipe to the recipient.
func (h *EmailHandler) SendRecipe(c *gin.Context) {
	var req EmailRecipeRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.email.SendRecipeExport(c.Request.Context(), req.RecipientEmail, req.Recipe)
	if err != nil {
		respondError(c, h.logger, apperrors.NewProviderError("email", err))
		return
	}
	c.JSON(http.StatusOK, EmailResponse{
		Message:    "Recipe sent to " + req.RecipientEmail,
		ArchiveURL: result.ArchiveURL,
		Warning:    result.Warning,
	})
}

// SendTest sends the welcome email so operators can check delivery.
func (h *EmailHandler) SendTest(c *gin.Context) {
	var req TestEmailRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.email.SendWelcomeEmail(c.Request.Context(), req.Email, req.Name); err != nil {
		respondError(c, h.logger, apperrors.NewProviderError("email", err))
		return
	}
	c.JSON(http.StatusOK, EmailResponse{Message: "Test email sent to " + req.Email})
}
