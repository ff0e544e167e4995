package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-chat/backend/internal/apperrors"
	"github.com/pageza/recipe-chat/backend/internal/middleware"
	"github.com/pageza/recipe-chat/backend/internal/service"
)

func TestEmailHandler_SendRecipe(t *testing.T) {
	email := new(MockEmailService)
	r := newTestRouter(NewEmailHandler(email, nil).RegisterRoutes)

	recipe := service.RecipeExport{Title: "Pesto", Ingredients: "basil", Instructions: "Blend"}
	email.On("SendRecipeExport", mock.Anything, "cook@example.com", recipe).
		Return(&service.ExportResult{ArchiveURL: "https://example.com/a.html"}, nil)

	w := doJSON(t, r, http.MethodPost, "/api/email/recipe", map[string]any{
		"recipientEmail": "cook@example.com",
		"recipe":         map[string]any{"title": "Pesto", "ingredients": "basil", "instructions": "Blend"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[EmailResponse](t, w)
	assert.Equal(t, "https://example.com/a.html", resp.ArchiveURL)
	email.AssertExpectations(t)
}

func TestEmailHandler_SendRecipe_Validation(t *testing.T) {
	email := new(MockEmailService)
	r := newTestRouter(NewEmailHandler(email, nil).RegisterRoutes)

	w := doJSON(t, r, http.MethodPost, "/api/email/recipe", map[string]any{
		"recipientEmail": "not-an-email",
		"recipe":         map[string]any{"title": "Pesto"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[middleware.ErrorResponse](t, w)
	assert.Contains(t, body.Details, "recipientEmail")
	assert.Contains(t, body.Details, "ingredients")
	email.AssertNotCalled(t, "SendRecipeExport", mock.Anything, mock.Anything, mock.Anything)
}

func TestEmailHandler_SendFailure(t *testing.T) {
	email := new(MockEmailService)
	r := newTestRouter(NewEmailHandler(email, nil).RegisterRoutes)

	email.On("SendWelcomeEmail", mock.Anything, "ops@example.com", "").Return(errors.New("resend: 401 invalid api key"))

	w := doJSON(t, r, http.MethodPost, "/api/email/test", map[string]any{"email": "ops@example.com"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode[middleware.ErrorResponse](t, w)
	assert.Equal(t, apperrors.CodeProviderError, body.Code)
	assert.NotContains(t, w.Body.String(), "api key")
}

func TestEmailHandler_SendTest(t *testing.T) {
	email := new(MockEmailService)
	r := newTestRouter(NewEmailHandler(email, nil).RegisterRoutes)

	email.On("SendWelcomeEmail", mock.Anything, "ops@example.com", "Ops").Return(nil)

	w := doJSON(t, r, http.MethodPost, "/api/email/test", map[string]any{"email": "ops@example.com", "name": "Ops"})
	assert.Equal(t, http.StatusOK, w.Code)
	email.AssertExpectations(t)
}
