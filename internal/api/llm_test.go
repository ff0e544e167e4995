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
	"github.com/pageza/recipe-chat/backend/internal/model"
	"github.com/pageza/recipe-chat/backend/internal/service"
)

func TestLLMHandler_Chat(t *testing.T) {
	chat := new(MockChatService)
	r := newTestRouter(NewLLMHandler(chat, nil).RegisterRoutes)

	draft := &model.RecipeDraft{Title: "Miso Soup", PrepTime: 15, Servings: 2}
	suggestion := &model.RecipeSuggestion{Title: draft.Title, Time: "15 min", Servings: "2 servings", FullRecipe: draft}
	chat.On("Chat", mock.Anything, service.ChatRequest{
		History: []model.ChatMessage{{Role: model.RoleUser, Content: "something warm"}},
		Options: model.GenerationOptions{MealType: "Dinner", Dietary: "Vegan"},
	}).Return(&service.ChatReply{
		Message:     model.ChatMessage{Role: model.RoleAssistant, Content: "Try this!", Recipe: suggestion},
		Recipe:      suggestion,
		Suggestions: []string{"Suggest something different"},
	}, nil)

	w := doJSON(t, r, http.MethodPost, "/api/chat", map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "something warm"}},
		"mealType": "Dinner",
		"dietary":  "Vegan",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode[map[string]any](t, w)
	message := body["message"].(map[string]any)
	assert.Equal(t, "assistant", message["role"])
	assert.Equal(t, "Try this!", message["content"])
	recipe := body["recipe"].(map[string]any)
	assert.Equal(t, "Miso Soup", recipe["title"])
	assert.Equal(t, "15 min", recipe["time"])
	assert.Equal(t, "2 servings", recipe["servings"])
	assert.Contains(t, recipe, "fullRecipe")
	assert.NotEmpty(t, body["suggestions"])
	chat.AssertExpectations(t)
}

func TestLLMHandler_Chat_Errors(t *testing.T) {
	chat := new(MockChatService)
	r := newTestRouter(NewLLMHandler(chat, nil).RegisterRoutes)

	w := doJSON(t, r, http.MethodPost, "/api/chat", map[string]any{
		"messages": []map[string]string{{"role": "robot", "content": "hi"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.CodeValidationFailed, decode[middleware.ErrorResponse](t, w).Code)

	chat.On("Chat", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewInvalidConversationState("the last message must come from the user")).Once()
	w = doJSON(t, r, http.MethodPost, "/api/chat", map[string]any{
		"messages": []map[string]string{{"role": "assistant", "content": "hi"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.CodeInvalidConversationState, decode[middleware.ErrorResponse](t, w).Code)

	chat.On("Chat", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewProviderError("gemini", errors.New("quota exceeded for key AIza..."))).Once()
	w = doJSON(t, r, http.MethodPost, "/api/chat", map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "hi"}},
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperrors.CodeProviderError, decode[middleware.ErrorResponse](t, w).Code)
	assert.NotContains(t, w.Body.String(), "AIza")

	chat.On("Chat", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewMalformedRecipeJSON(errors.New("no JSON object"))).Once()
	w = doJSON(t, r, http.MethodPost, "/api/chat", map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "hi"}},
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperrors.CodeMalformedRecipeJSON, decode[middleware.ErrorResponse](t, w).Code)
}

func TestLLMHandler_GenerateRecipe(t *testing.T) {
	chat := new(MockChatService)
	r := newTestRouter(NewLLMHandler(chat, nil).RegisterRoutes)

	chat.On("GenerateRecipe", mock.Anything, model.GenerationOptions{Prompt: "quick lunch", MainIngredient: "Chickpeas"}).
		Return(&model.RecipeDraft{Title: "Chickpea Salad", PrepTime: 10, Servings: 2}, nil)

	w := doJSON(t, r, http.MethodPost, "/api/generate-recipe", map[string]any{"prompt": "quick lunch", "mainIngredient": "Chickpeas"})
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[model.RecipeDraft](t, w)
	assert.Equal(t, "Chickpea Salad", got.Title)

	w = doJSON(t, r, http.MethodPost, "/api/generate-recipe", map[string]any{"mealType": "Lunch"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[middleware.ErrorResponse](t, w)
	assert.Equal(t, apperrors.CodeValidationFailed, body.Code)
	assert.Contains(t, body.Details, "prompt")

	chat.AssertNumberOfCalls(t, "GenerateRecipe", 1)
}
