package api

import (
	"github.com/pageza/recipe-chat/backend/internal/model"
	"github.com/pageza/recipe-chat/backend/internal/service"
)

// CreateRecipeRequest is the body of POST /api/recipes. Zero prepTime and
// servings take the defaults.
type CreateRecipeRequest struct {
	Title        string  `json:"title" binding:"required"`
	Description  string  `json:"description"`
	Ingredients  string  `json:"ingredients"`
	Instructions string  `json:"instructions"`
	MealType     string  `json:"mealType"`
	PrepTime     int     `json:"prepTime" binding:"min=0"`
	Servings     int     `json:"servings" binding:"min=0"`
	UserID       *string `json:"userId"`
	IsSaved      bool    `json:"isSaved"`
}

func (r CreateRecipeRequest) draft() model.RecipeDraft {
	return model.RecipeDraft{
		Title:        r.Title,
		Description:  r.Description,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		MealType:     r.MealType,
		PrepTime:     r.PrepTime,
		Servings:     r.Servings,
	}
}

// GenerateRecipeRequest is the body of POST /api/generate-recipe.
type GenerateRecipeRequest struct {
	Prompt         string `json:"prompt" binding:"required"`
	MealType       string `json:"mealType"`
	MainIngredient string `json:"mainIngredient"`
	Dietary        string `json:"dietary"`
}

func (r GenerateRecipeRequest) options() model.GenerationOptions {
	return model.GenerationOptions{
		Prompt:         r.Prompt,
		MealType:       r.MealType,
		MainIngredient: r.MainIngredient,
		Dietary:        r.Dietary,
	}
}

// ChatRequest is the body of POST /api/chat. The full history is sent on
// every turn.
type ChatRequest struct {
	Messages       []model.ChatMessage `json:"messages" binding:"dive"`
	MealType       string              `json:"mealType"`
	MainIngredient string              `json:"mainIngredient"`
	Dietary        string              `json:"dietary"`
}

func (r ChatRequest) toService() service.ChatRequest {
	return service.ChatRequest{
		History: r.Messages,
		Options: model.GenerationOptions{
			MealType:       r.MealType,
			MainIngredient: r.MainIngredient,
			Dietary:        r.Dietary,
		},
	}
}

type NewsletterRequest struct {
	Email string `json:"email"`
}

type EmailRecipeRequest struct {
	RecipientEmail string               `json:"recipientEmail" binding:"required,email"`
	Recipe         service.RecipeExport `json:"recipe"`
}

type TestEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

type SessionRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// EmailResponse acknowledges a sent email.
type EmailResponse struct {
	Message    string `json:"message"`
	ArchiveURL string `json:"archiveUrl,omitempty"`
	Warning    string `json:"warning,omitempty"`
}
