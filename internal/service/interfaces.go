package service

import (
	"context"

	"github.com/pageza/recipe-chat/backend/internal/auth"
	"github.com/pageza/recipe-chat/backend/internal/model"
)

// IChatService defines the AI generation operations
type IChatService interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatReply, error)
	GenerateRecipe(ctx context.Context, opts model.GenerationOptions) (*model.RecipeDraft, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, draft model.RecipeDraft, ownerID *string, saved bool) (*model.Recipe, error)
	ListRecipes(ctx context.Context, ownerID *string, query string) ([]model.Recipe, error)
	GetRecipe(ctx context.Context, id uint) (*model.Recipe, error)
	UpdateRecipe(ctx context.Context, id uint, patch model.RecipePatch) (*model.Recipe, error)
	DeleteRecipe(ctx context.Context, id uint) (bool, error)
}

// IEmailService defines the transactional emails
type IEmailService interface {
	SendWelcomeEmail(ctx context.Context, to, name string) error
	SendNewsletterWelcome(ctx context.Context, to string) error
	SendRecipeExport(ctx context.Context, to string, recipe RecipeExport) (*ExportResult, error)
}

// INewsletterService defines newsletter signup
type INewsletterService interface {
	Subscribe(ctx context.Context, email string) (*NewsletterResult, error)
}

// ISessionService defines sign-in through the identity provider
type ISessionService interface {
	SignIn(ctx context.Context, idToken string) (*SessionResult, error)
	Authenticate(ctx context.Context, token string) (*auth.Identity, error)
}

var (
	_ IChatService       = (*ChatService)(nil)
	_ IRecipeService     = (*RecipeService)(nil)
	_ IEmailService      = (*EmailService)(nil)
	_ INewsletterService = (*NewsletterService)(nil)
	_ ISessionService    = (*SessionService)(nil)
)
