// Package store persists recipes, newsletter subscriptions and users.
package store

import (
	"context"
	"errors"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/pageza/recipe-chat/backend/internal/model"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("store: record not found")

// RecipeStore keeps recipes in insertion order with monotonically
// increasing ids.
type RecipeStore interface {
	CreateRecipe(ctx context.Context, recipe model.Recipe) (*model.Recipe, error)
	// ListRecipes returns every recipe, or only ownerID's when it is non-nil.
	ListRecipes(ctx context.Context, ownerID *string) ([]model.Recipe, error)
	SearchRecipes(ctx context.Context, query string, ownerID *string) ([]model.Recipe, error)
	GetRecipe(ctx context.Context, id uint) (*model.Recipe, error)
	UpdateRecipe(ctx context.Context, id uint, patch model.RecipePatch) (*model.Recipe, error)
	// DeleteRecipe reports whether a recipe was removed. Deleting a missing
	// id is not an error.
	DeleteRecipe(ctx context.Context, id uint) (bool, error)
}

type NewsletterStore interface {
	// Subscribe returns the subscription for email, creating it if needed.
	Subscribe(ctx context.Context, email string) (*model.Subscription, bool, error)
}

type UserStore interface {
	// UpsertUser records a sign-in and reports whether the user is new.
	UpsertUser(ctx context.Context, user model.User) (*model.User, bool, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
}

// Store is everything the API persists.
type Store interface {
	RecipeStore
	NewsletterStore
	UserStore
	Ping(ctx context.Context) error
	Close() error
}

// EmbedFunc computes a recipe's search embedding.
type EmbedFunc func(model.Recipe) pgvector.Vector
