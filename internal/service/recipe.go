package service

import (
	"context"
	"errors"
	"strings"

	"github.com/pageza/recipe-chat/backend/internal/apperrors"
	"github.com/pageza/recipe-chat/backend/internal/model"
	"github.com/pageza/recipe-chat/backend/internal/store"
)

// RecipeService validates recipe input and maps store failures onto the
// application error codes.
type RecipeService struct {
	store store.RecipeStore
}

func NewRecipeService(s store.RecipeStore) *RecipeService {
	return &RecipeService{store: s}
}

// CreateRecipe stores a new recipe owned by ownerID (which may be nil).
// Omitted prepTime and servings take the usual defaults.
func (s *RecipeService) CreateRecipe(ctx context.Context, draft model.RecipeDraft, ownerID *string, saved bool) (*model.Recipe, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	if draft.PrepTime == 0 {
		draft.PrepTime = model.DefaultPrepTime
	}
	if draft.Servings == 0 {
		draft.Servings = model.DefaultServings
	}
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	rec, err := s.store.CreateRecipe(ctx, model.NewRecipe(draft, ownerID, saved))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to save recipe", err)
	}
	return rec, nil
}

// ListRecipes returns recipes in insertion order, optionally filtered by
// owner, or the matches for query when it is non-empty.
func (s *RecipeService) ListRecipes(ctx context.Context, ownerID *string, query string) ([]model.Recipe, error) {
	var (
		recipes []model.Recipe
		err     error
	)
	if strings.TrimSpace(query) != "" {
		recipes, err = s.store.SearchRecipes(ctx, query, ownerID)
	} else {
		recipes, err = s.store.ListRecipes(ctx, ownerID)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list recipes", err)
	}
	return recipes, nil
}

func (s *RecipeService) GetRecipe(ctx context.Context, id uint) (*model.Recipe, error) {
	rec, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "failed to load recipe")
	}
	return rec, nil
}

// UpdateRecipe merges patch into the recipe. id and createdAt never change.
// A missing recipe is reported before the patch is validated.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id uint, patch model.RecipePatch) (*model.Recipe, error) {
	if _, err := s.store.GetRecipe(ctx, id); err != nil {
		return nil, mapStoreError(err, "failed to load recipe")
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	rec, err := s.store.UpdateRecipe(ctx, id, patch)
	if err != nil {
		return nil, mapStoreError(err, "failed to update recipe")
	}
	return rec, nil
}

// DeleteRecipe removes the recipe and reports whether it existed.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uint) (bool, error) {
	deleted, err := s.store.DeleteRecipe(ctx, id)
	if err != nil {
		return false, apperrors.NewInternalError("failed to delete recipe", err)
	}
	return deleted, nil
}

func validateDraft(d model.RecipeDraft) error {
	switch {
	case d.Title == "":
		return fieldError("title", "is required")
	case d.PrepTime <= 0:
		return fieldError("prepTime", "must be greater than 0")
	case d.Servings <= 0:
		return fieldError("servings", "must be greater than 0")
	}
	return nil
}

func validatePatch(p model.RecipePatch) error {
	if p.Empty() {
		return apperrors.NewValidationError("no fields to update")
	}
	switch {
	case p.Title != nil && strings.TrimSpace(*p.Title) == "":
		return fieldError("title", "must not be empty")
	case p.PrepTime != nil && *p.PrepTime <= 0:
		return fieldError("prepTime", "must be greater than 0")
	case p.Servings != nil && *p.Servings <= 0:
		return fieldError("servings", "must be greater than 0")
	}
	return nil
}

func fieldError(field, msg string) *apperrors.AppError {
	err := apperrors.NewValidationError("invalid recipe")
	err.Fields = map[string]string{field: msg}
	return err
}

func mapStoreError(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NewNotFoundError("recipe").WithCause(err)
	}
	return apperrors.NewInternalError(msg, err)
}
