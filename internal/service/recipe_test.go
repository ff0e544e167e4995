package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-chat/backend/internal/apperrors"
	"github.com/pageza/recipe-chat/backend/internal/model"
	"github.com/pageza/recipe-chat/backend/internal/store"
)

func strPtr(s string) *string { return &s }

func TestRecipeService_CreateRecipe(t *testing.T) {
	svc := NewRecipeService(store.NewMemory())
	ctx := context.Background()

	rec, err := svc.CreateRecipe(ctx, model.RecipeDraft{Title: "  Tacos ", Ingredients: "tortillas"}, strPtr("u1"), true)
	require.NoError(t, err)
	assert.Equal(t, uint(1), rec.ID)
	assert.Equal(t, "Tacos", rec.Title)
	assert.Equal(t, model.DefaultPrepTime, rec.PrepTime)
	assert.Equal(t, model.DefaultServings, rec.Servings)
	assert.True(t, rec.IsSaved)
	require.NotNil(t, rec.UserID)
	assert.Equal(t, "u1", *rec.UserID)
	assert.False(t, rec.CreatedAt.IsZero())

	_, err = svc.CreateRecipe(ctx, model.RecipeDraft{Title: " "}, nil, false)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
	assert.Contains(t, appErr.Fields, "title")

	_, err = svc.CreateRecipe(ctx, model.RecipeDraft{Title: "x", PrepTime: -5}, nil, false)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRecipeService_ListAndSearch(t *testing.T) {
	svc := NewRecipeService(store.NewMemory())
	ctx := context.Background()

	_, err := svc.CreateRecipe(ctx, model.RecipeDraft{Title: "Lemon Chicken", Ingredients: "chicken, lemon"}, strPtr("u1"), false)
	require.NoError(t, err)
	_, err = svc.CreateRecipe(ctx, model.RecipeDraft{Title: "Lemon Bars", MealType: "Dessert"}, strPtr("u2"), false)
	require.NoError(t, err)

	all, err := svc.ListRecipes(ctx, nil, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Lemon Chicken", all[0].Title)

	mine, err := svc.ListRecipes(ctx, strPtr("u2"), "")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Lemon Bars", mine[0].Title)

	found, err := svc.ListRecipes(ctx, nil, "lemon dessert")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Lemon Bars", found[0].Title)
}

func TestRecipeService_UpdateGetDelete(t *testing.T) {
	svc := NewRecipeService(store.NewMemory())
	ctx := context.Background()

	rec, err := svc.CreateRecipe(ctx, model.RecipeDraft{Title: "Soup"}, nil, false)
	require.NoError(t, err)

	servings := 8
	updated, err := svc.UpdateRecipe(ctx, rec.ID, model.RecipePatch{Servings: &servings})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Servings)
	assert.Equal(t, "Soup", updated.Title)
	assert.Equal(t, rec.CreatedAt, updated.CreatedAt)

	_, err = svc.UpdateRecipe(ctx, rec.ID, model.RecipePatch{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.UpdateRecipe(ctx, rec.ID, model.RecipePatch{Title: strPtr("")})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.UpdateRecipe(ctx, 999, model.RecipePatch{Servings: &servings})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.UpdateRecipe(ctx, 999, model.RecipePatch{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "missing id wins over an empty patch")

	got, err := svc.GetRecipe(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Servings)

	deleted, err := svc.DeleteRecipe(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.DeleteRecipe(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = svc.GetRecipe(ctx, rec.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
