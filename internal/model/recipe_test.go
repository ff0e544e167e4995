package model

import (
	"testing"

	pgvector "github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
)

func TestRecipePatch_Apply(t *testing.T) {
	title := "Shakshuka"
	servings := 3
	rec := Recipe{ID: 7, Title: "Eggs", Ingredients: "eggs", PrepTime: 15, Servings: 2}

	RecipePatch{Title: &title, Servings: &servings}.Apply(&rec)

	assert.Equal(t, uint(7), rec.ID)
	assert.Equal(t, "Shakshuka", rec.Title)
	assert.Equal(t, "eggs", rec.Ingredients)
	assert.Equal(t, 15, rec.PrepTime)
	assert.Equal(t, 3, rec.Servings)
}

func TestRecipePatch_Flags(t *testing.T) {
	assert.True(t, RecipePatch{}.Empty())

	saved := true
	p := RecipePatch{IsSaved: &saved}
	assert.False(t, p.Empty())
	assert.False(t, p.TouchesSearchText())

	mealType := "Dinner"
	assert.True(t, RecipePatch{MealType: &mealType}.TouchesSearchText())
}

func TestRecipe_Clone(t *testing.T) {
	owner := "user-1"
	rec := Recipe{Title: "Soup", UserID: &owner, Embedding: pgvector.NewVector([]float32{1, 2, 3})}

	c := rec.Clone()
	*c.UserID = "someone-else"
	c.Embedding.Slice()[0] = 9

	assert.Equal(t, "user-1", *rec.UserID)
	assert.Equal(t, float32(1), rec.Embedding.Slice()[0])
}

func TestNewRecipe(t *testing.T) {
	owner := "user-2"
	d := RecipeDraft{Title: "Tacos", MealType: "Dinner", PrepTime: 20, Servings: 4}

	rec := NewRecipe(d, &owner, true)

	assert.Zero(t, rec.ID)
	assert.Equal(t, "Tacos", rec.Title)
	assert.Equal(t, &owner, rec.UserID)
	assert.True(t, rec.IsSaved)
	assert.Contains(t, rec.SearchText(), "Dinner")
}
