package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-chat/backend/internal/apperrors"
	"github.com/pageza/recipe-chat/backend/internal/model"
)

func TestParser_Parse(t *testing.T) {
	defaults := ParseDefaults{Title: UntitledRecipe}

	t.Run("splits reply and recipe", func(t *testing.T) {
		text := `Try this quick omelette!
{"title":"Herb Omelette","description":"Fluffy eggs","ingredients":"3 eggs\nchives","instructions":"Whisk\nCook","mealType":"Breakfast","prepTime":10,"servings":1}`

		got, err := Parser{}.Parse(text, defaults)
		require.NoError(t, err)
		assert.Equal(t, "Try this quick omelette!", got.Reply)
		assert.Equal(t, "Herb Omelette", got.Recipe.Title)
		assert.Equal(t, "3 eggs\nchives", got.Recipe.Ingredients)
		assert.Equal(t, "Breakfast", got.Recipe.MealType)
		assert.Equal(t, 10, got.Recipe.PrepTime)
		assert.Equal(t, 1, got.Recipe.Servings)
	})

	t.Run("strips code fences", func(t *testing.T) {
		text := "Here you go\n```json\n{\"title\":\"Soup\",\"prepTime\":25,\"servings\":2}\n```"

		got, err := Parser{}.Parse(text, defaults)
		require.NoError(t, err)
		assert.Equal(t, "Here you go", got.Reply)
		assert.Equal(t, "Soup", got.Recipe.Title)
		assert.Equal(t, 25, got.Recipe.PrepTime)
	})

	t.Run("uses default reply when json comes first", func(t *testing.T) {
		got, err := Parser{}.Parse(`{"title":"Toast"}`, defaults)
		require.NoError(t, err)
		assert.Equal(t, DefaultReply, got.Reply)
	})

	t.Run("coerces text numbers", func(t *testing.T) {
		got, err := Parser{}.Parse(`{"title":"Pancakes","prepTime":"10 minutes","servings":"serves 6"}`, defaults)
		require.NoError(t, err)
		assert.Equal(t, 10, got.Recipe.PrepTime)
		assert.Equal(t, 6, got.Recipe.Servings)
	})

	t.Run("falls back to defaults for missing or garbled numbers", func(t *testing.T) {
		got, err := Parser{}.Parse(`{"title":"Stew","prepTime":"a while","servings":0}`, defaults)
		require.NoError(t, err)
		assert.Equal(t, model.DefaultPrepTime, got.Recipe.PrepTime)
		assert.Equal(t, model.DefaultServings, got.Recipe.Servings)
	})

	t.Run("fills title and meal type from defaults", func(t *testing.T) {
		got, err := Parser{}.Parse(`{"title":"  ","ingredients":"rice"}`, ParseDefaults{Title: UntitledRecipe, MealType: "Dinner"})
		require.NoError(t, err)
		assert.Equal(t, UntitledRecipe, got.Recipe.Title)
		assert.Equal(t, "Dinner", got.Recipe.MealType)
	})

	t.Run("accepts alternate keys and list fields", func(t *testing.T) {
		text := `{"name":"Salad","ingredients":["lettuce","tomato"],"instructions":["Chop","Toss"],"meal_type":"Lunch","prep_time":"5"}`

		got, err := Parser{}.Parse(text, defaults)
		require.NoError(t, err)
		assert.Equal(t, "Salad", got.Recipe.Title)
		assert.Equal(t, "lettuce\ntomato", got.Recipe.Ingredients)
		assert.Equal(t, "Chop\nToss", got.Recipe.Instructions)
		assert.Equal(t, "Lunch", got.Recipe.MealType)
		assert.Equal(t, 5, got.Recipe.PrepTime)
	})

	t.Run("no json object", func(t *testing.T) {
		_, err := Parser{}.Parse("I'm not sure what to cook.", defaults)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrMalformedRecipeJSON)
		assert.ErrorIs(t, err, apperrors.ErrProvider)
	})

	t.Run("undecodable json", func(t *testing.T) {
		_, err := Parser{}.Parse(`Here: {"title": "Broken",}`, defaults)
		assert.ErrorIs(t, err, apperrors.ErrMalformedRecipeJSON)
	})
}

func TestParser_GreedyVersusBalanced(t *testing.T) {
	text := `Enjoy! {"title":"Chili","description":"uses {smoked} paprika","prepTime":40} Let me know {if you want more}.`

	_, err := Parser{}.Parse(text, ParseDefaults{})
	assert.ErrorIs(t, err, apperrors.ErrMalformedRecipeJSON, "greedy span runs to the last brace")

	got, err := Parser{Balanced: true}.Parse(text, ParseDefaults{})
	require.NoError(t, err)
	assert.Equal(t, "Chili", got.Recipe.Title)
	assert.Equal(t, "uses {smoked} paprika", got.Recipe.Description)
	assert.Equal(t, 40, got.Recipe.PrepTime)
}

func TestBalancedObject(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		found bool
	}{
		{"simple", `x {"a":1} y`, `{"a":1}`, true},
		{"nested", `{"a":{"b":2}} tail}`, `{"a":{"b":2}}`, true},
		{"escaped quote", `{"a":"say \"}\""}`, `{"a":"say \"}\""}`, true},
		{"unterminated", `{"a":1`, "", false},
		{"none", `plain text`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := balancedObject(tt.in)
			assert.Equal(t, tt.found, ok)
			if ok {
				assert.Equal(t, tt.want, tt.in[start:end+1])
			}
		})
	}
}
