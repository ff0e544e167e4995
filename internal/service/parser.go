package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/pageza/recipe-chat/backend/internal/apperrors"
	"github.com/pageza/recipe-chat/backend/internal/model"
)

// DefaultReply is used when a completion has no text before its JSON.
const DefaultReply = "Here's a recipe I think you'll enjoy!"

var fenceMarker = regexp.MustCompile("```[A-Za-z0-9_-]*")

// Completion is a parsed model answer: the conversational text and the
// recipe that followed it.
type Completion struct {
	Reply  string
	Recipe model.RecipeDraft
}

// ParseDefaults fill fields the model left out. Zero numeric defaults fall
// back to model.DefaultPrepTime and model.DefaultServings.
type ParseDefaults struct {
	Title       string
	Description string
	MealType    string
	PrepTime    int
	Servings    int
}

// rawRecipe accepts the loose shapes models produce.
type rawRecipe struct {
	Title         model.TextField `json:"title"`
	Name          model.TextField `json:"name"`
	Description   model.TextField `json:"description"`
	Ingredients   model.TextField `json:"ingredients"`
	Instructions  model.TextField `json:"instructions"`
	MealType      model.TextField `json:"mealType"`
	MealTypeSnake model.TextField `json:"meal_type"`
	PrepTime      model.RawField  `json:"prepTime"`
	PrepTimeSnake model.RawField  `json:"prep_time"`
	Servings      model.RawField  `json:"servings"`
}

// Parser turns provider text into a Completion.
//
// By default the JSON candidate is the greedy span from the first '{' to the
// last '}'. With Balanced set it is the first complete, string-aware object,
// which tolerates trailing prose containing braces.
type Parser struct {
	Balanced bool
}

// Parse extracts the reply and recipe from a completion. It fails with a
// MALFORMED_RECIPE_JSON error when no decodable object is present.
func (p Parser) Parse(text string, defaults ParseDefaults) (*Completion, error) {
	cleaned := fenceMarker.ReplaceAllString(text, "")

	start, end, ok := p.locate(cleaned)
	if !ok {
		return nil, apperrors.NewMalformedRecipeJSON(errors.New("no JSON object in completion"))
	}

	var raw rawRecipe
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &raw); err != nil {
		return nil, apperrors.NewMalformedRecipeJSON(fmt.Errorf("decode recipe: %w", err))
	}

	reply := strings.TrimSpace(cleaned[:start])
	if reply == "" {
		reply = DefaultReply
	}

	prepDefault := defaults.PrepTime
	if prepDefault <= 0 {
		prepDefault = model.DefaultPrepTime
	}
	servingsDefault := defaults.Servings
	if servingsDefault <= 0 {
		servingsDefault = model.DefaultServings
	}

	prep := raw.PrepTime
	if prep.Kind == model.RawMissing {
		prep = raw.PrepTimeSnake
	}

	return &Completion{
		Reply: reply,
		Recipe: model.RecipeDraft{
			Title:        strings.TrimSpace(raw.Title.Or(raw.Name.Or(defaults.Title))),
			Description:  raw.Description.Or(defaults.Description),
			Ingredients:  raw.Ingredients.Or(""),
			Instructions: raw.Instructions.Or(""),
			MealType:     strings.TrimSpace(raw.MealType.Or(raw.MealTypeSnake.Or(defaults.MealType))),
			PrepTime:     prep.Coerce(prepDefault),
			Servings:     raw.Servings.Coerce(servingsDefault),
		},
	}, nil
}

func (p Parser) locate(s string) (int, int, bool) {
	if p.Balanced {
		return balancedObject(s)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return 0, 0, false
	}
	return start, end, true
}

// balancedObject finds the first '{' and its matching '}', ignoring braces
// inside JSON strings.
func balancedObject(s string) (int, int, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return 0, 0, false
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return start, i, true
			}
		}
	}
	return 0, 0, false
}
