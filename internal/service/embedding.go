package service

import (
	"strings"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/pageza/recipe-chat/backend/internal/model"
)

// GenerateEmbedding returns a small deterministic embedding for the given
// text: total letters, vowels and consonants.
func GenerateEmbedding(text string) pgvector.Vector {
	text = strings.ToLower(text)
	var letters, vowels, consonants float32
	for _, r := range text {
		switch {
		case strings.ContainsRune("aeiou", r):
			vowels++
			letters++
		case r >= 'a' && r <= 'z':
			consonants++
			letters++
		}
	}
	return pgvector.NewVector([]float32{letters, vowels, consonants})
}

// RecipeEmbedding embeds the searchable text of a recipe.
func RecipeEmbedding(r model.Recipe) pgvector.Vector {
	return GenerateEmbedding(r.SearchText())
}
