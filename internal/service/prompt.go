package service

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pageza/recipe-chat/backend/internal/apperrors"
	"github.com/pageza/recipe-chat/backend/internal/model"
)

const chefPersona = "You are Chef AI, a friendly and knowledgeable culinary assistant. " +
	"You help home cooks decide what to make and you answer with practical, tested recipes. " +
	"Keep your conversational reply short and warm."

const recipeJSONContract = "After your reply, include exactly one recipe as a JSON object with these keys: " +
	`"title" (string), "description" (string), "ingredients" (string, one ingredient per line), ` +
	`"instructions" (string, one step per line), "mealType" (string), ` +
	`"prepTime" (number of minutes), "servings" (number). ` +
	"Do not wrap the JSON in markdown code fences and do not add anything after it."

// facetClauses renders the present facets in fixed order: meal type, main
// ingredient, dietary.
func facetClauses(opts model.GenerationOptions) []string {
	// Casers are stateful and cannot be shared between goroutines.
	lowerCaser := cases.Lower(language.English)
	var clauses []string
	if v := strings.TrimSpace(opts.MealType); v != "" {
		clauses = append(clauses, "The user wants a "+lowerCaser.String(v)+" recipe.")
	}
	if v := strings.TrimSpace(opts.MainIngredient); v != "" {
		clauses = append(clauses, "The main ingredient should be "+lowerCaser.String(v)+".")
	}
	if v := strings.TrimSpace(opts.Dietary); v != "" {
		clauses = append(clauses, "The recipe must be "+lowerCaser.String(v)+".")
	}
	return clauses
}

// BuildChatPrompt renders a conversation into a single provider prompt. The
// last message must come from the user.
func BuildChatPrompt(history []model.ChatMessage, opts model.GenerationOptions) (string, error) {
	if len(history) == 0 {
		return "", apperrors.NewInvalidConversationState("conversation has no messages")
	}
	for _, msg := range history {
		if !msg.Role.Valid() {
			return "", apperrors.NewInvalidConversationState("unknown message role " + strconv.Quote(string(msg.Role)))
		}
	}
	if last := history[len(history)-1]; last.Role != model.RoleUser {
		return "", apperrors.NewInvalidConversationState("the last message must come from the user")
	}

	var b strings.Builder
	b.WriteString(chefPersona)
	b.WriteString("\n\n")
	for _, clause := range facetClauses(opts) {
		b.WriteString(clause)
		b.WriteString("\n")
	}
	b.WriteString(recipeJSONContract)
	b.WriteString("\n\nConversation:\n")
	for _, msg := range history {
		b.WriteString(msg.Role.Label())
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	b.WriteString("Assistant:")
	return b.String(), nil
}

// BuildGenerationPrompt renders a one-shot recipe request.
func BuildGenerationPrompt(opts model.GenerationOptions) (string, error) {
	request := strings.TrimSpace(opts.Prompt)
	if request == "" {
		return "", apperrors.NewValidationError("prompt is required")
	}

	var b strings.Builder
	b.WriteString(chefPersona)
	b.WriteString("\n\nGenerate a recipe for: ")
	b.WriteString(request)
	b.WriteString("\n")
	for _, clause := range facetClauses(opts) {
		b.WriteString(clause)
		b.WriteString("\n")
	}
	b.WriteString(recipeJSONContract)
	return b.String(), nil
}
