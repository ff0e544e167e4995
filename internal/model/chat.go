package model

// Role is the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Label is the transcript prefix for the role.
func (r Role) Label() string {
	if r == RoleAssistant {
		return "Assistant"
	}
	return "User"
}

// ChatMessage is one turn of a conversation. History lives on the client
// and is sent in full with every request.
type ChatMessage struct {
	Role    Role              `json:"role" binding:"required,oneof=user assistant"`
	Content string            `json:"content"`
	Recipe  *RecipeSuggestion `json:"recipe,omitempty"`
}

// RecipeSuggestion is the recipe card attached to an assistant reply.
type RecipeSuggestion struct {
	Title      string       `json:"title"`
	Time       string       `json:"time"`
	Servings   string       `json:"servings"`
	FullRecipe *RecipeDraft `json:"fullRecipe,omitempty"`
}

// GenerationOptions are the user's facet choices folded into the prompt.
type GenerationOptions struct {
	Prompt         string `json:"prompt"`
	MealType       string `json:"mealType"`
	MainIngredient string `json:"mainIngredient"`
	Dietary        string `json:"dietary"`
}
