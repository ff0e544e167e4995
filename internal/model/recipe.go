package model

import (
	"time"

	pgvector "github.com/pgvector/pgvector-go"
)

// Conventional meal types. MealType itself is free text.
const (
	MealTypeBreakfast = "Breakfast"
	MealTypeLunch     = "Lunch"
	MealTypeDinner    = "Dinner"
	MealTypeDessert   = "Dessert"
	MealTypeSnack     = "Snack"
	MealTypeAppetizer = "Appetizer"
)

// Defaults applied when a completion omits or garbles numeric fields.
const (
	DefaultPrepTime = 30
	DefaultServings = 4
)

// Recipe is a persisted recipe. ID and CreatedAt are assigned by the store
// and never change afterwards.
type Recipe struct {
	ID           uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       *string         `gorm:"size:128;index" json:"userId"`
	Title        string          `gorm:"size:255;not null" json:"title"`
	Description  string          `gorm:"type:text" json:"description"`
	Ingredients  string          `gorm:"type:text;not null" json:"ingredients"`
	Instructions string          `gorm:"type:text;not null" json:"instructions"`
	MealType     string          `gorm:"size:50;index" json:"mealType"`
	PrepTime     int             `gorm:"not null" json:"prepTime"`
	Servings     int             `gorm:"not null" json:"servings"`
	IsSaved      bool            `gorm:"not null;default:false" json:"isSaved"`
	CreatedAt    time.Time       `json:"createdAt"`
	Embedding    pgvector.Vector `gorm:"type:vector(3)" json:"-"`
}

// RecipeDraft is a recipe without identity, as produced by the AI parser
// or submitted by a client.
type RecipeDraft struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"instructions"`
	MealType     string `json:"mealType"`
	PrepTime     int    `json:"prepTime"`
	Servings     int    `json:"servings"`
}

// NewRecipe builds an unsaved Recipe from a draft.
func NewRecipe(d RecipeDraft, ownerID *string, saved bool) Recipe {
	return Recipe{
		UserID:       ownerID,
		Title:        d.Title,
		Description:  d.Description,
		Ingredients:  d.Ingredients,
		Instructions: d.Instructions,
		MealType:     d.MealType,
		PrepTime:     d.PrepTime,
		Servings:     d.Servings,
		IsSaved:      saved,
	}
}

// SearchText is the text indexed for recipe search.
func (r Recipe) SearchText() string {
	return r.Title + " " + r.Description + " " + r.MealType + " " + r.Ingredients
}

// RecipePatch holds the fields a partial update may change. Nil fields are
// left alone.
type RecipePatch struct {
	UserID       *string `json:"userId"`
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Ingredients  *string `json:"ingredients"`
	Instructions *string `json:"instructions"`
	MealType     *string `json:"mealType"`
	PrepTime     *int    `json:"prepTime"`
	Servings     *int    `json:"servings"`
	IsSaved      *bool   `json:"isSaved"`
}

// Apply merges the patch into r.
func (p RecipePatch) Apply(r *Recipe) {
	if p.UserID != nil {
		owner := *p.UserID
		r.UserID = &owner
	}
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Ingredients != nil {
		r.Ingredients = *p.Ingredients
	}
	if p.Instructions != nil {
		r.Instructions = *p.Instructions
	}
	if p.MealType != nil {
		r.MealType = *p.MealType
	}
	if p.PrepTime != nil {
		r.PrepTime = *p.PrepTime
	}
	if p.Servings != nil {
		r.Servings = *p.Servings
	}
	if p.IsSaved != nil {
		r.IsSaved = *p.IsSaved
	}
}

// Empty reports whether the patch changes nothing.
func (p RecipePatch) Empty() bool {
	return p == RecipePatch{}
}

// TouchesSearchText reports whether applying the patch changes SearchText.
func (p RecipePatch) TouchesSearchText() bool {
	return p.Title != nil || p.Description != nil || p.MealType != nil || p.Ingredients != nil
}

// Clone returns a copy that shares no pointers with r.
func (r Recipe) Clone() Recipe {
	c := r
	if r.UserID != nil {
		owner := *r.UserID
		c.UserID = &owner
	}
	if s := r.Embedding.Slice(); s != nil {
		c.Embedding = pgvector.NewVector(append([]float32(nil), s...))
	}
	return c
}
