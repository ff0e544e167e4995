package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipe-chat/backend/internal/model"
)

// Gorm is a Store backed by SQLite or PostgreSQL. On PostgreSQL, search
// results are ranked by pgvector distance.
type Gorm struct {
	db    *gorm.DB
	embed EmbedFunc
	now   func() time.Time
}

// NewGorm wraps an open, migrated database.
func NewGorm(db *gorm.DB, embed EmbedFunc) *Gorm {
	// PostgreSQL keeps microseconds
	now := func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }
	return &Gorm{db: db, embed: embed, now: now}
}

func (s *Gorm) CreateRecipe(ctx context.Context, recipe model.Recipe) (*model.Recipe, error) {
	rec := recipe.Clone()
	rec.ID = 0
	rec.CreatedAt = s.now()
	rec.Embedding = s.embed(rec)

	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return &rec, nil
}

func (s *Gorm) ListRecipes(ctx context.Context, ownerID *string) ([]model.Recipe, error) {
	recipes := make([]model.Recipe, 0)
	query := s.db.WithContext(ctx).Order("id ASC")
	if ownerID != nil {
		query = query.Where("user_id = ?", *ownerID)
	}
	if err := query.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

func (s *Gorm) SearchRecipes(ctx context.Context, query string, ownerID *string) ([]model.Recipe, error) {
	recipes := make([]model.Recipe, 0)
	dbQuery := s.db.WithContext(ctx).Model(&model.Recipe{})
	if ownerID != nil {
		dbQuery = dbQuery.Where("user_id = ?", *ownerID)
	}
	for _, term := range strings.Fields(strings.ToLower(query)) {
		like := "%" + term + "%"
		dbQuery = dbQuery.Where(
			"(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(meal_type) LIKE ? OR LOWER(ingredients) LIKE ?)",
			like, like, like, like,
		)
	}

	if s.db.Dialector.Name() == "postgres" && strings.TrimSpace(query) != "" {
		vec := s.embed(model.Recipe{Title: query})
		dbQuery = dbQuery.Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
		})
	} else {
		dbQuery = dbQuery.Order("id ASC")
	}

	if err := dbQuery.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	return recipes, nil
}

func (s *Gorm) GetRecipe(ctx context.Context, id uint) (*model.Recipe, error) {
	var rec model.Recipe
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &rec, nil
}

func (s *Gorm) UpdateRecipe(ctx context.Context, id uint, patch model.RecipePatch) (*model.Recipe, error) {
	var rec model.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lookup := tx
		if tx.Dialector.Name() == "postgres" {
			lookup = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := lookup.First(&rec, id).Error; err != nil {
			return err
		}
		patch.Apply(&rec)
		if patch.TouchesSearchText() {
			rec.Embedding = s.embed(rec)
		}
		return tx.Save(&rec).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	return &rec, nil
}

func (s *Gorm) DeleteRecipe(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&model.Recipe{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete recipe: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Gorm) Subscribe(ctx context.Context, email string) (*model.Subscription, bool, error) {
	db := s.db.WithContext(ctx)

	var sub model.Subscription
	err := db.Where("email = ?", email).First(&sub).Error
	if err == nil {
		return &sub, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to look up subscription: %w", err)
	}

	sub = model.Subscription{Email: email, CreatedAt: s.now()}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&sub)
	if res.Error != nil {
		return nil, false, fmt.Errorf("failed to create subscription: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return &sub, true, nil
	}

	// Lost a race with a concurrent subscribe for the same email
	sub = model.Subscription{}
	if err := db.Where("email = ?", email).First(&sub).Error; err != nil {
		return nil, false, fmt.Errorf("failed to load subscription: %w", err)
	}
	return &sub, false, nil
}

func (s *Gorm) UpsertUser(ctx context.Context, user model.User) (*model.User, bool, error) {
	db := s.db.WithContext(ctx)
	now := s.now()

	created := user
	created.CreatedAt = now
	created.LastSignInAt = now
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&created)
	if res.Error != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return &created, true, nil
	}

	updates := map[string]interface{}{"last_sign_in_at": now}
	if user.Email != "" {
		updates["email"] = user.Email
	}
	if user.DisplayName != "" {
		updates["display_name"] = user.DisplayName
	}
	if err := db.Model(&model.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		return nil, false, fmt.Errorf("failed to update user: %w", err)
	}
	existing, err := s.GetUser(ctx, user.ID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (s *Gorm) GetUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (s *Gorm) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Gorm) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
