package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/recipe-chat/backend/internal/model"
)

// RunMigrations creates or updates the schema. On PostgreSQL the pgvector
// extension is enabled first so the recipe embedding column can be created.
func RunMigrations(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
			return fmt.Errorf("failed to enable pgvector: %w", err)
		}
	}

	if err := db.AutoMigrate(
		&model.Recipe{},
		&model.Subscription{},
		&model.User{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
