package store

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/pageza/recipe-chat/backend/config"
	"github.com/pageza/recipe-chat/backend/internal/database"
)

// Open returns the store selected by cfg.Driver, migrating SQL databases.
func Open(cfg config.StoreConfig, embed EmbedFunc, logger *zap.Logger) (Store, error) {
	if cfg.Driver == "memory" || cfg.Driver == "" {
		return NewMemory(), nil
	}
	db, err := database.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(db); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("failed to migrate %s store: %w", cfg.Driver, err)
	}
	return NewGorm(db, embed), nil
}
