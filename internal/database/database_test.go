package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-chat/backend/config"
	"github.com/pageza/recipe-chat/backend/internal/model"
)

func TestOpenAndMigrateSQLite(t *testing.T) {
	db, err := Open(config.StoreConfig{Driver: "sqlite", DSN: ":memory:"}, nil)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db))

	assert.True(t, db.Migrator().HasTable(&model.Recipe{}))
	assert.True(t, db.Migrator().HasTable("newsletter_subscriptions"))
	assert.True(t, db.Migrator().HasTable(&model.User{}))

	// Migrations are idempotent
	require.NoError(t, RunMigrations(db))

	rec := model.Recipe{Title: "Toast", Ingredients: "bread", Instructions: "Toast it", PrepTime: 5, Servings: 1}
	require.NoError(t, db.Create(&rec).Error)
	assert.NotZero(t, rec.ID)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(config.StoreConfig{Driver: "mongo"}, nil)
	assert.Error(t, err)
}

func TestNewRedisClientBadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not a url")
	assert.Error(t, err)
}
