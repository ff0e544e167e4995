package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageza/recipe-chat/backend/config"
)

func TestRequirePersistentStore(t *testing.T) {
	assert.Error(t, requirePersistentStore(config.StoreConfig{Driver: "memory"}))
	assert.Error(t, requirePersistentStore(config.StoreConfig{}))
	assert.NoError(t, requirePersistentStore(config.StoreConfig{Driver: "sqlite"}))
	assert.NoError(t, requirePersistentStore(config.StoreConfig{Driver: "postgres", DSN: "postgres://localhost/recipes"}))
}
