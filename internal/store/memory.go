package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pageza/recipe-chat/backend/internal/model"
)

// Memory is an in-process Store guarded by a single RWMutex. Callers always
// receive copies.
type Memory struct {
	mu sync.RWMutex

	nextRecipeID uint
	recipes      map[uint]*model.Recipe
	order        []uint

	nextSubscriptionID uint
	subscriptions      map[string]*model.Subscription

	users map[string]*model.User

	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		recipes:       make(map[uint]*model.Recipe),
		subscriptions: make(map[string]*model.Subscription),
		users:         make(map[string]*model.User),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (m *Memory) CreateRecipe(_ context.Context, recipe model.Recipe) (*model.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextRecipeID++
	rec := recipe.Clone()
	rec.ID = m.nextRecipeID
	rec.CreatedAt = m.now()
	m.recipes[rec.ID] = &rec
	m.order = append(m.order, rec.ID)

	out := rec.Clone()
	return &out, nil
}

func (m *Memory) ListRecipes(_ context.Context, ownerID *string) ([]model.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Recipe, 0, len(m.order))
	for _, id := range m.order {
		rec := m.recipes[id]
		if !ownedBy(rec, ownerID) {
			continue
		}
		out = append(out, rec.Clone())
	}
	return out, nil
}

// SearchRecipes matches every whitespace-separated term against the recipe
// text, case-insensitively.
func (m *Memory) SearchRecipes(_ context.Context, query string, ownerID *string) ([]model.Recipe, error) {
	terms := strings.Fields(strings.ToLower(query))

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Recipe, 0)
	for _, id := range m.order {
		rec := m.recipes[id]
		if !ownedBy(rec, ownerID) {
			continue
		}
		text := strings.ToLower(rec.SearchText())
		matched := true
		for _, term := range terms {
			if !strings.Contains(text, term) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

func (m *Memory) GetRecipe(_ context.Context, id uint) (*model.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.recipes[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := rec.Clone()
	return &out, nil
}

func (m *Memory) UpdateRecipe(_ context.Context, id uint, patch model.RecipePatch) (*model.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.recipes[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(rec)
	out := rec.Clone()
	return &out, nil
}

func (m *Memory) DeleteRecipe(_ context.Context, id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.recipes[id]; !ok {
		return false, nil
	}
	delete(m.recipes, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (m *Memory) Subscribe(_ context.Context, email string) (*model.Subscription, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sub, ok := m.subscriptions[email]; ok {
		out := *sub
		return &out, false, nil
	}
	m.nextSubscriptionID++
	sub := &model.Subscription{ID: m.nextSubscriptionID, Email: email, CreatedAt: m.now()}
	m.subscriptions[email] = sub
	out := *sub
	return &out, true, nil
}

func (m *Memory) UpsertUser(_ context.Context, user model.User) (*model.User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if existing, ok := m.users[user.ID]; ok {
		if user.Email != "" {
			existing.Email = user.Email
		}
		if user.DisplayName != "" {
			existing.DisplayName = user.DisplayName
		}
		existing.LastSignInAt = now
		out := *existing
		return &out, false, nil
	}

	user.CreatedAt = now
	user.LastSignInAt = now
	m.users[user.ID] = &user
	out := user
	return &out, true, nil
}

func (m *Memory) GetUser(_ context.Context, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *user
	return &out, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

func ownedBy(rec *model.Recipe, ownerID *string) bool {
	if ownerID == nil {
		return true
	}
	return rec.UserID != nil && *rec.UserID == *ownerID
}
