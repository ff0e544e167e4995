package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-chat/backend/internal/service"
	"github.com/pageza/recipe-chat/backend/internal/store"
)

func TestNewsletterHandler_Subscribe(t *testing.T) {
	email := new(MockEmailService)
	email.On("SendNewsletterWelcome", mock.Anything, "fan@example.com").Return(nil).Once()
	r := newTestRouter(NewNewsletterHandler(service.NewNewsletterService(store.NewMemory(), email, nil), nil).RegisterRoutes)

	w := doJSON(t, r, http.MethodPost, "/api/newsletter", map[string]any{"email": "Fan@Example.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decode[service.NewsletterResult](t, w)
	assert.Equal(t, "fan@example.com", first.Subscription.Email)

	assert.True(t, first.Created)

	w = doJSON(t, r, http.MethodPost, "/api/newsletter", map[string]any{"email": "fan@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	second := decode[service.NewsletterResult](t, w)
	assert.False(t, second.Created)
	assert.Equal(t, first.Subscription.ID, second.Subscription.ID)
	assert.Equal(t, first.Subscription.CreatedAt.Unix(), second.Subscription.CreatedAt.Unix())

	email.AssertNumberOfCalls(t, "SendNewsletterWelcome", 1)
}

func TestNewsletterHandler_EmailFailureWarning(t *testing.T) {
	email := new(MockEmailService)
	email.On("SendNewsletterWelcome", mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	r := newTestRouter(NewNewsletterHandler(service.NewNewsletterService(store.NewMemory(), email, nil), nil).RegisterRoutes)

	w := doJSON(t, r, http.MethodPost, "/api/newsletter", map[string]any{"email": "fan@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, decode[service.NewsletterResult](t, w).Warning)
}

func TestNewsletterHandler_InvalidEmail(t *testing.T) {
	s := store.NewMemory()
	r := newTestRouter(NewNewsletterHandler(service.NewNewsletterService(s, new(MockEmailService), nil), nil).RegisterRoutes)

	w := doJSON(t, r, http.MethodPost, "/api/newsletter", map[string]any{"email": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, created, err := s.Subscribe(context.Background(), "nope")
	require.NoError(t, err)
	assert.True(t, created, "nothing was stored for the invalid address")
}
