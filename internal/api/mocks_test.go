package api

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipe-chat/backend/internal/auth"
	"github.com/pageza/recipe-chat/backend/internal/model"
	"github.com/pageza/recipe-chat/backend/internal/service"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Chat(ctx context.Context, req service.ChatRequest) (*service.ChatReply, error) {
	args := m.Called(ctx, req)
	if reply := args.Get(0); reply != nil {
		return reply.(*service.ChatReply), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChatService) GenerateRecipe(ctx context.Context, opts model.GenerationOptions) (*model.RecipeDraft, error) {
	args := m.Called(ctx, opts)
	if draft := args.Get(0); draft != nil {
		return draft.(*model.RecipeDraft), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendWelcomeEmail(ctx context.Context, to, name string) error {
	return m.Called(ctx, to, name).Error(0)
}

func (m *MockEmailService) SendNewsletterWelcome(ctx context.Context, to string) error {
	return m.Called(ctx, to).Error(0)
}

func (m *MockEmailService) SendRecipeExport(ctx context.Context, to string, recipe service.RecipeExport) (*service.ExportResult, error) {
	args := m.Called(ctx, to, recipe)
	if res := args.Get(0); res != nil {
		return res.(*service.ExportResult), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) SignIn(ctx context.Context, idToken string) (*service.SessionResult, error) {
	args := m.Called(ctx, idToken)
	if res := args.Get(0); res != nil {
		return res.(*service.SessionResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionService) Authenticate(ctx context.Context, token string) (*auth.Identity, error) {
	args := m.Called(ctx, token)
	if id := args.Get(0); id != nil {
		return id.(*auth.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}
