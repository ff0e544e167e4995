package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/pageza/recipe-chat/backend/internal/apperrors"
	"github.com/pageza/recipe-chat/backend/internal/auth"
	"github.com/pageza/recipe-chat/backend/internal/model"
	"github.com/pageza/recipe-chat/backend/internal/store"
)

// SessionResult is returned after a verified sign-in.
type SessionResult struct {
	User        *model.User `json:"user"`
	FirstSignIn bool        `json:"firstSignIn"`
	Warning     string      `json:"warning,omitempty"`
}

// SessionService turns identity tokens into user records. A user is new the
// first time their uid reaches the user store, which is when the welcome
// email goes out.
type SessionService struct {
	verifier auth.Verifier
	users    store.UserStore
	email    IEmailService
	logger   *zap.Logger
}

func NewSessionService(verifier auth.Verifier, users store.UserStore, email IEmailService, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{verifier: verifier, users: users, email: email, logger: logger}
}

func (s *SessionService) SignIn(ctx context.Context, idToken string) (*SessionResult, error) {
	if idToken == "" {
		return nil, apperrors.NewValidationError("idToken is required")
	}

	id, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid identity token").WithCause(err)
	}

	user, created, err := s.users.UpsertUser(ctx, model.User{
		ID:          id.UID,
		Email:       NormalizeEmail(id.Email),
		DisplayName: id.DisplayName,
	})
	if err != nil {
		return nil, apperrors.NewInternalError("failed to record sign-in", err)
	}

	result := &SessionResult{User: user, FirstSignIn: created}
	if created && user.Email != "" {
		if err := s.email.SendWelcomeEmail(ctx, user.Email, user.DisplayName); err != nil {
			s.logger.Warn("welcome email failed", zap.String("user_id", user.ID), zap.Error(err))
			result.Warning = "signed in, but the welcome email could not be sent"
		}
	}
	return result, nil
}

// Authenticate verifies a bearer token without touching the user store.
func (s *SessionService) Authenticate(ctx context.Context, token string) (*auth.Identity, error) {
	id, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid identity token").WithCause(err)
	}
	return id, nil
}
