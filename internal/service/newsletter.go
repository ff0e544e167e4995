package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pageza/recipe-chat/backend/internal/apperrors"
	"github.com/pageza/recipe-chat/backend/internal/model"
	"github.com/pageza/recipe-chat/backend/internal/store"
)

// NewsletterResult is the outcome of a subscribe call.
type NewsletterResult struct {
	Subscription *model.Subscription `json:"subscription"`
	Created      bool                `json:"created"`
	Warning      string              `json:"warning,omitempty"`
}

// NewsletterService records newsletter signups and sends the welcome email.
type NewsletterService struct {
	store    store.NewsletterStore
	email    IEmailService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewNewsletterService(s store.NewsletterStore, email IEmailService, logger *zap.Logger) *NewsletterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NewsletterService{store: s, email: email, validate: validator.New(), logger: logger}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Subscribe creates the subscription, or returns the existing one unchanged.
// Only new subscribers get the welcome email, and a failed send becomes a
// warning rather than an error.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) (*NewsletterResult, error) {
	email = NormalizeEmail(email)
	if err := s.validate.Var(email, "required,email,max=320"); err != nil {
		appErr := apperrors.NewValidationError("invalid email address")
		appErr.Fields = map[string]string{"email": "must be a valid email address"}
		return nil, appErr.WithCause(err)
	}

	sub, created, err := s.store.Subscribe(ctx, email)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to subscribe", err)
	}

	result := &NewsletterResult{Subscription: sub, Created: created}
	if !created {
		return result, nil
	}

	if err := s.email.SendNewsletterWelcome(ctx, email); err != nil {
		s.logger.Warn("newsletter welcome email failed", zap.String("email", email), zap.Error(err))
		result.Warning = "subscribed, but the welcome email could not be sent"
	}
	return result, nil
}
