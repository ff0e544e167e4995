// Package auth verifies identity tokens issued by the identity provider.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pageza/recipe-chat/backend/config"
)

// ErrInvalidToken is returned for tokens that fail verification.
var ErrInvalidToken = errors.New("auth: invalid token")

// Identity is the verified subject of a token.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
}

// Verifier checks an ID token and returns who it belongs to.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// NewVerifier builds the verifier selected by cfg.Provider.
func NewVerifier(ctx context.Context, cfg config.AuthConfig) (Verifier, error) {
	switch cfg.Provider {
	case "firebase":
		return NewFirebaseVerifier(ctx, cfg.FirebaseProjectID)
	case "jwt", "":
		return NewJWTVerifier(cfg.JWTSecret), nil
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.Provider)
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
