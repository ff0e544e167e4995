package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	storeDrivers   = []string{"memory", "sqlite", "postgres"}
	aiProviders    = []string{"gemini", "openai"}
	emailProviders = []string{"resend", "smtp", "log"}
	authProviders  = []string{"firebase", "jwt"}
)

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs []ValidationError
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if cfg.Server.Port == "" {
		add("server.port", "is required")
	}
	if !slices.Contains(storeDrivers, cfg.Store.Driver) {
		add("store.driver", "must be one of "+strings.Join(storeDrivers, ", "))
	}
	if cfg.Store.Driver == "postgres" && cfg.Store.DSN == "" {
		add("store.dsn", "is required for the postgres driver")
	}
	if !slices.Contains(aiProviders, cfg.AI.Provider) {
		add("ai.provider", "must be one of "+strings.Join(aiProviders, ", "))
	}
	if cfg.AI.MaxOutputTokens <= 0 {
		add("ai.max_output_tokens", "must be positive")
	}
	if cfg.AI.RequestsPerSecond <= 0 {
		add("ai.requests_per_second", "must be positive")
	}
	if !slices.Contains(emailProviders, cfg.Email.Provider) {
		add("email.provider", "must be one of "+strings.Join(emailProviders, ", "))
	}
	if cfg.Email.Provider == "resend" && cfg.Email.ResendAPIKey == "" {
		add("email.resend_api_key", "is required for the resend provider")
	}
	if cfg.Email.Provider == "smtp" && cfg.Email.SMTPHost == "" {
		add("email.smtp_host", "is required for the smtp provider")
	}
	if !slices.Contains(authProviders, cfg.Auth.Provider) {
		add("auth.provider", "must be one of "+strings.Join(authProviders, ", "))
	}
	if cfg.Auth.Provider == "firebase" && cfg.Auth.FirebaseProjectID == "" {
		add("auth.firebase_project_id", "is required for the firebase provider")
	}

	limits := map[string]int{
		"rate_limit.default_limit": cfg.RateLimit.DefaultLimit,
		"rate_limit.ai_limit":      cfg.RateLimit.AILimit,
		"rate_limit.auth_limit":    cfg.RateLimit.AuthLimit,
	}
	for field, limit := range limits {
		if limit <= 0 {
			add(field, "must be positive")
		}
	}

	// Production must talk to a real provider and sign sessions
	if cfg.Environment.IsProduction() {
		if cfg.AI.APIKey == "" {
			add("ai.api_key", "is required in production")
		}
		if cfg.Auth.Provider == "jwt" && cfg.Auth.JWTSecret == "" {
			add("auth.jwt_secret", "is required in production")
		}
		if cfg.Email.Provider == "log" {
			add("email.provider", "log transport is not allowed in production")
		}
	}

	if len(errs) == 0 {
		return nil
	}
	slices.SortFunc(errs, func(a, b ValidationError) int { return strings.Compare(a.Field, b.Field) })
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.Error()
	}
	return fmt.Errorf("configuration validation failed:\n%s", strings.Join(lines, "\n"))
}
