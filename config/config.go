package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment     `mapstructure:"-"`
	Server      ServerConfig    `mapstructure:"server"`
	Log         LogConfig       `mapstructure:"log"`
	Store       StoreConfig     `mapstructure:"store"`
	Redis       RedisConfig     `mapstructure:"redis"`
	AI          AIConfig        `mapstructure:"ai"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Email       EmailConfig     `mapstructure:"email"`
	Export      ExportConfig    `mapstructure:"export"`
	Auth        AuthConfig      `mapstructure:"auth"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	TrustedProxies  []string      `mapstructure:"trusted_proxies"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// StoreConfig selects the recipe store. Driver is memory, sqlite or postgres.
type StoreConfig struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// RedisConfig enables the shared rate limit counters when URL is set
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type AIConfig struct {
	Provider               string  `mapstructure:"provider"`
	APIKey                 string  `mapstructure:"api_key"`
	Model                  string  `mapstructure:"model"`
	BaseURL                string  `mapstructure:"base_url"`
	Temperature            float32 `mapstructure:"temperature"`
	MaxOutputTokens        int32   `mapstructure:"max_output_tokens"`
	RequestsPerSecond      float64 `mapstructure:"requests_per_second"`
	Burst                  int     `mapstructure:"burst"`
	BalancedJSONExtraction bool    `mapstructure:"balanced_json_extraction"`
}

type RateLimitConfig struct {
	DefaultLimit  int           `mapstructure:"default_limit"`
	DefaultWindow time.Duration `mapstructure:"default_window"`
	AILimit       int           `mapstructure:"ai_limit"`
	AIWindow      time.Duration `mapstructure:"ai_window"`
	AuthLimit     int           `mapstructure:"auth_limit"`
	AuthWindow    time.Duration `mapstructure:"auth_window"`
}

// EmailConfig selects the mail transport. Provider is resend, smtp or log.
type EmailConfig struct {
	Provider     string `mapstructure:"provider"`
	ResendAPIKey string `mapstructure:"resend_api_key"`
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUsername string `mapstructure:"smtp_username"`
	SMTPPassword string `mapstructure:"smtp_password"`
	From         string `mapstructure:"from"`
	FromName     string `mapstructure:"from_name"`
	AppURL       string `mapstructure:"app_url"`
}

// ExportConfig configures the S3 archive for emailed recipes. Empty bucket disables it.
type ExportConfig struct {
	S3Bucket  string        `mapstructure:"s3_bucket"`
	Region    string        `mapstructure:"region"`
	Endpoint  string        `mapstructure:"endpoint"`
	URLExpiry time.Duration `mapstructure:"url_expiry"`
}

// AuthConfig selects the identity token verifier. Provider is firebase or jwt.
type AuthConfig struct {
	Provider          string `mapstructure:"provider"`
	FirebaseProjectID string `mapstructure:"firebase_project_id"`
	JWTSecret         string `mapstructure:"jwt_secret"`
}

// secretKeys maps config keys to Docker secret file names consulted when the
// environment leaves them empty.
var secretKeys = map[string]string{
	"ai.api_key":           "ai_api_key",
	"email.resend_api_key": "resend_api_key",
	"email.smtp_password":  "smtp_password",
	"auth.jwt_secret":      "jwt_secret",
	"store.dsn":            "store_dsn",
	"redis.url":            "redis_url",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.trusted_proxies", []string{})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", GetEnvironment().LogFormat())
	v.SetDefault("log.output", "stdout")

	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.max_open_conns", 25)

	v.SetDefault("redis.url", "")

	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.max_output_tokens", 2048)
	v.SetDefault("ai.requests_per_second", 2.0)
	v.SetDefault("ai.burst", 5)
	v.SetDefault("ai.balanced_json_extraction", false)

	v.SetDefault("rate_limit.default_limit", 60)
	v.SetDefault("rate_limit.default_window", 15*time.Minute)
	v.SetDefault("rate_limit.ai_limit", 10)
	v.SetDefault("rate_limit.ai_window", 15*time.Minute)
	v.SetDefault("rate_limit.auth_limit", 5)
	v.SetDefault("rate_limit.auth_window", time.Hour)

	v.SetDefault("email.provider", "log")
	v.SetDefault("email.resend_api_key", "")
	v.SetDefault("email.smtp_host", "")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.smtp_username", "")
	v.SetDefault("email.smtp_password", "")
	v.SetDefault("email.from", "noreply@recipechat.app")
	v.SetDefault("email.from_name", "Recipe Chat")
	v.SetDefault("email.app_url", "http://localhost:5173")

	v.SetDefault("export.s3_bucket", "")
	v.SetDefault("export.region", "us-east-1")
	v.SetDefault("export.endpoint", "")
	v.SetDefault("export.url_expiry", 7*24*time.Hour)

	v.SetDefault("auth.provider", "jwt")
	v.SetDefault("auth.firebase_project_id", "")
	v.SetDefault("auth.jwt_secret", "")
}

// LoadConfig reads configuration from defaults, an optional config file,
// environment variables (SERVER_PORT overrides server.port) and Docker secrets.
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, secret := range secretKeys {
		if v.GetString(key) == "" {
			if value := readSecret(secret); value != "" {
				v.Set(key, value)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.Environment = GetEnvironment()

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
