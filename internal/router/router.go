// Package router assembles the gin engine: middleware, rate limit policies
// and every API route.
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-chat/backend/config"
	"github.com/pageza/recipe-chat/backend/internal/api"
	"github.com/pageza/recipe-chat/backend/internal/metrics"
	"github.com/pageza/recipe-chat/backend/internal/middleware"
	"github.com/pageza/recipe-chat/backend/internal/service"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	Server    config.ServerConfig
	RateLimit config.RateLimitConfig

	Logger  *zap.Logger
	Metrics *metrics.Collector
	Counter middleware.Counter
	Health  api.Pinger

	Chat       service.IChatService
	Recipes    service.IRecipeService
	Email      service.IEmailService
	Newsletter service.INewsletterService
	Sessions   service.ISessionService
}

// Policies derives the three gatekeeper policies from config.
func Policies(cfg config.RateLimitConfig) (def, ai, authPolicy middleware.Policy) {
	def = middleware.Policy{
		Name:    "default",
		Limit:   cfg.DefaultLimit,
		Window:  cfg.DefaultWindow,
		Message: "Too many requests from this IP, please try again later.",
	}
	ai = middleware.Policy{
		Name:    "ai",
		Limit:   cfg.AILimit,
		Window:  cfg.AIWindow,
		Message: "Too many AI requests, please wait before generating more recipes.",
	}
	authPolicy = middleware.Policy{
		Name:            "auth",
		Limit:           cfg.AuthLimit,
		Window:          cfg.AuthWindow,
		CountFailedOnly: true,
		Message:         "Too many failed sign-in attempts.",
	}
	return def, ai, authPolicy
}

// New builds the engine. Every /api route passes the default policy; the AI
// and auth routes also pass their own.
func New(d Deps) (*gin.Engine, error) {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := d.Metrics
	if m == nil {
		m = metrics.New()
	}
	counter := d.Counter
	if counter == nil {
		counter = middleware.NewMemoryCounter(time.Minute)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(d.Server.TrustedProxies); err != nil {
		return nil, err
	}
	r.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(d.Server.AllowedOrigins),
		m.HTTPMiddleware(),
	)

	health := api.NewHealthHandler(d.Health, m)
	r.GET("/health", health.HealthCheck)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	defPolicy, aiPolicy, authPolicy := Policies(d.RateLimit)
	limit := func(p middleware.Policy) gin.HandlerFunc {
		return middleware.NewRateLimiter(p, counter, m, logger).Middleware()
	}

	apiGroup := r.Group("/api", limit(defPolicy))
	apiGroup.GET("/health", health.HealthCheck)

	recipes := apiGroup.Group("", middleware.OptionalAuth(d.Sessions))
	api.NewRecipeHandler(d.Recipes, logger).RegisterRoutes(recipes)

	ai := apiGroup.Group("", limit(aiPolicy))
	api.NewLLMHandler(d.Chat, logger).RegisterRoutes(ai)

	api.NewNewsletterHandler(d.Newsletter, logger).RegisterRoutes(apiGroup)
	api.NewEmailHandler(d.Email, logger).RegisterRoutes(apiGroup)

	authGroup := apiGroup.Group("/auth", limit(authPolicy))
	api.NewAuthHandler(d.Sessions, logger).RegisterRoutes(authGroup)

	return r, nil
}
