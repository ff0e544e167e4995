package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/recipe-chat/backend/internal/apperrors"
	"github.com/pageza/recipe-chat/backend/internal/metrics"
)

// Policy is a fixed-window limit applied per client IP.
type Policy struct {
	Name   string
	Limit  int
	Window time.Duration
	// CountFailedOnly keeps only responses with status >= 400 in the count.
	// Every request takes a slot before the handler runs and successes give
	// it back afterwards.
	CountFailedOnly bool
	Message         string
}

// Window is the state of one counter.
type Window struct {
	Count   int
	ResetIn time.Duration
}

// Counter stores fixed-window request counts.
type Counter interface {
	// Increment adds one to key, starting a new window of the given length
	// when none is open.
	Increment(ctx context.Context, key string, window time.Duration) (Window, error)
	// Decrement gives back one slot in the open window. It never creates a
	// window or goes below zero.
	Decrement(ctx context.Context, key string) error
}

// RateLimitResponse is the 429 body.
type RateLimitResponse struct {
	Error      string              `json:"error"`
	Code       apperrors.ErrorCode `json:"code"`
	RetryAfter int                 `json:"retryAfter"`
}

// RateLimiter enforces one Policy.
type RateLimiter struct {
	policy  Policy
	counter Counter
	metrics *metrics.Collector
	logger  *zap.Logger
}

func NewRateLimiter(policy Policy, counter Counter, m *metrics.Collector, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{policy: policy, counter: counter, metrics: m, logger: logger}
}

// Middleware returns the gin handler for the policy. Counter failures let
// the request through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := fmt.Sprintf("ratelimit:%s:%s", rl.policy.Name, c.ClientIP())

		w, err := rl.counter.Increment(ctx, key, rl.policy.Window)
		if err != nil {
			rl.failOpen(c, err)
			return
		}
		if w.Count > rl.policy.Limit {
			if rl.policy.CountFailedOnly {
				// rejections do not extend the lockout
				rl.refund(ctx, key)
				w.Count--
			}
			rl.reject(c, w)
			return
		}
		rl.setHeaders(c, w)
		c.Next()

		if rl.policy.CountFailedOnly && c.Writer.Status() < http.StatusBadRequest {
			rl.refund(ctx, key)
		}
	}
}

func (rl *RateLimiter) refund(ctx context.Context, key string) {
	if err := rl.counter.Decrement(context.WithoutCancel(ctx), key); err != nil {
		rl.logger.Warn("rate limit counter unavailable", zap.String("policy", rl.policy.Name), zap.Error(err))
	}
}

func (rl *RateLimiter) failOpen(c *gin.Context, err error) {
	rl.logger.Warn("rate limit counter unavailable, allowing request",
		zap.String("policy", rl.policy.Name),
		zap.Error(err),
	)
	c.Next()
}

func (rl *RateLimiter) setHeaders(c *gin.Context, w Window) {
	remaining := rl.policy.Limit - w.Count
	if remaining < 0 {
		remaining = 0
	}
	c.Header("X-RateLimit-Limit", strconv.Itoa(rl.policy.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(w.ResetIn).Unix(), 10))
}

func (rl *RateLimiter) reject(c *gin.Context, w Window) {
	retryAfter := int(math.Ceil(w.ResetIn.Seconds()))
	if retryAfter < 1 {
		retryAfter = 1
	}
	if rl.metrics != nil {
		rl.metrics.RateLimited(rl.policy.Name)
	}
	rl.setHeaders(c, w)
	c.Header("Retry-After", strconv.Itoa(retryAfter))

	msg := rl.policy.Message
	if msg == "" {
		msg = "Too many requests, please try again later."
	}
	c.AbortWithStatusJSON(http.StatusTooManyRequests, RateLimitResponse{
		Error:      fmt.Sprintf("%s Retry in %s.", msg, humanizeWait(retryAfter)),
		Code:       apperrors.CodeRateLimited,
		RetryAfter: retryAfter,
	})
}

func humanizeWait(seconds int) string {
	if seconds < 60 {
		if seconds == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", seconds)
	}
	minutes := (seconds + 59) / 60
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}

// MemoryCounter keeps counters in process. Expired windows are swept by a
// janitor goroutine until Close is called.
type MemoryCounter struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type memoryWindow struct {
	count   int
	expires time.Time
}

func NewMemoryCounter(sweepEvery time.Duration) *MemoryCounter {
	if sweepEvery <= 0 {
		sweepEvery = time.Minute
	}
	m := &MemoryCounter{
		windows: make(map[string]*memoryWindow),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go m.janitor(sweepEvery)
	return m
}

func (m *MemoryCounter) Increment(_ context.Context, key string, window time.Duration) (Window, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.windows[key]
	if !ok || !now.Before(w.expires) {
		w = &memoryWindow{expires: now.Add(window)}
		m.windows[key] = w
	}
	w.count++
	return Window{Count: w.count, ResetIn: w.expires.Sub(now)}, nil
}

func (m *MemoryCounter) Decrement(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[key]
	if ok && m.now().Before(w.expires) && w.count > 0 {
		w.count--
	}
	return nil
}

// Close stops the janitor.
func (m *MemoryCounter) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *MemoryCounter) janitor(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.stop:
			return
		}
	}
}

func (m *MemoryCounter) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for key, w := range m.windows {
		if !now.Before(w.expires) {
			delete(m.windows, key)
		}
	}
}

// RedisCounter shares counters between instances through Redis.
type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

func (r *RedisCounter) Increment(ctx context.Context, key string, window time.Duration) (Window, error) {
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	pttl := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return Window{}, fmt.Errorf("redis rate limit increment: %w", err)
	}
	return Window{Count: int(incr.Val()), ResetIn: ttlOr(pttl.Val(), window)}, nil
}

// decrementScript lowers an existing positive counter. A plain DECR would
// create a key without expiry when the window has already closed.
var decrementScript = redis.NewScript(`
local count = tonumber(redis.call("GET", KEYS[1]) or "0")
if count > 0 then
	return redis.call("DECR", KEYS[1])
end
return 0
`)

func (r *RedisCounter) Decrement(ctx context.Context, key string) error {
	if err := decrementScript.Run(ctx, r.client, []string{key}).Err(); err != nil {
		return fmt.Errorf("redis rate limit decrement: %w", err)
	}
	return nil
}

// ttlOr maps Redis's negative PTTL replies to fallback.
func ttlOr(ttl, fallback time.Duration) time.Duration {
	if ttl <= 0 {
		return fallback
	}
	return ttl
}
