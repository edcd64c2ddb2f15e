package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"resume-ats/internal/shared/server/respond"
	"resume-ats/internal/shared/telemetry"
)

const limiterIdleEviction = 10 * time.Minute

// RateLimitConfig configures the per-client limiter. Requests whose method is
// not in Methods pass through untouched; an empty Methods limits everything.
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
	Methods           []string
	Limiter           *RateLimiter
}

// RateLimiter keeps one token bucket per client key.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

// NewRateLimiter builds a limiter allowing requestsPerMin with the given burst.
func NewRateLimiter(requestsPerMin, burst int, now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		limit:    rate.Limit(float64(requestsPerMin) / 60.0),
		burst:    burst,
		now:      now,
	}
}

// RateLimit rejects clients that exceed their bucket with 429 and Retry-After.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(cfg.RequestsPerMinute, cfg.Burst, nil)
	}
	methods := make(map[string]struct{}, len(cfg.Methods))
	for _, m := range cfg.Methods {
		methods[strings.ToUpper(m)] = struct{}{}
	}
	return func(c *gin.Context) {
		if len(methods) > 0 {
			if _, ok := methods[c.Request.Method]; !ok {
				c.Next()
				return
			}
		}
		key := strings.TrimSpace(c.ClientIP())
		allowed, retryAfter := cfg.Limiter.Allow(key)
		if allowed {
			c.Next()
			return
		}
		retryAfterSeconds := int(math.Ceil(retryAfter.Seconds()))
		if retryAfterSeconds <= 0 {
			retryAfterSeconds = 1
		}
		telemetry.Info("rate_limit.exceeded", map[string]any{
			"request_id": RequestIDFromContext(c),
			"client_ip":  key,
			"path":       c.Request.URL.Path,
		})
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		respond.Error(c, http.StatusTooManyRequests, respond.CodeRateLimited, "Too many requests. Please try again later.", gin.H{
			"retryAfterMs": retryAfter.Milliseconds(),
		})
	}
}

// Allow consumes a token for key, returning the wait before the next token
// when the bucket is empty.
func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	if l == nil || l.limit <= 0 || l.burst <= 0 {
		return true, 0
	}
	now := l.now()
	lim := l.get(key, now)
	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Second
	}
	delay := r.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	r.CancelAt(now)
	return false, delay
}

func (l *RateLimiter) get(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.evict(now)
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = lim
	}
	l.lastSeen[key] = now
	return lim
}

// evict drops buckets idle longer than limiterIdleEviction. Caller holds mu.
func (l *RateLimiter) evict(now time.Time) {
	for key, seen := range l.lastSeen {
		if now.Sub(seen) > limiterIdleEviction {
			delete(l.limiters, key)
			delete(l.lastSeen, key)
		}
	}
}
