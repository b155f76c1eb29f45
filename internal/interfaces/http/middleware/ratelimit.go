package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client key. A key may burst up to
// limit requests and then refills at limit per window.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientBucket
	limit   int
	every   rate.Limit
	idleTTL time.Duration
	now     func() time.Time
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window per key
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		clients: make(map[string]*clientBucket),
		limit:   limit,
		every:   rate.Every(window / time.Duration(limit)),
		idleTTL: window * 2,
		now:     time.Now,
	}
}

// Allow reports whether a request from key may proceed
func (rl *RateLimiter) Allow(key string) bool {
	_, ok := rl.take(key)
	return ok
}

func (rl *RateLimiter) take(key string) (remaining int, ok bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.evictIdle(now)

	b, exists := rl.clients[key]
	if !exists {
		b = &clientBucket{limiter: rate.NewLimiter(rl.every, rl.limit)}
		rl.clients[key] = b
	}
	b.lastSeen = now
	ok = b.limiter.AllowN(now, 1)
	remaining = int(b.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return remaining, ok
}

// evictIdle drops buckets unused for two windows. Callers hold mu.
func (rl *RateLimiter) evictIdle(now time.Time) {
	for key, b := range rl.clients {
		if now.Sub(b.lastSeen) > rl.idleTTL {
			delete(rl.clients, key)
		}
	}
}

// RateLimit limits requests per client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		remaining, ok := limiter.take(c.ClientIP())
		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
				c.GetString(RequestIDKey),
			))
			return
		}
		c.Next()
	}
}
