package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type rateLimitEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// loginRateLimiter keeps one token bucket per client key and drops idle
// entries during its periodic sweep.
type loginRateLimiter struct {
	mu          sync.Mutex
	limit       rate.Limit
	burst       int
	entries     map[string]*rateLimitEntry
	entryTTL    time.Duration
	lastCleanup time.Time
}

func newLoginRateLimiter(attemptsPerMinute int) *loginRateLimiter {
	return &loginRateLimiter{
		limit:       rate.Every(time.Minute / time.Duration(attemptsPerMinute)),
		burst:       attemptsPerMinute,
		entries:     make(map[string]*rateLimitEntry),
		entryTTL:    15 * time.Minute,
		lastCleanup: time.Now(),
	}
}

func (l *loginRateLimiter) allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastCleanup) >= 5*time.Minute {
		for k, entry := range l.entries {
			if now.Sub(entry.lastSeen) > l.entryTTL {
				delete(l.entries, k)
			}
		}
		l.lastCleanup = now
	}

	entry, ok := l.entries[key]
	if !ok {
		entry = &rateLimitEntry{
			limiter: rate.NewLimiter(l.limit, l.burst),
		}
		l.entries[key] = entry
	}
	entry.lastSeen = now

	return entry.limiter.Allow()
}

// LoginRateLimit throttles login attempts per client IP. attemptsPerMinute
// doubles as the burst size; zero or negative disables the middleware.
func LoginRateLimit(attemptsPerMinute int) gin.HandlerFunc {
	if attemptsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := newLoginRateLimiter(attemptsPerMinute)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, APIResponse{
				Success: false,
				Error:   "too many login attempts",
			})
			return
		}
		c.Next()
	}
}
