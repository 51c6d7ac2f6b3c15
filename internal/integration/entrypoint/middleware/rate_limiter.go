package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitness-tracker/companion/internal/application/adapter"
	domainerror "github.com/fitness-tracker/companion/internal/domain/error"
	"github.com/fitness-tracker/companion/internal/integration/entrypoint/dto"
)

const (
	defaultRefreshLimit  = 30
	defaultRefreshWindow = time.Minute
)

// window counts the refreshes of one caller until it closes.
type window struct {
	used     int
	closesAt time.Time
}

// RateLimiter limits on-demand refetches so a chatty host UI cannot flood
// the fitness API. Keys are client IP plus route.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	length  time.Duration
	clock   adapter.Clock
}

// NewRateLimiter creates a rate limiter allowing 30 refreshes per minute.
func NewRateLimiter(clock adapter.Clock) *RateLimiter {
	return NewRateLimiterWithConfig(defaultRefreshLimit, defaultRefreshWindow, clock)
}

// NewRateLimiterWithConfig creates a rate limiter allowing limit refreshes
// per window length. Non-positive values fall back to the defaults.
func NewRateLimiterWithConfig(limit int, length time.Duration, clock adapter.Clock) *RateLimiter {
	if limit <= 0 {
		limit = defaultRefreshLimit
	}
	if length <= 0 {
		length = defaultRefreshWindow
	}
	if clock == nil {
		clock = adapter.SystemClock()
	}
	return &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		length:  length,
		clock:   clock,
	}
}

// Middleware rejects callers over their budget with 429 and Retry-After.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := c.ClientIP()
		if caller == "" {
			caller = c.Request.RemoteAddr
		}

		ok, retryAfter := rl.take(caller + " " + c.Request.URL.Path)
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Too many refresh requests, try again later",
				Code:  string(domainerror.ErrCodeRateLimited),
			})
			return
		}

		c.Next()
	}
}

// take spends one refresh from key's window. When the budget is gone it
// reports how long until the window closes.
func (rl *RateLimiter) take(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock.Now()
	for k, w := range rl.windows {
		if !now.Before(w.closesAt) {
			delete(rl.windows, k)
		}
	}

	w, open := rl.windows[key]
	if !open {
		rl.windows[key] = &window{used: 1, closesAt: now.Add(rl.length)}
		return true, 0
	}
	if w.used >= rl.limit {
		return false, w.closesAt.Sub(now)
	}
	w.used++
	return true, 0
}

// Reset forgets every window.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.windows = make(map[string]*window)
}
