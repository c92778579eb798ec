package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// Rate limit tiers.
const (
	// Cart estimates fan out across sellers (Strict)
	limitStrict = rate.Limit(2)
	burstStrict = 5

	// General (Default)
	limitGeneral = rate.Limit(10)
	burstGeneral = 20

	// Internal / trusted services
	limitInternal = rate.Limit(100)
	burstInternal = 200
)

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies per-client token buckets at the request boundary so
// abusive high-frequency callers never reach the evaluation core.
type RateLimiter struct {
	mu          sync.Mutex
	visitors    map[string]*visitor
	internalKey string
}

func NewRateLimiter(internalKey string) *RateLimiter {
	rl := &RateLimiter{
		visitors:    make(map[string]*visitor),
		internalKey: internalKey,
	}
	go rl.cleanupVisitors()
	return rl
}

// getVisitor retrieves or creates a rate limiter for the given bucket key.
func (rl *RateLimiter) getVisitor(key string, r rate.Limit, b int) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(r, b)
		rl.visitors[key] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// cleanupVisitors removes stale entries to prevent unbounded growth.
func (rl *RateLimiter) cleanupVisitors() {
	for {
		time.Sleep(time.Minute)

		rl.mu.Lock()
		for key, v := range rl.visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(rl.visitors, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Middleware checks whether the request is allowed by its tier's limiter.
func (rl *RateLimiter) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit, burst, tier := rl.resolveTier(c)

		// Prefer a client-supplied device id, fall back to IP.
		identity := "ip:" + c.RealIP()
		if deviceID := c.Request().Header.Get("X-Device-ID"); deviceID != "" {
			identity = "device:" + deviceID
		}

		// The same client gets separate quotas per tier.
		key := identity + ":" + tier

		if !rl.getVisitor(key, limit, burst).Allow() {
			return echo.NewHTTPError(http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
		}

		return next(c)
	}
}

// resolveTier determines which rate limit policy applies to the request.
func (rl *RateLimiter) resolveTier(c echo.Context) (rate.Limit, int, string) {
	if rl.internalKey != "" && c.Request().Header.Get("X-Service-Auth") == rl.internalKey {
		return limitInternal, burstInternal, "internal"
	}

	if c.Request().URL.Path == "/delivery/estimate-cart" {
		return limitStrict, burstStrict, "strict"
	}

	return limitGeneral, burstGeneral, "general"
}
