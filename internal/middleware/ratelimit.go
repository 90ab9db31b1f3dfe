package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/yearinmotion/internal/apierror"
	"github.com/JonnyWalker81/yearinmotion/internal/logger"
)

// RateLimiter provides fixed-window request limiting per client IP
type RateLimiter struct {
	requests map[string]*clientInfo
	mu       sync.Mutex
	rate     int           // requests per window
	window   time.Duration // time window
	name     string        // identifier for logging
	now      func() time.Time
}

type clientInfo struct {
	count       int
	windowStart time.Time
}

// NewRateLimiter creates a limiter allowing rate requests per window.
// Stale entries are swept in the background.
func NewRateLimiter(rate int, window time.Duration, name string) *RateLimiter {
	rl := &RateLimiter{
		requests: make(map[string]*clientInfo),
		rate:     rate,
		window:   window,
		name:     name,
		now:      time.Now,
	}

	go rl.cleanup()

	logger.Default().Debug("rate limiter initialized",
		logger.String("name", name),
		logger.Int("rate", rate),
		logger.Duration("window", window),
	)

	return rl
}

// cleanup removes stale entries periodically
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for range ticker.C {
		rl.sweep()
	}
}

func (rl *RateLimiter) sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cleaned := 0
	for ip, info := range rl.requests {
		if now.Sub(info.windowStart) > rl.window*2 {
			delete(rl.requests, ip)
			cleaned++
		}
	}

	if cleaned > 0 {
		logger.Default().Debug("rate limiter cleanup completed",
			logger.String("name", rl.name),
			logger.Int("cleaned", cleaned),
			logger.Int("remaining", len(rl.requests)),
		)
	}
	return cleaned
}

// isAllowed counts a request from ip and reports whether it is within the
// limit, along with the time left in the current window.
func (rl *RateLimiter) isAllowed(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	info, exists := rl.requests[ip]

	if !exists || now.Sub(info.windowStart) >= rl.window {
		rl.requests[ip] = &clientInfo{count: 1, windowStart: now}
		return true, rl.window
	}

	info.count++
	return info.count <= rl.rate, rl.window - now.Sub(info.windowStart)
}

// RateLimit is the general limiter: 120 requests per minute
func RateLimit() gin.HandlerFunc {
	return rateLimitMiddleware(NewRateLimiter(120, time.Minute, "general"))
}

// RateLimitAuth guards the OAuth and token proxy endpoints: 10 per minute
func RateLimitAuth() gin.HandlerFunc {
	return rateLimitMiddleware(NewRateLimiter(10, time.Minute, "auth"))
}

// RateLimitStrict guards endpoints that force a full Strava download: 5 per minute
func RateLimitStrict() gin.HandlerFunc {
	return rateLimitMiddleware(NewRateLimiter(5, time.Minute, "strict"))
}

func rateLimitMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		allowed, remaining := limiter.isAllowed(ip)
		if !allowed {
			logger.Ctx(c.Request.Context()).Warn("rate limit exceeded",
				logger.String("limiter", limiter.name),
				logger.String("client_ip", ip),
				logger.Int("limit", limiter.rate),
				logger.Duration("window", limiter.window),
			)

			retryAfter := int(math.Ceil(remaining.Seconds()))
			c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.rate))
			c.Header("X-RateLimit-Remaining", "0")
			apierror.AbortWithProblem(c, apierror.NewRateLimitError(apierror.GetRequestID(c), max(retryAfter, 1)))
			return
		}

		c.Next()
	}
}
