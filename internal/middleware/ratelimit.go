package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/HCMUS-Project/saas-gateway/internal/config"
	"github.com/HCMUS-Project/saas-gateway/internal/envelope"
	"github.com/HCMUS-Project/saas-gateway/internal/observability"
)

// clientLimiterTTL is how long an idle client's limiter is kept before the
// cleanup pass drops it.
const clientLimiterTTL = 3 * time.Minute

// clientLimiter pairs a token bucket with its last access time.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a per-client token bucket limit keyed by client IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter

	rate   rate.Limit
	burst  int
	logger observability.Logger

	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewRateLimiter creates a rate limiter from the gateway configuration.
func NewRateLimiter(cfg config.RateLimitConfig, logger observability.Logger) *RateLimiter {
	if logger == nil {
		logger = observability.NopLogger()
	}

	rl := &RateLimiter{
		clients:     make(map[string]*clientLimiter),
		rate:        rate.Limit(cfg.Rate),
		burst:       cfg.Burst,
		logger:      logger,
		stopCleanup: make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Allow reports whether the client identified by key may proceed.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.clients[key] = cl
	}
	cl.lastSeen = time.Now()

	return cl.limiter.Allow()
}

// Stop terminates the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-clientLimiterTTL)
	for key, cl := range rl.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(rl.clients, key)
		}
	}
}

// RateLimit returns a middleware that rejects clients exceeding the
// configured request rate with a 429 error envelope.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key := c.ClientIP()
		if !limiter.Allow(key) {
			limiter.logger.WithContext(c.Request.Context()).Warn("rate limit exceeded",
				observability.String("clientIP", key),
				observability.String("path", c.Request.URL.Path))
			envelope.WriteError(c, http.StatusTooManyRequests, "Too many requests")
			return
		}

		c.Next()
	}
}
