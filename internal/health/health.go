// Package health provides health and readiness probe endpoints.
package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Status represents the probe status.
type Status string

const (
	// StatusHealthy indicates the service is healthy.
	StatusHealthy Status = "healthy"
	// StatusUnhealthy indicates the service is unhealthy.
	StatusUnhealthy Status = "unhealthy"
)

// readinessTimeout bounds each registered readiness check.
const readinessTimeout = 5 * time.Second

// CheckFunc probes one dependency. A nil return means ready.
type CheckFunc func(ctx context.Context) error

// Check is the result of one readiness check.
type Check struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is the liveness probe body.
type HealthResponse struct {
	Status    Status    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadinessResponse is the readiness probe body.
type ReadinessResponse struct {
	Status    Status           `json:"status"`
	Checks    map[string]Check `json:"checks,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// Checker aggregates readiness checks for the gateway's dependencies.
type Checker struct {
	version   string
	startTime time.Time

	mu     sync.RWMutex
	checks map[string]CheckFunc
}

// NewChecker creates a new health checker.
func NewChecker(version string) *Checker {
	return &Checker{
		version:   version,
		startTime: time.Now(),
		checks:    make(map[string]CheckFunc),
	}
}

// RegisterCheck registers a named readiness check.
func (c *Checker) RegisterCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// Health returns the liveness status. A running process is always live;
// dependency state belongs to readiness.
func (c *Checker) Health() HealthResponse {
	return HealthResponse{
		Status:    StatusHealthy,
		Version:   c.version,
		Uptime:    time.Since(c.startTime).Round(time.Second).String(),
		Timestamp: time.Now(),
	}
}

// Readiness runs every registered check and aggregates the results.
func (c *Checker) Readiness(ctx context.Context) ReadinessResponse {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, fn := range c.checks {
		checks[name] = fn
	}
	c.mu.RUnlock()

	resp := ReadinessResponse{
		Status:    StatusHealthy,
		Checks:    make(map[string]Check, len(checks)),
		Timestamp: time.Now(),
	}

	for name, fn := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, readinessTimeout)
		err := fn(checkCtx)
		cancel()

		if err != nil {
			resp.Status = StatusUnhealthy
			resp.Checks[name] = Check{Status: StatusUnhealthy, Message: err.Error()}
			continue
		}
		resp.Checks[name] = Check{Status: StatusHealthy}
	}

	return resp
}

// HealthHandler returns the gin handler for the liveness probe.
func (c *Checker) HealthHandler() gin.HandlerFunc {
	return func(g *gin.Context) {
		g.JSON(http.StatusOK, c.Health())
	}
}

// ReadinessHandler returns the gin handler for the readiness probe.
func (c *Checker) ReadinessHandler() gin.HandlerFunc {
	return func(g *gin.Context) {
		resp := c.Readiness(g.Request.Context())
		status := http.StatusOK
		if resp.Status != StatusHealthy {
			status = http.StatusServiceUnavailable
		}
		g.JSON(status, resp)
	}
}
