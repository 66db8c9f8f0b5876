package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/HCMUS-Project/saas-gateway/internal/config"
)

func setupRateLimited(t *testing.T, cfg config.RateLimitConfig) *gin.Engine {
	t.Helper()

	limiter := NewRateLimiter(cfg, nil)
	t.Cleanup(limiter.Stop)

	router := gin.New()
	router.Use(RateLimit(limiter))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestRateLimit_RejectsOverBurst(t *testing.T) {
	router := setupRateLimited(t, config.RateLimitConfig{Enabled: true, Rate: 1, Burst: 2})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_PerClientBuckets(t *testing.T) {
	router := setupRateLimited(t, config.RateLimitConfig{Enabled: true, Rate: 1, Burst: 1})

	first := httptest.NewRecorder()
	req1 := httptest.NewRequest(http.MethodGet, "/", nil)
	req1.RemoteAddr = "10.0.0.1:1234"
	router.ServeHTTP(first, req1)

	// A different client has its own bucket.
	second := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.RemoteAddr = "10.0.0.2:1234"
	router.ServeHTTP(second, req2)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
}

func TestRateLimit_NilLimiterPassesThrough(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(nil))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
