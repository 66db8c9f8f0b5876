package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HCMUS-Project/saas-gateway/internal/observability"
)

// AccessLogConfig holds configuration for the access log middleware.
type AccessLogConfig struct {
	Logger    observability.Logger
	SkipPaths []string
}

// AccessLog returns a middleware that logs every completed HTTP request.
func AccessLog(logger observability.Logger) gin.HandlerFunc {
	return AccessLogWithConfig(AccessLogConfig{Logger: logger})
}

// AccessLogWithConfig returns an access log middleware with custom
// configuration.
func AccessLogWithConfig(config AccessLogConfig) gin.HandlerFunc {
	if config.Logger == nil {
		config.Logger = observability.NopLogger()
	}

	skipPaths := make(map[string]bool)
	for _, path := range config.SkipPaths {
		skipPaths[path] = true
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skipPaths[path] {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := []observability.Field{
			observability.String("method", c.Request.Method),
			observability.String("path", path),
			observability.String("query", c.Request.URL.RawQuery),
			observability.Int("status", status),
			observability.Duration("latency", time.Since(start)),
			observability.String("clientIP", c.ClientIP()),
			observability.Int("bodySize", c.Writer.Size()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, observability.String("errors", c.Errors.String()))
		}

		logger := config.Logger.WithContext(c.Request.Context())
		switch {
		case status >= 500:
			logger.Error("request completed", fields...)
		case status >= 400:
			logger.Warn("request completed", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}
