package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/HCMUS-Project/saas-gateway/internal/envelope"
	"github.com/HCMUS-Project/saas-gateway/internal/observability"
)

// RecoveryConfig holds configuration for the recovery middleware.
type RecoveryConfig struct {
	Logger           observability.Logger
	EnableStackTrace bool
}

// Recovery returns a middleware that recovers from handler panics and
// converts them into a 500 error envelope.
func Recovery(logger observability.Logger) gin.HandlerFunc {
	return RecoveryWithConfig(RecoveryConfig{
		Logger:           logger,
		EnableStackTrace: true,
	})
}

// RecoveryWithConfig returns a recovery middleware with custom configuration.
func RecoveryWithConfig(config RecoveryConfig) gin.HandlerFunc {
	if config.Logger == nil {
		config.Logger = observability.NopLogger()
	}

	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				fields := []observability.Field{
					observability.Any("error", err),
					observability.String("method", c.Request.Method),
					observability.String("path", c.Request.URL.Path),
					observability.String("clientIP", c.ClientIP()),
				}
				if config.EnableStackTrace {
					fields = append(fields, observability.String("stack", string(debug.Stack())))
				}

				config.Logger.WithContext(c.Request.Context()).Error("panic recovered", fields...)

				envelope.WriteError(c, http.StatusInternalServerError, "Internal server error")
			}
		}()

		c.Next()
	}
}
