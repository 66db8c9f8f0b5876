package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/HCMUS-Project/saas-gateway/internal/observability"
)

const (
	// CorrelationIDKey is the gin context key for the correlation id.
	CorrelationIDKey = "correlationID"
)

// Correlation returns a middleware that establishes the correlation id for
// each request. An inbound X-Request-ID header is reused so the id survives
// hops through upstream proxies; otherwise a fresh id is generated. The id
// is stored in the request context, echoed in the response header and made
// available to every downstream log line.
func Correlation() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(observability.CorrelationIDHeader)
		if correlationID == "" {
			correlationID = observability.NewCorrelationID()
		}

		ctx := observability.ContextWithCorrelationID(c.Request.Context(), correlationID)
		c.Request = c.Request.WithContext(ctx)

		c.Set(CorrelationIDKey, correlationID)
		c.Header(observability.CorrelationIDHeader, correlationID)

		c.Next()
	}
}

// GetCorrelationID returns the correlation id stored in the gin context, or
// an empty string if the correlation middleware did not run.
func GetCorrelationID(c *gin.Context) string {
	if id, ok := c.Get(CorrelationIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
