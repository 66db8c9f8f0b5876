package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/HCMUS-Project/saas-gateway/internal/auth"
	"github.com/HCMUS-Project/saas-gateway/internal/authz"
	"github.com/HCMUS-Project/saas-gateway/internal/envelope"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "

	// PrincipalKey is the gin context key for the verified principal.
	PrincipalKey = "principal"

	msgForbidden = "Forbidden resource"
)

// AuthConfig holds configuration for the authentication guards.
type AuthConfig struct {
	Verifier  auth.Verifier
	Evaluator authz.Evaluator
}

// RequireAccess returns a middleware that verifies the bearer access token
// and, when requiredRoles is non-empty, authorizes the verified principal
// against them. Authentication failures yield 401; a verified principal with
// a role outside the requirement yields 403.
func RequireAccess(config AuthConfig, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken := extractBearerToken(c.GetHeader(authorizationHeader))

		principal, err := config.Verifier.VerifyAccess(c.Request.Context(), rawToken)
		if err != nil {
			envelope.WriteError(c, http.StatusUnauthorized, auth.UserMessage(err))
			return
		}

		if len(requiredRoles) > 0 {
			// Declared roles with no evaluator is a wiring error; deny rather
			// than admit unauthorized principals.
			if config.Evaluator == nil {
				envelope.WriteError(c, http.StatusForbidden, msgForbidden)
				return
			}
			decision := config.Evaluator.Evaluate(c.Request.Context(), principal, requiredRoles)
			if !decision.Allowed {
				envelope.WriteError(c, http.StatusForbidden, msgForbidden)
				return
			}
		}

		setPrincipal(c, principal)
		c.Next()
	}
}

// RequireRefresh returns a middleware that verifies the refresh token taken
// from the raw Authorization header. Refresh routes carry no role
// requirement.
func RequireRefresh(config AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := config.Verifier.VerifyRefresh(c.Request.Context(), c.GetHeader(authorizationHeader))
		if err != nil {
			envelope.WriteError(c, http.StatusUnauthorized, auth.UserMessage(err))
			return
		}

		setPrincipal(c, principal)
		c.Next()
	}
}

// extractBearerToken returns the token part of a Bearer authorization
// header, or an empty string when the header is absent or uses a different
// scheme.
func extractBearerToken(header string) string {
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}

// setPrincipal stores the verified principal in both the gin context and
// the request context so downstream handlers and the call adapter see it.
func setPrincipal(c *gin.Context, principal *auth.Principal) {
	c.Set(PrincipalKey, principal)
	ctx := auth.ContextWithPrincipal(c.Request.Context(), principal)
	c.Request = c.Request.WithContext(ctx)
}

// GetPrincipal returns the verified principal stored by the authentication
// guard, or nil if the route required no authentication.
func GetPrincipal(c *gin.Context) *auth.Principal {
	if v, ok := c.Get(PrincipalKey); ok {
		if p, ok := v.(*auth.Principal); ok {
			return p
		}
	}
	return nil
}
