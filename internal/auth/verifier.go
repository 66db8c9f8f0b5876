package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/HCMUS-Project/saas-gateway/internal/config"
	"github.com/HCMUS-Project/saas-gateway/internal/liveness"
	"github.com/HCMUS-Project/saas-gateway/internal/observability"
)

// bearerPrefix is the expected Authorization header scheme.
const bearerPrefix = "Bearer "

// Client-facing messages for verification failures. The refresh variant
// distinguishes a missing header from a malformed one so the errors are
// user-actionable.
const (
	msgAccessTokenNotFound = "Access Token not found"
	msgHeaderMissing       = "Authorization header is missing"
	msgHeaderMalformed     = "Invalid Authorization header format"
	msgTokenExpired        = "Token has expired"
	msgTokenInvalid        = "Invalid token"
	msgTokenRevoked        = "Token has been revoked"
)

// Verifier validates bearer tokens and returns the verified principal.
type Verifier interface {
	// VerifyAccess verifies an access token.
	VerifyAccess(ctx context.Context, rawToken string) (*Principal, error)

	// VerifyRefresh verifies a refresh token taken from the raw
	// Authorization header value. The header must be present and carry the
	// Bearer scheme before the token is parsed.
	VerifyRefresh(ctx context.Context, authHeader string) (*Principal, error)
}

// verifier implements the Verifier interface.
type verifier struct {
	cfg     *config.AuthConfig
	store   liveness.Store
	logger  observability.Logger
	metrics *Metrics
}

// VerifierOption is a functional option for the verifier.
type VerifierOption func(*verifier)

// WithVerifierLogger sets the logger for the verifier.
func WithVerifierLogger(logger observability.Logger) VerifierOption {
	return func(v *verifier) {
		v.logger = logger
	}
}

// WithVerifierMetrics sets the metrics for the verifier.
func WithVerifierMetrics(metrics *Metrics) VerifierOption {
	return func(v *verifier) {
		v.metrics = metrics
	}
}

// NewVerifier creates a new token verifier.
func NewVerifier(cfg *config.AuthConfig, store liveness.Store, opts ...VerifierOption) (Verifier, error) {
	if cfg == nil {
		return nil, errors.New("auth config is required")
	}
	if store == nil {
		return nil, errors.New("liveness store is required")
	}

	v := &verifier{
		cfg:    cfg,
		store:  store,
		logger: observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(v)
	}

	if v.metrics == nil {
		v.metrics = NewMetrics("gateway")
	}

	return v, nil
}

// VerifyAccess verifies an access token.
func (v *verifier) VerifyAccess(ctx context.Context, rawToken string) (*Principal, error) {
	start := time.Now()

	if rawToken == "" {
		v.metrics.RecordVerification(tokenTypeAccess, "missing", time.Since(start))
		return nil, NewTokenError(ErrTokenMissing, msgAccessTokenNotFound)
	}

	principal, err := v.verify(ctx, rawToken, v.cfg.AccessSecret, tokenTypeAccess, start)
	if err != nil {
		return nil, err
	}

	return principal, nil
}

// VerifyRefresh verifies a refresh token taken from the Authorization header.
func (v *verifier) VerifyRefresh(ctx context.Context, authHeader string) (*Principal, error) {
	start := time.Now()

	// Header shape is checked before signature verification so the client
	// gets a message distinguishing "header missing" from "header malformed".
	if authHeader == "" {
		v.metrics.RecordVerification(tokenTypeRefresh, "header_missing", time.Since(start))
		return nil, NewTokenError(ErrTokenMalformed, msgHeaderMissing)
	}
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		v.metrics.RecordVerification(tokenTypeRefresh, "header_malformed", time.Since(start))
		return nil, NewTokenError(ErrTokenMalformed, msgHeaderMalformed)
	}

	rawToken := strings.TrimSpace(authHeader[len(bearerPrefix):])
	if rawToken == "" {
		v.metrics.RecordVerification(tokenTypeRefresh, "header_malformed", time.Since(start))
		return nil, NewTokenError(ErrTokenMalformed, msgHeaderMalformed)
	}

	return v.verify(ctx, rawToken, v.cfg.RefreshSecret, tokenTypeRefresh, start)
}

// verify parses the token, validates its signature and expiry against the
// given secret, then confirms liveness against the store.
func (v *verifier) verify(
	ctx context.Context, rawToken, secret, tokenType string, start time.Time,
) (*Principal, error) {
	claims, err := v.parse(rawToken, secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			v.metrics.RecordVerification(tokenType, "expired", time.Since(start))
			return nil, NewTokenError(ErrTokenExpired, msgTokenExpired)
		}
		v.metrics.RecordVerification(tokenType, "malformed", time.Since(start))
		return nil, NewTokenError(ErrTokenMalformed, msgTokenInvalid)
	}

	// A structurally valid token is only accepted while its liveness record
	// exists. Sign-out and refresh rotation delete the record.
	key := liveness.Key(claims.Email, claims.Domain, rawToken)
	exists, err := v.store.Exists(ctx, key)
	if err != nil {
		v.metrics.RecordVerification(tokenType, "store_error", time.Since(start))
		v.logger.WithContext(ctx).Error("liveness lookup failed",
			observability.Error(err),
			observability.String("email", claims.Email),
			observability.String("domain", claims.Domain))
		return nil, NewTokenError(ErrTokenRevoked, msgTokenRevoked)
	}
	if !exists {
		v.metrics.RecordVerification(tokenType, "revoked", time.Since(start))
		return nil, NewTokenError(ErrTokenRevoked, msgTokenRevoked)
	}

	v.metrics.RecordVerification(tokenType, "success", time.Since(start))
	v.logger.WithContext(ctx).Debug("token verified",
		observability.String("email", claims.Email),
		observability.String("domain", claims.Domain),
		observability.String("role", claims.Role))

	return claims.Principal(rawToken), nil
}

// parse validates the token signature and registered claims.
func (v *verifier) parse(rawToken, secret string) (*Claims, error) {
	claims := &Claims{}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(v.cfg.GetEffectiveClockSkew()),
		jwt.WithExpirationRequired(),
	}
	if v.cfg.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.cfg.Issuer))
	}

	token, err := jwt.ParseWithClaims(rawToken, claims, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, parserOpts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	return claims, nil
}

// Ensure verifier implements Verifier.
var _ Verifier = (*verifier)(nil)

// Token type labels used in metrics.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)
