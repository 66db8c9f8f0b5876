package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HCMUS-Project/saas-gateway/internal/config"
	"github.com/HCMUS-Project/saas-gateway/internal/liveness"
)

const (
	testAccessSecret  = "access-secret"
	testRefreshSecret = "refresh-secret"
)

// setupVerifier starts a miniredis-backed liveness store and a verifier on
// top of it.
func setupVerifier(t *testing.T) (Verifier, liveness.Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := liveness.NewWithClient(client, nil)
	t.Cleanup(func() { _ = store.Close() })

	cfg := &config.AuthConfig{
		AccessSecret:  testAccessSecret,
		RefreshSecret: testRefreshSecret,
	}

	v, err := NewVerifier(cfg, store,
		WithVerifierMetrics(NewMetricsWithRegisterer("test", prometheus.NewRegistry())))
	require.NoError(t, err)

	return v, store, mr
}

// signToken issues an HS256 token for the given identity.
func signToken(t *testing.T, secret, email, domain, role string, expiresIn time.Duration) string {
	t.Helper()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Email:  email,
		Domain: domain,
		Role:   role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestNewVerifier_Validation(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := liveness.NewWithClient(client, nil)

	_, err := NewVerifier(nil, store)
	assert.Error(t, err)

	_, err = NewVerifier(&config.AuthConfig{}, nil)
	assert.Error(t, err)
}

func TestVerifyAccess_Success(t *testing.T) {
	v, store, _ := setupVerifier(t)

	token := signToken(t, testAccessSecret, "alice@example.com", "shop.example.com", "TENANT", time.Hour)
	key := liveness.Key("alice@example.com", "shop.example.com", token)
	require.NoError(t, store.Set(context.Background(), key, time.Hour))

	principal, err := v.VerifyAccess(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", principal.Email)
	assert.Equal(t, "shop.example.com", principal.Domain)
	assert.Equal(t, []string{"TENANT"}, principal.Roles)
	assert.Equal(t, token, principal.AccessToken)
}

func TestVerifyAccess_MissingToken(t *testing.T) {
	v, _, _ := setupVerifier(t)

	_, err := v.VerifyAccess(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenMissing)
	assert.Equal(t, "Access Token not found", UserMessage(err))
}

func TestVerifyAccess_RevokedWhenAbsentFromStore(t *testing.T) {
	v, _, _ := setupVerifier(t)

	// Signature is valid but no liveness record exists.
	token := signToken(t, testAccessSecret, "alice@example.com", "shop.example.com", "TENANT", time.Hour)

	_, err := v.VerifyAccess(context.Background(), token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	assert.Equal(t, "Token has been revoked", UserMessage(err))
}

func TestVerifyAccess_Expired(t *testing.T) {
	v, _, _ := setupVerifier(t)

	token := signToken(t, testAccessSecret, "alice@example.com", "shop.example.com", "TENANT", -2*time.Minute)

	_, err := v.VerifyAccess(context.Background(), token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyAccess_Malformed(t *testing.T) {
	t.Parallel()

	v, _, _ := setupVerifier(t)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "wrong secret", token: signToken(t, "other-secret", "a@b.c", "d", "USER", time.Hour)},
		{name: "refresh secret on access route", token: signToken(t, testRefreshSecret, "a@b.c", "d", "USER", time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.VerifyAccess(context.Background(), tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrTokenMalformed)
		})
	}
}

func TestVerifyAccess_StoreUnavailable(t *testing.T) {
	v, _, mr := setupVerifier(t)

	token := signToken(t, testAccessSecret, "alice@example.com", "shop.example.com", "TENANT", time.Hour)

	// A store error must fail closed as revoked, never allow the request.
	mr.Close()

	_, err := v.VerifyAccess(context.Background(), token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestVerifyRefresh_HeaderShape(t *testing.T) {
	t.Parallel()

	v, _, _ := setupVerifier(t)

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{name: "missing header", header: "", message: "Authorization header is missing"},
		{name: "wrong scheme", header: "Token abc", message: "Invalid Authorization header format"},
		{name: "scheme only", header: "Bearer ", message: "Invalid Authorization header format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.VerifyRefresh(context.Background(), tt.header)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrTokenMalformed)
			assert.Equal(t, tt.message, UserMessage(err))
		})
	}
}

func TestVerifyRefresh_Success(t *testing.T) {
	v, store, _ := setupVerifier(t)

	token := signToken(t, testRefreshSecret, "bob@example.com", "shop.example.com", "USER", time.Hour)
	key := liveness.Key("bob@example.com", "shop.example.com", token)
	require.NoError(t, store.Set(context.Background(), key, time.Hour))

	principal, err := v.VerifyRefresh(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", principal.Email)
	assert.Equal(t, "USER", principal.PrimaryRole())
}

func TestVerifyRefresh_RejectsAccessToken(t *testing.T) {
	v, store, _ := setupVerifier(t)

	// An access token presented on the refresh path fails signature
	// verification because the secrets differ.
	token := signToken(t, testAccessSecret, "bob@example.com", "shop.example.com", "USER", time.Hour)
	key := liveness.Key("bob@example.com", "shop.example.com", token)
	require.NoError(t, store.Set(context.Background(), key, time.Hour))

	_, err := v.VerifyRefresh(context.Background(), "Bearer "+token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestUserMessage_Fallback(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Unauthorized", UserMessage(errors.New("plain error")))
}
