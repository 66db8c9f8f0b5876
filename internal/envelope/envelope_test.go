package envelope

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testContext builds a gin context for the given request path.
func testContext(t *testing.T, path string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, path, nil)
	return c, w
}

func TestWriteSuccess(t *testing.T) {
	c, w := testContext(t, "/api/tenant/profile")

	WriteSuccess(c, http.StatusCreated, nil, map[string]string{"id": "x"})

	assert.Equal(t, http.StatusCreated, w.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.JSONEq(t, "201", string(body["statusCode"]))
	assert.JSONEq(t, `"/api/tenant/profile"`, string(body["path"]))
	assert.JSONEq(t, "null", string(body["message"]))
	assert.JSONEq(t, `{"id":"x"}`, string(body["data"]))

	var ts string
	require.NoError(t, json.Unmarshal(body["timestamp"], &ts))
	_, err := time.Parse(time.RFC3339, ts)
	assert.NoError(t, err, "timestamp must be ISO-8601")
}

func TestWriteSuccess_WithMessage(t *testing.T) {
	c, w := testContext(t, "/api/auth/sign-out")

	msg := "Sign out successfully"
	WriteSuccess(c, http.StatusOK, &msg, nil)

	var body Success
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Message)
	assert.Equal(t, msg, *body.Message)
	assert.Nil(t, body.Data)
}

func TestWriteError(t *testing.T) {
	c, w := testContext(t, "/api/tenant/verify")

	WriteError(c, http.StatusNotFound, "Tenant not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, c.IsAborted())

	var body Error
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusNotFound, body.StatusCode)
	assert.Equal(t, "/api/tenant/verify", body.Path)
	assert.Equal(t, "Tenant not found", body.ErrorMessage)
	assert.NotEmpty(t, body.Timestamp)
}

func TestNewSuccess_DeterministicClock(t *testing.T) {
	orig := clock
	t.Cleanup(func() { clock = orig })

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	clock = func() time.Time { return fixed }

	env := NewSuccess(http.StatusOK, "/p", nil, nil)
	assert.Equal(t, "2026-01-02T03:04:05Z", env.Timestamp)
}
