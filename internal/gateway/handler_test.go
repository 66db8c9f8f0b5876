package gateway

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPayload_MergesSources(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/booking/abc?limit=5&tag=a&tag=b",
		strings.NewReader(`{"note":"hi","id":"from-body"}`))
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	payload, err := buildPayload(c)
	require.NoError(t, err)

	assert.Equal(t, "hi", payload["note"])
	assert.Equal(t, "5", payload["limit"])
	assert.Equal(t, []string{"a", "b"}, payload["tag"])

	// Path parameters win over body fields of the same name.
	assert.Equal(t, "abc", payload["id"])
}

func TestBuildPayload_EmptyBody(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/tenant/profile", nil)

	payload, err := buildPayload(c)
	require.NoError(t, err)
	assert.Empty(t, payload)
}

func TestBuildPayload_InvalidJSON(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/booking",
		strings.NewReader(`{not json`))

	_, err := buildPayload(c)
	assert.Error(t, err)
}
