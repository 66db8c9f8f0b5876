package envelope

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Success is the body of every successful gateway response.
type Success struct {
	StatusCode int         `json:"statusCode"`
	Timestamp  string      `json:"timestamp"`
	Path       string      `json:"path"`
	Message    *string     `json:"message"`
	Data       interface{} `json:"data"`
}

// Error is the body of every failed gateway response.
type Error struct {
	StatusCode   int    `json:"statusCode"`
	Timestamp    string `json:"timestamp"`
	Path         string `json:"path"`
	ErrorMessage string `json:"errorMessage"`
}

// clock is swapped in tests for deterministic timestamps.
var clock = time.Now

func timestamp() string {
	return clock().UTC().Format(time.RFC3339)
}

// NewSuccess builds a success envelope for the given request path. A nil
// message is rendered as JSON null.
func NewSuccess(status int, path string, message *string, data interface{}) Success {
	return Success{
		StatusCode: status,
		Timestamp:  timestamp(),
		Path:       path,
		Message:    message,
		Data:       data,
	}
}

// NewError builds an error envelope for the given request path.
func NewError(status int, path, errorMessage string) Error {
	return Error{
		StatusCode:   status,
		Timestamp:    timestamp(),
		Path:         path,
		ErrorMessage: errorMessage,
	}
}

// WriteSuccess writes a success envelope to the gin context and finalizes
// the response.
func WriteSuccess(c *gin.Context, status int, message *string, data interface{}) {
	c.JSON(status, NewSuccess(status, c.Request.URL.Path, message, data))
}

// WriteError writes an error envelope to the gin context and aborts the
// handler chain.
func WriteError(c *gin.Context, status int, errorMessage string) {
	c.AbortWithStatusJSON(status, NewError(status, c.Request.URL.Path, errorMessage))
}
