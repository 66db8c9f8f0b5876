package errormap

import (
	"fmt"
	"net/http"
)

// Kind classifies gateway HTTP errors.
type Kind string

// Error kinds.
const (
	// KindUnauthenticated covers missing, malformed, expired and revoked
	// tokens.
	KindUnauthenticated Kind = "UNAUTHENTICATED"

	// KindUnauthorized covers authenticated principals whose role is not
	// permitted for the route.
	KindUnauthorized Kind = "UNAUTHORIZED"

	// KindDownstreamRejected covers domain failures mapped through an
	// operation's mapping table.
	KindDownstreamRejected Kind = "DOWNSTREAM_REJECTED"

	// KindDownstreamUnrecognized covers failure payloads whose code is not
	// mapped or not parseable.
	KindDownstreamUnrecognized Kind = "DOWNSTREAM_UNRECOGNIZED"

	// KindTransportFailure covers failures to reach the downstream service
	// at all.
	KindTransportFailure Kind = "TRANSPORT_FAILURE"
)

// HTTPError is a gateway error ready to be written as an HTTP response.
type HTTPError struct {
	Status  int
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
}

// Unauthenticated creates an HTTPError for a failed credential verification.
func Unauthenticated(message string) *HTTPError {
	return &HTTPError{
		Status:  http.StatusUnauthorized,
		Kind:    KindUnauthenticated,
		Message: message,
	}
}

// Unauthorized creates an HTTPError for a denied authorization check.
func Unauthorized(message string) *HTTPError {
	return &HTTPError{
		Status:  http.StatusForbidden,
		Kind:    KindUnauthorized,
		Message: message,
	}
}

// Internal creates an HTTPError for an unexpected gateway-side failure.
func Internal(message string) *HTTPError {
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Kind:    KindTransportFailure,
		Message: message,
	}
}
