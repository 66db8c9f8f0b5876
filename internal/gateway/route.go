package gateway

import (
	"fmt"
	"net/http"

	"github.com/HCMUS-Project/saas-gateway/internal/errormap"
)

// AuthClass declares the authentication requirement of a route.
type AuthClass int

const (
	// AuthNone means the route requires no authentication; the credential
	// verifier is not invoked at all.
	AuthNone AuthClass = iota

	// AuthAccess means the route requires a verified access token.
	AuthAccess

	// AuthRefresh means the route requires a verified refresh token taken
	// from the raw Authorization header.
	AuthRefresh
)

// String returns the string representation of the auth class.
func (a AuthClass) String() string {
	switch a {
	case AuthNone:
		return "none"
	case AuthAccess:
		return "access"
	case AuthRefresh:
		return "refresh"
	default:
		return "unknown"
	}
}

// Route binds an HTTP method and path to a downstream operation together
// with everything the pipeline needs to guard, invoke and shape it.
type Route struct {
	// Method is the HTTP method.
	Method string

	// Path is the gin route path, possibly with :params.
	Path string

	// Auth is the authentication requirement.
	Auth AuthClass

	// Roles is the set of roles permitted on the route. Empty means any
	// verified principal. Ignored unless Auth is AuthAccess.
	Roles []string

	// Operation is the downstream operation in "service/Method" form.
	Operation string

	// SuccessStatus is the HTTP status written on success. Zero means 200
	// for most methods and 201 for POST.
	SuccessStatus int

	// SuccessMessage is the optional message carried in the success
	// envelope. Nil renders as JSON null.
	SuccessMessage *string

	// Mappings are the error mapping entries for the route's operation.
	Mappings []errormap.Entry
}

// EffectiveSuccessStatus returns the status written on success, applying
// the transport default when the route does not set one.
func (r *Route) EffectiveSuccessStatus() int {
	if r.SuccessStatus != 0 {
		return r.SuccessStatus
	}
	if r.Method == http.MethodPost {
		return http.StatusCreated
	}
	return http.StatusOK
}

// Validate checks the route for obvious wiring mistakes.
func (r *Route) Validate() error {
	if r.Method == "" {
		return fmt.Errorf("route %s: method is required", r.Path)
	}
	if r.Path == "" {
		return fmt.Errorf("route %s %s: path is required", r.Method, r.Operation)
	}
	if r.Operation == "" {
		return fmt.Errorf("route %s %s: operation is required", r.Method, r.Path)
	}
	if len(r.Roles) > 0 && r.Auth != AuthAccess {
		return fmt.Errorf("route %s %s: roles require access auth", r.Method, r.Path)
	}
	return nil
}

// message is a helper for route literals with a non-null success message.
func message(s string) *string {
	return &s
}
