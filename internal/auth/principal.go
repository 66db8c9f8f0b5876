package auth

import "context"

// Principal is the verified identity attached to an authenticated request.
// It is created once per request by the verifier and never mutated.
type Principal struct {
	// Email is the subject's email, unique within a domain.
	Email string `json:"email"`

	// Domain is the tenant namespace the subject belongs to.
	Domain string `json:"domain"`

	// Roles is the non-empty ordered set of roles held by the subject.
	Roles []string `json:"roles"`

	// AccessToken is the raw token the principal authenticated with. It is
	// forwarded to downstream services so they can re-derive authorization
	// context without re-verifying.
	AccessToken string `json:"accessToken"`
}

// PrimaryRole returns the first role in the ordered set.
func (p *Principal) PrimaryRole() string {
	if len(p.Roles) == 0 {
		return ""
	}
	return p.Roles[0]
}

// HasAnyRole reports whether the principal holds at least one of the given
// roles.
func (p *Principal) HasAnyRole(roles ...string) bool {
	for _, want := range roles {
		for _, have := range p.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// principalContextKey is the context key for the verified principal.
type principalContextKey struct{}

// ContextWithPrincipal returns a new context carrying the principal.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from the context.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(*Principal)
	return p, ok
}
