package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload issued by the login and refresh flows.
type Claims struct {
	jwt.RegisteredClaims

	// Email is the subject's email address.
	Email string `json:"email"`

	// Domain is the tenant namespace.
	Domain string `json:"domain"`

	// Role is the subject's role tag.
	Role string `json:"role"`
}

// Principal builds a Principal from verified claims and the raw token text.
func (c *Claims) Principal(rawToken string) *Principal {
	return &Principal{
		Email:       c.Email,
		Domain:      c.Domain,
		Roles:       []string{c.Role},
		AccessToken: rawToken,
	}
}
