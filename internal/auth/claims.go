package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the display subset of an admin token.
type Claims struct {
	Subject  string
	Username string
}

// DisplayName returns the best label for the signed-in admin.
func (c Claims) DisplayName() string {
	if c.Username != "" {
		return c.Username
	}
	return c.Subject
}

// InspectClaims reads the token payload without verifying its signature.
// The result is only used for display; the backend remains the authority.
// Opaque, non-JWT tokens yield empty claims.
func InspectClaims(cred Credential) Claims {
	if !cred.Present() {
		return Claims{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(string(cred), claims); err != nil {
		return Claims{}
	}
	out := Claims{}
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	for _, key := range []string{"username", "preferred_username", "name"} {
		if v, ok := claims[key].(string); ok && strings.TrimSpace(v) != "" {
			out.Username = strings.TrimSpace(v)
			break
		}
	}
	return out
}
