package auth

import "strings"

// Credential is the opaque bearer token issued to an admin by the backend.
type Credential string

// NewCredential trims surrounding whitespace and quotes from a raw token.
func NewCredential(raw string) Credential {
	return Credential(strings.Trim(strings.TrimSpace(raw), `"`))
}

// Present reports whether a token is held.
func (c Credential) Present() bool {
	return c != ""
}

// BearerHeader returns the Authorization header value, empty when absent.
func (c Credential) BearerHeader() string {
	if !c.Present() {
		return ""
	}
	return "Bearer " + string(c)
}
