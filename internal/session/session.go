// Package session holds the admin session: the bearer credential persisted in
// a sealed browser cookie, its login/logout lifecycle, and the route guard.
package session

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/hongminglow/recharge-web/internal/auth"
)

// CookieName is the cookie carrying the sealed admin credential.
const CookieName = "recharge_session"

// Session is the per-request view of the admin credential.
type Session struct {
	Credential auth.Credential
	Claims     auth.Claims
}

// Authenticated reports whether an admin credential is held.
func (s Session) Authenticated() bool {
	return s.Credential.Present()
}

// Manager loads and mutates the session stored in the browser.
type Manager struct {
	sealer *auth.Sealer
	secure bool
}

// NewManager builds a Manager that seals credentials with sealer.
func NewManager(sealer *auth.Sealer, secureCookies bool) *Manager {
	return &Manager{sealer: sealer, secure: secureCookies}
}

// Load initialises the session from the request cookie. A missing or
// unreadable cookie yields an unauthenticated session.
func (m *Manager) Load(r *http.Request) Session {
	cookie, err := r.Cookie(CookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return Session{}
	}
	cred, err := m.sealer.Open(cookie.Value)
	if err != nil {
		log.Printf("session: discarding unreadable cookie: %v", err)
		return Session{}
	}
	return Session{Credential: cred, Claims: auth.InspectClaims(cred)}
}

// Login stores the credential so later requests are authenticated.
func (m *Manager) Login(w http.ResponseWriter, cred auth.Credential) (Session, error) {
	sealed, err := m.sealer.Seal(cred)
	if err != nil {
		return Session{}, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sealed,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return Session{Credential: cred, Claims: auth.InspectClaims(cred)}, nil
}

// Logout clears the stored credential.
func (m *Manager) Logout(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

type contextKey struct{}

// WithSession attaches the resolved session to ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session resolved for this request, if any.
func FromContext(ctx context.Context) Session {
	s, _ := ctx.Value(contextKey{}).(Session)
	return s
}
