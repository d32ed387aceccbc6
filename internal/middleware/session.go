package middleware

import (
	"net/http"

	"github.com/hongminglow/recharge-web/internal/session"
)

// Sessions resolves the admin session from the request once and makes it
// available to handlers through the request context.
func Sessions(m *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := m.Load(r)
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
		})
	}
}

// RequireAdmin evaluates the route guard on every request and redirects
// visitors without a credential to the login page.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, redirect := session.Guard(session.FromContext(r.Context()))
		if !allowed {
			http.Redirect(w, r, redirect, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
