package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hongminglow/recharge-web/internal/auth"
	"github.com/hongminglow/recharge-web/internal/http/respond"
	"github.com/hongminglow/recharge-web/internal/session"
)

func TestRequireAdminRedirectsAnonymous(t *testing.T) {
	called := false
	h := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	if called {
		t.Fatal("protected handler ran without credential")
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != session.LoginPath {
		t.Fatalf("response = %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestSessionsThenRequireAdmin(t *testing.T) {
	sealer, err := auth.NewSealer("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}
	m := session.NewManager(sealer, false)
	login := httptest.NewRecorder()
	if _, err := m.Login(login, auth.Credential("tok")); err != nil {
		t.Fatalf("Login: %v", err)
	}
	cookie, _ := http.ParseSetCookie(login.Header().Get("Set-Cookie"))

	var seen session.Session
	h := Sessions(m)(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = session.FromContext(r.Context())
	})))

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || seen.Credential != "tok" {
		t.Fatalf("status %d, session %+v", rec.Code, seen)
	}
}

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var body respond.Envelope
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Code != http.StatusInternalServerError || body.Message != "internal server error" {
		t.Fatalf("body = %+v", body)
	}
}

func TestLoggingKeepsStatus(t *testing.T) {
	h := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}
}
