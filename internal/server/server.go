package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/hongminglow/recharge-web/internal/auth"
	"github.com/hongminglow/recharge-web/internal/backend"
	"github.com/hongminglow/recharge-web/internal/checkout"
	"github.com/hongminglow/recharge-web/internal/config"
	"github.com/hongminglow/recharge-web/internal/http/handlers"
	"github.com/hongminglow/recharge-web/internal/http/routepath"
	"github.com/hongminglow/recharge-web/internal/http/views"
	"github.com/hongminglow/recharge-web/internal/middleware"
	"github.com/hongminglow/recharge-web/internal/session"
	"github.com/hongminglow/recharge-web/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.DraftStore) (*Server, error) {
	renderer, err := views.New()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	sealer, err := auth.NewSealer(cfg.SessionSecret)
	if err != nil {
		return nil, fmt.Errorf("session sealer: %w", err)
	}
	sessions := session.NewManager(sealer, cfg.CookieSecure)

	deps := handlers.Deps{
		Views:         renderer,
		API:           backend.New(cfg.BackendURL, &http.Client{Timeout: cfg.BackendTimeout}),
		Sessions:      sessions,
		Flow:          checkout.NewFlow(store, cfg.DraftTTL()),
		SecureCookies: cfg.CookieSecure,
		RedirectDelay: cfg.RedirectDelay(),
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           Routes(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}, nil
}

// Routes builds the router: public pages, the guarded admin pages, static
// assets and the health probe.
func Routes(deps handlers.Deps) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = deps.NotFound()

	handlers.NewHealthHandler(time.Now()).Register(r)
	handlers.NewSubscriberHandler(deps).Register(r)
	handlers.NewCheckoutHandler(deps).Register(r)

	admin := handlers.NewAdminHandler(deps)
	admin.RegisterPublic(r)
	protected := r.NewRoute().Subrouter()
	protected.Use(middleware.RequireAdmin)
	admin.RegisterProtected(protected)

	r.PathPrefix(routepath.StaticPrefix).Handler(
		http.StripPrefix(routepath.StaticPrefix, http.FileServerFS(views.Static())),
	).Methods(http.MethodGet, http.MethodHead)

	return middleware.Recover(middleware.Logging(middleware.Sessions(deps.Sessions)(r)))
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
