// Package handlers serves the pages of the recharge front-end. Each handler
// type owns a group of routes and registers them on the router.
package handlers

import (
	"net/http"
	"time"

	"github.com/hongminglow/recharge-web/internal/backend"
	"github.com/hongminglow/recharge-web/internal/checkout"
	"github.com/hongminglow/recharge-web/internal/flash"
	"github.com/hongminglow/recharge-web/internal/http/respond"
	"github.com/hongminglow/recharge-web/internal/http/views"
	"github.com/hongminglow/recharge-web/internal/session"
)

// Deps are the collaborators shared by the page handlers.
type Deps struct {
	Views         respond.Renderer
	API           *backend.Client
	Sessions      *session.Manager
	Flow          *checkout.Flow
	SecureCookies bool
	RedirectDelay time.Duration
	Now           func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// api returns the backend client authenticated as the request's session.
// Anonymous visitors get an anonymous client.
func (d Deps) api(r *http.Request) *backend.Client {
	return d.API.WithCredential(session.FromContext(r.Context()).Credential)
}

// page assembles the template data common to every page.
func (d Deps) page(r *http.Request, title string, data any) views.Page {
	return views.Page{
		Title:   title,
		Session: session.FromContext(r.Context()),
		Data:    data,
	}
}

func (d Deps) render(w http.ResponseWriter, status int, name string, page views.Page) {
	respond.HTML(w, d.Views, status, name, page)
}

// takeNotice moves a pending flash notice onto the page.
func (d Deps) takeNotice(w http.ResponseWriter, r *http.Request, page *views.Page) {
	if notice, ok := flash.ReadAndClear(w, r, d.SecureCookies); ok {
		page.Notice = &notice
	}
}

// NotFound renders the not-found page.
func (d Deps) NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d.render(w, http.StatusNotFound, views.PageNotFound, d.page(r, "Not found", nil))
	})
}

func (d Deps) serverError(w http.ResponseWriter, r *http.Request) {
	d.render(w, http.StatusInternalServerError, views.PageServerError, d.page(r, "Error", nil))
}
