package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hongminglow/recharge-web/internal/forms"
	"github.com/hongminglow/recharge-web/internal/http/respond"
	"github.com/hongminglow/recharge-web/internal/http/routepath"
	"github.com/hongminglow/recharge-web/internal/http/views"
	"github.com/hongminglow/recharge-web/internal/session"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgSubscribersFailed  = "Failed to load subscribers. Please try again later."
	msgHistoryFailed      = "Failed to load recharge history. Please try again later."
)

// AdminHandler serves the admin login and the guarded admin pages.
type AdminHandler struct {
	deps Deps
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(deps Deps) *AdminHandler {
	return &AdminHandler{deps: deps}
}

// RegisterPublic wires login and logout.
func (h *AdminHandler) RegisterPublic(r *mux.Router) {
	r.HandleFunc(routepath.AdminLogin, h.loginPage).Methods(http.MethodGet)
	r.HandleFunc(routepath.AdminLogin, h.login).Methods(http.MethodPost)
	r.HandleFunc(routepath.AdminLogout, h.logout).Methods(http.MethodPost)
}

// RegisterProtected wires the pages that need a session. The caller guards r.
func (h *AdminHandler) RegisterProtected(r *mux.Router) {
	r.HandleFunc(routepath.AdminDashboard, h.dashboard).Methods(http.MethodGet)
	r.HandleFunc(routepath.AdminHistoryPattern, h.history).Methods(http.MethodGet)
}

func (h *AdminHandler) loginPage(w http.ResponseWriter, r *http.Request) {
	if session.FromContext(r.Context()).Authenticated() {
		respond.SeeOther(w, r, routepath.AdminDashboard)
		return
	}
	h.deps.render(w, http.StatusOK, views.PageAdminLogin, h.deps.page(r, "Admin Login", views.AdminLoginData{}))
}

func (h *AdminHandler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.deps.render(w, http.StatusBadRequest, views.PageAdminLogin, h.deps.page(r, "Admin Login", views.AdminLoginData{}))
		return
	}

	form, errs := forms.ParseLogin(r.PostForm)
	page := h.deps.page(r, "Admin Login", views.AdminLoginData{Username: form.Username})
	if !errs.Valid() {
		page.Fields = errs
		h.deps.render(w, http.StatusUnprocessableEntity, views.PageAdminLogin, page)
		return
	}

	cred, err := h.deps.api(r).LoginAdmin(r.Context(), form.Request())
	if err != nil {
		log.Printf("admin login %q: %v", form.Username, err)
		page.Error = msgInvalidCredentials
		h.deps.render(w, http.StatusUnauthorized, views.PageAdminLogin, page)
		return
	}
	if _, err := h.deps.Sessions.Login(w, cred); err != nil {
		log.Printf("admin login %q: %v", form.Username, err)
		h.deps.serverError(w, r)
		return
	}
	respond.SeeOther(w, r, routepath.AdminDashboard)
}

func (h *AdminHandler) logout(w http.ResponseWriter, r *http.Request) {
	h.deps.Sessions.Logout(w)
	respond.SeeOther(w, r, routepath.AdminLogin)
}

func (h *AdminHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	data := views.DashboardData{}
	status := http.StatusOK
	subscribers, err := h.deps.api(r).ExpiringSubscribers(r.Context())
	if err != nil {
		log.Printf("expiring subscribers: %v", err)
		data.LoadError = msgSubscribersFailed
		status = http.StatusBadGateway
	} else {
		data.Subscribers = subscribers
	}
	h.deps.render(w, status, views.PageDashboard, h.deps.page(r, "Dashboard", data))
}

func (h *AdminHandler) history(w http.ResponseWriter, r *http.Request) {
	mobileNumber := mux.Vars(r)[routepath.AdminHistoryPathVarKey]
	data := views.HistoryData{MobileNumber: mobileNumber}
	status := http.StatusOK
	records, err := h.deps.api(r).RechargeHistory(r.Context(), mobileNumber)
	if err != nil {
		log.Printf("recharge history %s: %v", mobileNumber, err)
		data.LoadError = msgHistoryFailed
		status = http.StatusBadGateway
	} else {
		data.Records = records
	}
	h.deps.render(w, status, views.PageHistory, h.deps.page(r, "Recharge History", data))
}
