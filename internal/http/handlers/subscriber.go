package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/sync/singleflight"

	"github.com/hongminglow/recharge-web/internal/backend"
	"github.com/hongminglow/recharge-web/internal/flash"
	"github.com/hongminglow/recharge-web/internal/forms"
	"github.com/hongminglow/recharge-web/internal/http/respond"
	"github.com/hongminglow/recharge-web/internal/http/routepath"
	"github.com/hongminglow/recharge-web/internal/http/views"
)

const (
	msgNotActive          = "Mobile number is not registered or not active"
	msgValidateFailed     = "Failed to validate mobile number"
	msgRegisterFailed     = "Registration failed"
	msgRegisterSuccessful = "Registration successful! Please validate your mobile number."
)

// SubscriberHandler serves mobile validation and registration.
type SubscriberHandler struct {
	deps          Deps
	registrations singleflight.Group
}

// NewSubscriberHandler constructs a SubscriberHandler.
func NewSubscriberHandler(deps Deps) *SubscriberHandler {
	return &SubscriberHandler{deps: deps}
}

// Register wires the validation and registration routes.
func (h *SubscriberHandler) Register(r *mux.Router) {
	r.HandleFunc(routepath.Root, h.validatePage).Methods(http.MethodGet)
	r.HandleFunc(routepath.Validate, h.validatePage).Methods(http.MethodGet)
	r.HandleFunc(routepath.Validate, h.validate).Methods(http.MethodPost)
	r.HandleFunc(routepath.Register, h.registerPage).Methods(http.MethodGet)
	r.HandleFunc(routepath.Register, h.register).Methods(http.MethodPost)
}

func (h *SubscriberHandler) validatePage(w http.ResponseWriter, r *http.Request) {
	page := h.deps.page(r, "Validate", views.ValidateData{})
	h.deps.takeNotice(w, r, &page)
	h.deps.render(w, http.StatusOK, views.PageValidate, page)
}

func (h *SubscriberHandler) validate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.deps.render(w, http.StatusBadRequest, views.PageValidate, h.deps.page(r, "Validate", views.ValidateData{}))
		return
	}

	form, errs := forms.ParseMobile(r.PostForm)
	page := h.deps.page(r, "Validate", views.ValidateData{MobileNumber: form.MobileNumber})
	if !errs.Valid() {
		page.Fields = errs
		h.deps.render(w, http.StatusUnprocessableEntity, views.PageValidate, page)
		return
	}

	valid, err := h.deps.api(r).ValidateMobile(r.Context(), form.MobileNumber)
	if err != nil {
		log.Printf("validate mobile: %v", err)
		page.Error = backend.MessageOr(err, msgValidateFailed)
		h.deps.render(w, http.StatusBadGateway, views.PageValidate, page)
		return
	}
	if !valid {
		page.Error = msgNotActive
		h.deps.render(w, http.StatusOK, views.PageValidate, page)
		return
	}

	draft, err := h.deps.Flow.Start(r.Context(), form.MobileNumber)
	if err != nil {
		log.Printf("validate mobile: start checkout: %v", err)
		h.deps.serverError(w, r)
		return
	}
	respond.SeeOther(w, r, routepath.PlansFor(draft.ID))
}

func (h *SubscriberHandler) registerPage(w http.ResponseWriter, r *http.Request) {
	h.deps.render(w, http.StatusOK, views.PageRegister, h.deps.page(r, "Register", views.RegisterData{}))
}

func (h *SubscriberHandler) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.deps.render(w, http.StatusBadRequest, views.PageRegister, h.deps.page(r, "Register", views.RegisterData{}))
		return
	}

	form, errs := forms.ParseRegister(r.PostForm)
	echo := form
	echo.Password = ""
	page := h.deps.page(r, "Register", views.RegisterData{Form: echo})
	if !errs.Valid() {
		page.Fields = errs
		h.deps.render(w, http.StatusUnprocessableEntity, views.PageRegister, page)
		return
	}

	// Concurrent submissions for the same number share one backend call.
	ctx := context.WithoutCancel(r.Context())
	api := h.deps.api(r)
	_, err, _ := h.registrations.Do(form.MobileNumber, func() (any, error) {
		return nil, api.Register(ctx, form.Request())
	})
	if err != nil {
		log.Printf("register %s: %v", form.MobileNumber, err)
		page.Error = msgRegisterFailed
		var apiErr *backend.APIError
		status := http.StatusBadGateway
		if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
			status = http.StatusUnprocessableEntity
		}
		h.deps.render(w, status, views.PageRegister, page)
		return
	}

	flash.Write(w, flash.Success(msgRegisterSuccessful), h.deps.SecureCookies)
	respond.SeeOther(w, r, routepath.Validate)
}
