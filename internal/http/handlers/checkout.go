package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hongminglow/recharge-web/internal/backend"
	"github.com/hongminglow/recharge-web/internal/checkout"
	"github.com/hongminglow/recharge-web/internal/flash"
	"github.com/hongminglow/recharge-web/internal/forms"
	"github.com/hongminglow/recharge-web/internal/http/respond"
	"github.com/hongminglow/recharge-web/internal/http/routepath"
	"github.com/hongminglow/recharge-web/internal/http/views"
	"github.com/hongminglow/recharge-web/internal/models"
	"github.com/hongminglow/recharge-web/internal/models/dto"
	"github.com/hongminglow/recharge-web/internal/payment"
)

const (
	msgPaymentFailed     = "Payment processing failed"
	msgPaymentSuccessful = "Payment successful for %s! Confirmation email sent."
	msgPlanUnavailable   = "Selected plan is no longer available"
	msgUnknownError      = "Unknown error"
)

// echoedPaymentFields are re-filled after a rejected submission. Card
// numbers, CVVs and account numbers are never echoed.
var echoedPaymentFields = []string{"upiId", "cardholderName", "expiryDate", "bankName", "ifscCode", "accountHolderName"}

// CheckoutHandler serves plan selection and payment.
type CheckoutHandler struct {
	deps Deps
}

// NewCheckoutHandler constructs a CheckoutHandler.
func NewCheckoutHandler(deps Deps) *CheckoutHandler {
	return &CheckoutHandler{deps: deps}
}

// Register wires the plan and payment routes.
func (h *CheckoutHandler) Register(r *mux.Router) {
	r.HandleFunc(routepath.Plans, h.plansPage).Methods(http.MethodGet)
	r.HandleFunc(routepath.PlansSelect, h.selectPlan).Methods(http.MethodPost)
	r.HandleFunc(routepath.Payment, h.paymentPage).Methods(http.MethodGet)
	r.HandleFunc(routepath.Payment, h.pay).Methods(http.MethodPost)
}

func (h *CheckoutHandler) plansPage(w http.ResponseWriter, r *http.Request) {
	flow := r.URL.Query().Get(routepath.FlowParam)
	draft, err := h.deps.Flow.ForPlans(r.Context(), flow)
	if err != nil {
		h.incomplete(w, r, views.PagePlans, "Plans", err, views.PlansData{Incomplete: true})
		return
	}
	h.renderPlans(w, r, draft, http.StatusOK, "")
}

// renderPlans fetches the catalog and renders the listing for draft.
func (h *CheckoutHandler) renderPlans(w http.ResponseWriter, r *http.Request, draft models.CheckoutDraft, status int, errMsg string) {
	data := views.PlansData{Flow: draft.ID, MobileNumber: draft.MobileNumber}
	catalog, err := h.deps.api(r).Plans(r.Context())
	if err != nil {
		log.Printf("load plans: %v", err)
		data.LoadError = "Failed to load plans: " + backend.MessageOr(err, msgUnknownError)
		if status == http.StatusOK {
			status = http.StatusBadGateway
		}
	} else {
		data.Catalog = catalog
	}
	page := h.deps.page(r, "Plans", data)
	page.Error = errMsg
	h.deps.render(w, status, views.PagePlans, page)
}

func (h *CheckoutHandler) selectPlan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.deps.render(w, http.StatusBadRequest, views.PagePlans, h.deps.page(r, "Plans", views.PlansData{Incomplete: true}))
		return
	}
	flow := r.PostForm.Get(routepath.FlowParam)
	draft, err := h.deps.Flow.ForPlans(r.Context(), flow)
	if err != nil {
		h.incomplete(w, r, views.PagePlans, "Plans", err, views.PlansData{Incomplete: true})
		return
	}

	planID := forms.Value(r.PostForm, "planId")
	if planID == "" {
		h.renderPlans(w, r, draft, http.StatusUnprocessableEntity, msgPlanUnavailable)
		return
	}
	// Plans are resolved from the catalog, never from submitted fields.
	catalog, err := h.deps.api(r).Plans(r.Context())
	if err != nil {
		log.Printf("select plan: load plans: %v", err)
		page := h.deps.page(r, "Plans", views.PlansData{
			Flow:         draft.ID,
			MobileNumber: draft.MobileNumber,
			LoadError:    "Failed to load plans: " + backend.MessageOr(err, msgUnknownError),
		})
		h.deps.render(w, http.StatusBadGateway, views.PagePlans, page)
		return
	}
	plan, ok := catalog.Find(planID)
	if !ok {
		page := h.deps.page(r, "Plans", views.PlansData{Flow: draft.ID, MobileNumber: draft.MobileNumber, Catalog: catalog})
		page.Error = msgPlanUnavailable
		h.deps.render(w, http.StatusUnprocessableEntity, views.PagePlans, page)
		return
	}

	if _, err := h.deps.Flow.SelectPlan(r.Context(), draft.ID, plan); err != nil {
		h.incomplete(w, r, views.PagePlans, "Plans", err, views.PlansData{Incomplete: true})
		return
	}
	respond.SeeOther(w, r, routepath.PaymentFor(draft.ID))
}

func (h *CheckoutHandler) paymentPage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	draft, err := h.deps.Flow.ForPayment(r.Context(), query.Get(routepath.FlowParam))
	if err != nil {
		h.incomplete(w, r, views.PagePayment, "Payment", err, views.PaymentData{Incomplete: true})
		return
	}
	mode, _ := payment.ParseMode(query.Get(routepath.PaymentModeParam))
	h.deps.render(w, http.StatusOK, views.PagePayment, h.deps.page(r, "Payment", paymentData(draft, mode, nil)))
}

func (h *CheckoutHandler) pay(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.deps.render(w, http.StatusBadRequest, views.PagePayment, h.deps.page(r, "Payment", views.PaymentData{Incomplete: true}))
		return
	}
	draft, err := h.deps.Flow.ForPayment(r.Context(), r.PostForm.Get(routepath.FlowParam))
	if err != nil {
		h.incomplete(w, r, views.PagePayment, "Payment", err, views.PaymentData{Incomplete: true})
		return
	}

	mode, _ := payment.ParseMode(forms.Value(r.PostForm, "paymentMode"))
	data := paymentData(draft, mode, r.PostForm)
	page := h.deps.page(r, "Payment", data)

	details, errs := payment.ParseAndValidate(r.PostForm, h.deps.now())
	if !errs.Valid() {
		page.Fields = errs
		h.deps.render(w, http.StatusUnprocessableEntity, views.PagePayment, page)
		return
	}
	payload, err := details.Payload()
	if err != nil {
		log.Printf("payment %s: %v", draft.ID, err)
		page.Error = msgPaymentFailed
		h.deps.render(w, http.StatusInternalServerError, views.PagePayment, page)
		return
	}

	rechargeID, err := h.deps.api(r).SubmitRecharge(r.Context(), dto.RechargeRequest{
		MobileNumber: draft.MobileNumber,
		PlanID:       draft.Plan.ID,
	})
	if err != nil {
		log.Printf("payment %s: submit recharge: %v", draft.ID, err)
		page.Error = backend.MessageOr(err, msgPaymentFailed)
		h.deps.render(w, http.StatusBadGateway, views.PagePayment, page)
		return
	}
	err = h.deps.api(r).ProcessPayment(r.Context(), dto.PaymentRequest{
		RechargeID:     rechargeID,
		PaymentMode:    string(details.Mode()),
		PaymentDetails: payload,
	})
	if err != nil {
		// The recharge stays pending on the backend; there is no cancel call.
		log.Printf("payment %s: recharge %s left unpaid: %v", draft.ID, rechargeID, err)
		page.Error = backend.MessageOr(err, msgPaymentFailed)
		h.deps.render(w, http.StatusBadGateway, views.PagePayment, page)
		return
	}

	if err := h.deps.Flow.Complete(r.Context(), draft.ID); err != nil {
		log.Printf("payment %s: %v", draft.ID, err)
	}
	message := fmt.Sprintf(msgPaymentSuccessful, draft.Plan.Name)
	flash.Write(w, flash.Success(message), h.deps.SecureCookies)
	h.deps.render(w, http.StatusOK, views.PagePaymentComplete, h.deps.page(r, "Payment", views.PaymentCompleteData{
		Message:    message,
		RedirectTo: routepath.Validate,
		Delay:      h.deps.RedirectDelay,
	}))
}

// incomplete answers a failed entry check: the start-over notice for an
// incomplete flow, the error page for anything else.
func (h *CheckoutHandler) incomplete(w http.ResponseWriter, r *http.Request, name, title string, err error, data any) {
	if errors.Is(err, checkout.ErrIncompleteFlow) || errors.Is(err, checkout.ErrPlanNotSelectable) {
		h.deps.render(w, http.StatusOK, name, h.deps.page(r, title, data))
		return
	}
	log.Printf("checkout: %v", err)
	h.deps.serverError(w, r)
}

func paymentData(draft models.CheckoutDraft, mode payment.Mode, submitted map[string][]string) views.PaymentData {
	values := make(map[string]string, len(echoedPaymentFields))
	for _, field := range echoedPaymentFields {
		if v := submitted[field]; len(v) > 0 {
			values[field] = v[0]
		}
	}
	return views.PaymentData{
		Flow:         draft.ID,
		MobileNumber: draft.MobileNumber,
		Plan:         *draft.Plan,
		Mode:         mode,
		Modes:        payment.Modes,
		Banks:        payment.Banks,
		Values:       values,
	}
}
