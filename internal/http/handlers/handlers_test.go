package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/hongminglow/recharge-web/internal/auth"
	"github.com/hongminglow/recharge-web/internal/backend"
	"github.com/hongminglow/recharge-web/internal/checkout"
	"github.com/hongminglow/recharge-web/internal/http/views"
	"github.com/hongminglow/recharge-web/internal/session"
	"github.com/hongminglow/recharge-web/internal/storage/memory"
)

func newDeps(t *testing.T, api http.Handler) Deps {
	t.Helper()
	ts := httptest.NewServer(api)
	t.Cleanup(ts.Close)
	renderer, err := views.New()
	if err != nil {
		t.Fatalf("views.New: %v", err)
	}
	sealer, err := auth.NewSealer("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}
	return Deps{
		Views:    renderer,
		API:      backend.New(ts.URL, ts.Client()),
		Sessions: session.NewManager(sealer, false),
		Flow:     checkout.NewFlow(memory.NewDraftStore(), time.Minute),
	}
}

func serve(t *testing.T, router *mux.Router, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestValidateInactiveNumber(t *testing.T) {
	deps := newDeps(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `false`)
	}))
	r := mux.NewRouter()
	NewSubscriberHandler(deps).Register(r)

	rec := serve(t, r, http.MethodPost, "/validate", url.Values{"mobileNumber": {"9876543210"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Mobile number is not registered or not active") {
		t.Fatalf("missing rejection:\n%s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `value="9876543210"`) {
		t.Fatal("number not kept in form")
	}
}

func TestValidateBackendMessage(t *testing.T) {
	deps := newDeps(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"message":"Validation service down"}`)
	}))
	r := mux.NewRouter()
	NewSubscriberHandler(deps).Register(r)

	rec := serve(t, r, http.MethodPost, "/validate", url.Values{"mobileNumber": {"9876543210"}})
	if rec.Code != http.StatusBadGateway || !strings.Contains(rec.Body.String(), "Validation service down") {
		t.Fatalf("response %d:\n%s", rec.Code, rec.Body.String())
	}
}

func TestRegisterFailureFallsBackToGenericMessage(t *testing.T) {
	deps := newDeps(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	r := mux.NewRouter()
	NewSubscriberHandler(deps).Register(r)

	rec := serve(t, r, http.MethodPost, "/register", url.Values{
		"name":         {"Asha Rao"},
		"mobileNumber": {"9876543210"},
		"email":        {"asha@example.com"},
		"password":     {"secret1"},
	})
	body := rec.Body.String()
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(body, "Registration failed") {
		t.Fatalf("response %d:\n%s", rec.Code, body)
	}
	if strings.Contains(body, "secret1") {
		t.Fatal("password echoed back")
	}
}

func TestConcurrentRegistrationsShareOneCall(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	deps := newDeps(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		w.WriteHeader(http.StatusCreated)
	}))
	r := mux.NewRouter()
	NewSubscriberHandler(deps).Register(r)
	form := url.Values{
		"name":         {"Asha Rao"},
		"mobileNumber": {"9876543210"},
		"email":        {"asha@example.com"},
		"password":     {"secret1"},
	}

	var wg sync.WaitGroup
	codes := make([]int, 2)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = serve(t, r, http.MethodPost, "/register", form).Code
		}(i)
	}
	// Give both requests time to join the same flight before answering.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Fatalf("backend register calls = %d, want 1", n)
	}
	for i, code := range codes {
		if code != http.StatusSeeOther {
			t.Fatalf("request %d status = %d", i, code)
		}
	}
}

func TestPlansLoadError(t *testing.T) {
	deps := newDeps(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"catalog unavailable"}`)
	}))
	draft, err := deps.Flow.Start(t.Context(), "9876543210")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	r := mux.NewRouter()
	NewCheckoutHandler(deps).Register(r)

	rec := serve(t, r, http.MethodGet, "/plans?flow="+draft.ID, nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Failed to load plans: catalog unavailable") {
		t.Fatalf("missing load error:\n%s", rec.Body.String())
	}
}

func TestSelectUnknownPlan(t *testing.T) {
	deps := newDeps(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"Popular":[{"id":1,"name":"Basic","amount":199,"validityDays":28}]}`)
	}))
	draft, err := deps.Flow.Start(t.Context(), "9876543210")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	r := mux.NewRouter()
	NewCheckoutHandler(deps).Register(r)

	rec := serve(t, r, http.MethodPost, "/plans/select", url.Values{"flow": {draft.ID}, "planId": {"99"}})
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "Selected plan is no longer available") {
		t.Fatalf("response %d:\n%s", rec.Code, rec.Body.String())
	}

	rec = serve(t, r, http.MethodPost, "/plans/select", url.Values{"flow": {draft.ID}, "planId": {"1"}})
	if rec.Code != http.StatusSeeOther || !strings.HasPrefix(rec.Header().Get("Location"), "/payment?flow=") {
		t.Fatalf("select response %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestPaymentPageModeSelection(t *testing.T) {
	deps := newDeps(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"Popular":[{"id":"p1","name":"Basic","amount":199,"validityDays":28}]}`)
	}))
	draft, _ := deps.Flow.Start(t.Context(), "9876543210")
	r := mux.NewRouter()
	NewCheckoutHandler(deps).Register(r)
	serve(t, r, http.MethodPost, "/plans/select", url.Values{"flow": {draft.ID}, "planId": {"p1"}})

	rec := serve(t, r, http.MethodGet, "/payment?flow="+draft.ID+"&mode=Bank+Transfer", nil)
	body := rec.Body.String()
	if !strings.Contains(body, `name="ifscCode"`) || strings.Contains(body, `name="upiId"`) {
		t.Fatalf("bank transfer fields not rendered alone:\n%s", body)
	}
	rec = serve(t, r, http.MethodGet, "/payment?flow="+draft.ID+"&mode=Cash", nil)
	if strings.Contains(rec.Body.String(), `name="upiId"`) || strings.Contains(rec.Body.String(), `name="cardNumber"`) {
		t.Fatal("unknown mode rendered fields")
	}
}

func TestAdminLoginRejected(t *testing.T) {
	deps := newDeps(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Bad credentials"}`)
	}))
	r := mux.NewRouter()
	NewAdminHandler(deps).RegisterPublic(r)

	rec := serve(t, r, http.MethodPost, "/admin/login", url.Values{"username": {"admin"}, "password": {"nope"}})
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "Invalid credentials") {
		t.Fatalf("response %d:\n%s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Set-Cookie") != "" {
		t.Fatal("session cookie set after failed login")
	}
}

func TestDashboardLoadError(t *testing.T) {
	deps := newDeps(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	r := mux.NewRouter()
	NewAdminHandler(deps).RegisterProtected(r)

	rec := serve(t, r, http.MethodGet, "/admin/dashboard", nil)
	if !strings.Contains(rec.Body.String(), "Failed to load subscribers. Please try again later.") {
		t.Fatalf("missing load error:\n%s", rec.Body.String())
	}
}

func TestPlansUnreachableBackendShowsGenericMessage(t *testing.T) {
	deps := newDeps(t, http.NotFoundHandler())
	gone := httptest.NewServer(http.NotFoundHandler())
	gone.Close()
	deps.API = backend.New(gone.URL, nil)
	draft, err := deps.Flow.Start(t.Context(), "9876543210")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	r := mux.NewRouter()
	NewCheckoutHandler(deps).Register(r)

	rec := serve(t, r, http.MethodGet, "/plans?flow="+draft.ID, nil)
	body := rec.Body.String()
	if rec.Code != http.StatusBadGateway || !strings.Contains(body, "Failed to load plans: Unknown error") {
		t.Fatalf("response %d:\n%s", rec.Code, body)
	}
	if strings.Contains(body, gone.URL) || strings.Contains(body, "/recharge/plans") {
		t.Fatalf("transport details leaked into page:\n%s", body)
	}
}

func TestSelectWithoutPlanIDKeepsDraftUnchanged(t *testing.T) {
	deps := newDeps(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"Popular":[{"name":"Promo","amount":0}]}`)
	}))
	draft, err := deps.Flow.Start(t.Context(), "9876543210")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	r := mux.NewRouter()
	NewCheckoutHandler(deps).Register(r)

	rec := serve(t, r, http.MethodPost, "/plans/select", url.Values{"flow": {draft.ID}, "planId": {""}})
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "Selected plan is no longer available") {
		t.Fatalf("response %d:\n%s", rec.Code, rec.Body.String())
	}
	if _, err := deps.Flow.ForPayment(t.Context(), draft.ID); err == nil {
		t.Fatal("draft advanced to payment without a plan")
	}
}
