package views

import (
	"time"

	"github.com/hongminglow/recharge-web/internal/forms"
	"github.com/hongminglow/recharge-web/internal/models"
	"github.com/hongminglow/recharge-web/internal/payment"
)

// ValidateData backs the mobile validation page.
type ValidateData struct {
	MobileNumber string
}

// RegisterData backs the registration page.
type RegisterData struct {
	Form forms.RegisterForm
}

// PlansData backs the plan listing page.
type PlansData struct {
	Incomplete   bool
	Flow         string
	MobileNumber string
	Catalog      models.PlanCatalog
	LoadError    string
}

// PaymentData backs the payment page. Values echoes the non-secret fields
// of a rejected submission.
type PaymentData struct {
	Incomplete   bool
	Flow         string
	MobileNumber string
	Plan         models.Plan
	Mode         payment.Mode
	Modes        []payment.Mode
	Banks        []string
	Values       map[string]string
}

// PaymentCompleteData backs the confirmation shown before returning to
// the validate page.
type PaymentCompleteData struct {
	Message    string
	RedirectTo string
	Delay      time.Duration
}

// AdminLoginData backs the admin login page.
type AdminLoginData struct {
	Username string
}

// DashboardData backs the expiring-subscribers table.
type DashboardData struct {
	Subscribers []models.Subscriber
	LoadError   string
}

// HistoryData backs a subscriber's recharge history.
type HistoryData struct {
	MobileNumber string
	Records      []models.RechargeRecord
	LoadError    string
}
