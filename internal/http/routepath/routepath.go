// Package routepath stores canonical HTTP paths of the front-end.
package routepath

import (
	"net/url"

	"github.com/hongminglow/recharge-web/internal/session"
)

const (
	Root                   = "/"
	Validate               = "/validate"
	Register               = "/register"
	Plans                  = "/plans"
	PlansSelect            = "/plans/select"
	Payment                = "/payment"
	AdminLogin             = session.LoginPath
	AdminLogout            = "/admin/logout"
	AdminDashboard         = "/admin/dashboard"
	AdminHistoryPrefix     = "/admin/recharge-history/"
	AdminHistoryPattern    = AdminHistoryPrefix + "{mobileNumber}"
	Health                 = "/health"
	StaticPrefix           = "/static/"
	FlowParam              = "flow"
	PaymentModeParam       = "mode"
	AdminHistoryPathVarKey = "mobileNumber"
)

// PlansFor returns the plan listing URL of a checkout flow.
func PlansFor(flow string) string {
	return Plans + "?" + url.Values{FlowParam: {flow}}.Encode()
}

// PaymentFor returns the payment URL of a checkout flow.
func PaymentFor(flow string) string {
	return Payment + "?" + url.Values{FlowParam: {flow}}.Encode()
}

// AdminHistory returns the recharge history URL of a subscriber.
func AdminHistory(mobileNumber string) string {
	return AdminHistoryPrefix + url.PathEscape(mobileNumber)
}
