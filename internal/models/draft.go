package models

import "time"

// CheckoutDraft is the short-lived state of one subscriber checkout, from a
// validated mobile number through plan selection to payment.
type CheckoutDraft struct {
	ID           string    `json:"id"`
	MobileNumber string    `json:"mobileNumber"`
	Plan         *Plan     `json:"plan,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Expired reports whether the draft is past its lifetime at now.
func (d CheckoutDraft) Expired(now time.Time) bool {
	return !d.ExpiresAt.IsZero() && !now.Before(d.ExpiresAt)
}
