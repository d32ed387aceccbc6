// Package payment models the mode-dependent payment form as a tagged union:
// each mode carries only its own fields and validates them before the
// payload is serialised for the backend.
package payment

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/hongminglow/recharge-web/internal/forms"
)

// Mode is the payment method chosen by the subscriber.
type Mode string

const (
	ModeUPI          Mode = "UPI"
	ModeCreditCard   Mode = "Credit Card"
	ModeDebitCard    Mode = "Debit Card"
	ModeBankTransfer Mode = "Bank Transfer"
)

// Modes lists the selectable modes in display order.
var Modes = []Mode{ModeUPI, ModeCreditCard, ModeDebitCard, ModeBankTransfer}

// Banks lists the banks offered for bank transfers.
var Banks = []string{"Bank of America", "Chase", "Wells Fargo", "Citibank"}

// ParseMode returns the known mode named by s.
func ParseMode(s string) (Mode, bool) {
	for _, m := range Modes {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// IsCard reports whether m collects card details.
func (m Mode) IsCard() bool {
	return m == ModeCreditCard || m == ModeDebitCard
}

// Details is one variant of the payment union.
type Details interface {
	Mode() Mode
	// Validate checks the variant's fields; now anchors expiry checks.
	Validate(now time.Time) forms.FieldErrors
	// Payload serialises the variant for the backend's paymentDetails field.
	Payload() (string, error)
}

// Parse reads the fields of the active mode only. Fields belonging to other
// modes are ignored even when present.
func Parse(values url.Values) (Details, forms.FieldErrors) {
	raw := forms.Value(values, "paymentMode")
	if raw == "" {
		return nil, forms.FieldErrors{"paymentMode": "Payment mode is required"}
	}
	mode, ok := ParseMode(raw)
	if !ok {
		return nil, forms.FieldErrors{"paymentMode": "Unsupported payment mode"}
	}
	switch {
	case mode == ModeUPI:
		return UPI{ID: forms.Value(values, "upiId")}, nil
	case mode.IsCard():
		return Card{
			CardMode: mode,
			Number:   forms.Value(values, "cardNumber"),
			Holder:   forms.Value(values, "cardholderName"),
			Expiry:   forms.Value(values, "expiryDate"),
			CVV:      forms.Value(values, "cvv"),
		}, nil
	default:
		return BankTransfer{
			Bank:          forms.Value(values, "bankName"),
			AccountNumber: forms.Value(values, "accountNumber"),
			IFSC:          forms.Value(values, "ifscCode"),
			Holder:        forms.Value(values, "accountHolderName"),
		}, nil
	}
}

// ParseAndValidate combines Parse and Validate.
func ParseAndValidate(values url.Values, now time.Time) (Details, forms.FieldErrors) {
	details, errs := Parse(values)
	if !errs.Valid() {
		return nil, errs
	}
	if errs := details.Validate(now); !errs.Valid() {
		return details, errs
	}
	return details, nil
}

func marshalPayload(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode payment details: %w", err)
	}
	return string(b), nil
}
