package payment

import (
	"regexp"
	"slices"
	"strconv"
	"time"

	"github.com/hongminglow/recharge-web/internal/forms"
)

var (
	upiPattern     = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+$`)
	cardPattern    = regexp.MustCompile(`^\d{16}$`)
	expiryPattern  = regexp.MustCompile(`^(0[1-9]|1[0-2])/([2-9][0-9])$`)
	cvvPattern     = regexp.MustCompile(`^\d{3}$`)
	accountPattern = regexp.MustCompile(`^\d{9,18}$`)
	ifscPattern    = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
)

// UPI pays through a virtual payment address.
type UPI struct {
	ID string
}

func (UPI) Mode() Mode { return ModeUPI }

func (u UPI) Validate(time.Time) forms.FieldErrors {
	errs := forms.FieldErrors{}
	switch {
	case u.ID == "":
		errs.Add("upiId", "UPI ID is required")
	case !upiPattern.MatchString(u.ID):
		errs.Add("upiId", "Invalid UPI ID format (e.g., user@upi)")
	}
	return errs
}

func (u UPI) Payload() (string, error) {
	return marshalPayload(struct {
		UPIID string `json:"upiId"`
	}{u.ID})
}

// Card pays with a credit or debit card.
type Card struct {
	CardMode Mode
	Number   string
	Holder   string
	Expiry   string
	CVV      string
}

func (c Card) Mode() Mode { return c.CardMode }

func (c Card) Validate(now time.Time) forms.FieldErrors {
	errs := forms.FieldErrors{}
	switch {
	case c.Number == "":
		errs.Add("cardNumber", "Card number is required")
	case !cardPattern.MatchString(c.Number):
		errs.Add("cardNumber", "Card number must be 16 digits")
	}
	checkHolder(errs, "cardholderName", "Cardholder name is required", c.Holder)
	switch {
	case c.Expiry == "":
		errs.Add("expiryDate", "Expiry date is required")
	case !expiryPattern.MatchString(c.Expiry):
		errs.Add("expiryDate", "Invalid format (MM/YY, e.g., 08/27)")
	case !ExpiryInFuture(c.Expiry, now):
		errs.Add("expiryDate", "Card has expired")
	}
	switch {
	case c.CVV == "":
		errs.Add("cvv", "CVV is required")
	case !cvvPattern.MatchString(c.CVV):
		errs.Add("cvv", "CVV must be 3 digits")
	}
	return errs
}

func (c Card) Payload() (string, error) {
	return marshalPayload(struct {
		CardNumber     string `json:"cardNumber"`
		CardholderName string `json:"cardholderName"`
		ExpiryDate     string `json:"expiryDate"`
		CVV            string `json:"cvv"`
	}{c.Number, c.Holder, c.Expiry, c.CVV})
}

// ExpiryInFuture reports whether an MM/YY expiry falls in a month strictly
// after the month of now.
func ExpiryInFuture(expiry string, now time.Time) bool {
	m := expiryPattern.FindStringSubmatch(expiry)
	if m == nil {
		return false
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	year += 2000
	if year != now.Year() {
		return year > now.Year()
	}
	return month > int(now.Month())
}

// BankTransfer pays from a bank account.
type BankTransfer struct {
	Bank          string
	AccountNumber string
	IFSC          string
	Holder        string
}

func (BankTransfer) Mode() Mode { return ModeBankTransfer }

func (b BankTransfer) Validate(time.Time) forms.FieldErrors {
	errs := forms.FieldErrors{}
	switch {
	case b.Bank == "":
		errs.Add("bankName", "Bank name is required")
	case !slices.Contains(Banks, b.Bank):
		errs.Add("bankName", "Unsupported bank")
	}
	switch {
	case b.AccountNumber == "":
		errs.Add("accountNumber", "Account number is required")
	case !accountPattern.MatchString(b.AccountNumber):
		errs.Add("accountNumber", "Account number must be 9-18 digits")
	}
	switch {
	case b.IFSC == "":
		errs.Add("ifscCode", "IFSC code is required")
	case !ifscPattern.MatchString(b.IFSC):
		errs.Add("ifscCode", "Invalid IFSC code format")
	}
	checkHolder(errs, "accountHolderName", "Account holder name is required", b.Holder)
	return errs
}

func (b BankTransfer) Payload() (string, error) {
	return marshalPayload(struct {
		BankName          string `json:"bankName"`
		AccountNumber     string `json:"accountNumber"`
		IFSCCode          string `json:"ifscCode"`
		AccountHolderName string `json:"accountHolderName"`
	}{b.Bank, b.AccountNumber, b.IFSC, b.Holder})
}

func checkHolder(errs forms.FieldErrors, field, required, value string) {
	switch {
	case value == "":
		errs.Add(field, required)
	case !forms.ValidHolderName(value):
		errs.Add(field, "Name must contain only letters and spaces")
	}
}
