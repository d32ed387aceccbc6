// Package forms validates submitted fields before anything reaches the
// backend. A non-empty FieldErrors blocks the submission.
package forms

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	mobilePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	namePattern   = regexp.MustCompile(`^[a-zA-Z\s]+$`)
)

const minPasswordLength = 6

// FieldErrors maps a form field name to the message shown beside it.
type FieldErrors map[string]string

// Add records msg for field unless the field already has a message.
func (f FieldErrors) Add(field, msg string) {
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
}

// Has reports whether field failed validation.
func (f FieldErrors) Has(field string) bool {
	_, ok := f[field]
	return ok
}

// Get returns the message for field, empty when it passed.
func (f FieldErrors) Get(field string) string {
	return f[field]
}

// Valid reports whether no field failed.
func (f FieldErrors) Valid() bool {
	return len(f) == 0
}

// Value returns the trimmed form value for field.
func Value(values url.Values, field string) string {
	return strings.TrimSpace(values.Get(field))
}

// ValidMobileNumber reports whether s is a 10-digit number starting with 6-9.
func ValidMobileNumber(s string) bool {
	return mobilePattern.MatchString(s)
}

// ValidHolderName reports whether s contains only letters and spaces.
func ValidHolderName(s string) bool {
	return namePattern.MatchString(s)
}

func checkMobile(errs FieldErrors, field, value string) {
	switch {
	case value == "":
		errs.Add(field, "Mobile number is required")
	case !ValidMobileNumber(value):
		errs.Add(field, "Mobile number must be 10 digits starting with 6-9")
	}
}
