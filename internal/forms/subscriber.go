package forms

import (
	"net/url"

	"github.com/hongminglow/recharge-web/internal/models/dto"
)

// MobileForm is the mobile validation step.
type MobileForm struct {
	MobileNumber string
}

// ParseMobile reads and validates the mobile validation form.
func ParseMobile(values url.Values) (MobileForm, FieldErrors) {
	form := MobileForm{MobileNumber: Value(values, "mobileNumber")}
	errs := FieldErrors{}
	checkMobile(errs, "mobileNumber", form.MobileNumber)
	return form, errs
}

// RegisterForm is the subscriber registration step. Password is never
// echoed back into a re-rendered form.
type RegisterForm struct {
	Name         string
	MobileNumber string
	Email        string
	Password     string
}

// ParseRegister reads and validates the registration form.
func ParseRegister(values url.Values) (RegisterForm, FieldErrors) {
	form := RegisterForm{
		Name:         Value(values, "name"),
		MobileNumber: Value(values, "mobileNumber"),
		Email:        Value(values, "email"),
		Password:     values.Get("password"),
	}
	errs := FieldErrors{}
	if form.Name == "" {
		errs.Add("name", "Name is required")
	}
	checkMobile(errs, "mobileNumber", form.MobileNumber)
	switch {
	case form.Email == "":
		errs.Add("email", "Email is required")
	case !emailPattern.MatchString(form.Email):
		errs.Add("email", "Invalid email address")
	}
	switch {
	case form.Password == "":
		errs.Add("password", "Password is required")
	case len([]rune(form.Password)) < minPasswordLength:
		errs.Add("password", "Password must be at least 6 characters")
	}
	return form, errs
}

// Request converts the form into the backend registration body.
func (f RegisterForm) Request() dto.RegisterRequest {
	return dto.RegisterRequest{
		Name:         f.Name,
		MobileNumber: f.MobileNumber,
		Email:        f.Email,
		Password:     f.Password,
	}
}

// LoginForm is the admin login step. Only presence is checked.
type LoginForm struct {
	Username string
	Password string
}

// ParseLogin reads and validates the admin login form.
func ParseLogin(values url.Values) (LoginForm, FieldErrors) {
	form := LoginForm{
		Username: Value(values, "username"),
		Password: values.Get("password"),
	}
	errs := FieldErrors{}
	if form.Username == "" {
		errs.Add("username", "Username is required")
	}
	if form.Password == "" {
		errs.Add("password", "Password is required")
	}
	return form, errs
}

// Request converts the form into the backend login body.
func (f LoginForm) Request() dto.LoginRequest {
	return dto.LoginRequest{Username: f.Username, Password: f.Password}
}
