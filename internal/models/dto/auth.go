package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/hongminglow/recharge-web/internal/models"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse holds the admin token. The backend answers either with a
// bare JSON string or with an object carrying a token field.
type LoginResponse struct {
	Token string
}

func (l *LoginResponse) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &l.Token)
	}
	var obj struct {
		Token       string `json:"token"`
		AccessToken string `json:"accessToken"`
		JWT         string `json:"jwt"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return err
	}
	for _, candidate := range []string{obj.Token, obj.AccessToken, obj.JWT} {
		if strings.TrimSpace(candidate) != "" {
			l.Token = strings.TrimSpace(candidate)
			return nil
		}
	}
	return errors.New("login response carries no token")
}

type RegisterRequest struct {
	Name         string `json:"name"`
	MobileNumber string `json:"mobileNumber"`
	Email        string `json:"email"`
	Password     string `json:"password"`
}

type ValidateRequest struct {
	MobileNumber string `json:"mobileNumber"`
}

// ValidateResponse is the registered/active answer for a mobile number,
// sent as a JSON boolean or as an object with a valid field.
type ValidateResponse struct {
	Valid bool
}

func (v *ValidateResponse) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("true")):
		v.Valid = true
		return nil
	case bytes.Equal(trimmed, []byte("false")), bytes.Equal(trimmed, []byte("null")):
		v.Valid = false
		return nil
	}
	var obj struct {
		Valid   *bool `json:"valid"`
		IsValid *bool `json:"isValid"`
		Active  *bool `json:"active"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return err
	}
	for _, candidate := range []*bool{obj.Valid, obj.IsValid, obj.Active} {
		if candidate != nil {
			v.Valid = *candidate
			return nil
		}
	}
	return errors.New("validate response carries no verdict")
}

type RechargeRequest struct {
	MobileNumber string    `json:"mobileNumber"`
	PlanID       models.ID `json:"planId"`
}

type RechargeResponse struct {
	RechargeID models.ID `json:"rechargeId"`
}

// PaymentRequest settles a recharge. PaymentDetails is the mode-specific
// payload already serialised to a JSON string.
type PaymentRequest struct {
	RechargeID     models.ID `json:"rechargeId"`
	PaymentMode    string    `json:"paymentMode"`
	PaymentDetails string    `json:"paymentDetails"`
}
