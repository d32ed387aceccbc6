package backend

import (
	"context"
	"errors"
	"net/url"

	"github.com/hongminglow/recharge-web/internal/auth"
	"github.com/hongminglow/recharge-web/internal/models"
	"github.com/hongminglow/recharge-web/internal/models/dto"
)

// ErrEmptyToken indicates a successful login answer without a usable token.
var ErrEmptyToken = errors.New("login returned no token")

// ErrMissingRechargeID indicates a recharge answer without an identifier.
var ErrMissingRechargeID = errors.New("recharge returned no identifier")

// LoginAdmin exchanges admin credentials for a bearer token.
func (c *Client) LoginAdmin(ctx context.Context, req dto.LoginRequest) (auth.Credential, error) {
	var out dto.LoginResponse
	if err := c.post(ctx, "/admin/login", req, &out); err != nil {
		return "", err
	}
	cred := auth.NewCredential(out.Token)
	if !cred.Present() {
		return "", ErrEmptyToken
	}
	return cred, nil
}

// ExpiringSubscribers lists subscribers whose plan expires soon. The
// look-ahead window is decided by the backend.
func (c *Client) ExpiringSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	var out []models.Subscriber
	if err := c.getJSON(ctx, "/admin/subscribers/expiring", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RechargeHistory lists a subscriber's recharges in backend order.
func (c *Client) RechargeHistory(ctx context.Context, mobileNumber string) ([]models.RechargeRecord, error) {
	var out []models.RechargeRecord
	path := "/admin/subscribers/" + url.PathEscape(mobileNumber) + "/history"
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Register creates a subscriber.
func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) error {
	return c.post(ctx, "/recharge/register", req, nil)
}

// ValidateMobile asks whether a number is registered and active. A false
// answer is a business outcome, not an error.
func (c *Client) ValidateMobile(ctx context.Context, mobileNumber string) (bool, error) {
	var out dto.ValidateResponse
	if err := c.post(ctx, "/recharge/validate", dto.ValidateRequest{MobileNumber: mobileNumber}, &out); err != nil {
		return false, err
	}
	return out.Valid, nil
}

// Plans fetches the plan catalog grouped by category.
func (c *Client) Plans(ctx context.Context) (models.PlanCatalog, error) {
	var out models.PlanCatalog
	if err := c.getJSON(ctx, "/recharge/plans", &out); err != nil {
		return models.PlanCatalog{}, err
	}
	return out, nil
}

// SubmitRecharge records a pending recharge and returns its identifier.
func (c *Client) SubmitRecharge(ctx context.Context, req dto.RechargeRequest) (models.ID, error) {
	var out dto.RechargeResponse
	if err := c.post(ctx, "/recharge", req, &out); err != nil {
		return models.ID{}, err
	}
	if out.RechargeID.IsZero() {
		return models.ID{}, ErrMissingRechargeID
	}
	return out.RechargeID, nil
}

// ProcessPayment settles a recharge.
func (c *Client) ProcessPayment(ctx context.Context, req dto.PaymentRequest) error {
	return c.post(ctx, "/recharge/payment", req, nil)
}
