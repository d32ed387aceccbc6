// Package checkout tracks one subscriber checkout across the validate, plan
// and payment steps. Each step loads the draft through an entry check that
// names what it needs; a missing or incomplete draft is ErrIncompleteFlow.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/recharge-web/internal/models"
	"github.com/hongminglow/recharge-web/internal/storage"
)

// ErrIncompleteFlow means the draft is unknown, expired, or lacks data the
// requested step needs. Pages answer it with a start-over notice.
var ErrIncompleteFlow = errors.New("checkout flow incomplete")

// ErrPlanNotSelectable rejects plans without an identifier.
var ErrPlanNotSelectable = errors.New("plan has no identifier")

// Flow creates and advances checkout drafts.
type Flow struct {
	store storage.DraftStore
	ttl   time.Duration
	now   func() time.Time
	newID func() string
}

// NewFlow builds a Flow over store. Drafts live for ttl after their last change.
func NewFlow(store storage.DraftStore, ttl time.Duration) *Flow {
	return &Flow{store: store, ttl: ttl, now: time.Now, newID: uuid.NewString}
}

// Start opens a draft for a mobile number the backend confirmed as active.
func (f *Flow) Start(ctx context.Context, mobileNumber string) (models.CheckoutDraft, error) {
	now := f.now()
	draft := models.CheckoutDraft{
		ID:           f.newID(),
		MobileNumber: mobileNumber,
		CreatedAt:    now,
		ExpiresAt:    now.Add(f.ttl),
	}
	if err := f.store.CreateDraft(ctx, draft); err != nil {
		return models.CheckoutDraft{}, fmt.Errorf("create draft: %w", err)
	}
	return draft, nil
}

// ForPlans loads a draft for the plan listing step, which needs a mobile number.
func (f *Flow) ForPlans(ctx context.Context, id string) (models.CheckoutDraft, error) {
	draft, err := f.load(ctx, id)
	if err != nil {
		return models.CheckoutDraft{}, err
	}
	if draft.MobileNumber == "" {
		return models.CheckoutDraft{}, ErrIncompleteFlow
	}
	return draft, nil
}

// SelectPlan records the chosen plan on the draft.
func (f *Flow) SelectPlan(ctx context.Context, id string, plan models.Plan) (models.CheckoutDraft, error) {
	if !plan.Selectable() {
		return models.CheckoutDraft{}, ErrPlanNotSelectable
	}
	draft, err := f.ForPlans(ctx, id)
	if err != nil {
		return models.CheckoutDraft{}, err
	}
	draft.Plan = &plan
	draft.ExpiresAt = f.now().Add(f.ttl)
	if err := f.store.UpdateDraft(ctx, draft); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.CheckoutDraft{}, ErrIncompleteFlow
		}
		return models.CheckoutDraft{}, fmt.Errorf("update draft: %w", err)
	}
	return draft, nil
}

// ForPayment loads a draft for the payment step, which needs both a mobile
// number and a selected plan.
func (f *Flow) ForPayment(ctx context.Context, id string) (models.CheckoutDraft, error) {
	draft, err := f.load(ctx, id)
	if err != nil {
		return models.CheckoutDraft{}, err
	}
	if draft.MobileNumber == "" || draft.Plan == nil || !draft.Plan.Selectable() {
		return models.CheckoutDraft{}, ErrIncompleteFlow
	}
	return draft, nil
}

// Complete discards the draft once payment went through.
func (f *Flow) Complete(ctx context.Context, id string) error {
	if err := f.store.DeleteDraft(ctx, id); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

func (f *Flow) load(ctx context.Context, id string) (models.CheckoutDraft, error) {
	if id == "" {
		return models.CheckoutDraft{}, ErrIncompleteFlow
	}
	draft, err := f.store.FindDraft(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.CheckoutDraft{}, ErrIncompleteFlow
		}
		return models.CheckoutDraft{}, fmt.Errorf("find draft: %w", err)
	}
	return draft, nil
}
