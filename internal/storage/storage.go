package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/recharge-web/internal/models"
)

// ErrNotFound indicates a record does not exist or has expired.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// DraftStore persists short-lived checkout drafts keyed by flow identifier.
// Implementations treat drafts past ExpiresAt as absent.
type DraftStore interface {
	CreateDraft(ctx context.Context, draft models.CheckoutDraft) error
	FindDraft(ctx context.Context, id string) (models.CheckoutDraft, error)
	UpdateDraft(ctx context.Context, draft models.CheckoutDraft) error
	DeleteDraft(ctx context.Context, id string) error
	Close() error
}
