// Package memory keeps checkout drafts in process memory. Drafts are lost on
// restart, which suits a single-instance deployment.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hongminglow/recharge-web/internal/models"
	"github.com/hongminglow/recharge-web/internal/storage"
)

var _ storage.DraftStore = (*Store)(nil)

// Store is a mutex-guarded map of drafts.
type Store struct {
	mu     sync.Mutex
	drafts map[string]models.CheckoutDraft
	now    func() time.Time
}

// NewDraftStore returns an empty store.
func NewDraftStore() *Store {
	return &Store{drafts: make(map[string]models.CheckoutDraft), now: time.Now}
}

func (s *Store) CreateDraft(_ context.Context, draft models.CheckoutDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	if _, exists := s.drafts[draft.ID]; exists {
		return storage.ErrAlreadyExists
	}
	s.drafts[draft.ID] = cloneDraft(draft)
	return nil
}

func (s *Store) FindDraft(_ context.Context, id string) (models.CheckoutDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[id]
	if !ok {
		return models.CheckoutDraft{}, storage.ErrNotFound
	}
	if draft.Expired(s.now()) {
		delete(s.drafts, id)
		return models.CheckoutDraft{}, storage.ErrNotFound
	}
	return cloneDraft(draft), nil
}

func (s *Store) UpdateDraft(_ context.Context, draft models.CheckoutDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.drafts[draft.ID]
	if !ok || current.Expired(s.now()) {
		return storage.ErrNotFound
	}
	s.drafts[draft.ID] = cloneDraft(draft)
	return nil
}

func (s *Store) DeleteDraft(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// sweepLocked drops expired drafts. Called on insert so the map stays
// bounded by the number of live flows.
func (s *Store) sweepLocked() {
	now := s.now()
	for id, draft := range s.drafts {
		if draft.Expired(now) {
			delete(s.drafts, id)
		}
	}
}

func cloneDraft(d models.CheckoutDraft) models.CheckoutDraft {
	if d.Plan != nil {
		plan := *d.Plan
		d.Plan = &plan
	}
	return d
}
