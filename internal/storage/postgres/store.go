package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hongminglow/recharge-web/internal/models"
	"github.com/hongminglow/recharge-web/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure Store satisfies the storage.DraftStore interface at compile time.
var _ storage.DraftStore = (*Store)(nil)

// Store provides Postgres-backed persistence for checkout drafts, letting
// several front-end instances share in-flight checkouts.
type Store struct {
	pool *pgxpool.Pool
}

// NewDraftStore creates a new Store and runs migrations.
func NewDraftStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS checkout_drafts (
			id TEXT PRIMARY KEY,
			mobile_number TEXT NOT NULL,
			plan JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			expires_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS checkout_drafts_expires_idx ON checkout_drafts (expires_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateDraft inserts a new draft row and prunes expired ones.
func (s *Store) CreateDraft(ctx context.Context, draft models.CheckoutDraft) error {
	plan, err := encodePlan(draft.Plan)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM checkout_drafts WHERE expires_at <= NOW();`); err != nil {
		return fmt.Errorf("prune drafts: %w", err)
	}
	const query = `
		INSERT INTO checkout_drafts (id, mobile_number, plan, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err = s.pool.Exec(ctx, query, draft.ID, draft.MobileNumber, plan, draft.CreatedAt, draft.ExpiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return storage.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindDraft fetches a live draft by flow identifier.
func (s *Store) FindDraft(ctx context.Context, id string) (models.CheckoutDraft, error) {
	const query = `
	SELECT id, mobile_number, plan, created_at, expires_at
	FROM checkout_drafts
	WHERE id = $1 AND expires_at > NOW();
	`
	row := s.pool.QueryRow(ctx, query, id)
	return scanDraft(row)
}

// UpdateDraft replaces the mutable fields of a live draft.
func (s *Store) UpdateDraft(ctx context.Context, draft models.CheckoutDraft) error {
	plan, err := encodePlan(draft.Plan)
	if err != nil {
		return err
	}
	const query = `
	UPDATE checkout_drafts
	SET mobile_number = $2, plan = $3, expires_at = $4
	WHERE id = $1 AND expires_at > NOW();
	`
	tag, err := s.pool.Exec(ctx, query, draft.ID, draft.MobileNumber, plan, draft.ExpiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteDraft removes a draft; deleting a missing draft is not an error.
func (s *Store) DeleteDraft(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM checkout_drafts WHERE id = $1;`, id)
	return err
}

func scanDraft(row pgx.Row) (models.CheckoutDraft, error) {
	var (
		draft     models.CheckoutDraft
		plan      []byte
		createdAt time.Time
		expiresAt time.Time
	)
	if err := row.Scan(&draft.ID, &draft.MobileNumber, &plan, &createdAt, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.CheckoutDraft{}, storage.ErrNotFound
		}
		return models.CheckoutDraft{}, err
	}
	draft.CreatedAt = createdAt
	draft.ExpiresAt = expiresAt
	if len(plan) > 0 {
		var p models.Plan
		if err := json.Unmarshal(plan, &p); err != nil {
			return models.CheckoutDraft{}, fmt.Errorf("decode draft plan: %w", err)
		}
		draft.Plan = &p
	}
	return draft, nil
}

func encodePlan(plan *models.Plan) ([]byte, error) {
	if plan == nil {
		return nil, nil
	}
	b, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("encode draft plan: %w", err)
	}
	return b, nil
}
