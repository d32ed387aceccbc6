// Package sqlite persists checkout drafts in a local SQLite file so that
// in-flight checkouts survive a restart of a single instance.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hongminglow/recharge-web/internal/models"
	"github.com/hongminglow/recharge-web/internal/storage"
	_ "modernc.org/sqlite"
)

var _ storage.DraftStore = (*Store)(nil)

// Store provides SQLite-backed persistence for checkout drafts.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens a SQLite store at the provided path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	s := &Store{sqlDB: sqlDB, now: time.Now}
	if err := s.migrate(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) migrate() error {
	_, err := s.sqlDB.Exec(`CREATE TABLE IF NOT EXISTS checkout_drafts (
		id TEXT PRIMARY KEY,
		mobile_number TEXT NOT NULL,
		plan_json TEXT,
		created_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL
	)`)
	return err
}

func (s *Store) CreateDraft(ctx context.Context, draft models.CheckoutDraft) error {
	plan, err := encodePlan(draft.Plan)
	if err != nil {
		return err
	}
	now := toMillis(s.now())
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM checkout_drafts WHERE expires_at <= ?`, now); err != nil {
		return fmt.Errorf("prune drafts: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO checkout_drafts (id, mobile_number, plan_json, created_at, expires_at) VALUES (?, ?, ?, ?, ?)`,
		draft.ID, draft.MobileNumber, plan, toMillis(draft.CreatedAt), toMillis(draft.ExpiresAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert draft: %w", err)
	}
	return nil
}

func (s *Store) FindDraft(ctx context.Context, id string) (models.CheckoutDraft, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, mobile_number, plan_json, created_at, expires_at FROM checkout_drafts WHERE id = ? AND expires_at > ?`,
		id, toMillis(s.now()),
	)
	var (
		draft     models.CheckoutDraft
		plan      sql.NullString
		createdAt int64
		expiresAt int64
	)
	if err := row.Scan(&draft.ID, &draft.MobileNumber, &plan, &createdAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CheckoutDraft{}, storage.ErrNotFound
		}
		return models.CheckoutDraft{}, fmt.Errorf("select draft: %w", err)
	}
	draft.CreatedAt = fromMillis(createdAt)
	draft.ExpiresAt = fromMillis(expiresAt)
	if plan.Valid && plan.String != "" {
		var p models.Plan
		if err := json.Unmarshal([]byte(plan.String), &p); err != nil {
			return models.CheckoutDraft{}, fmt.Errorf("decode draft plan: %w", err)
		}
		draft.Plan = &p
	}
	return draft, nil
}

func (s *Store) UpdateDraft(ctx context.Context, draft models.CheckoutDraft) error {
	plan, err := encodePlan(draft.Plan)
	if err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE checkout_drafts SET mobile_number = ?, plan_json = ?, expires_at = ? WHERE id = ? AND expires_at > ?`,
		draft.MobileNumber, plan, toMillis(draft.ExpiresAt), draft.ID, toMillis(s.now()),
	)
	if err != nil {
		return fmt.Errorf("update draft: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update draft: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteDraft(ctx context.Context, id string) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM checkout_drafts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

func encodePlan(plan *models.Plan) (sql.NullString, error) {
	if plan == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(plan)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode draft plan: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
