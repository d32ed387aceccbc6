package main

import (
	"context"
	"fmt"

	"github.com/hongminglow/recharge-web/internal/config"
	"github.com/hongminglow/recharge-web/internal/storage"
	"github.com/hongminglow/recharge-web/internal/storage/memory"
	"github.com/hongminglow/recharge-web/internal/storage/postgres"
	"github.com/hongminglow/recharge-web/internal/storage/sqlite"
)

func openDraftStore(ctx context.Context, cfg config.Config) (storage.DraftStore, error) {
	switch cfg.DraftStore {
	case config.DraftStoreMemory:
		return memory.NewDraftStore(), nil
	case config.DraftStoreSQLite:
		return sqlite.Open(cfg.SQLitePath)
	case config.DraftStorePostgres:
		return postgres.NewDraftStore(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown draft store %q", cfg.DraftStore)
	}
}
