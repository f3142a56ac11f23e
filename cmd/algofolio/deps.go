package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/algofolio/internal/algod"
	"github.com/mtlprog/algofolio/internal/config"
	"github.com/mtlprog/algofolio/internal/database"
	"github.com/mtlprog/algofolio/internal/metadata"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func newAlgodClient(cfg config.Config) *algod.Client {
	return algod.NewClient(cfg.AlgodURL, cfg.AlgodToken, cfg.AlgodRetryMax, cfg.AlgodRetryBaseDelay)
}

// openStore returns the shared Redis cache when configured, else the cache file.
func openStore(ctx context.Context, cfg config.Config, cachePath string) (metadata.Store, func(), error) {
	if cfg.MetadataRedisAddr == "" {
		return metadata.NewFileStore(cachePath), func() {}, nil
	}
	store, err := metadata.NewRedisStore(ctx, cfg.MetadataRedisAddr, cfg.MetadataRedisPassword, 0)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

// openDatabase connects and applies pending migrations.
func openDatabase(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	migrationsSub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating migrations sub-fs: %w", err)
	}
	if err := database.RunMigrations(ctx, pool, migrationsSub); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return pool, nil
}
