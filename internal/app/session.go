package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/linkboard/internal/client"
	"github.com/vadimbarashkov/linkboard/internal/collection"
	"github.com/vadimbarashkov/linkboard/internal/config"
	"github.com/vadimbarashkov/linkboard/internal/database/memory"
	"github.com/vadimbarashkov/linkboard/internal/database/postgres"
	"github.com/vadimbarashkov/linkboard/internal/database/sqlite"
	"github.com/vadimbarashkov/linkboard/migrations"

	pgpkg "github.com/vadimbarashkov/linkboard/pkg/postgres"
	sqlitepkg "github.com/vadimbarashkov/linkboard/pkg/sqlite"
)

// OpenStore opens the store selected by cfg.Storage.Driver and runs its
// migrations. The returned close function releases the underlying database.
func OpenStore(ctx context.Context, cfg *config.Config) (collection.Store, func() error, error) {
	const op = "app.OpenStore"

	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return memory.NewKVRepository(), func() error { return nil }, nil

	case config.StorageSQLite:
		if err := sqlitepkg.EnsureDir(cfg.SQLite.Path); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}

		db, err := sqlitepkg.New(ctx, cfg.SQLite.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}

		if err := sqlitepkg.RunMigrations(db, migrations.SQLite, "sqlite"); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}

		return sqlite.NewKVRepository(db), db.Close, nil

	case config.StoragePostgres:
		db, err := openPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}

		return postgres.NewKVRepository(db), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Storage.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.Postgres) (*sqlx.DB, error) {
	db, err := pgpkg.New(
		ctx,
		cfg.DSN(),
		pgpkg.WithConnMaxIdleTime(cfg.ConnMaxIdleTime),
		pgpkg.WithConnMaxLifetime(cfg.ConnMaxLifetime),
		pgpkg.WithMaxIdleConns(cfg.MaxIdleConns),
		pgpkg.WithMaxOpenConns(cfg.MaxOpenConns),
	)
	if err != nil {
		return nil, err
	}

	if err := pgpkg.RunMigrations(migrations.Postgres, "postgres", cfg.DSN()); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// OpenSession opens the store and loads the collection for address. An empty
// address falls back to cfg.Session.Address.
func OpenSession(ctx context.Context, cfg *config.Config, logger *slog.Logger, address string) (*collection.Manager, func() error, error) {
	const op = "app.OpenSession"

	store, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	resolver := client.NewMetadata(cfg.Client.MetadataURL, &http.Client{Timeout: cfg.Client.Timeout})

	m := collection.NewManager(resolver, store, logger,
		collection.WithStorageKey(cfg.Session.StorageKey),
	)

	if address == "" {
		address = cfg.Session.Address
	}

	if err := m.Load(ctx, address); err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return m, closeStore, nil
}
