// Package backend opens the account store selected by DB_DRIVER.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ErlanBelekov/account-api/config"
	"github.com/ErlanBelekov/account-api/internal/health"
	"github.com/ErlanBelekov/account-api/internal/infrastructure/migrations"
	"github.com/ErlanBelekov/account-api/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/account-api/internal/infrastructure/sqlite"
	"github.com/ErlanBelekov/account-api/internal/repository"
)

// Backend bundles the repositories of one storage driver.
type Backend struct {
	Name     string
	Accounts repository.AccountRepository
	Tokens   repository.TokenRepository
	Pinger   health.Pinger

	version func(ctx context.Context) (int64, error)
	close   func()
}

// Options controls how Open prepares the schema.
type Options struct {
	// Migrate applies pending Postgres migrations. SQLite is always migrated on open.
	Migrate bool
}

func Open(ctx context.Context, cfg *config.Config, opts Options, logger *slog.Logger) (*Backend, error) {
	switch cfg.DBDriver {
	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return &Backend{
			Name:     "sqlite",
			Accounts: sqlite.NewAccountRepository(db),
			Tokens:   sqlite.NewTokenRepository(db),
			Pinger:   db,
			version:  db.SchemaVersion,
			close:    func() { _ = db.Close() },
		}, nil

	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		sqlDB := postgres.StdlibDB(pool)

		if opts.Migrate {
			if err := migrations.Up(ctx, sqlDB, migrations.Postgres, logger); err != nil {
				_ = sqlDB.Close()
				pool.Close()
				return nil, fmt.Errorf("migrate postgres: %w", err)
			}
		}

		return &Backend{
			Name:     "postgres",
			Accounts: postgres.NewAccountRepository(pool),
			Tokens:   postgres.NewTokenRepository(pool),
			Pinger:   pool,
			version: func(ctx context.Context) (int64, error) {
				return migrations.Version(ctx, sqlDB, migrations.Postgres)
			},
			close: func() {
				_ = sqlDB.Close()
				pool.Close()
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.DBDriver)
	}
}

// SchemaVersion reports the applied migration version.
func (b *Backend) SchemaVersion(ctx context.Context) (int64, error) {
	return b.version(ctx)
}

func (b *Backend) Close() {
	if b != nil && b.close != nil {
		b.close()
	}
}
