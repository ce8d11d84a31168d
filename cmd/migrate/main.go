// migrate applies the embedded schema migrations to the configured store.
// Run: go run ./cmd/migrate
package main

import (
	"context"
	"log"

	"github.com/ErlanBelekov/account-api/config"
	"github.com/ErlanBelekov/account-api/internal/infrastructure/backend"
	ctxlog "github.com/ErlanBelekov/account-api/internal/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := ctxlog.New(cfg.Env, cfg.SlogLevel())
	ctx := context.Background()

	store, err := backend.Open(ctx, cfg, backend.Options{Migrate: true}, logger)
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}
	defer store.Close()

	version, err := store.SchemaVersion(ctx)
	if err != nil {
		log.Fatalf("schema version: %v", err)
	}

	logger.Info("migrations applied", "store", store.Name, "version", version)
}
