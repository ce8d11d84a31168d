// createsuperuser creates an active staff account with superuser rights.
// Run: go run ./cmd/createsuperuser -email admin@example.com
// The password is read from SUPERUSER_PASSWORD, or -password when set.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/ErlanBelekov/account-api/config"
	"github.com/ErlanBelekov/account-api/internal/credential"
	"github.com/ErlanBelekov/account-api/internal/infrastructure/backend"
	ctxlog "github.com/ErlanBelekov/account-api/internal/log"
	"github.com/ErlanBelekov/account-api/internal/password"
)

func main() {
	email := flag.String("email", os.Getenv("SUPERUSER_EMAIL"), "superuser email")
	pw := flag.String("password", os.Getenv("SUPERUSER_PASSWORD"), "superuser password")
	flag.Parse()

	if *email == "" || *pw == "" {
		log.Fatal("email and password are required: pass -email/-password or set SUPERUSER_EMAIL/SUPERUSER_PASSWORD")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if len([]rune(*pw)) < cfg.PasswordMinLength {
		log.Fatalf("password must have at least %d characters", cfg.PasswordMinLength)
	}

	logger := ctxlog.New(cfg.Env, cfg.SlogLevel())
	ctx := context.Background()

	store, err := backend.Open(ctx, cfg, backend.Options{Migrate: cfg.MigrateOnStart}, logger)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer store.Close()

	credentials := credential.NewStore(store.Accounts, password.NewBcryptHasher(cfg.BcryptCost))
	account, err := credentials.CreateSuperuser(ctx, *email, *pw)
	if err != nil {
		log.Fatalf("create superuser: %v", err)
	}

	logger.Info("superuser created", "id", account.ID, "email", account.Email)
}
