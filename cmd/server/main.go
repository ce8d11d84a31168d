package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/account-api/config"
	"github.com/ErlanBelekov/account-api/internal/credential"
	"github.com/ErlanBelekov/account-api/internal/health"
	"github.com/ErlanBelekov/account-api/internal/infrastructure/backend"
	ctxlog "github.com/ErlanBelekov/account-api/internal/log"
	"github.com/ErlanBelekov/account-api/internal/metrics"
	"github.com/ErlanBelekov/account-api/internal/password"
	httptransport "github.com/ErlanBelekov/account-api/internal/transport/http"
	"github.com/ErlanBelekov/account-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/account-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := ctxlog.New(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	store, err := backend.Open(ctx, cfg, backend.Options{Migrate: cfg.MigrateOnStart}, logger)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer store.Close()

	// Credentials
	hasher := password.NewBcryptHasher(cfg.BcryptCost)
	credentials := credential.NewStore(store.Accounts, hasher)

	// Accounts
	accountUsecase := usecase.NewAccountUsecase(credentials, cfg.PasswordMinLength)
	accountHandler := handler.NewAccountHandler(accountUsecase, logger)

	// Tokens
	authUsecase := usecase.NewAuthUsecase(credentials, store.Tokens, hasher)
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(store.Pinger, store.Name, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httptransport.NewRouter(logger, accountHandler, authHandler, authUsecase),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "store", store.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}
