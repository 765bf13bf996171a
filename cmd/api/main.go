package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/MrJamesThe3rd/billed/internal/auth"
	authStore "github.com/MrJamesThe3rd/billed/internal/auth/store"
	"github.com/MrJamesThe3rd/billed/internal/bill"
	billStore "github.com/MrJamesThe3rd/billed/internal/bill/store"
	"github.com/MrJamesThe3rd/billed/internal/config"
	"github.com/MrJamesThe3rd/billed/internal/database"
	billedHttp "github.com/MrJamesThe3rd/billed/internal/http"
	authHandler "github.com/MrJamesThe3rd/billed/internal/http/auth"
	billHandler "github.com/MrJamesThe3rd/billed/internal/http/bill"
	receiptHandler "github.com/MrJamesThe3rd/billed/internal/http/receipt"
	"github.com/MrJamesThe3rd/billed/internal/logging"
	"github.com/MrJamesThe3rd/billed/internal/receipt"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.App.LogLevel)

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	var (
		authService = auth.NewService(authStore.New(db), auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL))
		billService = bill.NewService(billStore.New(db))
		receipts    = receipt.NewStorage(cfg.Receipts.Dir, cfg.ReceiptsURL(), cfg.Receipts.MaxSize)
	)

	if err := seedUsers(ctx, cfg, authService); err != nil {
		slog.Error("failed to seed users", "error", err)
		os.Exit(1)
	}

	var (
		authH    = authHandler.NewHandler(authService)
		billH    = billHandler.NewHandler(billService, receipts)
		receiptH = receiptHandler.NewHandler(receipts)
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := billedHttp.New(authService, authH, billH, receiptH, billedHttp.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Registry:       reg,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "port", srv.Addr, "receipts", cfg.Receipts.Dir)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func seedUsers(ctx context.Context, cfg *config.Config, svc *auth.Service) error {
	users, err := cfg.SeedUsers()
	if err != nil {
		return err
	}

	for _, u := range users {
		if err := svc.Ensure(ctx, u.Email, u.Password, auth.UserType(u.Type)); err != nil {
			return fmt.Errorf("seeding %s: %w", u.Email, err)
		}

		slog.Info("user ready", "email", u.Email, "type", u.Type)
	}

	return nil
}
