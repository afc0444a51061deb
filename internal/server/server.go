// Package server assembles the VaultKeep HTTP API: storage, mail, handlers
// and the middleware chain.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vaultkeep/vaultkeep/internal/crypto"
	"github.com/vaultkeep/vaultkeep/internal/server/auth"
	"github.com/vaultkeep/vaultkeep/internal/server/config"
	"github.com/vaultkeep/vaultkeep/internal/server/handlers"
	"github.com/vaultkeep/vaultkeep/internal/server/mail"
	"github.com/vaultkeep/vaultkeep/internal/server/middleware"
	"github.com/vaultkeep/vaultkeep/internal/server/storage/boltdb"
	"github.com/vaultkeep/vaultkeep/internal/server/storage/sqlite"
)

// App is the running server with its backing stores
type App struct {
	logger *slog.Logger
	cfg    *config.Config
	sqlite *sqlite.Storage
	bolt   *boltdb.Storage
	srv    *http.Server
}

// New opens the stores, derives the vault key and builds the HTTP server.
// The caller runs the result with Run and releases it with Close.
func New(ctx context.Context, logger *slog.Logger, cfg *config.Config, version string) (*App, error) {
	sqliteStore, err := sqlite.New(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
	}

	boltStore, err := boltdb.New(ctx, cfg.BoltPath)
	if err != nil {
		sqliteStore.Close()
		return nil, fmt.Errorf("failed to open boltdb storage: %w", err)
	}

	vaultKey, err := crypto.DeriveVaultKey(cfg.VaultSecret, cfg.VaultSalt)
	if err != nil {
		boltStore.Close()
		sqliteStore.Close()
		return nil, fmt.Errorf("failed to derive vault key: %w", err)
	}

	tokenCfg := auth.Config{
		Secret:         []byte(cfg.JWTSecret),
		AccessTokenTTL: cfg.AccessTokenTTL,
	}

	mailer := mail.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)

	authHandler := handlers.NewAuthHandler(logger, sqliteStore, boltStore, sqliteStore, mailer, tokenCfg, cfg.OTPTTL)
	userHandler := handlers.NewUserHandler(logger, sqliteStore, sqliteStore, tokenCfg)
	accountsHandler := handlers.NewAccountsHandler(logger, sqliteStore, vaultKey)
	healthHandler := handlers.NewHealthHandler(logger, version)

	requireAuth := middleware.AuthMiddleware(logger, tokenCfg, sqliteStore)

	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /request-otp", authHandler.RequestOTP)
	mux.HandleFunc("POST /verify-otp-and-register", authHandler.Register)
	mux.HandleFunc("POST /login", authHandler.Login)
	mux.HandleFunc("POST /forgot-password/request-otp", authHandler.RequestResetOTP)
	mux.HandleFunc("POST /forgot-password/verify-otp", authHandler.VerifyResetOTP)
	mux.HandleFunc("POST /forgot-password/reset", authHandler.ResetPassword)
	mux.HandleFunc("GET /healthz", healthHandler.Health)

	// Protected routes
	mux.Handle("POST /logout", requireAuth(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /user-info", requireAuth(http.HandlerFunc(userHandler.GetInfo)))
	mux.Handle("PUT /users/{id}", requireAuth(http.HandlerFunc(userHandler.UpdateProfile)))
	mux.Handle("POST /verify-current-password", requireAuth(http.HandlerFunc(userHandler.VerifyPassword)))
	mux.Handle("POST /change-password", requireAuth(http.HandlerFunc(userHandler.ChangePassword)))
	mux.Handle("POST /accounts", requireAuth(http.HandlerFunc(accountsHandler.Create)))
	mux.Handle("GET /accounts", requireAuth(http.HandlerFunc(accountsHandler.List)))
	mux.Handle("PUT /accounts/{id}", requireAuth(http.HandlerFunc(accountsHandler.Update)))
	mux.Handle("DELETE /accounts/{id}", requireAuth(http.HandlerFunc(accountsHandler.Delete)))

	// The endpoints that mail codes or check passwords get a tighter
	// per-IP budget than the rest of the API.
	rateLimit := middleware.RateLimitByPathMiddleware(
		[]middleware.PathRateLimit{
			{Path: "/request-otp", Rate: cfg.OTPRateLimit, Window: cfg.OTPRateLimitWindow},
			{Path: "/forgot-password/request-otp", Rate: cfg.OTPRateLimit, Window: cfg.OTPRateLimitWindow},
			{Path: "/login", Rate: cfg.OTPRateLimit, Window: cfg.OTPRateLimitWindow},
		},
		cfg.RateLimit, cfg.RateLimitWindow, logger,
	)

	var handler http.Handler = mux
	handler = rateLimit(handler)
	handler = middleware.LoggingWithSkip(logger, []string{"/healthz"})(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		logger: logger,
		cfg:    cfg,
		sqlite: sqliteStore,
		bolt:   boltStore,
		srv:    srv,
	}, nil
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errC := make(chan error, 1)

	go a.sweepExpiredSessions(ctx)

	go func() {
		a.logger.Info("server listening", "addr", a.cfg.HTTPAddr)
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return a.srv.Shutdown(shutdownCtx)
}

// sweepExpiredSessions periodically drops sessions past their expiry.
// Expired tokens are already rejected by the signature check; the sweep
// just keeps dead rows from accumulating.
func (a *App) sweepExpiredSessions(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := a.sqlite.DeleteExpiredSessions(ctx)
			if err != nil {
				a.logger.Error("failed to sweep expired sessions", "error", err)
				continue
			}
			if deleted > 0 {
				a.logger.Info("swept expired sessions", "count", deleted)
			}
		}
	}
}

// Close releases the backing stores
func (a *App) Close() error {
	var errs []error
	if err := a.bolt.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.sqlite.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
