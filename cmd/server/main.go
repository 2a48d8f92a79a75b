// Command server runs the finance tracker HTTP API.
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

	"finance-tracker/internal/auth"
	"finance-tracker/internal/config"
	"finance-tracker/internal/events"
	"finance-tracker/internal/finance"
	"finance-tracker/internal/handlers"
	"finance-tracker/internal/logging"
	"finance-tracker/internal/rates"
	"finance-tracker/internal/storage"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout        = 10 * time.Second
	sessionCleanupInterval = time.Hour
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := storage.NewDB(cfg.DatabaseLocation)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := bootstrapAdmin(ctx, db, cfg, logger); err != nil {
		return err
	}

	publisher, closePublisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	normalizer := finance.NewNormalizer(cfg.BaseCurrency, newRateProvider(cfg, logger), logger.With("component", "normalizer"))
	svc := finance.NewService(db, normalizer,
		finance.WithPublisher(publisher),
		finance.WithLogger(logger.With("component", "finance")))

	h := handlers.NewHandlers(db, svc, cfg.SecureCookie, cfg.SecretKey)
	if cfg.SecretKey == "" {
		logger.Warn("SECRET_KEY is not set; session tokens are stored without a key")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupRouter(h, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", "addr", srv.Addr, "base_currency", cfg.BaseCurrency)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		cleanSessions(gctx, db, logger)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func setupRouter(h *handlers.Handlers, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	h.Register(mux)
	return logging.Middleware(logger)(mux)
}

func newRateProvider(cfg *config.Config, logger *slog.Logger) finance.RateProvider {
	if cfg.RateAPIKey == "" {
		logger.Warn("RATE_API_KEY is not set; only base currency transactions can be recorded")
		return nil
	}
	var provider finance.RateProvider = rates.NewHTTPProvider(cfg.RateAPIURL, cfg.RateAPIKey, cfg.RateAPITimeout)
	if cfg.RateCacheTTL > 0 {
		provider = rates.NewCachingProvider(provider, cfg.RateCacheTTL, 0)
	}
	return provider
}

func newPublisher(cfg *config.Config, logger *slog.Logger) (events.Publisher, func(), error) {
	if cfg.AMQPURL == "" {
		return events.Nop{}, func() {}, nil
	}
	p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to AMQP: %w", err)
	}
	logger.Info("Publishing transaction events", "exchange", cfg.AMQPExchange)
	return p, func() {
		if err := p.Close(); err != nil {
			logger.Warn("Failed to close AMQP publisher", "error", err)
		}
	}, nil
}

// bootstrapAdmin creates the configured admin account if it does not exist.
func bootstrapAdmin(ctx context.Context, db *storage.DB, cfg *config.Config, logger *slog.Logger) error {
	if cfg.AdminUser == "" {
		return nil
	}
	if _, err := db.GetUserByUsername(ctx, cfg.AdminUser); err == nil {
		return nil
	} else if !errors.Is(err, finance.ErrNotFound) {
		return fmt.Errorf("look up admin user: %w", err)
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	user, err := db.CreateUser(ctx, cfg.AdminUser, hash)
	if err != nil && !errors.Is(err, storage.ErrUsernameTaken) {
		return fmt.Errorf("create admin user: %w", err)
	}
	if user != nil {
		logger.Info("Created admin user", "username", user.Username, "user_id", user.ID)
	}
	return nil
}

func cleanSessions(ctx context.Context, db *storage.DB, logger *slog.Logger) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := db.CleanExpiredSessions(ctx)
			if err != nil {
				logger.Warn("Failed to clean expired sessions", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("Removed expired sessions", "count", n)
			}
		}
	}
}
