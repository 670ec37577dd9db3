package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"

	"github.com/tendant/simple-crm/pkg/config"
	"github.com/tendant/simple-crm/pkg/password"
	"github.com/tendant/simple-crm/pkg/ratelimit"
	"github.com/tendant/simple-crm/pkg/repository"
	"github.com/tendant/simple-crm/pkg/role"
	"github.com/tendant/simple-crm/pkg/router"
	"github.com/tendant/simple-crm/pkg/telemetry"
	"github.com/tendant/simple-crm/pkg/tokengenerator"
	"github.com/tendant/simple-crm/pkg/user"
)

func main() {
	loadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(os.Stdout, cfg.Log))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server exited with error", "err", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}

func run(ctx context.Context, cfg config.Config) error {
	// Telemetry
	var metrics *telemetry.Metrics
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				slog.Error("Telemetry shutdown failed", "err", err)
			}
		}()
		metrics, err = telemetry.NewMetrics(otel.Meter("simple-crm"))
		if err != nil {
			return err
		}
		metricsHandler = telemetry.MetricsHandler()
	}

	// Storage
	var stores router.Stores
	switch cfg.Storage.Backend {
	case config.StorageMemory:
		stores = router.MemoryStores()
		if err := seedAdminRole(ctx, stores.Roles); err != nil {
			return err
		}
		slog.Warn("Using in-memory storage, data is lost on restart")
	default:
		pool, err := pgxpool.New(ctx, cfg.Database.ToDatabaseURL())
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			return err
		}
		stores = router.PostgresStores(pool)
		slog.Info("Connected to database", "host", cfg.Database.Host, "database", cfg.Database.Database)
	}

	// Tokens
	accessExpiry, err := cfg.JWT.ParseAccessTokenExpiry()
	if err != nil {
		return err
	}
	refreshExpiry, err := cfg.JWT.ParseRefreshTokenExpiry()
	if err != nil {
		return err
	}
	jwtService := tokengenerator.NewJwtService(
		tokengenerator.NewJwtTokenGenerator(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience),
		tokengenerator.WithAccessTokenExpiry(accessExpiry),
		tokengenerator.WithRefreshTokenExpiry(refreshExpiry),
	)

	// Sign-in rate limit
	limiter := ratelimit.NewMiddleware(cfg.RateLimit.ToMiddlewareConfig())
	go limiter.Limiter().Run(ctx)

	routes := router.NewConfig(stores, router.Options{
		JWTSecret:   cfg.JWT.Secret,
		JWTIssuer:   cfg.JWT.Issuer,
		JWTAudience: cfg.JWT.Audience,
		Tokens:      jwtService,
		Passwords: user.Passwords{
			Hasher:  password.NewBcryptHasher(cfg.Password.BcryptCost),
			Checker: password.NewChecker(cfg.Password.ToPasswordPolicy()),
		},
		RateLimit:      limiter.Handler,
		Metrics:        metrics,
		MetricsHandler: metricsHandler,
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router.New(routes),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", cfg.HTTP.Addr, "storage", cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// seedAdminRole gives a fresh in-memory store a role holding every permission
func seedAdminRole(ctx context.Context, roles role.Repository) error {
	_, err := roles.Create(ctx, role.Role{
		Name:        "Admin",
		Description: "Full access",
		Permissions: role.AllPermissions(),
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil
	}
	return err
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// loadEnvFile loads .env from the working directory when present
func loadEnvFile() {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return
	}
	if err := godotenv.Load(".env"); err != nil {
		slog.Warn("Failed to load .env file", "err", err)
	}
}
