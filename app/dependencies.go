package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/upb/event-admin-api/auth"
	"github.com/upb/event-admin-api/config"
	"github.com/upb/event-admin-api/handlers"
	"github.com/upb/event-admin-api/middleware"
	"github.com/upb/event-admin-api/observability"
	"github.com/upb/event-admin-api/repositories"
	"github.com/upb/event-admin-api/repositories/redisstore"
	"github.com/upb/event-admin-api/repositories/sqlstore"
	"github.com/upb/event-admin-api/services"
	"github.com/upb/event-admin-api/services/identity"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config   *config.Config
	DB       *sqlstore.DB
	Redis    *redis.Client // nil when revocations live in memory
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Metrics  *observability.Metrics

	// Repositories
	Accounts repositories.AccountRepository

	// Auth
	Tokens      *auth.TokenService
	Revocations auth.RevocationList
	Resolver    *identity.Resolver
	Gate        *middleware.AuthMiddleware

	// Services
	AuthService    *services.AuthService
	AccountService *services.AccountService

	// Handlers
	HealthHandler   *handlers.HealthHandler
	AuthHandler     *handlers.AuthHandler
	IdentityHandler *handlers.IdentityHandler
	AccountHandler  *handlers.AccountHandler
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initMetrics()

	if err := deps.initAuth(ctx, cfg); err != nil {
		_ = deps.Close(ctx)
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}

	deps.initServices()
	deps.initHandlers()

	if _, err := deps.AccountService.EnsureBootstrapAdmin(ctx, cfg.Bootstrap); err != nil {
		_ = deps.Close(ctx)
		return nil, err
	}

	logger.Info("all dependencies initialized successfully",
		zap.String("identity_mode", string(deps.Gate.Mode())))
	return deps, nil
}

// initDatabase opens the account store and makes sure its schema exists
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	db, err := sqlstore.NewDB(cfg.Database, d.Logger)
	if err != nil {
		return err
	}
	if err := db.InitSchema(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	d.DB = db
	d.Accounts = sqlstore.NewAccountRepository(db, d.Logger)
	return nil
}

func (d *Dependencies) initMetrics() {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	d.Registry = reg
	d.Metrics = observability.NewMetrics(reg)
}

// initAuth builds the token service, revocation list, resolver and gate
func (d *Dependencies) initAuth(ctx context.Context, cfg *config.Config) error {
	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL,
		auth.WithLeeway(cfg.Auth.Leeway))
	if err != nil {
		return err
	}
	d.Tokens = tokens

	if cfg.Redis.Addr != "" {
		client, err := redisstore.NewClient(ctx, cfg.Redis, d.Logger)
		if err != nil {
			return err
		}
		d.Redis = client
		d.Revocations = redisstore.NewRevocationStore(client)
	} else {
		d.Logger.Warn("REDIS_ADDR not set, token revocations are kept in process memory")
		d.Revocations = auth.NewMemoryRevocationList()
	}

	d.Resolver = identity.NewResolver(d.Accounts, d.Metrics, d.Logger)

	gate, err := middleware.NewAuthMiddleware(tokens, d.Resolver, middleware.GateOptions{
		Mode:                 middleware.Mode(cfg.Auth.IdentityMode),
		HideAccountExistence: cfg.Auth.HideAccountExistence,
		Revocations:          d.Revocations,
		Metrics:              d.Metrics,
	}, d.Logger)
	if err != nil {
		return err
	}
	d.Gate = gate

	d.Logger.Info("auth initialized", zap.Stringer("auth", cfg.Auth))
	return nil
}

func (d *Dependencies) initServices() {
	d.AuthService = services.NewAuthService(d.Accounts, d.Tokens, d.Revocations, d.Metrics, d.Logger)
	d.AccountService = services.NewAccountService(d.Accounts, d.Logger)
}

func (d *Dependencies) initHandlers() {
	checks := map[string]handlers.HealthChecker{
		"database": d.DB,
	}
	if d.Redis != nil {
		client := d.Redis
		checks["redis"] = handlers.HealthCheckFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
	}

	d.HealthHandler = handlers.NewHealthHandler(checks, d.Logger)
	d.AuthHandler = handlers.NewAuthHandler(d.AuthService, d.Logger)
	d.IdentityHandler = handlers.NewIdentityHandler(d.Logger)
	d.AccountHandler = handlers.NewAccountHandler(d.AccountService, d.Logger)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	_ = d.Logger.Sync()

	return errors.Join(errs...)
}
