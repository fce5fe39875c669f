package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/event-admin-api/auth"
	"github.com/upb/event-admin-api/config"
	"github.com/upb/event-admin-api/middleware"
	"go.uber.org/zap/zaptest"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Environment: "test",
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			RequestTimeout:  5 * time.Second,
			ShutdownTimeout: time.Second,
		},
		Database: config.DatabaseConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: ":memory:",
		},
		Auth: config.AuthConfig{
			JWTSecret:    "dependencies-test-secret-0123456789",
			Issuer:       "event-admin-api",
			TokenTTL:     time.Hour,
			IdentityMode: config.IdentityModeResolved,
		},
		Bootstrap: config.BootstrapConfig{
			AdminEmail:    "Admin@Example.com",
			AdminPassword: "bootstrap-password",
			AdminName:     "Admin",
		},
		Observability: config.ObservabilityConfig{
			LogLevel:       "debug",
			MetricsEnabled: true,
		},
	}
}

func TestNewDependencies(t *testing.T) {
	t.Run("successful initialization with all components", func(t *testing.T) {
		ctx := context.Background()
		deps, err := NewDependencies(ctx, testConfig(t), zaptest.NewLogger(t))
		require.NoError(t, err)
		require.NotNil(t, deps)

		// Infrastructure
		assert.NotNil(t, deps.DB)
		assert.Nil(t, deps.Redis)
		assert.NotNil(t, deps.Registry)
		assert.NotNil(t, deps.Metrics)

		// Auth
		assert.IsType(t, &auth.MemoryRevocationList{}, deps.Revocations)
		assert.Equal(t, middleware.ModeResolved, deps.Gate.Mode())

		// Handlers
		assert.NotNil(t, deps.HealthHandler)
		assert.NotNil(t, deps.AuthHandler)
		assert.NotNil(t, deps.IdentityHandler)
		assert.NotNil(t, deps.AccountHandler)

		account, err := deps.Accounts.GetByEmail(ctx, "admin@example.com")
		require.NoError(t, err)
		assert.True(t, account.IsAdmin())

		assert.NoError(t, deps.Close(ctx))
	})

	t.Run("claim mode is honoured", func(t *testing.T) {
		ctx := context.Background()
		cfg := testConfig(t)
		cfg.Auth.IdentityMode = config.IdentityModeClaim

		deps, err := NewDependencies(ctx, cfg, zaptest.NewLogger(t))
		require.NoError(t, err)
		defer deps.Close(ctx)

		assert.Equal(t, middleware.ModeClaim, deps.Gate.Mode())
	})

	t.Run("unsupported database driver", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Database.Driver = "mysql"

		deps, err := NewDependencies(context.Background(), cfg, zaptest.NewLogger(t))
		assert.Error(t, err)
		assert.Nil(t, deps)
		assert.Contains(t, err.Error(), "failed to initialize database")
	})

	t.Run("unreachable redis", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Redis.Addr = "127.0.0.1:1"

		deps, err := NewDependencies(context.Background(), cfg, zaptest.NewLogger(t))
		assert.Error(t, err)
		assert.Nil(t, deps)
		assert.Contains(t, err.Error(), "failed to initialize auth")
	})
}
