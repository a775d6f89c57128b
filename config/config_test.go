package config_test

import (
	"projects-system/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("CFGTEST_EMPTY_")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CFGTEST_PRIMARY__ENV", "production")
	t.Setenv("CFGTEST_SERVER__PORT", "9090")
	t.Setenv("CFGTEST_DATABASE__DRIVER", "pgx")
	t.Setenv("CFGTEST_DATABASE__DSN", "postgres://u:p@db:5432/app")
	t.Setenv("CFGTEST_DATABASE__MAX_OPEN_CONNS", "20")
	t.Setenv("CFGTEST_DATABASE__PING_TIMEOUT", "3s")
	t.Setenv("CFGTEST_DATABASE__ATOMIC_COMPOSITES", "true")
	t.Setenv("CFGTEST_LOGGING__LEVEL", "debug")

	cfg, err := config.Load("CFGTEST_")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Primary.Env)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "pgx", cfg.Database.Driver)
	assert.Equal(t, "postgres://u:p@db:5432/app", cfg.Database.DSN)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.Equal(t, 3*time.Second, cfg.Database.PingTimeout)
	assert.True(t, cfg.Database.AtomicComposites)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// untouched keys keep their defaults
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown driver", key: "CFGTEST_BAD_DATABASE__DRIVER", value: "mysql"},
		{name: "unknown log level", key: "CFGTEST_BAD_LOGGING__LEVEL", value: "loud"},
		{name: "zero ping timeout", key: "CFGTEST_BAD_DATABASE__PING_TIMEOUT", value: "0s"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			_, err := config.Load("CFGTEST_BAD_")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validate")
		})
	}
}
