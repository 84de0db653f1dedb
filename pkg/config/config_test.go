package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StoragePostgres, cfg.App.Storage)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 120, cfg.RateLimit.PerMinute)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cr3t", cfg.JWT.Secret)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, StorageMemory, cfg.App.Storage)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_SinSecretFalla(t *testing.T) {
	cfg := fromViper(viper.New())
	assert.Error(t, cfg.Validate())
}

func TestValidate_DriverDesconocido(t *testing.T) {
	cfg := fromViper(viper.New())
	cfg.JWT.Secret = "x"
	cfg.App.Storage = "sqlite"
	assert.Error(t, cfg.Validate())
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "coins", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/coins?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://override"
	assert.Equal(t, "postgres://override", c.ConnectionString())
}

func TestValidate_BootstrapSinPassword(t *testing.T) {
	cfg := fromViper(viper.New())
	cfg.JWT.Secret = "x"
	assert.False(t, cfg.Bootstrap.Enabled())
	assert.Equal(t, "Default", cfg.Bootstrap.CompanyName)

	cfg.Bootstrap.AdminEmail = "root@acme.test"
	assert.Error(t, cfg.Validate())

	cfg.Bootstrap.AdminPassword = "secreto123"
	assert.NoError(t, cfg.Validate())
}
