package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/activos-ti-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "activos-ti", cfg.App.Name)
	assert.Equal(t, config.StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 480, cfg.JWT.Expiration)
	assert.Equal(t, 20, cfg.HTTP.LoginRateLimit)
	assert.Empty(t, cfg.Redis.URL)
}

func TestLoad_EnvTienePrioridad(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("DB_PASSWORD", "p@ss/word")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, config.StorageMemory, cfg.Storage.Driver)
	assert.Contains(t, cfg.DB.DSN(), "p%40ss%2Fword", "la contraseña debe ir codificada en el DSN")
}

func TestLoad_SinSecretFalla(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_DriverDesconocido(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestConnectionString_PrefiereDatabaseURL(t *testing.T) {
	c := config.DBConfig{DatabaseURL: "postgres://u:p@db:5432/x", Host: "otro"}
	assert.Equal(t, "postgres://u:p@db:5432/x", c.ConnectionString())
}

func TestLoad_PasswordBootstrapDemasiadoLargo(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("BOOTSTRAP_ADMIN_EMAIL", "admin@inst.edu")
	t.Setenv("BOOTSTRAP_ADMIN_PASSWORD", strings.Repeat("a", 73))

	_, err := config.Load()
	assert.Error(t, err)
}
