package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.HTTPPort)
	assert.Equal(t, StorageMongo, cfg.Storage)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.JWTExpire)
	assert.Equal(t, 30, cfg.JWTCookieExpireDays)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 10*time.Second, cfg.OutboxPeriod)
	assert.Equal(t, 50, cfg.OutboxLimit)
	assert.False(t, cfg.PaginationFilteredTotal)
	assert.False(t, cfg.IsProduction())
	assert.NotEmpty(t, cfg.JWTSecret, "fuera de producción hay secreto de desarrollo")
}

func TestLoadConfig_FileAndEnvOverride(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.env")
	require.NoError(t, os.WriteFile(file, []byte("PORT=7000\nSTORAGE=memory\nJWT_SECRET=from-file\nKAFKA_BROKERS=a:9092, b:9092\n"), 0o600))
	t.Setenv("PORT", "8000")
	t.Setenv("PAGINATION_FILTERED_TOTAL", "true")

	cfg, err := LoadConfig(file)
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.HTTPPort, "el entorno gana al fichero")
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.PaginationFilteredTotal)
}

func TestLoadConfig_Validation(t *testing.T) {
	t.Setenv("STORAGE", "postgres")
	_, err := LoadConfig("")
	assert.ErrorContains(t, err, "STORAGE")

	t.Setenv("STORAGE", "memory")
	t.Setenv("APP_ENV", EnvProduction)
	_, err = LoadConfig("")
	assert.ErrorContains(t, err, "JWT_SECRET")
}
