package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PRESSLEAF_TOKEN_SECRET", "s3cret")
	t.Setenv("PRESSLEAF_ADMIN_EMAIL", "admin@example.com")
}

func TestLoadConfig_Defaults(t *testing.T) {
	validEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, "9090", cfg.Server.HealthPort)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "database/db.sqlite", cfg.Database.DSN())
	assert.Equal(t, []string{"en", "sk"}, cfg.Prefs.Locales)
	assert.Equal(t, 24000*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 256, cfg.Render.CacheSize)
}

func TestLoadConfig_Overrides(t *testing.T) {
	validEnv(t)
	t.Setenv("PRESSLEAF_PORT", "8080")
	t.Setenv("PRESSLEAF_DB_DRIVER", "postgres")
	t.Setenv("PRESSLEAF_POSTGRES_URL", "postgres://localhost/pressleaf")
	t.Setenv("PRESSLEAF_LOCALES", "en, de ,fr")
	t.Setenv("PRESSLEAF_TOKEN_TTL", "1h")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres://localhost/pressleaf", cfg.Database.DSN())
	assert.Equal(t, []string{"en", "de", "fr"}, cfg.Prefs.Locales)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	t.Setenv("PRESSLEAF_ADMIN_EMAIL", "admin@example.com")
	t.Setenv("PRESSLEAF_TOKEN_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token secret")
}

func TestLoadConfig_MissingAdminEmail(t *testing.T) {
	t.Setenv("PRESSLEAF_TOKEN_SECRET", "s3cret")
	t.Setenv("PRESSLEAF_ADMIN_EMAIL", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin email")
}

func TestLoadConfig_InvalidDriver(t *testing.T) {
	validEnv(t)
	t.Setenv("PRESSLEAF_DB_DRIVER", "oracle")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid database driver")
}

func TestLoadConfig_PortCollision(t *testing.T) {
	validEnv(t)
	t.Setenv("PRESSLEAF_PORT", "9090")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be different")
}

func TestLoadConfig_PostgresRequiresURL(t *testing.T) {
	validEnv(t)
	t.Setenv("PRESSLEAF_DB_DRIVER", "postgres")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres URL")
}
