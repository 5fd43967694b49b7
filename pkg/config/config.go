// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pressleaf/pressleaf/pkg/auth"
	"github.com/pressleaf/pressleaf/pkg/session"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Auth     AuthConfig
	Prefs    PrefsConfig
	Render   RenderConfig
	Mail     MailConfig
	CORS     CORSConfig
	LogLevel string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for probes and scraping)
	HealthPort string
}

// DatabaseConfig selects and configures the relational driver.
type DatabaseConfig struct {
	// Driver is "sqlite3" or "postgres".
	Driver string
	// SQLitePath is the database file for the sqlite3 driver.
	SQLitePath string
	// PostgresURL is the DSN for the postgres driver.
	PostgresURL string
}

// SessionConfig configures the Redis-backed session store.
type SessionConfig struct {
	RedisURL string
	TTL      time.Duration
}

// AuthConfig configures token issuance and the admin predicate.
type AuthConfig struct {
	// TokenSecret signs identity assertions. Rotating it invalidates every
	// outstanding token.
	TokenSecret string
	TokenTTL    time.Duration
	// AdminEmail is the single administrator identity.
	AdminEmail string
}

// PrefsConfig holds the locale allow-list.
type PrefsConfig struct {
	Locales []string
}

// RenderConfig configures server-side rendering.
type RenderConfig struct {
	TemplatesDir string
	// DevReload re-parses templates on change (fsnotify watcher).
	DevReload bool
	// CacheSize is the LRU capacity for anonymous page renders.
	CacheSize int
}

// MailConfig configures the contact-form sender.
type MailConfig struct {
	ResendAPIKey string
	From         string
	To           string
}

// CORSConfig holds the allowed credentialed origins.
type CORSConfig struct {
	Origins []string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("PRESSLEAF_HOST", "0.0.0.0"),
			Port:            getEnv("PRESSLEAF_PORT", "4000"),
			ReadTimeout:     getEnvDuration("PRESSLEAF_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("PRESSLEAF_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("PRESSLEAF_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("PRESSLEAF_SHUTDOWN_TIMEOUT", 30*time.Second),
			HealthPort:      getEnv("PRESSLEAF_HEALTH_PORT", "9090"),
		},
		Database: DatabaseConfig{
			Driver:      getEnv("PRESSLEAF_DB_DRIVER", "sqlite3"),
			SQLitePath:  getEnv("PRESSLEAF_SQLITE_PATH", "database/db.sqlite"),
			PostgresURL: getEnv("PRESSLEAF_POSTGRES_URL", ""),
		},
		Session: SessionConfig{
			RedisURL: getEnv("PRESSLEAF_REDIS_URL", "redis://localhost:6379"),
			TTL:      getEnvDuration("PRESSLEAF_SESSION_TTL", session.DefaultTTL),
		},
		Auth: AuthConfig{
			TokenSecret: getEnv("PRESSLEAF_TOKEN_SECRET", ""),
			TokenTTL:    getEnvDuration("PRESSLEAF_TOKEN_TTL", auth.DefaultTTL),
			AdminEmail:  getEnv("PRESSLEAF_ADMIN_EMAIL", ""),
		},
		Prefs: PrefsConfig{
			Locales: getEnvList("PRESSLEAF_LOCALES", []string{"en", "sk"}),
		},
		Render: RenderConfig{
			TemplatesDir: getEnv("PRESSLEAF_TEMPLATES_DIR", ""),
			DevReload:    getEnvBool("PRESSLEAF_DEV_RELOAD", false),
			CacheSize:    getEnvInt("PRESSLEAF_RENDER_CACHE_SIZE", 256),
		},
		Mail: MailConfig{
			ResendAPIKey: getEnv("PRESSLEAF_RESEND_API_KEY", ""),
			From:         getEnv("PRESSLEAF_MAIL_FROM", ""),
			To:           getEnv("PRESSLEAF_MAIL_TO", ""),
		},
		CORS: CORSConfig{
			Origins: getEnvList("PRESSLEAF_CORS_ORIGINS", nil),
		},
		LogLevel: getEnv("PRESSLEAF_LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	switch c.Database.Driver {
	case "sqlite3":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required for the sqlite3 driver")
		}
	case "postgres":
		if c.Database.PostgresURL == "" {
			return fmt.Errorf("postgres URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("invalid database driver: %s (must be sqlite3 or postgres)", c.Database.Driver)
	}

	if c.Auth.TokenSecret == "" {
		return fmt.Errorf("token secret is required")
	}
	if c.Auth.AdminEmail == "" {
		return fmt.Errorf("admin email is required")
	}
	if len(c.Prefs.Locales) == 0 {
		return fmt.Errorf("at least one locale is required")
	}
	return nil
}

// DSN returns the driver-appropriate data source name.
func (c DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return c.PostgresURL
	}
	return c.SQLitePath
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvList returns a comma-separated environment variable or a default
func getEnvList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
