package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig
	HTTP     HTTPConfig
	Auth     AuthConfig
	Mirror   MirrorConfig
	Seed     SeedConfig
	LogLevel string
}

type DatabaseConfig struct {
	Driver string // postgres or sqlite
	URL    string
}

type HTTPConfig struct {
	Port        string
	BodyLimitMB int
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	Required  bool
}

// MirrorConfig controls how secondary writes of a dual write are retried.
type MirrorConfig struct {
	Attempts int
}

type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			Driver: strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			URL:    getEnv("DATABASE_URL", ""),
		},
		HTTP: HTTPConfig{
			Port: getEnv("HTTP_PORT", "5200"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Seed: SeedConfig{
			AdminEmail:    getEnv("ADMIN_EMAIL", ""),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
	var err error
	if cfg.HTTP.BodyLimitMB, err = getEnvInt("BODY_LIMIT_MB", 50); err != nil {
		return nil, err
	}
	if cfg.Mirror.Attempts, err = getEnvInt("MIRROR_ATTEMPTS", 3); err != nil {
		return nil, err
	}
	if cfg.Mirror.Attempts < 1 {
		return nil, fmt.Errorf("MIRROR_ATTEMPTS must be at least 1")
	}
	if cfg.Auth.Required, err = getEnvBool("AUTH_REQUIRED", true); err != nil {
		return nil, err
	}
	ttl := getEnv("JWT_EXPIRES_IN", "1h")
	if cfg.Auth.TokenTTL, err = time.ParseDuration(ttl); err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRES_IN %q: %w", ttl, err)
	}
	switch cfg.Database.Driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	return cfg, nil
}

// RequireSecret is checked by commands that issue or verify tokens.
func (c *Config) RequireSecret() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	if value, exists := os.LookupEnv(key); exists {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid boolean for %s: %w", key, err)
		}
		return b, nil
	}
	return defaultVal, nil
}

// String masks secrets.
func (c *Config) String() string {
	return fmt.Sprintf("Config{DB: %s, HTTP: :%s, AuthRequired: %t, Mirror: %d attempts, JWT: *** (masked) ***}",
		c.Database.Driver, c.HTTP.Port, c.Auth.Required, c.Mirror.Attempts)
}
