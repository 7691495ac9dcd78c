// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Database struct {
		Host       string `toml:"host" validate:"required"`
		Port       string `toml:"port" validate:"required,numeric"`
		User       string `toml:"user" validate:"required"`
		Password   string `toml:"password"`
		Name       string `toml:"name" validate:"required"`
		SSLMode    string `toml:"sslmode" validate:"oneof=disable allow prefer require verify-ca verify-full"`
		SearchPath string `toml:"schema"`
	} `toml:"database"`
	JWT struct {
		Secret       string   `toml:"secret"`
		ExpiryPeriod Duration `toml:"expiry_period"`
	} `toml:"jwt"`
	Server struct {
		Port           string   `toml:"port" validate:"required,numeric"`
		ReadTimeout    Duration `toml:"read_timeout"`
		WriteTimeout   Duration `toml:"write_timeout"`
		MaxSourceBytes int      `toml:"max_source_bytes" validate:"gt=0"`
	} `toml:"server"`
	Cache struct {
		TTL         Duration `toml:"ttl"`
		CleanupFreq Duration `toml:"cleanup_freq"`
	} `toml:"cache"`
	History struct {
		Enabled bool `toml:"enabled"`
	} `toml:"history"`
}

// Duration is a time.Duration that decodes from TOML strings like "15s"
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Load builds the configuration from defaults, the TOML file named by
// SIREN_CONFIG (if any) and environment variables, in that order.
func Load() (*Config, error) {
	cfg := &Config{}

	// Defaults
	cfg.Database.Host = "localhost"
	cfg.Database.Port = "5432"
	cfg.Database.User = "postgres"
	cfg.Database.Name = "siren"
	cfg.Database.SSLMode = "disable"
	cfg.Database.SearchPath = "public"
	cfg.JWT.ExpiryPeriod = Duration{time.Hour * 24}
	cfg.Server.Port = "8080"
	cfg.Server.ReadTimeout = Duration{time.Second * 15}
	cfg.Server.WriteTimeout = Duration{time.Second * 15}
	cfg.Server.MaxSourceBytes = 1 << 20
	cfg.Cache.TTL = Duration{5 * time.Minute}
	cfg.Cache.CleanupFreq = Duration{time.Minute}

	if path, ok := os.LookupEnv("SIREN_CONFIG"); ok && path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	// Database configuration
	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnv("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = getEnv("DB_NAME", cfg.Database.Name)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", cfg.Database.SSLMode)
	cfg.Database.SearchPath = getEnv("DB_SCHEMA", cfg.Database.SearchPath)

	// JWT configuration
	cfg.JWT.Secret = getEnv("JWT_SECRET", cfg.JWT.Secret)

	// Server configuration
	cfg.Server.Port = getEnv("SERVER_PORT", cfg.Server.Port)
	if v, ok := os.LookupEnv("SIREN_MAX_SOURCE_BYTES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parsing SIREN_MAX_SOURCE_BYTES: %w", err)
		}
		cfg.Server.MaxSourceBytes = n
	}

	// History configuration
	if v, ok := os.LookupEnv("SIREN_HISTORY"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("parsing SIREN_HISTORY: %w", err)
		}
		cfg.History.Enabled = enabled
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// DSN returns the Postgres connection string for the database settings
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
		c.Database.SearchPath,
	)
}

// AuthEnabled reports whether API requests must carry a bearer token
func (c *Config) AuthEnabled() bool {
	return c.JWT.Secret != ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
