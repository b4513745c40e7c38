package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Backend names accepted by STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	App     AppConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"SERVER_PORT" required:"true"`
	Host            string        `envconfig:"SERVER_HOST" required:"true"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" required:"true"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" required:"true"`
	IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" required:"true"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" required:"true"`
	AuthToken       string        `envconfig:"AUTH_TOKEN"` // optional: mutations are open when empty
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("idle timeout must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}

// StorageConfig selects the registry backend and, for the postgres
// backend, describes the database connection. The backend choice is an
// explicit injected value; nothing inside the registry inspects the
// environment at runtime.
type StorageConfig struct {
	Backend     string `envconfig:"STORAGE_BACKEND" required:"true"` // memory or postgres
	LinkPattern string `envconfig:"LINK_PATTERN"`                    // optional short-link regexp override
	IDVersion   uint8  `envconfig:"LINK_ID_VERSION" default:"4"`     // uuid version for new links: 4 or 7

	Host      string        `envconfig:"DB_HOST"`
	Port      string        `envconfig:"DB_PORT"`
	User      string        `envconfig:"DB_USER"`
	Password  string        `envconfig:"DB_PASSWORD"`
	Name      string        `envconfig:"DB_NAME"`
	SSLMode   string        `envconfig:"DB_SSLMODE"`
	MaxConns  int32         `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns  int32         `envconfig:"DB_MIN_CONNS" default:"2"`
	OpTimeout time.Duration `envconfig:"DB_OP_TIMEOUT" default:"5s"`
}

// Validate validates the storage configuration. Database fields are
// only required when the postgres backend is selected.
func (c *StorageConfig) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendPostgres:
		if err := c.validatePostgres(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid storage backend: %s (must be one of: memory, postgres)", c.Backend)
	}

	if c.LinkPattern != "" {
		if _, err := regexp.Compile(c.LinkPattern); err != nil {
			return fmt.Errorf("invalid link pattern %q: %w", c.LinkPattern, err)
		}
	}

	if c.IDVersion != 4 && c.IDVersion != 7 {
		return fmt.Errorf("invalid link id version: %d (must be 4 or 7)", c.IDVersion)
	}
	return nil
}

func (c *StorageConfig) validatePostgres() error {
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if c.User == "" {
		return fmt.Errorf("user cannot be empty")
	}
	if c.Password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if c.Name == "" {
		return fmt.Errorf("database name cannot be empty")
	}
	if c.MaxConns <= 0 {
		return fmt.Errorf("max connections must be positive")
	}
	if c.MinConns <= 0 {
		return fmt.Errorf("min connections must be positive")
	}
	if c.MinConns > c.MaxConns {
		return fmt.Errorf("min connections (%d) cannot be greater than max connections (%d)", c.MinConns, c.MaxConns)
	}
	if c.OpTimeout <= 0 {
		return fmt.Errorf("operation timeout must be positive")
	}

	validSSLModes := map[string]bool{
		"disable":     true,
		"require":     true,
		"verify-ca":   true,
		"verify-full": true,
	}
	if !validSSLModes[c.SSLMode] {
		return fmt.Errorf("invalid SSL mode: %s (must be one of: disable, require, verify-ca, verify-full)", c.SSLMode)
	}
	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *StorageConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// AppConfig holds application-specific configuration.
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" required:"true"`   // development, staging, production, test
	LogLevel    string `envconfig:"LOG_LEVEL" required:"true"` // debug, info, warn, error
}

// Validate validates the app configuration.
func (c *AppConfig) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Environment)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}

// Load loads configuration from environment variables only.
// (Do .env loading in cmd/server/main.go for dev, not here.)
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process("", &cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to load Server config: %w", err)
	}
	if err := cfg.Server.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Server config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Storage); err != nil {
		return nil, fmt.Errorf("failed to load Storage config: %w", err)
	}
	if err := cfg.Storage.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Storage config: %w", err)
	}

	if err := envconfig.Process("", &cfg.App); err != nil {
		return nil, fmt.Errorf("failed to load App config: %w", err)
	}
	if err := cfg.App.Validate(); err != nil {
		return nil, fmt.Errorf("invalid App config: %w", err)
	}

	return cfg, nil
}
