package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config is centralized process configuration.
// Precedence: environment, then CONFIG_FILE, then defaults.
type Config struct {
	ServiceName       string        `yaml:"service_name"`
	HTTPPort          string        `yaml:"http_port"`
	PostgresDSN       string        `yaml:"postgres_dsn"`
	StorageDriver     string        `yaml:"storage_driver"`
	AutoMigrate       bool          `yaml:"auto_migrate"`
	VoterIdentityMode string        `yaml:"voter_identity_mode"`
	EstimatedVoters   int           `yaml:"estimated_voters"`
	TrustProxyHeaders bool          `yaml:"trust_proxy_headers"`
	AdminUsername     string        `yaml:"admin_username"`
	AdminPassword     string        `yaml:"admin_password"`
	AdminJWTSecret    string        `yaml:"admin_jwt_secret"`
	AdminTokenTTL     time.Duration `yaml:"admin_token_ttl"`
	ReconcileInterval time.Duration `yaml:"reconcile_interval"`
	BroadcastBuffer   int           `yaml:"broadcast_buffer"`
	LogLevel          string        `yaml:"log_level"`
}

func defaults() Config {
	return Config{
		ServiceName:       "lanvote",
		HTTPPort:          "8080",
		StorageDriver:     StorageDriverPostgres,
		AutoMigrate:       true,
		VoterIdentityMode: "ip_fallback",
		AdminUsername:     "admin",
		AdminPassword:     "admin123",
		AdminTokenTTL:     12 * time.Hour,
		ReconcileInterval: time.Minute,
		BroadcastBuffer:   64,
		LogLevel:          "info",
	}
}

func Load() (Config, error) {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaults()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.ServiceName = envString("SERVICE_NAME", cfg.ServiceName)
	cfg.HTTPPort = envString("HTTP_PORT", cfg.HTTPPort)
	cfg.PostgresDSN = envString("POSTGRES_DSN", cfg.PostgresDSN)
	cfg.StorageDriver = strings.ToLower(envString("STORAGE_DRIVER", cfg.StorageDriver))
	cfg.AutoMigrate = envBool("AUTO_MIGRATE", cfg.AutoMigrate)
	cfg.VoterIdentityMode = envString("VOTER_IDENTITY_MODE", cfg.VoterIdentityMode)
	cfg.EstimatedVoters = envInt("ESTIMATED_VOTERS", cfg.EstimatedVoters)
	cfg.TrustProxyHeaders = envBool("TRUST_PROXY_HEADERS", cfg.TrustProxyHeaders)
	cfg.AdminUsername = envString("ADMIN_USERNAME", cfg.AdminUsername)
	cfg.AdminPassword = envString("ADMIN_PASSWORD", cfg.AdminPassword)
	cfg.AdminJWTSecret = envString("ADMIN_JWT_SECRET", cfg.AdminJWTSecret)
	cfg.AdminTokenTTL = envDuration("ADMIN_TOKEN_TTL", cfg.AdminTokenTTL)
	cfg.ReconcileInterval = envDuration("RECONCILE_INTERVAL", cfg.ReconcileInterval)
	cfg.BroadcastBuffer = envInt("BROADCAST_BUFFER", cfg.BroadcastBuffer)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_DRIVER=postgres")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.EstimatedVoters < 0 {
		return errors.New("ESTIMATED_VOTERS must not be negative")
	}
	if c.BroadcastBuffer < 1 {
		return errors.New("BROADCAST_BUFFER must be at least 1")
	}
	if c.ReconcileInterval <= 0 {
		return errors.New("RECONCILE_INTERVAL must be positive")
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	return nil
}

func envString(name string, fallback string) string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	return raw
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
