package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for agentbase-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, API keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Redis cache configuration (optional)
	Redis RedisConfig `yaml:"redis"`

	// MLS provider configuration
	MLS MLSConfig `yaml:"mls"`

	// Contact import configuration
	Import ImportConfig `yaml:"import"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"agentbase"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"agentbase_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MigrationsPath string `yaml:"migrations_path" env:"PGMIGRATIONS_PATH" env-default:"migrations"`
}

// RedisConfig holds Redis cache configuration.
// Leaving Host empty disables the MLS search cache.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	// SearchTTLSeconds is how long MLS search responses are cached.
	SearchTTLSeconds int `yaml:"search_ttl_seconds" env:"REDIS_SEARCH_TTL_SECONDS" env-default:"300"`
}

// MLSConfig holds credentials for the supported MLS data providers.
// When no provider is configured, adapters fall back to the SimplyRETS
// public demo sandbox so local development works out of the box.
type MLSConfig struct {
	// Provider selects which adapter serves search requests: "simplyrets" or "bridge".
	Provider string `yaml:"provider" env:"MLS_PROVIDER" env-default:"simplyrets"`

	SimplyRETS SimplyRETSConfig `yaml:"simplyrets"`
	Bridge     BridgeConfig     `yaml:"bridge"`

	// RefreshSchedule is a cron expression for the nightly listing refresh.
	// Empty disables the scheduler.
	RefreshSchedule string `yaml:"refresh_schedule" env:"MLS_REFRESH_SCHEDULE" env-default:"0 3 * * *"`
}

// SimplyRETSConfig holds SimplyRETS API credentials (HTTP basic auth).
type SimplyRETSConfig struct {
	BaseURL   string `yaml:"base_url" env:"SIMPLYRETS_BASE_URL" env-default:"https://api.simplyrets.com"`
	APIKey    string `yaml:"-" env:"SIMPLYRETS_API_KEY"`    // Secret - not in YAML
	APISecret string `yaml:"-" env:"SIMPLYRETS_API_SECRET"` // Secret - not in YAML
}

// IsConfigured returns true if real SimplyRETS credentials are present.
func (c *SimplyRETSConfig) IsConfigured() bool {
	return c.APIKey != "" && c.APISecret != ""
}

// BridgeConfig holds Bridge Interactive (RESO Web API) credentials.
type BridgeConfig struct {
	BaseURL     string `yaml:"base_url" env:"BRIDGE_BASE_URL" env-default:"https://api.bridgedataoutput.com/api/v2/OData"`
	Dataset     string `yaml:"dataset" env:"BRIDGE_DATASET" env-default:"test"`
	ServerToken string `yaml:"-" env:"BRIDGE_SERVER_TOKEN"` // Secret - not in YAML
}

// IsConfigured returns true if a real Bridge server token is present.
func (c *BridgeConfig) IsConfigured() bool {
	return c.ServerToken != ""
}

// ImportConfig holds contact CSV import settings.
type ImportConfig struct {
	// BatchSize is how many contacts are inserted per database batch.
	BatchSize int `yaml:"batch_size" env:"IMPORT_BATCH_SIZE" env-default:"100"`
	// MaxUploadBytes caps the size of an uploaded CSV file.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" env:"IMPORT_MAX_UPLOAD_BYTES" env-default:"10485760"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.MLS.Provider {
	case "simplyrets", "bridge":
	default:
		return fmt.Errorf("unknown MLS provider %q (expected simplyrets or bridge)", c.MLS.Provider)
	}
	if c.Import.BatchSize <= 0 {
		return fmt.Errorf("import batch_size must be positive, got %d", c.Import.BatchSize)
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
