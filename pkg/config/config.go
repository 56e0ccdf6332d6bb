package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Credential backends
const (
	CredentialBackendMemory  = "memory"
	CredentialBackendRedis   = "redis"
	CredentialBackendKeyring = "keyring"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Storage    StorageConfig
	LLM        LLMConfig
	Credential CredentialConfig
	Delivery   DeliveryConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
	MaxUploadBytes  int64    `envconfig:"MAX_UPLOAD_BYTES" default:"104857600"`
}

// DatabaseConfig holds database configuration.
// Committed minutes are only persisted when Enabled is set.
type DatabaseConfig struct {
	Enabled     bool   `envconfig:"DB_ENABLED" default:"false"`
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"meeting_minutes"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// StorageConfig holds archive storage configuration
type StorageConfig struct {
	Enabled         bool   `envconfig:"STORAGE_ENABLED" default:"false"`
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"meeting-minutes"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
}

// LLMConfig holds the chat completions endpoint configuration
type LLMConfig struct {
	BaseURL     string        `envconfig:"LLM_BASE_URL" default:"https://api.openai.com"`
	Model       string        `envconfig:"LLM_MODEL" default:"gpt-4.1-2025-04-14"`
	Temperature float64       `envconfig:"LLM_TEMPERATURE" default:"0.3"`
	MaxTokens   int           `envconfig:"LLM_MAX_TOKENS" default:"2000"`
	Timeout     time.Duration `envconfig:"LLM_TIMEOUT" default:"60s"`
}

// CredentialConfig selects where the API credential is persisted
type CredentialConfig struct {
	Backend string `envconfig:"CREDENTIAL_BACKEND" default:"memory"`
	Key     string `envconfig:"CREDENTIAL_KEY" default:"openai_api_key"`
}

// DeliveryConfig configures the webhook that distributes committed minutes.
// Deliveries are only logged when WebhookURL is empty.
type DeliveryConfig struct {
	WebhookURL      string        `envconfig:"DELIVERY_WEBHOOK_URL" default:""`
	WebhookSecret   string        `envconfig:"DELIVERY_WEBHOOK_SECRET" default:""`
	Timeout         time.Duration `envconfig:"DELIVERY_TIMEOUT" default:"10s"`
	MaxRetryElapsed time.Duration `envconfig:"DELIVERY_MAX_RETRY_ELAPSED" default:"30s"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.LLM.BaseURL == "" {
		return fmt.Errorf("LLM_BASE_URL is required")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("LLM_MODEL is required")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 0.3 {
		return fmt.Errorf("LLM_TEMPERATURE must be between 0 and 0.3, got %v", c.LLM.Temperature)
	}
	if c.LLM.MaxTokens < 2000 {
		return fmt.Errorf("LLM_MAX_TOKENS must be at least 2000, got %d", c.LLM.MaxTokens)
	}
	switch c.Credential.Backend {
	case CredentialBackendMemory, CredentialBackendRedis, CredentialBackendKeyring:
	default:
		return fmt.Errorf("CREDENTIAL_BACKEND must be one of memory, redis, keyring, got %q", c.Credential.Backend)
	}
	if c.Credential.Key == "" {
		return fmt.Errorf("CREDENTIAL_KEY is required")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
