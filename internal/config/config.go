package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// MinPort is the minimum valid port number
	MinPort = 1
	// MaxPort is the maximum valid port number
	MaxPort = 65535
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Auth     AuthConfig     `yaml:"auth"`
	Blob     BlobConfig     `yaml:"blob"`
	Tracking TrackingConfig `yaml:"tracking"`
	Logging  LoggingConfig  `yaml:"logging"`
	App      AppConfig      `yaml:"app"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection configuration
type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

// RabbitMQConfig holds the optional job-event publisher configuration.
// When Enabled is false no connection is made and events are dropped.
type RabbitMQConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Host          string        `yaml:"host"`
	Port          int           `yaml:"port"`
	User          string        `yaml:"user"`
	Password      string        `yaml:"password"`
	VHost         string        `yaml:"vhost"`
	ExchangeName  string        `yaml:"exchange_name"`
	RoutingKey    string        `yaml:"routing_key"`
	RetryAttempts int           `yaml:"retry_attempts"`
	RetryInterval time.Duration `yaml:"retry_interval"`
	Heartbeat     time.Duration `yaml:"heartbeat"`
}

// AuthConfig holds the shared admin credential and session settings.
// The password is configured as a bcrypt hash; the plaintext is never
// stored. None of these fields has a fallback value.
type AuthConfig struct {
	AdminUsername     string `yaml:"admin_username"`
	AdminPasswordHash string `yaml:"admin_password_hash"`
	SessionSecret     string `yaml:"session_secret"`
}

// BlobConfig holds image-hosting credentials
type BlobConfig struct {
	CloudName     string        `yaml:"cloud_name"`
	APIKey        string        `yaml:"api_key"`
	APISecret     string        `yaml:"api_secret"`
	Folder        string        `yaml:"folder"`
	UploadTimeout time.Duration `yaml:"upload_timeout"`
}

// TrackingConfig holds public tracking page options
type TrackingConfig struct {
	// RedactPhone masks the customer phone number on the public page.
	// The tracking lookup itself stays public by contract.
	RedactPhone bool `yaml:"redact_phone"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level        string `yaml:"level"`
	Format       string `yaml:"format"`
	Output       string `yaml:"output"`
	EnableCaller bool   `yaml:"enable_caller"`
}

// AppConfig holds application metadata and the externally reachable
// base URL used to build tracking links
type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
	BaseURL     string `yaml:"base_url"`
}

// Load reads and parses the configuration file, then applies
// environment overrides for secret-bearing fields.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnvOverrides()

	return &config, nil
}

// applyEnvOverrides lets secrets come from the environment instead of
// the config file, so the file can be committed without them.
func (c *Config) applyEnvOverrides() {
	overrides := map[string]*string{
		"STUDIO_DB_PASSWORD":         &c.Database.Password,
		"STUDIO_ADMIN_USERNAME":      &c.Auth.AdminUsername,
		"STUDIO_ADMIN_PASSWORD_HASH": &c.Auth.AdminPasswordHash,
		"STUDIO_SESSION_SECRET":      &c.Auth.SessionSecret,
		"STUDIO_CLOUD_NAME":          &c.Blob.CloudName,
		"STUDIO_CLOUD_KEY":           &c.Blob.APIKey,
		"STUDIO_CLOUD_SECRET":        &c.Blob.APISecret,
		"STUDIO_BASE_URL":            &c.App.BaseURL,
		"STUDIO_RABBITMQ_PASSWORD":   &c.RabbitMQ.Password,
	}

	for key, field := range overrides {
		if v := os.Getenv(key); v != "" {
			*field = v
		}
	}
}

// Validate checks if the configuration is valid. Secrets have no
// insecure defaults: a missing admin credential or session secret
// fails startup rather than falling back to a hardcoded value.
func (c *Config) Validate() error {
	if c.Server.Port < MinPort || c.Server.Port > MaxPort {
		return fmt.Errorf("invalid server port: %d (must be between %d and %d)", c.Server.Port, MinPort, MaxPort)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < MinPort || c.Database.Port > MaxPort {
		return fmt.Errorf("invalid database port: %d (must be between %d and %d)", c.Database.Port, MinPort, MaxPort)
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.App.BaseURL == "" {
		return fmt.Errorf("app base_url is required (tracking links are built from it)")
	}

	if c.Auth.AdminUsername == "" {
		return fmt.Errorf("auth admin_username is required")
	}

	if c.Auth.AdminPasswordHash == "" {
		return fmt.Errorf("auth admin_password_hash is required")
	}

	if c.Auth.SessionSecret == "" {
		return fmt.Errorf("auth session_secret is required")
	}

	if c.Blob.CloudName == "" || c.Blob.APIKey == "" || c.Blob.APISecret == "" {
		return fmt.Errorf("blob cloud_name, api_key and api_secret are required")
	}

	if c.RabbitMQ.Enabled {
		if c.RabbitMQ.Host == "" {
			return fmt.Errorf("rabbitmq host is required when rabbitmq is enabled")
		}

		if c.RabbitMQ.Port < MinPort || c.RabbitMQ.Port > MaxPort {
			return fmt.Errorf("invalid rabbitmq port: %d (must be between %d and %d)", c.RabbitMQ.Port, MinPort, MaxPort)
		}

		if c.RabbitMQ.ExchangeName == "" {
			return fmt.Errorf("rabbitmq exchange_name is required when rabbitmq is enabled")
		}
	}

	return nil
}
