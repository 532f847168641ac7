// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file
// when present), loads them into structured Go types, and validates
// that required values are present so they can be reused across the
// application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide defaults for optional blocks (server timeouts, observability).
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any variable below is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read with the prefix REGISTRATION_.

	- The prefix is removed and the rest is lowercased.
	- A double underscore separates nesting levels, single underscores
	  stay part of the key:

	  REGISTRATION_SERVER__PORT          -> server.port
	  REGISTRATION_SERVER__READ_TIMEOUT  -> server.read_timeout
	  REGISTRATION_STORAGE__BACKEND      -> storage.backend
*/

// EnvPrefix is the prefix every configuration variable must carry.
const EnvPrefix = "REGISTRATION_"

// Storage backends selectable through storage.backend.
const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Config is the root configuration object for the application.
//
// Database and Mongo are validated only when the matching backend is
// selected, hence `validate:"-"` on both.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Storage       StorageConfig        `koanf:"storage" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"-"`
	Mongo         MongoConfig          `koanf:"mongo" validate:"-"`
	Redis         RedisConfig          `koanf:"redis"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
// Used to tag logs/traces and switch behavior based on env.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// StorageConfig selects which persistence backend serves registrations.
type StorageConfig struct {
	Backend string `koanf:"backend" validate:"required,oneof=postgres mongo"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MinConns        int    `koanf:"min_conns" validate:"gte=0"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// MongoConfig contains the MongoDB connection string and database name.
type MongoConfig struct {
	URI      string `koanf:"uri" validate:"required"`
	Database string `koanf:"database" validate:"required"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port". Empty means Redis (and background jobs) are disabled.
type RedisConfig struct {
	Address string `koanf:"address"`
}

// IntegrationConfig stores credentials for third-party services.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	EmailFrom    string `koanf:"email_from"`
}

// JobsEnabled reports whether background jobs can run: they need Redis
// as a broker and a Resend key to deliver the welcome email.
func (c *Config) JobsEnabled() bool {
	return c.Redis.Address != "" && c.Integration.ResendAPIKey != ""
}

// defaultConfig returns the values used when the environment is silent.
// koanf only overwrites the keys it actually finds.
func defaultConfig() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:               "4000",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
		},
		Storage: StorageConfig{Backend: BackendPostgres},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MinConns:        2,
			ConnMaxLifetime: 300,
			ConnMaxIdleTime: 300,
		},
		Mongo: MongoConfig{Database: "registration"},
		Integration: IntegrationConfig{
			EmailFrom: "Registration <onboarding@resend.dev>",
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// listKeys are read from comma-separated env values.
var listKeys = map[string]bool{
	"server.cors_allowed_origins": true,
}

// envKeyValue maps REGISTRATION_SERVER__PORT to server.port and splits
// list values on commas.
func envKeyValue(name, value string) (string, any) {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")

	if !listKeys[key] {
		return key, value
	}

	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// LoadConfig loads configuration from environment variables, unmarshals it
// into Config, validates it and returns the result.
//
// Unlike a fatal-on-error loader it hands every failure back to the caller,
// so cmd/ decides how to exit and tests can assert on bad input.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKeyValue), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := defaultConfig()

	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	// PaaS platforms inject PORT; honor it unless the prefixed key is set.
	if port := os.Getenv("PORT"); port != "" && !k.Exists("server.port") {
		mainConfig.Server.Port = port
	}

	validate := validator.New()

	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	switch mainConfig.Storage.Backend {
	case BackendPostgres:
		if err := validate.Struct(mainConfig.Database); err != nil {
			return nil, fmt.Errorf("database config validation failed: %w", err)
		}
	case BackendMongo:
		if err := validate.Struct(mainConfig.Mongo); err != nil {
			return nil, fmt.Errorf("mongo config validation failed: %w", err)
		}
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed and environment follows primary.env, so every
	// log line and trace is tagged consistently.
	mainConfig.Observability.ServiceName = "registration"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
