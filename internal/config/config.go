// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file
// when one is present), loads them into structured Go types and
// validates that required values are present so the rest of the
// service can rely on them.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured config.
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide defaults for optional blocks (observability, defect policy).
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads `.env` into the process env before anything reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read with the DEFECT_ prefix. After the prefix is removed the
	key is lowercased and every double underscore becomes a koanf "." so that
	nested blocks can be addressed from a flat environment:

	  DEFECT_SERVER__PORT            -> server.port
	  DEFECT_DATABASE__MAX_OPEN_CONNS -> database.max_open_conns
*/

// EnvPrefix is the prefix every configuration variable carries.
const EnvPrefix = "DEFECT_"

// ServiceName tags logs, traces and APM data for this service.
const ServiceName = "defect-service"

// Config is the root configuration object for the application.
//
// Observability and Defect are pointers because they are optional; when they
// are missing LoadConfig injects defaults.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Defect        *DefectConfig        `koanf:"defect"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
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

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details. Address is "host:port".
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig stores the Clerk secret used to verify session tokens.
type AuthConfig struct {
	SecretKey string `koanf:"secret_key" validate:"required"`
}

// IntegrationConfig holds credentials for third-party APIs.
// An empty ResendAPIKey disables outgoing email.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	EmailFrom    string `koanf:"email_from"`
}

// DefectConfig holds the access policy knobs of the defect endpoints.
type DefectConfig struct {
	// EnforceUpdateOwnership makes UpdateDefect require the caller to own
	// the record. Off by default: updates are accepted from any caller.
	EnforceUpdateOwnership bool `koanf:"enforce_update_ownership"`

	// UserCacheTTL bounds how long a resolved session user stays in Redis.
	UserCacheTTL time.Duration `koanf:"user_cache_ttl" validate:"min=0"`

	// RateLimit is the number of requests one client may issue per
	// RateLimitWindow against /api routes. Zero disables limiting.
	RateLimit       int           `koanf:"rate_limit" validate:"min=0"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window" validate:"min=0"`
}

// DefaultDefectConfig returns the policy used when no DEFECT_DEFECT__* vars are set.
func DefaultDefectConfig() *DefectConfig {
	return &DefectConfig{
		EnforceUpdateOwnership: false,
		UserCacheTTL:           5 * time.Minute,
		RateLimit:              120,
		RateLimitWindow:        time.Minute,
	}
}

// envKey maps a raw variable name to a koanf key path.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// LoadConfig loads configuration from environment variables, unmarshals it,
// validates it, applies defaults and returns the result.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	// Defect policy defaults are seeded before unmarshalling so that a
	// partially configured block keeps the remaining defaults.
	mainConfig := &Config{Defect: DefaultDefectConfig()}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Defect == nil {
		mainConfig.Defect = DefaultDefectConfig()
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment always follow the primary block so that
	// logs and traces agree with each other.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// DSN builds a postgres:// connection URL. The password is URL-escaped so
// that reserved characters cannot break the URL structure.
func (c DatabaseConfig) DSN() string {
	hostPort := net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		c.User,
		url.QueryEscape(c.Password),
		hostPort,
		c.Name,
		c.SSLMode,
	)
}
