package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"

	"github.com/julianstephens/momentum/internal/constants"
	"github.com/julianstephens/momentum/internal/utils"
)

// EnvPrefix is prepended to every variable, e.g. MOMENTUM_HTTP_ADDR
const EnvPrefix = "MOMENTUM"

// Config holds process configuration read from the environment. CLI flags
// override individual fields after loading.
type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// DatabaseDSN is a SQLite path or a PostgreSQL connection string. Empty
	// means the connection string stored in the OS keyring, then the default
	// SQLite path.
	DatabaseDSN string `envconfig:"DATABASE_DSN"`
	AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"true"`

	JWTSecret string        `envconfig:"JWT_SECRET"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"720h"`

	// RedisURL enables the purge lease when set
	RedisURL      string `envconfig:"REDIS_URL"`
	PurgeSchedule string `envconfig:"PURGE_SCHEDULE" default:"@every 24h"`

	// Timezone picks "today" for CLI commands. Empty or "Local" is the system zone.
	Timezone string `envconfig:"TIMEZONE" default:"Local"`

	LogDir  string `envconfig:"LOG_DIR"`
	LogJSON bool   `envconfig:"LOG_JSON" default:"false"`
	Debug   bool   `envconfig:"DEBUG" default:"false"`
}

// New creates a new Config by parsing MOMENTUM_* environment variables
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	return &cfg, nil
}

// NewForTesting returns defaults without reading the environment
func NewForTesting() *Config {
	return &Config{
		HTTPAddr:      constants.DefaultHTTPAddr,
		AutoMigrate:   true,
		JWTSecret:     strings.Repeat("t", 32),
		TokenTTL:      time.Duration(constants.DefaultTokenTTLHr) * time.Hour,
		PurgeSchedule: constants.DefaultPurgeCron,
		Timezone:      "Local",
	}
}

// ValidateServe checks the fields the HTTP server depends on
func (c *Config) ValidateServe() error {
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("%s_JWT_SECRET must be at least 32 bytes", EnvPrefix)
	}
	if c.HTTPAddr == "" {
		return fmt.Errorf("%s_HTTP_ADDR is required", EnvPrefix)
	}
	return c.ValidateSchedule()
}

// ValidateSchedule checks PurgeSchedule parses as a cron spec or descriptor
func (c *Config) ValidateSchedule() error {
	if _, err := cron.ParseStandard(c.PurgeSchedule); err != nil {
		return fmt.Errorf("invalid purge schedule %q: %w", c.PurgeSchedule, err)
	}
	return nil
}

// ValidateTimezone checks Timezone names a loadable IANA zone
func (c *Config) ValidateTimezone() error {
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid %s_TIMEZONE %q", EnvPrefix, c.Timezone)
	}
	return nil
}

// LeaseEnabled reports whether scheduled purges coordinate through Redis
func (c *Config) LeaseEnabled() bool {
	return strings.TrimSpace(c.RedisURL) != ""
}
