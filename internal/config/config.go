package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host                   string `yaml:"host"`
	Port                   int    `yaml:"port"`
	ReadTimeoutSeconds     int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int    `yaml:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	SSLMode      string `yaml:"ssl_mode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
	CookieName        string `yaml:"cookie_name"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings (seconds field first, UTC)
type SchedulerConfig struct {
	ReleaseExpiredLeases string `yaml:"release_expired_leases"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.overrideWithEnv(); err != nil {
		return nil, err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

type envBinding struct {
	name  string
	apply func(c *Config, val string) error
}

func stringVar(field func(c *Config) *string) func(*Config, string) error {
	return func(c *Config, val string) error {
		*field(c) = val
		return nil
	}
}

func intVar(field func(c *Config) *int) func(*Config, string) error {
	return func(c *Config, val string) error {
		n, err := strconv.Atoi(val)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

var envBindings = []envBinding{
	{"DB_HOST", stringVar(func(c *Config) *string { return &c.Database.Host })},
	{"DB_PORT", intVar(func(c *Config) *int { return &c.Database.Port })},
	{"DB_USER", stringVar(func(c *Config) *string { return &c.Database.User })},
	{"DB_PASSWORD", stringVar(func(c *Config) *string { return &c.Database.Password })},
	{"DB_NAME", stringVar(func(c *Config) *string { return &c.Database.Database })},
	{"DB_SSL_MODE", stringVar(func(c *Config) *string { return &c.Database.SSLMode })},
	{"DB_MAX_OPEN_CONNS", intVar(func(c *Config) *int { return &c.Database.MaxOpenConns })},
	{"DB_MAX_IDLE_CONNS", intVar(func(c *Config) *int { return &c.Database.MaxIdleConns })},
	{"JWT_SECRET", stringVar(func(c *Config) *string { return &c.JWT.Secret })},
	{"SERVER_HOST", stringVar(func(c *Config) *string { return &c.Server.Host })},
	{"SERVER_PORT", intVar(func(c *Config) *int { return &c.Server.Port })},
	{"LOG_LEVEL", stringVar(func(c *Config) *string { return &c.Log.Level })},
	{"LOG_FORMAT", stringVar(func(c *Config) *string { return &c.Log.Format })},
	{"SCHEDULE_RELEASE_EXPIRED_LEASES", stringVar(func(c *Config) *string { return &c.Scheduler.ReleaseExpiredLeases })},
}

// overrideWithEnv applies every set environment variable in envBindings.
func (c *Config) overrideWithEnv() error {
	for _, b := range envBindings {
		val, ok := os.LookupEnv(b.name)
		if !ok || val == "" {
			continue
		}
		if err := b.apply(c, val); err != nil {
			return fmt.Errorf("invalid %s: %w", b.name, err)
		}
	}
	return nil
}

// Validate checks required settings and fills in defaults for the rest.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch {
	case c.Database.Host == "":
		return errors.New("database host is required")
	case c.Database.User == "":
		return errors.New("database user is required")
	case c.Database.Database == "":
		return errors.New("database name is required")
	}
	setDefault(&c.Database.SSLMode, "disable")

	if len(c.JWT.Secret) < 32 {
		return errors.New("JWT secret must be at least 32 characters")
	}
	setDefault(&c.JWT.AccessTokenExpiry, 60)
	setDefault(&c.JWT.CookieName, "token")

	setDefault(&c.Log.Level, "info")
	setDefault(&c.Log.Format, "text")

	setDefault(&c.Server.ReadTimeoutSeconds, 15)
	setDefault(&c.Server.WriteTimeoutSeconds, 15)
	setDefault(&c.Server.ShutdownTimeoutSeconds, 10)

	// every 15 minutes
	setDefault(&c.Scheduler.ReleaseExpiredLeases, "0 */15 * * * *")
	if _, err := scheduleParser.Parse(c.Scheduler.ReleaseExpiredLeases); err != nil {
		return fmt.Errorf("invalid release_expired_leases schedule: %w", err)
	}
	return nil
}

var scheduleParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// AccessTokenTTL returns the lifetime of issued access tokens
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenExpiry) * time.Minute
}
