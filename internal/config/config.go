package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Timer     TimerConfig     `yaml:"timer"`
	Alert     AlertConfig     `yaml:"alert"`
	MCP       MCPConfig       `yaml:"mcp"`
	// Units is the weight unit shown and stored: "lbs" or "kg".
	Units string `yaml:"units"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig selects the record store. Driver "sqlite" uses Path;
// driver "postgres" uses the host/port/name/user fields.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type TimerConfig struct {
	// TickInterval is how often the rest timer re-reads the wall clock.
	TickInterval time.Duration `yaml:"tick_interval"`
}

type AlertConfig struct {
	Bell    bool          `yaml:"bell"`
	Beeps   int           `yaml:"beeps"`
	Webhook WebhookConfig `yaml:"webhook"`
}

type WebhookConfig struct {
	URL      string        `yaml:"url"`
	Timeout  time.Duration `yaml:"timeout"`
	Attempts int           `yaml:"attempts"`
}

type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func (d DatabaseConfig) sslmode() string {
	if d.SSLMode == "" {
		return "disable"
	}
	return d.SSLMode
}

// DSN returns the database/sql connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.Driver == DriverPostgres {
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			url.PathEscape(d.User), url.PathEscape(d.Password), d.Host, d.Port, d.Name, d.sslmode())
	}
	return "file:" + d.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// MigrationURL returns the golang-migrate database URL for the configured driver.
func (d DatabaseConfig) MigrationURL() string {
	if d.Driver == DriverPostgres {
		return fmt.Sprintf("pgx5://%s:%s@%s:%d/%s?sslmode=%s",
			url.PathEscape(d.User), url.PathEscape(d.Password), d.Host, d.Port, d.Name, d.sslmode())
	}
	return "sqlite://" + d.Path
}

// Load reads config from a YAML file, fills defaults, then applies
// environment variable overrides. Env vars use the prefix PUSHPULL_ and
// underscore-separated paths:
//
//	PUSHPULL_SERVER_HOST, PUSHPULL_SERVER_PORT,
//	PUSHPULL_DB_DRIVER, PUSHPULL_DB_PATH, PUSHPULL_DB_HOST, PUSHPULL_DB_PORT,
//	PUSHPULL_DB_NAME, PUSHPULL_DB_USER, PUSHPULL_DB_PASSWORD, PUSHPULL_DB_SSLMODE,
//	PUSHPULL_TAILSCALE_ENABLED, PUSHPULL_TAILSCALE_HOSTNAME,
//	PUSHPULL_ALERT_WEBHOOK_URL, PUSHPULL_MCP_ENABLED, PUSHPULL_UNITS
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "127.0.0.1"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverSQLite
	}
	if cfg.Database.Driver == DriverSQLite && cfg.Database.Path == "" {
		cfg.Database.Path = "pushpull.db"
	}
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "pushpull"
	}
	if cfg.Timer.TickInterval == 0 {
		cfg.Timer.TickInterval = 250 * time.Millisecond
	}
	if cfg.Alert.Beeps == 0 {
		cfg.Alert.Beeps = 2
	}
	if cfg.Alert.Webhook.Timeout == 0 {
		cfg.Alert.Webhook.Timeout = 5 * time.Second
	}
	if cfg.Alert.Webhook.Attempts == 0 {
		cfg.Alert.Webhook.Attempts = 3
	}
	if cfg.Units == "" {
		cfg.Units = "lbs"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PUSHPULL_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("PUSHPULL_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("PUSHPULL_DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("PUSHPULL_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("PUSHPULL_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("PUSHPULL_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("PUSHPULL_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("PUSHPULL_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("PUSHPULL_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("PUSHPULL_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("PUSHPULL_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	if v := os.Getenv("PUSHPULL_TAILSCALE_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("PUSHPULL_ALERT_WEBHOOK_URL"); v != "" {
		cfg.Alert.Webhook.URL = v
	}
	if v := os.Getenv("PUSHPULL_MCP_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.MCP.Enabled = b
		}
	}
	if v := os.Getenv("PUSHPULL_UNITS"); v != "" {
		cfg.Units = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Timer.TickInterval < 0 {
		return fmt.Errorf("timer.tick_interval must not be negative")
	}
	if c.Units != "lbs" && c.Units != "kg" {
		return fmt.Errorf("units must be lbs or kg, got %q", c.Units)
	}
	if c.Alert.Webhook.URL != "" {
		u, err := url.Parse(c.Alert.Webhook.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("alert.webhook.url must be an http(s) URL")
		}
	}
	return nil
}
