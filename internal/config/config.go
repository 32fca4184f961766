package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
)

// Config is the full service configuration, loaded from a TOML file.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Scheduling SchedulingConfig `toml:"scheduling"`
}

// ServerConfig configures the HTTP listener. Timeouts are in seconds.
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig configures the Postgres connection pool.
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // seconds
}

// DSN builds the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig configures the file logger.
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig toggles prometheus metrics exposure.
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// SchedulingConfig holds the scheduling knobs threaded explicitly into the
// resolver and the ledger instead of being read from ambient global state.
type SchedulingConfig struct {
	// DefaultSlotCapacity seeds a ledger row created on first booking
	// attempt for a slot with no explicit capacity configured.
	DefaultSlotCapacity int `toml:"default_slot_capacity"`
	// SlotIntervalMinutes is the grid step used for display calendars.
	SlotIntervalMinutes int `toml:"slot_interval_minutes"`
	// ScanHorizonDays bounds the next-available-date forward scan.
	ScanHorizonDays int `toml:"scan_horizon_days"`
	// LeadTimes maps a booking-type slug to the minimum number of days of
	// advance notice. Types without an entry need no notice.
	LeadTimes map[string]int `toml:"lead_times"`
}

// Load reads and validates the configuration file.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "scheduling"
	}
	if c.Scheduling.DefaultSlotCapacity == 0 {
		c.Scheduling.DefaultSlotCapacity = domain.DefaultSlotCapacity
	}
	if c.Scheduling.SlotIntervalMinutes == 0 {
		c.Scheduling.SlotIntervalMinutes = domain.DefaultSlotIntervalMinutes
	}
	if c.Scheduling.ScanHorizonDays == 0 {
		c.Scheduling.ScanHorizonDays = domain.DefaultScanHorizonDays
	}
	if c.Scheduling.LeadTimes == nil {
		c.Scheduling.LeadTimes = map[string]int{}
	}
}

func (c *Config) validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.dbname is required")
	}
	if c.Scheduling.DefaultSlotCapacity < 1 || c.Scheduling.DefaultSlotCapacity > domain.MaxSlotCapacity {
		return fmt.Errorf("config: scheduling.default_slot_capacity must be in [1, %d]", domain.MaxSlotCapacity)
	}
	if c.Scheduling.SlotIntervalMinutes < domain.MinDurationMinutes || c.Scheduling.SlotIntervalMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("config: scheduling.slot_interval_minutes must be in [%d, %d]",
			domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}
	for slug, days := range c.Scheduling.LeadTimes {
		if days < 0 {
			return fmt.Errorf("config: scheduling.lead_times[%s] must not be negative", slug)
		}
	}
	return nil
}
