package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Billing   BillingConfig   `yaml:"billing"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	User           string `yaml:"user"`
	Password       string `yaml:"password"`
	Database       string `yaml:"database"`
	SSLMode        string `yaml:"ssl_mode"`
	MigrationsPath string `yaml:"migrations_path"`
	AutoMigrate    bool   `yaml:"auto_migrate"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// BillingConfig holds the gap pricing rules. Defaults reproduce the
// historical rules: 20% co-payment, flat 30-day month, 10% tolerance.
type BillingConfig struct {
	CopaymentRate              float64  `yaml:"copayment_rate"`
	MonthDays                  int      `yaml:"month_days"`
	CorrectionTolerancePercent *float64 `yaml:"correction_tolerance_percent"`
	Currency                   string   `yaml:"currency"`
}

// TolerancePercent returns the correction tolerance. Zero is a valid setting.
func (b BillingConfig) TolerancePercent() float64 {
	if b.CorrectionTolerancePercent == nil {
		return 10
	}
	return *b.CorrectionTolerancePercent
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	GapCorrectionSweep  string `yaml:"gap_correction_sweep"`
	GapCorrectionDryRun *bool  `yaml:"gap_correction_dry_run"`
}

// SweepDryRun reports whether the scheduled sweep only reports corrections.
func (s SchedulerConfig) SweepDryRun() bool {
	return s.GapCorrectionDryRun == nil || *s.GapCorrectionDryRun
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, applies environment overrides and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}
	if val := os.Getenv("MIGRATIONS_PATH"); val != "" {
		c.Database.MigrationsPath = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Scheduler
	if val := os.Getenv("GAP_CORRECTION_DRY_RUN"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Scheduler.GapCorrectionDryRun = &b
		}
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MigrationsPath == "" {
		c.Database.MigrationsPath = "migrations"
	}

	// Billing defaults
	if c.Billing.CopaymentRate == 0 {
		c.Billing.CopaymentRate = 0.20
	}
	if c.Billing.CopaymentRate < 0 || c.Billing.CopaymentRate > 1 {
		return fmt.Errorf("copayment rate must be between 0 and 1: %v", c.Billing.CopaymentRate)
	}
	if c.Billing.MonthDays == 0 {
		c.Billing.MonthDays = 30
	}
	if c.Billing.MonthDays < 0 {
		return fmt.Errorf("invalid month days: %d", c.Billing.MonthDays)
	}
	if c.Billing.CorrectionTolerancePercent == nil {
		tolerance := 10.0
		c.Billing.CorrectionTolerancePercent = &tolerance
	}
	if *c.Billing.CorrectionTolerancePercent < 0 {
		return fmt.Errorf("invalid correction tolerance: %v", *c.Billing.CorrectionTolerancePercent)
	}
	if c.Billing.Currency == "" {
		c.Billing.Currency = "TND"
	}

	// Scheduler defaults
	if c.Scheduler.GapCorrectionSweep == "" {
		c.Scheduler.GapCorrectionSweep = "0 0 1 * * *" // 1 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection URL with
// credentials escaped.
func (c *Config) GetDatabaseConnectionString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     net.JoinHostPort(c.Database.Host, strconv.Itoa(c.Database.Port)),
		Path:     "/" + c.Database.Database,
		RawQuery: url.Values{"sslmode": {c.Database.SSLMode}}.Encode(),
	}
	return u.String()
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
