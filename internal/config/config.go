// Package config handles loading and validating the application
// configuration from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hmuraoka/seatwatch/pkg/resolve"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Page          PageConfig          `yaml:"page"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Alerts        AlertsConfig        `yaml:"alerts"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the ops HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings for check
// history. Leaving Host empty selects the in-memory store.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// Enabled reports whether a Postgres store is configured.
func (d *DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// PageConfig defines the reservation page and how it is scanned.
type PageConfig struct {
	URL             string          `yaml:"url"`
	SectionSelector string          `yaml:"section_selector"`
	Trains          []TrainConfig   `yaml:"trains"`
	RenderWait      time.Duration   `yaml:"render_wait"`
	NavTimeout      time.Duration   `yaml:"nav_timeout"`
	Retry           RetryConfig     `yaml:"retry"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
	WindowRadius    int             `yaml:"window_radius"`
	Headless        *bool           `yaml:"headless"`
}

// TrainConfig names one train section to scan.
type TrainConfig struct {
	Name string `yaml:"name"`
}

// RetryConfig defines the navigate-and-capture retry budget.
type RetryConfig struct {
	Attempts int           `yaml:"attempts"`
	Delay    time.Duration `yaml:"delay"`
}

// RateLimitConfig defines page fetch pacing.
type RateLimitConfig struct {
	PerMinute  float64 `yaml:"per_minute"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// ScheduleConfig defines cron intervals and the optional active window.
// Outside [ActiveFrom, ActiveUntil) scheduled checks are skipped; both
// are "HH:MM" local times, empty means always active.
type ScheduleConfig struct {
	CheckInterval    time.Duration `yaml:"check_interval"`
	PruneInterval    time.Duration `yaml:"prune_interval"`
	HistoryRetention time.Duration `yaml:"history_retention"`
	ActiveFrom       string        `yaml:"active_from"`
	ActiveUntil      string        `yaml:"active_until"`
}

// AlertsConfig defines alert behavior.
type AlertsConfig struct {
	ReAlertsEnabled  bool          `yaml:"re_alerts_enabled"`
	ReAlertsCooldown time.Duration `yaml:"re_alerts_cooldown"`
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Discord DiscordConfig `yaml:"discord"`
	Webhook WebhookConfig `yaml:"webhook"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// WebhookConfig defines generic webhook settings.
type WebhookConfig struct {
	Enabled bool              `yaml:"enabled"`
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment
// variable substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyPageDefaults(&cfg.Page)
	applyScheduleDefaults(&cfg.Schedule)
	applyAlertsDefaults(&cfg.Alerts)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 4
	}
}

func applyPageDefaults(p *PageConfig) {
	if p.SectionSelector == "" {
		p.SectionSelector = "table"
	}
	if len(p.Trains) == 0 {
		p.Trains = []TrainConfig{
			{Name: "サンライズ瀬戸"},
			{Name: "サンライズ出雲"},
		}
	}
	if p.RenderWait == 0 {
		p.RenderWait = 5 * time.Second
	}
	if p.NavTimeout == 0 {
		p.NavTimeout = 60 * time.Second
	}
	if p.Retry.Attempts == 0 {
		p.Retry.Attempts = 3
	}
	if p.Retry.Delay == 0 {
		p.Retry.Delay = 10 * time.Second
	}
	if p.RateLimit.PerMinute == 0 {
		p.RateLimit.PerMinute = 2
	}
	if p.RateLimit.Burst == 0 {
		p.RateLimit.Burst = 1
	}
	if p.RateLimit.DailyLimit == 0 {
		p.RateLimit.DailyLimit = 500
	}
	if p.WindowRadius == 0 {
		p.WindowRadius = resolve.WindowRadiusMulti
	}
	if p.Headless == nil {
		headless := true
		p.Headless = &headless
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.CheckInterval == 0 {
		s.CheckInterval = 5 * time.Minute
	}
	if s.PruneInterval == 0 {
		s.PruneInterval = 24 * time.Hour
	}
	if s.HistoryRetention == 0 {
		s.HistoryRetention = 30 * 24 * time.Hour
	}
}

func applyAlertsDefaults(a *AlertsConfig) {
	if a.ReAlertsCooldown == 0 {
		a.ReAlertsCooldown = 6 * time.Hour
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Page.URL == "" {
		errs = append(errs, fmt.Errorf("page.url is required"))
	}
	if cfg.Page.WindowRadius < 0 {
		errs = append(errs, fmt.Errorf("page.window_radius must not be negative"))
	}

	for i, tr := range cfg.Page.Trains {
		if tr.Name == "" {
			errs = append(errs, fmt.Errorf("page.trains[%d].name is required", i))
		}
	}

	if cfg.Database.Enabled() {
		if cfg.Database.Name == "" {
			errs = append(errs, fmt.Errorf("database.name is required when database.host is set"))
		}
		if cfg.Database.User == "" {
			errs = append(errs, fmt.Errorf("database.user is required when database.host is set"))
		}
	}

	if cfg.Notifications.Discord.Enabled && cfg.Notifications.Discord.WebhookURL == "" {
		errs = append(errs, fmt.Errorf("notifications.discord.webhook_url is required when discord is enabled"))
	}
	if cfg.Notifications.Webhook.Enabled && cfg.Notifications.Webhook.URL == "" {
		errs = append(errs, fmt.Errorf("notifications.webhook.url is required when webhook is enabled"))
	}

	if err := validateActiveWindow(&cfg.Schedule); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func validateActiveWindow(s *ScheduleConfig) error {
	if (s.ActiveFrom == "") != (s.ActiveUntil == "") {
		return fmt.Errorf("schedule.active_from and schedule.active_until must be set together")
	}
	if s.ActiveFrom == "" {
		return nil
	}
	for _, v := range []string{s.ActiveFrom, s.ActiveUntil} {
		if _, err := time.Parse("15:04", v); err != nil {
			return fmt.Errorf("schedule active window time %q: want HH:MM", v)
		}
	}
	return nil
}
