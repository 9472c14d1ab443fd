package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Session    SessionConfig    `mapstructure:"session"`
	Navigation NavigationConfig `mapstructure:"navigation"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Enabled bool   `mapstructure:"enabled"`
}

// CatalogConfig selects where places are loaded from: "builtin" or "postgres".
type CatalogConfig struct {
	Source string `mapstructure:"source"`
}

type SessionConfig struct {
	DefaultCampus            string `mapstructure:"default_campus"`
	Locale                   string `mapstructure:"locale"`
	ClearPlaceOnCampusChange bool   `mapstructure:"clear_place_on_campus_change"`
	QueueSize                int    `mapstructure:"queue_size"`
}

// NavigationConfig selects the launcher: "auto", "nats" or "link".
type NavigationConfig struct {
	Launcher      string `mapstructure:"launcher"`
	LinkBase      string `mapstructure:"link_base"`
	LaunchTimeout int    `mapstructure:"launch_timeout"` // seconds
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	OTLPAddr    string `mapstructure:"otlp_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "campusmap")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "campusmap")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.enabled", true)
	v.SetDefault("catalog.source", "builtin")
	v.SetDefault("session.default_campus", "jinpenling")
	v.SetDefault("session.locale", "en")
	v.SetDefault("session.clear_place_on_campus_change", false)
	v.SetDefault("session.queue_size", 64)
	v.SetDefault("navigation.launcher", "auto")
	v.SetDefault("navigation.link_base", "https://maps.apple.com/")
	v.SetDefault("navigation.launch_timeout", 10)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_addr", "localhost:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: CAMPUSMAP_SESSION_LOCALE → session.locale
	v.SetEnvPrefix("CAMPUSMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}

	switch c.Catalog.Source {
	case "builtin":
	case "postgres":
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required for the postgres catalog")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required for the postgres catalog")
		}
	default:
		errs = append(errs, fmt.Sprintf("catalog.source must be builtin or postgres, got %q", c.Catalog.Source))
	}

	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, "nats.url is required when nats is enabled")
	}

	switch c.Session.DefaultCampus {
	case "jinpenling", "yuntang":
	default:
		errs = append(errs, fmt.Sprintf("session.default_campus must be jinpenling or yuntang, got %q", c.Session.DefaultCampus))
	}
	switch c.Session.Locale {
	case "en", "zh":
	default:
		errs = append(errs, fmt.Sprintf("session.locale must be en or zh, got %q", c.Session.Locale))
	}
	if c.Session.QueueSize <= 0 {
		errs = append(errs, "session.queue_size must be positive")
	}

	switch c.Navigation.Launcher {
	case "auto", "link":
	case "nats":
		if !c.NATS.Enabled {
			errs = append(errs, "navigation.launcher nats requires nats.enabled")
		}
	default:
		errs = append(errs, fmt.Sprintf("navigation.launcher must be auto, nats or link, got %q", c.Navigation.Launcher))
	}
	if c.Navigation.LinkBase == "" {
		errs = append(errs, "navigation.link_base is required")
	}
	if c.Navigation.LaunchTimeout <= 0 {
		errs = append(errs, "navigation.launch_timeout must be positive")
	}

	if c.Telemetry.Enabled && c.Telemetry.OTLPAddr == "" {
		errs = append(errs, "telemetry.otlp_addr is required when telemetry is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
