// Package config provides dynamic configuration management for Showcase.
// It uses Viper to load settings from files, environment variables, and CLI flags.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for Showcase.
type Config struct {
	// ── Server ───────────────────────────────────────────────────────────────
	ServerHost string `mapstructure:"server_host"`
	Port       int    `mapstructure:"port"`
	// DevelopmentMode switches gin into debug mode and enables request logging.
	// The bootstrap launches with it disabled.
	DevelopmentMode bool `mapstructure:"development_mode"`

	// ── Session store ─────────────────────────────────────────────────────────
	DBDriver string `mapstructure:"db_driver"` // only "sqlite" for now
	DBPath   string `mapstructure:"db_path"`
	// SessionSecret: HS256 signing key for the session cookie.
	SessionSecret   string `mapstructure:"session_secret"`
	SessionTTLHours int    `mapstructure:"session_ttl_hours"`

	// ── Page ──────────────────────────────────────────────────────────────────
	PageTitle  string `mapstructure:"page_title"`
	PageLayout string `mapstructure:"page_layout"` // wide | centered
	ImageURL   string `mapstructure:"image_url"`

	ChartWidth  int `mapstructure:"chart_width"`
	ChartHeight int `mapstructure:"chart_height"`
}

// Addr returns host:port for the HTTP listener.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.Port)
}

// Load reads config from file (./config.yaml or ~/.showcase/config.yaml)
// and falls back to defaults. Environment variables with prefix SHOWCASE_
// override file values.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.showcase")
	if err := v.ReadInConfig(); err != nil {
		// config file is optional; ignore "not found" errors
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("SHOWCASE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("port", 8501)
	v.SetDefault("development_mode", false)

	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_path", "showcase.db")
	// Must be overridden in production via config.yaml or SHOWCASE_SESSION_SECRET.
	v.SetDefault("session_secret", "sc-Qm4!vT9#pL2@xW7&nR5")
	v.SetDefault("session_ttl_hours", 24)

	v.SetDefault("page_title", "Multi-Page Showcase App")
	v.SetDefault("page_layout", "wide")
	v.SetDefault("image_url", "https://static.streamlit.io/examples/owl.jpg")

	v.SetDefault("chart_width", 720)
	v.SetDefault("chart_height", 320)
}
