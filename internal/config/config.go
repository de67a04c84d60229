package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API      APIConfig
	Database DatabaseConfig
	Log      LogConfig
	UI       UIConfig
}

// APIConfig holds remote server settings.
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// DatabaseConfig holds local cache sqlite settings.
type DatabaseConfig struct {
	Path string
}

// LogConfig holds the log sink settings.
type LogConfig struct {
	Path  string
	Level string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Timezone          string `mapstructure:"timezone"`
	SalesPageSize     int    `mapstructure:"sales_page_size"`
	CustomersPageSize int    `mapstructure:"customers_page_size"`
	CashflowPageSize  int    `mapstructure:"cashflow_page_size"`
	HistoryPageSize   int    `mapstructure:"history_page_size"`
}

// Load reads configuration from file and env. Env var overrides use prefix CEICACAKE_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("api.base_url", "https://ceicacake.pythonanywhere.com/api/v1")
	v.SetDefault("api.timeout_seconds", 15)
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "ceicacake", "cache.db"))
	v.SetDefault("log.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "ceicacake", "ceicacake.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("ui.timezone", "America/Sao_Paulo")
	v.SetDefault("ui.sales_page_size", 10)
	v.SetDefault("ui.customers_page_size", 10)
	v.SetDefault("ui.cashflow_page_size", 15)
	v.SetDefault("ui.history_page_size", 12)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("CEICACAKE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "ceicacake"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CEICACAKE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if
// needed.
func Save(cfg Config) error {
	path := os.Getenv("CEICACAKE_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "ceicacake", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.timeout_seconds", cfg.API.TimeoutSeconds)
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("ui.sales_page_size", cfg.UI.SalesPageSize)
	v.Set("ui.customers_page_size", cfg.UI.CustomersPageSize)
	v.Set("ui.cashflow_page_size", cfg.UI.CashflowPageSize)
	v.Set("ui.history_page_size", cfg.UI.HistoryPageSize)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
