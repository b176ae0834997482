// Package config loads the tracker configuration from a TOML file and the
// environment. Env var overrides use the prefix HODLWATCH_.
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
	Ledger   LedgerConfig
	Database DatabaseConfig
	Server   ServerConfig
	Prices   PricesConfig
	Tax      TaxConfig
}

// LedgerConfig holds the JSONL ledger settings used by the CLI.
type LedgerConfig struct {
	Path string
}

// DatabaseConfig holds sqlite settings used by the HTTP server.
type DatabaseConfig struct {
	Path string
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string
}

// PricesConfig holds the price provider settings.
type PricesConfig struct {
	BaseURL  string
	CacheDir string
}

// TaxConfig holds cost-basis reporting preferences.
type TaxConfig struct {
	Method string // fifo, lifo or hifo
}

// Load reads configuration from file and env. The config file is looked up at
// $HODLWATCH_CONFIG, then ~/.config/hodlwatch/config.toml; a missing file is
// not an error, defaults apply.
func Load() (Config, error) {
	v := viper.New()

	home := os.Getenv("HOME")
	v.SetDefault("ledger.path", filepath.Join(home, ".local", "share", "hodlwatch", "ledger.jsonl"))
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "hodlwatch", "hodlwatch.db"))
	v.SetDefault("server.addr", "localhost:8714")
	v.SetDefault("prices.base_url", "")
	v.SetDefault("prices.cache_dir", "")
	v.SetDefault("tax.method", "fifo")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("HODLWATCH_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "hodlwatch"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("HODLWATCH")
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
