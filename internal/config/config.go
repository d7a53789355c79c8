// Package config reads ledger settings from the environment, an optional
// .env file and command-line flags, in increasing order of precedence.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"zakat/internal/log"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

var validBackends = []string{BackendSQLite, BackendFile, BackendMemory}

type Config struct {
	// Storage
	DataBackend  string `mapstructure:"ZAKAT_DATA_BACKEND"`
	SQLiteDBPath string `mapstructure:"ZAKAT_SQLITE_DB_PATH"`
	DataDir      string `mapstructure:"ZAKAT_DATA_DIR"`

	// DefaultYear is the active year used before any year has been
	// activated. Zero means the current calendar year.
	DefaultYear int    `mapstructure:"ZAKAT_DEFAULT_YEAR"`
	LogLevel    string `mapstructure:"ZAKAT_LOG_LEVEL"`

	// AMQP ledger events; an empty URL disables publishing.
	AMQPURL        string `mapstructure:"AMQP_URL"`
	AMQPExchange   string `mapstructure:"AMQP_EXCHANGE"`
	AMQPRoutingKey string `mapstructure:"AMQP_ROUTING_KEY"`
}

var defaults = map[string]any{
	"ZAKAT_DATA_BACKEND":   BackendSQLite,
	"ZAKAT_SQLITE_DB_PATH": "./data/zakat.db",
	"ZAKAT_DATA_DIR":       "./data/documents",
	"ZAKAT_DEFAULT_YEAR":   0,
	"ZAKAT_LOG_LEVEL":      "info",
	"AMQP_URL":             "",
	"AMQP_EXCHANGE":        "zakat",
	"AMQP_ROUTING_KEY":     "ledger_events",
}

// flagKeys maps global flag names to the keys they override.
var flagKeys = map[string]string{
	"backend":   "ZAKAT_DATA_BACKEND",
	"db":        "ZAKAT_SQLITE_DB_PATH",
	"data-dir":  "ZAKAT_DATA_DIR",
	"year":      "ZAKAT_DEFAULT_YEAR",
	"log-level": "ZAKAT_LOG_LEVEL",
	"amqp-url":  "AMQP_URL",
}

// RegisterFlags adds the global flags that Load understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("backend", BackendSQLite, "storage backend: sqlite, file or memory")
	fs.String("db", "./data/zakat.db", "SQLite database path")
	fs.String("data-dir", "./data/documents", "directory for the file backend")
	fs.Int("year", 0, "year to start with when no year is active yet")
	fs.String("log-level", "info", "log level: debug, info, warn or error")
	fs.String("amqp-url", "", "AMQP broker URL for ledger events")
}

// Load reads the configuration. Flags in fs that were set explicitly take
// precedence over the environment; fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	cfg.DataBackend = strings.ToLower(strings.TrimSpace(cfg.DataBackend))
	return &cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if err := ensureDir(filepath.Dir(c.SQLiteDBPath)); err != nil {
			errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", filepath.Dir(c.SQLiteDBPath), err))
		}
	case BackendFile:
		if c.DataDir == "" {
			errors = append(errors, "data directory cannot be empty when using file backend")
		} else if err := ensureDir(c.DataDir); err != nil {
			errors = append(errors, fmt.Sprintf("cannot create data directory '%s': %v", c.DataDir, err))
		}
	}

	if c.DefaultYear != 0 && (c.DefaultYear < 1900 || c.DefaultYear > 9999) {
		errors = append(errors, fmt.Sprintf("invalid default year %d: must be between 1900 and 9999", c.DefaultYear))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPRoutingKey == "" {
			errors = append(errors, "AMQP routing key cannot be empty when AMQP URL is provided")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func ensureDir(dir string) error {
	if dir == "." || dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}
