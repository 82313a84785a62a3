// Package config loads agent configuration from an optional YAML file, a
// .env file, and environment variables, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything the binaries need.
type Config struct {
	// ListenAddr is the HTTP API bind address.
	ListenAddr string `yaml:"listen_addr"`
	// ServerCommand launches the product server child process.
	ServerCommand []string `yaml:"server_command"`
	// CatalogPath is the product catalog JSON file.
	CatalogPath string `yaml:"catalog_path"`
	// CallTimeoutSeconds bounds a single tool call on the wire.
	CallTimeoutSeconds int    `yaml:"call_timeout_seconds"`
	LogLevel           string `yaml:"log_level"`
	// LogFile enables rotated file logging when set.
	LogFile string `yaml:"log_file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ListenAddr:         ":8000",
		ServerCommand:      []string{"./product-server"},
		CatalogPath:        "data/products.json",
		CallTimeoutSeconds: 30,
		LogLevel:           "info",
	}
}

// CallTimeout returns the call timeout as a duration.
func (c Config) CallTimeout() time.Duration {
	return time.Duration(c.CallTimeoutSeconds) * time.Second
}

// Load builds the configuration. path may be empty; a missing config file
// is not an error, a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	// .env values become process env vars so the overrides below see them.
	_ = godotenv.Load()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(&cfg)

	if cfg.CallTimeoutSeconds <= 0 {
		cfg.CallTimeoutSeconds = Default().CallTimeoutSeconds
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("AGENT_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("AGENT_SERVER_COMMAND"); v != "" {
		cfg.ServerCommand = strings.Fields(v)
	}
	if v := os.Getenv("AGENT_CATALOG_PATH"); v != "" {
		cfg.CatalogPath = v
	}
	if v := os.Getenv("AGENT_CALL_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CallTimeoutSeconds = n
		}
	}
	if v := os.Getenv("AGENT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("AGENT_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}
