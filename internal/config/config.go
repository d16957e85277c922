package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Backend names accepted in [store].backend.
const (
	BackendFsdir = "fsdir"
	BackendBolt  = "bolt"
)

type Config struct {
	Store StoreConfig `toml:"store"`
	Log   LogConfig   `toml:"log"`
}

type StoreConfig struct {
	Root      string `toml:"root"`
	Backend   string `toml:"backend"`
	Workers   int    `toml:"workers"`
	QueueSize int    `toml:"queue_size"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Defaults returns a Config with sane defaults.
func Defaults() *Config {
	return &Config{
		Store: StoreConfig{
			Root:      "~/.diskcache/data",
			Backend:   BackendFsdir,
			Workers:   4,
			QueueSize: 10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a TOML config file and returns the parsed Config.
// If path is empty, the default location is tried; when no file exists
// there, defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path == "" {
		// Try default location
		path = expandHome("~/.diskcache/config.toml")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the config for values the store cannot run with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendFsdir, BackendBolt:
	default:
		return fmt.Errorf("unknown backend %q (want %q or %q)",
			c.Store.Backend, BackendFsdir, BackendBolt)
	}
	if c.Store.Workers < 2 {
		return fmt.Errorf("workers must be >= 2, got %d", c.Store.Workers)
	}
	if c.Store.QueueSize < 1 {
		return fmt.Errorf("queue_size must be >= 1, got %d", c.Store.QueueSize)
	}
	if c.Store.Root == "" {
		return fmt.Errorf("store root must not be empty")
	}
	return nil
}

// ExpandHome resolves a leading ~/ to the user's home directory.
func ExpandHome(path string) string {
	return expandHome(path)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
