// Package config loads user defaults from a TOML file. The file is
// optional: a missing file yields the built-in defaults, and CLI flags
// override whatever the file says.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/phylotree/pkg/errors"
)

// Config holds user-adjustable defaults for the pipeline.
type Config struct {
	Style     string   `toml:"style"`
	Formats   []string `toml:"formats"`
	Threads   int      `toml:"threads"`
	Bootstrap int      `toml:"bootstrap"`
	Width     int      `toml:"width"`
	Height    int      `toml:"height"`
	Cache     Cache    `toml:"cache"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	// Backend is one of "file", "redis" or "off".
	Backend string `toml:"backend"`
	// Dir is the file backend's directory. Empty means
	// ~/.cache/phylotree.
	Dir string `toml:"dir"`
	// RedisAddr is the redis backend's "host:port".
	RedisAddr string `toml:"redis_addr"`
	// TTLDays bounds entry lifetime for trees and artifacts alike;
	// zero keeps the built-in per-kind defaults.
	TTLDays int `toml:"ttl_days"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Style:     "circular",
		Formats:   []string{"svg"},
		Threads:   1,
		Bootstrap: 1000,
		Width:     1000,
		Height:    1000,
		Cache: Cache{
			Backend:   "file",
			RedisAddr: "localhost:6379",
		},
	}
}

// DefaultPath returns the standard config file location,
// ~/.config/phylotree/config.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "phylotree", "config.toml")
}

// DefaultCacheDir returns the file cache location, ~/.cache/phylotree.
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cache", "phylotree")
}

// Load reads the config at path, falling back to DefaultPath when path
// is empty. A missing file is not an error; fields absent from the
// file keep their defaults.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			if explicit {
				return cfg, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
			}
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the pipeline cannot work with.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "file", "redis", "off":
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"cache.backend must be file, redis or off, got %q", c.Cache.Backend)
	}
	if c.Threads < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "threads must be positive, got %d", c.Threads)
	}
	if c.Bootstrap < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "bootstrap must be positive, got %d", c.Bootstrap)
	}
	if c.Cache.TTLDays < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl_days must be positive, got %d", c.Cache.TTLDays)
	}
	return nil
}
