// Package config loads the masonry configuration file and opens the
// backends it names.
//
// The file is TOML and is looked up in this order:
//   - the --config flag
//   - the MASONRY_CONFIG environment variable
//   - $XDG_CONFIG_HOME/masonry/config.toml (~/.config/masonry/config.toml)
//
// A missing file at the default location is not an error; the built-in
// defaults apply. A missing file that was named explicitly is.
//
// Example:
//
//	[layout]
//	width = 1440
//	gap = 8
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
//
//	[store]
//	mongo_uri = "mongodb://localhost:27017"
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/masonry/pkg/cache"
	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/pipeline"
)

// AppName names the configuration, cache and data directories.
const AppName = "masonry"

// EnvConfig names the environment variable holding the config path.
const EnvConfig = "MASONRY_CONFIG"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// DefaultAddr is the listen address of "masonry serve".
const DefaultAddr = ":8080"

// Config is the complete masonry configuration.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`

	// path is the file the configuration was read from, if any.
	path string
}

// LayoutConfig holds default layout options. Unset values fall back to the
// engine defaults.
type LayoutConfig struct {
	Width     float64  `toml:"width"`
	Height    float64  `toml:"height"`
	BaseSize  float64  `toml:"base_size"`
	Gap       *float64 `toml:"gap"`
	Grid      bool     `toml:"include_grid"`
	Looseness *float64 `toml:"looseness"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	// Backend is one of "file", "redis" or "none".
	Backend string `toml:"backend"`

	// Dir is the file cache directory.
	Dir string `toml:"dir"`

	RedisURL  string `toml:"redis_url"`
	RedisAddr string `toml:"redis_addr"`

	// TTL bounds the lifetime of cached layouts.
	TTL time.Duration `toml:"ttl"`

	// Namespace prefixes every cache key.
	Namespace string `toml:"namespace"`
}

// StoreConfig configures the layout history.
type StoreConfig struct {
	// MongoURI selects the MongoDB store. When empty, the CLI keeps history
	// in Dir and the server keeps it in memory.
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	Dir        string `toml:"dir"`
}

// ServerConfig configures "masonry serve".
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     cache.DefaultTTL,
		},
		Server: ServerConfig{Addr: DefaultAddr},
	}
}

// Load reads the configuration from path, or from the default locations
// when path is empty.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfig)
		explicit = path != ""
	}
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return Default(), nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	cfg, err := LoadFile(path)
	if !explicit && stderrors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// LoadFile reads and validates the configuration at path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.path = path
	cfg.expandPaths()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Path returns the file the configuration was loaded from, or "" for the
// built-in defaults.
func (c *Config) Path() string {
	return c.path
}

// Validate checks value ranges and backend names.
func (c *Config) Validate() error {
	l := c.Layout
	if l.Width < 0 || l.Height < 0 {
		return errors.New(errors.ErrCodeInvalidContainer, "layout width and height cannot be negative")
	}
	if l.Width > 0 || l.Height > 0 {
		w, h := l.Width, l.Height
		if w == 0 {
			w = pipeline.DefaultWidth
		}
		if h == 0 {
			h = pipeline.DefaultHeight
		}
		if err := errors.ValidateContainer(w, h); err != nil {
			return err
		}
	}
	if l.BaseSize < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "base_size cannot be negative")
	}
	if l.Gap != nil && *l.Gap < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "gap cannot be negative")
	}
	if l.Looseness != nil {
		if err := errors.ValidateLooseness(*l.Looseness); err != nil {
			return err
		}
	}

	if !slices.Contains([]string{BackendFile, BackendRedis, BackendNone}, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidOption, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "cache ttl cannot be negative")
	}
	return nil
}

// ApplyLayout copies configured layout defaults into opts.
func (c *Config) ApplyLayout(opts *pipeline.Options) {
	l := c.Layout
	if l.Width > 0 {
		opts.Width = l.Width
	}
	if l.Height > 0 {
		opts.Height = l.Height
	}
	if l.BaseSize > 0 {
		opts.BaseSize = l.BaseSize
	}
	if l.Gap != nil {
		opts.Gap = *l.Gap
	}
	if l.Grid {
		opts.Grid = true
	}
	if l.Looseness != nil {
		opts.Looseness = *l.Looseness
	}
}

// CacheDir returns the file cache directory (~/.cache/masonry by default).
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// HistoryDir returns the file history directory
// (~/.local/share/masonry/layouts by default).
func (c *Config) HistoryDir() (string, error) {
	if c.Store.Dir != "" {
		return c.Store.Dir, nil
	}
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, AppName, "layouts"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", AppName, "layouts"), nil
}

func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// expandPaths expands environment variables and a leading ~ in directory
// settings.
func (c *Config) expandPaths() {
	c.Cache.Dir = expandPath(c.Cache.Dir)
	c.Store.Dir = expandPath(c.Store.Dir)
}

func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}
