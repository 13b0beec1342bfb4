package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/cache"
	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/pipeline"
	"github.com/matzehuels/masonry/pkg/store"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, BackendFile)
	}
	if cfg.Cache.TTL != cache.DefaultTTL {
		t.Errorf("Cache.TTL = %v, want %v", cfg.Cache.TTL, cache.DefaultTTL)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[layout]
width = 1440
gap = 0
include_grid = true
looseness = 0.5

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/2"
ttl = "36h"
namespace = "staging"

[store]
mongo_uri = "mongodb://localhost:27017"
database = "gallery"

[server]
addr = "127.0.0.1:9000"
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
	if cfg.Layout.Width != 1440 || cfg.Layout.Gap == nil || *cfg.Layout.Gap != 0 || !cfg.Layout.Grid {
		t.Errorf("Layout = %+v", cfg.Layout)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.TTL != 36*time.Hour || cfg.Cache.Namespace != "staging" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Store.Database != "gallery" || cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Store/Server = %+v / %+v", cfg.Store, cfg.Server)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCode errors.Code
		wantText string
	}{
		{"syntax", "[layout\nwidth = 1", errors.ErrCodeInvalidInput, "parse"},
		{"unknown key", "[layout]\ncolumns = 4", errors.ErrCodeInvalidInput, "layout.columns"},
		{"bad backend", "[cache]\nbackend = \"memcached\"", errors.ErrCodeInvalidOption, "memcached"},
		{"negative gap", "[layout]\ngap = -1", errors.ErrCodeInvalidOption, "gap"},
		{"looseness", "[layout]\nlooseness = 4", errors.ErrCodeInvalidOption, "looseness"},
		{"huge container", "[layout]\nwidth = 2e6", errors.ErrCodeInvalidContainer, "too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.content))
			if !errors.Is(err, tt.wantCode) {
				t.Fatalf("LoadFile() error = %v, want code %v", err, tt.wantCode)
			}
			if !strings.Contains(err.Error(), tt.wantText) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantText)
			}
		})
	}
}

func TestLoadLocations(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvConfig, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() without file error = %v", err)
	}
	if cfg.Path() != "" {
		t.Errorf("Path() = %q, want defaults", cfg.Path())
	}

	if err := os.MkdirAll(filepath.Join(dir, AppName), 0755); err != nil {
		t.Fatal(err)
	}
	def := filepath.Join(dir, AppName, "config.toml")
	if err := os.WriteFile(def, []byte("[server]\naddr = \":1\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil || cfg.Server.Addr != ":1" {
		t.Fatalf("Load() = %+v, %v, want the XDG file", cfg, err)
	}

	env := writeConfig(t, "[server]\naddr = \":2\"\n")
	t.Setenv(EnvConfig, env)
	if cfg, err = Load(""); err != nil || cfg.Server.Addr != ":2" {
		t.Fatalf("Load() = %+v, %v, want the %s file", cfg, err, EnvConfig)
	}

	flag := writeConfig(t, "[server]\naddr = \":3\"\n")
	if cfg, err = Load(flag); err != nil || cfg.Server.Addr != ":3" {
		t.Fatalf("Load(flag) = %+v, %v, want the flag file", cfg, err)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("Load() of a missing explicit file succeeded")
	}
}

func TestApplyLayout(t *testing.T) {
	gap := 4.0
	cfg := Default()
	cfg.Layout = LayoutConfig{Width: 800, BaseSize: 120, Gap: &gap, Grid: true}

	opts := pipeline.DefaultOptions()
	cfg.ApplyLayout(&opts)

	if opts.Width != 800 || opts.Height != 0 || opts.BaseSize != 120 || opts.Gap != 4 || !opts.Grid {
		t.Errorf("ApplyLayout() = %+v", opts)
	}
	if opts.Looseness != pipeline.DefaultOptions().Looseness {
		t.Errorf("Looseness = %v, want unchanged default", opts.Looseness)
	}
}

func TestDirs(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	cfg := Default()
	if dir, _ := cfg.CacheDir(); dir != "/tmp/xdg-cache/masonry" {
		t.Errorf("CacheDir() = %q", dir)
	}
	if dir, _ := cfg.HistoryDir(); dir != "/tmp/xdg-data/masonry/layouts" {
		t.Errorf("HistoryDir() = %q", dir)
	}

	t.Setenv("MASONRY_TEST_ROOT", "/srv")
	path := writeConfig(t, "[cache]\ndir = \"$MASONRY_TEST_ROOT/cache\"\n")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if dir, _ := cfg.CacheDir(); dir != "/srv/cache" {
		t.Errorf("CacheDir() = %q, want expanded /srv/cache", dir)
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()
	logger := log.New(os.Stderr)

	cfg := Default()
	cfg.Cache.Dir = t.TempDir()
	c, keyer, err := cfg.OpenCache(ctx, false, logger)
	if err != nil {
		t.Fatalf("OpenCache() error = %v", err)
	}
	defer c.Close()
	if _, ok := c.(*cache.FileCache); !ok {
		t.Errorf("cache = %T, want *cache.FileCache", c)
	}
	if _, ok := keyer.(cache.DefaultKeyer); !ok {
		t.Errorf("keyer = %T, want cache.DefaultKeyer", keyer)
	}

	cfg.Cache.Namespace = "team"
	c, keyer, err = cfg.OpenCache(ctx, true, logger)
	if err != nil {
		t.Fatalf("OpenCache(noCache) error = %v", err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("cache = %T, want *cache.NullCache", c)
	}
	key := keyer.LayoutKey("h", cache.LayoutKeyOpts{})
	if !strings.HasPrefix(key, "team:") {
		t.Errorf("LayoutKey() = %q, want team: prefix", key)
	}

	cfg.Cache.Backend = BackendRedis
	cfg.Cache.RedisAddr = "127.0.0.1:1"
	if _, _, err := cfg.OpenCache(ctx, false, logger); err == nil {
		t.Error("OpenCache(redis) against a closed port succeeded")
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	cfg := Default()
	cfg.Store.Dir = t.TempDir()
	st, err := cfg.OpenStore(ctx, cfg.FileHistory())
	if err != nil {
		t.Fatalf("OpenStore(file) error = %v", err)
	}
	if _, ok := st.(*store.FileStore); !ok {
		t.Errorf("store = %T, want *store.FileStore", st)
	}

	st, err = cfg.OpenStore(ctx, MemoryHistory)
	if err != nil {
		t.Fatalf("OpenStore(memory) error = %v", err)
	}
	if _, ok := st.(*store.MemoryStore); !ok {
		t.Errorf("store = %T, want *store.MemoryStore", st)
	}
}
