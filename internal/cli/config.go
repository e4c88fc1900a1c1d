package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/mhalter/nodeloom/pkg/store"
)

// Config is the TOML configuration consumed by the serve command. Every
// field has a working default so a missing config file is not an error.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `toml:"addr"`

	Store StoreConfig `toml:"store"`
}

// StoreConfig selects and parameterizes the document store backend.
type StoreConfig struct {
	// Backend is one of "memory", "file", "redis", or "mongo".
	Backend string `toml:"backend"`

	// Dir is the document directory for the file backend.
	Dir string `toml:"dir"`

	// URL is the connection URL for the redis backend.
	URL string `toml:"url"`

	// URI and Database configure the mongo backend.
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// defaultConfig returns the configuration used when no file is present:
// file-backed storage under the user config directory.
func defaultConfig() Config {
	dir := "nodeloom"
	if base, err := os.UserConfigDir(); err == nil {
		dir = filepath.Join(base, "nodeloom", "documents")
	}
	return Config{
		Addr: "localhost:8412",
		Store: StoreConfig{
			Backend:  "file",
			Dir:      dir,
			Database: "nodeloom",
		},
	}
}

// loadConfig reads a TOML config file, layering it over the defaults. An
// empty path means defaults only; a missing file at an explicit path is an
// error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// openStore constructs the configured store backend.
func openStore(ctx context.Context, cfg StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case "", "file":
		return store.NewFile(cfg.Dir)
	case "memory":
		return store.NewMemory(), nil
	case "redis":
		return store.NewRedis(ctx, cfg.URL)
	case "mongo":
		return store.NewMongo(ctx, cfg.URI, cfg.Database)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}
