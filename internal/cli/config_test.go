package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() = %v", err)
	}
	if cfg.Addr != "localhost:8412" {
		t.Errorf("addr = %q, want default", cfg.Addr)
	}
	if cfg.Store.Backend != "file" {
		t.Errorf("backend = %q, want file", cfg.Store.Backend)
	}
}

func TestLoadConfigLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "addr = \"0.0.0.0:9000\"\n\n[store]\nbackend = \"memory\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() = %v", err)
	}
	if cfg.Addr != "0.0.0.0:9000" {
		t.Errorf("addr = %q, want overridden", cfg.Addr)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("backend = %q, want memory", cfg.Store.Backend)
	}
	// Untouched fields keep their defaults.
	if cfg.Store.Database != "nodeloom" {
		t.Errorf("database = %q, want default", cfg.Store.Database)
	}
}

func TestLoadConfigMissingExplicitPath(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("loadConfig() should fail for a missing explicit path")
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	s, err := openStore(ctx, StoreConfig{Backend: "memory"})
	if err != nil || s == nil {
		t.Fatalf("openStore(memory) = %v, %v", s, err)
	}

	s, err = openStore(ctx, StoreConfig{Backend: "file", Dir: t.TempDir()})
	if err != nil || s == nil {
		t.Fatalf("openStore(file) = %v, %v", s, err)
	}

	if _, err := openStore(ctx, StoreConfig{Backend: "bogus"}); err == nil {
		t.Fatal("openStore(bogus) should fail")
	}
}
