package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lychee-technology/queryc"
)

func TestLoadConfigDefaultsWhenPathEmpty(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.Port != queryc.DefaultConfig().Server.Port {
		t.Fatalf("expected default port, got %q", cfg.Server.Port)
	}
}

func TestLoadConfigOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	writeFile(t, path, `{"server":{"port":"9090"}}`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected overridden port 9090, got %q", cfg.Server.Port)
	}
	// untouched fields keep their defaults
	if cfg.Query.DefaultLimit != queryc.DefaultConfig().Query.DefaultLimit {
		t.Fatalf("expected default query limit preserved")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig("/nonexistent/path/config.json"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadEndpoints(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "endpoints.json")
	writeFile(t, path, `[{"name":"sales","dataset":"orders","default_columns":["region"]}]`)

	endpoints, err := loadEndpoints(path)
	if err != nil {
		t.Fatalf("loadEndpoints: %v", err)
	}
	if len(endpoints) != 1 || endpoints[0].Name != "sales" {
		t.Fatalf("unexpected endpoints: %+v", endpoints)
	}
}

func TestLoadAccelerationsMissingFileIsNotAnError(t *testing.T) {
	if err := loadAccelerations(context.Background(), "/nonexistent/accel.json", nil, nil, queryc.DatabaseConfig{}); err != nil {
		t.Fatalf("expected missing accel file to be a no-op, got %v", err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
