package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("leetfetch", pflag.ContinueOnError)
	flags.String("config", "", "")
	flags.String("data-dir", "data", "")
	flags.String("output", "output.json", "")
	flags.Int("limit", 0, "")
	if err := flags.Parse(args); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}
	return flags
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newFlags(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DataDir != "data" {
		t.Errorf("Expected default data dir, got %q", cfg.DataDir)
	}
	if cfg.Output != "output.json" {
		t.Errorf("Expected default output, got %q", cfg.Output)
	}
	if cfg.BaseURL != "https://leetcode.com" {
		t.Errorf("Expected default base URL, got %q", cfg.BaseURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Expected default timeout, got %v", cfg.Timeout)
	}
	if cfg.DatabasePath() != filepath.Join("data", "data.db") {
		t.Errorf("Unexpected database path %q", cfg.DatabasePath())
	}
}

func TestLoadFlagOverrides(t *testing.T) {
	cfg, err := Load(newFlags(t, "--data-dir", "elsewhere", "--limit", "5"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DataDir != "elsewhere" {
		t.Errorf("Expected flag to win, got %q", cfg.DataDir)
	}
	if cfg.Limit != 5 {
		t.Errorf("Expected limit 5, got %d", cfg.Limit)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LEETFETCH_OUTPUT", "dump.json")

	cfg, err := Load(newFlags(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Output != "dump.json" {
		t.Errorf("Expected env to override the flag default, got %q", cfg.Output)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leetfetch.yaml")
	if err := os.WriteFile(path, []byte("base_url: https://example.com\ntimeout: 5s\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(newFlags(t, "--config", path))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BaseURL != "https://example.com" {
		t.Errorf("Expected base URL from file, got %q", cfg.BaseURL)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Expected timeout from file, got %v", cfg.Timeout)
	}
}

func TestLoadRejectsBadBaseURL(t *testing.T) {
	t.Setenv("LEETFETCH_BASE_URL", "not a url")

	if _, err := Load(newFlags(t)); err == nil {
		t.Error("Expected validation to reject a malformed base URL")
	}
}
