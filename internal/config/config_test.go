package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Endpoint != "http://localhost:5000/search" {
		t.Errorf("expected endpoint 'http://localhost:5000/search', got '%s'", cfg.Endpoint)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("expected log level 'info', got '%s'", cfg.LogLevel)
	}

	if cfg.Timeout != 0 {
		t.Errorf("expected no timeout, got %v", cfg.TimeoutDuration())
	}
}

func TestConfigSaveLoad(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "pfind-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "nested", "config.json")

	cfg := &Config{
		Endpoint:    "https://people.example.com/search",
		CatalogPath: "/path/to/catalog.yaml",
		Timeout:     Duration(15 * time.Second),
		LogLevel:    "debug",
		path:        path,
	}

	if err := cfg.Save(); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}

	if !strings.Contains(string(raw), `"timeout": "15s"`) {
		t.Errorf("expected timeout to be stored as a duration string, got:\n%s", raw)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Endpoint != cfg.Endpoint {
		t.Errorf("expected endpoint '%s', got '%s'", cfg.Endpoint, loaded.Endpoint)
	}

	if loaded.CatalogPath != cfg.CatalogPath {
		t.Errorf("expected catalog '%s', got '%s'", cfg.CatalogPath, loaded.CatalogPath)
	}

	if loaded.TimeoutDuration() != 15*time.Second {
		t.Errorf("expected timeout 15s, got %v", loaded.TimeoutDuration())
	}

	if loaded.Path() != path {
		t.Errorf("expected path '%s', got '%s'", path, loaded.Path())
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Endpoint != DefaultEndpoint {
		t.Errorf("expected default endpoint, got '%s'", cfg.Endpoint)
	}

	if cfg.Path() != path {
		t.Errorf("expected path to be remembered for Save, got '%s'", cfg.Path())
	}
}

func TestLoadInvalidTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"timeout": "soon"}`), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid timeout")
	}
}

func TestConfigDefaultsApplied(t *testing.T) {
	cfg := &Config{
		CatalogPath: "/catalog.yaml",
	}

	cfg.ApplyDefaults()

	if cfg.Endpoint != DefaultEndpoint {
		t.Errorf("expected default endpoint, got '%s'", cfg.Endpoint)
	}

	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("expected default log level, got '%s'", cfg.LogLevel)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PFIND_ENDPOINT", "http://backend:8080/search")
	t.Setenv("PFIND_CATALOG", "/etc/pfind/catalog.yaml")
	t.Setenv("PFIND_TIMEOUT", "2m")

	cfg := defaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Endpoint != "http://backend:8080/search" {
		t.Errorf("expected endpoint from env, got '%s'", cfg.Endpoint)
	}

	if cfg.CatalogPath != "/etc/pfind/catalog.yaml" {
		t.Errorf("expected catalog from env, got '%s'", cfg.CatalogPath)
	}

	if cfg.TimeoutDuration() != 2*time.Minute {
		t.Errorf("expected timeout 2m, got %v", cfg.TimeoutDuration())
	}

	t.Setenv("PFIND_TIMEOUT", "later")
	if err := cfg.ApplyEnv(); err == nil {
		t.Error("expected error for invalid timeout")
	}
}

func TestLoadEnvFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("PFIND_TEST_ENDPOINT=http://from-dotenv/search\n"), 0600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("PFIND_TEST_ENDPOINT") })

	if err := LoadEnvFiles(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := os.Getenv("PFIND_TEST_ENDPOINT"); got != "http://from-dotenv/search" {
		t.Errorf("expected value from .env, got '%s'", got)
	}
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to be valid, got %v", err)
	}

	cfg = &Config{
		Endpoint:  "ftp://example.com/search",
		HealthURL: "/health",
		Timeout:   Duration(-time.Second),
		LogLevel:  "loud",
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}

	for _, want := range []string{"endpoint", "health_url", "timeout", "log level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got: %v", want, err)
		}
	}
}

func TestDurationJSON(t *testing.T) {
	var cfg Config
	if err := json.Unmarshal([]byte(`{"timeout": ""}`), &cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Timeout != 0 {
		t.Errorf("expected zero timeout, got %v", cfg.TimeoutDuration())
	}

	if err := json.Unmarshal([]byte(`{"timeout": 30}`), &cfg); err == nil {
		t.Error("expected error for numeric timeout")
	}
}
