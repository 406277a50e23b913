package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iwvelando/mortgage-affordability/pkg/constants"
)

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address == "" {
		t.Fatalf("expected default address, got empty")
	}
	if cfg.UploadSizeBytes() <= 0 {
		t.Fatalf("expected positive default max upload size, got %d", cfg.UploadSizeBytes())
	}
	if cfg.Logging.Level != "" || cfg.Logging.Format != "" || cfg.Logging.OutputFile != "" {
		t.Fatalf("expected empty logging defaults, got %+v", cfg.Logging)
	}
	if cfg.CacheTTL() != 10*time.Minute {
		t.Fatalf("expected default cache ttl of 10m, got %s", cfg.CacheTTL())
	}
	if cfg.Cache.MaxEntries != constants.DefaultCacheMaxEntries {
		t.Fatalf("expected default cache maxEntries, got %d", cfg.Cache.MaxEntries)
	}
	if cfg.Cache.Redis.Address != "" {
		t.Fatalf("expected in-memory cache by default, got redis at %s", cfg.Cache.Redis.Address)
	}
	if cfg.Tracing.ServiceName != constants.DefaultServiceName {
		t.Fatalf("expected default service name, got %q", cfg.Tracing.ServiceName)
	}
	if cfg.Tracing.Endpoint != "" {
		t.Fatalf("expected tracing export disabled by default, got %q", cfg.Tracing.Endpoint)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server-config.yaml")

	contents := []byte(`address: 127.0.0.1:9000
maxUploadSize: 2M
logging:
  level: debug
  format: console
  outputFile: /tmp/server.log
cache:
  ttl: 90s
  maxEntries: 50
  redis:
    address: localhost:6379
    db: 2
tracing:
  endpoint: localhost:4318
  insecure: true
`)
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != "127.0.0.1:9000" {
		t.Fatalf("expected address override, got %s", cfg.Address)
	}
	if cfg.UploadSizeBytes() != 2*1024*1024 {
		t.Fatalf("expected max upload override, got %d", cfg.UploadSizeBytes())
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected logging format console, got %s", cfg.Logging.Format)
	}
	if cfg.Logging.OutputFile != "/tmp/server.log" {
		t.Fatalf("expected logging outputFile /tmp/server.log, got %s", cfg.Logging.OutputFile)
	}
	if cfg.CacheTTL() != 90*time.Second {
		t.Fatalf("expected cache ttl 90s, got %s", cfg.CacheTTL())
	}
	if cfg.Cache.MaxEntries != 50 {
		t.Fatalf("expected cache maxEntries 50, got %d", cfg.Cache.MaxEntries)
	}
	if cfg.Cache.Redis.Address != "localhost:6379" || cfg.Cache.Redis.DB != 2 {
		t.Fatalf("expected redis override, got %+v", cfg.Cache.Redis)
	}
	if cfg.Tracing.Endpoint != "localhost:4318" || !cfg.Tracing.Insecure {
		t.Fatalf("expected tracing override, got %+v", cfg.Tracing)
	}
	if cfg.Tracing.ServiceName != constants.DefaultServiceName {
		t.Fatalf("expected service name to default, got %q", cfg.Tracing.ServiceName)
	}
}

func TestLoadConfigUnboundedCacheFallsBackToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server-config.yaml")
	if err := os.WriteFile(path, []byte("cache:\n  maxEntries: 0\n"), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Cache.MaxEntries != constants.DefaultCacheMaxEntries {
		t.Fatalf("expected maxEntries to default to %d, got %d", constants.DefaultCacheMaxEntries, cfg.Cache.MaxEntries)
	}
}

func TestLoadConfigInvalidCacheTTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server-config.yaml")
	if err := os.WriteFile(path, []byte("cache:\n  ttl: soon\n"), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid cache ttl")
	}
}

func TestLoadConfigInvalidYaml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")

	if err := os.WriteFile(path, []byte("maxUploadSize: invalid"), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid YAML but got nil")
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"":          constants.DefaultMaxUploadSizeBytes,
		"1024":      1024,
		"512b":      512,
		"256K":      256 * 1024,
		"1m":        1024 * 1024,
		"3MB":       3 * 1024 * 1024,
		"2G":        2 * 1024 * 1024 * 1024,
		"  4096   ": 4096,
	}

	for input, expected := range tests {
		got, err := ParseSize(input)
		if err != nil {
			t.Fatalf("parseSize(%q) returned error: %v", input, err)
		}
		if got != expected {
			t.Fatalf("parseSize(%q) = %d, expected %d", input, got, expected)
		}
	}

	if _, err := ParseSize("1TB"); err == nil {
		t.Fatal("expected error for unsupported unit")
	}
	if _, err := ParseSize("abc"); err == nil {
		t.Fatal("expected error for invalid number")
	}
}

func TestLoadConfigExample(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "server-config.yaml.example"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Address != ":8080" {
		t.Fatalf("expected :8080, got %s", cfg.Address)
	}
	if cfg.UploadSizeBytes() != constants.DefaultMaxUploadSizeBytes {
		t.Fatalf("expected default upload size, got %d", cfg.UploadSizeBytes())
	}
	if cfg.CacheTTL() != 10*time.Minute {
		t.Fatalf("expected 10m cache ttl, got %s", cfg.CacheTTL())
	}
}
