// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, defaults, and duration parsing

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "comanda.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
store:
  path: "./restaurante.json"
  debounce: "500ms"

server:
  local_addr: "127.0.0.1:9090"
  lan_addr: "0.0.0.0:9091"
  lan_enabled: true
  auth_secret: "shared-secret"

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Store.Path != "./restaurante.json" {
		t.Errorf("Store.Path = %q, want %q", cfg.Store.Path, "./restaurante.json")
	}
	if cfg.Store.Debounce != 500*time.Millisecond {
		t.Errorf("Store.Debounce = %v, want 500ms", cfg.Store.Debounce)
	}
	if cfg.Server.LocalAddr != "127.0.0.1:9090" {
		t.Errorf("Server.LocalAddr = %q, want %q", cfg.Server.LocalAddr, "127.0.0.1:9090")
	}
	if !cfg.Server.LANEnabled {
		t.Error("Server.LANEnabled = false, want true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
store:
  path: "./restaurante.json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.LocalAddr != DefaultLocalAddr {
		t.Errorf("Server.LocalAddr = %q, want default %q", cfg.Server.LocalAddr, DefaultLocalAddr)
	}
	if cfg.Store.Debounce != DefaultDebounce {
		t.Errorf("Store.Debounce = %v, want default %v", cfg.Store.Debounce, DefaultDebounce)
	}
	if cfg.Client.Timeout != DefaultTimeout {
		t.Errorf("Client.Timeout = %v, want default %v", cfg.Client.Timeout, DefaultTimeout)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("COMANDA_TEST_SECRET", "from-env")

	path := writeConfig(t, `
store:
  path: "./restaurante.json"
server:
  auth_secret: "${COMANDA_TEST_SECRET}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.AuthSecret != "from-env" {
		t.Errorf("Server.AuthSecret = %q, want %q", cfg.Server.AuthSecret, "from-env")
	}
}

func TestLoad_MissingStorePath(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: "info"
`)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "store.path") {
		t.Fatalf("Load() error = %v, want store.path validation failure", err)
	}
}

func TestLoad_ClientModeRequiresServerURL(t *testing.T) {
	path := writeConfig(t, `
client:
  enabled: true
`)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "client.server_url") {
		t.Fatalf("Load() error = %v, want client.server_url validation failure", err)
	}
}

func TestLoad_ClientModeNeedsNoStorePath(t *testing.T) {
	path := writeConfig(t, `
client:
  enabled: true
  server_url: "http://192.168.1.10:4781"
  timeout: "3s"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Client.Timeout != 3*time.Second {
		t.Errorf("Client.Timeout = %v, want 3s", cfg.Client.Timeout)
	}
}

func TestLoad_BadDuration(t *testing.T) {
	path := writeConfig(t, `
store:
  path: "./restaurante.json"
  debounce: "two seconds"
`)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "store.debounce") {
		t.Fatalf("Load() error = %v, want debounce parse failure", err)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load() on missing file should fail")
	}
}
