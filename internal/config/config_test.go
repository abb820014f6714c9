package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/freema/daysync/internal/viewer"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "daysync.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "{}\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 5173 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("cache ttl = %s", cfg.Cache.TTL)
	}
	if got := cfg.Docs.Viewer(); got != viewer.Defaults() {
		t.Errorf("docs viewer config = %+v, want defaults", got)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeFile(t, `
server:
  port: 9000
cache:
  ttl: 30s
docs:
  doc_expansion: none
upstream:
  weather_api_key: from-file
`)
	t.Setenv("DAYSYNC_SERVER__PORT", "9100")
	t.Setenv("DAYSYNC_UPSTREAM__GNEWS_API_KEY", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("env should override file port, got %d", cfg.Server.Port)
	}
	if cfg.Cache.TTL != 30*time.Second {
		t.Errorf("cache ttl = %s", cfg.Cache.TTL)
	}
	if cfg.Docs.DocExpansion != "none" {
		t.Errorf("doc expansion = %q", cfg.Docs.DocExpansion)
	}
	if cfg.Upstream.WeatherAPIKey != "from-file" {
		t.Errorf("weather key = %q", cfg.Upstream.WeatherAPIKey)
	}
	if cfg.Upstream.GNewsAPIKey != "from-env" {
		t.Errorf("gnews key = %q", cfg.Upstream.GNewsAPIKey)
	}
}

func TestLoad_LegacyEnv(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "legacy")

	cfg, err := Load(writeFile(t, "{}\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Upstream.WeatherAPIKey != "legacy" {
		t.Errorf("weather key = %q", cfg.Upstream.WeatherAPIKey)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad expansion": "docs:\n  doc_expansion: sometimes\n",
		"bad port":      "server:\n  port: 70000\n",
		"empty storage": "storage:\n  path: \"\"\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeFile(t, body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for explicit missing file")
	}
}
