package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validYAML = `
server:
  host: "0.0.0.0"
  port: 8080
database:
  host: "localhost"
  port: 5432
  name: "ironlog"
  user: "ironlog"
  password: "secret"
  sslmode: "disable"
auth:
  api_key: "test-key-123"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("database.host = %q, want %q", cfg.Database.Host, "localhost")
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("database.port = %d, want 5432", cfg.Database.Port)
	}
	if cfg.Database.Name != "ironlog" {
		t.Errorf("database.name = %q, want %q", cfg.Database.Name, "ironlog")
	}
	if cfg.Auth.APIKey != "test-key-123" {
		t.Errorf("auth.api_key = %q, want %q", cfg.Auth.APIKey, "test-key-123")
	}
}

// TestEnvOverride verifies that IRONLOG_ env vars take precedence over YAML values.
func TestEnvOverride(t *testing.T) {
	t.Setenv("IRONLOG_DB_HOST", "db.internal")
	t.Setenv("IRONLOG_DB_PORT", "5433")
	t.Setenv("IRONLOG_AUTH_API_KEY", "env-key")
	t.Setenv("IRONLOG_SERVER_PORT", "9090")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("database.host = %q, want %q", cfg.Database.Host, "db.internal")
	}
	if cfg.Database.Port != 5433 {
		t.Errorf("database.port = %d, want 5433", cfg.Database.Port)
	}
	if cfg.Auth.APIKey != "env-key" {
		t.Errorf("auth.api_key = %q, want %q", cfg.Auth.APIKey, "env-key")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidation(t *testing.T) {
	cases := []struct {
		name    string
		mangle  func(string) string
		wantErr string
	}{
		{"missing api key", func(y string) string { return strings.ReplaceAll(y, `api_key: "test-key-123"`, `api_key: ""`) }, "api_key"},
		{"missing db host", func(y string) string { return strings.ReplaceAll(y, `host: "localhost"`, `host: ""`) }, "database.host"},
		{"missing server port", func(y string) string { return strings.ReplaceAll(y, "port: 8080", "port: 0") }, "server.port"},
	}
	for _, tc := range cases {
		_, err := Load(writeTemp(t, tc.mangle(validYAML)))
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.wantErr) {
			t.Errorf("%s: error = %v, want mention of %s", tc.name, err, tc.wantErr)
		}
	}
}

// TestTailscaleRelaxesServerPort verifies that a tailnet-only deployment does
// not need a plain listen port.
func TestTailscaleRelaxesServerPort(t *testing.T) {
	yaml := strings.ReplaceAll(validYAML, "port: 8080", "port: 0") + `
tailscale:
  enabled: true
  hostname: "ironlog"
`
	cfg, err := Load(writeTemp(t, yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Tailscale.Enabled {
		t.Error("tailscale.enabled = false, want true")
	}

	// But an enabled tailnet needs a hostname.
	yaml = strings.ReplaceAll(yaml, `hostname: "ironlog"`, `hostname: ""`)
	if _, err := Load(writeTemp(t, yaml)); err == nil {
		t.Fatal("expected error for missing tailscale hostname")
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "localhost", Port: 5432, Name: "ironlog", User: "app", Password: "pw"}
	want := "postgres://app:pw@localhost:5432/ironlog?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}

	d.SSLMode = "require"
	if got := d.DSN(); !strings.HasSuffix(got, "sslmode=require") {
		t.Errorf("DSN() = %q, want sslmode=require suffix", got)
	}
}
