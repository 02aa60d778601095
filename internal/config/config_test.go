package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

// isolate clears SV_* variables that would leak in from the environment.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, kv := range os.Environ() {
		if name, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(name, "SV_") {
			t.Setenv(name, "")
			if err := os.Unsetenv(name); err != nil {
				t.Fatalf("unset %s: %v", name, err)
			}
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Port)
	}
	if cfg.Storage != "sqlite" {
		t.Errorf("storage = %q, want sqlite", cfg.Storage)
	}
	if cfg.StaffPassword != "admin123" {
		t.Errorf("staff_password = %q, want admin123", cfg.StaffPassword)
	}
	if cfg.SessionCleanup != "@hourly" {
		t.Errorf("session_cleanup = %q, want @hourly", cfg.SessionCleanup)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("base_url = %q", cfg.BaseURL)
	}
	if cfg.RegistrationURL != "http://localhost:8080/" {
		t.Errorf("registration_url = %q", cfg.RegistrationURL)
	}
	if !strings.HasSuffix(cfg.DBPath, filepath.Join(".smartvisit", "smartvisit.db")) {
		t.Errorf("db_path = %q", cfg.DBPath)
	}
	if cfg.LLM.Enabled() {
		t.Error("llm should be disabled without an api key")
	}
	if cfg.LLM.Model != "claude-3-5-haiku-latest" {
		t.Errorf("llm.model = %q", cfg.LLM.Model)
	}
}

func TestLoadFromYAML(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	path := writeYAML(t, dir, `
port: 9090
storage: file
storage_path: `+filepath.Join(dir, "slots")+`
staff_password: s3cret
base_url: https://visit.example.com/
log_level: debug
llm:
  api_key: sk-test
  model: claude-test
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Port)
	}
	if cfg.Storage != "file" {
		t.Errorf("storage = %q, want file", cfg.Storage)
	}
	if cfg.StaffPassword != "s3cret" {
		t.Errorf("staff_password = %q", cfg.StaffPassword)
	}
	if cfg.BaseURL != "https://visit.example.com" {
		t.Errorf("base_url = %q, want trailing slash trimmed", cfg.BaseURL)
	}
	if cfg.RegistrationURL != "https://visit.example.com/" {
		t.Errorf("registration_url = %q", cfg.RegistrationURL)
	}
	if !cfg.LLM.Enabled() || cfg.LLM.Model != "claude-test" {
		t.Errorf("llm = %+v", cfg.LLM)
	}
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	isolate(t)
	path := writeYAML(t, t.TempDir(), "port: 9090\nstaff_password: fromfile\n")

	t.Setenv("SV_PORT", "7070")
	t.Setenv("SV_STAFF_PASSWORD", "fromenv")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 7070 {
		t.Errorf("port = %d, want 7070", cfg.Port)
	}
	if cfg.StaffPassword != "fromenv" {
		t.Errorf("staff_password = %q, want fromenv", cfg.StaffPassword)
	}
}

func TestLoadConfigFromEnvPath(t *testing.T) {
	isolate(t)
	path := writeYAML(t, t.TempDir(), "port: 6060\n")
	t.Setenv("SV_CONFIG", path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 6060 {
		t.Errorf("port = %d, want 6060", cfg.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	isolate(t)

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:           8080,
			DBPath:         "/tmp/sv.db",
			Storage:        "sqlite",
			StaffPassword:  "admin123",
			LogLevel:       "info",
			SessionCleanup: "@hourly",
			LLM:            LLMConfig{Model: "m"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Port = 0 }, "port"},
		{"unknown storage", func(c *Config) { c.Storage = "redis" }, "storage"},
		{"file without path", func(c *Config) { c.Storage = "file" }, "storage_path"},
		{"bolt with path", func(c *Config) { c.Storage = "BOLT"; c.StoragePath = "/tmp/sv.bolt" }, ""},
		{"empty password", func(c *Config) { c.StaffPassword = "" }, "staff_password"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "log_level"},
		{"bad base url", func(c *Config) { c.BaseURL = "ftp://example.com" }, "base_url"},
		{"bad registration url", func(c *Config) { c.RegistrationURL = "visit.example.com" }, "registration_url"},
		{"llm key without model", func(c *Config) { c.LLM = LLMConfig{APIKey: "k"} }, "llm.model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
