package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeConfig writes content to a temp config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
service:
  name: "taskdeck-test"
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
api:
  host: "0.0.0.0"
  port: 8080
auth:
  secret: "test-secret-key-at-least-32-chars!"
  token_ttl: "30m"
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Service.Name != "taskdeck-test" {
		t.Errorf("Service.Name = %q, want %q", cfg.Service.Name, "taskdeck-test")
	}

	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}

	if got := cfg.TokenTTL(); got != 30*time.Minute {
		t.Errorf("TokenTTL() = %v, want 30m", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	content := `
database:
  path: "/tmp/test.db"
api:
  port: 8080
`
	_, err := Load(writeConfig(t, content))
	if err == nil {
		t.Error("Load() expected error for missing auth.secret, got nil")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	content := `
database:
  path: "/tmp/test.db"
auth:
  secret: "too-short"
`
	_, err := Load(writeConfig(t, content))
	if err == nil {
		t.Error("Load() expected error for short auth.secret, got nil")
	}
}

func TestLoad_InvalidTokenTTL(t *testing.T) {
	content := `
database:
  path: "/tmp/test.db"
auth:
  secret: "test-secret-key-at-least-32-chars!"
  token_ttl: "one hour"
`
	_, err := Load(writeConfig(t, content))
	if err == nil {
		t.Error("Load() expected error for invalid token_ttl, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	content := `
database:
  path: "/tmp/test.db"
auth:
  secret: "file-secret-key-at-least-32-chars!"
`
	t.Setenv("TASKDECK_AUTH_SECRET", "env-secret-key-at-least-32-chars!!")
	t.Setenv("TASKDECK_DATABASE_PATH", "/tmp/override.db")
	t.Setenv("TASKDECK_API_PORT", "9090")

	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Auth.Secret != "env-secret-key-at-least-32-chars!!" {
		t.Errorf("Auth.Secret = %q, want env override", cfg.Auth.Secret)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
	}
}

func TestValidate_RateLimit(t *testing.T) {
	tests := []struct {
		name    string
		rl      RateLimitConfig
		wantErr bool
	}{
		{"disabled ignores values", RateLimitConfig{Enabled: false}, false},
		{"valid", RateLimitConfig{Enabled: true, Requests: 5, WindowS: 60}, false},
		{"zero requests", RateLimitConfig{Enabled: true, Requests: 0, WindowS: 60}, true},
		{"zero window", RateLimitConfig{Enabled: true, Requests: 5, WindowS: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Auth.Secret = "test-secret-key-at-least-32-chars!"
			cfg.Auth.RateLimit = tt.rl

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTokenTTL_Fallback(t *testing.T) {
	cfg := &Config{}
	if got := cfg.TokenTTL(); got != time.Hour {
		t.Errorf("TokenTTL() on empty config = %v, want 1h", got)
	}
}

func TestTimeoutHelpers(t *testing.T) {
	cfg := defaultConfig()
	if got := cfg.GetReadTimeout(); got != 30*time.Second {
		t.Errorf("GetReadTimeout() = %v, want 30s", got)
	}
	if got := cfg.GetIdleTimeout(); got != 60*time.Second {
		t.Errorf("GetIdleTimeout() = %v, want 60s", got)
	}
}
