package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("APP_PORT", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != StorageFile {
		t.Fatalf("expected default driver %s got %s", StorageFile, cfg.Storage.Driver)
	}
	if cfg.App.Addr() != "127.0.0.1:3000" {
		t.Fatalf("unexpected addr %s", cfg.App.Addr())
	}
	if cfg.Backend.BaseURL != "http://localhost:8081" {
		t.Fatalf("unexpected backend url %s", cfg.Backend.BaseURL)
	}
	if cfg.Concierge.MaxUploadBytes() != 10<<20 {
		t.Fatalf("unexpected upload limit %d", cfg.Concierge.MaxUploadBytes())
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("BACKEND_TIMEOUT_SECONDS", "")
	os.Unsetenv("STORAGE_DRIVER")
	os.Unsetenv("BACKEND_TIMEOUT_SECONDS")

	path := filepath.Join(t.TempDir(), "portal.env")
	body := "STORAGE_DRIVER=memory\nBACKEND_TIMEOUT_SECONDS=3\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != StorageMemory {
		t.Fatalf("expected memory driver got %s", cfg.Storage.Driver)
	}
	if cfg.Backend.Timeout() != 3*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.Backend.Timeout())
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"file ok", func(c *Config) {}, false},
		{"postgres without dsn", func(c *Config) { c.Storage.Driver = StoragePostgres }, true},
		{"postgres with dsn", func(c *Config) {
			c.Storage.Driver = StoragePostgres
			c.Postgres.DSN = "postgres://localhost/portal"
		}, false},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "cookie" }, true},
		{"empty origin", func(c *Config) { c.Storage.Origin = "" }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{Storage: StorageConfig{Driver: StorageFile, Origin: "http://kiosk"}}
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
