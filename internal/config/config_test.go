package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://gym.example.com
  timeout_seconds: 10
data:
  dir: /tmp/gymtrack-test
devserver:
  host: 0.0.0.0
  port: 9999
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://gym.example.com" {
		t.Errorf("BaseURL = %q, want https://gym.example.com", cfg.API.BaseURL)
	}
	if cfg.API.Timeout() != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.API.Timeout())
	}
	if cfg.Data.Dir != "/tmp/gymtrack-test" {
		t.Errorf("Data.Dir = %q, want /tmp/gymtrack-test", cfg.Data.Dir)
	}
	if cfg.DevServer.Host != "0.0.0.0" || cfg.DevServer.Port != 9999 {
		t.Errorf("DevServer = %s:%d, want 0.0.0.0:9999", cfg.DevServer.Host, cfg.DevServer.Port)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: http://localhost:8090
data:
  dir: /tmp/gymtrack-test
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want default 30", cfg.API.TimeoutSeconds)
	}
	if cfg.DevServer.Host != "127.0.0.1" || cfg.DevServer.Port != 8090 {
		t.Errorf("DevServer = %s:%d, want default 127.0.0.1:8090", cfg.DevServer.Host, cfg.DevServer.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load of missing file succeeded, want error")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load error = %v, want wrapped not-exist", err)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			"missing base url",
			"data:\n  dir: /tmp/x\n",
			"base_url",
		},
		{
			"zero timeout",
			"api:\n  base_url: http://x\n  timeout_seconds: 0\ndata:\n  dir: /tmp/x\n",
			"timeout_seconds",
		},
		{
			"missing data dir",
			"api:\n  base_url: http://x\n",
			"data.dir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			if err == nil {
				t.Fatal("Load succeeded, want validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: http://from-file
data:
  dir: /tmp/from-file
`)

	t.Setenv("GYMTRACK_API_BASE_URL", "http://from-env")
	t.Setenv("GYMTRACK_API_TIMEOUT_SECONDS", "5")
	t.Setenv("GYMTRACK_DATA_DIR", "/tmp/from-env")
	t.Setenv("GYMTRACK_DEVSERVER_PORT", "7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://from-env" {
		t.Errorf("BaseURL = %q, want env override", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSeconds != 5 {
		t.Errorf("TimeoutSeconds = %d, want 5", cfg.API.TimeoutSeconds)
	}
	if cfg.Data.Dir != "/tmp/from-env" {
		t.Errorf("Data.Dir = %q, want env override", cfg.Data.Dir)
	}
	if cfg.DevServer.Port != 7070 {
		t.Errorf("DevServer.Port = %d, want 7070", cfg.DevServer.Port)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.API.BaseURL == "" {
		t.Error("Default BaseURL is empty")
	}
	if cfg.API.TimeoutSeconds <= 0 {
		t.Errorf("Default TimeoutSeconds = %d, want positive", cfg.API.TimeoutSeconds)
	}
	if cfg.Data.Dir == "" {
		t.Error("Default Data.Dir is empty")
	}
}
