package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	API       APIConfig       `yaml:"api"`
	Data      DataConfig      `yaml:"data"`
	DevServer DevServerConfig `yaml:"devserver"`
}

type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type DataConfig struct {
	Dir string `yaml:"dir"`
}

type DevServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Timeout returns the HTTP client timeout.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// Default returns the configuration used when no config file exists: the
// local devserver as backend, data under ~/.gymtrack.
func Default() *Config {
	cfg := &Config{
		API:       APIConfig{BaseURL: "http://127.0.0.1:8090", TimeoutSeconds: 30},
		DevServer: DevServerConfig{Host: "127.0.0.1", Port: 8090},
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.Data.Dir = filepath.Join(home, ".gymtrack")
	}
	applyEnvOverrides(cfg)
	return cfg
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix GYMTRACK_:
//
//	GYMTRACK_API_BASE_URL, GYMTRACK_API_TIMEOUT_SECONDS,
//	GYMTRACK_DATA_DIR,
//	GYMTRACK_DEVSERVER_HOST, GYMTRACK_DEVSERVER_PORT
func Load(path string) (*Config, error) {
	cfg := &Config{
		API:       APIConfig{TimeoutSeconds: 30},
		DevServer: DevServerConfig{Host: "127.0.0.1", Port: 8090},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GYMTRACK_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("GYMTRACK_API_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.API.TimeoutSeconds = secs
		}
	}
	if v := os.Getenv("GYMTRACK_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("GYMTRACK_DEVSERVER_HOST"); v != "" {
		cfg.DevServer.Host = v
	}
	if v := os.Getenv("GYMTRACK_DEVSERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.DevServer.Port = port
		}
	}
}

func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout_seconds must be positive")
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}
	return nil
}
