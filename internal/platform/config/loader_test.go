package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoader_Load(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "config.yaml")

	configContent := `
server:
  ip: "127.0.0.1"
  port: 8080
  api_key: "test-key"
log:
  log_level: "debug"
  log_dir: "/tmp/logs"
  log_file: "test.log"
detection:
  max_payload_bytes: 1048576
  timeout: 2s
  threshold: 0.5
`

	err := os.WriteFile(configFile, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	loader := NewLoader().WithDotEnv(false).WithPath(configFile)
	result, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	cfg := result.Config
	if cfg.Server.IP != "127.0.0.1" {
		t.Errorf("expected server IP 127.0.0.1, got %s", cfg.Server.IP)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected server port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.APIKey != "test-key" {
		t.Errorf("expected api key test-key, got %s", cfg.Server.APIKey)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Log.Level)
	}
	if cfg.Detection.MaxPayloadBytes != 1048576 {
		t.Errorf("expected max payload 1048576, got %d", cfg.Detection.MaxPayloadBytes)
	}
	if cfg.Detection.Timeout != 2*time.Second {
		t.Errorf("expected timeout 2s, got %s", cfg.Detection.Timeout)
	}
}

func TestLoader_EnvOverrides(t *testing.T) {
	tempDir := t.TempDir()

	t.Setenv("VOICE_API_KEY", "env-key")
	t.Setenv("VOICEGUARD_PORT", "9000")

	loader := NewLoader().WithDotEnv(false).WithPath(filepath.Join(tempDir, "missing.yaml"))
	result, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if result.Config.Server.APIKey != "env-key" {
		t.Errorf("expected api key from env, got %s", result.Config.Server.APIKey)
	}
	if result.Config.Server.Port != 9000 {
		t.Errorf("expected port from env, got %d", result.Config.Server.Port)
	}
	if result.Path != "defaults" {
		t.Errorf("expected defaults origin, got %s", result.Path)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) { c.Server.APIKey = "k" },
			wantErr: false,
		},
		{
			name:    "missing api key",
			mutate:  func(c *Config) {},
			wantErr: true,
		},
		{
			name: "invalid port",
			mutate: func(c *Config) {
				c.Server.APIKey = "k"
				c.Server.Port = -1
			},
			wantErr: true,
		},
		{
			name: "threshold out of range",
			mutate: func(c *Config) {
				c.Server.APIKey = "k"
				c.Detection.Threshold = 1.5
			},
			wantErr: true,
		},
		{
			name: "non-positive payload cap",
			mutate: func(c *Config) {
				c.Server.APIKey = "k"
				c.Detection.MaxPayloadBytes = 0
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
