package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"voiceguard-server-go/internal/platform/errors"
)

const (
	envConfigPath = "VOICEGUARD_CONFIG"
	envAPIKey     = "VOICE_API_KEY"
	envPort       = "VOICEGUARD_PORT"
	envLogLevel   = "VOICEGUARD_LOG_LEVEL"
)

// Loader reads configuration from an optional yaml file with environment
// overrides layered on top.
type Loader struct {
	useDotEnv bool
	path      string
}

// NewLoader creates a loader that reads ./config.yaml by default.
func NewLoader() *Loader {
	return &Loader{
		useDotEnv: true,
		path:      "config.yaml",
	}
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// WithPath overrides the configuration file path (useful for tests).
func (l *Loader) WithPath(path string) *Loader {
	if path != "" {
		l.path = path
	}
	return l
}

// Result captures the loaded configuration and its origin.
type Result struct {
	Config *Config
	Path   string
}

// Load reads the yaml file when present, falls back to defaults otherwise,
// applies env overrides, and validates the outcome.
func (l *Loader) Load() (*Result, error) {
	if l.useDotEnv {
		if err := godotenv.Load(); err != nil {
			fmt.Println("no .env file found, using system environment")
		}
	}

	path := l.path
	if envPath := os.Getenv(envConfigPath); envPath != "" {
		path = envPath
	}

	cfg := DefaultConfig()
	origin := "defaults"

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.KindConfig, "config.load", "failed to parse config file", err)
		}
		origin = path
	case os.IsNotExist(err):
		// defaults + env only
	default:
		return nil, errors.Wrap(errors.KindConfig, "config.load", "failed to read config file", err)
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return &Result{
		Config: cfg,
		Path:   origin,
	}, nil
}

func applyEnvOverrides(cfg *Config) {
	if key := os.Getenv(envAPIKey); key != "" {
		cfg.Server.APIKey = key
	}
	if port := os.Getenv(envPort); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if level := os.Getenv(envLogLevel); level != "" {
		cfg.Log.Level = level
	}
}

// Validate rejects configurations the server cannot safely run with.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.KindConfig, "config.validate", "config is nil")
	}
	if cfg.Server.APIKey == "" {
		return errors.New(errors.KindConfig, "config.validate",
			"API key is not set (set VOICE_API_KEY or server.api_key)")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return errors.New(errors.KindConfig, "config.validate",
			fmt.Sprintf("invalid server port: %d", cfg.Server.Port))
	}
	if cfg.Detection.MaxPayloadBytes <= 0 {
		return errors.New(errors.KindConfig, "config.validate",
			"detection.max_payload_bytes must be positive")
	}
	if cfg.Detection.Threshold < 0 || cfg.Detection.Threshold > 1 {
		return errors.New(errors.KindConfig, "config.validate",
			fmt.Sprintf("detection.threshold must be in [0,1]: %f", cfg.Detection.Threshold))
	}
	if cfg.Detection.Timeout <= 0 {
		return errors.New(errors.KindConfig, "config.validate",
			"detection.timeout must be positive")
	}
	return nil
}
