package config

import "time"

// DefaultConfig returns the built-in configuration used when no config file
// is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			IP:        "0.0.0.0",
			Port:      8000,
			APIKey:    "",
			StaticDir: "./web",
		},
		Log: LogConfig{
			Level: "info",
			Dir:   "data/logs",
			File:  "server.log",
		},
		Detection: DetectionConfig{
			MaxPayloadBytes: 10 * 1024 * 1024,
			Timeout:         5 * time.Second,
			Threshold:       0.5,
			FetchTimeout:    15 * time.Second,
		},
		Storage: StorageConfig{
			Enabled: true,
			Dir:     "./data",
			File:    "voiceguard.db",
		},
	}
}
