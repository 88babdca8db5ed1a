package config

import (
	"time"
)

// Config is the process-wide static configuration. It is loaded once at
// startup and read-only afterwards.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Detection DetectionConfig `yaml:"detection"`
	Storage   StorageConfig   `yaml:"storage"`
}

type ServerConfig struct {
	IP        string `yaml:"ip"`
	Port      int    `yaml:"port"`
	APIKey    string `yaml:"api_key"`
	StaticDir string `yaml:"static_dir"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

// DetectionConfig holds the engine limits and decision thresholds.
type DetectionConfig struct {
	MaxPayloadBytes int64         `yaml:"max_payload_bytes"`
	Timeout         time.Duration `yaml:"timeout"`
	Threshold       float64       `yaml:"threshold"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout"`
}

type StorageConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	File    string `yaml:"file"`
}
