package testing

import (
	"testing"

	"voiceguard-server-go/internal/platform/config"
	"voiceguard-server-go/internal/platform/logging"
)

// SetupTestConfig returns a config suitable for unit tests: defaults plus a
// fixed API key and a throwaway log directory.
func SetupTestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Server.IP = "127.0.0.1"
	cfg.Server.APIKey = "test-api-key"
	cfg.Log.Level = "error"
	cfg.Log.Dir = t.TempDir()
	cfg.Storage.Enabled = false

	return cfg
}

// SetupTestLogger builds a logger writing into a test-scoped directory.
func SetupTestLogger(t *testing.T) *logging.Logger {
	t.Helper()

	cfg := SetupTestConfig(t)
	logger, err := logging.New(logging.Config{
		Level:    cfg.Log.Level,
		Dir:      cfg.Log.Dir,
		Filename: cfg.Log.File,
	})
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	t.Cleanup(func() { logger.Close() })

	return logger
}
