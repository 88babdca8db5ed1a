package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()

	logger, err := New(Config{
		Level:    "debug",
		Dir:      tmpDir,
		Filename: "test.log",
	})

	assert.NoError(t, err)
	assert.NotNil(t, logger)

	err = logger.Close()
	assert.NoError(t, err)
}

func TestNew_DefaultFilename(t *testing.T) {
	tmpDir := t.TempDir()

	logger, err := New(Config{
		Dir: tmpDir,
	})

	assert.NoError(t, err)
	assert.NotNil(t, logger)
	defer logger.Close()

	_, err = os.Stat(filepath.Join(tmpDir, "server.log"))
	assert.NoError(t, err)
}

func TestLogger_Info(t *testing.T) {
	tmpDir := t.TempDir()

	logger, err := New(Config{
		Level:    "info",
		Dir:      tmpDir,
		Filename: "info.log",
	})
	require.NoError(t, err)
	defer logger.Close()

	testMsg := "detection pipeline ready"
	logger.Info("%s", testMsg)

	time.Sleep(10 * time.Millisecond)

	content, err := os.ReadFile(filepath.Join(tmpDir, "info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(content), testMsg)
}

func TestLogger_InfoTag(t *testing.T) {
	tmpDir := t.TempDir()

	logger, err := New(Config{
		Level:    "info",
		Dir:      tmpDir,
		Filename: "tagged.log",
	})
	require.NoError(t, err)
	defer logger.Close()

	logger.InfoTag("DETECT", "classified request as %s", "AI_GENERATED")

	time.Sleep(10 * time.Millisecond)

	content, err := os.ReadFile(filepath.Join(tmpDir, "tagged.log"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "[DETECT] classified request as AI_GENERATED")
}

func TestLogger_DebugSuppressedAtInfoLevel(t *testing.T) {
	tmpDir := t.TempDir()

	logger, err := New(Config{
		Level:    "info",
		Dir:      tmpDir,
		Filename: "level.log",
	})
	require.NoError(t, err)
	defer logger.Close()

	logger.Debug("this should not appear")

	time.Sleep(10 * time.Millisecond)

	content, err := os.ReadFile(filepath.Join(tmpDir, "level.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(content), "this should not appear")
}

func TestFormatLog(t *testing.T) {
	assert.Equal(t, "[BOOT] service started", FormatLog("BOOT", "service started"))
	assert.Equal(t, "[HTTP] already tagged", FormatLog("BOOT", "[HTTP] already tagged"))
	assert.Equal(t, "bare message", FormatLog("", "bare message"))
}
