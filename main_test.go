package main

import (
	"os"
	"path/filepath"
	"testing"

	"fanout/internal/logging"
)

func TestLogManagerInitialization(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	lm, err := logging.NewManager(logging.Config{
		FilePath:   logPath,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
		Level:      "debug",
	})
	if err != nil {
		t.Fatalf("failed to create LogManager: %v", err)
	}
	defer lm.Close()

	logger := lm.For("app")
	logger.Info("test message")

	lm.Sync()

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("log file was not created")
	}
}
