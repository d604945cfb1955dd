package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knockoff.log")
	log, err := New(Config{Level: "debug", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	log.Debug("node built")
	_ = log.Sync()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "node built") {
		t.Errorf("Expected log line in file, got '%s'", content)
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knockoff.log")
	log, err := New(Config{Level: "warn", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	log.Info("hidden")
	_ = log.Sync()

	content, _ := os.ReadFile(path)
	if strings.Contains(string(content), "hidden") {
		t.Errorf("Expected info to be filtered at warn level")
	}
}
