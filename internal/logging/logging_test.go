package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, test := range tests {
		if got := parseLevel(test.input); got != test.expected {
			t.Errorf("parseLevel(%q) = %v, expected %v", test.input, got, test.expected)
		}
	}
}

func TestInitWritesToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, err := Init(Options{File: logFile, Level: "debug"})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	logger.Info("startup", "component", "test")

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "startup") {
		t.Errorf("Expected log file to contain message, got %q", string(data))
	}
}

func TestInitWithoutFile(t *testing.T) {
	logger, err := Init(Options{})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if logger == nil {
		t.Fatal("Expected non-nil logger")
	}
}
