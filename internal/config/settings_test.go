package config

import (
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
}

func TestSaveDirectory(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	dir := settings.GetSaveDirectory()
	if dir == "" {
		t.Error("Save directory should not be empty")
	}

	// Test setting custom value
	customDir := "/custom/downloads"
	settings.SetSaveDirectory(customDir)

	retrievedDir := settings.GetSaveDirectory()
	if retrievedDir != customDir {
		t.Errorf("Expected save directory %s, got %s", customDir, retrievedDir)
	}
}

func TestMaxConcurrentDownloads(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	maxConcurrent := settings.GetMaxConcurrentDownloads()
	if maxConcurrent != DefaultMaxConcurrent {
		t.Errorf("Expected default max concurrent %d, got %d", DefaultMaxConcurrent, maxConcurrent)
	}

	// Test setting custom value
	settings.SetMaxConcurrentDownloads(5)

	retrievedMax := settings.GetMaxConcurrentDownloads()
	if retrievedMax != 5 {
		t.Errorf("Expected max concurrent 5, got %d", retrievedMax)
	}

	// Test boundary values
	settings.SetMaxConcurrentDownloads(0) // Should be clamped to 1
	if settings.GetMaxConcurrentDownloads() != 1 {
		t.Error("Max concurrent should be clamped to minimum 1")
	}

	settings.SetMaxConcurrentDownloads(15) // Should be clamped to 10
	if settings.GetMaxConcurrentDownloads() != 10 {
		t.Error("Max concurrent should be clamped to maximum 10")
	}
}

func TestDefaultSubtitleLanguage(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Empty means subtitles off
	if lang := settings.GetDefaultSubtitleLanguage(); lang != "" {
		t.Errorf("Expected empty default subtitle language, got %s", lang)
	}

	settings.SetDefaultSubtitleLanguage("en")
	if lang := settings.GetDefaultSubtitleLanguage(); lang != "en" {
		t.Errorf("Expected subtitle language 'en', got %s", lang)
	}
}

func TestAutoRevealOnComplete(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if !settings.GetAutoRevealOnComplete() {
		t.Error("Auto reveal should default to true")
	}

	settings.SetAutoRevealOnComplete(false)
	if settings.GetAutoRevealOnComplete() {
		t.Error("Expected auto reveal to be disabled")
	}
}

func TestHistoryDBPath(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	customPath := "/custom/history.db"
	settings.SetHistoryDBPath(customPath)

	if path := settings.GetHistoryDBPath(); path != customPath {
		t.Errorf("Expected history DB path %s, got %s", customPath, path)
	}
}
