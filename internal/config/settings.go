package config

import (
	"path/filepath"

	"fyne.io/fyne/v2"

	"github.com/ytget/yt-grabber/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeySaveDir            = "save_directory"
	KeyMaxConcurrent      = "max_concurrent_downloads"
	KeySubtitleLang       = "default_subtitle_language"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
	KeyHistoryDBPath      = "history_db_path"
)

// Default values
const (
	DefaultMaxConcurrent      = 2
	DefaultAutoRevealComplete = true
	HistoryDBFilename         = "history.db"
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetSaveDirectory returns the configured download directory
func (s *Settings) GetSaveDirectory() string {
	dir := s.app.Preferences().String(KeySaveDir)
	if dir == "" {
		// Use system default Downloads directory
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = "/tmp/downloads"
		}
		s.SetSaveDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetSaveDirectory sets the download directory
func (s *Settings) SetSaveDirectory(dir string) {
	s.app.Preferences().SetString(KeySaveDir, dir)
}

// GetMaxConcurrentDownloads returns the maximum number of simultaneous downloads
func (s *Settings) GetMaxConcurrentDownloads() int {
	value := s.app.Preferences().Int(KeyMaxConcurrent)
	if value <= 0 {
		s.SetMaxConcurrentDownloads(DefaultMaxConcurrent)
		return DefaultMaxConcurrent
	}
	return value
}

// SetMaxConcurrentDownloads sets the maximum number of simultaneous downloads
func (s *Settings) SetMaxConcurrentDownloads(count int) {
	if count < 1 {
		count = 1
	}
	if count > 10 {
		count = 10
	}
	s.app.Preferences().SetInt(KeyMaxConcurrent, count)
}

// GetDefaultSubtitleLanguage returns the preselected subtitle language.
// An empty value means subtitles are off by default.
func (s *Settings) GetDefaultSubtitleLanguage() string {
	return s.app.Preferences().String(KeySubtitleLang)
}

// SetDefaultSubtitleLanguage sets the preselected subtitle language
func (s *Settings) SetDefaultSubtitleLanguage(lang string) {
	s.app.Preferences().SetString(KeySubtitleLang, lang)
}

// GetAutoRevealOnComplete returns whether to auto-reveal completed downloads
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

// SetAutoRevealOnComplete sets whether to auto-reveal completed downloads
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealComplete, autoReveal)
}

// GetHistoryDBPath returns the path of the download history database
func (s *Settings) GetHistoryDBPath() string {
	path := s.app.Preferences().String(KeyHistoryDBPath)
	if path == "" {
		path = filepath.Join(s.app.Storage().RootURI().Path(), HistoryDBFilename)
		s.SetHistoryDBPath(path)
	}
	return path
}

// SetHistoryDBPath sets the path of the download history database
func (s *Settings) SetHistoryDBPath(path string) {
	s.app.Preferences().SetString(KeyHistoryDBPath, path)
}
