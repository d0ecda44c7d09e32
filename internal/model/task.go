package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DownloadTask represents a single download request and its mutable state.
// A task is created in StatusWaiting and moves through the status machine
// driven by the download manager; see TaskStatus for the transitions.
type DownloadTask struct {
	ID           string
	URL          string
	VideoFormat  string // format selector, interpreted by the fetcher
	AudioFormat  string
	SubtitleLang string // empty means no subtitle download
	SaveDir      string
	Status       TaskStatus
	Progress     float64 // 0.0 to 100.0
	Speed        string  // human readable speed (e.g., "1.2 MB/s")
	Title        string  // video title, set once metadata resolves
	LastError    string  // last error message if any
	OutputPath   string  // path to downloaded file
	CreatedAt    time.Time
}

// NewDownloadTask creates a task in StatusWaiting with a fresh id.
func NewDownloadTask(url, videoFormat, audioFormat, subtitleLang, saveDir string) *DownloadTask {
	return &DownloadTask{
		ID:           uuid.New().String(),
		URL:          url,
		VideoFormat:  videoFormat,
		AudioFormat:  audioFormat,
		SubtitleLang: subtitleLang,
		SaveDir:      saveDir,
		Status:       StatusWaiting,
		Progress:     0.0,
		Speed:        "0.00 MB/s",
		CreatedAt:    time.Now(),
	}
}

// Clone returns a copy of the task safe to hand outside the manager lock.
func (dt *DownloadTask) Clone() *DownloadTask {
	c := *dt
	return &c
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (dt *DownloadTask) GetDisplayTitle() string {
	// First priority: video title (non-URL)
	if dt.Title != "" && !strings.HasPrefix(dt.Title, "http") {
		return dt.Title
	}

	// Second priority: filename from OutputPath
	if dt.OutputPath != "" {
		// Extract just the filename without path (support both / and \ separators)
		parts := strings.FieldsFunc(dt.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			filename := parts[len(parts)-1]
			// Remove file extension for cleaner display
			if idx := strings.LastIndex(filename, "."); idx > 0 {
				filename = filename[:idx]
			}
			return filename
		}
	}

	return dt.URL
}
