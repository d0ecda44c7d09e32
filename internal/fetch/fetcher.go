package fetch

import (
	"context"

	"github.com/ytget/yt-grabber/internal/model"
)

// Request describes one transfer. The callbacks are invoked from the
// fetcher's own goroutines while Download is running; implementations must
// tolerate nil callbacks.
type Request struct {
	URL          string
	VideoFormat  string
	AudioFormat  string
	SubtitleLang string
	SaveDir      string

	// OnProgress receives percent in [0,100] and a display speed label.
	OnProgress func(percent float64, speed string)

	// OnTitle receives the resolved video title, at most once.
	OnTitle func(title string)
}

// Fetcher is the boundary to the external download engine.
type Fetcher interface {
	// Resolve enumerates available formats for a URL.
	Resolve(ctx context.Context, url string) (*model.MediaInfo, error)

	// Download runs one transfer to completion and returns the output path.
	// It returns ErrAborted if the transfer was killed through Cancel, or a
	// *DownloadError on failure.
	Download(ctx context.Context, req Request) (string, error)

	// Cancel forcefully aborts a running Download. Safe to call from any
	// goroutine at any time, including before Download starts (the next
	// Download then returns ErrAborted immediately). Partial output is
	// removed best-effort; the abort itself does not wait for cleanup.
	Cancel()
}
