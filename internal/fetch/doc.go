package fetch

// Package fetch wraps yt-dlp (via github.com/lrstanley/go-ytdlp) behind the
// narrow Fetcher boundary the download manager depends on: resolve a URL
// into selectable formats, run one transfer with progress callbacks, and
// abort it forcefully from another goroutine. One Fetcher serves exactly one
// task; the manager creates a fresh instance per task.
