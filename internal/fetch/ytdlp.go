package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/yt-grabber/internal/model"
)

const (
	// DefaultFormatSelector is used when no explicit formats were chosen
	DefaultFormatSelector = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"

	// OutputTemplate places every download under its own title directory
	OutputTemplate = "%(title)s.%(ext)s"

	ProgressInterval = 500 * time.Millisecond
)

// Partial-download leftovers removed after an abort
var partialExtensions = []string{".part", ".ytdl"}

var urlPattern = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be)/`)

// YTDLPFetcher is the production Fetcher built on yt-dlp. Cancel works by
// cancelling the context the yt-dlp subprocess runs under, which kills the
// process; there is no graceful mid-transfer stop.
type YTDLPFetcher struct {
	mu       sync.Mutex
	cancel   context.CancelFunc
	canceled bool
	saveDir  string
	logger   *slog.Logger

	// base names (extension stripped) of the files this transfer writes,
	// observed through the progress hook. Cleanup after an abort touches
	// only these; the save directory is shared between tasks.
	outputFiles map[string]struct{}
}

// NewYTDLPFetcher creates a fetcher writing into saveDir.
func NewYTDLPFetcher(saveDir string, logger *slog.Logger) *YTDLPFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &YTDLPFetcher{
		saveDir:     saveDir,
		logger:      logger,
		outputFiles: make(map[string]struct{}),
	}
}

// Resolve enumerates formats by running yt-dlp with a JSON dump and no
// download, then filtering the dump the same way the UI presents it.
func (f *YTDLPFetcher) Resolve(ctx context.Context, url string) (*model.MediaInfo, error) {
	if !ValidateURL(url) {
		return nil, &ResolutionError{URL: url, Err: fmt.Errorf("not a YouTube URL")}
	}

	dl := ytdlp.New().
		SkipDownload().
		DumpSingleJSON()

	result, err := dl.Run(ctx, url)
	if err != nil {
		return nil, &ResolutionError{URL: url, Err: err}
	}

	info, err := ParseMediaDump([]byte(result.Stdout))
	if err != nil {
		return nil, &ResolutionError{URL: url, Err: err}
	}

	if len(info.VideoFormats) == 0 {
		return nil, &ResolutionError{URL: url, Err: fmt.Errorf("no downloadable video formats")}
	}

	return info, nil
}

// Download runs the transfer. Progress and title updates arrive through the
// request callbacks from yt-dlp's progress hook.
func (f *YTDLPFetcher) Download(ctx context.Context, req Request) (string, error) {
	f.mu.Lock()
	if f.canceled {
		f.mu.Unlock()
		return "", ErrAborted
	}
	runCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.mu.Unlock()
	defer cancel()

	saveDir := req.SaveDir
	if saveDir == "" {
		saveDir = f.saveDir
	}

	titleSent := false
	dl := ytdlp.New().
		ForceOverwrites().
		RestrictFilenames().
		Format(formatSelector(req.VideoFormat, req.AudioFormat)).
		Output(filepath.Join(saveDir, OutputTemplate))

	dl.ProgressFunc(ProgressInterval, func(update ytdlp.ProgressUpdate) {
		if update.Info != nil && update.Info.Filename != nil {
			f.noteOutputFile(*update.Info.Filename)
		}
		if req.OnTitle != nil && !titleSent && update.Info != nil &&
			update.Info.Title != nil && *update.Info.Title != "" {
			titleSent = true
			req.OnTitle(*update.Info.Title)
		}
		if req.OnProgress == nil || update.TotalBytes <= 0 {
			return
		}
		percent := float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100
		req.OnProgress(percent, speedLabel(update))
	})

	result, err := dl.Run(runCtx, req.URL)

	if runCtx.Err() == context.Canceled {
		f.cleanupPartials(saveDir)
		return "", ErrAborted
	}
	if err != nil {
		return "", &DownloadError{URL: req.URL, Err: err}
	}

	outputPath := extractOutputPath(result)

	// Subtitles ride along after the main transfer; a failure here is not
	// fatal to the task.
	if req.SubtitleLang != "" {
		if err := f.downloadSubtitles(runCtx, req.URL, req.SubtitleLang, saveDir); err != nil {
			f.logger.Warn("subtitle download failed", "url", req.URL, "lang", req.SubtitleLang, "error", err)
		}
	}

	return outputPath, nil
}

// Cancel aborts the running transfer. Any Download started afterwards on
// this fetcher returns ErrAborted immediately.
func (f *YTDLPFetcher) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.canceled = true
	if f.cancel != nil {
		f.cancel()
	}
}

func (f *YTDLPFetcher) downloadSubtitles(ctx context.Context, url, lang, saveDir string) error {
	dl := ytdlp.New().
		SkipDownload().
		WriteSubs().
		WriteAutoSubs().
		SubLangs(lang).
		Output(filepath.Join(saveDir, OutputTemplate))

	_, err := dl.Run(ctx, url)
	return err
}

// noteOutputFile records a filename reported by the progress hook so an
// abort can clean up exactly this transfer's leftovers.
func (f *YTDLPFetcher) noteOutputFile(path string) {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." {
		return
	}
	f.mu.Lock()
	f.outputFiles[base] = struct{}{}
	f.mu.Unlock()
}

// cleanupPartials removes this transfer's orphaned partial files after a
// kill. The engine leaves .part/.ytdl files behind; only files observed
// through the progress hook are touched, since the directory is shared with
// other tasks. Callers still must not rely on partial output being gone when
// Cancel returns.
func (f *YTDLPFetcher) cleanupPartials(dir string) {
	f.mu.Lock()
	bases := make([]string, 0, len(f.outputFiles))
	for base := range f.outputFiles {
		bases = append(bases, base)
	}
	f.mu.Unlock()

	// nothing observed, nothing safe to delete
	if len(bases) == 0 {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !isPartialFile(entry.Name()) {
			continue
		}
		if !hasAnyPrefix(entry.Name(), bases) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			f.logger.Debug("failed to remove partial file", "file", entry.Name(), "error", err)
		}
	}
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func isPartialFile(name string) bool {
	for _, ext := range partialExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// formatSelector builds the yt-dlp format expression from the user's
// choices, falling back to best available.
func formatSelector(videoFormat, audioFormat string) string {
	if videoFormat == "" && audioFormat == "" {
		return DefaultFormatSelector
	}
	if audioFormat == "" {
		return videoFormat + "/best"
	}
	if videoFormat == "" {
		return audioFormat + "/best"
	}
	return fmt.Sprintf("%s+%s/best", videoFormat, audioFormat)
}

// speedLabel derives a human readable transfer rate from a progress update.
func speedLabel(update ytdlp.ProgressUpdate) string {
	if update.Started.IsZero() {
		return ""
	}
	elapsed := time.Since(update.Started).Seconds()
	if elapsed <= 0 {
		return ""
	}
	bps := float64(update.DownloadedBytes) / elapsed
	if bps <= 0 {
		return ""
	}
	return humanize.Bytes(uint64(bps)) + "/s"
}

func extractOutputPath(result *ytdlp.Result) string {
	if result == nil {
		return ""
	}
	info, err := result.GetExtractedInfo()
	if err != nil || len(info) == 0 {
		return ""
	}
	if info[0].Filename != nil {
		return *info[0].Filename
	}
	return ""
}

// ValidateURL checks the basic shape of a YouTube URL. Anything deeper is
// deferred to Resolve.
func ValidateURL(url string) bool {
	return urlPattern.MatchString(url)
}
