package remux

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// FFmpeg constants for remuxing
const (
	StreamCopyCodec = "copy"
	SubtitleCodec   = "mov_text"

	// Container flags
	FastStartFlag = "+faststart"

	// Output suffix
	RemuxedSuffix = "-remuxed"
	MergedSuffix  = "-subbed"

	// Executable and I/O constants
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:2"
	ProgressTimePrefix  = "out_time_us="
	OutputExtensionMP4  = ".mp4"
)

// Service turns finished downloads into clean MP4 containers: a stream-copy
// remux for non-mp4 output and an optional subtitle merge. Both operations
// run ffmpeg under the caller's context; cancellation kills the process and
// the partial output file is removed.
type Service struct {
	logger     *slog.Logger
	onProgress func(percent float64)
}

// NewService creates a remux service.
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// SetProgressCallback sets the callback invoked with 0-100 progress values.
func (s *Service) SetProgressCallback(callback func(percent float64)) {
	s.onProgress = callback
}

// NeedsRemux reports whether the file should be rewritten into an mp4
// container.
func NeedsRemux(inputPath string) bool {
	return strings.ToLower(filepath.Ext(inputPath)) != OutputExtensionMP4
}

// Remux rewrites inputPath into an mp4 container without re-encoding and
// returns the output path.
func (s *Service) Remux(ctx context.Context, inputPath string) (string, error) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return "", fmt.Errorf("input file does not exist: %s", inputPath)
	}

	outputPath := RemuxOutputPath(inputPath)
	args := BuildRemuxArgs(inputPath, outputPath)
	if err := s.runFFmpeg(ctx, inputPath, outputPath, args); err != nil {
		return "", err
	}
	return outputPath, nil
}

// MergeSubtitles embeds a subtitle file into the video as a mov_text stream
// and returns the output path.
func (s *Service) MergeSubtitles(ctx context.Context, videoPath, subtitlePath string) (string, error) {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return "", fmt.Errorf("video file does not exist: %s", videoPath)
	}
	if _, err := os.Stat(subtitlePath); os.IsNotExist(err) {
		return "", fmt.Errorf("subtitle file does not exist: %s", subtitlePath)
	}

	outputPath := MergeOutputPath(videoPath)
	args := BuildMergeArgs(videoPath, subtitlePath, outputPath)
	if err := s.runFFmpeg(ctx, videoPath, outputPath, args); err != nil {
		return "", err
	}
	return outputPath, nil
}

// runFFmpeg executes ffmpeg with progress monitoring and removes the partial
// output on failure or cancellation.
func (s *Service) runFFmpeg(ctx context.Context, inputPath, outputPath string, args []string) error {
	duration, err := s.videoDuration(inputPath)
	if err != nil {
		// Progress just stays silent when the duration is unknown.
		s.logger.Debug("failed to probe duration", "file", inputPath, "error", err)
		duration = 0
	}

	cmd := exec.CommandContext(ctx, FFmpegCommand, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	go s.monitorProgress(stderr, duration)

	err = cmd.Wait()
	if ctx.Err() == context.Canceled {
		os.Remove(outputPath)
		return ctx.Err()
	}
	if err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}

// BuildRemuxArgs builds the ffmpeg arguments for a stream-copy remux.
func BuildRemuxArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-c", StreamCopyCodec,
		"-movflags", FastStartFlag,
		"-progress", ProgressPipeTarget,
		"-nostats",
		outputPath,
	}
}

// BuildMergeArgs builds the ffmpeg arguments for a subtitle merge.
func BuildMergeArgs(videoPath, subtitlePath, outputPath string) []string {
	return []string{
		"-y",
		"-i", videoPath,
		"-i", subtitlePath,
		"-c", StreamCopyCodec,
		"-c:s", SubtitleCodec,
		"-movflags", FastStartFlag,
		"-progress", ProgressPipeTarget,
		"-nostats",
		outputPath,
	}
}

// videoDuration gets the duration of a video file using ffprobe
func (s *Service) videoDuration(filePath string) (float64, error) {
	cmd := exec.Command(FFprobeCommand, "-v", FFprobeLogLevel, "-show_entries", FFprobeShowEntries, "-of", FFprobeOutputFormat, filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return duration, nil
}

// monitorProgress parses ffmpeg progress lines (out_time_us=123456) into
// percent callbacks.
func (s *Service) monitorProgress(stderr io.ReadCloser, totalDuration float64) {
	defer stderr.Close()
	scanner := bufio.NewScanner(stderr)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, ProgressTimePrefix) {
			continue
		}
		timeMicroseconds, err := strconv.ParseInt(strings.TrimPrefix(line, ProgressTimePrefix), 10, 64)
		if err != nil {
			continue
		}
		if totalDuration <= 0 || s.onProgress == nil {
			continue
		}
		percent := float64(timeMicroseconds) / 1000000.0 / totalDuration * 100
		if percent > 100 {
			percent = 100
		}
		s.onProgress(percent)
	}
}

// FindSubtitleFile looks for a subtitle file written next to the video with
// the same base name (yt-dlp writes "<title>.<lang>.vtt" style names).
// Pass the original download path: a remuxed copy carries a different base
// that never matches the sidecar. Returns an empty string when none is found.
func FindSubtitleFile(videoPath string) string {
	dir := filepath.Dir(videoPath)
	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".srt" && ext != ".vtt" {
			continue
		}
		if strings.HasPrefix(name, base) {
			return filepath.Join(dir, name)
		}
	}
	return ""
}

// RemuxOutputPath generates the output path for a remuxed file
func RemuxOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + RemuxedSuffix + OutputExtensionMP4
}

// MergeOutputPath generates the output path for a subtitle-merged file
func MergeOutputPath(videoPath string) string {
	ext := filepath.Ext(videoPath)
	return strings.TrimSuffix(videoPath, ext) + MergedSuffix + OutputExtensionMP4
}
