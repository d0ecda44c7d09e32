package remux

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRemuxOutputPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/path/to/video.webm", "/path/to/video-remuxed.mp4"},
		{"/path/to/video.mkv", "/path/to/video-remuxed.mp4"},
		{"video.mp4", "video-remuxed.mp4"},
		{"/no/ext/file", "/no/ext/file-remuxed.mp4"},
	}

	for _, test := range tests {
		result := RemuxOutputPath(test.input)
		if result != test.expected {
			t.Errorf("RemuxOutputPath(%s) = %s, expected %s", test.input, result, test.expected)
		}
	}
}

func TestMergeOutputPath(t *testing.T) {
	result := MergeOutputPath("/path/to/video.mp4")
	if result != "/path/to/video-subbed.mp4" {
		t.Errorf("MergeOutputPath = %s, expected /path/to/video-subbed.mp4", result)
	}
}

func TestNeedsRemux(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"/path/to/video.webm", true},
		{"/path/to/video.mkv", true},
		{"/path/to/video.mp4", false},
		{"/path/to/video.MP4", false},
	}

	for _, test := range tests {
		if got := NeedsRemux(test.input); got != test.expected {
			t.Errorf("NeedsRemux(%s) = %v, expected %v", test.input, got, test.expected)
		}
	}
}

func TestBuildRemuxArgs(t *testing.T) {
	args := BuildRemuxArgs("/input.webm", "/output.mp4")

	expectedArgs := []string{
		"-y",
		"-i", "/input.webm",
		"-c", StreamCopyCodec,
		"-movflags", FastStartFlag,
		"-progress", "pipe:2",
		"-nostats",
		"/output.mp4",
	}

	if len(args) != len(expectedArgs) {
		t.Fatalf("Expected %d args, got %d", len(expectedArgs), len(args))
	}

	for i, expected := range expectedArgs {
		if args[i] != expected {
			t.Errorf("Arg %d: expected %s, got %s", i, expected, args[i])
		}
	}
}

func TestBuildMergeArgs(t *testing.T) {
	args := BuildMergeArgs("/video.mp4", "/subs.srt", "/out.mp4")

	joined := strings.Join(args, " ")
	for _, fragment := range []string{"-i /video.mp4", "-i /subs.srt", "-c:s " + SubtitleCodec} {
		if !strings.Contains(joined, fragment) {
			t.Errorf("Expected args to contain %q, got %q", fragment, joined)
		}
	}
	if args[len(args)-1] != "/out.mp4" {
		t.Errorf("Expected output path last, got %s", args[len(args)-1])
	}
}

func TestFindSubtitleFile(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "My_Video.mp4")
	subtitle := filepath.Join(dir, "My_Video.en.vtt")
	unrelated := filepath.Join(dir, "Other_Video.en.srt")

	for _, name := range []string{video, subtitle, unrelated} {
		if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}

	if got := FindSubtitleFile(video); got != subtitle {
		t.Errorf("FindSubtitleFile = %q, expected %q", got, subtitle)
	}

	if got := FindSubtitleFile(filepath.Join(dir, "Missing.mp4")); got != "" {
		t.Errorf("Expected no match for video without subtitles, got %q", got)
	}

	// the sidecar is named after the original download; a remuxed copy's base
	// never matches, so callers must search with the original path
	remuxed := RemuxOutputPath(video)
	if err := os.WriteFile(remuxed, []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to create %s: %v", remuxed, err)
	}
	if got := FindSubtitleFile(remuxed); got != "" {
		t.Errorf("Expected no match for remuxed path, got %q", got)
	}
}

func TestRemux_NonExistentFile(t *testing.T) {
	service := NewService(nil)

	_, err := service.Remux(t.Context(), "/path/to/nonexistent/file.webm")
	if err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Expected 'does not exist' error, got: %v", err)
	}
}

func TestMergeSubtitles_NonExistentInputs(t *testing.T) {
	service := NewService(nil)

	if _, err := service.MergeSubtitles(t.Context(), "/missing.mp4", "/missing.srt"); err == nil {
		t.Error("Expected error for missing video, got nil")
	}
}
