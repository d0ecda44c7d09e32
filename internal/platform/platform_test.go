package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "downloads")

	if err := CreateDirectoryIfNotExists(dir); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Directory was not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("Expected a directory")
	}

	// Second call on an existing directory is a no-op
	if err := CreateDirectoryIfNotExists(dir); err != nil {
		t.Errorf("Expected no error for existing directory, got %v", err)
	}
}

func TestGetHomeDownloadsDir(t *testing.T) {
	dir, err := GetHomeDownloadsDir()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if filepath.Base(dir) != "Downloads" {
		t.Errorf("Expected path ending in Downloads, got %s", dir)
	}
}

func TestRevealInFolder_MissingFile(t *testing.T) {
	if err := RevealInFolder(filepath.Join(t.TempDir(), "nope.mp4")); err == nil {
		t.Error("Expected error for missing file")
	}
	if err := RevealInFolder(""); err == nil {
		t.Error("Expected error for empty path")
	}
}

func TestIsPlaylistURL(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"https://www.youtube.com/playlist?list=PLabc123", true},
		{"https://www.youtube.com/watch?v=abc&list=PLabc123", true},
		{"https://www.youtube.com/watch?v=abc", false},
		{"", false},
	}

	for _, test := range tests {
		if got := IsPlaylistURL(test.url); got != test.expected {
			t.Errorf("IsPlaylistURL(%q) = %v, expected %v", test.url, got, test.expected)
		}
	}
}

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
		wantErr  bool
	}{
		{
			name:     "playlist URL",
			url:      "https://www.youtube.com/playlist?list=PLabc123",
			expected: "PLabc123",
		},
		{
			name:     "watch URL with list and extra params",
			url:      "https://www.youtube.com/watch?v=abc&list=PLabc123&start_radio=1",
			expected: "PLabc123",
		},
		{
			name:    "no list parameter",
			url:     "https://www.youtube.com/watch?v=abc",
			wantErr: true,
		},
		{
			name:    "empty playlist ID",
			url:     "https://www.youtube.com/playlist?list=",
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			id, err := ExtractPlaylistID(test.url)
			if test.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if id != test.expected {
				t.Errorf("Expected playlist ID %q, got %q", test.expected, id)
			}
		})
	}
}
