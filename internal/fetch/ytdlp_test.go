package fetch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCleanupPartials(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		"My_Video.f137.mp4.part",
		"My_Video.f140.m4a.ytdl",
		"My_Video.mp4",
		"Other_Video.f137.mp4.part",
		"notes.txt",
	}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.part"), 0o755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}

	f := NewYTDLPFetcher(dir, nil)
	f.noteOutputFile(filepath.Join(dir, "My_Video.f137.mp4"))
	f.noteOutputFile(filepath.Join(dir, "My_Video.f140.m4a"))
	f.cleanupPartials(dir)

	for _, name := range []string{"My_Video.f137.mp4.part", "My_Video.f140.m4a.ytdl"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("Expected %s to be removed", name)
		}
	}
	// another task's partial and regular files are untouched
	for _, name := range []string{"My_Video.mp4", "Other_Video.f137.mp4.part", "notes.txt", "sub.part"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected %s to survive cleanup: %v", name, err)
		}
	}
}

func TestCleanupPartials_NothingObserved(t *testing.T) {
	dir := t.TempDir()

	name := "Some_Video.mp4.part"
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to create %s: %v", name, err)
	}

	f := NewYTDLPFetcher(dir, nil)
	f.cleanupPartials(dir)

	if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
		t.Errorf("Cleanup with no observed files must not delete anything: %v", err)
	}
}

func TestDownloadAfterCancelReturnsAborted(t *testing.T) {
	f := NewYTDLPFetcher(t.TempDir(), nil)
	f.Cancel()

	_, err := f.Download(t.Context(), Request{URL: "https://youtube.com/watch?v=a"})
	if err != ErrAborted {
		t.Errorf("Expected ErrAborted, got %v", err)
	}
}
