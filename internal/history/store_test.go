package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ytget/yt-grabber/internal/events"
	"github.com/ytget/yt-grabber/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	return store
}

func TestAddAndRecent(t *testing.T) {
	store := openTestStore(t)

	base := time.Now().Add(-time.Hour)
	for i, title := range []string{"first", "second", "third"} {
		err := store.Add(&Entry{
			TaskID:     title,
			URL:        "https://youtube.com/watch?v=" + title,
			Title:      title,
			Status:     model.StatusCompleted.String(),
			FinishedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Failed to add entry: %v", err)
		}
	}

	entries, err := store.Recent(2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	// Newest first
	if entries[0].Title != "third" || entries[1].Title != "second" {
		t.Errorf("Unexpected order: %s, %s", entries[0].Title, entries[1].Title)
	}
}

func TestRecentDefaultLimit(t *testing.T) {
	store := openTestStore(t)

	if err := store.Add(&Entry{TaskID: "a", Status: model.StatusFailed.String()}); err != nil {
		t.Fatalf("Failed to add entry: %v", err)
	}

	entries, err := store.Recent(0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(entries))
	}
}

func TestClear(t *testing.T) {
	store := openTestStore(t)

	if err := store.Add(&Entry{TaskID: "a", Status: model.StatusCompleted.String()}); err != nil {
		t.Fatalf("Failed to add entry: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	entries, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty history after clear, got %d entries", len(entries))
	}
}

type staticSource struct {
	tasks map[string]*model.DownloadTask
}

func (s *staticSource) Get(id string) (*model.DownloadTask, bool) {
	task, ok := s.tasks[id]
	return task, ok
}

func TestAttachRecordsTerminalEvents(t *testing.T) {
	store := openTestStore(t)
	bus := events.NewBus()
	defer bus.Close()

	task := model.NewDownloadTask("https://youtube.com/watch?v=a", "", "", "", "/tmp")
	task.Title = "Recorded Video"
	source := &staticSource{tasks: map[string]*model.DownloadTask{task.ID: task}}

	store.Attach(bus, source)

	bus.Publish(events.Event{Type: events.TaskCompleted, TaskID: task.ID, OutputPath: "/tmp/out.mp4"})
	// Progress events must not be recorded
	bus.Publish(events.Event{Type: events.TaskProgress, TaskID: task.ID, Progress: 50})

	deadline := time.Now().Add(2 * time.Second)
	var entries []Entry
	for time.Now().Before(deadline) {
		var err error
		entries, err = store.Recent(10)
		if err != nil {
			t.Fatalf("Recent failed: %v", err)
		}
		if len(entries) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.TaskID != task.ID {
		t.Errorf("Unexpected task id %s", entry.TaskID)
	}
	if entry.Title != "Recorded Video" {
		t.Errorf("Expected title from source, got %q", entry.Title)
	}
	if entry.Status != model.StatusCompleted.String() {
		t.Errorf("Unexpected status %s", entry.Status)
	}
	if entry.OutputPath != "/tmp/out.mp4" {
		t.Errorf("Unexpected output path %s", entry.OutputPath)
	}
}
