package history

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ytget/yt-grabber/internal/events"
	"github.com/ytget/yt-grabber/internal/model"
)

// DefaultRecentLimit bounds the history view
const DefaultRecentLimit = 100

// Entry is one finished download, kept across restarts.
type Entry struct {
	ID           uint   `gorm:"primaryKey"`
	TaskID       string `gorm:"index"`
	URL          string
	Title        string
	Status       string
	OutputPath   string
	ErrorMessage string
	FinishedAt   time.Time
}

// TaskSource resolves task snapshots for ids seen on the event bus.
type TaskSource interface {
	Get(id string) (*model.DownloadTask, bool)
}

// Store persists download history in a local SQLite database.
type Store struct {
	db *gorm.DB
}

// Open opens (and migrates) the history database at path.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Add inserts one history entry.
func (s *Store) Add(entry *Entry) error {
	if entry.FinishedAt.IsZero() {
		entry.FinishedAt = time.Now()
	}
	return s.db.Create(entry).Error
}

// Recent returns up to limit entries, newest first. A non-positive limit
// falls back to DefaultRecentLimit.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	var entries []Entry
	err := s.db.Order("finished_at desc, id desc").Limit(limit).Find(&entries).Error
	return entries, err
}

// Clear removes all history entries.
func (s *Store) Clear() error {
	return s.db.Where("1 = 1").Delete(&Entry{}).Error
}

// Attach subscribes the store to the bus and records every terminal task
// outcome. Canceled tasks that were removed before their event is handled
// are recorded from the event alone.
func (s *Store) Attach(bus *events.Bus, source TaskSource) {
	bus.Subscribe(func(ev events.Event) {
		var status model.TaskStatus
		switch ev.Type {
		case events.TaskCompleted:
			status = model.StatusCompleted
		case events.TaskFailed:
			status = model.StatusFailed
		case events.TaskCanceled:
			status = model.StatusCanceled
		default:
			return
		}

		entry := &Entry{
			TaskID:       ev.TaskID,
			Status:       status.String(),
			OutputPath:   ev.OutputPath,
			ErrorMessage: ev.ErrorMessage,
			FinishedAt:   time.Now(),
		}
		if task, ok := source.Get(ev.TaskID); ok {
			entry.URL = task.URL
			entry.Title = task.Title
			if entry.OutputPath == "" {
				entry.OutputPath = task.OutputPath
			}
		}
		// History is best effort; the download itself already succeeded
		// or failed on its own terms.
		_ = s.Add(entry)
	})
}
