package download

import (
	"github.com/ytget/yt-grabber/internal/events"
	"github.com/ytget/yt-grabber/internal/model"
)

// Downloader is the facade the UI layer depends on.
type Downloader interface {
	// Add creates a task in Waiting, binds a fresh fetcher to it, enqueues
	// it and returns the task id. It never fails structurally; resolution
	// problems surface later as a Failed transition.
	Add(url, videoFormat, audioFormat, subtitleLang, saveDir string) string

	// Pause aborts a Downloading task. The transfer is killed, not
	// suspended; Resume sends the task through the queue again.
	Pause(id string) bool

	// Resume re-enqueues a Paused task.
	Resume(id string) bool

	// Cancel aborts any non-terminal task.
	Cancel(id string) bool

	// Remove destroys a task record and its fetcher binding, canceling the
	// transfer first if one is running.
	Remove(id string) bool

	// Get returns a snapshot copy of one task.
	Get(id string) (*model.DownloadTask, bool)

	// GetAll returns snapshot copies of all tasks ordered by creation time.
	GetAll() []*model.DownloadTask

	// StartAll re-enqueues every Waiting task that fell out of the queue.
	StartAll()

	// PauseAll pauses every Downloading task.
	PauseAll()

	// Events exposes the bus the manager publishes on.
	Events() *events.Bus

	// Shutdown stops the scheduler, cancels active tasks and waits (bounded)
	// for the scheduling loop to exit.
	Shutdown()
}
