package model

// TaskStatus represents the status of a download task
type TaskStatus string

const (
	// StatusWaiting means the task is queued but not yet assigned a worker
	StatusWaiting TaskStatus = "Waiting"

	// StatusAnalyzing means a worker picked the task up and metadata
	// resolution is in progress
	StatusAnalyzing TaskStatus = "Analyzing"

	// StatusDownloading means the transfer is in progress
	StatusDownloading TaskStatus = "Downloading"

	// StatusPaused means the transfer was aborted by user request; the task
	// must go through Waiting again to restart
	StatusPaused TaskStatus = "Paused"

	// StatusCompleted means the task finished successfully
	StatusCompleted TaskStatus = "Completed"

	// StatusFailed means the task failed with an error
	StatusFailed TaskStatus = "Failed"

	// StatusCanceled means the task was canceled by user request
	StatusCanceled TaskStatus = "Canceled"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task currently occupies a worker
func (ts TaskStatus) IsActive() bool {
	return ts == StatusAnalyzing || ts == StatusDownloading
}

// IsTerminal returns true if no further transitions are possible
func (ts TaskStatus) IsTerminal() bool {
	return ts == StatusCompleted || ts == StatusFailed || ts == StatusCanceled
}
