package events

// Type identifies the kind of task lifecycle event.
type Type string

const (
	// TaskAdded fires when a task is created and enqueued
	TaskAdded Type = "task_added"

	// TaskStarted fires when the scheduler assigns a worker to a task
	TaskStarted Type = "task_started"

	// TaskPaused fires when a downloading task is aborted by pause
	TaskPaused Type = "task_paused"

	// TaskResumed fires when a paused task re-enters the waiting queue
	TaskResumed Type = "task_resumed"

	// TaskCompleted fires once on successful completion; OutputPath is set
	TaskCompleted Type = "task_completed"

	// TaskFailed fires once on failure; ErrorMessage is set
	TaskFailed Type = "task_failed"

	// TaskCanceled fires when a task is canceled
	TaskCanceled Type = "task_canceled"

	// TaskRemoved fires when a task record is destroyed
	TaskRemoved Type = "task_removed"

	// TaskProgress carries a progress/speed update for a downloading task
	TaskProgress Type = "task_progress"

	// TaskInfo carries the resolved title once metadata is available
	TaskInfo Type = "task_info"

	// AllTasksCompleted fires once when every submitted task is terminal
	// and both the queue and the active set are empty
	AllTasksCompleted Type = "all_tasks_completed"
)

// Event is the payload delivered to subscribers. Only the fields relevant
// to the Type are populated; TaskID is empty for AllTasksCompleted.
type Event struct {
	Type         Type
	TaskID       string
	OutputPath   string
	ErrorMessage string
	Progress     float64
	Speed        string
	Title        string
}
