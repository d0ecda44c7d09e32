package download

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/ytget/yt-grabber/internal/events"
	"github.com/ytget/yt-grabber/internal/fetch"
	"github.com/ytget/yt-grabber/internal/model"
)

const (
	// DefaultMaxConcurrent bounds simultaneous transfers
	DefaultMaxConcurrent = 2

	// DefaultPollInterval is the scheduler wakeup period
	DefaultPollInterval = 100 * time.Millisecond

	// ShutdownTimeout bounds the wait for the scheduling loop on Shutdown
	ShutdownTimeout = 2 * time.Second
)

// FetcherFactory builds the fetcher bound to one task. Injected so tests can
// substitute stubs for the yt-dlp backed implementation.
type FetcherFactory func(task *model.DownloadTask) fetch.Fetcher

// Config carries construction-time settings for the manager.
type Config struct {
	MaxConcurrent int
	PollInterval  time.Duration
}

// Manager owns all task state: the task map, the per-task fetcher bindings,
// the FIFO waiting queue and the active set. Every read and write goes
// through one mutex; the lock is never held across a fetcher call or event
// delivery.
//
// active maps task id to the promotion token of the run occupying the slot.
// Workers capture their token at promotion and may only free the slot while
// the entry still carries it; a worker whose aborted Download returns after
// the task was resumed onto a new run must not free the new run's slot.
type Manager struct {
	mu         sync.Mutex
	tasks      map[string]*model.DownloadTask
	fetchers   map[string]fetch.Fetcher
	active     map[string]uint64
	promotions uint64
	waiting    []string

	maxConcurrent int
	pollInterval  time.Duration

	bus        *events.Bus
	logger     *slog.Logger
	newFetcher FetcherFactory

	// allDone suppresses repeated AllTasksCompleted emissions until new
	// work arrives
	allDone bool

	stopped  bool
	stop     chan struct{}
	loopDone chan struct{}
}

// NewManager creates a manager and starts its scheduling loop.
func NewManager(cfg Config, logger *slog.Logger, factory FetcherFactory) *Manager {
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = DefaultMaxConcurrent
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		tasks:         make(map[string]*model.DownloadTask),
		fetchers:      make(map[string]fetch.Fetcher),
		active:        make(map[string]uint64),
		maxConcurrent: cfg.MaxConcurrent,
		pollInterval:  cfg.PollInterval,
		bus:           events.NewBus(),
		logger:        logger,
		newFetcher:    factory,
		stop:          make(chan struct{}),
		loopDone:      make(chan struct{}),
	}

	go m.run()
	return m
}

// Events exposes the bus the manager publishes on.
func (m *Manager) Events() *events.Bus {
	return m.bus
}

// Add creates a task, binds a fresh fetcher and enqueues it.
func (m *Manager) Add(url, videoFormat, audioFormat, subtitleLang, saveDir string) string {
	task := model.NewDownloadTask(url, videoFormat, audioFormat, subtitleLang, saveDir)

	m.mu.Lock()
	m.tasks[task.ID] = task
	m.fetchers[task.ID] = m.newFetcher(task)
	m.waiting = append(m.waiting, task.ID)
	m.allDone = false
	m.mu.Unlock()

	m.bus.Publish(events.Event{Type: events.TaskAdded, TaskID: task.ID})
	m.logger.Info("task added", "task_id", task.ID, "url", url)
	return task.ID
}

// Pause aborts a Downloading task and marks it Paused. The fetcher is
// killed; a later Resume re-runs the transfer from scratch.
func (m *Manager) Pause(id string) bool {
	m.mu.Lock()
	task, ok := m.tasks[id]
	if !ok || task.Status != model.StatusDownloading {
		m.mu.Unlock()
		return false
	}
	task.Status = model.StatusPaused
	delete(m.active, id)
	fetcher := m.fetchers[id]
	m.mu.Unlock()

	if fetcher != nil {
		fetcher.Cancel()
	}
	m.bus.Publish(events.Event{Type: events.TaskPaused, TaskID: id})
	m.logger.Info("task paused", "task_id", id)
	return true
}

// Resume re-enqueues a Paused task with a fresh fetcher binding (the old
// one was killed by Pause and cannot be restarted).
func (m *Manager) Resume(id string) bool {
	m.mu.Lock()
	task, ok := m.tasks[id]
	if !ok || task.Status != model.StatusPaused {
		m.mu.Unlock()
		return false
	}
	task.Status = model.StatusWaiting
	m.fetchers[id] = m.newFetcher(task)
	m.waiting = append(m.waiting, id)
	m.allDone = false
	m.mu.Unlock()

	m.bus.Publish(events.Event{Type: events.TaskResumed, TaskID: id})
	m.logger.Info("task resumed", "task_id", id)
	return true
}

// Cancel aborts any non-terminal task. A waiting task's queue entry goes
// stale and is discarded by the scheduler.
func (m *Manager) Cancel(id string) bool {
	m.mu.Lock()
	task, ok := m.tasks[id]
	if !ok || task.Status.IsTerminal() {
		m.mu.Unlock()
		return false
	}
	wasRunning := task.Status.IsActive()
	task.Status = model.StatusCanceled
	delete(m.active, id)
	fetcher := m.fetchers[id]
	m.mu.Unlock()

	if wasRunning && fetcher != nil {
		fetcher.Cancel()
	}
	m.bus.Publish(events.Event{Type: events.TaskCanceled, TaskID: id})
	m.logger.Info("task canceled", "task_id", id)
	return true
}

// Remove destroys a task record and its fetcher binding. A running transfer
// is canceled first.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	task, ok := m.tasks[id]
	if !ok {
		m.mu.Unlock()
		return false
	}

	var fetcher fetch.Fetcher
	canceled := false
	if task.Status.IsActive() {
		task.Status = model.StatusCanceled
		fetcher = m.fetchers[id]
		canceled = true
	}
	delete(m.active, id)
	delete(m.tasks, id)
	delete(m.fetchers, id)
	m.mu.Unlock()

	if fetcher != nil {
		fetcher.Cancel()
	}
	if canceled {
		m.bus.Publish(events.Event{Type: events.TaskCanceled, TaskID: id})
	}
	m.bus.Publish(events.Event{Type: events.TaskRemoved, TaskID: id})
	m.logger.Info("task removed", "task_id", id)
	return true
}

// Get returns a snapshot copy of one task.
func (m *Manager) Get(id string) (*model.DownloadTask, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok {
		return nil, false
	}
	return task.Clone(), true
}

// GetAll returns snapshot copies of all tasks ordered by creation time.
func (m *Manager) GetAll() []*model.DownloadTask {
	m.mu.Lock()
	tasks := make([]*model.DownloadTask, 0, len(m.tasks))
	for _, task := range m.tasks {
		tasks = append(tasks, task.Clone())
	}
	m.mu.Unlock()

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks
}

// StartAll re-enqueues every Waiting task that is not already queued.
func (m *Manager) StartAll() {
	m.mu.Lock()
	queued := make(map[string]bool, len(m.waiting))
	for _, id := range m.waiting {
		queued[id] = true
	}
	for id, task := range m.tasks {
		if task.Status == model.StatusWaiting && !queued[id] {
			m.waiting = append(m.waiting, id)
		}
	}
	m.allDone = false
	m.mu.Unlock()
}

// PauseAll pauses every Downloading task.
func (m *Manager) PauseAll() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.active))
	for id := range m.active {
		if m.tasks[id] != nil && m.tasks[id].Status == model.StatusDownloading {
			ids = append(ids, id)
		}
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.Pause(id)
	}
}

// Shutdown stops the scheduling loop, cancels all active tasks and waits
// for the loop to exit, bounded by ShutdownTimeout.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	ids := make([]string, 0, len(m.active))
	for id := range m.active {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.Cancel(id)
	}

	close(m.stop)
	select {
	case <-m.loopDone:
	case <-time.After(ShutdownTimeout):
		m.logger.Warn("scheduling loop did not exit before timeout")
	}

	m.bus.Close()
	m.logger.Info("download manager stopped")
}

// run is the scheduling loop: a fixed-interval poll that promotes waiting
// tasks into free execution slots and watches for quiescence. Worker
// failures never propagate here.
func (m *Manager) run() {
	defer close(m.loopDone)

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.promote()
			m.checkQuiescence()
		}
	}
}

// promote moves tasks from the head of the waiting queue into workers while
// capacity allows. Entries whose task was canceled or removed while queued
// are discarded silently.
func (m *Manager) promote() {
	for {
		m.mu.Lock()
		if len(m.active) >= m.maxConcurrent || len(m.waiting) == 0 {
			m.mu.Unlock()
			return
		}

		id := m.waiting[0]
		m.waiting = m.waiting[1:]

		task, ok := m.tasks[id]
		if !ok || task.Status != model.StatusWaiting {
			// stale queue entry
			m.mu.Unlock()
			continue
		}

		task.Status = model.StatusAnalyzing
		m.promotions++
		token := m.promotions
		m.active[id] = token
		m.mu.Unlock()

		m.bus.Publish(events.Event{Type: events.TaskStarted, TaskID: id})
		m.logger.Info("task started", "task_id", id)
		go m.runTask(id, token)
	}
}

// checkQuiescence emits AllTasksCompleted exactly once per transition into
// the state where every task is terminal and nothing is queued or active.
func (m *Manager) checkQuiescence() {
	m.mu.Lock()
	if m.allDone || len(m.tasks) == 0 || len(m.active) > 0 || len(m.waiting) > 0 {
		m.mu.Unlock()
		return
	}
	for _, task := range m.tasks {
		if !task.Status.IsTerminal() {
			m.mu.Unlock()
			return
		}
	}
	m.allDone = true
	m.mu.Unlock()

	m.bus.Publish(events.Event{Type: events.AllTasksCompleted})
	m.logger.Info("all tasks completed")
}

// runTask is the worker: it drives one task's transfer to a terminal state.
// All failures are contained here.
func (m *Manager) runTask(id string, token uint64) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("worker panic", "task_id", id, "panic", r)
			m.failTask(id, token, errors.New("internal worker failure"))
		}
	}()

	m.mu.Lock()
	task, ok := m.tasks[id]
	fetcher := m.fetchers[id]
	if !ok || fetcher == nil || task.Status != model.StatusAnalyzing {
		m.releaseSlotLocked(id, token)
		m.mu.Unlock()
		return
	}
	task.Status = model.StatusDownloading
	req := fetch.Request{
		URL:          task.URL,
		VideoFormat:  task.VideoFormat,
		AudioFormat:  task.AudioFormat,
		SubtitleLang: task.SubtitleLang,
		SaveDir:      task.SaveDir,
		OnProgress: func(percent float64, speed string) {
			m.onProgress(id, percent, speed)
		},
		OnTitle: func(title string) {
			m.onTitle(id, title)
		},
	}
	m.mu.Unlock()

	outputPath, err := fetcher.Download(context.Background(), req)

	switch {
	case err == nil:
		m.finishTask(id, token, outputPath)
	case errors.Is(err, fetch.ErrAborted):
		// Paused or Canceled already set by the facade; just make sure this
		// run's slot is free.
		m.releaseSlot(id, token)
	default:
		m.failTask(id, token, err)
	}
}

func (m *Manager) finishTask(id string, token uint64, outputPath string) {
	m.mu.Lock()
	task, ok := m.tasks[id]
	if !ok || task.Status != model.StatusDownloading {
		m.releaseSlotLocked(id, token)
		m.mu.Unlock()
		return
	}
	task.Status = model.StatusCompleted
	task.Progress = 100.0
	task.OutputPath = outputPath
	m.releaseSlotLocked(id, token)
	m.mu.Unlock()

	m.bus.Publish(events.Event{Type: events.TaskCompleted, TaskID: id, OutputPath: outputPath})
	m.logger.Info("task completed", "task_id", id, "output", outputPath)
}

func (m *Manager) failTask(id string, token uint64, err error) {
	m.mu.Lock()
	task, ok := m.tasks[id]
	if !ok || task.Status != model.StatusDownloading {
		m.releaseSlotLocked(id, token)
		m.mu.Unlock()
		return
	}
	task.Status = model.StatusFailed
	task.LastError = err.Error()
	m.releaseSlotLocked(id, token)
	m.mu.Unlock()

	m.bus.Publish(events.Event{Type: events.TaskFailed, TaskID: id, ErrorMessage: err.Error()})
	m.logger.Error("task failed", "task_id", id, "error", err)
}

func (m *Manager) releaseSlot(id string, token uint64) {
	m.mu.Lock()
	m.releaseSlotLocked(id, token)
	m.mu.Unlock()
}

// releaseSlotLocked frees the active slot only while it still belongs to the
// releasing run. After a pause/resume round trip the slot carries a newer
// token and a late release from the superseded run must leave it alone.
// Callers hold m.mu.
func (m *Manager) releaseSlotLocked(id string, token uint64) {
	if m.active[id] == token {
		delete(m.active, id)
	}
}

func (m *Manager) onProgress(id string, percent float64, speed string) {
	m.mu.Lock()
	task, ok := m.tasks[id]
	if !ok || task.Status != model.StatusDownloading {
		m.mu.Unlock()
		return
	}
	// keep progress monotone; late or out-of-order callbacks never move it
	// backwards
	if percent > task.Progress {
		task.Progress = percent
	}
	if percent > 100 {
		task.Progress = 100
	}
	if speed != "" {
		task.Speed = speed
	}
	progress := task.Progress
	speedNow := task.Speed
	m.mu.Unlock()

	m.bus.Publish(events.Event{
		Type:     events.TaskProgress,
		TaskID:   id,
		Progress: progress,
		Speed:    speedNow,
	})
}

func (m *Manager) onTitle(id, title string) {
	m.mu.Lock()
	task, ok := m.tasks[id]
	if !ok || title == "" || task.Title != "" {
		m.mu.Unlock()
		return
	}
	task.Title = title
	m.mu.Unlock()

	m.bus.Publish(events.Event{Type: events.TaskInfo, TaskID: id, Title: title})
}
