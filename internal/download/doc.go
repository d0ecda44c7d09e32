package download

// Package download implements the core task orchestration layer: task
// lifecycle, FIFO queuing behind a concurrency bound, worker supervision,
// progress propagation, and pause/resume/cancel for transfers that can only
// be started or killed, never suspended. The UI talks to the Manager facade
// and observes changes through the event bus; it never touches internal
// state directly.
