package ui

// Package ui implements the Fyne desktop interface: URL input with format
// resolution, the task list with per-row controls, and the settings dialog.
// All state lives in the download manager; the UI only reacts to bus events.
