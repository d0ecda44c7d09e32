package events

// Package events decouples task-state changes from their observers. The
// download manager publishes typed events; the UI and the history recorder
// subscribe. Delivery happens on a single dispatcher goroutine so publishers
// never block on slow subscribers and events from one source keep their
// order.
