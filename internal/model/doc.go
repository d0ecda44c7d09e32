package model

// Package model defines domain data structures used across the app: download
// tasks, the task status machine, and media metadata returned by the format
// resolver. Structures are designed for direct binding in the UI and explicit
// state transitions.
