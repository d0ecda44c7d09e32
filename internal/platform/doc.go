package platform

// Package platform contains OS integration and external tooling glue:
// filesystem helpers, playlist expansion, and OS open/reveal.
