package fetch

import (
	"errors"
	"fmt"
)

// ErrAborted is returned from Download when the transfer was killed through
// Cancel. It marks an intentional abort, never a failure.
var ErrAborted = errors.New("download aborted")

// ResolutionError indicates the URL could not be resolved into downloadable
// formats (bad URL, network failure, no streams).
type ResolutionError struct {
	URL string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.URL, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// DownloadError indicates the transfer itself failed mid-flight.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }
