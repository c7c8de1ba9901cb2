package ingest

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Every adapter error matches exactly one of them via
// errors.Is, whatever the underlying cause.
var (
	// ErrAdapterFailure covers bad URLs, auth failures, network errors, and
	// missing worksheets on the remote spreadsheet path.
	ErrAdapterFailure = errors.New("spreadsheet fetch failed")

	// ErrMalformedUpload covers payloads that cannot be decoded as a
	// spreadsheet.
	ErrMalformedUpload = errors.New("malformed upload")

	// ErrEmptyFile is the cause of a MalformedUploadError for a payload with
	// no content.
	ErrEmptyFile = errors.New("empty file")
)

// AdapterError wraps a failure from the remote spreadsheet adapter.
type AdapterError struct {
	Op  string // step that failed: "parse url", "authorize", "open", "read"
	Err error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("spreadsheet fetch failed: %s: %v", e.Op, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// Is reports kind membership for errors.Is(err, ErrAdapterFailure).
func (e *AdapterError) Is(target error) bool { return target == ErrAdapterFailure }

// MalformedUploadError wraps a failure decoding an uploaded file.
type MalformedUploadError struct {
	Format string // detected format, "" when unrecognized
	Err    error
}

func (e *MalformedUploadError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("malformed upload: %v", e.Err)
	}
	return fmt.Sprintf("malformed upload (%s): %v", e.Format, e.Err)
}

func (e *MalformedUploadError) Unwrap() error { return e.Err }

// Is reports kind membership for errors.Is(err, ErrMalformedUpload).
func (e *MalformedUploadError) Is(target error) bool { return target == ErrMalformedUpload }
