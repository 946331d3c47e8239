package pipeline

import "fmt"

// ErrKind classifies acquisition failures.
type ErrKind string

const (
	KindInvalidInput  ErrKind = "invalid_input"
	KindDownload      ErrKind = "download_failure"
	KindTranscription ErrKind = "transcription_failure"
	KindIO            ErrKind = "io_failure"
)

// Error is an acquisition failure with its underlying cause. RunID is empty
// when the failure happened before a run was created (input validation).
type Error struct {
	Kind  ErrKind
	RunID string
	Err   error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func newRunError(runID string, kind ErrKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, RunID: runID, Err: fmt.Errorf(format, args...)}
}
