package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies job-level failures. Per-frame failures never reach this
// taxonomy; they are absorbed into counters by the frame loop.
type Kind int

const (
	// KindInvalidInput marks a malformed, oversized, or unreadable source.
	// Terminal for the job: retrying cannot fix the input.
	KindInvalidInput Kind = iota

	// KindResourceInit marks an estimator or writer that could not start.
	// Retried by the orchestrator since the cause may be transient.
	KindResourceInit

	// KindOutputVerification marks a run that completed but produced a
	// missing or empty artifact. Retried.
	KindOutputVerification
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindResourceInit:
		return "resource init failed"
	case KindOutputVerification:
		return "output verification failed"
	}
	return "unknown"
}

// Error is a classified job-level failure. Frame carries the last known
// frame index for diagnosis (-1 before the frame loop started). The wrapped
// cause is preserved for errors.Is/As; its text is the whole user-visible
// message — no stack traces.
type Error struct {
	Kind  Kind
	Frame int
	Err   error
}

func (e *Error) Error() string {
	if e.Frame >= 0 {
		return fmt.Sprintf("%s (last frame %d): %v", e.Kind, e.Frame, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, frame int, err error) *Error {
	return &Error{Kind: kind, Frame: frame, Err: err}
}

// KindOf extracts the failure kind from err, unwrapping as needed.
func KindOf(err error) (Kind, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return 0, false
}

// Retryable reports whether the orchestrator should attempt err again.
// Invalid input and context cancellation are terminal immediately.
func Retryable(err error) bool {
	k, ok := KindOf(err)
	if !ok {
		return false
	}
	return k == KindResourceInit || k == KindOutputVerification
}
