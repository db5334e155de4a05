package pose

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// ErrSessionClosed is returned by Process after the session was closed.
var ErrSessionClosed = errors.New("pose session already closed")

// Session is the scoped acquisition of one estimator for the duration of
// one job. Close is idempotent so it can sit in a defer and also be called
// on early exit paths. Sessions must not be shared across concurrent jobs:
// the underlying capability carries mutable tracking state.
type Session struct {
	est    Estimator
	closed bool
}

// OpenSession acquires an estimator from factory. The caller owns the
// returned session and must Close it on every exit path.
func OpenSession(factory Factory, s Settings) (*Session, error) {
	est, err := factory(s)
	if err != nil {
		return nil, fmt.Errorf("pose estimator init: %w", err)
	}
	if est == nil {
		return nil, errors.New("pose estimator init: factory returned nil")
	}
	return &Session{est: est}, nil
}

// Process runs the estimator on one RGB frame.
func (s *Session) Process(frame gocv.Mat) (*Skeleton, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	return s.est.Process(frame)
}

// Close releases the estimator. Safe to call more than once; only the first
// call reaches the capability.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.est.Close()
}
