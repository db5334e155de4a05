package pose

import (
	"errors"
	"strings"
	"testing"

	"gocv.io/x/gocv"
)

// --- Fake estimator ---

type fakeEstimator struct {
	processCalls int
	closeCalls   int
}

func (e *fakeEstimator) Process(frame gocv.Mat) (*Skeleton, error) {
	e.processCalls++
	return &Skeleton{}, nil
}

func (e *fakeEstimator) Close() error {
	e.closeCalls++
	return nil
}

func fakeFactory(est Estimator, err error) Factory {
	return func(Settings) (Estimator, error) { return est, err }
}

// --- OpenSession ---

func TestOpenSession_FactoryError(t *testing.T) {
	cause := errors.New("model not loadable")
	_, err := OpenSession(fakeFactory(nil, cause), Settings{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, cause) {
		t.Errorf("cause should be wrapped, got %v", err)
	}
	if !strings.Contains(err.Error(), "pose estimator init") {
		t.Errorf("error should name the init phase, got %q", err)
	}
}

func TestOpenSession_NilEstimator(t *testing.T) {
	if _, err := OpenSession(fakeFactory(nil, nil), Settings{}); err == nil {
		t.Fatal("nil estimator from factory must be an error")
	}
}

// --- Session lifecycle ---

func TestSession_ProcessAfterClose(t *testing.T) {
	est := &fakeEstimator{}
	s, err := OpenSession(fakeFactory(est, nil), Settings{})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	frame := gocv.NewMat()
	defer frame.Close()
	if _, err := s.Process(frame); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("got %v, want ErrSessionClosed", err)
	}
	if est.processCalls != 0 {
		t.Error("closed session must not reach the estimator")
	}
}

func TestSession_CloseIdempotent(t *testing.T) {
	est := &fakeEstimator{}
	s, err := OpenSession(fakeFactory(est, nil), Settings{})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if err := s.Close(); err != nil {
			t.Fatalf("close %d: %v", i, err)
		}
	}
	if est.closeCalls != 1 {
		t.Errorf("estimator close calls: got %d, want 1", est.closeCalls)
	}
}

func TestSession_ProcessDelegates(t *testing.T) {
	est := &fakeEstimator{}
	s, err := OpenSession(fakeFactory(est, nil), Settings{})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	frame := gocv.NewMat()
	defer frame.Close()
	sk, err := s.Process(frame)
	if err != nil {
		t.Fatal(err)
	}
	if sk == nil {
		t.Error("expected skeleton from delegate")
	}
	if est.processCalls != 1 {
		t.Errorf("process calls: got %d, want 1", est.processCalls)
	}
}
