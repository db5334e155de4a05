package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/backmassage/movetrace/internal/video"
)

func TestBackoff(t *testing.T) {
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
	}
	for _, tc := range cases {
		if got := Backoff(tc.attempt); got != tc.want {
			t.Errorf("Backoff(%d): got %s, want %s", tc.attempt, got, tc.want)
		}
	}
}

func TestProcessWithRetry_ExhaustsAttempts(t *testing.T) {
	f := newFixture(t, 1)
	attempts := 0
	f.proc.openSource = func(path string) (video.Source, error) {
		attempts++
		return nil, errors.New("capture not opened")
	}

	_, err := f.proc.ProcessWithRetry(context.Background(), "in.mp4", f.outputPath, 3)
	if err == nil {
		t.Fatal("expected error after exhaustion")
	}
	if attempts != 3 {
		t.Errorf("attempts: got %d, want 3", attempts)
	}
	if !strings.Contains(err.Error(), "all 3 attempts failed") {
		t.Errorf("terminal error should name the budget, got %q", err)
	}
	if kind, ok := KindOf(err); !ok || kind != KindResourceInit {
		t.Errorf("terminal error should wrap the last cause, got %v", err)
	}

	// Two sleeps between three attempts, doubling each time.
	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(f.sleeps) != len(want) {
		t.Fatalf("sleeps: got %v, want %v", f.sleeps, want)
	}
	for i := range want {
		if f.sleeps[i] != want[i] {
			t.Errorf("sleep[%d]: got %s, want %s", i, f.sleeps[i], want[i])
		}
	}
}

func TestProcessWithRetry_RecoversAfterFailure(t *testing.T) {
	f := newFixture(t, 2)
	attempts := 0
	openSource := f.proc.openSource
	f.proc.openSource = func(path string) (video.Source, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("transient")
		}
		return openSource(path)
	}

	res, err := f.proc.ProcessWithRetry(context.Background(), "in.mp4", f.outputPath, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success {
		t.Error("result should report success")
	}
	if attempts != 2 {
		t.Errorf("attempts: got %d, want 2", attempts)
	}
	if len(f.sleeps) != 1 || f.sleeps[0] != 1*time.Second {
		t.Errorf("sleeps: got %v, want [1s]", f.sleeps)
	}
}

func TestProcessWithRetry_InvalidInputShortCircuits(t *testing.T) {
	f := newFixture(t, 1)
	attempts := 0
	f.proc.validate = func(path string) (video.Metadata, error) {
		attempts++
		return video.Metadata{}, errors.New("video file is empty")
	}

	_, err := f.proc.ProcessWithRetry(context.Background(), "in.mp4", f.outputPath, 3)
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("attempts: got %d, want 1 (no retry on invalid input)", attempts)
	}
	if len(f.sleeps) != 0 {
		t.Errorf("sleeps: got %v, want none", f.sleeps)
	}
	if strings.Contains(err.Error(), "attempts failed") {
		t.Errorf("short-circuit error should surface the cause directly, got %q", err)
	}
}

func TestProcessWithRetry_ZeroBudgetUsesDefault(t *testing.T) {
	f := newFixture(t, 1)
	attempts := 0
	f.proc.openSource = func(path string) (video.Source, error) {
		attempts++
		return nil, errors.New("capture not opened")
	}

	_, err := f.proc.ProcessWithRetry(context.Background(), "in.mp4", f.outputPath, 0)
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 3 {
		t.Errorf("attempts: got %d, want default 3", attempts)
	}
}

func TestProcessWithRetry_CancellationNotRetried(t *testing.T) {
	f := newFixture(t, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.proc.ProcessWithRetry(ctx, "in.mp4", f.outputPath, 3)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if len(f.sleeps) != 0 {
		t.Errorf("sleeps: got %v, want none", f.sleeps)
	}
}
