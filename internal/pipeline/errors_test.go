package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Message(t *testing.T) {
	err := newError(KindOutputVerification, 42, errors.New("output file is empty"))
	want := "output verification failed (last frame 42): output file is empty"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestError_MessageNoFrame(t *testing.T) {
	err := newError(KindInvalidInput, -1, errors.New("video has no frames"))
	if strings.Contains(err.Error(), "frame") {
		t.Errorf("frame -1 should be omitted from message: %q", err.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := newError(KindResourceInit, -1, cause)
	if !errors.Is(err, cause) {
		t.Error("wrapped cause should survive errors.Is")
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("attempt failed: %w", newError(KindResourceInit, 3, errors.New("x")))
	kind, ok := KindOf(wrapped)
	if !ok || kind != KindResourceInit {
		t.Errorf("got (%v, %v), want (KindResourceInit, true)", kind, ok)
	}

	if _, ok := KindOf(errors.New("plain")); ok {
		t.Error("plain error should not classify")
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"invalid input", newError(KindInvalidInput, -1, errors.New("x")), false},
		{"resource init", newError(KindResourceInit, -1, errors.New("x")), true},
		{"output verification", newError(KindOutputVerification, 10, errors.New("x")), true},
		{"cancellation", context.Canceled, false},
		{"unclassified", errors.New("x"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Retryable(tc.err); got != tc.want {
				t.Errorf("Retryable(%v): got %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
