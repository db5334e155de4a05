package pipeline

import (
	"testing"

	"github.com/backmassage/movetrace/internal/pose"
)

// --- Keypoint builders ---

// framesWithVisibility builds n detected frames whose landmarks all carry
// the given visibility.
func framesWithVisibility(n int, vis float64) []pose.FrameKeypoints {
	frames := make([]pose.FrameKeypoints, n)
	for i := range frames {
		lms := make([]pose.Landmark, pose.LandmarkCount)
		for j := range lms {
			lms[j] = pose.Landmark{Visibility: vis}
		}
		frames[i] = pose.FrameKeypoints{FrameIndex: i, Landmarks: lms}
	}
	return frames
}

// --- Aggregate ---

func TestAggregate_Rates(t *testing.T) {
	s := Aggregate(Counters{Total: 200, Detected: 150, Failed: 10}, nil)
	if s.DetectionRate != 75 {
		t.Errorf("detection rate: got %.2f, want 75", s.DetectionRate)
	}
	if s.FailedRate != 5 {
		t.Errorf("failed rate: got %.2f, want 5", s.FailedRate)
	}
}

func TestAggregate_ZeroTotal(t *testing.T) {
	s := Aggregate(Counters{}, nil)
	if s.DetectionRate != 0 || s.FailedRate != 0 {
		t.Errorf("zero-frame job should yield zero rates, got %.2f / %.2f",
			s.DetectionRate, s.FailedRate)
	}
	if s.AverageVisibility != nil {
		t.Error("average visibility should be nil with no detections")
	}
}

func TestAggregate_NoDetections(t *testing.T) {
	s := Aggregate(Counters{Total: 50}, nil)
	if s.AverageVisibility != nil {
		t.Errorf("average visibility: got %v, want nil", *s.AverageVisibility)
	}
}

func TestAggregate_AverageVisibilityRounded(t *testing.T) {
	// 1/3 visibility everywhere must round to exactly three decimals.
	s := Aggregate(Counters{Total: 3, Detected: 3}, framesWithVisibility(3, 1.0/3.0))
	if s.AverageVisibility == nil {
		t.Fatal("expected non-nil average")
	}
	if *s.AverageVisibility != 0.333 {
		t.Errorf("average visibility: got %v, want 0.333", *s.AverageVisibility)
	}
}

func TestAggregate_AverageVisibilityMixed(t *testing.T) {
	frames := append(framesWithVisibility(1, 1.0), framesWithVisibility(1, 0.0)...)
	s := Aggregate(Counters{Total: 2, Detected: 2}, frames)
	if s.AverageVisibility == nil || *s.AverageVisibility != 0.5 {
		t.Errorf("average visibility: got %v, want 0.5", s.AverageVisibility)
	}
}

// --- Counters ---

func TestCounters_Record(t *testing.T) {
	var c Counters
	c.Record(OutcomeDetected)
	c.Record(OutcomeDetected)
	c.Record(OutcomeNotDetected)
	c.Record(OutcomeDecodeFailed)
	c.Record(OutcomeEstimationFailed)

	if c.Detected != 2 {
		t.Errorf("detected: got %d, want 2", c.Detected)
	}
	if c.Failed != 2 {
		t.Errorf("failed: got %d, want 2", c.Failed)
	}
	if c.Processed != 0 {
		t.Errorf("processed must not be touched by Record, got %d", c.Processed)
	}
}
