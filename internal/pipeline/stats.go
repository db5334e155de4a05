package pipeline

import (
	"math"

	"github.com/backmassage/movetrace/internal/pose"
)

// Stats are the job-level metrics derived from accumulated frame outcomes.
type Stats struct {
	DetectionRate     float64  // Percent of total frames with a detected skeleton.
	FailedRate        float64  // Percent of total frames that failed decode or estimation.
	AverageVisibility *float64 // Mean landmark visibility over detected frames; nil when none.
}

// Aggregate reduces counters and per-frame keypoints into job metrics. It
// is total over degenerate input: zero frames yields zero rates, zero
// detections yields a nil average, and no division ever faults.
func Aggregate(c Counters, frames []pose.FrameKeypoints) Stats {
	var s Stats
	if c.Total > 0 {
		s.DetectionRate = float64(c.Detected) / float64(c.Total) * 100
		s.FailedRate = float64(c.Failed) / float64(c.Total) * 100
	}
	s.AverageVisibility = averageVisibility(frames)
	return s
}

// averageVisibility is the mean visibility of every landmark across every
// detected frame, rounded to three decimals.
func averageVisibility(frames []pose.FrameKeypoints) *float64 {
	var sum float64
	var count int
	for _, f := range frames {
		for _, lm := range f.Landmarks {
			sum += lm.Visibility
			count++
		}
	}
	if count == 0 {
		return nil
	}
	avg := math.Round(sum/float64(count)*1000) / 1000
	return &avg
}
