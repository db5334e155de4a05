// Package pose defines the body-landmark data model and the estimator
// capability consumed by the frame pipeline. The estimator itself is opaque
// to callers: it maps one image frame to zero or one detected skeleton.
package pose

import "gocv.io/x/gocv"

// LandmarkCount is the fixed skeleton size produced by the estimator.
const LandmarkCount = 33

// Complexity selects the landmark model variant.
type Complexity string

const (
	ComplexityLite  Complexity = "lite"  // Fastest, least accurate.
	ComplexityFull  Complexity = "full"  // Balanced (default).
	ComplexityHeavy Complexity = "heavy" // Most accurate, slowest.
)

// Settings configures an estimator instance for one job.
type Settings struct {
	DetectionConfidence float64 // Range [0, 1].
	TrackingConfidence  float64 // Range [0, 1].
	Complexity          Complexity
}

// Landmark is one tracked body point in normalized image coordinates.
// Coordinates may extrapolate slightly beyond [0, 1] when the model places
// a joint outside the frame; that is expected, not an error.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"` // Range [0, 1].
}

// Skeleton is the complete set of detected landmarks for one frame, in
// model order (nose first, left heel/foot last).
type Skeleton struct {
	Landmarks [LandmarkCount]Landmark
}

// FrameKeypoints records the skeleton detected on one frame. Entries exist
// only for frames where a skeleton was found.
type FrameKeypoints struct {
	FrameIndex int
	Timestamp  float64 // Seconds: frame index / frame rate.
	Landmarks  []Landmark
}

// Estimator is the pose-estimation capability. Process returns the detected
// skeleton, or (nil, nil) when no person is found in the frame. The frame is
// expected in RGB order. Implementations hold internal tracking state and
// are not safe for concurrent use; obtain one per job via [OpenSession].
type Estimator interface {
	Process(frame gocv.Mat) (*Skeleton, error)
	Close() error
}

// Factory creates an estimator configured with the given settings. It is
// the injection point for tests and alternative backends.
type Factory func(Settings) (Estimator, error)

// Connections lists the landmark index pairs forming the skeleton edges
// drawn by the overlay, matching the standard 33-point body topology.
var Connections = [][2]int{
	// Face.
	{0, 1}, {1, 2}, {2, 3}, {3, 7}, {0, 4}, {4, 5}, {5, 6}, {6, 8}, {9, 10},
	// Torso.
	{11, 12}, {11, 23}, {12, 24}, {23, 24},
	// Left arm and hand.
	{11, 13}, {13, 15}, {15, 17}, {15, 19}, {15, 21}, {17, 19},
	// Right arm and hand.
	{12, 14}, {14, 16}, {16, 18}, {16, 20}, {16, 22}, {18, 20},
	// Left leg and foot.
	{23, 25}, {25, 27}, {27, 29}, {29, 31}, {27, 31},
	// Right leg and foot.
	{24, 26}, {26, 28}, {28, 30}, {30, 32}, {28, 32},
}
