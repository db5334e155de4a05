package pose

// DNN-backed estimator: a BlazePose-style landmark model loaded through
// OpenCV's dnn module. The model takes a square RGB input and emits one row
// of 39x5 floats (x, y, z in input pixels; visibility and presence logits);
// only the first 33 landmarks form the reported skeleton.

import (
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"
)

const (
	dnnInputSize = 256
	// The landmark head emits 39 rows of 5 values; rows beyond 33 are
	// auxiliary points not part of the skeleton.
	dnnOutputRows   = 39
	dnnValuesPerRow = 5
)

// modelFiles maps complexity to the bundled model filename.
var modelFiles = map[Complexity]string{
	ComplexityLite:  "pose_landmark_lite.onnx",
	ComplexityFull:  "pose_landmark_full.onnx",
	ComplexityHeavy: "pose_landmark_heavy.onnx",
}

// ModelPath returns the on-disk model file for a complexity level.
func ModelPath(modelDir string, c Complexity) string {
	name, ok := modelFiles[c]
	if !ok {
		name = modelFiles[ComplexityFull]
	}
	return filepath.Join(modelDir, name)
}

// DNNFactory returns a Factory that loads the landmark model for the
// requested complexity from modelDir.
func DNNFactory(modelDir string) Factory {
	return func(s Settings) (Estimator, error) {
		return newDNNEstimator(modelDir, s)
	}
}

type dnnEstimator struct {
	net      gocv.Net
	settings Settings

	// tracking is true while the previous frame produced a detection; the
	// acceptance threshold then drops to TrackingConfidence, so a subject
	// already being tracked is not lost to a single low-confidence frame.
	// This state is what makes an estimator instance non-reentrant.
	tracking bool
}

func newDNNEstimator(modelDir string, s Settings) (Estimator, error) {
	path := ModelPath(modelDir, s.Complexity)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("landmark model %s: %w", path, err)
	}

	net := gocv.ReadNetFromONNX(path)
	if net.Empty() {
		return nil, fmt.Errorf("landmark model %s: failed to load network", path)
	}
	return &dnnEstimator{net: net, settings: s}, nil
}

// Process runs one RGB frame through the network. Returns (nil, nil) when
// the model's presence score falls below the configured detection
// confidence.
func (e *dnnEstimator) Process(frame gocv.Mat) (*Skeleton, error) {
	if frame.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	blob := gocv.BlobFromImage(frame, 1.0/255.0,
		image.Pt(dnnInputSize, dnnInputSize), gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	e.net.SetInput(blob, "")
	out := e.net.Forward("")
	defer out.Close()

	raw, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read model output: %w", err)
	}
	if len(raw) < dnnOutputRows*dnnValuesPerRow {
		return nil, fmt.Errorf("unexpected model output size %d", len(raw))
	}

	var sk Skeleton
	var presenceSum float64
	for i := 0; i < LandmarkCount; i++ {
		base := i * dnnValuesPerRow
		x := float64(raw[base])
		y := float64(raw[base+1])
		z := float64(raw[base+2])
		vis := sigmoid(float64(raw[base+3]))
		presence := sigmoid(float64(raw[base+4]))

		sk.Landmarks[i] = Landmark{
			X:          x / dnnInputSize,
			Y:          y / dnnInputSize,
			Z:          z / dnnInputSize,
			Visibility: vis,
		}
		presenceSum += presence
	}

	threshold := e.settings.DetectionConfidence
	if e.tracking {
		threshold = e.settings.TrackingConfidence
	}
	if presenceSum/LandmarkCount < threshold {
		e.tracking = false
		return nil, nil
	}
	e.tracking = true
	return &sk, nil
}

func (e *dnnEstimator) Close() error {
	return e.net.Close()
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
