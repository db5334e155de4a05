package pose

import (
	"path/filepath"
	"testing"
)

func TestConnections_IndicesInRange(t *testing.T) {
	for i, c := range Connections {
		for _, idx := range c {
			if idx < 0 || idx >= LandmarkCount {
				t.Errorf("connection %d: index %d out of range", i, idx)
			}
		}
		if c[0] == c[1] {
			t.Errorf("connection %d: degenerate edge %v", i, c)
		}
	}
}

func TestModelPath(t *testing.T) {
	cases := []struct {
		c    Complexity
		want string
	}{
		{ComplexityLite, "pose_landmark_lite.onnx"},
		{ComplexityFull, "pose_landmark_full.onnx"},
		{ComplexityHeavy, "pose_landmark_heavy.onnx"},
		{Complexity("bogus"), "pose_landmark_full.onnx"}, // Unknown falls back to full.
	}
	for _, tc := range cases {
		want := filepath.Join("models", tc.want)
		if got := ModelPath("models", tc.c); got != want {
			t.Errorf("ModelPath(%q): got %q, want %q", tc.c, got, want)
		}
	}
}

func TestDNNFactory_MissingModel(t *testing.T) {
	factory := DNNFactory(t.TempDir())
	if _, err := factory(Settings{Complexity: ComplexityFull}); err == nil {
		t.Fatal("expected error for missing model file")
	}
}

func TestSigmoid(t *testing.T) {
	if got := sigmoid(0); got != 0.5 {
		t.Errorf("sigmoid(0): got %v, want 0.5", got)
	}
	if got := sigmoid(10); got < 0.99 {
		t.Errorf("sigmoid(10): got %v, want near 1", got)
	}
	if got := sigmoid(-10); got > 0.01 {
		t.Errorf("sigmoid(-10): got %v, want near 0", got)
	}
}
