package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/backmassage/movetrace/internal/pose"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movetrace.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile_PartialOverride(t *testing.T) {
	path := writeConfigFile(t, "detection_confidence: 0.8\nmodel_complexity: heavy\n")

	cfg := DefaultConfig()
	if err := LoadFile(path, &cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.DetectionConfidence != 0.8 {
		t.Errorf("detection confidence: got %v, want 0.8", cfg.DetectionConfidence)
	}
	if cfg.ModelComplexity != pose.ComplexityHeavy {
		t.Errorf("complexity: got %q, want heavy", cfg.ModelComplexity)
	}
	// Fields the file doesn't name keep their defaults.
	if cfg.TrackingConfidence != 0.5 {
		t.Errorf("tracking confidence: got %v, want default 0.5", cfg.TrackingConfidence)
	}
	if cfg.MaxRetries != DefaultMaxRetries {
		t.Errorf("max retries: got %d, want default %d", cfg.MaxRetries, DefaultMaxRetries)
	}
}

func TestLoadFile_AllFields(t *testing.T) {
	path := writeConfigFile(t, `
detection_confidence: 0.6
tracking_confidence: 0.4
model_complexity: lite
model_dir: /opt/models
max_retries: 5
`)

	cfg := DefaultConfig()
	if err := LoadFile(path, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.ModelDir != "/opt/models" || cfg.MaxRetries != 5 || cfg.TrackingConfidence != 0.4 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadFile_UnknownKeyRejected(t *testing.T) {
	path := writeConfigFile(t, "detektion_confidence: 0.8\n")

	cfg := DefaultConfig()
	if err := LoadFile(path, &cfg); err == nil {
		t.Fatal("typoed key should fail loudly")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	cfg := DefaultConfig()
	if err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err == nil {
		t.Fatal("missing file should error")
	}
}
