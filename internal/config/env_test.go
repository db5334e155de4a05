package config

import (
	"testing"

	"github.com/backmassage/movetrace/internal/pose"
)

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("MOVETRACE_ADDR", ":9090")
	t.Setenv("MOVETRACE_UPLOAD_DIR", "/tmp/up")
	t.Setenv("MOVETRACE_COMPLEXITY", "LITE")
	t.Setenv("MOVETRACE_MAX_UPLOAD_MB", "250")
	t.Setenv("MOVETRACE_DETECTION_CONFIDENCE", "0.75")

	cfg := DefaultConfig()
	if err := FromEnv(&cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.ListenAddr != ":9090" {
		t.Errorf("addr: got %q, want :9090", cfg.ListenAddr)
	}
	if cfg.UploadDir != "/tmp/up" {
		t.Errorf("upload dir: got %q", cfg.UploadDir)
	}
	if cfg.ModelComplexity != pose.ComplexityLite {
		t.Errorf("complexity: got %q, want lite (lowercased)", cfg.ModelComplexity)
	}
	if cfg.MaxUploadMB != 250 {
		t.Errorf("upload cap: got %d, want 250", cfg.MaxUploadMB)
	}
	if cfg.DetectionConfidence != 0.75 {
		t.Errorf("detection confidence: got %v, want 0.75", cfg.DetectionConfidence)
	}
}

func TestFromEnv_UnsetLeavesDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if err := FromEnv(&cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddr != ":8000" || cfg.MaxRetries != DefaultMaxRetries {
		t.Errorf("defaults disturbed: %+v", cfg)
	}
}

func TestFromEnv_BadNumber(t *testing.T) {
	t.Setenv("MOVETRACE_MAX_RETRIES", "lots")

	cfg := DefaultConfig()
	if err := FromEnv(&cfg); err == nil {
		t.Fatal("non-numeric retries should error")
	}
}
