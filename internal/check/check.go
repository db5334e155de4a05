// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for the OpenCV runtime, output codecs,
// and landmark model files.
package check

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"

	"github.com/backmassage/movetrace/internal/config"
	"github.com/backmassage/movetrace/internal/pose"
	"github.com/backmassage/movetrace/internal/video"
)

// Sentinel errors returned by CheckDeps when a required resource is missing.
var (
	ErrModelNotFound = errors.New("landmark model file not found")
	ErrModelUnloaded = errors.New("landmark model failed to load")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints the OpenCV runtime
// version, per-codec writer availability, and landmark model presence for
// every complexity level. Informational only — it does not stop on failure.
// Returns false when any check failed.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := true
	checkOpenCV(log)
	if !checkCodecs(log) {
		ok = false
	}
	if !checkModels(cfg, log) {
		ok = false
	}
	checkTempDir(log)
	return ok
}

// checkOpenCV logs the gocv and OpenCV runtime versions.
func checkOpenCV(log Logger) {
	log.Success("gocv %s / OpenCV %s", gocv.Version(), gocv.OpenCVVersion())
}

// checkCodecs probes every candidate in the preference list and reports
// which writers initialize on this host.
func checkCodecs(log Logger) bool {
	log.Info("Output codecs:")
	any := false
	for _, cand := range video.CodecPreferences {
		if video.ProbeCodec(cand.Codec, cand.Ext) {
			log.Success("  %s (%s)", cand.Codec, cand.Ext)
			any = true
		} else {
			log.Warn("  %s (%s) unavailable", cand.Codec, cand.Ext)
		}
	}
	if !any {
		log.Error("No preferred codec available; jobs will use the hard fallback")
	}
	return any
}

// checkModels reports presence of the landmark model file for each
// complexity level, marking the configured one.
func checkModels(cfg *config.Config, log Logger) bool {
	log.Info("Landmark models (%s):", cfg.ModelDir)
	selected := true
	for _, c := range []pose.Complexity{pose.ComplexityLite, pose.ComplexityFull, pose.ComplexityHeavy} {
		path := pose.ModelPath(cfg.ModelDir, c)
		marker := ""
		if c == cfg.ModelComplexity {
			marker = " (selected)"
		}
		if _, err := os.Stat(path); err == nil {
			log.Success("  %s: %s%s", c, filepath.Base(path), marker)
		} else {
			log.Warn("  %s: missing%s", c, marker)
			if c == cfg.ModelComplexity {
				selected = false
			}
		}
	}
	return selected
}

// checkTempDir verifies the temp directory used by codec probes is writable.
func checkTempDir(log Logger) {
	f, err := os.CreateTemp("", "movetrace-check-*")
	if err != nil {
		log.Error("Temp directory not writable: %v", err)
		return
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	log.Success("Temp directory writable: %s", strings.TrimSuffix(name, filepath.Base(name)))
}

// CheckDeps is the pre-pipeline validation: the landmark model for the
// configured complexity must exist and load. Codec availability is not a
// hard requirement here because negotiation carries its own fallback.
// Returns a sentinel error (wrapped with context) on failure.
func CheckDeps(cfg *config.Config) error {
	path := pose.ModelPath(cfg.ModelDir, cfg.ModelComplexity)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrModelNotFound, path)
	}

	net := gocv.ReadNetFromONNX(path)
	if net.Empty() {
		return fmt.Errorf("%w: %s", ErrModelUnloaded, path)
	}
	net.Close()
	return nil
}
