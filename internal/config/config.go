// Package config holds runtime configuration: defaults, CLI flag parsing,
// environment overrides for the server binary, and validation.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/backmassage/movetrace/internal/pose"
)

// --- Enum types for validated string fields ---

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// DefaultMaxRetries is the attempt budget used when the caller passes zero.
const DefaultMaxRetries = 3

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] (CLI) or [FromEnv] (server) before being
// passed (by pointer) to packages that need it.
type Config struct {
	// Paths (set from positional args in CLI mode).
	InputPath  string
	OutputPath string

	// Pose estimation.
	DetectionConfidence float64         // Default: 0.5. Range [0, 1].
	TrackingConfidence  float64         // Default: 0.5. Range [0, 1].
	ModelComplexity     pose.Complexity // Default: "full".
	ModelDir            string          // Default: "models". Holds per-complexity landmark models.

	// Retry behavior.
	MaxRetries int // Default: 3. Attempts per job before surfacing failure.

	// Server settings (used by movetrace-server only).
	ListenAddr  string // Default: ":8000".
	UploadDir   string // Default: "uploads".
	ResultDir   string // Default: "outputs".
	MaxUploadMB int64  // Default: 100. Upload size cap enforced while streaming.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// [ParseFlags] or [FromEnv] applies overrides.
func DefaultConfig() Config {
	return Config{
		DetectionConfidence: 0.5,
		TrackingConfidence:  0.5,
		ModelComplexity:     pose.ComplexityFull,
		ModelDir:            "models",
		MaxRetries:          DefaultMaxRetries,
		ListenAddr:          ":8000",
		UploadDir:           "uploads",
		ResultDir:           "outputs",
		MaxUploadMB:         100,
		Verbose:             false,
		ColorMode:           ColorAuto,
		CheckOnly:           false,
	}
}

// Settings returns the pose estimator settings carried by this config.
func (c *Config) Settings() pose.Settings {
	return pose.Settings{
		DetectionConfidence: c.DetectionConfidence,
		TrackingConfidence:  c.TrackingConfidence,
		Complexity:          c.ModelComplexity,
	}
}

// Validate checks enum and range fields. When not in CheckOnly mode it also
// requires a non-empty input path (the output path may be derived from it).
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always', or 'never')")
	}

	switch c.ModelComplexity {
	case pose.ComplexityLite, pose.ComplexityFull, pose.ComplexityHeavy:
		// valid
	default:
		return errors.New("invalid model complexity (use 'lite', 'full', or 'heavy')")
	}

	if c.DetectionConfidence < 0 || c.DetectionConfidence > 1 {
		return fmt.Errorf("detection confidence %.2f out of range [0, 1]", c.DetectionConfidence)
	}
	if c.TrackingConfidence < 0 || c.TrackingConfidence > 1 {
		return fmt.Errorf("tracking confidence %.2f out of range [0, 1]", c.TrackingConfidence)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1 (got %d)", c.MaxRetries)
	}
	if c.MaxUploadMB < 1 {
		return fmt.Errorf("max upload size must be at least 1 MB (got %d)", c.MaxUploadMB)
	}

	if c.CheckOnly {
		return nil
	}
	if c.InputPath == "" {
		return errors.New("need an input video path")
	}
	return nil
}

// DeriveOutputPath returns the output path used when the caller gave none:
// the input path with an "_analyzed" suffix and an .mp4 extension. The
// codec negotiator may still adjust the extension later.
func DeriveOutputPath(inputPath string) string {
	ext := ""
	if i := strings.LastIndexByte(inputPath, '.'); i > strings.LastIndexByte(inputPath, '/') {
		ext = inputPath[i:]
	}
	return strings.TrimSuffix(inputPath, ext) + "_analyzed.mp4"
}
