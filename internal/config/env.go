package config

// Environment configuration for the server binary. A .env file in the
// working directory is loaded first (ignored when absent), then process
// environment variables override cfg fields.

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/backmassage/movetrace/internal/pose"
)

// FromEnv loads .env (if present) and applies MOVETRACE_* environment
// variables on top of cfg. Unset variables leave defaults untouched.
func FromEnv(cfg *Config) error {
	// Missing .env is the normal case in production.
	_ = godotenv.Load()

	if v := os.Getenv("MOVETRACE_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("MOVETRACE_UPLOAD_DIR"); v != "" {
		cfg.UploadDir = v
	}
	if v := os.Getenv("MOVETRACE_OUTPUT_DIR"); v != "" {
		cfg.ResultDir = v
	}
	if v := os.Getenv("MOVETRACE_MODEL_DIR"); v != "" {
		cfg.ModelDir = v
	}
	if v := os.Getenv("MOVETRACE_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("MOVETRACE_COMPLEXITY"); v != "" {
		cfg.ModelComplexity = pose.Complexity(strings.ToLower(v))
	}

	var err error
	if cfg.MaxUploadMB, err = envInt64("MOVETRACE_MAX_UPLOAD_MB", cfg.MaxUploadMB); err != nil {
		return err
	}
	maxRetries, err := envInt64("MOVETRACE_MAX_RETRIES", int64(cfg.MaxRetries))
	if err != nil {
		return err
	}
	cfg.MaxRetries = int(maxRetries)

	if cfg.DetectionConfidence, err = envFloat("MOVETRACE_DETECTION_CONFIDENCE", cfg.DetectionConfidence); err != nil {
		return err
	}
	if cfg.TrackingConfidence, err = envFloat("MOVETRACE_TRACKING_CONFIDENCE", cfg.TrackingConfidence); err != nil {
		return err
	}
	return nil
}

func envInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number (got %q)", key, v)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number (got %q)", key, v)
	}
	return f, nil
}
