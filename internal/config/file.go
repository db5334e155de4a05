package config

// Optional YAML settings file support (--config). Only analyzer tuning lives
// here; paths and display settings stay on the command line.

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/backmassage/movetrace/internal/pose"
)

// fileSettings mirrors the YAML schema of a movetrace config file. Pointer
// fields distinguish "absent" from zero values so a partial file only
// overrides what it names.
type fileSettings struct {
	DetectionConfidence *float64 `yaml:"detection_confidence"`
	TrackingConfidence  *float64 `yaml:"tracking_confidence"`
	ModelComplexity     *string  `yaml:"model_complexity"`
	ModelDir            *string  `yaml:"model_dir"`
	MaxRetries          *int     `yaml:"max_retries"`
}

// LoadFile applies settings from a YAML file on top of cfg. Unknown keys are
// rejected so typos fail loudly instead of being ignored.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fs fileSettings
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fs); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fs.DetectionConfidence != nil {
		cfg.DetectionConfidence = *fs.DetectionConfidence
	}
	if fs.TrackingConfidence != nil {
		cfg.TrackingConfidence = *fs.TrackingConfidence
	}
	if fs.ModelComplexity != nil {
		cfg.ModelComplexity = pose.Complexity(*fs.ModelComplexity)
	}
	if fs.ModelDir != nil {
		cfg.ModelDir = *fs.ModelDir
	}
	if fs.MaxRetries != nil {
		cfg.MaxRetries = *fs.MaxRetries
	}
	return nil
}
