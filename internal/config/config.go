// Package config loads the optional JSON file that customises the detection
// renderer: class colours, extra label mappings, the dataset marker and the
// default confidence threshold.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ironsheep/detection-tools/internal/detection"
	"github.com/ironsheep/detection-tools/internal/labels"
)

// maxFileSize caps the config file at 1MB.
const maxFileSize = 1 * 1024 * 1024

// Config holds user overrides. Nil or empty fields keep the built-in defaults.
type Config struct {
	DatasetMarker *string  `json:"dataset_marker,omitempty"`
	Confidence    *float64 `json:"confidence,omitempty"`

	// Colors maps canonical classes to "#RRGGBB".
	Colors map[string]string `json:"colors,omitempty"`

	// Mappings adds label mappings by name; a built-in name is replaced.
	Mappings map[string]map[string]string `json:"mappings,omitempty"`
}

// Empty returns a Config with every field unset.
func Empty() *Config {
	return &Config{}
}

// Load reads a Config from a JSON file.
// The file must have a .json extension and be at most 1MB. Fields omitted
// from the file keep their defaults, so partial configs are safe.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the values that are set.
func (c *Config) Validate() error {
	if c.DatasetMarker != nil && *c.DatasetMarker == "" {
		return fmt.Errorf("dataset_marker must not be empty")
	}
	if c.Confidence != nil && (*c.Confidence < 0 || *c.Confidence > 1) {
		return fmt.Errorf("confidence must be between 0 and 1, got %f", *c.Confidence)
	}
	for class, hex := range c.Colors {
		if _, err := labels.ParseHex(hex); err != nil {
			return fmt.Errorf("colors[%q]: %w", class, err)
		}
	}
	for name, classes := range c.Mappings {
		if name == "" {
			return fmt.Errorf("mapping name must not be empty")
		}
		if len(classes) == 0 {
			return fmt.Errorf("mapping %q has no labels", name)
		}
	}
	return nil
}

// GetDatasetMarker returns the dataset marker or detection.DefaultMarker.
func (c *Config) GetDatasetMarker() string {
	if c.DatasetMarker == nil {
		return detection.DefaultMarker
	}
	return *c.DatasetMarker
}

// GetConfidence returns the configured threshold or def.
func (c *Config) GetConfidence(def float64) float64 {
	if c.Confidence == nil {
		return def
	}
	return *c.Confidence
}

// Palette returns base with the configured colours applied.
func (c *Config) Palette(base labels.Palette) (labels.Palette, error) {
	if len(c.Colors) == 0 {
		return base, nil
	}
	return base.With(c.Colors)
}

// Registry returns base extended with the configured mappings.
func (c *Config) Registry(base labels.Registry) labels.Registry {
	r := base
	for name, classes := range c.Mappings {
		r = r.With(name, classes)
	}
	return r
}
