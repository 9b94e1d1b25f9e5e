// Package config holds process settings loaded from the environment and the
// per-batch processing options supplied by the caller.
package config

import (
	"errors"
	"os"
	"time"

	"mediapress/internal/preset"
)

// Validation errors for ProcessingOptions.
var (
	ErrNoOperation    = errors.New("config: neither resize nor compress requested")
	ErrPresetRequired = errors.New("config: resize requested without a preset")
)

// CompressionMode selects how aggressively PDFs are optimized. Image and
// video compression settings are fixed and unaffected by the mode.
type CompressionMode int

const (
	// ModeOriginal is the default, general-purpose tier.
	ModeOriginal CompressionMode = iota
	// ModeMaxOptimize favors size over fidelity (screen-oriented).
	ModeMaxOptimize
	// ModeMinimumOptimize favors fidelity over size (print-oriented).
	ModeMinimumOptimize
)

func (m CompressionMode) String() string {
	switch m {
	case ModeMaxOptimize:
		return "max-optimize"
	case ModeMinimumOptimize:
		return "minimum-optimize"
	default:
		return "original"
	}
}

// ProcessingOptions describes what a batch should do to each file. It is
// caller-constructed and read-only through the pipeline.
type ProcessingOptions struct {
	Compress     bool
	Resize       bool
	Preset       *preset.Preset
	Mode         CompressionMode
	OutputFolder string
}

// Validate rejects caller errors before any file is touched.
func (o ProcessingOptions) Validate() error {
	if o.Resize && o.Preset == nil {
		return ErrPresetRequired
	}
	if !o.Resize && !o.Compress {
		return ErrNoOperation
	}
	return nil
}

// Settings is process-wide configuration loaded from environment variables.
type Settings struct {
	FFmpegPath      string
	GhostscriptPath string
	ToolTimeout     time.Duration
	OutputFolder    string
	Verbose         bool
}

// Load reads settings from the environment, applying defaults where unset.
// MEDIAPRESS_TOOL_TIMEOUT bounds each external invocation; "0" disables the
// bound entirely.
func Load() *Settings {
	return &Settings{
		FFmpegPath:      os.Getenv("MEDIAPRESS_FFMPEG"),
		GhostscriptPath: os.Getenv("MEDIAPRESS_GS"),
		ToolTimeout:     getEnvDuration("MEDIAPRESS_TOOL_TIMEOUT", time.Hour),
		OutputFolder:    os.Getenv("MEDIAPRESS_OUTPUT_FOLDER"),
		Verbose:         os.Getenv("MEDIAPRESS_VERBOSE") == "1",
	}
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			return d
		}
	}
	return fallback
}
