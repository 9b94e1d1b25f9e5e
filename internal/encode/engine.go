// Package encode wraps single invocations of the external encoders: one
// operation in, one verified output file out. Argument construction,
// execution, and output verification live here; sequencing of multiple
// operations is the pipeline's job.
package encode

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"mediapress/internal/preset"
	"mediapress/internal/toolpath"
)

// Output filename suffixes. Sibling outputs derive from the input basename;
// the suffixes are part of the filesystem contract.
const (
	resizedSuffix = "resized"
	minSuffix     = "min"
)

// Engine executes one external-tool operation at a time.
type Engine struct {
	locator *toolpath.Locator
	runner  Runner
	log     zerolog.Logger
}

// New constructs the production engine. timeout bounds each invocation;
// zero disables the bound.
func New(locator *toolpath.Locator, log zerolog.Logger, timeout time.Duration) *Engine {
	return &Engine{
		locator: locator,
		runner:  &execRunner{timeout: timeout},
		log:     log,
	}
}

// NewWithRunner constructs an engine with an injected Runner. Used by tests
// to fake subprocess behavior.
func NewWithRunner(locator *toolpath.Locator, runner Runner, log zerolog.Logger) *Engine {
	return &Engine{locator: locator, runner: runner, log: log}
}

// ResizeImage re-encodes a still image to WebP, scaled to fit within the
// preset bounds (aspect ratio preserved, never upscaled).
func (e *Engine) ResizeImage(ctx context.Context, path string, p preset.Preset, progress ProgressFunc) (Result, error) {
	progress.report(StageAnalyzing)
	orig, err := fileSize(path)
	if err != nil {
		return Result{}, err
	}
	e.logImageInfo(path)

	out := siblingPath(path, resizedSuffix, "webp")
	args := buildImageArgs(path, out, imageScaleFilter(p))
	return e.run(ctx, toolpath.FFmpeg, args, out, orig, progress)
}

// ResizeVideo re-encodes a video for web delivery at the preset geometry.
// Exact presets scale to fit and pad to the exact target; bounded presets
// scale only.
func (e *Engine) ResizeVideo(ctx context.Context, path string, p preset.Preset, progress ProgressFunc) (Result, error) {
	progress.report(StageAnalyzing)
	orig, err := fileSize(path)
	if err != nil {
		return Result{}, err
	}

	out := siblingPath(path, resizedSuffix, "mp4")
	args := buildVideoArgs(path, out, videoScaleFilter(p))
	return e.run(ctx, toolpath.FFmpeg, args, out, orig, progress)
}

// CompressImage re-encodes a still image to WebP at the fixed quality and
// effort settings, without scaling.
func (e *Engine) CompressImage(ctx context.Context, path string, progress ProgressFunc) (Result, error) {
	progress.report(StageAnalyzing)
	orig, err := fileSize(path)
	if err != nil {
		return Result{}, err
	}
	e.logImageInfo(path)

	out := siblingPath(path, minSuffix, "webp")
	args := buildImageArgs(path, out, "")
	return e.run(ctx, toolpath.FFmpeg, args, out, orig, progress)
}

// CompressVideo re-encodes a video with the same codec and rate-quality
// settings as resizing, without a scale filter.
func (e *Engine) CompressVideo(ctx context.Context, path string, progress ProgressFunc) (Result, error) {
	progress.report(StageAnalyzing)
	orig, err := fileSize(path)
	if err != nil {
		return Result{}, err
	}

	out := siblingPath(path, minSuffix, "mp4")
	args := buildVideoArgs(path, out, "")
	return e.run(ctx, toolpath.FFmpeg, args, out, orig, progress)
}

// CompressPDF optimizes a PDF through Ghostscript at the given quality tier.
// When the optimized file is not strictly smaller than the input it is
// discarded and the original is reported as the output, so the caller never
// receives a "compressed" file that grew.
func (e *Engine) CompressPDF(ctx context.Context, path string, q PDFQuality, progress ProgressFunc) (Result, error) {
	progress.report(StageAnalyzing)
	orig, err := fileSize(path)
	if err != nil {
		return Result{}, err
	}

	out := siblingPath(path, minSuffix, "pdf")
	args := buildPDFArgs(path, out, q)
	res, err := e.run(ctx, toolpath.Ghostscript, args, out, orig, progress)
	if err != nil {
		return Result{}, err
	}

	if res.ProcessedSize >= res.OriginalSize {
		e.log.Debug().
			Str("file", filepath.Base(path)).
			Int64("original", res.OriginalSize).
			Int64("optimized", res.ProcessedSize).
			Msg("optimized PDF not smaller, keeping original")
		_ = os.Remove(out)
		res.OutputPath = path
		res.ProcessedSize = res.OriginalSize
	}
	return res, nil
}

// run resolves the tool, executes it, and verifies the expected output. A
// clean exit without the output file present is a distinct failure from a
// failed execution.
func (e *Engine) run(ctx context.Context, tool toolpath.Tool, args []string, out string, orig int64, progress ProgressFunc) (Result, error) {
	resolution := e.locator.Resolve(tool)

	progress.report(StageTransforming)
	e.log.Debug().
		Str("tool", resolution.Path).
		Strs("args", args).
		Msg("invoking encoder")

	output, err := e.runner.Run(ctx, resolution.Path, args)
	if err != nil {
		_ = os.Remove(out)
		if isSpawnFailure(err) {
			return Result{}, &ToolNotFoundError{Tool: tool, Searched: resolution.Searched}
		}
		return Result{}, &ExecError{Tool: tool, Err: err, Output: output}
	}

	progress.report(StageFinalizing)
	info, err := os.Stat(out)
	if err != nil {
		return Result{}, fmt.Errorf("%w: expected %s", ErrOutputNotProduced, filepath.Base(out))
	}

	progress.report(StageDone)
	return Result{OutputPath: out, OriginalSize: orig, ProcessedSize: info.Size()}, nil
}

func (e *Engine) logImageInfo(path string) {
	info := analyzeImage(path)
	if info.Width == 0 && !info.HasEXIF {
		return
	}
	ev := e.log.Debug().
		Str("file", filepath.Base(path)).
		Int("width", info.Width).
		Int("height", info.Height).
		Bool("exif", info.HasEXIF)
	if info.CameraModel != "" {
		ev = ev.Str("camera", info.CameraModel)
	}
	ev.Msg("source image")
}

// siblingPath derives the output filename next to the input:
// dir/name.ext -> dir/name.<suffix>.<newExt>.
func siblingPath(input, suffix, newExt string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return fmt.Sprintf("%s.%s.%s", base, suffix, newExt)
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat input: %w", err)
	}
	return info.Size(), nil
}
