package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"mediapress/internal/config"
	"mediapress/internal/encode"
	"mediapress/internal/preset"
	"mediapress/pkg/mediakind"
)

// ErrPDFResizeOnly marks the one request shape a PDF cannot satisfy.
var ErrPDFResizeOnly = errors.New("pipeline: PDFs cannot be resized")

// Transformer is the abstract engine the orchestrator drives. *encode.Engine
// is the production implementation; tests substitute fakes.
type Transformer interface {
	ResizeImage(ctx context.Context, path string, p preset.Preset, progress encode.ProgressFunc) (encode.Result, error)
	ResizeVideo(ctx context.Context, path string, p preset.Preset, progress encode.ProgressFunc) (encode.Result, error)
	CompressImage(ctx context.Context, path string, progress encode.ProgressFunc) (encode.Result, error)
	CompressVideo(ctx context.Context, path string, progress encode.ProgressFunc) (encode.Result, error)
	CompressPDF(ctx context.Context, path string, q encode.PDFQuality, progress encode.ProgressFunc) (encode.Result, error)
}

// pdfTier maps the compression mode onto the Ghostscript quality tier.
func pdfTier(mode config.CompressionMode) encode.PDFQuality {
	switch mode {
	case config.ModeMaxOptimize:
		return encode.PDFLow
	case config.ModeMinimumOptimize:
		return encode.PDFHigh
	default:
		return encode.PDFMedium
	}
}

// transformFile selects and runs the per-file pipeline: resize-and-compress,
// resize-only, or compress-only. opts has already been validated.
func (p *Pipeline) transformFile(ctx context.Context, path string, kind mediakind.Kind, opts config.ProcessingOptions, progress encode.ProgressFunc) (encode.Result, error) {
	switch kind {
	case mediakind.KindImage:
		return p.staged(ctx, path, opts, progress,
			func(ctx context.Context, in string, f encode.ProgressFunc) (encode.Result, error) {
				return p.eng.ResizeImage(ctx, in, *opts.Preset, f)
			},
			p.eng.CompressImage,
		)
	case mediakind.KindVideo:
		return p.staged(ctx, path, opts, progress,
			func(ctx context.Context, in string, f encode.ProgressFunc) (encode.Result, error) {
				return p.eng.ResizeVideo(ctx, in, *opts.Preset, f)
			},
			p.eng.CompressVideo,
		)
	case mediakind.KindPDF:
		if !opts.Compress {
			return encode.Result{}, ErrPDFResizeOnly
		}
		return p.eng.CompressPDF(ctx, path, pdfTier(opts.Mode), progress)
	default:
		return encode.Result{}, fmt.Errorf("pipeline: unroutable kind %v", kind)
	}
}

type stageFunc func(ctx context.Context, path string, progress encode.ProgressFunc) (encode.Result, error)

// staged composes resize and compress per the options. In the two-stage
// case the compressor consumes the resize output, the reported original
// size stays that of the true source, and the intermediate artifact is
// removed once superseded (unless it is the final output).
func (p *Pipeline) staged(ctx context.Context, path string, opts config.ProcessingOptions, progress encode.ProgressFunc, resize, compress stageFunc) (encode.Result, error) {
	switch {
	case opts.Resize && opts.Compress:
		resized, err := resize(ctx, path, firstHalf(progress))
		if err != nil {
			return encode.Result{}, err
		}

		final, err := compress(ctx, resized.OutputPath, secondHalf(progress))
		if err != nil {
			if resized.OutputPath != path {
				_ = os.Remove(resized.OutputPath)
			}
			return encode.Result{}, err
		}

		final.OriginalSize = resized.OriginalSize
		if resized.OutputPath != final.OutputPath {
			_ = os.Remove(resized.OutputPath)
		}
		return final, nil

	case opts.Resize:
		return resize(ctx, path, progress)

	default:
		return compress(ctx, path, progress)
	}
}

// firstHalf and secondHalf squeeze each stage's 0-100 milestones into one
// half of the file's progress range, so a two-stage run still reads as a
// single 0-100 sweep.
func firstHalf(progress encode.ProgressFunc) encode.ProgressFunc {
	if progress == nil {
		return nil
	}
	return func(s encode.Stage, pct int) { progress(s, pct/2) }
}

func secondHalf(progress encode.ProgressFunc) encode.ProgressFunc {
	if progress == nil {
		return nil
	}
	return func(s encode.Stage, pct int) { progress(s, 50+pct/2) }
}
