// Package pipeline sequences transform operations per file and aggregates a
// whole batch: classify, transform, place, report. It always completes and
// returns a result, even when every file fails.
package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"mediapress/internal/config"
	"mediapress/internal/encode"
	"mediapress/pkg/mediakind"
)

// Pipeline coordinates a batch over a Transformer.
type Pipeline struct {
	eng Transformer
	log zerolog.Logger
}

func New(eng Transformer, log zerolog.Logger) *Pipeline {
	return &Pipeline{eng: eng, log: log}
}

// Run processes the input paths strictly sequentially. Per-file errors
// (unsupported type, transform failure, placement failure) become failure
// entries; nothing aborts the remaining batch. Cancelling ctx stops between
// files and kills an in-flight subprocess; already-visited results are kept
// and unvisited files are recorded as failures so the counts invariant
// holds. updates may be nil.
func (p *Pipeline) Run(ctx context.Context, paths []string, opts config.ProcessingOptions, updates chan<- ProgressUpdate) BatchResult {
	batchID := uuid.NewString()
	result := BatchResult{BatchID: batchID, TotalFiles: len(paths)}
	log := p.log.With().Str("batch", batchID).Logger()

	if err := opts.Validate(); err != nil {
		for _, path := range paths {
			result.Failures = append(result.Failures, Failure{
				File:   filepath.Base(path),
				Reason: err.Error(),
			})
		}
		result.FailureCount = len(paths)
		return result
	}

	log.Info().Int("files", len(paths)).Msg("batch started")

	count := len(paths)
	for i, path := range paths {
		name := filepath.Base(path)

		if ctx.Err() != nil {
			result.Failures = append(result.Failures, Failure{File: name, Reason: "canceled"})
			result.FailureCount++
			continue
		}

		fileID := uuid.NewString()
		send := func(stage FileStage, detail string, filePct int) {
			if updates == nil {
				return
			}
			updates <- ProgressUpdate{
				BatchID:        batchID,
				FileID:         fileID,
				FileIndex:      i,
				FileCount:      count,
				File:           name,
				Stage:          stage,
				Detail:         detail,
				FilePercent:    filePct,
				OverallPercent: (i*100 + filePct) / count,
			}
		}

		log.Info().Str("file", name).Msgf("[%d/%d] processing", i+1, count)
		send(StageClassifying, "", 0)

		kind, mime := mediakind.Sniff(path)
		if kind == mediakind.KindUnsupported {
			reason := "unsupported file type: unknown"
			if mime != "" {
				reason = "unsupported file type: " + mime
			}
			log.Warn().Str("file", name).Str("mime", mime).Msg("skipping unsupported file")
			result.Failures = append(result.Failures, Failure{File: name, Reason: reason})
			result.FailureCount++
			send(StageFailed, reason, 100)
			continue
		}

		progress := func(s encode.Stage, pct int) {
			send(StageTransforming, s.String(), pct)
		}

		res, err := p.transformFile(ctx, path, kind, opts, progress)
		if err != nil {
			log.Error().Str("file", name).Err(err).Msg("transform failed")
			result.Failures = append(result.Failures, Failure{File: name, Reason: err.Error()})
			result.FailureCount++
			send(StageFailed, err.Error(), 100)
			continue
		}

		// The PDF size guard can hand back the untouched original; that one
		// must never be relocated away from its source location.
		if opts.OutputFolder != "" && res.OutputPath != path {
			send(StagePlacing, opts.OutputFolder, 100)
			placed, err := place(res.OutputPath, opts.OutputFolder)
			if err != nil {
				log.Error().Str("file", name).Err(err).Msg("placement failed")
				result.Failures = append(result.Failures, Failure{File: name, Reason: err.Error()})
				result.FailureCount++
				send(StageFailed, err.Error(), 100)
				continue
			}
			res.OutputPath = placed
		}

		if _, err := os.Stat(res.OutputPath); err != nil {
			reason := "output missing after processing: " + res.OutputPath
			result.Failures = append(result.Failures, Failure{File: name, Reason: reason})
			result.FailureCount++
			send(StageFailed, reason, 100)
			continue
		}

		result.Successes = append(result.Successes, ProcessingResult{
			File:          name,
			Kind:          kind,
			Success:       true,
			OutputPath:    res.OutputPath,
			OriginalSize:  res.OriginalSize,
			ProcessedSize: res.ProcessedSize,
		})
		result.SuccessCount++
		result.OriginalBytes += res.OriginalSize
		result.ProcessedBytes += res.ProcessedSize

		log.Info().
			Str("file", name).
			Int64("original", res.OriginalSize).
			Int64("processed", res.ProcessedSize).
			Msg("processed")
		send(StageSucceeded, "", 100)
	}

	log.Info().
		Int("succeeded", result.SuccessCount).
		Int("failed", result.FailureCount).
		Msg("batch finished")
	return result
}
