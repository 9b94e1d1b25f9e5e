package pipeline

import "mediapress/pkg/mediakind"

// FileStage is the per-file state as the coordinator advances it.
type FileStage int

const (
	StagePending FileStage = iota
	StageClassifying
	StageTransforming
	StagePlacing
	StageSucceeded
	StageFailed
)

func (s FileStage) String() string {
	switch s {
	case StageClassifying:
		return "classifying"
	case StageTransforming:
		return "transforming"
	case StagePlacing:
		return "placing"
	case StageSucceeded:
		return "succeeded"
	case StageFailed:
		return "failed"
	default:
		return "pending"
	}
}

// ProgressUpdate reports one step of batch progress. OverallPercent
// interpolates the current file's percentage into its 1/N share of the
// whole batch.
type ProgressUpdate struct {
	BatchID        string
	FileID         string
	FileIndex      int
	FileCount      int
	File           string
	Stage          FileStage
	Detail         string
	FilePercent    int
	OverallPercent int
}

// ProcessingResult is the outcome of one file's full pipeline.
type ProcessingResult struct {
	File          string
	Kind          mediakind.Kind
	Success       bool
	OutputPath    string
	OriginalSize  int64
	ProcessedSize int64
	Error         string
}

// Failure names a file that did not make it through, with the reason.
type Failure struct {
	File   string
	Reason string
}

// BatchResult aggregates a whole batch. Byte totals are summed over
// successes only, and SuccessCount+FailureCount always equals TotalFiles.
type BatchResult struct {
	BatchID        string
	TotalFiles     int
	SuccessCount   int
	FailureCount   int
	OriginalBytes  int64
	ProcessedBytes int64
	Successes      []ProcessingResult
	Failures       []Failure
}
