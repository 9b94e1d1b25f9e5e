package encode

// Stage is a per-operation progress milestone.
type Stage int

const (
	StageAnalyzing Stage = iota
	StageTransforming
	StageFinalizing
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageAnalyzing:
		return "analyzing"
	case StageTransforming:
		return "transforming"
	case StageFinalizing:
		return "finalizing"
	default:
		return "done"
	}
}

// Percent is the caller-visible completion for the milestone. The values are
// part of the progress contract.
func (s Stage) Percent() int {
	switch s {
	case StageAnalyzing:
		return 10
	case StageTransforming:
		return 40
	case StageFinalizing:
		return 80
	default:
		return 100
	}
}

// ProgressFunc receives the four milestones of a single operation. A nil
// ProgressFunc is valid and reports nothing.
type ProgressFunc func(stage Stage, percent int)

func (f ProgressFunc) report(s Stage) {
	if f != nil {
		f(s, s.Percent())
	}
}

// Result is the outcome of one successful transform operation.
type Result struct {
	OutputPath    string
	OriginalSize  int64
	ProcessedSize int64
}

// PDFQuality selects the Ghostscript optimization tier.
type PDFQuality string

const (
	PDFHigh   PDFQuality = "high"   // 300 dpi, /printer
	PDFMedium PDFQuality = "medium" // 150 dpi, /ebook
	PDFLow    PDFQuality = "low"    // 72 dpi, /screen
)

func (q PDFQuality) devicePreset() string {
	switch q {
	case PDFHigh:
		return "/printer"
	case PDFLow:
		return "/screen"
	default:
		return "/ebook"
	}
}

func (q PDFQuality) resolution() int {
	switch q {
	case PDFHigh:
		return 300
	case PDFLow:
		return 72
	default:
		return 150
	}
}
