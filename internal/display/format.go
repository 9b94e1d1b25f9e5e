// Package display renders batch results as text. Everything here is a pure
// function of the result value, so the pipeline stays UI-agnostic and the
// formatting rules are testable on their own.
package display

import (
	"fmt"
	"strings"

	"mediapress/internal/pipeline"
)

// FormatBytes returns a human-readable size using 1024-based units
// (B, KB, MB, GB). Callers rely on this exact scaling and precision.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	value := float64(n)
	for _, suffix := range []string{"KB", "MB"} {
		value /= unit
		if value < unit {
			return fmt.Sprintf("%.1f %s", value, suffix)
		}
	}
	return fmt.Sprintf("%.1f GB", value/unit)
}

// FormatPercent renders a percentage to one decimal place.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// Summary renders the one-line batch outcome: counts, bytes saved with
// percentage reduction (only when both byte totals are positive), and the
// failure count when nonzero.
func Summary(r pipeline.BatchResult) string {
	var b strings.Builder

	switch {
	case r.TotalFiles == 0:
		return "No files to process."
	case r.SuccessCount == 0:
		fmt.Fprintf(&b, "All %d file(s) failed.", r.TotalFiles)
	case r.FailureCount == 0:
		fmt.Fprintf(&b, "Processed %d file(s) successfully.", r.SuccessCount)
	default:
		fmt.Fprintf(&b, "Processed %d of %d files (%d failed).",
			r.SuccessCount, r.TotalFiles, r.FailureCount)
	}

	if r.OriginalBytes > 0 && r.ProcessedBytes > 0 {
		saved := r.OriginalBytes - r.ProcessedBytes
		if saved > 0 {
			reduction := float64(saved) / float64(r.OriginalBytes) * 100
			fmt.Fprintf(&b, " Saved %s (%s smaller).",
				FormatBytes(saved), FormatPercent(reduction))
		}
	}

	return b.String()
}

// FailureReport lists which files failed and why, one per line. Returns ""
// when nothing failed.
func FailureReport(r pipeline.BatchResult) string {
	if len(r.Failures) == 0 {
		return ""
	}
	lines := make([]string, 0, len(r.Failures)+1)
	lines = append(lines, "Failed files:")
	for _, f := range r.Failures {
		lines = append(lines, fmt.Sprintf("  %s: %s", f.File, f.Reason))
	}
	return strings.Join(lines, "\n")
}
