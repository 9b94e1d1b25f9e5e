package encode

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"

	"mediapress/internal/toolpath"
)

// Sentinel errors for the failure taxonomy.
var (
	// ErrOutputNotProduced means the external process exited cleanly but the
	// expected output file does not exist. Some encoders silently no-op on
	// malformed input, so this is kept distinct from execution failure.
	ErrOutputNotProduced = errors.New("encode: no output file produced")

	// ErrOutputOverflow means the subprocess wrote more diagnostic output
	// than the capture buffer allows.
	ErrOutputOverflow = errors.New("encode: subprocess output exceeded capture limit")
)

// ToolNotFoundError means the executable could not be spawned at all. It
// carries every path the locator tried, for diagnosis.
type ToolNotFoundError struct {
	Tool     toolpath.Tool
	Searched []string
}

func (e *ToolNotFoundError) Error() string {
	if len(e.Searched) == 0 {
		return fmt.Sprintf("%s not found on PATH", e.Tool.BareName())
	}
	return fmt.Sprintf("%s not found (tried: %s)",
		e.Tool.BareName(), strings.Join(e.Searched, ", "))
}

// ExecError wraps a failed external invocation with the tail of its output.
type ExecError struct {
	Tool   toolpath.Tool
	Err    error
	Output string
}

func (e *ExecError) Error() string {
	tail := outputTail(e.Output, 6)
	if tail == "" {
		return fmt.Sprintf("%s failed: %v", e.Tool.BareName(), e.Err)
	}
	return fmt.Sprintf("%s failed: %v: %s", e.Tool.BareName(), e.Err, tail)
}

func (e *ExecError) Unwrap() error { return e.Err }

func outputTail(out string, lines int) string {
	out = strings.TrimSpace(out)
	if out == "" {
		return ""
	}
	split := strings.Split(out, "\n")
	if len(split) > lines {
		split = split[len(split)-lines:]
	}
	for i, l := range split {
		split[i] = strings.TrimSpace(l)
	}
	return strings.Join(split, " | ")
}

// isSpawnFailure reports whether err is a "cannot start the executable"
// class of failure rather than a runtime failure of the tool itself.
func isSpawnFailure(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}
