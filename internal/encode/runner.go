package encode

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// maxCapturedOutput caps how much combined stdout/stderr is retained from a
// subprocess. Overflow is a failure, not silent truncation.
const maxCapturedOutput = 4 << 20

// Runner executes one external tool invocation and returns the combined
// diagnostic output. The call blocks until the subprocess exits.
type Runner interface {
	Run(ctx context.Context, name string, args []string) (output string, err error)
}

// execRunner is the production Runner. A non-zero timeout bounds each
// invocation; cancellation kills the child via CommandContext.
type execRunner struct {
	timeout time.Duration
}

func (r *execRunner) Run(ctx context.Context, name string, args []string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)

	buf := &cappedBuffer{limit: maxCapturedOutput}
	cmd.Stdout = buf
	cmd.Stderr = buf

	err := cmd.Run()
	return buf.String(), err
}

// cappedBuffer fails the write (and thereby the command) once the limit is
// reached.
type cappedBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if b.buf.Len()+len(p) > b.limit {
		return 0, ErrOutputOverflow
	}
	return b.buf.Write(p)
}

func (b *cappedBuffer) String() string { return b.buf.String() }
