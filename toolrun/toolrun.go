// Package toolrun is the single primitive every stage uses to invoke an
// external tool. One call, one bounded process: {binary, args, timeout} in,
// captured stdout/stderr out. A timeout surfaces as an ordinary run failure.
package toolrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"vodforge/logger"
)

// Result carries the captured output of one tool invocation. Stderr is kept
// even on failure so callers can log diagnostics.
type Result struct {
	Stdout string
	Stderr string
}

// Runner abstracts process execution so stages can be tested without real
// encoder binaries on the host.
type Runner interface {
	Run(ctx context.Context, binary string, args []string, timeout time.Duration) (Result, error)
}

// ExecRunner runs tools via os/exec.
type ExecRunner struct{}

// Run executes binary with args, killing the process once timeout elapses.
// A non-zero exit and a timeout both return a non-nil error; the partial
// Result is returned in either case.
func (ExecRunner) Run(ctx context.Context, binary string, args []string, timeout time.Duration) (Result, error) {
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	logger.Debugf("Running %s %s", binary, strings.Join(args, " "))

	cmd := exec.CommandContext(runCtx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return res, fmt.Errorf("%s timed out after %s", binary, timeout)
		}
		return res, fmt.Errorf("%s failed: %w: %s", binary, err, StderrTail(res.Stderr))
	}
	return res, nil
}

// StderrTail returns the last few lines of a stderr capture, enough for an
// error message without flooding the failure payload.
func StderrTail(stderr string) string {
	const maxLines = 5
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return strings.Join(lines, " | ")
}
