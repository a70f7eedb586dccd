// File: internal/runner/run.go
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// execCommandContext is swapped out in tests.
var execCommandContext = exec.CommandContext

// ExitError reports a runner that finished with a non-zero status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("test runner exited with status %d", e.Code)
}

// Streams are the stdio handles given to the runner process.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes the invocation and blocks until the runner exits. A non-zero
// status comes back as *ExitError carrying that status; a runner killed by a
// signal reports status 1.
//
// Cancelling ctx sends the runner SIGTERM and gives it waitDelay to shut
// its browsers down before it is killed. Interrupts are left alone: a
// terminal Ctrl+C already reaches the runner through its process group.
func Run(ctx context.Context, inv Invocation, streams Streams, waitDelay time.Duration) error {
	cmd := execCommandContext(ctx, inv.Path, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = append(os.Environ(), inv.Env...)
	cmd.Stdin = streams.Stdin
	cmd.Stdout = streams.Stdout
	cmd.Stderr = streams.Stderr
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code <= 0 {
			code = 1
		}
		return &ExitError{Code: code}
	}
	return fmt.Errorf("failed to run %s: %w", inv.Path, err)
}
