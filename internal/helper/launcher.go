package helper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"syscall"
)

// Launcher starts a helper and blocks until it exits.
//
// Run returns the exit code when the helper ran to completion, whatever the
// code. A *StartError means no process was created. A context error means
// the process was killed because ctx ended.
type Launcher interface {
	Run(ctx context.Context, inv Invocation) (int, error)
}

// StartError reports that the helper process could not be created.
type StartError struct {
	Helper string
	Err    error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("starting %s: %v", e.Helper, e.Err)
}

func (e *StartError) Unwrap() error { return e.Err }

// ErrorCode extracts the platform error number from err, or 0.
func ErrorCode(err error) int64 {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int64(errno)
	}
	return 0
}

// ExecLauncher runs helpers with os/exec, hiding their window on Windows.
type ExecLauncher struct {
	// Stdout and Stderr receive helper output; nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

func (l *ExecLauncher) Run(ctx context.Context, inv Invocation) (int, error) {
	cmd := exec.CommandContext(ctx, inv.Helper, inv.Args()...)
	hideWindow(cmd, inv)
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	if err := cmd.Start(); err != nil {
		return -1, &StartError{Helper: inv.Helper, Err: err}
	}

	// Wait releases the process handle on every path.
	err := cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, fmt.Errorf("waiting for %s: %w", inv.Helper, ctxErr)
	}
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("waiting for %s: %w", inv.Helper, err)
}
