package bots

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// ErrRunTimeout reports that an external command outlived its deadline.
var ErrRunTimeout = errors.New("process timed out")

type RunResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// ProcessRunner executes an external command in a working directory.
// Orchestration logic depends on this interface so tests can substitute a
// fake instead of spawning real processes.
type ProcessRunner interface {
	Run(ctx context.Context, command, workDir string, timeout time.Duration) (RunResult, error)
}

// ShellRunner runs commands through bash, capturing exit code and output.
type ShellRunner struct{}

func (ShellRunner) Run(ctx context.Context, command, workDir string, timeout time.Duration) (RunResult, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "bash", "-c", command)
	cmd.Dir = workDir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := RunResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if ctx.Err() == context.DeadlineExceeded {
		result.ExitCode = -1
		return result, ErrRunTimeout
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}
	return result, nil
}
