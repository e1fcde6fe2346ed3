package bots

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// ProcessInspector counts live OS processes matching a signature. Status
// derivation depends on this interface so it stays deterministic under test.
type ProcessInspector interface {
	CountMatching(ctx context.Context, signature string) (int, error)
}

// PgrepInspector counts processes via pgrep -f. pgrep exits 1 when nothing
// matches, which is a zero count rather than a failure.
type PgrepInspector struct{}

func (PgrepInspector) CountMatching(ctx context.Context, signature string) (int, error) {
	cmd := exec.CommandContext(ctx, "pgrep", "-f", signature)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return 0, nil
		}
		return 0, err
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return 0, nil
	}
	return len(strings.Split(out, "\n")), nil
}
