package bots

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("bot not found")

// ProcessError reports a failed start/stop script invocation. Stderr is for
// server-side logs only and must never reach an API response.
type ProcessError struct {
	Op     string // "start" or "stop"
	Reason string // "script missing", "start failed", "stop failed", "timed out"
	Stderr string
	Err    error
}

func (e *ProcessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *ProcessError) Unwrap() error { return e.Err }
