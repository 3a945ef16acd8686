package entities

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTemporary marks infrastructure failures (network, environment) that
// must be propagated to the caller and never turned into artifact errors.
var ErrTemporary = errors.New("temporary-error")

// ExecutionFailure is returned by an executor when a resolver command fails.
type ExecutionFailure struct {
	Command  string // Rendered command that failed
	Stderr   string // Raw standard error of the failed command
	Message  string // Short summary (usually the exit status)
	ExitCode int
}

func (e *ExecutionFailure) Error() string {
	if e.Command == "" {
		return e.Message
	}
	return fmt.Sprintf("command %q failed: %s", e.Command, e.Message)
}

// Diagnostic returns the text reported to users for this failure.
func (e *ExecutionFailure) Diagnostic() string {
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		return stderr
	}
	return e.Message
}
