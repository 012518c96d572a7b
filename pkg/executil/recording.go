package executil

import (
	"context"
	"os/exec"
	"sync"
)

// RecordedCommand captures a command that was started.
type RecordedCommand struct {
	Cmd  string
	Args []string
}

// RecordingExecutor captures commands for testing.
// Configure Errors and Paths to control return values.
type RecordingExecutor struct {
	mu       sync.Mutex
	Commands []RecordedCommand

	// Errors maps command names to the error Start returns.
	Errors map[string]error

	// Paths maps command names to their resolved path. A command missing
	// from a non-nil map is reported as not found. A nil map resolves every
	// command to itself.
	Paths map[string]string
}

// Start records the command and returns the configured error.
func (e *RecordingExecutor) Start(ctx context.Context, cmd string, args ...string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Commands = append(e.Commands, RecordedCommand{
		Cmd:  cmd,
		Args: args,
	})

	if e.Errors != nil {
		return e.Errors[cmd]
	}
	return nil
}

// LookPath returns the configured path for cmd.
func (e *RecordingExecutor) LookPath(cmd string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.Paths == nil {
		return cmd, nil
	}
	if p, ok := e.Paths[cmd]; ok {
		return p, nil
	}
	return "", &exec.Error{Name: cmd, Err: exec.ErrNotFound}
}

// Started returns a copy of the recorded commands.
func (e *RecordingExecutor) Started() []RecordedCommand {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]RecordedCommand(nil), e.Commands...)
}

// Reset clears recorded commands.
func (e *RecordingExecutor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Commands = nil
}
