// Package executil provides process launching utilities.
package executil

import (
	"context"
	"fmt"
	"os/exec"
)

// Executor launches external programs.
type Executor interface {
	// Start launches a command without waiting for it to exit. The process
	// is reaped in the background.
	Start(ctx context.Context, cmd string, args ...string) error
	// LookPath resolves cmd to an executable path.
	LookPath(cmd string) (string, error)
}

// RealExecutor launches actual processes.
type RealExecutor struct{}

// Start launches the command detached from ctx so that cancelling a batch
// never kills a browser that was already opened.
func (e *RealExecutor) Start(ctx context.Context, cmd string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c := exec.Command(cmd, args...)
	if err := c.Start(); err != nil {
		return fmt.Errorf("exec %s: %w", cmd, err)
	}

	go func() { _ = c.Wait() }()
	return nil
}

// LookPath resolves cmd using the PATH environment variable.
func (e *RealExecutor) LookPath(cmd string) (string, error) {
	path, err := exec.LookPath(cmd)
	if err != nil {
		return "", fmt.Errorf("find %s: %w", cmd, err)
	}
	return path, nil
}
