package launch

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Runner executes an external program
type Runner interface {
	Run(ctx context.Context, dir, program string, args ...string) error
}

// ExecRunner runs programs as child processes
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates a runner attached to the process's own output
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run starts program in dir and waits for it. The process is killed when
// ctx is cancelled.
func (r *ExecRunner) Run(ctx context.Context, dir, program string, args ...string) error {
	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", program, err)
	}
	return nil
}
