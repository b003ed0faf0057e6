package testutil

import (
	"context"
	"fmt"
	"strings"
)

// RunnerCall records one invocation of MockRunner
type RunnerCall struct {
	Dir     string
	Program string
	Args    []string
}

// String renders the call like a shell command line
func (c RunnerCall) String() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", c.Program, strings.Join(c.Args, " ")))
}

// MockRunner records program executions instead of running them
type MockRunner struct {
	Errors map[string]error // Keyed by program
	Calls  []RunnerCall
}

// Run records the call and returns the configured error for program
func (m *MockRunner) Run(ctx context.Context, dir, program string, args ...string) error {
	m.Calls = append(m.Calls, RunnerCall{
		Dir:     dir,
		Program: program,
		Args:    append([]string(nil), args...),
	})

	if err, ok := m.Errors[program]; ok {
		return err
	}
	return ctx.Err()
}

// LastCall returns the most recent call, or a zero RunnerCall
func (m *MockRunner) LastCall() RunnerCall {
	if len(m.Calls) == 0 {
		return RunnerCall{}
	}
	return m.Calls[len(m.Calls)-1]
}
