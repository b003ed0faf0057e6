package dispatch

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"codeberg.org/snonux/bag/internal/cli"
)

// Dispatcher runs the command behind an Invocation
type Dispatcher struct {
	logger *log.Logger
}

// NewDispatcher creates a dispatcher logging to logger
func NewDispatcher(logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{logger: logger}
}

// Dispatch instantiates the subcommand's command and runs it
func (d *Dispatcher) Dispatch(ctx context.Context, inv *cli.Invocation) error {
	if inv == nil || inv.Command == nil {
		return fmt.Errorf("no command to dispatch")
	}
	name := inv.Command.Name

	shortcuts := make([]string, len(inv.Topics))
	for i, t := range inv.Topics {
		shortcuts[i] = t.Flag()
	}
	d.logger.Debug("dispatching", "command", name, "dir", inv.Directory, "name", inv.Name, "topics", shortcuts)

	if inv.Command.Factory == nil {
		return fmt.Errorf("%s: no command factory", name)
	}
	cmd, err := inv.Command.Factory()
	if err != nil {
		return fmt.Errorf("failed to create %s command: %w", name, err)
	}

	if err := cmd.Run(ctx, inv); err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}
