package launch

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"codeberg.org/snonux/bag/internal"
	"codeberg.org/snonux/bag/internal/cli"
)

// Record launches the bag recorder for the enabled topics
type Record struct {
	program string
	runner  Runner
	logger  *log.Logger
}

// NewRecord creates a record command running program through runner
func NewRecord(program string, runner Runner, logger *log.Logger) *Record {
	if logger == nil {
		logger = log.Default()
	}
	return &Record{program: program, runner: runner, logger: logger}
}

// Factory returns the cli.Factory for the record subcommand
func (r *Record) Factory() cli.Factory {
	return func() (cli.Command, error) {
		if r.program == "" {
			return nil, fmt.Errorf("no record program configured")
		}
		if r.runner == nil {
			return nil, fmt.Errorf("no runner configured")
		}
		return r, nil
	}
}

// Args builds the recorder's argument vector:
//
//	record [--split --duration=N] [--bz2|--lz4] [-o NAME] TOPIC...
func (r *Record) Args(inv *cli.Invocation) ([]string, error) {
	args := []string{"record"}

	if !inv.GetBool(cli.FlagNoSplit) {
		duration := inv.GetInt(cli.FlagDuration)
		if duration <= 0 {
			return nil, fmt.Errorf("invalid split duration %d: must be positive", duration)
		}
		args = append(args, "--split", fmt.Sprintf("--duration=%d", duration))
	}

	bz2, lz4 := inv.GetBool(cli.FlagBZ2), inv.GetBool(cli.FlagLZ4)
	switch {
	case bz2 && lz4:
		r.logger.Warn("both --bz2 and --lz4 given, using bz2")
		args = append(args, "--bz2")
	case bz2:
		args = append(args, "--bz2")
	case lz4:
		args = append(args, "--lz4")
	}

	if inv.HasName {
		name := internal.SanitizeFilename(inv.Name)
		if name == "" {
			return nil, fmt.Errorf("invalid output name %q", inv.Name)
		}
		args = append(args, "-o", name)
	}

	topics := inv.TopicNames()
	if len(topics) == 0 {
		return nil, fmt.Errorf("no topics to record")
	}
	return append(args, topics...), nil
}

// Run records the enabled topics into inv.Directory
func (r *Record) Run(ctx context.Context, inv *cli.Invocation) error {
	args, err := r.Args(inv)
	if err != nil {
		return err
	}

	// Create output directory (including parent directories)
	if err := os.MkdirAll(inv.Directory, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	r.logger.Info("recording", "dir", inv.Directory, "topics", len(inv.Topics))
	r.logger.Debug("exec", "program", r.program, "args", args)

	return r.runner.Run(ctx, inv.Directory, r.program, args...)
}
