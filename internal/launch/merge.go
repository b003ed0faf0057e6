package launch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"codeberg.org/snonux/bag/internal"
	"codeberg.org/snonux/bag/internal/cli"
)

const defaultMergeName = "merged"

// Merge launches the bag merger over the bags of a directory
type Merge struct {
	program string
	runner  Runner
	logger  *log.Logger
}

// NewMerge creates a merge command running program through runner
func NewMerge(program string, runner Runner, logger *log.Logger) *Merge {
	if logger == nil {
		logger = log.Default()
	}
	return &Merge{program: program, runner: runner, logger: logger}
}

// Factory returns the cli.Factory for the merge subcommand
func (m *Merge) Factory() cli.Factory {
	return func() (cli.Command, error) {
		if m.program == "" {
			return nil, fmt.Errorf("no merge program configured")
		}
		if m.runner == nil {
			return nil, fmt.Errorf("no runner configured")
		}
		return m, nil
	}
}

// OutputName returns the file name of the merged bag
func OutputName(inv *cli.Invocation) (string, error) {
	if !inv.HasName {
		return defaultMergeName + ".bag", nil
	}
	name := internal.SanitizeFilename(inv.Name)
	if name == "" {
		return "", fmt.Errorf("invalid output name %q", inv.Name)
	}
	if filepath.Ext(name) != ".bag" {
		name += ".bag"
	}
	return name, nil
}

// FindBags lists the bag files in dir by name, skipping exclude
func FindBags(dir, exclude string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.bag"))
	if err != nil {
		return nil, fmt.Errorf("failed to list bags: %w", err)
	}

	bags := make([]string, 0, len(matches))
	for _, m := range matches {
		name := filepath.Base(m)
		if name == exclude {
			continue
		}
		bags = append(bags, name)
	}
	sort.Strings(bags)
	return bags, nil
}

// Args builds the merger's argument vector:
//
//	-o OUTPUT [-t TOPIC]... BAG...
func (m *Merge) Args(inv *cli.Invocation, output string, bags []string) []string {
	args := []string{"-o", output}
	for _, t := range inv.TopicNames() {
		args = append(args, "-t", t)
	}
	return append(args, bags...)
}

// Run merges the bags in inv.Directory, keeping the enabled topics
func (m *Merge) Run(ctx context.Context, inv *cli.Invocation) error {
	output, err := OutputName(inv)
	if err != nil {
		return err
	}
	// Without a -t filter the merger keeps everything
	if len(inv.Topics) > 0 && len(inv.TopicNames()) == 0 {
		return fmt.Errorf("no topics to merge")
	}

	bags, err := FindBags(inv.Directory, output)
	if err != nil {
		return err
	}
	if len(bags) == 0 {
		return fmt.Errorf("no bags found in %s", inv.Directory)
	}

	args := m.Args(inv, output, bags)
	m.logger.Info("merging", "dir", inv.Directory, "bags", len(bags), "output", output)
	m.logger.Debug("exec", "program", m.program, "args", args)

	return m.runner.Run(ctx, inv.Directory, m.program, args...)
}
