package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"codeberg.org/snonux/bag/internal"
	"codeberg.org/snonux/bag/internal/cli"
	"codeberg.org/snonux/bag/internal/dispatch"
	"codeberg.org/snonux/bag/internal/launch"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitConfigError = 2
)

var program = cli.Program{
	Name:  "bag",
	Short: "Record and merge bags by topic",
	Description: `bag records topics into split bags and merges pre-recorded bags.

Topics are selected with single-character flags. Without any topic flag
every topic is used.

Examples:
  bag record                      # Record every topic into the current directory
  bag record -c -i --name dive    # Record cameras and IMU only
  bag merge -s /data/bags         # Merge sonar topics of all bags in /data/bags`,
	Version: internal.Version,
}

func main() {
	cli.InitConfig(os.Getenv("BAG_CONFIG"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, launch.NewExecRunner())
	stop()
	os.Exit(code)
}

// run resolves args and dispatches the result, returning the exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer, runner launch.Runner) int {
	logger := newLogger(stderr)

	catalog, err := cli.LoadCatalog()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitConfigError
	}

	record := launch.NewRecord(viper.GetString(cli.KeyRecordProgram), runner, logger)
	merge := launch.NewMerge(viper.GetString(cli.KeyMergeProgram), runner, logger)

	grammar, err := cli.NewGrammar(program, catalog,
		cli.RecordSpec(record.Factory(), cli.RecordDuration()),
		cli.MergeSpec(merge.Factory()),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitConfigError
	}

	result, err := grammar.Resolve(args)
	if err != nil {
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			fmt.Fprint(stderr, usageErr.Usage)
			fmt.Fprintf(stderr, "\n%s: error: %v\n", usageErr.Command, usageErr.Err)
			return exitFailure
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitConfigError
	}

	switch result.Kind {
	case cli.ResultHelp, cli.ResultVersion:
		fmt.Fprint(stdout, result.Output)
		return exitOK
	}

	if err := dispatch.NewDispatcher(logger).Dispatch(ctx, result.Invocation); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	return exitOK
}

func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: program.Name})

	level, err := log.ParseLevel(viper.GetString(cli.KeyLogLevel))
	if err != nil {
		logger.Warn("invalid log level, using info", "level", viper.GetString(cli.KeyLogLevel))
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
