package cli

import (
	"bytes"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"codeberg.org/snonux/bag/internal/topic"
)

// Resolve parses args (without the program name). It returns a Result for
// invocations and help or version requests, and a *UsageError when args do
// not match the grammar. Resolve has no side effects; help text is returned
// in Result.Output rather than printed.
func (g *Grammar) Resolve(args []string) (*Result, error) {
	var out bytes.Buffer
	root, state, err := g.build(&out)
	if err != nil {
		return nil, err
	}

	// cobra falls back to os.Args on nil
	if args == nil {
		args = []string{}
	}
	if flag, ok := terminalFlag(args); ok {
		args = []string{flag}
	}
	root.SetArgs(args)

	executed, err := root.ExecuteC()
	if err != nil {
		usageErr := &UsageError{Command: root.CommandPath(), Err: err}
		if executed != nil {
			usageErr.Command = executed.CommandPath()
			usageErr.Usage = executed.UsageString()
		}
		return nil, usageErr
	}

	if state.invocation != nil {
		return &Result{Kind: ResultInvocation, Invocation: state.invocation}, nil
	}
	if version, _ := root.Flags().GetBool(flagVersion); version {
		return &Result{Kind: ResultVersion, Output: out.String()}, nil
	}
	return &Result{Kind: ResultHelp, Output: out.String()}, nil
}

// terminalFlag returns the first --help or --version given before the
// subcommand. Either one ends parsing, so the tokens after it are ignored.
func terminalFlag(args []string) (string, bool) {
	for _, arg := range args {
		switch {
		case arg == "--"+flagHelp || arg == "--"+flagVersion:
			return arg, true
		case arg == "--" || !strings.HasPrefix(arg, "-"):
			return "", false
		}
	}
	return "", false
}

func (g *Grammar) resolve(spec *CommandSpec, cmd *cobra.Command, topics map[string]*topicValue, args []string) (*Invocation, error) {
	fs := cmd.Flags()

	values, err := collectValues(spec, fs, topics)
	if err != nil {
		return nil, err
	}

	inv := &Invocation{
		Command:   spec,
		Directory: DefaultDirectory,
		Values:    make(map[string]Value, len(spec.StaticFlags)),
	}
	if len(args) > 0 {
		inv.Directory = args[0]
	}
	if fs.Changed(flagName) {
		inv.Name, _ = fs.GetString(flagName)
		inv.HasName = true
	}
	for _, f := range spec.StaticFlags {
		inv.Values[f.Name] = values[f.Name]
	}
	inv.Topics = selectTopics(g.catalog, values)

	return inv, nil
}

// collectValues flattens every flag of fs into tagged values
func collectValues(spec *CommandSpec, fs *pflag.FlagSet, topics map[string]*topicValue) (map[string]Value, error) {
	values := make(map[string]Value)
	var firstErr error

	fs.VisitAll(func(f *pflag.Flag) {
		if firstErr != nil {
			return
		}
		if tv, ok := topics[f.Name]; ok {
			values[f.Name] = TopicReference(tv.Topic())
			return
		}
		if sf, ok := spec.lookupFlag(f.Name); ok {
			v, err := readStaticFlag(fs, sf)
			if err != nil {
				firstErr = err
				return
			}
			values[f.Name] = v
			return
		}
		values[f.Name] = ScalarValue(f.Value.String())
	})

	return values, firstErr
}

// selectTopics returns the topics whose shortcut was given, in catalog
// order, or the whole catalog when none was given.
func selectTopics(catalog *topic.Catalog, values map[string]Value) []*topic.Descriptor {
	var explicit []*topic.Descriptor
	for _, v := range values {
		if v.Kind == KindTopic && v.Topic != nil {
			explicit = append(explicit, v.Topic)
		}
	}

	if len(explicit) == 0 {
		return catalog.All()
	}
	return catalog.Sort(explicit)
}
