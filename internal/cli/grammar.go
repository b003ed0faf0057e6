package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/bag/internal/topic"
)

const (
	flagHelp    = "help"
	flagName    = "name"
	flagVersion = "version"

	// DefaultDirectory is used when no dir argument is given
	DefaultDirectory = "."
)

var reservedFlags = map[string]bool{
	flagHelp:    true,
	flagName:    true,
	flagVersion: true,
}

// Program describes the executable for help and version output
type Program struct {
	Name        string
	Short       string
	Description string
	Version     string
}

// Grammar turns command lines into Invocations. It combines the static
// subcommand specs with one shortcut flag per catalog topic.
type Grammar struct {
	program Program
	catalog *topic.Catalog
	specs   []CommandSpec
}

// parseState collects what the cobra callbacks observed during one parse
type parseState struct {
	invocation *Invocation
}

// NewGrammar validates specs against the catalog and returns a grammar.
// Every collision is reported here, before any user input is read.
func NewGrammar(program Program, catalog *topic.Catalog, specs ...CommandSpec) (*Grammar, error) {
	if catalog == nil {
		return nil, &ConfigurationError{Reason: "no topic catalog given"}
	}
	if program.Name == "" {
		return nil, &ConfigurationError{Reason: "program name is empty"}
	}
	if err := validate(catalog, specs); err != nil {
		return nil, err
	}

	g := &Grammar{
		program: program,
		catalog: catalog,
		specs:   append([]CommandSpec(nil), specs...),
	}

	// Catch anything the flag library would reject, e.g. mistyped defaults
	if _, _, err := g.build(io.Discard); err != nil {
		return nil, err
	}

	return g, nil
}

// Catalog returns the catalog the grammar was built from
func (g *Grammar) Catalog() *topic.Catalog {
	return g.catalog
}

func validate(catalog *topic.Catalog, specs []CommandSpec) error {
	if len(specs) == 0 {
		return &ConfigurationError{Reason: "no subcommands defined"}
	}

	commands := make(map[string]bool, len(specs))
	for i := range specs {
		spec := &specs[i]
		switch {
		case spec.Name == "" || strings.HasPrefix(spec.Name, "-") || strings.ContainsAny(spec.Name, " \t"):
			return &ConfigurationError{Reason: fmt.Sprintf("invalid subcommand name %q", spec.Name)}
		case spec.Name == flagHelp:
			return &ConfigurationError{Reason: "subcommand name \"help\" is reserved"}
		case commands[spec.Name]:
			return &ConfigurationError{Reason: fmt.Sprintf("subcommand %q defined twice", spec.Name)}
		case spec.Factory == nil:
			return &ConfigurationError{Reason: fmt.Sprintf("subcommand %q has no command factory", spec.Name)}
		}
		commands[spec.Name] = true

		names := make(map[string]bool, len(spec.StaticFlags))
		shorthands := make(map[string]string)
		for _, f := range spec.StaticFlags {
			switch {
			case f.Name == "" || strings.HasPrefix(f.Name, "-"):
				return &ConfigurationError{Reason: fmt.Sprintf("%s: invalid flag name %q", spec.Name, f.Name)}
			case reservedFlags[f.Name]:
				return &ConfigurationError{Reason: fmt.Sprintf("%s: flag --%s is reserved", spec.Name, f.Name)}
			case names[f.Name]:
				return &ConfigurationError{Reason: fmt.Sprintf("%s: flag --%s defined twice", spec.Name, f.Name)}
			}
			names[f.Name] = true

			if f.Shorthand == "" {
				continue
			}
			if len(f.Shorthand) != 1 {
				return &ConfigurationError{Reason: fmt.Sprintf("%s: shorthand %q of --%s must be one character", spec.Name, f.Shorthand, f.Name)}
			}
			if err := topic.ValidateShortcut(rune(f.Shorthand[0])); err != nil {
				return err
			}
			if other, ok := shorthands[f.Shorthand]; ok {
				return &ConfigurationError{Reason: fmt.Sprintf("%s: shorthand -%s used by --%s and --%s", spec.Name, f.Shorthand, other, f.Name)}
			}
			shorthands[f.Shorthand] = f.Name
		}

		for _, d := range catalog.All() {
			flag := d.Flag()
			switch {
			case reservedFlags[flag]:
				return &ConfigurationError{Shortcut: d.Shortcut, Reason: "collides with a reserved flag"}
			case names[flag]:
				return &ConfigurationError{Shortcut: d.Shortcut, Reason: fmt.Sprintf("collides with flag --%s of %s", flag, spec.Name)}
			case shorthands[flag] != "":
				return &ConfigurationError{
					Shortcut: d.Shortcut,
					Reason:   fmt.Sprintf("collides with shorthand -%s of --%s in %s", flag, shorthands[flag], spec.Name),
				}
			}
		}
	}

	return nil
}

// build creates a fresh command tree writing help and version text to out.
// Cobra keeps parsed flag values on the commands, so every parse gets its
// own tree.
func (g *Grammar) build(out io.Writer) (*cobra.Command, *parseState, error) {
	state := &parseState{}

	root := &cobra.Command{
		Use:           g.program.Name + " <command>",
		Short:         g.program.Short,
		Long:          g.program.Description,
		Version:       g.program.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		// No subcommand given: show the top-level help
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(out)
	root.SetErr(out)
	root.SetVersionTemplate("v{{.Version}}\n")
	// Help is a flag only; "help" as a word is an unknown subcommand
	root.SetHelpCommand(&cobra.Command{Hidden: true})

	// Declared explicitly so cobra does not add -h and -v, which would
	// shadow topic shortcuts
	root.Flags().Bool(flagVersion, false, "show program's version number and exit")
	root.Flags().Bool(flagHelp, false, "show this help message and exit")

	for i := range g.specs {
		sub, err := g.buildSubcommand(&g.specs[i], state)
		if err != nil {
			return nil, nil, err
		}
		root.AddCommand(sub)
	}

	return root, state, nil
}

func (g *Grammar) buildSubcommand(spec *CommandSpec, state *parseState) (*cobra.Command, error) {
	sub := &cobra.Command{
		Use:   spec.Name + " [flags] [dir]",
		Short: spec.Short,
		Long:  spec.Long,
		Args:  cobra.MaximumNArgs(1),
	}

	fs := sub.Flags()
	fs.SortFlags = false

	for _, f := range spec.StaticFlags {
		if err := addStaticFlag(fs, f); err != nil {
			return nil, err
		}
	}
	fs.Bool(flagHelp, false, "show this help message and exit")
	fs.String(flagName, "", "output name")

	topics := make(map[string]*topicValue, g.catalog.Len())
	for _, d := range g.catalog.All() {
		v := newTopicValue(d)
		flag := fs.VarPF(v, d.Flag(), d.Flag(), d.Description)
		flag.NoOptDefVal = "true"
		topics[d.Flag()] = v
	}

	sub.RunE = func(cmd *cobra.Command, args []string) error {
		inv, err := g.resolve(spec, cmd, topics, args)
		if err != nil {
			return err
		}
		state.invocation = inv
		return nil
	}

	return sub, nil
}
