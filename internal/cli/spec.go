package cli

import (
	"context"
)

// FlagKind is the value type of a static flag
type FlagKind int

const (
	BoolFlag FlagKind = iota
	StringFlag
	IntFlag
)

func (k FlagKind) String() string {
	switch k {
	case BoolFlag:
		return "bool"
	case StringFlag:
		return "string"
	case IntFlag:
		return "int"
	default:
		return "unknown"
	}
}

// StaticFlag is a flag declared by a subcommand, independent of the topic
// catalog
type StaticFlag struct {
	Name      string
	Shorthand string // Optional, at most one character
	Kind      FlagKind
	Default   any // bool, string or int matching Kind; nil means the zero value
	Usage     string
}

// Command is the external collaborator a subcommand hands off to
type Command interface {
	Run(ctx context.Context, inv *Invocation) error
}

// Factory creates the command to run for a subcommand
type Factory func() (Command, error)

// CommandSpec statically describes one subcommand
type CommandSpec struct {
	Name        string
	Short       string
	Long        string
	StaticFlags []StaticFlag
	Factory     Factory
}

func (s *CommandSpec) lookupFlag(name string) (StaticFlag, bool) {
	for _, f := range s.StaticFlags {
		if f.Name == name {
			return f, true
		}
	}
	return StaticFlag{}, false
}
