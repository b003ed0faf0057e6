package cli

import (
	"codeberg.org/snonux/bag/internal/topic"
)

// Invocation is the fully resolved command line handed to the dispatcher
type Invocation struct {
	Command   *CommandSpec
	Directory string
	Name      string
	HasName   bool                // Whether --name was given
	Topics    []*topic.Descriptor // Enabled topics in catalog order
	Values    map[string]Value    // Static flags of Command only
}

// GetBool returns a boolean static flag, false if absent
func (inv *Invocation) GetBool(name string) bool {
	b, _ := inv.Values[name].Scalar.(bool)
	return b
}

// GetInt returns an integer static flag, 0 if absent
func (inv *Invocation) GetInt(name string) int {
	i, _ := inv.Values[name].Scalar.(int)
	return i
}

// GetString returns a string static flag, empty if absent
func (inv *Invocation) GetString(name string) string {
	s, _ := inv.Values[name].Scalar.(string)
	return s
}

// TopicNames flattens the stream names of all enabled topics
func (inv *Invocation) TopicNames() []string {
	var names []string
	for _, d := range inv.Topics {
		names = append(names, d.Topics...)
	}
	return names
}

// ResultKind tells which terminal path a parse took
type ResultKind int

const (
	ResultInvocation ResultKind = iota
	ResultHelp
	ResultVersion
)

func (k ResultKind) String() string {
	switch k {
	case ResultInvocation:
		return "invocation"
	case ResultHelp:
		return "help"
	case ResultVersion:
		return "version"
	default:
		return "unknown"
	}
}

// Result is what Resolve returns. Help and version requests carry the
// rendered text in Output and no Invocation.
type Result struct {
	Kind       ResultKind
	Invocation *Invocation
	Output     string
}
