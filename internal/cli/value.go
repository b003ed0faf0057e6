package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/pflag"

	"codeberg.org/snonux/bag/internal/topic"
)

// ValueKind tags a resolved flag value
type ValueKind int

const (
	// KindScalar holds a bool, int or string
	KindScalar ValueKind = iota
	// KindTopic holds a topic reference, nil when the shortcut was not given
	KindTopic
)

// Value is one resolved flag. Topic selection switches on Kind rather than
// on the dynamic type of the payload.
type Value struct {
	Kind   ValueKind
	Scalar any
	Topic  *topic.Descriptor
}

// ScalarValue wraps a primitive flag value
func ScalarValue(v any) Value {
	return Value{Kind: KindScalar, Scalar: v}
}

// TopicReference wraps a topic flag value
func TopicReference(d *topic.Descriptor) Value {
	return Value{Kind: KindTopic, Topic: d}
}

// topicValue is the pflag.Value behind a generated shortcut flag. It parses
// like a bool but resolves to the descriptor it was generated from.
type topicValue struct {
	descriptor *topic.Descriptor
	selected   bool
}

var _ pflag.Value = (*topicValue)(nil)

func newTopicValue(d *topic.Descriptor) *topicValue {
	return &topicValue{descriptor: d}
}

func (v *topicValue) String() string {
	return strconv.FormatBool(v.selected)
}

func (v *topicValue) Set(s string) error {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	v.selected = b
	return nil
}

func (v *topicValue) Type() string {
	return "bool"
}

// Topic returns the descriptor if the flag was given, nil otherwise
func (v *topicValue) Topic() *topic.Descriptor {
	if !v.selected {
		return nil
	}
	return v.descriptor
}

// addStaticFlag registers f on fs with its declared kind and default
func addStaticFlag(fs *pflag.FlagSet, f StaticFlag) error {
	switch f.Kind {
	case BoolFlag:
		def, ok := defaultOf[bool](f)
		if !ok {
			return badDefault(f)
		}
		fs.BoolP(f.Name, f.Shorthand, def, f.Usage)
	case StringFlag:
		def, ok := defaultOf[string](f)
		if !ok {
			return badDefault(f)
		}
		fs.StringP(f.Name, f.Shorthand, def, f.Usage)
	case IntFlag:
		def, ok := defaultOf[int](f)
		if !ok {
			return badDefault(f)
		}
		fs.IntP(f.Name, f.Shorthand, def, f.Usage)
	default:
		return &topic.ConfigurationError{Reason: fmt.Sprintf("flag --%s has unknown kind %d", f.Name, f.Kind)}
	}
	return nil
}

// readStaticFlag reads the parsed value of f back from fs
func readStaticFlag(fs *pflag.FlagSet, f StaticFlag) (Value, error) {
	var (
		v   any
		err error
	)
	switch f.Kind {
	case BoolFlag:
		v, err = fs.GetBool(f.Name)
	case StringFlag:
		v, err = fs.GetString(f.Name)
	case IntFlag:
		v, err = fs.GetInt(f.Name)
	default:
		err = fmt.Errorf("unknown kind %d", f.Kind)
	}
	if err != nil {
		return Value{}, fmt.Errorf("failed to read flag --%s: %w", f.Name, err)
	}
	return ScalarValue(v), nil
}

func defaultOf[T any](f StaticFlag) (T, bool) {
	var zero T
	if f.Default == nil {
		return zero, true
	}
	v, ok := f.Default.(T)
	return v, ok
}

func badDefault(f StaticFlag) error {
	return &topic.ConfigurationError{
		Reason: fmt.Sprintf("flag --%s has default %v (%T), want %s", f.Name, f.Default, f.Default, f.Kind),
	}
}
