package cli

import (
	"codeberg.org/snonux/bag/internal/topic"
)

// ConfigurationError is returned by NewGrammar for malformed specs or
// catalogs.
type ConfigurationError = topic.ConfigurationError

// UsageError reports a command line that does not match the grammar
type UsageError struct {
	Command string // Command path the error was detected in, e.g. "bag record"
	Usage   string // Rendered usage of that command
	Err     error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}
