// Package dispatch hands a resolved Invocation to the command registered for
// its subcommand. It performs no argument interpretation of its own.
package dispatch
