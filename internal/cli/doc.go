// Package cli resolves the bag command line. It builds a cobra command tree
// from the static subcommand specs plus one shortcut flag per catalog topic,
// and turns raw arguments into an Invocation, a help or version request, or
// a usage error. Configuration is loaded through viper.
package cli
