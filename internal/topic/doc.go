// Package topic holds the catalog of recordable topics. Each topic is
// selected on the command line through a single-character shortcut, and
// the catalog is the source from which those shortcut flags are generated.
package topic
