// Package launch contains the record and merge commands. They translate a
// resolved Invocation into the command line of an external bag tool and run
// it in the target directory; bag contents are never touched here.
package launch
