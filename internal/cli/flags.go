package cli

// Static flag names of the record subcommand
const (
	FlagNoSplit  = "no-split"
	FlagDuration = "duration"
	FlagBZ2      = "bz2"
	FlagLZ4      = "lz4"
)

// DefaultDuration is the split length in seconds when neither the flag nor
// the config sets one
const DefaultDuration = 15

// RecordFlags returns the static flags of the record subcommand
func RecordFlags(duration int) []StaticFlag {
	return []StaticFlag{
		{Name: FlagNoSplit, Kind: BoolFlag, Default: false, Usage: "don't split bag"},
		{Name: FlagDuration, Kind: IntFlag, Default: duration, Usage: "seconds per split"},
		{Name: FlagBZ2, Kind: BoolFlag, Default: false, Usage: "use BZ2 compression"},
		{Name: FlagLZ4, Kind: BoolFlag, Default: false, Usage: "use LZ4 compression"},
	}
}

// RecordSpec describes the record subcommand
func RecordSpec(factory Factory, duration int) CommandSpec {
	return CommandSpec{
		Name:  "record",
		Short: "record topics into split bags",
		Long: `Record the selected topics into bags in the target directory.

Bags are split every --duration seconds unless --no-split is given.
Without any topic flag every topic in the catalog is recorded.`,
		StaticFlags: RecordFlags(duration),
		Factory:     factory,
	}
}

// MergeSpec describes the merge subcommand
func MergeSpec(factory Factory) CommandSpec {
	return CommandSpec{
		Name:  "merge",
		Short: "merge pre-recorded bags by topics",
		Long: `Merge the bags found in the target directory into a single bag
containing only the selected topics.

Without any topic flag every topic in the catalog is kept.`,
		Factory: factory,
	}
}
