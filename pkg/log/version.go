package log

// Version information for the log module.
const (
	// Version is the current version of the log module. 2.0 dropped the
	// Uint64 field helper in favour of Hex and level parsing.
	Version = "2.0.0"

	// MinCompatibleVersion is the minimum version that is compatible with this version.
	MinCompatibleVersion = "2.0.0"
)
