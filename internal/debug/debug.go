// Package debug provides environment-gated diagnostic output and the
// global verbose/quiet switches shared by every command.
package debug

import (
	"fmt"
	"os"
)

var (
	enabled     = os.Getenv("CSAK_DEBUG") != ""
	verboseMode = false
	quietMode   = false
)

// Enabled reports whether diagnostic logging is active.
func Enabled() bool {
	return enabled || verboseMode
}

// SetVerbose enables verbose/debug output (--verbose).
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// SetQuiet suppresses non-essential output (--quiet).
func SetQuiet(quiet bool) {
	quietMode = quiet
}

// IsQuiet returns true if quiet mode is enabled.
func IsQuiet() bool {
	return quietMode
}

// Logf writes one diagnostic line to stderr when debugging is enabled.
func Logf(format string, args ...interface{}) {
	if enabled || verboseMode {
		fmt.Fprintf(os.Stderr, "[debug] "+format+"\n", args...)
	}
}
