package main

import (
	"fmt"
	"os"

	"canvassak/internal/debug"
	"canvassak/internal/ui"
)

// output prints primary command output to stdout, unconditionally.
func output(format string, args ...any) {
	fmt.Fprintf(os.Stdout, format+"\n", args...)
}

// info prints progress chatter to stderr unless --quiet.
func info(format string, args ...any) {
	if debug.IsQuiet() {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// warn prints a styled warning to stderr unless --quiet.
func warn(format string, args ...any) {
	if debug.IsQuiet() {
		return
	}
	fmt.Fprintln(os.Stderr, styled(ui.RenderWarn, "WARNING: "+fmt.Sprintf(format, args...)))
}

// errorf prints a styled error to stderr, always.
func errorf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, styled(ui.RenderFail, "ERROR: "+fmt.Sprintf(format, args...)))
}

// styled applies a render function only when color output is viable
// (TTY, NO_COLOR unset).
func styled(render func(string) string, s string) string {
	if !ui.ColorEnabled() {
		return s
	}
	return render(s)
}
