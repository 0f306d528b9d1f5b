package ui

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTTY reports whether stdout is a terminal. Piped output gets no
// styling or interactive prompts.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ColorEnabled honors NO_COLOR and falls back to the terminal's
// detected color profile.
func ColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if !IsTTY() {
		return false
	}
	return termenv.ColorProfile() != termenv.Ascii
}
