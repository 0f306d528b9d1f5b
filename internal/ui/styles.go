// Package ui provides terminal styling for canvas-sak output.
// Uses a Solarized-derived palette with adaptive light/dark support.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Semantic status colors (adaptive light/dark)
	ColorPass = lipgloss.AdaptiveColor{
		Light: "#859900", // solarized green
		Dark:  "#b8bb26",
	}
	ColorWarn = lipgloss.AdaptiveColor{
		Light: "#b58900", // solarized yellow
		Dark:  "#fabd2f",
	}
	ColorFail = lipgloss.AdaptiveColor{
		Light: "#dc322f", // solarized red
		Dark:  "#fb4934",
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#93a1a1",
		Dark:  "#657b83",
	}
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#268bd2", // solarized blue
		Dark:  "#83a598",
	}
)

// Status styles - consistent across all commands
var (
	PassStyle   = lipgloss.NewStyle().Foreground(ColorPass)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	FailStyle   = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle = lipgloss.NewStyle().Foreground(ColorAccent)
)

// HeaderStyle for course and section headers
var HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)

// Status icons
const (
	IconPass = "✓"
	IconWarn = "⚠"
	IconFail = "✗"
	IconSkip = "-"
)

const SeparatorHeavy = "════════════════════════════════════════════════════════════"

// RenderPass renders text with pass (green) styling
func RenderPass(s string) string {
	return PassStyle.Render(s)
}

// RenderWarn renders text with warning (yellow) styling
func RenderWarn(s string) string {
	return WarnStyle.Render(s)
}

// RenderFail renders text with fail (red) styling
func RenderFail(s string) string {
	return FailStyle.Render(s)
}

// RenderMuted renders text with muted (gray) styling
func RenderMuted(s string) string {
	return MutedStyle.Render(s)
}

// RenderAccent renders text with accent (blue) styling
func RenderAccent(s string) string {
	return AccentStyle.Render(s)
}

// RenderHeader renders a section header in uppercase with accent color
func RenderHeader(s string) string {
	return HeaderStyle.Render(strings.ToUpper(s))
}

// RenderSeparator renders the heavy separator line in muted color
func RenderSeparator() string {
	return MutedStyle.Render(SeparatorHeavy)
}
