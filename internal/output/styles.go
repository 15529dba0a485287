package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Never use inline lipgloss.Color literals outside this block.
var (
	// ColorCyan is used for identifiable nouns: targets, packages, hashes.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for the "built" and "stored" statuses.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for the "modified" diff status.
	ColorYellow = lipgloss.Color("220")

	// ColorRed is used for the "removed" diff status.
	ColorRed = lipgloss.Color("196")

	// ColorBoldRed is used for the "failed" status (matches ERROR level).
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns (target names, package names, hashes).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleAction styles action verbs (hashing, building, storing).
	StyleAction = lipgloss.NewStyle().Bold(true)

	// StyleDim styles structural chrome (scope prefixes, separators).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Target status constants.
const (
	StatusBuilt   = "built"
	StatusStored  = "stored"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
	StatusAdded   = "added"
	StatusRemoved = "removed"
	StatusChanged = "modified"

	// Cache lookup statuses of `cache hashes`.
	StatusCached   = "cached"
	StatusMissing  = "missing"
	StatusExcluded = "excluded"
)

// StatusStyle returns the lipgloss style for a status string.
// Unknown statuses return an unstyled default.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusBuilt, StatusStored, StatusAdded, StatusCached:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusChanged, StatusMissing:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusSkipped, StatusExcluded:
		return lipgloss.NewStyle().Faint(true)
	case StatusRemoved:
		return lipgloss.NewStyle().Foreground(ColorRed)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minTargetColumnWidth keeps status words aligned across lines.
const minTargetColumnWidth = 40

// FormatTargetLine renders a target identifier with a right-aligned,
// color-coded status suffix.
//
// Format: t:<project>/<target>  <status>
func FormatTargetLine(project, target, status string) string {
	path := target
	if project != "" {
		path = project + "/" + target
	}

	padding := minTargetColumnWidth - len(path)
	if padding < 2 {
		padding = 2
	}

	return StyleDim.Render("t:") + StyleNoun.Render(path) + strings.Repeat(" ", padding) + StatusStyle(status).Render(status)
}

// FormatHash shortens a content hash for log lines.
func FormatHash(hash string) string {
	const short = 12
	trimmed := strings.TrimPrefix(hash, "sha256:")
	if len(trimmed) > short {
		trimmed = trimmed[:short]
	}
	return StyleNoun.Render(trimmed)
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}
