package output

import "strings"

// Format specifies the output format of a document.
type Format string

const (
	// FormatYAML outputs in YAML format.
	FormatYAML Format = "yaml"

	// FormatJSON outputs in JSON format.
	FormatJSON Format = "json"

	// FormatTable outputs in table format.
	FormatTable Format = "table"
)

// String returns the string representation of the output format.
func (f Format) String() string {
	return string(f)
}

// ParseFormat parses a string into a Format.
// The second return value is false when the string names no known format.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return FormatYAML, true
	case "json":
		return FormatJSON, true
	case "table":
		return FormatTable, true
	default:
		return "", false
	}
}

// ValidDocumentFormats returns valid formats for graph documents.
func ValidDocumentFormats() []string {
	return []string{"yaml", "json"}
}

// ValidListFormats returns valid formats for listing commands.
func ValidListFormats() []string {
	return []string{"table", "json", "yaml"}
}
