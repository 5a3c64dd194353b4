package output

import (
	"os"
	"strings"

	"github.com/arthur-debert/clickhooks/pkg/errors"
	"github.com/mattn/go-isatty"
)

// Format represents the output format type
type Format int

const (
	// FormatText renders human-readable tables
	FormatText Format = iota
	// FormatJSON renders machine-readable JSON output
	FormatJSON
	// FormatYAML renders machine-readable YAML output
	FormatYAML
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// ParseFormat parses a string into a Format value
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatText, errors.Newf(errors.ErrInvalidInput, "unknown output format %q", s).
			WithDetail("format", s)
	}
}

// NoColor reports whether output to f should be plain.
func NoColor(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return true
	}
	return !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}
