package report

import (
	"fmt"
	"strings"
)

// Format selects the output encoding of a Renderer.
type Format uint8

const (
	// FormatPretty is the annotated hex timeline.
	FormatPretty Format = iota
	// FormatJSON is a single JSON document written by Finish.
	FormatJSON
)

// ParseFormat parses "pretty" or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pretty":
		return FormatPretty, nil
	case "json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("unsupported format %q (must be pretty or json)", s)
	}
}

// ColorMode is the --color setting.
type ColorMode string

const (
	ColorAuto ColorMode = "auto"
	ColorOn   ColorMode = "on"
	ColorOff  ColorMode = "off"
)

// ParseColorMode parses auto|on|off.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "on":
		return ColorOn, nil
	case "off":
		return ColorOff, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", s)
	}
}

// Enabled resolves the mode; tty is consulted only for ColorAuto.
func (m ColorMode) Enabled(tty func() bool) bool {
	switch m {
	case ColorOn:
		return true
	case ColorOff:
		return false
	default:
		return tty != nil && tty()
	}
}

// Options configures a Renderer.
type Options struct {
	Format Format
	// Color enables ANSI highlighting; otherwise bytes carry bracket markers.
	Color bool
	// Takeaways prints the closing summary block after the last run.
	Takeaways bool
}
