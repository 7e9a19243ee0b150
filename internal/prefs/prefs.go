// Package prefs holds the user-wide preferences, as opposed to the
// per-table settings kept in the tableconfig catalog.
package prefs

import (
	"fmt"
)

// Prefs is the on-disk structure of prefs.toml.
type Prefs struct {
	// ColumnSeparator is the braille dot pattern rendered between fixed
	// cells, e.g. "4568".
	ColumnSeparator string `toml:"columnSeparator"`
	// RoutingDoubleClickToActivate makes the first routing-key press move
	// to the cell and only a double press activate it.
	RoutingDoubleClickToActivate bool `toml:"routingDoubleClickToActivate"`
	// SetColumnWidthWithRouting lets a routing-key press in resize mode set
	// the width directly.
	SetColumnWidthWithRouting bool `toml:"setColumnWidthWithRouting"`
	// ColumnSeparatorActivateToSetWidth enters resize mode when a routing
	// key lands on a separator.
	ColumnSeparatorActivateToSetWidth bool `toml:"columnSeparatorActivateToSetWidth"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"logLevel"`
}

// Default returns the preferences used before the user saves any.
func Default() Prefs {
	return Prefs{
		ColumnSeparator:                   "4568",
		SetColumnWidthWithRouting:         true,
		ColumnSeparatorActivateToSetWidth: true,
		LogLevel:                          "info",
	}
}

// SeparatorRune maps the dot pattern to its braille character. The empty
// pattern is the blank braille cell.
func (p Prefs) SeparatorRune() (rune, error) {
	r := rune(0x2800)
	for _, c := range p.ColumnSeparator {
		if c < '1' || c > '8' {
			return 0, fmt.Errorf("parse column separator %q: dot %q out of range", p.ColumnSeparator, c)
		}
		r |= 1 << (c - '1')
	}
	return r, nil
}

// Separator returns the separator as a string, falling back to the default
// pattern when the stored one does not parse.
func (p Prefs) Separator() string {
	r, err := p.SeparatorRune()
	if err != nil {
		r, _ = Default().SeparatorRune()
	}
	return string(r)
}
