package table

import (
	"fmt"

	"github.com/accessolutions/tablehandler/internal/tableconfig"
)

// MarkState is one stop of the marking cycle: unmarked, marked and
// announced on perpendicular movement, marked silently.
type MarkState int

const (
	Unmarked MarkState = iota
	MarkedAnnounce
	MarkedSilent
)

func (s MarkState) String() string {
	switch s {
	case MarkedAnnounce:
		return "marked"
	case MarkedSilent:
		return "marked without announcement"
	default:
		return "unmarked"
	}
}

// ToggleMarkedColumn advances the current column's mark one step through
// the cycle and returns the new state. Marking the row-header column is a
// conflict: the header already follows the user everywhere.
func (m *Manager) ToggleMarkedColumn() (MarkState, error) {
	col := m.col
	if mode, hc := m.cfg.RowHeaderColumn(); mode == tableconfig.HeaderExplicit && hc == col {
		return Unmarked, fmt.Errorf(
			"column %d is the row header column, unset the row header to mark it: %w",
			col, ErrConflict)
	}
	announce, marked := m.cfg.MarkedColumn(col)
	switch {
	case !marked:
		return MarkedAnnounce, m.cfg.SetMarkedColumn(col, true)
	case announce:
		return MarkedSilent, m.cfg.SetMarkedColumn(col, false)
	default:
		return Unmarked, m.cfg.RemoveMarkedColumn(col)
	}
}

// ToggleMarkedRow advances the current row's mark one step through the
// cycle and returns the new state.
func (m *Manager) ToggleMarkedRow() (MarkState, error) {
	row := m.row
	if mode, hr := m.cfg.ColumnHeaderRow(); mode == tableconfig.HeaderExplicit && hr == row {
		return Unmarked, fmt.Errorf(
			"row %d is the column header row, unset the column header to mark it: %w",
			row, ErrConflict)
	}
	announce, marked := m.cfg.MarkedRow(row)
	switch {
	case !marked:
		return MarkedAnnounce, m.cfg.SetMarkedRow(row, true)
	case announce:
		return MarkedSilent, m.cfg.SetMarkedRow(row, false)
	default:
		return Unmarked, m.cfg.RemoveMarkedRow(row)
	}
}

// CycleColumnHeaderRow reacts to the set-column-header command at the
// current row. Pressing on the assigned row unsets it; a repeated press
// while unset disables headers entirely; any other press assigns the
// current row.
func (m *Manager) CycleColumnHeaderRow(repeated bool) (tableconfig.HeaderMode, int, error) {
	mode, row := m.cfg.ColumnHeaderRow()
	switch {
	case mode == tableconfig.HeaderExplicit && row == m.row:
		return tableconfig.HeaderUnset, 0, m.cfg.SetColumnHeaderRow(tableconfig.HeaderUnset, 0)
	case mode == tableconfig.HeaderUnset && repeated:
		return tableconfig.HeaderDisabled, 0, m.cfg.SetColumnHeaderRow(tableconfig.HeaderDisabled, 0)
	default:
		return tableconfig.HeaderExplicit, m.row, m.cfg.SetColumnHeaderRow(tableconfig.HeaderExplicit, m.row)
	}
}

// CycleRowHeaderColumn reacts to the set-row-header command at the current
// column, with the same cycle as CycleColumnHeaderRow.
func (m *Manager) CycleRowHeaderColumn(repeated bool) (tableconfig.HeaderMode, int, error) {
	mode, col := m.cfg.RowHeaderColumn()
	switch {
	case mode == tableconfig.HeaderExplicit && col == m.col:
		return tableconfig.HeaderUnset, 0, m.cfg.SetRowHeaderColumn(tableconfig.HeaderUnset, 0)
	case mode == tableconfig.HeaderUnset && repeated:
		return tableconfig.HeaderDisabled, 0, m.cfg.SetRowHeaderColumn(tableconfig.HeaderDisabled, 0)
	default:
		return tableconfig.HeaderExplicit, m.col, m.cfg.SetRowHeaderColumn(tableconfig.HeaderExplicit, m.col)
	}
}
