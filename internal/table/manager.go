package table

import (
	"strings"

	"github.com/accessolutions/tablehandler/internal/tableconfig"
)

// Hooks receive position changes. Either field may be nil.
type Hooks struct {
	// RowChanged fires after the current row changed, with the cell at the
	// new position.
	RowChanged func(c *Cell)
	// ColumnChanged fires after the current column changed within the row.
	ColumnChanged func(c *Cell)
}

// Manager tracks a position inside one table and materializes rows and
// cells on demand. It caches whole rows keyed by row number and drops them
// as soon as the source's generation moves on.
type Manager struct {
	src   ContentSource
	cfg   *tableconfig.TableConfig
	hooks Hooks

	row, col int

	filter              string
	filterCaseSensitive bool

	rows map[int]*Row
}

// New returns a manager positioned at (1, 1).
func New(src ContentSource, cfg *tableconfig.TableConfig) *Manager {
	return &Manager{src: src, cfg: cfg, row: 1, col: 1, rows: map[int]*Row{}}
}

// SetHooks installs the change callbacks.
func (m *Manager) SetHooks(h Hooks) { m.hooks = h }

// Source returns the content source the manager reads from.
func (m *Manager) Source() ContentSource { return m.src }

// Config returns the table's settings.
func (m *Manager) Config() *tableconfig.TableConfig { return m.cfg }

// CurrentRow returns the 1-based current row number.
func (m *Manager) CurrentRow() int { return m.row }

// CurrentColumn returns the 1-based current column number.
func (m *Manager) CurrentColumn() int { return m.col }

// SetPosition places the manager without firing hooks. Out-of-range values
// are clamped to 1. Resolvers use it to seed the position from the host
// caret before handing the table to the UI.
func (m *Manager) SetPosition(row, column int) {
	if row < 1 {
		row = 1
	}
	if column < 1 {
		column = 1
	}
	m.row, m.col = row, column
	if c := m.CurrentCell(); c != nil {
		m.row, m.col = c.RowNumber(), c.ColumnNumber()
	}
}

// CurrentCell returns the cell covering the current position, or nil when
// nothing resolves there.
func (m *Manager) CurrentCell() *Cell { return m.CellAt(m.row, m.col) }

// RowAt returns the row with the given number, from cache when the source
// generation has not moved, or nil when the row does not exist.
func (m *Manager) RowAt(number int) *Row {
	if number < 1 {
		return nil
	}
	if n, ok := m.src.RowCount(); ok && number > n {
		return nil
	}
	if r := m.rows[number]; r != nil && r.gen == m.src.Generation() {
		return r
	}
	return m.fetchRow(number)
}

// CellAt returns the cell covering the coordinate, or nil.
func (m *Manager) CellAt(row, column int) *Cell {
	if row < 1 || column < 1 {
		return nil
	}
	if n, ok := m.src.ColumnCount(); ok && column > n {
		return nil
	}
	r := m.RowAt(row)
	if r == nil {
		return nil
	}
	return r.CellAt(column)
}

// Invalidate drops every cached row. The next access re-reads the source.
func (m *Manager) Invalidate() { m.rows = map[int]*Row{} }

// SetFilter installs a row filter used by next/previous row movement. An
// empty text clears it.
func (m *Manager) SetFilter(text string, caseSensitive bool) {
	m.filter = text
	m.filterCaseSensitive = caseSensitive
}

// Filter returns the active row filter.
func (m *Manager) Filter() (text string, caseSensitive bool) {
	return m.filter, m.filterCaseSensitive
}

func (m *Manager) fetchRow(number int) *Row {
	cells := m.src.RowCells(number)
	if len(cells) == 0 {
		delete(m.rows, number)
		return nil
	}
	r := &Row{table: m, number: number, gen: m.src.Generation()}
	r.replace(cells)
	m.rows[number] = r
	return r
}

// rowMatches reports whether any cell text of the row contains the filter.
func (m *Manager) rowMatches(r *Row) bool {
	if m.filter == "" {
		return true
	}
	needle := m.filter
	for _, d := range r.cells {
		text := d.Text
		if !m.filterCaseSensitive {
			text = strings.ToLower(text)
			needle = strings.ToLower(m.filter)
		}
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
