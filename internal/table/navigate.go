package table

import (
	"fmt"
	"maps"
	"slices"

	"github.com/accessolutions/tablehandler/internal/tableconfig"
)

// maxRowProbe bounds upward walks when the source cannot report a row
// count.
const maxRowProbe = 10000

// boundaryError distinguishes an empty table from a mere edge: the caller
// hit an edge only if something resolves at the current position.
func (m *Manager) boundaryError() error {
	if m.CurrentCell() == nil {
		return ErrEmptyTable
	}
	return ErrBoundary
}

func (m *Manager) movedRow() {
	if m.hooks.RowChanged != nil {
		m.hooks.RowChanged(m.CurrentCell())
	}
}

func (m *Manager) movedColumn() {
	if m.hooks.ColumnChanged != nil {
		m.hooks.ColumnChanged(m.CurrentCell())
	}
}

// MoveToRow moves straight to a row number, ignoring the row filter.
func (m *Manager) MoveToRow(number int) error {
	if m.RowAt(number) == nil {
		return m.boundaryError()
	}
	m.row = number
	m.movedRow()
	return nil
}

// MoveToColumn moves to the cell covering a column in the current row.
func (m *Manager) MoveToColumn(number int) error {
	dest := m.CellAt(m.row, number)
	if dest == nil {
		return m.boundaryError()
	}
	m.col = dest.ColumnNumber()
	m.movedColumn()
	return nil
}

// MoveNextColumn moves one cell right, stepping over the current cell's
// whole column span.
func (m *Manager) MoveNextColumn() error {
	cur := m.CurrentCell()
	if cur == nil {
		return ErrEmptyTable
	}
	dest := m.CellAt(m.row, cur.ColumnNumber()+cur.ColumnSpan())
	if dest == nil || dest.sameAs(cur) {
		return ErrBoundary
	}
	m.col = dest.ColumnNumber()
	m.movedColumn()
	return nil
}

// MovePreviousColumn moves one cell left. A spanned neighbor resolves to
// its starting column.
func (m *Manager) MovePreviousColumn() error {
	cur := m.CurrentCell()
	if cur == nil {
		return ErrEmptyTable
	}
	to := cur.ColumnNumber() - 1
	if to < 1 {
		return ErrBoundary
	}
	dest := m.CellAt(m.row, to)
	if dest == nil || dest.sameAs(cur) {
		return ErrBoundary
	}
	m.col = dest.ColumnNumber()
	m.movedColumn()
	return nil
}

// MoveNextRow moves down, skipping rows covered by the current cell's row
// span and, when a filter is active, rows that do not match it.
func (m *Manager) MoveNextRow() error {
	cur := m.CurrentCell()
	if cur == nil {
		return ErrEmptyTable
	}
	next := cur.RowNumber() + cur.RowSpan()
	for {
		r := m.RowAt(next)
		if r == nil {
			break
		}
		if m.rowMatches(r) {
			m.row = next
			m.movedRow()
			return nil
		}
		next++
	}
	if m.filter != "" {
		return fmt.Errorf("below row %d: %w", m.row, ErrNoMatchingRow)
	}
	return ErrBoundary
}

// MovePreviousRow moves up, stepping past rows merged into the current
// cell and rows excluded by the filter.
func (m *Manager) MovePreviousRow() error {
	cur := m.CurrentCell()
	if cur == nil {
		return ErrEmptyTable
	}
	for to := m.row - 1; to >= 1; to-- {
		dest := m.CellAt(to, m.col)
		if dest != nil && dest.sameAs(cur) {
			// Still inside the current cell's row span.
			continue
		}
		r := m.RowAt(to)
		if r == nil {
			break
		}
		if !m.rowMatches(r) {
			continue
		}
		m.row = to
		if dest != nil {
			m.row = dest.RowNumber()
		}
		m.movedRow()
		return nil
	}
	if m.filter != "" {
		return fmt.Errorf("above row %d: %w", m.row, ErrNoMatchingRow)
	}
	return ErrBoundary
}

// MoveToFirstRow moves to row 1.
func (m *Manager) MoveToFirstRow() error { return m.MoveToRow(1) }

// MoveToLastRow moves to the last row that actually resolves, probing
// downward from the reported row count: sources may overstate it while
// content is still loading.
func (m *Manager) MoveToLastRow() error {
	if n, ok := m.src.RowCount(); ok {
		for to := n; to >= 1; to-- {
			if m.RowAt(to) != nil {
				m.row = to
				m.movedRow()
				return nil
			}
		}
		return ErrEmptyTable
	}
	// Unknown count: walk up from the current row.
	last := 0
	for to := m.row; to <= maxRowProbe; to++ {
		if m.RowAt(to) == nil {
			break
		}
		last = to
	}
	if last == 0 {
		return m.boundaryError()
	}
	m.row = last
	m.movedRow()
	return nil
}

// MoveToFirstColumn moves to column 1 of the current row.
func (m *Manager) MoveToFirstColumn() error { return m.MoveToColumn(1) }

// MoveToLastColumn moves to the rightmost cell of the current row.
func (m *Manager) MoveToLastColumn() error {
	if n, ok := m.src.ColumnCount(); ok {
		for to := n; to >= 1; to-- {
			if dest := m.CellAt(m.row, to); dest != nil {
				m.col = dest.ColumnNumber()
				m.movedColumn()
				return nil
			}
		}
		return m.boundaryError()
	}
	r := m.RowAt(m.row)
	if r == nil || len(r.cells) == 0 {
		return m.boundaryError()
	}
	m.col = r.cells[len(r.cells)-1].ColumnNumber
	m.movedColumn()
	return nil
}

// MoveToFirstDataCell moves past header rows and columns to the first data
// cell, honoring the configured first data row and column when set.
func (m *Manager) MoveToFirstDataCell() error {
	row := m.cfg.FirstDataRow()
	if row == 0 {
		row = 1
		if mode, hr := m.cfg.ColumnHeaderRow(); mode == tableconfig.HeaderExplicit && hr >= row {
			row = hr + 1
		}
	}
	col := m.cfg.FirstDataColumn()
	if col == 0 {
		col = 1
		if mode, hc := m.cfg.RowHeaderColumn(); mode == tableconfig.HeaderExplicit && hc >= col {
			col = hc + 1
		}
	}
	dest := m.CellAt(row, col)
	if dest == nil {
		return m.boundaryError()
	}
	m.row, m.col = dest.RowNumber(), dest.ColumnNumber()
	m.movedRow()
	return nil
}

// MoveToNextMarkedColumn jumps to the nearest marked column to the right.
func (m *Manager) MoveToNextMarkedColumn() error {
	for _, col := range slices.Sorted(maps.Keys(m.cfg.MarkedColumns())) {
		if col > m.col {
			return m.MoveToColumn(col)
		}
	}
	return fmt.Errorf("after column %d: %w", m.col, ErrNoMarkedColumn)
}

// MoveToPreviousMarkedColumn jumps to the nearest marked column to the
// left.
func (m *Manager) MoveToPreviousMarkedColumn() error {
	cols := slices.Sorted(maps.Keys(m.cfg.MarkedColumns()))
	for i := len(cols) - 1; i >= 0; i-- {
		if cols[i] < m.col {
			return m.MoveToColumn(cols[i])
		}
	}
	return fmt.Errorf("before column %d: %w", m.col, ErrNoMarkedColumn)
}
