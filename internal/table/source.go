// Package table is the coordinate-addressed model over an externally owned
// content source: lazily materialized rows and cells, navigation along both
// axes, and the per-table customization commands (marks, headers, filter).
//
// Rows and cells are caches, not sources of truth. They can be discarded and
// rebuilt at any time from (table ID, row number, column number) plus the
// live source; only coordinates are stable identifiers.
package table

import "errors"

var (
	// ErrBoundary reports that a movement hit the edge of the table. The
	// current position is left unchanged.
	ErrBoundary = errors.New("edge of table")
	// ErrEmptyTable reports that no cell resolves at all.
	ErrEmptyTable = errors.New("table empty")
	// ErrNoMatchingRow reports that a row filter is active and no further
	// row matches it, as opposed to hitting the edge of the table.
	ErrNoMatchingRow = errors.New("no matching row")
	// ErrNoMarkedColumn reports that no marked column exists in the
	// requested direction.
	ErrNoMarkedColumn = errors.New("no marked column")
	// ErrConflict reports a customization that contradicts the current
	// config, such as marking the row-header column. The wrapping error
	// carries a user-facing hint.
	ErrConflict = errors.New("configuration conflict")
)

// Role classifies a cell as data or header.
type Role int

const (
	RoleData Role = iota
	RoleColumnHeader
	RoleRowHeader
)

// CellData is the source-reported content of one cell.
type CellData struct {
	Text             string
	Role             Role
	RowNumber        int
	ColumnNumber     int
	RowSpan          int
	ColumnSpan       int
	ColumnHeaderText string
	RowHeaderText    string
}

// normalized clamps invalid spans to 1.
func (d CellData) normalized() CellData {
	if d.RowSpan < 1 {
		d.RowSpan = 1
	}
	if d.ColumnSpan < 1 {
		d.ColumnSpan = 1
	}
	return d
}

// covers reports whether the cell's column span includes the given column.
func (d CellData) covers(column int) bool {
	return d.ColumnNumber <= column && column < d.ColumnNumber+d.ColumnSpan
}

// ContentSource supplies table content on demand. Implementations sit over
// volatile host data: every answer may change between calls, signalled by
// the generation counter.
type ContentSource interface {
	// TableID groups all positions belonging to the same logical table.
	TableID() string
	// RowCount returns the number of rows, or ok=false when unknown.
	RowCount() (n int, ok bool)
	// ColumnCount returns the number of columns, or ok=false when unknown.
	ColumnCount() (n int, ok bool)
	// CellAt returns the cell covering the coordinate, or ok=false when the
	// source declines or the coordinate is out of range.
	CellAt(row, column int) (d CellData, ok bool)
	// RowCells returns every cell of a row in column order. A nil result
	// means the row does not exist. The sequence is finite and restartable.
	RowCells(row int) []CellData
	// Generation increases whenever previously returned content may have
	// become stale.
	Generation() uint64
}
