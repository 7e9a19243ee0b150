package table

import "github.com/accessolutions/tablehandler/internal/tableconfig"

// Cell is the resolved content at one coordinate, with the table's config
// overlaid on what the source reported: header assignments and custom
// header texts take precedence over source-provided values.
type Cell struct {
	row  *Row
	data CellData
}

// Row returns the row the cell belongs to.
func (c *Cell) Row() *Row { return c.row }

// Text returns the cell's content.
func (c *Cell) Text() string { return c.data.Text }

// RowNumber returns the 1-based row the cell starts on.
func (c *Cell) RowNumber() int { return c.data.RowNumber }

// ColumnNumber returns the 1-based column the cell starts on.
func (c *Cell) ColumnNumber() int { return c.data.ColumnNumber }

// RowSpan returns the number of rows the cell covers.
func (c *Cell) RowSpan() int { return c.data.RowSpan }

// ColumnSpan returns the number of columns the cell covers.
func (c *Cell) ColumnSpan() int { return c.data.ColumnSpan }

// sameAs compares by start coordinates, the only stable identity.
func (c *Cell) sameAs(o *Cell) bool {
	return o != nil && c.data.RowNumber == o.data.RowNumber &&
		c.data.ColumnNumber == o.data.ColumnNumber
}

// Role returns the cell's effective role. An explicit header assignment in
// the config wins over the source-reported role; a disabled assignment
// demotes source-reported headers to data.
func (c *Cell) Role() Role {
	cfg := c.row.table.cfg
	if mode, row := cfg.ColumnHeaderRow(); mode == tableconfig.HeaderExplicit {
		if c.data.RowNumber <= row && row < c.data.RowNumber+c.data.RowSpan {
			return RoleColumnHeader
		}
	} else if mode == tableconfig.HeaderUnset && c.data.Role == RoleColumnHeader {
		return RoleColumnHeader
	}
	if mode, col := cfg.RowHeaderColumn(); mode == tableconfig.HeaderExplicit {
		if c.data.covers(col) {
			return RoleRowHeader
		}
	} else if mode == tableconfig.HeaderUnset && c.data.Role == RoleRowHeader {
		return RoleRowHeader
	}
	return RoleData
}

// ColumnHeaderText returns the header announced for the cell's column:
// custom text first, then the assigned header row's cell, then whatever the
// source reported. Empty when headers are disabled.
func (c *Cell) ColumnHeaderText() string {
	cfg := c.row.table.cfg
	if text, ok := cfg.CustomColumnHeader(c.data.ColumnNumber); ok {
		return text
	}
	switch mode, row := cfg.ColumnHeaderRow(); mode {
	case tableconfig.HeaderDisabled:
		return ""
	case tableconfig.HeaderExplicit:
		if h := c.row.table.CellAt(row, c.data.ColumnNumber); h != nil {
			return h.Text()
		}
		return ""
	}
	return c.data.ColumnHeaderText
}

// RowHeaderText returns the header announced for the cell's row, with the
// same precedence as ColumnHeaderText.
func (c *Cell) RowHeaderText() string {
	cfg := c.row.table.cfg
	if text, ok := cfg.CustomRowHeader(c.data.RowNumber); ok {
		return text
	}
	switch mode, col := cfg.RowHeaderColumn(); mode {
	case tableconfig.HeaderDisabled:
		return ""
	case tableconfig.HeaderExplicit:
		if h := c.row.table.CellAt(c.data.RowNumber, col); h != nil {
			return h.Text()
		}
		return ""
	}
	return c.data.RowHeaderText
}

// Marked reports whether the cell's column is marked, and whether the mark
// is announced on row change.
func (c *Cell) Marked() (announce, marked bool) {
	return c.row.table.cfg.MarkedColumn(c.data.ColumnNumber)
}

// Width returns the cell's configured display width for the given display
// size, negative for unbounded.
func (c *Cell) Width(displaySize int) int {
	return c.row.table.cfg.ColumnWidth(displaySize, c.data.ColumnNumber)
}
