package table

import "sort"

// Row is the cached cell list of one row. The whole row is fetched in one
// pass so that span-covered coordinates resolve without further source
// round-trips.
type Row struct {
	table  *Manager
	number int
	gen    uint64
	cells  []CellData
}

// Number returns the 1-based row number.
func (r *Row) Number() int { return r.number }

// Cells returns the row's cells in column order.
func (r *Row) Cells() []*Cell {
	out := make([]*Cell, len(r.cells))
	for i, d := range r.cells {
		out[i] = &Cell{row: r, data: d}
	}
	return out
}

// CellAt returns the cell whose column span covers the given column. When
// the cached cells no longer cover a column that should exist, the row is
// re-fetched once before giving up: the source may have changed shape
// between the row fetch and this lookup.
func (r *Row) CellAt(column int) *Cell {
	if column < 1 {
		return nil
	}
	if d, ok := r.lookup(column); ok {
		return &Cell{row: r, data: d}
	}
	if n, ok := r.table.src.ColumnCount(); ok && column > n {
		return nil
	}
	cells := r.table.src.RowCells(r.number)
	if len(cells) == 0 {
		delete(r.table.rows, r.number)
		return nil
	}
	r.replace(cells)
	if d, ok := r.lookup(column); ok {
		return &Cell{row: r, data: d}
	}
	return nil
}

func (r *Row) lookup(column int) (CellData, bool) {
	for _, d := range r.cells {
		if d.covers(column) {
			return d, true
		}
	}
	return CellData{}, false
}

func (r *Row) replace(cells []CellData) {
	r.cells = make([]CellData, len(cells))
	for i, d := range cells {
		r.cells[i] = d.normalized()
	}
	sort.SliceStable(r.cells, func(i, j int) bool {
		return r.cells[i].ColumnNumber < r.cells[j].ColumnNumber
	})
	r.gen = r.table.src.Generation()
}
