// Package gridsource provides content sources backed by in-memory grids and
// delimited files, plus the chain adapters that resolve them.
package gridsource

import (
	"sort"
	"sync"

	"github.com/accessolutions/tablehandler/internal/ids"
	"github.com/accessolutions/tablehandler/internal/table"
)

// Static is a mutable in-memory content source. The demo command and the
// integration scaffolding use it; every mutation bumps the generation so
// managers drop their cached rows.
type Static struct {
	mu      sync.Mutex
	id      string
	anchors []table.CellData
	rows    int
	cols    int
	gen     uint64
}

// NewStatic builds a grid from text rows. Row and column numbers are
// 1-based; ragged rows are allowed. An empty id gets a random one, so an
// anonymous grid never collides with another table's saved settings.
func NewStatic(id string, rows [][]string) *Static {
	if id == "" {
		if generated, err := ids.New(); err == nil {
			id = generated
		}
	}
	s := &Static{id: id, rows: len(rows)}
	for i, row := range rows {
		if len(row) > s.cols {
			s.cols = len(row)
		}
		for j, text := range row {
			s.anchors = append(s.anchors, table.CellData{
				Text:         text,
				RowNumber:    i + 1,
				ColumnNumber: j + 1,
				RowSpan:      1,
				ColumnSpan:   1,
			})
		}
	}
	return s
}

func (s *Static) TableID() string { return s.id }

func (s *Static) RowCount() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows, true
}

func (s *Static) ColumnCount() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cols, true
}

func (s *Static) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *Static) CellAt(row, column int) (table.CellData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.anchors {
		if d.RowNumber <= row && row < d.RowNumber+d.RowSpan &&
			d.ColumnNumber <= column && column < d.ColumnNumber+d.ColumnSpan {
			return d, true
		}
	}
	return table.CellData{}, false
}

// RowCells returns every cell whose row span covers the row, merged cells
// included, in column order.
func (s *Static) RowCells(row int) []table.CellData {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row < 1 || row > s.rows {
		return nil
	}
	var out []table.CellData
	for _, d := range s.anchors {
		if d.RowNumber <= row && row < d.RowNumber+d.RowSpan {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ColumnNumber < out[j].ColumnNumber })
	return out
}

// SetCell replaces the text of the cell anchored at the coordinate.
func (s *Static) SetCell(row, column int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.anchors {
		if s.anchors[i].RowNumber == row && s.anchors[i].ColumnNumber == column {
			s.anchors[i].Text = text
			s.gen++
			return
		}
	}
}

// Merge turns the cell anchored at the coordinate into a spanning cell
// covering the given region, swallowing the other cells inside it.
func (s *Static) Merge(row, column, rowSpan, columnSpan int) {
	if rowSpan < 1 {
		rowSpan = 1
	}
	if columnSpan < 1 {
		columnSpan = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.anchors[:0]
	for _, d := range s.anchors {
		inside := d.RowNumber >= row && d.RowNumber < row+rowSpan &&
			d.ColumnNumber >= column && d.ColumnNumber < column+columnSpan
		if inside && !(d.RowNumber == row && d.ColumnNumber == column) {
			continue
		}
		if d.RowNumber == row && d.ColumnNumber == column {
			d.RowSpan, d.ColumnSpan = rowSpan, columnSpan
		}
		kept = append(kept, d)
	}
	s.anchors = kept
	s.gen++
}

// HeaderTexts returns the first row's texts, used to key the table's
// config by its column headers.
func (s *Static) HeaderTexts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, d := range s.anchors {
		if d.RowNumber == 1 {
			out = append(out, d.Text)
		}
	}
	return out
}
