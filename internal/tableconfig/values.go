package tableconfig

import (
	"encoding/json"
	"fmt"
)

// DefaultColumnWidth applies when no layer assigns a width.
const DefaultColumnWidth = 10

// WidthUnbounded stores "no fixed width" for a column.
const WidthUnbounded = -1

// HeaderMode is the tri-state of a header-row or header-column assignment.
type HeaderMode int

const (
	// HeaderUnset defers to whatever the content source reports.
	HeaderUnset HeaderMode = iota
	// HeaderExplicit pins the header to a user-chosen row or column.
	HeaderExplicit
	// HeaderDisabled suppresses the default header entirely.
	HeaderDisabled
)

// HeaderRef is the persisted form of an explicit or disabled header
// assignment. An unset assignment is an absent field.
type HeaderRef struct {
	Disabled bool
	Number   int
}

func (h HeaderRef) MarshalJSON() ([]byte, error) {
	if h.Disabled {
		return json.Marshal("disabled")
	}
	return json.Marshal(h.Number)
}

func (h *HeaderRef) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s != "disabled" {
			return fmt.Errorf("parse header assignment: unknown value %q", s)
		}
		*h = HeaderRef{Disabled: true}
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("parse header assignment: %w", err)
	}
	*h = HeaderRef{Number: n}
	return nil
}

// Values is one layer of settings. All integer-keyed maps serialize with
// string keys, which encoding/json round-trips losslessly for int keys.
type Values struct {
	DefaultColumnWidth       *int                `json:"defaultColumnWidth,omitempty"`
	DefaultColumnWidthBySize map[int]int         `json:"defaultColumnWidthBySize,omitempty"`
	ColumnWidths             map[int]map[int]int `json:"columnWidths,omitempty"`
	ColumnHeaderRow          *HeaderRef          `json:"columnHeaderRowNumber,omitempty"`
	RowHeaderColumn          *HeaderRef          `json:"rowHeaderColumnNumber,omitempty"`
	CustomRowHeaders         map[int]string      `json:"customRowHeaders,omitempty"`
	CustomColumnHeaders      map[int]string      `json:"customColumnHeaders,omitempty"`
	MarkedRows               map[int]bool        `json:"markedRowNumbers,omitempty"`
	MarkedColumns            map[int]bool        `json:"markedColumnNumbers,omitempty"`
	FirstDataRow             *int                `json:"firstDataRowNumber,omitempty"`
	FirstDataColumn          *int                `json:"firstDataColumnNumber,omitempty"`
}

// TableConfig is the live, shared settings of one logical table. The same
// instance is handed to every caller asking for the same key, so a mutation
// through one reference is visible to all.
type TableConfig struct {
	key   Key
	store *Store
	// layers holds the leaf first and any parents after it; lookups fall
	// through to hard-coded defaults when no layer answers.
	layers []*Values
}

// NewDetached returns a config that is not backed by a store, chained to the
// given parent layers. Mutations are kept in memory only.
func NewDetached(key Key, parents ...*Values) *TableConfig {
	layers := append([]*Values{{}}, parents...)
	return &TableConfig{key: key, layers: layers}
}

// Key returns the key the config is persisted under.
func (c *TableConfig) Key() Key { return c.key }

func (c *TableConfig) leaf() *Values { return c.layers[0] }

// mutate applies fn to the leaf layer and persists the result.
func (c *TableConfig) mutate(fn func(v *Values)) error {
	if c.store != nil {
		return c.store.apply(c, fn)
	}
	fn(c.leaf())
	return nil
}

// ColumnWidth returns the display width assigned to a column for the given
// display size, falling back to per-size then global defaults. A negative
// result means the column has no fixed width.
func (c *TableConfig) ColumnWidth(displaySize, column int) int {
	for _, v := range c.layers {
		if w, ok := v.ColumnWidths[displaySize][column]; ok {
			return w
		}
	}
	for _, v := range c.layers {
		if w, ok := v.DefaultColumnWidthBySize[displaySize]; ok {
			return w
		}
	}
	for _, v := range c.layers {
		if v.DefaultColumnWidth != nil {
			return *v.DefaultColumnWidth
		}
	}
	return DefaultColumnWidth
}

// SetColumnWidth stores a column width for the given display size.
func (c *TableConfig) SetColumnWidth(displaySize, column, width int) error {
	return c.mutate(func(v *Values) {
		if v.ColumnWidths == nil {
			v.ColumnWidths = map[int]map[int]int{}
		}
		if v.ColumnWidths[displaySize] == nil {
			v.ColumnWidths[displaySize] = map[int]int{}
		}
		v.ColumnWidths[displaySize][column] = width
	})
}

// SetDefaultColumnWidth stores the width used by columns with no explicit
// assignment.
func (c *TableConfig) SetDefaultColumnWidth(width int) error {
	return c.mutate(func(v *Values) { v.DefaultColumnWidth = &width })
}

// ColumnHeaderRow returns the header-row assignment and, for an explicit
// assignment, the 1-based row number.
func (c *TableConfig) ColumnHeaderRow() (HeaderMode, int) {
	for _, v := range c.layers {
		if v.ColumnHeaderRow != nil {
			if v.ColumnHeaderRow.Disabled {
				return HeaderDisabled, 0
			}
			return HeaderExplicit, v.ColumnHeaderRow.Number
		}
	}
	return HeaderUnset, 0
}

// RowHeaderColumn returns the header-column assignment and, for an explicit
// assignment, the 1-based column number.
func (c *TableConfig) RowHeaderColumn() (HeaderMode, int) {
	for _, v := range c.layers {
		if v.RowHeaderColumn != nil {
			if v.RowHeaderColumn.Disabled {
				return HeaderDisabled, 0
			}
			return HeaderExplicit, v.RowHeaderColumn.Number
		}
	}
	return HeaderUnset, 0
}

// SetColumnHeaderRow stores a header-row assignment. HeaderUnset clears it.
func (c *TableConfig) SetColumnHeaderRow(mode HeaderMode, row int) error {
	return c.mutate(func(v *Values) {
		switch mode {
		case HeaderUnset:
			v.ColumnHeaderRow = nil
		case HeaderDisabled:
			v.ColumnHeaderRow = &HeaderRef{Disabled: true}
		default:
			v.ColumnHeaderRow = &HeaderRef{Number: row}
		}
	})
}

// SetRowHeaderColumn stores a header-column assignment. HeaderUnset clears
// it.
func (c *TableConfig) SetRowHeaderColumn(mode HeaderMode, column int) error {
	return c.mutate(func(v *Values) {
		switch mode {
		case HeaderUnset:
			v.RowHeaderColumn = nil
		case HeaderDisabled:
			v.RowHeaderColumn = &HeaderRef{Disabled: true}
		default:
			v.RowHeaderColumn = &HeaderRef{Number: column}
		}
	})
}

// CustomRowHeader returns the user-defined header text of a row.
func (c *TableConfig) CustomRowHeader(row int) (string, bool) {
	for _, v := range c.layers {
		if text, ok := v.CustomRowHeaders[row]; ok {
			return text, true
		}
	}
	return "", false
}

// CustomColumnHeader returns the user-defined header text of a column.
func (c *TableConfig) CustomColumnHeader(column int) (string, bool) {
	for _, v := range c.layers {
		if text, ok := v.CustomColumnHeaders[column]; ok {
			return text, true
		}
	}
	return "", false
}

// SetCustomRowHeader stores a user-defined row header text.
func (c *TableConfig) SetCustomRowHeader(row int, text string) error {
	return c.mutate(func(v *Values) {
		if v.CustomRowHeaders == nil {
			v.CustomRowHeaders = map[int]string{}
		}
		v.CustomRowHeaders[row] = text
	})
}

// SetCustomColumnHeader stores a user-defined column header text.
func (c *TableConfig) SetCustomColumnHeader(column int, text string) error {
	return c.mutate(func(v *Values) {
		if v.CustomColumnHeaders == nil {
			v.CustomColumnHeaders = map[int]string{}
		}
		v.CustomColumnHeaders[column] = text
	})
}

// MarkedColumn reports whether a column is marked and whether it is
// announced on row change.
func (c *TableConfig) MarkedColumn(column int) (announce, marked bool) {
	for _, v := range c.layers {
		if a, ok := v.MarkedColumns[column]; ok {
			return a, true
		}
	}
	return false, false
}

// MarkedRow reports whether a row is marked and whether it is announced on
// column change.
func (c *TableConfig) MarkedRow(row int) (announce, marked bool) {
	for _, v := range c.layers {
		if a, ok := v.MarkedRows[row]; ok {
			return a, true
		}
	}
	return false, false
}

// MarkedColumns returns the merged marked-column map across all layers.
func (c *TableConfig) MarkedColumns() map[int]bool {
	merged := map[int]bool{}
	for i := len(c.layers) - 1; i >= 0; i-- {
		for col, announce := range c.layers[i].MarkedColumns {
			merged[col] = announce
		}
	}
	return merged
}

// MarkedRows returns the merged marked-row map across all layers.
func (c *TableConfig) MarkedRows() map[int]bool {
	merged := map[int]bool{}
	for i := len(c.layers) - 1; i >= 0; i-- {
		for row, announce := range c.layers[i].MarkedRows {
			merged[row] = announce
		}
	}
	return merged
}

// SetMarkedColumn stores a column mark with its announce flag.
func (c *TableConfig) SetMarkedColumn(column int, announce bool) error {
	return c.mutate(func(v *Values) {
		if v.MarkedColumns == nil {
			v.MarkedColumns = map[int]bool{}
		}
		v.MarkedColumns[column] = announce
	})
}

// RemoveMarkedColumn clears a column mark.
func (c *TableConfig) RemoveMarkedColumn(column int) error {
	return c.mutate(func(v *Values) { delete(v.MarkedColumns, column) })
}

// SetMarkedRow stores a row mark with its announce flag.
func (c *TableConfig) SetMarkedRow(row int, announce bool) error {
	return c.mutate(func(v *Values) {
		if v.MarkedRows == nil {
			v.MarkedRows = map[int]bool{}
		}
		v.MarkedRows[row] = announce
	})
}

// RemoveMarkedRow clears a row mark.
func (c *TableConfig) RemoveMarkedRow(row int) error {
	return c.mutate(func(v *Values) { delete(v.MarkedRows, row) })
}

// FirstDataRow returns the configured first data row, or 0 when unset.
func (c *TableConfig) FirstDataRow() int {
	for _, v := range c.layers {
		if v.FirstDataRow != nil {
			return *v.FirstDataRow
		}
	}
	return 0
}

// FirstDataColumn returns the configured first data column, or 0 when unset.
func (c *TableConfig) FirstDataColumn() int {
	for _, v := range c.layers {
		if v.FirstDataColumn != nil {
			return *v.FirstDataColumn
		}
	}
	return 0
}

// SetFirstDataRow stores the first data row number.
func (c *TableConfig) SetFirstDataRow(row int) error {
	return c.mutate(func(v *Values) { v.FirstDataRow = &row })
}

// SetFirstDataColumn stores the first data column number.
func (c *TableConfig) SetFirstDataColumn(column int) error {
	return c.mutate(func(v *Values) { v.FirstDataColumn = &column })
}
