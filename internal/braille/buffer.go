package braille

import "github.com/mattn/go-runewidth"

// RowBuffer holds the windowed rendering of one row and the panning state
// over it. Panning first scrolls inside the current window when its content
// overflows the display (an unbounded last cell), and only then moves to the
// adjacent window.
type RowBuffer struct {
	layout    *Layout
	separator string
	window    int
	offset    int
}

// NewRowBuffer positions the buffer on the window holding the cell starting
// at focusColumn. An unknown column selects the first window.
func NewRowBuffer(layout *Layout, separator string, focusColumn int) *RowBuffer {
	win := layout.WindowFor(focusColumn)
	if win < 0 {
		win = 0
	}
	return &RowBuffer{layout: layout, separator: separator, window: win}
}

// Window returns the current 0-based window index.
func (b *RowBuffer) Window() int { return b.window }

// MaxWindow returns the highest window index of the underlying layout.
func (b *RowBuffer) MaxWindow() int { return b.layout.MaxWindow() }

// Line returns the visible display-width slice of the current window,
// padded to the display width.
func (b *RowBuffer) Line() string {
	content := b.layout.RenderWindow(b.window, b.separator)
	visible := clip(content, b.offset, b.layout.Display)
	return runewidth.FillRight(visible, b.layout.Display)
}

// PanRight scrolls right inside the current window if content remains,
// otherwise advances to the next window. It reports whether the view moved.
func (b *RowBuffer) PanRight() bool {
	content := b.layout.RenderWindow(b.window, b.separator)
	if b.offset+b.layout.Display < runewidth.StringWidth(content) {
		b.offset += b.layout.Display
		return true
	}
	if b.window < b.layout.MaxWindow() {
		b.window++
		b.offset = 0
		return true
	}
	return false
}

// PanLeft scrolls left inside the current window if panned, otherwise moves
// to the previous window. It reports whether the view moved.
func (b *RowBuffer) PanLeft() bool {
	if b.offset > 0 {
		b.offset -= b.layout.Display
		if b.offset < 0 {
			b.offset = 0
		}
		return true
	}
	if b.window > 0 {
		b.window--
		b.offset = 0
		return true
	}
	return false
}

// ColumnAt maps a routing press at a visible display offset to the column
// rendered there, accounting for the panning offset.
func (b *RowBuffer) ColumnAt(x int) (column int, separator, ok bool) {
	if x < 0 || x >= b.layout.Display {
		return 0, false, false
	}
	return b.layout.ColumnAt(b.window, b.offset+x)
}

// MoveToColumn repositions the buffer on the window holding the cell
// starting at the given column. It reports whether such a window exists.
func (b *RowBuffer) MoveToColumn(column int) bool {
	win := b.layout.WindowFor(column)
	if win < 0 {
		return false
	}
	if win != b.window {
		b.window = win
		b.offset = 0
	}
	return true
}
