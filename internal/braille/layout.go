// Package braille packs the cells of a table row into fixed-width display
// windows and renders the window holding the focused cell.
package braille

import (
	"github.com/mattn/go-runewidth"
)

// Unbounded marks a cell with no fixed width. Such a cell is always the last
// of its window and consumes the rest of the display.
const Unbounded = -1

// separatorWidth is the display width of the column separator appended after
// every fixed-width cell.
const separatorWidth = 1

// Cell is one column of a row, ready for layout.
type Cell struct {
	// Column is the 1-based number of the column this cell starts at.
	Column int
	Text   string
	// Width is the fixed display width assigned to the column, or Unbounded.
	Width int
}

// Segment is one slot of the packed layout: either a cell clipped or padded
// to Width display cells, or a column separator.
type Segment struct {
	Window int
	Width  int
	// Cell indexes into Layout.Cells, or is -1 for a separator.
	Cell int
}

// IsSeparator reports whether the segment is a column separator.
func (s Segment) IsSeparator() bool { return s.Cell < 0 }

// Layout is the result of packing a row against a display width.
type Layout struct {
	Cells    []Cell
	Segments []Segment
	Display  int
}

// Pack distributes cells and separators over display-width windows.
//
// Fixed-width cells are appended, each followed by a separator, as long as
// they fit. A cell that does not fit in a non-empty window closes that
// window: the previous cell is widened to absorb the leftover space, and the
// cell restarts against a fresh window. A fixed-width cell wider than the
// display alone is clipped to the display (its tail stays reachable by
// panning). An unbounded cell ends its window. After the last cell the
// trailing separator is dropped and the cell is widened to exactly fill its
// window.
func Pack(cells []Cell, display int) *Layout {
	l := &Layout{Cells: cells, Display: display}
	if display <= separatorWidth {
		return l
	}
	win, size := 0, 0
	for i := range cells {
		width := cells[i].Width
		for {
			if width == Unbounded || width < 0 {
				l.Segments = append(l.Segments, Segment{Window: win, Width: Unbounded, Cell: i})
				win++
				size = 0
				break
			}
			if size+width+separatorWidth <= display {
				l.Segments = append(l.Segments,
					Segment{Window: win, Width: width, Cell: i},
					Segment{Window: win, Width: separatorWidth, Cell: -1},
				)
				size += width + separatorWidth
				if size == display {
					win++
					size = 0
				}
				break
			}
			if size > 0 {
				// Close the window: widen the previous cell so the
				// window ends flush, then retry against the next one.
				prev := &l.Segments[len(l.Segments)-2]
				prev.Width += display - size
				win++
				size = 0
				continue
			}
			// Alone too wide for an empty window: clip to the display.
			l.Segments = append(l.Segments,
				Segment{Window: win, Width: display - separatorWidth, Cell: i},
				Segment{Window: win, Width: separatorWidth, Cell: -1},
			)
			win++
			size = 0
			break
		}
	}
	l.trimTrailingSeparator()
	return l
}

// trimTrailingSeparator drops the separator after the last column and widens
// the last cell to fill the remainder of its window.
func (l *Layout) trimTrailingSeparator() {
	n := len(l.Segments)
	if n == 0 {
		return
	}
	if l.Segments[n-1].IsSeparator() {
		l.Segments = l.Segments[:n-1]
		n--
	}
	last := &l.Segments[n-1]
	if last.IsSeparator() || last.Width == Unbounded {
		return
	}
	used := 0
	for _, seg := range l.Segments {
		if seg.Window == last.Window {
			used += seg.Width
		}
	}
	if used < l.Display {
		last.Width += l.Display - used
	}
}

// MaxWindow returns the highest window index carrying content, or -1 for an
// empty layout.
func (l *Layout) MaxWindow() int {
	max := -1
	for _, seg := range l.Segments {
		if seg.Window > max {
			max = seg.Window
		}
	}
	return max
}

// WindowFor returns the window index holding the cell starting at the given
// column, or -1 if no cell starts there.
func (l *Layout) WindowFor(column int) int {
	for _, seg := range l.Segments {
		if !seg.IsSeparator() && l.Cells[seg.Cell].Column == column {
			return seg.Window
		}
	}
	return -1
}

// WindowSegments returns the segments assigned to the given window index.
func (l *Layout) WindowSegments(win int) []Segment {
	var segs []Segment
	for _, seg := range l.Segments {
		if seg.Window == win {
			segs = append(segs, seg)
		}
	}
	return segs
}

// segmentFor returns the cell segment for the cell starting at column.
func (l *Layout) segmentFor(column int) (Segment, bool) {
	for _, seg := range l.Segments {
		if !seg.IsSeparator() && l.Cells[seg.Cell].Column == column {
			return seg, true
		}
	}
	return Segment{}, false
}

// ColumnAt maps a display offset inside a window's content to the column
// rendered there. separator reports that the offset sits on the separator
// following that column.
func (l *Layout) ColumnAt(win, offset int) (column int, separator, ok bool) {
	if offset < 0 {
		return 0, false, false
	}
	pos, last := 0, 0
	for _, seg := range l.WindowSegments(win) {
		if seg.Width == Unbounded {
			return l.Cells[seg.Cell].Column, false, true
		}
		if offset < pos+seg.Width {
			if seg.IsSeparator() {
				return last, true, true
			}
			return l.Cells[seg.Cell].Column, false, true
		}
		if !seg.IsSeparator() {
			last = l.Cells[seg.Cell].Column
		}
		pos += seg.Width
	}
	return 0, false, false
}

// RenderWindow renders the full content of a window, unclipped. A window
// ending in an unbounded cell may render wider than the display; the caller
// clips it to the visible slice.
func (l *Layout) RenderWindow(win int, separator string) string {
	out := ""
	for _, seg := range l.Segments {
		if seg.Window != win {
			continue
		}
		out += l.renderSegment(seg, separator)
	}
	return out
}

func (l *Layout) renderSegment(seg Segment, separator string) string {
	if seg.IsSeparator() {
		return runewidth.FillRight(runewidth.Truncate(separator, seg.Width, ""), seg.Width)
	}
	text := l.Cells[seg.Cell].Text
	if seg.Width == Unbounded {
		return text
	}
	return runewidth.FillRight(runewidth.Truncate(text, seg.Width, ""), seg.Width)
}

// clip returns the slice of s covering display cells [from, from+width).
func clip(s string, from, width int) string {
	if width <= 0 {
		return ""
	}
	pos := 0
	start, end := -1, len(s)
	for i, r := range s {
		if pos >= from && start < 0 {
			start = i
		}
		pos += runewidth.RuneWidth(r)
		if pos > from+width {
			end = i
			break
		}
	}
	if start < 0 {
		return ""
	}
	return s[start:end]
}
