package braille

import (
	"strings"
	"testing"
)

func fixedCells(widths ...int) []Cell {
	cells := make([]Cell, len(widths))
	for i, w := range widths {
		cells[i] = Cell{Column: i + 1, Text: strings.Repeat("x", 20), Width: w}
	}
	return cells
}

func cellWidths(l *Layout, win int) []int {
	var widths []int
	for _, seg := range l.WindowSegments(win) {
		if !seg.IsSeparator() {
			widths = append(widths, seg.Width)
		}
	}
	return widths
}

func TestPack_ThreeEqualColumns(t *testing.T) {
	l := Pack(fixedCells(6, 6, 6), 15)

	if got := l.MaxWindow(); got != 1 {
		t.Fatalf("MaxWindow=%d want 1", got)
	}
	// The second column absorbs the slack of the closing window.
	if got := cellWidths(l, 0); len(got) != 2 || got[0] != 6 || got[1] != 7 {
		t.Fatalf("window 0 cell widths=%v want [6 7]", got)
	}
	// The last column fills its own window entirely.
	if got := cellWidths(l, 1); len(got) != 1 || got[0] != 15 {
		t.Fatalf("window 1 cell widths=%v want [15]", got)
	}
}

func TestPack_WindowNeverExceedsDisplay(t *testing.T) {
	cases := [][]int{
		{3, 3, 3},
		{6, 6, 6},
		{10, 10},
		{1, 1, 1, 1, 1, 1, 1, 1},
		{9, 2, 4, 7, 1},
		{12},
		{5},
	}
	const display = 10
	for _, widths := range cases {
		l := Pack(fixedCells(widths...), display)
		for win := 0; win <= l.MaxWindow(); win++ {
			total := 0
			for _, seg := range l.WindowSegments(win) {
				total += seg.Width
			}
			if total > display {
				t.Fatalf("widths %v: window %d totals %d > display %d", widths, win, total, display)
			}
			if total != display {
				t.Fatalf("widths %v: window %d totals %d, want flush %d", widths, win, total, display)
			}
		}
	}
}

func TestPack_OversizedCellIsClipped(t *testing.T) {
	l := Pack(fixedCells(12, 4), 10)

	segs := l.WindowSegments(0)
	if len(segs) != 2 || segs[0].Width != 9 || !segs[1].IsSeparator() {
		t.Fatalf("window 0 segments=%v want clipped cell 9 plus separator", segs)
	}
	if got := cellWidths(l, 1); len(got) != 1 || got[0] != 10 {
		t.Fatalf("window 1 cell widths=%v want [10]", got)
	}
}

func TestPack_UnboundedCellEndsWindow(t *testing.T) {
	cells := fixedCells(4, 0, 4)
	cells[1].Width = Unbounded
	l := Pack(cells, 10)

	segs := l.WindowSegments(0)
	if len(segs) != 3 {
		t.Fatalf("window 0 has %d segments, want 3", len(segs))
	}
	if segs[2].Width != Unbounded || segs[2].Cell != 1 {
		t.Fatalf("window 0 last segment=%v want unbounded cell 1", segs[2])
	}
	if got := cellWidths(l, 1); len(got) != 1 || got[0] != 10 {
		t.Fatalf("window 1 cell widths=%v want [10]", got)
	}
}

func TestPack_ExactFillAdvancesWindow(t *testing.T) {
	// 4+1+4+1 fills a 10-wide display exactly.
	l := Pack(fixedCells(4, 4, 4), 10)

	if got := l.WindowFor(1); got != 0 {
		t.Fatalf("WindowFor(1)=%d want 0", got)
	}
	if got := l.WindowFor(3); got != 1 {
		t.Fatalf("WindowFor(3)=%d want 1", got)
	}
}

func TestPack_Empty(t *testing.T) {
	l := Pack(nil, 10)
	if got := l.MaxWindow(); got != -1 {
		t.Fatalf("MaxWindow=%d want -1", got)
	}
	if got := l.WindowFor(1); got != -1 {
		t.Fatalf("WindowFor(1)=%d want -1", got)
	}
}

func TestRenderWindow_PadsAndSeparates(t *testing.T) {
	cells := []Cell{
		{Column: 1, Text: "ab", Width: 4},
		{Column: 2, Text: "cdefgh", Width: 4},
	}
	l := Pack(cells, 10)

	got := l.RenderWindow(0, "|")
	// Last cell expands from 4 to 5 to fill the window.
	want := "ab  |cdefg"
	if got != want {
		t.Fatalf("RenderWindow=%q want %q", got, want)
	}
}

func TestClip(t *testing.T) {
	if got := clip("abcdefgh", 2, 3); got != "cde" {
		t.Fatalf("clip=%q want %q", got, "cde")
	}
	if got := clip("ab", 5, 3); got != "" {
		t.Fatalf("clip past end=%q want empty", got)
	}
	if got := clip("abc", 0, 0); got != "" {
		t.Fatalf("clip zero width=%q want empty", got)
	}
}

func TestColumnAt_MapsOffsetsToColumnsAndSeparators(t *testing.T) {
	cells := []Cell{
		{Column: 1, Text: "ab", Width: 4},
		{Column: 2, Text: "cdefgh", Width: 4},
	}
	l := Pack(cells, 10)

	// Window 0 renders as "ab  |cdefg": offsets 0-3 are column 1, offset 4
	// the separator, offsets 5-9 column 2.
	col, sep, ok := l.ColumnAt(0, 0)
	if !ok || sep || col != 1 {
		t.Fatalf("ColumnAt(0)=(%d,%v,%v) want column 1", col, sep, ok)
	}
	col, sep, ok = l.ColumnAt(0, 4)
	if !ok || !sep || col != 1 {
		t.Fatalf("ColumnAt(4)=(%d,%v,%v) want separator after column 1", col, sep, ok)
	}
	col, sep, ok = l.ColumnAt(0, 9)
	if !ok || sep || col != 2 {
		t.Fatalf("ColumnAt(9)=(%d,%v,%v) want column 2", col, sep, ok)
	}
	if _, _, ok := l.ColumnAt(0, 10); ok {
		t.Fatalf("ColumnAt(10) resolved past the window content")
	}
}

func TestColumnAt_UnboundedConsumesRest(t *testing.T) {
	cells := []Cell{{Column: 1, Text: "long text", Width: Unbounded}}
	l := Pack(cells, 10)

	col, sep, ok := l.ColumnAt(0, 7)
	if !ok || sep || col != 1 {
		t.Fatalf("ColumnAt(7)=(%d,%v,%v) want the unbounded column", col, sep, ok)
	}
}
