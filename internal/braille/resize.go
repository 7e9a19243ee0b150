package braille

import (
	"errors"
	"fmt"
)

// ResizeReport describes the layout after one width adjustment, so the host
// can announce what changed.
type ResizeReport struct {
	Column int
	// Width is the stored width after the adjustment.
	Width int
	// Effective is the width the column actually renders at, which exceeds
	// Width when the column was widened to close its window.
	Effective int
	Extended  bool
	Window    int
	// WindowMoved is -1 or +1 when the column landed on the previous or next
	// window, 0 when it stayed.
	WindowMoved int
	// Following counts the subsequent columns sharing the resized column's
	// window. Zero means none of them fit.
	Following int
}

// Resizer is the interactive column-resize mode over one row. Width changes
// are re-packed immediately and persisted through the setWidth callback, so
// leaving the mode never loses the width just set.
type Resizer struct {
	cells      []Cell
	idx        int
	display    int
	width      int
	lastWindow int
	setWidth   func(width int) error
}

// NewResizer enters resize mode for the cell starting at column. setWidth
// persists each accepted width.
func NewResizer(cells []Cell, column, display int, setWidth func(int) error) (*Resizer, error) {
	idx := -1
	for i := range cells {
		if cells[i].Column == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("resize column %d: no such cell", column)
	}
	r := &Resizer{
		cells:    append([]Cell(nil), cells...),
		idx:      idx,
		display:  display,
		setWidth: setWidth,
	}
	r.width = r.cells[idx].Width
	if r.width < 0 || r.width > display {
		r.width = display
	}
	r.cells[idx].Width = r.width
	layout := Pack(r.cells, r.display)
	if seg, ok := layout.segmentFor(column); ok {
		r.lastWindow = seg.Window
	}
	return r, nil
}

// Width returns the currently stored width.
func (r *Resizer) Width() int { return r.width }

// Column returns the 1-based column being resized.
func (r *Resizer) Column() int { return r.cells[r.idx].Column }

// Adjust changes the stored width by delta, clamped to [0, display], and
// returns the resulting layout report.
func (r *Resizer) Adjust(delta int) (ResizeReport, error) {
	return r.apply(r.width + delta)
}

// SetFromRouting sets the width from a routing-key activation at the given
// offset inside the visible window. The width becomes the distance between
// the start of the resized column's rendered region and the offset. A
// negative distance requests leaving the mode instead: ok is false and no
// width is stored.
func (r *Resizer) SetFromRouting(offset int) (report ResizeReport, ok bool, err error) {
	layout := Pack(r.cells, r.display)
	seg, found := layout.segmentFor(r.Column())
	if !found {
		return ResizeReport{}, false, errors.New("resized column not rendered")
	}
	start := 0
	for _, s := range layout.Segments {
		if s.Window != seg.Window {
			continue
		}
		if !s.IsSeparator() && s.Cell == seg.Cell {
			break
		}
		start += s.Width
	}
	width := offset - start
	if width < 0 {
		return ResizeReport{}, false, nil
	}
	report, err = r.apply(width)
	return report, true, err
}

func (r *Resizer) apply(width int) (ResizeReport, error) {
	if width < 0 {
		width = 0
	}
	if width > r.display {
		width = r.display
	}
	r.width = width
	r.cells[r.idx].Width = width
	if r.setWidth != nil {
		if err := r.setWidth(width); err != nil {
			return ResizeReport{}, fmt.Errorf("store column width: %w", err)
		}
	}
	return r.report(), nil
}

func (r *Resizer) report() ResizeReport {
	layout := Pack(r.cells, r.display)
	rep := ResizeReport{Column: r.Column(), Width: r.width}
	seg, ok := layout.segmentFor(r.Column())
	if !ok {
		return rep
	}
	rep.Effective = seg.Width
	rep.Extended = seg.Width > r.width
	rep.Window = seg.Window
	switch {
	case seg.Window < r.lastWindow:
		rep.WindowMoved = -1
	case seg.Window > r.lastWindow:
		rep.WindowMoved = +1
	}
	r.lastWindow = seg.Window
	seen := false
	for _, s := range layout.Segments {
		if s.Window != seg.Window || s.IsSeparator() {
			continue
		}
		if s.Cell == seg.Cell {
			seen = true
			continue
		}
		if seen {
			rep.Following++
		}
	}
	return rep
}
