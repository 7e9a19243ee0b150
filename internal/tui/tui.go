// Package tui is the interactive table browser: one braille-style window
// line over the current row, a status line, and a message line, driven by
// the navigation commands.
package tui

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/accessolutions/tablehandler/internal/braille"
	"github.com/accessolutions/tablehandler/internal/runtime"
	"github.com/accessolutions/tablehandler/internal/table"
	"github.com/accessolutions/tablehandler/internal/tableconfig"
)

var errQuit = errors.New("quit")

var newScreen = tcell.NewScreen

// routingDoubleClickWindow is how quickly a routing key must be pressed
// twice on the same column to count as an activation.
const routingDoubleClickWindow = 500 * time.Millisecond

type Options struct {
	Runtime *runtime.Runtime
	Manager *table.Manager
	// DisplaySize is the width of the simulated braille display. Zero
	// selects 40 cells.
	DisplaySize int
}

type uiEvent struct {
	when time.Time
	kind string
}

func (e *uiEvent) When() time.Time { return e.when }

type uiState struct {
	rt      *runtime.Runtime
	mgr     *table.Manager
	display int

	buf     *braille.RowBuffer
	resizer *braille.Resizer

	inputMode   string
	inputBuffer string
	message     string

	lastRoutingCol int
	lastRoutingAt  time.Time
}

// Browse runs the browser until the user quits or ctx is canceled.
func Browse(ctx context.Context, opts Options) error {
	if opts.Runtime == nil || opts.Manager == nil {
		return errors.New("Runtime and Manager are required")
	}
	state := newUIState(opts)
	opts.Runtime.SetMessages(func(text string) { state.message = text })

	screen, err := newScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			screen.PostEvent(&uiEvent{when: time.Now(), kind: "quit"})
		case <-done:
		}
	}()

	state.refresh()
	for {
		draw(screen, state)
		ev := screen.PollEvent()

		switch tev := ev.(type) {
		case *uiEvent:
			if tev.kind == "quit" {
				return ctx.Err()
			}
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if err := handleKey(state, tev); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				return err
			}
		case *tcell.EventMouse:
			handleMouse(state, tev)
		}
	}
}

func newUIState(opts Options) *uiState {
	display := opts.DisplaySize
	if display <= 0 {
		display = 40
	}
	return &uiState{
		rt:      opts.Runtime,
		mgr:     opts.Manager,
		display: display,
	}
}

// refresh re-packs the current row against the display and focuses the
// window holding the current column.
func (s *uiState) refresh() {
	cells := runtime.RowLayoutCells(s.mgr, s.display)
	layout := braille.Pack(cells, s.display)
	s.buf = braille.NewRowBuffer(layout, s.rt.Prefs.Separator(), s.mgr.CurrentColumn())
}

func (s *uiState) say(text string) { s.message = text }

// moveMessage maps movement errors to their announcements.
func moveMessage(err error) string {
	switch {
	case errors.Is(err, table.ErrEmptyTable):
		return "Table empty"
	case errors.Is(err, table.ErrBoundary):
		return "Edge of table"
	case errors.Is(err, table.ErrNoMatchingRow):
		return "No matching row"
	case errors.Is(err, table.ErrNoMarkedColumn):
		return "No marked column"
	default:
		return err.Error()
	}
}

// announceRow reads the current cell after a row change: row header first,
// then the cell, then every marked column with announcement enabled.
func (s *uiState) announceRow() {
	c := s.mgr.CurrentCell()
	if c == nil {
		s.say("Table empty")
		return
	}
	var parts []string
	if h := c.RowHeaderText(); h != "" {
		parts = append(parts, h)
	}
	parts = append(parts, c.Text())
	marked := s.mgr.Config().MarkedColumns()
	for _, col := range slices.Sorted(maps.Keys(marked)) {
		if !marked[col] || col == c.ColumnNumber() {
			continue
		}
		mc := s.mgr.CellAt(s.mgr.CurrentRow(), col)
		if mc == nil {
			continue
		}
		if label := mc.ColumnHeaderText(); label != "" {
			parts = append(parts, label+": "+mc.Text())
		} else {
			parts = append(parts, mc.Text())
		}
	}
	s.say(strings.Join(parts, "  "))
}

// announceColumn reads the current cell after a column change: column
// header first, then the cell, then marked rows with announcement enabled.
func (s *uiState) announceColumn() {
	c := s.mgr.CurrentCell()
	if c == nil {
		s.say("Table empty")
		return
	}
	var parts []string
	if h := c.ColumnHeaderText(); h != "" {
		parts = append(parts, h)
	}
	parts = append(parts, c.Text())
	marked := s.mgr.Config().MarkedRows()
	for _, row := range slices.Sorted(maps.Keys(marked)) {
		if !marked[row] || row == c.RowNumber() {
			continue
		}
		mc := s.mgr.CellAt(row, s.mgr.CurrentColumn())
		if mc == nil {
			continue
		}
		if label := mc.RowHeaderText(); label != "" {
			parts = append(parts, label+": "+mc.Text())
		} else {
			parts = append(parts, mc.Text())
		}
	}
	s.say(strings.Join(parts, "  "))
}

func (s *uiState) moveRow(move func() error) {
	if err := move(); err != nil {
		s.say(moveMessage(err))
		return
	}
	s.refresh()
	s.announceRow()
}

func (s *uiState) moveColumn(move func() error) {
	if err := move(); err != nil {
		s.say(moveMessage(err))
		return
	}
	s.refresh()
	s.announceColumn()
}

// enterResize starts resize mode for the current column, persisting each
// accepted width for the current display size.
func (s *uiState) enterResize(column int) {
	cells := runtime.RowLayoutCells(s.mgr, s.display)
	cfg := s.mgr.Config()
	display := s.display
	r, err := braille.NewResizer(cells, column, display, func(w int) error {
		return cfg.SetColumnWidth(display, column, w)
	})
	if err != nil {
		s.say(err.Error())
		return
	}
	s.resizer = r
	s.say(fmt.Sprintf("Resize column %d, width %d", column, r.Width()))
}

func (s *uiState) exitResize() {
	s.resizer = nil
	s.refresh()
	s.say("Done")
}

func (s *uiState) announceResize(rep braille.ResizeReport) {
	s.refresh()
	msg := fmt.Sprintf("Width %d", rep.Width)
	if rep.Extended {
		msg = fmt.Sprintf("Width %d, extended to %d", rep.Width, rep.Effective)
	}
	switch rep.WindowMoved {
	case -1:
		msg += ", moved to previous window"
	case +1:
		msg += ", moved to next window"
	}
	if rep.Following > 0 {
		msg += fmt.Sprintf(", %d more columns fit", rep.Following)
	}
	s.say(msg)
}

func handleKey(s *uiState, ev *tcell.EventKey) error {
	if s.inputMode == "filter" {
		switch ev.Key() {
		case tcell.KeyESC:
			s.inputMode = ""
			s.inputBuffer = ""
		case tcell.KeyEnter:
			text := strings.TrimSpace(s.inputBuffer)
			s.mgr.SetFilter(text, false)
			s.inputMode = ""
			s.inputBuffer = ""
			if text == "" {
				s.say("Filter cleared")
			} else {
				s.say(fmt.Sprintf("Filtering rows on %q", text))
			}
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			if len(s.inputBuffer) > 0 {
				s.inputBuffer = s.inputBuffer[:len(s.inputBuffer)-1]
			}
		case tcell.KeyRune:
			if ch := ev.Rune(); ch >= 32 && ch <= 126 {
				s.inputBuffer += string(ch)
			}
		}
		return nil
	}

	if s.resizer != nil {
		switch ev.Key() {
		case tcell.KeyLeft:
			rep, err := s.resizer.Adjust(-1)
			if err != nil {
				return err
			}
			s.announceResize(rep)
		case tcell.KeyRight:
			rep, err := s.resizer.Adjust(+1)
			if err != nil {
				return err
			}
			s.announceResize(rep)
		case tcell.KeyESC, tcell.KeyEnter:
			s.exitResize()
		case tcell.KeyCtrlC:
			return errQuit
		}
		return nil
	}

	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyESC:
		return errQuit
	case tcell.KeyUp:
		s.moveRow(s.mgr.MovePreviousRow)
	case tcell.KeyDown:
		s.moveRow(s.mgr.MoveNextRow)
	case tcell.KeyLeft:
		s.moveColumn(s.mgr.MovePreviousColumn)
	case tcell.KeyRight:
		s.moveColumn(s.mgr.MoveNextColumn)
	case tcell.KeyHome:
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			s.moveRow(s.mgr.MoveToFirstRow)
		} else {
			s.moveColumn(s.mgr.MoveToFirstColumn)
		}
	case tcell.KeyEnd:
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			s.moveRow(s.mgr.MoveToLastRow)
		} else {
			s.moveColumn(s.mgr.MoveToLastColumn)
		}
	case tcell.KeyRune:
		return handleRune(s, ev.Rune())
	}
	return nil
}

func handleRune(s *uiState, ch rune) error {
	switch ch {
	case 'q':
		return errQuit
	case '[':
		if !s.buf.PanLeft() {
			s.say("Start of row")
		}
	case ']':
		if !s.buf.PanRight() {
			s.say("End of row")
		}
	case 'g':
		s.moveRow(s.mgr.MoveToFirstDataCell)
	case 'n':
		s.moveColumn(s.mgr.MoveToNextMarkedColumn)
	case 'p':
		s.moveColumn(s.mgr.MoveToPreviousMarkedColumn)
	case 'm':
		state, err := s.mgr.ToggleMarkedColumn()
		if err != nil {
			s.say(err.Error())
			return nil
		}
		s.say(fmt.Sprintf("Column %d %s", s.mgr.CurrentColumn(), state))
	case 'M':
		state, err := s.mgr.ToggleMarkedRow()
		if err != nil {
			s.say(err.Error())
			return nil
		}
		s.say(fmt.Sprintf("Row %d %s", s.mgr.CurrentRow(), state))
	case 'h':
		repeated := s.rt.IsRepeatedInvocation("columnHeader")
		mode, row, err := s.mgr.CycleColumnHeaderRow(repeated)
		if err != nil {
			s.say(err.Error())
			return nil
		}
		s.say(headerMessage("Column headers", "row", mode, row))
		s.refresh()
	case 'H':
		repeated := s.rt.IsRepeatedInvocation("rowHeader")
		mode, col, err := s.mgr.CycleRowHeaderColumn(repeated)
		if err != nil {
			s.say(err.Error())
			return nil
		}
		s.say(headerMessage("Row headers", "column", mode, col))
		s.refresh()
	case '/':
		s.inputMode = "filter"
		text, _ := s.mgr.Filter()
		s.inputBuffer = text
	case 'w':
		s.enterResize(s.mgr.CurrentColumn())
	}
	return nil
}

func headerMessage(what, axis string, mode tableconfig.HeaderMode, number int) string {
	switch mode {
	case tableconfig.HeaderExplicit:
		return fmt.Sprintf("%s set to %s %d", what, axis, number)
	case tableconfig.HeaderDisabled:
		return what + " disabled"
	default:
		return what + " unset"
	}
}

// handleMouse treats a primary click on the window line as a routing-key
// press at that display offset.
func handleMouse(s *uiState, ev *tcell.EventMouse) {
	if ev.Buttons()&tcell.Button1 == 0 {
		return
	}
	x, y := ev.Position()
	if y != 0 {
		return
	}
	routingPress(s, x)
}

func routingPress(s *uiState, x int) {
	if s.resizer != nil && s.rt.Prefs.SetColumnWidthWithRouting {
		rep, ok, err := s.resizer.SetFromRouting(x)
		if err != nil {
			s.say(err.Error())
			return
		}
		if !ok {
			s.exitResize()
			return
		}
		s.announceResize(rep)
		return
	}

	col, separator, ok := s.buf.ColumnAt(x)
	if !ok {
		return
	}
	if separator {
		if s.rt.Prefs.ColumnSeparatorActivateToSetWidth {
			s.enterResize(col)
		}
		return
	}
	doubleClick := col == s.lastRoutingCol && time.Since(s.lastRoutingAt) <= routingDoubleClickWindow
	s.lastRoutingCol = col
	s.lastRoutingAt = time.Now()
	activate := col == s.mgr.CurrentColumn()
	if s.rt.Prefs.RoutingDoubleClickToActivate {
		activate = doubleClick
	}
	if !activate {
		s.moveColumn(func() error { return s.mgr.MoveToColumn(col) })
		return
	}
	if err := s.mgr.MoveToColumn(col); err != nil {
		s.say(moveMessage(err))
		return
	}
	s.refresh()
	if c := s.mgr.CurrentCell(); c != nil {
		s.say("Activated " + c.Text())
	}
}

func draw(screen tcell.Screen, s *uiState) {
	screen.Clear()
	style := tcell.StyleDefault

	emitStr(screen, 0, 0, style, s.buf.Line())
	emitStr(screen, 0, 1, style, statusLine(s))
	if s.inputMode == "filter" {
		emitStr(screen, 0, 2, style, "/"+s.inputBuffer)
	} else {
		emitStr(screen, 0, 2, style, s.message)
	}
	screen.Show()
}

func statusLine(s *uiState) string {
	line := fmt.Sprintf("Row %d, column %d", s.mgr.CurrentRow(), s.mgr.CurrentColumn())
	if s.buf != nil && s.buf.MaxWindow() > 0 {
		line += fmt.Sprintf("  window %d/%d", s.buf.Window()+1, s.buf.MaxWindow()+1)
	}
	if text, _ := s.mgr.Filter(); text != "" {
		line += fmt.Sprintf("  filter %q", text)
	}
	if s.resizer != nil {
		line += fmt.Sprintf("  resizing column %d (width %d)", s.resizer.Column(), s.resizer.Width())
	}
	return line
}

func emitStr(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
