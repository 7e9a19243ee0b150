// Package runtime wires the long-lived pieces together: the per-table
// config catalog, the user preferences, the adapter chain, and the message
// output commands report through.
package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/accessolutions/tablehandler/internal/braille"
	"github.com/accessolutions/tablehandler/internal/handlers"
	"github.com/accessolutions/tablehandler/internal/prefs"
	"github.com/accessolutions/tablehandler/internal/table"
	"github.com/accessolutions/tablehandler/internal/tableconfig"
)

// repeatWindow is how quickly a command must be pressed again to count as
// a repeated invocation.
const repeatWindow = 500 * time.Millisecond

// MessageSink receives the one-line announcements commands produce.
type MessageSink func(text string)

// Options configures a Runtime. Zero values select the defaults.
type Options struct {
	Logger *log.Logger
	// CatalogPath overrides the per-table config catalog location.
	CatalogPath string
	// PrefsPath overrides the preferences file location.
	PrefsPath string
	Messages  MessageSink
}

// Runtime is the shared state of one running session.
type Runtime struct {
	Log    *log.Logger
	Tables *tableconfig.Store
	Prefs  prefs.Prefs

	prefsStore *prefs.Store
	chain      *handlers.Chain

	mu         sync.Mutex
	messages   MessageSink
	suppressed int
	lastCmd    string
	lastCmdAt  time.Time
	now        func() time.Time
}

// New opens the stores and returns a ready runtime.
func New(opts Options) (*Runtime, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	prefsStore, err := prefs.NewStore(opts.PrefsPath)
	if err != nil {
		return nil, fmt.Errorf("open prefs: %w", err)
	}
	p, err := prefsStore.Load()
	if err != nil {
		return nil, fmt.Errorf("load prefs: %w", err)
	}
	if lvl, err := log.ParseLevel(p.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	tables, err := tableconfig.NewStore(opts.CatalogPath, logger)
	if err != nil {
		return nil, fmt.Errorf("open table config catalog: %w", err)
	}

	return &Runtime{
		Log:        logger,
		Tables:     tables,
		Prefs:      p,
		prefsStore: prefsStore,
		chain:      handlers.NewChain(logger),
		messages:   opts.Messages,
		now:        time.Now,
	}, nil
}

// Shutdown releases the stores.
func (r *Runtime) Shutdown() error {
	return r.Tables.Close()
}

// PrefsStore returns the preferences store for settings commands.
func (r *Runtime) PrefsStore() *prefs.Store { return r.prefsStore }

// RegisterAdapter appends an adapter to the resolution chain. Overlay
// adapters take precedence over everything registered so far.
func (r *Runtime) RegisterAdapter(a handlers.Adapter, overlay bool) {
	if overlay {
		r.chain.RegisterFront(a)
		return
	}
	r.chain.Register(a)
}

// ResolveTable asks the adapter chain for the table at the target.
func (r *Runtime) ResolveTable(ctx context.Context, t handlers.Target) (*table.Manager, error) {
	return r.chain.Resolve(ctx, t)
}

// Message delivers a one-line announcement unless output is suppressed.
func (r *Runtime) Message(text string) {
	r.mu.Lock()
	sink, suppressed := r.messages, r.suppressed > 0
	r.mu.Unlock()
	if suppressed || sink == nil {
		return
	}
	sink(text)
}

// SetMessages replaces the message sink.
func (r *Runtime) SetMessages(sink MessageSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = sink
}

// WithOutputSuppressed runs fn with announcements muted. Commands use it
// when replaying movements that would otherwise echo every step.
func (r *Runtime) WithOutputSuppressed(fn func()) {
	r.mu.Lock()
	r.suppressed++
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.suppressed--
		r.mu.Unlock()
	}()
	fn()
}

// IsRepeatedInvocation reports whether the same command fired within the
// repeat window, and records this invocation.
func (r *Runtime) IsRepeatedInvocation(command string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	repeated := command == r.lastCmd && now.Sub(r.lastCmdAt) <= repeatWindow
	r.lastCmd, r.lastCmdAt = command, now
	return repeated
}

// RowLayoutCells turns the manager's current row into the cell list the
// braille packer consumes, applying each column's configured width.
func RowLayoutCells(m *table.Manager, displaySize int) []braille.Cell {
	row := m.RowAt(m.CurrentRow())
	if row == nil {
		return nil
	}
	var out []braille.Cell
	for _, c := range row.Cells() {
		width := c.Width(displaySize)
		if width < 0 {
			width = braille.Unbounded
		}
		out = append(out, braille.Cell{
			Column: c.ColumnNumber(),
			Text:   c.Text(),
			Width:  width,
		})
	}
	return out
}
