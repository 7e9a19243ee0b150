// Package handlers resolves the table under the user's focus by asking a
// chain of adapters in turn. Adapters are registered by integrations that
// know how to read a particular host: a misbehaving adapter must never take
// the whole chain down, so panics are logged and treated as a pass.
package handlers

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/accessolutions/tablehandler/internal/table"
)

var (
	// ErrUnresolved reports that every adapter passed on the target.
	ErrUnresolved = errors.New("no adapter resolved a table")
	// ErrNotATable lets an adapter claim a target and state that it holds
	// no table, stopping the chain.
	ErrNotATable = errors.New("not a table")
)

// Target describes the focused host object handed to the chain.
type Target struct {
	// App is the owning application or module name, empty when unknown.
	App string
	// URI locates the document or file the focus sits in.
	URI string
	// Object carries the host-specific node, opaque to the chain.
	Object any
}

// Next resolves the target against the remainder of the chain. An adapter
// may call it to decorate or veto what a later adapter would return.
type Next func(ctx context.Context, t Target) (*table.Manager, error)

// Adapter inspects a target and either returns a table manager for it,
// returns (nil, nil) to pass, or returns an error to stop the chain.
type Adapter interface {
	Name() string
	Resolve(ctx context.Context, t Target, next Next) (*table.Manager, error)
}

// AdapterFunc adapts a function to the Adapter interface.
type AdapterFunc struct {
	ID string
	Fn func(ctx context.Context, t Target, next Next) (*table.Manager, error)
}

func (a AdapterFunc) Name() string { return a.ID }

func (a AdapterFunc) Resolve(ctx context.Context, t Target, next Next) (*table.Manager, error) {
	return a.Fn(ctx, t, next)
}

// Chain holds the registered adapters in resolution order.
type Chain struct {
	log *log.Logger

	mu       sync.Mutex
	adapters []Adapter
}

// NewChain returns an empty chain. A nil logger falls back to the default.
func NewChain(logger *log.Logger) *Chain {
	if logger == nil {
		logger = log.Default()
	}
	return &Chain{log: logger}
}

// Register appends an adapter to the end of the chain.
func (c *Chain) Register(a Adapter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adapters = append(c.adapters, a)
}

// RegisterFront prepends an adapter, giving it first refusal. Overlay
// adapters that shadow a broader integration register here.
func (c *Chain) RegisterFront(a Adapter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adapters = append([]Adapter{a}, c.adapters...)
}

// Resolve walks the chain until an adapter returns a manager or an error.
// Every adapter passing yields ErrUnresolved.
func (c *Chain) Resolve(ctx context.Context, t Target) (*table.Manager, error) {
	c.mu.Lock()
	adapters := make([]Adapter, len(c.adapters))
	copy(adapters, c.adapters)
	c.mu.Unlock()
	return c.resolveFrom(ctx, adapters, 0, t)
}

func (c *Chain) resolveFrom(ctx context.Context, adapters []Adapter, start int, t Target) (*table.Manager, error) {
	for i := start; i < len(adapters); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next := func(ctx context.Context, t Target) (*table.Manager, error) {
			return c.resolveFrom(ctx, adapters, i+1, t)
		}
		m, err := c.call(ctx, adapters[i], t, next)
		if err != nil {
			return nil, err
		}
		if m != nil {
			return m, nil
		}
	}
	return nil, ErrUnresolved
}

// call isolates one adapter: a panic is logged and read as a pass.
func (c *Chain) call(ctx context.Context, a Adapter, t Target, next Next) (m *table.Manager, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("table adapter panicked", "adapter", a.Name(), "panic", r)
			m, err = nil, nil
		}
	}()
	return a.Resolve(ctx, t, next)
}
