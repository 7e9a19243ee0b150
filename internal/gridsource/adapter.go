package gridsource

import (
	"context"
	"fmt"

	"github.com/accessolutions/tablehandler/internal/handlers"
	"github.com/accessolutions/tablehandler/internal/table"
	"github.com/accessolutions/tablehandler/internal/tableconfig"
)

// configKeyFor keys a grid's settings by its column headers when a header
// row is present, so the same file keeps its settings after being moved or
// renamed. Headerless grids fall back to the table ID.
func configKeyFor(s *Static) tableconfig.Key {
	headers := s.HeaderTexts()
	nonEmpty := false
	for _, h := range headers {
		if h != "" {
			nonEmpty = true
			break
		}
	}
	if len(headers) > 1 && nonEmpty {
		return tableconfig.KeyForColumnHeaders(headers)
	}
	return tableconfig.KeyFor(s.TableID())
}

// NewManager binds a grid to its persisted settings. A nil store yields a
// detached, in-memory config.
func NewManager(s *Static, store *tableconfig.Store) (*table.Manager, error) {
	key := configKeyFor(s)
	if store == nil {
		return table.New(s, tableconfig.NewDetached(key)), nil
	}
	cfg, err := store.Get(key, true)
	if err != nil {
		return nil, fmt.Errorf("table config for %s: %w", s.TableID(), err)
	}
	return table.New(s, cfg), nil
}

// StaticAdapter resolves targets whose Object already is a *Static grid.
func StaticAdapter(store *tableconfig.Store) handlers.Adapter {
	return handlers.AdapterFunc{
		ID: "gridsource.static",
		Fn: func(_ context.Context, t handlers.Target, _ handlers.Next) (*table.Manager, error) {
			s, ok := t.Object.(*Static)
			if !ok {
				return nil, nil
			}
			return NewManager(s, store)
		},
	}
}

// FileAdapter resolves targets whose URI points at a delimited file on
// disk. Unreadable files stop the chain: the target was claimed.
func FileAdapter(store *tableconfig.Store) handlers.Adapter {
	return handlers.AdapterFunc{
		ID: "gridsource.file",
		Fn: func(_ context.Context, t handlers.Target, _ handlers.Next) (*table.Manager, error) {
			if t.URI == "" || !IsDelimitedFile(t.URI) {
				return nil, nil
			}
			s, err := LoadDelimited(t.URI)
			if err != nil {
				return nil, err
			}
			return NewManager(s, store)
		},
	}
}
