package tableconfig

import (
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "tables.json"), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_MissingFileIsEmptyCatalog(t *testing.T) {
	store := newTestStore(t)

	keys, err := store.Catalog(false)
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("Catalog=%v want empty", keys)
	}
}

func TestStore_MalformedFileIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tables.json")
	if err := os.WriteFile(path, []byte("{"), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer func() { _ = store.Close() }()

	if _, err := store.Catalog(false); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := store.Get(KeyFor("T1"), true); err == nil {
		t.Fatalf("expected parse error from Get")
	}
}

func TestStore_GetReturnsIdenticalInstance(t *testing.T) {
	store := newTestStore(t)

	const n = 16
	var wg sync.WaitGroup
	configs := make([]*TableConfig, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			cfg, err := store.Get(KeyFor("T1"), true)
			if err == nil {
				configs[i] = cfg
			}
		}()
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if configs[i] == nil || configs[i] != configs[0] {
			t.Fatalf("Get returned distinct instances for the same key")
		}
	}
}

func TestStore_GetWithoutCreateFails(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(KeyFor("nope"), false)
	if err == nil {
		t.Fatalf("expected ErrNotFound")
	}
}

func TestStore_RemoveUnknownKeyFails(t *testing.T) {
	store := newTestStore(t)

	if err := store.Remove(KeyFor("nope")); err == nil {
		t.Fatalf("expected ErrNotFound")
	}
}

func TestStore_MutationPersistsAndReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tables.json")

	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	cfg, err := store.Get(KeyFor("T1"), true)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if err := cfg.SetColumnWidth(40, 3, 12); err != nil {
		t.Fatalf("SetColumnWidth: %v", err)
	}
	if err := cfg.SetMarkedColumn(2, true); err != nil {
		t.Fatalf("SetMarkedColumn: %v", err)
	}
	if err := cfg.SetCustomRowHeader(7, "totals"); err != nil {
		t.Fatalf("SetCustomRowHeader: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// A fresh store must round-trip the integer-keyed maps losslessly.
	store2, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer func() { _ = store2.Close() }()

	cfg2, err := store2.Get(KeyFor("T1"), false)
	if err != nil {
		t.Fatalf("Get after reload: %v", err)
	}
	if got := cfg2.ColumnWidth(40, 3); got != 12 {
		t.Fatalf("ColumnWidth=%d want 12", got)
	}
	if announce, marked := cfg2.MarkedColumn(2); !marked || !announce {
		t.Fatalf("MarkedColumn=(%v,%v) want marked with announce", announce, marked)
	}
	if text, ok := cfg2.CustomRowHeader(7); !ok || text != "totals" {
		t.Fatalf("CustomRowHeader=(%q,%v) want (totals,true)", text, ok)
	}
	if !reflect.DeepEqual(cfg2.leaf().ColumnWidths, map[int]map[int]int{40: {3: 12}}) {
		t.Fatalf("ColumnWidths=%v want map[40:map[3:12]]", cfg2.leaf().ColumnWidths)
	}
}

func TestStore_CatalogListsKeysInFileOrder(t *testing.T) {
	store := newTestStore(t)

	for _, id := range []string{"alpha", "beta", "gamma"} {
		cfg, err := store.Get(KeyFor(id), true)
		if err != nil {
			t.Fatalf("Get(%s): %v", id, err)
		}
		if err := cfg.SetDefaultColumnWidth(8); err != nil {
			t.Fatalf("SetDefaultColumnWidth: %v", err)
		}
	}

	keys, err := store.Catalog(true)
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if len(keys) != 3 || keys[0].ID != "alpha" || keys[1].ID != "beta" || keys[2].ID != "gamma" {
		t.Fatalf("Catalog=%v want [alpha beta gamma]", keys)
	}
}

func TestStore_RemoveDropsPersistedConfig(t *testing.T) {
	store := newTestStore(t)

	cfg, err := store.Get(KeyFor("T1"), true)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if err := cfg.SetDefaultColumnWidth(6); err != nil {
		t.Fatalf("SetDefaultColumnWidth: %v", err)
	}
	if err := store.Remove(KeyFor("T1")); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	keys, err := store.Catalog(true)
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("Catalog=%v want empty after Remove", keys)
	}
}

func TestStore_StructuredKeysRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tables.json")

	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	key := KeyForColumnHeaders([]string{"Name", "Size", "Date"})
	cfg, err := store.Get(key, true)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if err := cfg.SetColumnHeaderRow(HeaderExplicit, 1); err != nil {
		t.Fatalf("SetColumnHeaderRow: %v", err)
	}
	_ = store.Close()

	store2, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer func() { _ = store2.Close() }()

	keys, err := store2.Catalog(false)
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if len(keys) != 1 || !keys[0].Equal(key) {
		t.Fatalf("Catalog=%v want the column-header key", keys)
	}
	cfg2, err := store2.Get(key, false)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if mode, row := cfg2.ColumnHeaderRow(); mode != HeaderExplicit || row != 1 {
		t.Fatalf("ColumnHeaderRow=(%v,%d) want (explicit,1)", mode, row)
	}
}
