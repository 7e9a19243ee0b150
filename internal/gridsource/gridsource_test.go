package gridsource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/accessolutions/tablehandler/internal/handlers"
	"github.com/accessolutions/tablehandler/internal/tableconfig"
)

func TestStatic_MergeSpansBothAxes(t *testing.T) {
	s := NewStatic("grid", [][]string{
		{"a", "b", "c"},
		{"d", "e", "f"},
		{"g", "h", "i"},
	})
	s.Merge(1, 2, 2, 2) // b swallows c, e, f

	d, ok := s.CellAt(2, 3)
	if !ok || d.Text != "b" {
		t.Fatalf("CellAt(2,3)=%+v want the merged cell b", d)
	}
	if d.RowSpan != 2 || d.ColumnSpan != 2 {
		t.Fatalf("spans=(%d,%d) want (2,2)", d.RowSpan, d.ColumnSpan)
	}

	// The merged cell shows up in both covered rows.
	row2 := s.RowCells(2)
	texts := make([]string, len(row2))
	for i, c := range row2 {
		texts[i] = c.Text
	}
	if len(texts) != 2 || texts[0] != "d" || texts[1] != "b" {
		t.Fatalf("RowCells(2)=%v want [d b]", texts)
	}
}

func TestStatic_SetCellBumpsGeneration(t *testing.T) {
	s := NewStatic("grid", [][]string{{"a"}})
	before := s.Generation()
	s.SetCell(1, 1, "z")
	if s.Generation() == before {
		t.Fatalf("generation did not change")
	}
	if d, _ := s.CellAt(1, 1); d.Text != "z" {
		t.Fatalf("Text=%q want z", d.Text)
	}
}

func TestLoadDelimited_CSVAndTSV(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "t.csv")
	if err := os.WriteFile(csvPath, []byte("Name,Size\nalpha,12\n"), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	tsvPath := filepath.Join(dir, "t.tsv")
	if err := os.WriteFile(tsvPath, []byte("Name\tSize\nalpha\t12\n"), 0o600); err != nil {
		t.Fatalf("write tsv: %v", err)
	}

	for _, path := range []string{csvPath, tsvPath} {
		s, err := LoadDelimited(path)
		if err != nil {
			t.Fatalf("LoadDelimited(%s): %v", path, err)
		}
		if n, _ := s.RowCount(); n != 2 {
			t.Fatalf("RowCount=%d want 2", n)
		}
		if d, _ := s.CellAt(2, 2); d.Text != "12" {
			t.Fatalf("CellAt(2,2)=%q want 12", d.Text)
		}
	}
}

func TestConfigKey_UsesColumnHeaders(t *testing.T) {
	withHeaders := NewStatic("a.csv", [][]string{{"Name", "Size"}, {"x", "1"}})
	headerless := NewStatic("b.csv", [][]string{{"only"}})

	key := configKeyFor(withHeaders)
	want := tableconfig.KeyForColumnHeaders([]string{"Name", "Size"})
	if !key.Equal(want) {
		t.Fatalf("key=%s want column-header key", key)
	}
	if k := configKeyFor(headerless); !k.Equal(tableconfig.KeyFor("b.csv")) {
		t.Fatalf("key=%s want ID fallback", k)
	}
}

func TestFileAdapter_ResolvesOnlyDelimitedURIs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.csv")
	if err := os.WriteFile(path, []byte("Name,Size\nalpha,12\n"), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	a := FileAdapter(nil)
	m, err := a.Resolve(context.Background(), handlers.Target{URI: path}, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m == nil {
		t.Fatalf("delimited file did not resolve")
	}
	if got := m.CurrentCell().Text(); got != "Name" {
		t.Fatalf("Text=%q want Name", got)
	}

	m, err = a.Resolve(context.Background(), handlers.Target{URI: filepath.Join(dir, "t.txt")}, nil)
	if err != nil || m != nil {
		t.Fatalf("non-delimited URI=(%v,%v) want a pass", m, err)
	}

	if _, err := a.Resolve(context.Background(), handlers.Target{URI: filepath.Join(dir, "missing.csv")}, nil); err == nil {
		t.Fatalf("unreadable file must stop the chain with an error")
	}
}

func TestNewStatic_GeneratesAnonymousID(t *testing.T) {
	a := NewStatic("", [][]string{{"x"}})
	b := NewStatic("", [][]string{{"x"}})
	if a.TableID() == "" {
		t.Fatalf("anonymous grid got no id")
	}
	if a.TableID() == b.TableID() {
		t.Fatalf("two anonymous grids share id %q", a.TableID())
	}
}
