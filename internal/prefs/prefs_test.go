package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSeparatorRune(t *testing.T) {
	cases := []struct {
		pattern string
		want    rune
	}{
		{"4568", '⢸'},
		{"", '⠀'},
		{"1", '⠁'},
		{"12345678", '⣿'},
	}
	for _, tc := range cases {
		p := Prefs{ColumnSeparator: tc.pattern}
		got, err := p.SeparatorRune()
		if err != nil {
			t.Fatalf("SeparatorRune(%q): %v", tc.pattern, err)
		}
		if got != tc.want {
			t.Fatalf("SeparatorRune(%q)=%U want %U", tc.pattern, got, tc.want)
		}
	}

	if _, err := (Prefs{ColumnSeparator: "49"}).SeparatorRune(); err == nil {
		t.Fatalf("expected error for dot out of range")
	}
	if got := (Prefs{ColumnSeparator: "bad"}).Separator(); got != "⢸" {
		t.Fatalf("Separator=%q want default fallback", got)
	}
}

func TestStore_LoadMissingReturnsDefault(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "prefs.toml"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	p, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p != Default() {
		t.Fatalf("Load=%+v want defaults", p)
	}
}

func TestStore_SaveAndLoadRoundTrip(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "prefs.toml"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	in := Default()
	in.ColumnSeparator = "78"
	in.RoutingDoubleClickToActivate = true
	if err := store.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out != in {
		t.Fatalf("Load=%+v want %+v", out, in)
	}
}

func TestStore_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prefs.toml")
	if err := os.WriteFile(path, []byte("columnSeparator = \"1\"\n"), 0o600); err != nil {
		t.Fatalf("write prefs: %v", err)
	}
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	p, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.ColumnSeparator != "1" {
		t.Fatalf("ColumnSeparator=%q want 1", p.ColumnSeparator)
	}
	if !p.SetColumnWidthWithRouting || p.LogLevel != "info" {
		t.Fatalf("unset fields lost their defaults: %+v", p)
	}
}

func TestStore_MalformedFileFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prefs.toml")
	if err := os.WriteFile(path, []byte("columnSeparator = [\n"), 0o600); err != nil {
		t.Fatalf("write prefs: %v", err)
	}
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if _, err := store.Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestStore_Update(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "prefs.toml"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if err := store.Update(func(p *Prefs) error {
		p.LogLevel = "debug"
		return nil
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	p, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.LogLevel != "debug" {
		t.Fatalf("LogLevel=%q want debug", p.LogLevel)
	}
}
