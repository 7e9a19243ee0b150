package tableconfig

import (
	"encoding/json"
	"testing"
)

func intp(n int) *int { return &n }

func TestTableConfig_LayeredFallback(t *testing.T) {
	parent := &Values{
		DefaultColumnWidth: intp(8),
		ColumnWidths:       map[int]map[int]int{40: {1: 20}},
		MarkedColumns:      map[int]bool{5: true},
	}
	cfg := NewDetached(KeyFor("T1"), parent)

	// Unset everywhere: hard-coded default.
	cfg2 := NewDetached(KeyFor("T2"))
	if got := cfg2.ColumnWidth(40, 1); got != DefaultColumnWidth {
		t.Fatalf("ColumnWidth=%d want %d", got, DefaultColumnWidth)
	}

	// Parent answers when the leaf is silent.
	if got := cfg.ColumnWidth(40, 1); got != 20 {
		t.Fatalf("ColumnWidth=%d want parent's 20", got)
	}
	if got := cfg.ColumnWidth(40, 2); got != 8 {
		t.Fatalf("ColumnWidth=%d want parent default 8", got)
	}
	if _, marked := cfg.MarkedColumn(5); !marked {
		t.Fatalf("MarkedColumn(5) not visible through parent")
	}

	// Writes land on the leaf and shadow the parent.
	if err := cfg.SetColumnWidth(40, 1, 4); err != nil {
		t.Fatalf("SetColumnWidth: %v", err)
	}
	if got := cfg.ColumnWidth(40, 1); got != 4 {
		t.Fatalf("ColumnWidth=%d want leaf's 4", got)
	}
	if parent.ColumnWidths[40][1] != 20 {
		t.Fatalf("parent layer mutated")
	}
}

func TestTableConfig_PerSizeDefaultBeatsGlobal(t *testing.T) {
	cfg := NewDetached(KeyFor("T1"))
	if err := cfg.SetDefaultColumnWidth(6); err != nil {
		t.Fatalf("SetDefaultColumnWidth: %v", err)
	}
	cfg.leaf().DefaultColumnWidthBySize = map[int]int{80: 14}

	if got := cfg.ColumnWidth(80, 1); got != 14 {
		t.Fatalf("ColumnWidth=%d want per-size 14", got)
	}
	if got := cfg.ColumnWidth(40, 1); got != 6 {
		t.Fatalf("ColumnWidth=%d want global 6", got)
	}
}

func TestHeaderRef_JSONForms(t *testing.T) {
	b, err := json.Marshal(HeaderRef{Number: 3})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "3" {
		t.Fatalf("marshal=%s want 3", b)
	}

	b, err = json.Marshal(HeaderRef{Disabled: true})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"disabled"` {
		t.Fatalf("marshal=%s want \"disabled\"", b)
	}

	var h HeaderRef
	if err := json.Unmarshal([]byte(`"disabled"`), &h); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !h.Disabled {
		t.Fatalf("unmarshal disabled: %+v", h)
	}
	if err := json.Unmarshal([]byte("7"), &h); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if h.Disabled || h.Number != 7 {
		t.Fatalf("unmarshal number: %+v", h)
	}
	if err := json.Unmarshal([]byte(`"bogus"`), &h); err == nil {
		t.Fatalf("expected error for unknown string form")
	}
}

func TestKey_EqualityByNormalizedJSON(t *testing.T) {
	a := KeyForColumnHeaders([]string{"Name", "Size"})
	b := KeyForColumnHeaders([]string{"Name", "Size"})
	c := KeyForColumnHeaders([]string{"Name", "Date"})

	if !a.Equal(b) {
		t.Fatalf("equal keys compare unequal")
	}
	if a.Equal(c) {
		t.Fatalf("distinct keys compare equal")
	}
	if a.Equal(KeyFor("Name")) {
		t.Fatalf("structured key equals opaque key")
	}

	web := Key{WebModule: &WebModule{Name: "mail", Rule: "inbox"}}
	round, err := json.Marshal(web)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Key
	if err := json.Unmarshal(round, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !web.Equal(back) {
		t.Fatalf("web module key did not round-trip: %s vs %s", web, back)
	}
}

func TestKey_RejectsEmpty(t *testing.T) {
	var k Key
	if _, err := json.Marshal(k); err == nil {
		t.Fatalf("expected error marshaling empty key")
	}
	if err := json.Unmarshal([]byte(`""`), &k); err == nil {
		t.Fatalf("expected error parsing empty string key")
	}
	if err := json.Unmarshal([]byte(`{}`), &k); err == nil {
		t.Fatalf("expected error parsing unknown structure")
	}
}
