package fingerprint

import "testing"

func TestOfIsDeterministic(t *testing.T) {
	a := Of("http://example.com/")
	b := Of("http://example.com/")
	if a != b {
		t.Fatal("Of should be deterministic for the same key")
	}
	c := Of("http://example.com/x")
	if a == c {
		t.Fatal("different keys should (almost certainly) not collide")
	}
}

func TestCompareOrdering(t *testing.T) {
	a := Fingerprint{0x00, 0x01}
	b := Fingerprint{0x00, 0x02}
	if !a.Less(b) {
		t.Fatal("expected a < b")
	}
	if a.Compare(a) != 0 {
		t.Fatal("expected a == a")
	}
	if b.Compare(a) != 1 {
		t.Fatal("expected b > a")
	}
}

func TestSortedTableLookup(t *testing.T) {
	entries := []Entry{
		{FP: Of("c"), CardID: 3},
		{FP: Of("a"), CardID: 1},
		{FP: Of("b"), CardID: 2},
	}
	table := Build(entries)
	if !table.IsSorted() {
		t.Fatal("Build should produce a strictly sorted table")
	}
	for _, e := range entries {
		got, ok := table.Lookup(e.FP)
		if !ok || got != e.CardID {
			t.Errorf("Lookup(%v) = (%d, %v), want (%d, true)", e.FP, got, ok, e.CardID)
		}
	}
	if _, ok := table.Lookup(Of("missing")); ok {
		t.Error("Lookup of an absent fingerprint should report ok=false")
	}
}
