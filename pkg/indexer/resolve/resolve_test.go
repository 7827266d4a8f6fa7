package resolve

import (
	"testing"

	"github.com/sherlocksearch/holmes/pkg/fingerprint"
)

func TestResolveAssignsDenseIDs(t *testing.T) {
	r := New(4, 0.5)
	a := fingerprint.Of("http://a.example/")
	b := fingerprint.Of("http://b.example/")

	ca, dup := r.Resolve(a)
	if dup {
		t.Fatal("first sight of a should not be a dup")
	}
	cb, dup := r.Resolve(b)
	if dup {
		t.Fatal("first sight of b should not be a dup")
	}
	if ca == cb {
		t.Fatal("distinct fingerprints must get distinct card ids")
	}
	if r.NumCards() != 2 {
		t.Fatalf("expected 2 cards, got %d", r.NumCards())
	}
}

func TestResolveDeduplicatesRepeats(t *testing.T) {
	r := New(2, 0.5)
	fp := fingerprint.Of("http://dup.example/")
	first, _ := r.Resolve(fp)
	second, dup := r.Resolve(fp)
	if !dup {
		t.Fatal("second sight should be reported as a dup")
	}
	if first != second {
		t.Fatalf("expected the same card id, got %d and %d", first, second)
	}
	if r.NumCards() != 1 {
		t.Fatalf("expected 1 card, got %d", r.NumCards())
	}
}

func TestResolveGrowsUnderLoad(t *testing.T) {
	r := New(0, 0.5)
	seen := map[uint32]bool{}
	for i := 0; i < 500; i++ {
		fp := fingerprint.Of(string(rune('a' + i%26)) + string(rune(i)))
		card, _ := r.Resolve(fp)
		seen[card] = true
	}
	if int(r.NumCards()) != len(seen) {
		t.Fatalf("card ids should stay dense and distinct: numCards=%d distinct=%d", r.NumCards(), len(seen))
	}
}
