package unionfind

import "testing"

func TestUnionFindBasic(t *testing.T) {
	s := New(5)
	for i := uint32(0); i < 5; i++ {
		if s.Find(i) != i {
			t.Fatalf("element %d should start as its own root", i)
		}
	}
	s.Union(0, 1)
	s.Union(1, 2)
	if !s.Same(0, 2) {
		t.Fatal("0 and 2 should be in the same class after unioning through 1")
	}
	if s.Same(0, 3) {
		t.Fatal("0 and 3 should not be in the same class")
	}
	if s.Size(0) != 3 {
		t.Fatalf("class {0,1,2} should have size 3, got %d", s.Size(0))
	}
}

func TestFlattenInvariant(t *testing.T) {
	s := New(6)
	s.Union(0, 1)
	s.Union(1, 2)
	s.Union(2, 3)
	s.Flatten()
	root := s.Find(3)
	for i := uint32(0); i <= 3; i++ {
		if s.parent[i] != root && !isRoot(s.parent[i]) {
			if s.parent[i] != root {
				t.Errorf("element %d: parent = %d, want root %d directly after Flatten", i, s.parent[i], root)
			}
		}
	}
}

// S3 — merge by fingerprint scenario from spec §8: after merging two
// classes, the non-representative's slot must resolve directly to the
// representative (the merger additionally rewrites merges[i] to point
// straight at the representative; Flatten achieves the same effect for
// plain union-find consumers).
func TestMergeByFingerprintScenario(t *testing.T) {
	s := New(2)
	const weight100card, weight50card = 0, 1
	rep := s.Union(weight100card, weight50card)
	s.Flatten()
	if s.Find(weight50card) != rep {
		t.Fatalf("merges[weight50card] should resolve to the representative %d, got %d", rep, s.Find(weight50card))
	}
}

func TestRoots(t *testing.T) {
	s := New(4)
	s.Union(0, 1)
	roots := s.Roots()
	if len(roots) != 3 {
		t.Fatalf("expected 3 distinct classes ({0,1},{2},{3}), got %d", len(roots))
	}
}
