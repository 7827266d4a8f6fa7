// Package unionfind implements the "merges array" from spec §3/§9: a
// Tarjan union-find over dense card ids, represented as a single
// []uint32 arena rather than a pointer lattice. A representative slot
// stores 0x80000000 | size; a non-root slot stores its parent id. Path
// compression is an explicit [Set.Flatten] call, never an invariant
// maintained implicitly by Find — this matches spec §8 invariant 1's
// wording ("if merges[c] != c, then merges[merges[c]] == merges[c]")
// which only has to hold *after* flattening, and §5's "stages never
// assume path compression has occurred in between".
package unionfind

// rootFlag marks a slot as a class representative; the low bits then
// hold the class size instead of a parent id.
const rootFlag = 0x80000000

// Set is a union-find over the dense id range [0, N).
type Set struct {
	parent []uint32 // parent[i] == i | rootFlag-encoded-size for a root, else the parent id
}

// New creates a Set over n elements, each initially its own singleton
// class.
func New(n int) *Set {
	p := make([]uint32, n)
	for i := range p {
		p[i] = rootFlag | 1
	}
	return &Set{parent: p}
}

// Len returns the number of elements.
func (s *Set) Len() int { return len(s.parent) }

func isRoot(v uint32) bool { return v&rootFlag != 0 }

// Find returns the representative of i's class without mutating any
// state (no incidental path compression — see [Set.Flatten]).
func (s *Set) Find(i uint32) uint32 {
	for !isRoot(s.parent[i]) {
		i = s.parent[i]
	}
	return i
}

// Size returns the size of i's class.
func (s *Set) Size(i uint32) int {
	root := s.Find(i)
	return int(s.parent[root] &^ rootFlag)
}

// Union merges the classes containing a and b, returning the new
// representative. The larger class absorbs the smaller (ties keep a's
// root) to bound tree height before flattening.
func (s *Set) Union(a, b uint32) uint32 {
	ra, rb := s.Find(a), s.Find(b)
	if ra == rb {
		return ra
	}
	sizeA := int(s.parent[ra] &^ rootFlag)
	sizeB := int(s.parent[rb] &^ rootFlag)
	if sizeB > sizeA {
		ra, rb = rb, ra
		sizeA, sizeB = sizeB, sizeA
	}
	s.parent[rb] = ra
	s.parent[ra] = rootFlag | uint32(sizeA+sizeB)
	return ra
}

// Same reports whether a and b are in the same class.
func (s *Set) Same(a, b uint32) bool { return s.Find(a) == s.Find(b) }

// Flatten applies path compression across every element: after it
// returns, s.Find(i) == s.parent[i] for every non-root i (spec §8
// invariant 1's "flattening" clause), and Find becomes O(1).
func (s *Set) Flatten() {
	for i := range s.parent {
		root := s.Find(uint32(i))
		if uint32(i) != root {
			s.parent[i] = root
		}
	}
}

// Roots returns the representative id of every distinct class, in id
// order. Flatten is not required beforehand.
func (s *Set) Roots() []uint32 {
	var out []uint32
	for i := range s.parent {
		if isRoot(s.parent[i]) {
			out = append(out, uint32(i))
		}
	}
	return out
}
