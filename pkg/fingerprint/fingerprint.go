// Package fingerprint implements the 128-bit opaque URL-key digest used
// throughout the indexer to identify a canonicalized URL without storing
// its text (spec §3 "Fingerprint").
package fingerprint

import (
	"crypto/md5"
	"encoding/binary"
	"sort"
)

// Size is the digest length in bytes.
const Size = 16

// Fingerprint is a 128-bit opaque digest. Comparison is bytewise;
// ordering is lexicographic, matching the spec's "two URLs map to the
// same fingerprint iff they are considered identical" contract.
type Fingerprint [Size]byte

// Of computes the fingerprint of a canonicalized URL key. The digest
// function itself is not load-bearing for any spec invariant (only
// collision-freedom and stable ordering are), so a standard-library hash
// is appropriate here rather than importing a specialized one.
func Of(canonicalKey string) Fingerprint {
	return Fingerprint(md5.Sum([]byte(canonicalKey)))
}

// Compare returns -1, 0, or 1 per bytewise lexicographic order.
func (f Fingerprint) Compare(other Fingerprint) int {
	for i := range f {
		if f[i] != other[i] {
			if f[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Less reports whether f sorts before other.
func (f Fingerprint) Less(other Fingerprint) bool { return f.Compare(other) < 0 }

// Hash32 returns the top 32 bits of the digest, used by the resolver's
// radix split (§4.2.1).
func (f Fingerprint) Hash32() uint32 {
	return binary.BigEndian.Uint32(f[:4])
}

// IsZero reports whether f is the zero fingerprint (used as a sentinel
// for "no fingerprint" in sparse records).
func (f Fingerprint) IsZero() bool { return f == Fingerprint{} }

// Entry pairs a fingerprint with the card id it resolves to, the unit
// record of the resolver's sorted master list (§4.2.1).
type Entry struct {
	FP     Fingerprint
	CardID uint32
}

// SortedTable is a fingerprint→card_id master list, sorted ascending by
// fingerprint (spec §8 invariant 5: "fingerprint array is strictly
// sorted"), for stages that need simple point lookups without
// resolver-style batching.
type SortedTable []Entry

// Build sorts entries into a [SortedTable]. Panics if two entries share
// a fingerprint but disagree on CardID, since the spec's invariant is
// that resolution is a function (same input, same output).
func Build(entries []Entry) SortedTable {
	t := make(SortedTable, len(entries))
	copy(t, entries)
	sort.Slice(t, func(i, j int) bool { return t[i].FP.Less(t[j].FP) })
	for i := 1; i < len(t); i++ {
		if t[i-1].FP == t[i].FP && t[i-1].CardID != t[i].CardID {
			panic("fingerprint: one fingerprint maps to two card ids")
		}
	}
	return t
}

// Lookup returns the card id for fp, or (0, false) if fp is absent.
func (t SortedTable) Lookup(fp Fingerprint) (uint32, bool) {
	i := sort.Search(len(t), func(i int) bool { return !t[i].FP.Less(fp) })
	if i < len(t) && t[i].FP == fp {
		return t[i].CardID, true
	}
	return 0, false
}

// IsSorted reports whether t satisfies the strictly-sorted invariant,
// used by tests and by callers rebuilding a table from an external
// source that might not have sorted it.
func (t SortedTable) IsSorted() bool {
	for i := 1; i < len(t); i++ {
		if !t[i-1].FP.Less(t[i].FP) {
			return false
		}
	}
	return true
}
