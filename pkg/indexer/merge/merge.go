// Package merge implements the indexer's duplicate-collapsing merger
// (spec §4.2.3/§4.2.4). The caller groups cards by a merge key (URL
// fingerprint for mergefp, content checksum for mergesums,
// near-duplicate signature for mergesigns) and passes the groups in;
// this package does not compute those keys. The merger unions the
// groups, picks one primary card per class — the highest-weight member,
// with ties broken by the lowest card id for determinism — and flags
// classes with at least config.Indexer.GiantDocuments members as GIANT
// so downstream stages can skip full link/lexicon processing on them.
package merge

import "github.com/sherlocksearch/holmes/pkg/unionfind"

// Card is the subset of a resolved card's fields the merger needs.
type Card struct {
	ID     uint32
	Weight int32
}

// Class is one merge class after [Merger.Run]: every member plus the
// chosen primary.
type Class struct {
	Rep     uint32
	Members []uint32
	Giant   bool
}

// Merger unions cards sharing a merge key (URL fingerprint, content
// checksum, or near-duplicate signature — the caller decides which by
// how it groups keys before calling Run) and selects one primary per
// class.
type Merger struct {
	GiantThreshold int
}

// Run merges every Cards sharing a key in groups (each inner slice is
// one pre-grouped key's member card ids) and returns one Class per
// resulting union-find class, Rep chosen as the highest-Weight member
// (ties -> lowest ID, spec §8 scenario S3: "weight100card wins over
// weight50card").
func (m Merger) Run(cards []Card, groups [][]uint32) []Class {
	n := uint32(len(cards))
	uf := unionfind.New(int(n))
	for _, g := range groups {
		for i := 1; i < len(g); i++ {
			uf.Union(g[0], g[i])
		}
	}
	uf.Flatten()

	byID := make(map[uint32]Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}

	membersByRoot := make(map[uint32][]uint32)
	for i := uint32(0); i < n; i++ {
		root := uf.Find(i)
		membersByRoot[root] = append(membersByRoot[root], i)
	}

	classes := make([]Class, 0, len(membersByRoot))
	for _, members := range membersByRoot {
		rep := pickPrimary(members, byID)
		classes = append(classes, Class{
			Rep:     rep,
			Members: members,
			Giant:   m.GiantThreshold > 0 && len(members) >= m.GiantThreshold,
		})
	}
	return classes
}

func pickPrimary(members []uint32, byID map[uint32]Card) uint32 {
	best := members[0]
	bestWeight := byID[best].Weight
	for _, m := range members[1:] {
		w := byID[m].Weight
		if w > bestWeight || (w == bestWeight && m < best) {
			best = m
			bestWeight = w
		}
	}
	return best
}
