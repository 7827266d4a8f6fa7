// Package resolve implements the fingerprint resolver (spec §4.2.1):
// given a stream of canonical URL keys, assign each a dense card id,
// detecting duplicates by fingerprint collision rather than by
// re-comparing full keys. The production structure is a radix split
// over the top bits of the fingerprint feeding an open-addressed hash
// table per partition, bounded by max_hash_density
// ([config.Indexer.MaxHashDensity]) before a partition is grown.
package resolve

import (
	"github.com/sherlocksearch/holmes/pkg/fingerprint"
)

// slot is one open-addressed hash table entry.
type slot struct {
	used bool
	fp   fingerprint.Fingerprint
	card uint32
}

// partition is one radix bucket's open-addressed table.
type partition struct {
	slots []slot
	count int
}

// Resolver assigns dense, gap-free card ids to fingerprints,
// deduplicating repeats to the card id first seen for that
// fingerprint. Partitions are split by the top radixBits of the
// fingerprint's Hash32, bounding the probe length of any single
// open-addressed table (spec §4.2.1 "radix split + open-addressed hash
// table").
type Resolver struct {
	radixBits  uint
	maxDensity float64
	partitions []*partition
	numCards   uint32
}

// New creates a Resolver with 2^radixBits partitions. maxDensity
// caps the load factor (occupied/capacity) before the partition's grow
// method doubles its table.
func New(radixBits uint, maxDensity float64) *Resolver {
	if maxDensity <= 0 || maxDensity >= 1 {
		maxDensity = 0.35
	}
	n := 1 << radixBits
	ps := make([]*partition, n)
	for i := range ps {
		ps[i] = newPartition(16)
	}
	return &Resolver{radixBits: radixBits, maxDensity: maxDensity, partitions: ps}
}

func newPartition(capacity int) *partition {
	return &partition{slots: make([]slot, capacity)}
}

func (r *Resolver) partitionFor(fp fingerprint.Fingerprint) *partition {
	idx := fp.Hash32() >> (32 - r.radixBits)
	if r.radixBits == 0 {
		idx = 0
	}
	return r.partitions[idx%uint32(len(r.partitions))]
}

// Resolve returns the card id for fp, assigning a new one (numbered
// sequentially from 0) on first sight. The second return reports
// whether fp had already been seen.
func (r *Resolver) Resolve(fp fingerprint.Fingerprint) (card uint32, dup bool) {
	p := r.partitionFor(fp)
	if p.density() >= r.maxDensity {
		p.grow()
	}
	return p.resolve(fp, r)
}

// NumCards returns the count of distinct fingerprints resolved so far.
func (r *Resolver) NumCards() uint32 { return r.numCards }

func (p *partition) density() float64 {
	if len(p.slots) == 0 {
		return 1
	}
	return float64(p.count) / float64(len(p.slots))
}

func (p *partition) grow() {
	old := p.slots
	p.slots = make([]slot, len(old)*2)
	p.count = 0
	for _, s := range old {
		if s.used {
			p.insert(s.fp, s.card)
		}
	}
}

func (p *partition) insert(fp fingerprint.Fingerprint, card uint32) {
	i := p.probeStart(fp)
	for {
		if !p.slots[i].used {
			p.slots[i] = slot{used: true, fp: fp, card: card}
			p.count++
			return
		}
		i = (i + 1) % len(p.slots)
	}
}

func (p *partition) probeStart(fp fingerprint.Fingerprint) int {
	return int(fp.Hash32() % uint32(len(p.slots)))
}

func (p *partition) resolve(fp fingerprint.Fingerprint, r *Resolver) (uint32, bool) {
	i := p.probeStart(fp)
	for {
		s := &p.slots[i]
		if !s.used {
			card := r.numCards
			r.numCards++
			*s = slot{used: true, fp: fp, card: card}
			p.count++
			return card, false
		}
		if s.fp == fp {
			return s.card, true
		}
		i = (i + 1) % len(p.slots)
	}
}
