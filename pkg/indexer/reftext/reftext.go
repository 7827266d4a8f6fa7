// Package reftext implements the reference-text pipeline (spec
// §4.2.9): score each link's anchor text by the weight of the page it
// appears on, group anchors by destination class, and keep the
// top-K highest-weighted distinct anchors per class as that class's
// reference text.
package reftext

import (
	"math"
	"sort"
)

// Anchor is one extracted link's anchor text, already resolved to its
// source and destination classes.
type Anchor struct {
	SrcCard   uint32
	SrcClass  uint32
	DstClass  uint32
	Text      string
	SrcWeight byte
	InterSite bool
	Offset    int64 // byte offset in the original stream, for the final re-sort
}

// score computes w = 2^(src_weight/8), multiplied by 8 for an
// inter-site anchor (spec §4.2.9 step 2).
func score(a Anchor) float64 {
	w := math.Pow(2, float64(a.SrcWeight)/8.0)
	if a.InterSite {
		w *= 8
	}
	return w
}

// Label is one emitted reference-text label: the anchor text attached
// to a destination class, with its summed score and occurrence count.
type Label struct {
	DstClass uint32
	Text     string
	Weight   float64
	Count    int
	Offset   int64 // of the representative occurrence, for the final re-sort
}

// Builder accumulates anchors before grouping (spec §4.2.9 steps 1-3).
type Builder struct {
	topK   int
	groups map[uint32]map[string]*Label
}

// NewBuilder returns a Builder that keeps at most topK reference-text
// labels per destination class.
func NewBuilder(topK int) *Builder {
	return &Builder{topK: topK, groups: make(map[uint32]map[string]*Label)}
}

// Add scores and folds one anchor into its destination class's group,
// skipping self-referential anchors (src and dst collapsed to the
// same class — spec §4.2.9 step 1).
func (b *Builder) Add(a Anchor) {
	if a.SrcClass == a.DstClass {
		return
	}
	group, ok := b.groups[a.DstClass]
	if !ok {
		group = make(map[string]*Label)
		b.groups[a.DstClass] = group
	}
	w := score(a)
	l, ok := group[a.Text]
	if !ok {
		group[a.Text] = &Label{DstClass: a.DstClass, Text: a.Text, Weight: w, Count: 1, Offset: a.Offset}
		return
	}
	l.Weight += w
	l.Count++
	if w > l.Weight-w { // this occurrence outweighs the prior representative
		l.Offset = a.Offset
	}
}

// Build groups, keeps the top-K per class by weight, then re-sorts
// the survivors by byte offset for sequential downstream reads (spec
// §4.2.9 steps 3-4).
func (b *Builder) Build() []Label {
	var out []Label
	for _, group := range b.groups {
		labels := make([]Label, 0, len(group))
		for _, l := range group {
			labels = append(labels, *l)
		}
		sort.Slice(labels, func(i, j int) bool { return labels[i].Weight > labels[j].Weight })
		if b.topK > 0 && len(labels) > b.topK {
			labels = labels[:b.topK]
		}
		out = append(out, labels...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Offset != out[j].Offset {
			return out[i].Offset < out[j].Offset
		}
		return out[i].Text < out[j].Text
	})
	return out
}
