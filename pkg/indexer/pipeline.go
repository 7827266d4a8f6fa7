// Package indexer stitches the indexer pipeline stages — resolve,
// linkgraph, merge, weight, unreach, reftext, labels — into one run
// (spec §4.2, Component B); the lexicon stage is not part of this run.
// Each run is tagged with a
// [uuid.UUID] so its stage logs and status-server output can be
// correlated end to end, the way the gatherer tags a crawl session.
package indexer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sherlocksearch/holmes/pkg/config"
	"github.com/sherlocksearch/holmes/pkg/fingerprint"
	"github.com/sherlocksearch/holmes/pkg/indexer/labels"
	"github.com/sherlocksearch/holmes/pkg/indexer/linkgraph"
	"github.com/sherlocksearch/holmes/pkg/indexer/merge"
	"github.com/sherlocksearch/holmes/pkg/indexer/reftext"
	"github.com/sherlocksearch/holmes/pkg/indexer/resolve"
	"github.com/sherlocksearch/holmes/pkg/indexer/unreach"
	"github.com/sherlocksearch/holmes/pkg/indexer/weight"
	"github.com/sherlocksearch/holmes/pkg/observability"
)

// Document is one crawled document, the pipeline's raw input unit.
// Checksum, when non-empty, is the content hash mergesums groups
// near-identical bodies by (spec §4.2.3/§4.2.4); documents with
// identical URLs are already collapsed by the resolve stage before
// merge ever sees them.
type Document struct {
	URL      string
	Body     string
	Checksum string
	Weight   int32
	Roots    bool // true if this document is a crawl root (weight-computation seed)
}

// Link is one raw, unresolved extracted link (spec §4.2.2).
type Link struct {
	FromURL    string
	TargetURL  string
	AnchorText string
	IsRedirect bool
	InterSite  bool
}

// Result is everything a pipeline Run produces.
type Result struct {
	RunID         uuid.UUID
	NumCards      uint32
	LinkGraph     linkgraph.Graph
	Backlinks     [][]uint32
	MergeClass    []merge.Class
	Weights       []byte
	Unreachable   []uint32
	ReftextLabels []reftext.Label
	LabelGroups   []labels.URLGroup
	Dropped       int
}

// Pipeline runs the resolve -> linkgraph -> merge -> weight -> unreach
// -> reftext -> labels stages over one crawl's documents and links.
type Pipeline struct {
	Config config.Indexer
}

// Run executes every stage in sequence, emitting
// [observability.IndexHooks] start/complete events per stage so
// operators can watch progress the way §7 describes (a per-stage
// summary line).
func (p Pipeline) Run(ctx context.Context, docs []Document, links []Link, areaOf func(fromURL, toURL string) bool) Result {
	runID := uuid.New()
	res := Result{RunID: runID}

	r := resolve.New(8, p.Config.MaxHashDensity)
	urlCard := make(map[string]uint32, len(docs))
	cardURL := make([]string, 0, len(docs))
	cardChecksum := make(map[uint32]string, len(docs))
	cardWeight := make(map[uint32]int32, len(docs))
	roots := make([]uint32, 0)

	p.stage(ctx, "resolve", len(docs), func() int {
		for _, d := range docs {
			fp := fingerprint.Of(d.URL)
			card, dup := r.Resolve(fp)
			urlCard[d.URL] = card
			for uint32(len(cardURL)) <= card {
				cardURL = append(cardURL, "")
			}
			cardURL[card] = d.URL
			if !dup {
				cardChecksum[card] = d.Checksum
				cardWeight[card] = d.Weight
			}
			if d.Roots {
				roots = append(roots, card)
			}
		}
		res.NumCards = r.NumCards()
		return int(res.NumCards)
	})

	var rawLinks []linkgraph.RawLink
	p.stage(ctx, "linkgraph", len(links), func() int {
		for _, l := range links {
			from, ok := urlCard[l.FromURL]
			if !ok {
				observability.Index().OnInconsistency(ctx, "linkgraph", "link source not in resolved card set: "+l.FromURL)
				res.Dropped++
				continue
			}
			fp := fingerprint.Of(l.TargetURL)
			rawLinks = append(rawLinks, linkgraph.RawLink{From: from, TargetFP: fp, IsRedirect: l.IsRedirect})
		}
		var inArea linkgraph.AreaFn
		if areaOf != nil {
			inArea = func(from, to uint32) bool {
				if int(from) >= len(cardURL) || int(to) >= len(cardURL) {
					return true
				}
				return areaOf(cardURL[from], cardURL[to])
			}
		}
		res.LinkGraph = linkgraph.Build(rawLinks, r, int(res.NumCards), inArea)
		res.Backlinks = res.LinkGraph.BuildBacklinks()
		res.Dropped += res.LinkGraph.Dropped
		return len(rawLinks)
	})

	var repOf map[uint32]uint32
	p.stage(ctx, "merge", int(res.NumCards), func() int {
		cards := make([]merge.Card, res.NumCards)
		for card := uint32(0); card < res.NumCards; card++ {
			cards[card] = merge.Card{ID: card, Weight: cardWeight[card]}
		}
		groups := groupByChecksum(cardChecksum)
		m := merge.Merger{GiantThreshold: p.Config.GiantDocuments}
		res.MergeClass = m.Run(cards, groups)
		repOf = make(map[uint32]uint32, len(cards))
		for _, cls := range res.MergeClass {
			for _, member := range cls.Members {
				repOf[member] = cls.Rep
			}
		}
		return len(res.MergeClass)
	})

	p.stage(ctx, "weight", int(res.NumCards), func() int {
		wc := weight.Computer{Params: weight.Params{
			PRandom:   p.Config.PRandom,
			PWeight:   p.Config.PWeight,
			PFollow:   p.Config.PFollow,
			Omega:     p.Config.Omega,
			MinChange: p.Config.MinChange,
			MaxPasses: p.Config.MaxPasses,
		}}
		scores, passes := wc.Run(weight.Graph{Out: res.LinkGraph.Out})
		res.Weights = weight.Rescale(scores)
		return passes
	})

	p.stage(ctx, "unreach", int(res.NumCards), func() int {
		res.Unreachable = unreach.Unreachable(unreach.Graph{Out: res.LinkGraph.Out}, roots)
		return len(res.Unreachable)
	})

	p.stage(ctx, "reftext", len(links), func() int {
		topK := p.Config.TopKAnchors
		if topK <= 0 {
			topK = refTextTopK
		}
		rb := reftext.NewBuilder(topK)
		for _, l := range links {
			from, ok1 := urlCard[l.FromURL]
			to, ok2 := urlCard[l.TargetURL]
			if !ok1 || !ok2 {
				continue
			}
			srcWeight := byte(0)
			if int(from) < len(res.Weights) {
				srcWeight = res.Weights[from]
			}
			rb.Add(reftext.Anchor{
				SrcCard: from, SrcClass: repOf[from], DstClass: repOf[to],
				Text: l.AnchorText, SrcWeight: srcWeight, InterSite: l.InterSite,
			})
		}
		res.ReftextLabels = rb.Build()
		return len(res.ReftextLabels)
	})

	p.stage(ctx, "labels", len(docs), func() int {
		var ls []labels.Label
		for _, d := range docs {
			card := urlCard[d.URL]
			ls = append(ls, labels.Label{Card: card, Kind: labels.KindURL, SourceURL: d.URL})
		}
		labels.AttrSort(ls)
		_, groups, dropped := labels.Join(ls, repOf)
		res.LabelGroups = groups
		res.Dropped += dropped
		return len(groups)
	})

	return res
}

// refTextTopK is the fallback top-K anchors per destination class when
// Config.TopKAnchors is unset (see [config.Indexer.TopKAnchors]).
const refTextTopK = 10

func (p Pipeline) stage(ctx context.Context, name string, inputCount int, run func() int) {
	observability.Index().OnStageStart(ctx, name, inputCount)
	start := time.Now()
	outputCount := run()
	observability.Index().OnStageComplete(ctx, name, outputCount, time.Since(start), nil)
}

// groupByChecksum buckets cards sharing the same non-empty content
// checksum into merge groups (spec §4.2.3/§4.2.4's mergesums: the
// content-duplicate pass run after resolve's identity/URL-fingerprint
// pass already collapsed exact-URL repeats).
func groupByChecksum(cardChecksum map[uint32]string) [][]uint32 {
	bySum := make(map[string][]uint32)
	for card, sum := range cardChecksum {
		if sum == "" {
			continue
		}
		bySum[sum] = append(bySum[sum], card)
	}
	groups := make([][]uint32, 0, len(bySum))
	for _, g := range bySum {
		if len(g) > 1 {
			groups = append(groups, g)
		}
	}
	return groups
}
