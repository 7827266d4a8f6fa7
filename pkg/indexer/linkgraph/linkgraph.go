// Package linkgraph implements mkgraph (spec §4.2.2): turn raw
// extracted links into the resolved adjacency the weight and
// unreachability stages consume. Steps, in order: resolve each link's
// target fingerprint to a card id via [resolve.Resolver]; rewrite a
// target that is itself the source of a redirect link to that
// redirect's target (one hop); drop links that cross a configured area
// boundary (e.g. protocol/host scope) or whose endpoints fall outside
// the card range; mark the IS_LINKED note on every link target; and
// emit, per source card, its resolved out-edges and outdegree.
package linkgraph

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/sherlocksearch/holmes/pkg/fingerprint"
	"github.com/sherlocksearch/holmes/pkg/indexer/resolve"
)

// RawLink is one extracted, unresolved link: the linking card plus the
// target URL's fingerprint and whether it is a redirect.
type RawLink struct {
	From       uint32
	TargetFP   fingerprint.Fingerprint
	IsRedirect bool
}

// AreaFn reports whether an edge from card `from` to card `to` stays
// within scope (e.g. same registrable domain); edges it rejects are
// dropped as an "area violation" (spec §4.2.2).
type AreaFn func(from, to uint32) bool

// Graph is the resolved adjacency mkgraph produces: Out[i] lists i's
// resolved, in-area out-edges; Linked[i] is true if any edge targets
// card i (spec §4.2.2's IS_LINKED note).
type Graph struct {
	Out     [][]uint32
	Linked  []bool
	Dropped int // edges dropped as out of the card range or out of area
}

// Build resolves links against r, follows redirects at most one hop (a
// link whose target card is the source of a redirect link is rewritten
// to that redirect's target, and the new target is not followed
// further, matching the original's single-hop redirect rewrite), drops
// edges with an endpoint outside [0, numCards) and out-of-area edges
// via inArea, and returns the resolved Graph over numCards cards.
func Build(links []RawLink, r *resolve.Resolver, numCards int, inArea AreaFn) Graph {
	g := Graph{
		Out:    make([][]uint32, numCards),
		Linked: make([]bool, numCards),
	}
	if inArea == nil {
		inArea = func(uint32, uint32) bool { return true }
	}

	redirectTarget := make(map[uint32]uint32)
	for _, l := range links {
		if l.IsRedirect {
			to, _ := r.Resolve(l.TargetFP)
			redirectTarget[l.From] = to
		}
	}

	for _, l := range links {
		to, _ := r.Resolve(l.TargetFP)
		if final, ok := redirectTarget[to]; ok {
			to = final
		}
		if int(l.From) >= numCards || int(to) >= numCards {
			g.Dropped++
			continue
		}
		if !inArea(l.From, to) {
			g.Dropped++
			continue
		}
		g.Out[l.From] = append(g.Out[l.From], to)
		g.Linked[to] = true
	}
	return g
}

// Outdegree returns the out-edge count of every card, the per-card
// summary mkgraph emits alongside the resolved index (spec §4.2.2).
func (g Graph) Outdegree() []int {
	out := make([]int, len(g.Out))
	for i, edges := range g.Out {
		out[i] = len(edges)
	}
	return out
}

// BuildBacklinks materializes the reverse adjacency (dest -> sources),
// the transpose of Out. The indexer pipeline stores it as
// Result.Backlinks; the CLI's per-node inspection mode uses it to
// restrict ExportDOT to a target's inbound neighborhood (the original's
// backlinker.c).
func (g Graph) BuildBacklinks() [][]uint32 {
	in := make([][]uint32, len(g.Out))
	for from, edges := range g.Out {
		for _, to := range edges {
			in[to] = append(in[to], uint32(from))
		}
	}
	return in
}

// ExportDOT renders the graph (or, if nodes is non-empty, just the
// induced subgraph over those card ids — e.g. one SCC or merge class)
// to Graphviz DOT and rasterizes it to PNG, a Go analogue of the
// original's debug/mkgraphidx.c and find-unreachable.c dump tools
// (SPEC_FULL.md's domain-stack wiring of goccy/go-graphviz).
func ExportDOT(ctx context.Context, g Graph, nodes []uint32) (dot string, png []byte, err error) {
	keep := func(uint32) bool { return true }
	if len(nodes) > 0 {
		set := make(map[uint32]bool, len(nodes))
		for _, n := range nodes {
			set[n] = true
		}
		keep = func(id uint32) bool { return set[id] }
	}

	var buf bytes.Buffer
	buf.WriteString("digraph holmes {\n")
	for i, edges := range g.Out {
		if !keep(uint32(i)) {
			continue
		}
		for _, to := range edges {
			if !keep(to) {
				continue
			}
			fmt.Fprintf(&buf, "  %d -> %d;\n", i, to)
		}
	}
	buf.WriteString("}\n")
	dot = buf.String()

	gv, err := graphviz.New(ctx)
	if err != nil {
		return dot, nil, err
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes(buf.Bytes())
	if err != nil {
		return dot, nil, err
	}
	defer graph.Close()

	var out bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.PNG, &out); err != nil {
		return dot, nil, err
	}
	return dot, out.Bytes(), nil
}
