package linkgraph

import (
	"testing"

	"github.com/sherlocksearch/holmes/pkg/fingerprint"
	"github.com/sherlocksearch/holmes/pkg/indexer/resolve"
)

func TestBuildResolvesAndMarksLinked(t *testing.T) {
	r := resolve.New(2, 0.5)
	fpA := fingerprint.Of("http://a.example/")
	fpB := fingerprint.Of("http://b.example/")
	cardA, _ := r.Resolve(fpA)
	_ = cardA

	links := []RawLink{{From: 0, TargetFP: fpB}}
	g := Build(links, r, int(r.NumCards())+1, nil)
	if g.Dropped != 0 {
		t.Fatalf("expected no drops, got %d", g.Dropped)
	}
	if len(g.Out[0]) != 1 {
		t.Fatalf("expected one outbound edge from card 0, got %v", g.Out[0])
	}
	target := g.Out[0][0]
	if !g.Linked[target] {
		t.Fatal("expected the target to be marked linked")
	}
}

func TestBuildDropsOutOfAreaEdges(t *testing.T) {
	r := resolve.New(2, 0.5)
	fpA := fingerprint.Of("http://a.example/")
	fpB := fingerprint.Of("http://b.other/")
	r.Resolve(fpA)

	links := []RawLink{{From: 0, TargetFP: fpB}}
	g := Build(links, r, int(r.NumCards())+1, func(from, to uint32) bool { return false })
	if g.Dropped != 1 {
		t.Fatalf("expected 1 area-violation drop, got %d", g.Dropped)
	}
	if len(g.Out[0]) != 0 {
		t.Fatalf("expected no surviving edges, got %v", g.Out[0])
	}
}

func TestOutdegree(t *testing.T) {
	g := Graph{Out: [][]uint32{{1, 2}, {}, {0}}}
	deg := g.Outdegree()
	if deg[0] != 2 || deg[1] != 0 || deg[2] != 1 {
		t.Fatalf("got %v", deg)
	}
}
