package weight

import "testing"

func TestConvergesOnSimpleCycle(t *testing.T) {
	g := Graph{Out: [][]uint32{{1}, {2}, {0}}} // a 3-cycle
	scores, passes := Computer{Params: Params{MaxPasses: 200, MinChange: 1e-9, Omega: 1.0}}.Run(g)
	if passes == 0 {
		t.Fatal("expected at least one pass")
	}
	sum := scores[0] + scores[1] + scores[2]
	if sum < 0.99 || sum > 1.01 {
		t.Fatalf("expected scores to roughly sum to 1, got %v (sum=%f)", scores, sum)
	}
	for i, s := range scores {
		if s < 0.3 || s > 0.36 {
			t.Errorf("symmetric cycle should give near-equal scores, node %d got %f", i, s)
		}
	}
}

func TestHubGetsHigherWeight(t *testing.T) {
	// nodes 0,1,2 all link to node 3 (a hub); node 3 links nowhere.
	g := Graph{Out: [][]uint32{{3}, {3}, {3}, {}}}
	scores, _ := Computer{Params: Params{MaxPasses: 200, MinChange: 1e-9}}.Run(g)
	for i := 0; i < 3; i++ {
		if scores[3] <= scores[i] {
			t.Fatalf("expected the hub (node 3) to outweigh node %d: %v", i, scores)
		}
	}
}

func TestRescaleProducesFullByteRange(t *testing.T) {
	scores := []float64{0.001, 0.01, 0.1, 1.0}
	bytes := Rescale(scores)
	if len(bytes) != len(scores) {
		t.Fatal("length mismatch")
	}
	if bytes[len(bytes)-1] != 255 {
		t.Fatalf("expected the highest score to rescale to 255, got %d", bytes[len(bytes)-1])
	}
	for i := 1; i < len(bytes); i++ {
		if bytes[i] < bytes[i-1] {
			t.Fatalf("rescale should preserve order: %v", bytes)
		}
	}
}

func TestRescaleEmpty(t *testing.T) {
	if len(Rescale(nil)) != 0 {
		t.Fatal("expected empty output for empty input")
	}
}
