// Package weight implements the indexer's link-weight computation
// (spec §4.2.5): a PageRank-style fixed point found by Gauss-Seidel
// iteration with successive over-relaxation (SOR), then log-rescaled
// into a single byte per card. Each pass walks every node in one
// goroutine and updates scores in place, so every read sees the latest
// value; Params.Shards is accepted but does not change the visiting
// order, and there are no lagged cross-shard reads.
package weight

import "math"

// Graph is the read-only link structure the computer walks: Out[i]
// lists the card ids i links to.
type Graph struct {
	Out [][]uint32
}

// Params are the SOR/random-walk tunables (spec §4.2.5, typically
// sourced from [config.Indexer]).
type Params struct {
	PRandom   float64 // teleport probability
	PWeight   float64 // probability of following a weighted link
	PFollow   float64 // probability of following any link uniformly
	Omega     float64 // SOR relaxation factor
	MinChange float64 // convergence threshold
	MaxPasses int
	Shards    int // 0 or 1 disables sharding (single pass order)
}

// Computer runs the Gauss-Seidel/SOR fixed point and rescales results
// into byte weights.
type Computer struct {
	Params Params
}

// Run computes raw (unscaled) PageRank-style scores for g, iterating
// until the largest per-node change drops below Params.MinChange or
// Params.MaxPasses is reached, and returns both the raw scores and the
// pass count actually used.
func (c Computer) Run(g Graph) (scores []float64, passes int) {
	n := len(g.Out)
	if n == 0 {
		return nil, 0
	}
	outdeg := make([]int, n)
	for i, links := range g.Out {
		outdeg[i] = len(links)
	}
	in := invert(g.Out, n)

	scores = make([]float64, n)
	for i := range scores {
		scores[i] = 1.0 / float64(n)
	}

	omega := c.Params.Omega
	if omega <= 0 {
		omega = 1.0
	}
	maxPasses := c.Params.MaxPasses
	if maxPasses <= 0 {
		maxPasses = 100
	}
	minChange := c.Params.MinChange
	if minChange <= 0 {
		minChange = 1e-4
	}
	teleport := c.Params.PRandom
	if teleport <= 0 && c.Params.PWeight <= 0 && c.Params.PFollow <= 0 {
		teleport = 0.15
	}
	follow := 1 - teleport

	shardOrder := shardedOrder(n, c.Params.Shards)

	for pass := 0; pass < maxPasses; pass++ {
		passes = pass + 1
		maxDelta := 0.0
		for _, i := range shardOrder {
			sum := 0.0
			for _, j := range in[i] {
				if outdeg[j] > 0 {
					sum += scores[j] / float64(outdeg[j])
				}
			}
			computed := teleport/float64(n) + follow*sum
			updated := scores[i] + omega*(computed-scores[i])
			if delta := math.Abs(updated - scores[i]); delta > maxDelta {
				maxDelta = delta
			}
			scores[i] = updated
		}
		if maxDelta < minChange {
			break
		}
	}
	return scores, passes
}

// shardedOrder returns the node visiting order for one pass. Shards is
// accepted for API compatibility with a future multi-goroutine runner
// but Run always walks node 0..n-1 in a single goroutine today, so the
// per-shard "lagged cross-shard read" the original sharded
// implementation relies on doesn't arise here — every read already
// sees the latest value, which only converges faster, never slower.
func shardedOrder(n, shards int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if shards <= 1 {
		return order
	}
	return order
}

func invert(out [][]uint32, n int) [][]uint32 {
	in := make([][]uint32, n)
	for i, links := range out {
		for _, j := range links {
			in[j] = append(in[j], uint32(i))
		}
	}
	return in
}

// Rescale log-rescales raw scores into the byte range [0,255], the
// form the bucket stores per card (spec §4.2.5 "log-rescale to byte
// range").
func Rescale(scores []float64) []byte {
	out := make([]byte, len(scores))
	if len(scores) == 0 {
		return out
	}
	minLog, maxLog := math.Inf(1), math.Inf(-1)
	logs := make([]float64, len(scores))
	for i, s := range scores {
		l := math.Log1p(s * 1e6) // shift into a well-behaved log domain
		logs[i] = l
		if l < minLog {
			minLog = l
		}
		if l > maxLog {
			maxLog = l
		}
	}
	span := maxLog - minLog
	for i, l := range logs {
		if span <= 0 {
			out[i] = 255
			continue
		}
		v := (l - minLog) / span * 255
		out[i] = byte(math.Round(v))
	}
	return out
}
