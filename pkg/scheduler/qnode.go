package scheduler

import "container/heap"

// Queue-key ranges from spec §4.1: resolver slots occupy the low end
// of the key space, hosts that fail resolution entirely get pinned
// into a separate high range so they never interleave with resolved
// hosts' natural keys.
const (
	ResolverSlotMin uint32 = 0x00000001
	ResolverSlotMax uint32 = 0x00FFFFFF

	UnresolvableHostMin uint32 = 0x7F020000
	UnresolvableHostMax uint32 = 0x7F02FFFF

	// ResolverSlotPriority is the fixed qpriority assigned to any qnode
	// still waiting on resolver-slot assignment, so it never loses a
	// politeness-heap comparison to a host with real priority 0 (spec
	// §4.1: "qpriority = ~0 for resolver-slot qnodes").
	ResolverSlotPriority = ^int32(0)
)

// hostHeap is a priority-ordered heap of *Host, ordered by descending
// QPriority and, on ties, ascending QueueKey so politeness rotation is
// deterministic (spec §8 scenario S4: "H1/H2 with qkeys K1/K2").
type hostHeap []*Host

func (h hostHeap) Len() int { return len(h) }
func (h hostHeap) Less(i, j int) bool {
	if h[i].QPriority != h[j].QPriority {
		return h[i].QPriority > h[j].QPriority
	}
	return h[i].QueueKey < h[j].QueueKey
}
func (h hostHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex, h[j].heapIndex = i, j
}
func (h *hostHeap) Push(x any) {
	host := x.(*Host)
	host.heapIndex = len(*h)
	*h = append(*h, host)
}
func (h *hostHeap) Pop() any {
	old := *h
	n := len(old)
	host := old[n-1]
	old[n-1] = nil
	host.heapIndex = -1
	*h = old[:n-1]
	return host
}

// politenessHeap wraps hostHeap with the container/heap interface plus
// a fix-up hook for when a host already in the heap changes priority.
type politenessHeap struct {
	h hostHeap
}

func newPolitenessHeap() *politenessHeap {
	return &politenessHeap{h: hostHeap{}}
}

func (p *politenessHeap) Len() int { return p.h.Len() }

func (p *politenessHeap) Push(host *Host) {
	heap.Push(&p.h, host)
}

func (p *politenessHeap) Pop() *Host {
	if p.h.Len() == 0 {
		return nil
	}
	return heap.Pop(&p.h).(*Host)
}

// Fix re-establishes heap order for host after its QPriority changed
// in place (e.g. after a Pop from its item queue).
func (p *politenessHeap) Fix(host *Host) {
	if host.heapIndex >= 0 {
		heap.Fix(&p.h, host.heapIndex)
	}
}

// Remove pulls host out of the heap regardless of position.
func (p *politenessHeap) Remove(host *Host) {
	if host.heapIndex >= 0 {
		heap.Remove(&p.h, host.heapIndex)
	}
}
