package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sherlocksearch/holmes/pkg/observability"
)

// Scheduler is the gatherer's in-memory crawl queue: one [Host] record
// per distinct (protocol, hostname, port), each holding its own
// page-chain [itemQueue], all ordered by a politeness heap keyed on
// queue-key and priority (spec §4.1).
type Scheduler struct {
	mu sync.Mutex

	maxRetries int

	hosts     map[HostKey]*Host
	heap      *politenessHeap
	nextSlot  uint32 // next free resolver-slot queue key
	nextUnres uint32 // next free unresolvable-host queue key

	retries map[string]*RetryState // keyed by URL
	active  map[HostKey]bool       // hosts currently dequeued (ACTIVE) and not yet Finish'd
}

// New creates an empty Scheduler. maxRetries bounds the soft-error
// backoff loop (spec §4.1, typically [config.Gatherer.MaxRetries]).
func New(maxRetries int) *Scheduler {
	return &Scheduler{
		maxRetries: maxRetries,
		hosts:      make(map[HostKey]*Host),
		heap:       newPolitenessHeap(),
		nextSlot:   ResolverSlotMin,
		nextUnres:  UnresolvableHostMin,
		retries:    make(map[string]*RetryState),
		active:     make(map[HostKey]bool),
	}
}

// hostFor returns the Host record for key, creating it (with a fresh
// resolver-slot queue key) if this is the first time key is seen.
func (s *Scheduler) hostFor(key HostKey) *Host {
	if h, ok := s.hosts[key]; ok {
		return h
	}
	h := newHost(key, s.allocSlot())
	s.hosts[key] = h
	return h
}

func (s *Scheduler) allocSlot() uint32 {
	k := s.nextSlot
	if s.nextSlot < ResolverSlotMax {
		s.nextSlot++
	}
	return k
}

// MarkUnresolvable moves key's host permanently into the
// unresolvable-host queue-key range, per spec §4.1's "hosts that fail
// resolution entirely get pinned into a separate high range".
func (s *Scheduler) MarkUnresolvable(key HostKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.hostFor(key)
	h.QueueKey = s.nextUnres
	if s.nextUnres < UnresolvableHostMax {
		s.nextUnres++
	}
	s.heap.Fix(h)
}

// Enqueue admits a URL under host key with the given priority and
// URL-rest (spec §4.1 step "enqueue"). The caller is expected to have
// already run the reference filter (pkg/filter) before calling this.
func (s *Scheduler) Enqueue(key HostKey, urlRest string, priority int32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.hostFor(key)
	wasEmpty := h.Empty()
	h.Items.Push(item{URLRest: urlRest, Priority: priority})
	h.QPriority = h.Items.MaxPriority()
	h.Dirty = true

	switch {
	case s.active[key]:
		// currently being serviced by a Dequeue/Finish pair; the heap
		// entry is re-added on Finish.
	case wasEmpty:
		h.State = StateReady
		s.heap.Push(h)
	default:
		h.State = StateReady
		s.heap.Fix(h)
	}
}

// Dequeued is one item handed to a fetch worker by [Scheduler.Dequeue].
type Dequeued struct {
	Host     HostKey
	URLRest  string
	Priority int32
}

// Dequeue pops the single highest-priority item across all hosts,
// respecting one-item-per-host-at-a-time politeness: the host is
// marked ACTIVE and removed from the heap until [Scheduler.Finish] is
// called (spec §4.1 step "dequeue").
func (s *Scheduler) Dequeue(ctx context.Context) (Dequeued, bool) {
	s.mu.Lock()
	h := s.heap.Pop()
	if h == nil {
		s.mu.Unlock()
		return Dequeued{}, false
	}
	it, ok := h.Items.Pop()
	if !ok {
		// shouldn't happen (heap only holds non-empty hosts) but guard
		// against drift defensively.
		h.State = StateIdle
		s.mu.Unlock()
		return Dequeued{}, false
	}
	h.State = StateActive
	s.active[h.Key] = true
	s.mu.Unlock()

	observability.Gather().OnFetchStart(ctx, h.Key.Hostname, it.URLRest)
	return Dequeued{Host: h.Key, URLRest: it.URLRest, Priority: it.Priority}, true
}

// Finish reports the outcome of fetching url (owned by host key) and
// applies the retry/backoff state machine, re-enqueueing the item
// under its original priority if the error is soft and Retries hasn't
// hit maxRetries yet (spec §4.1 step "finish", §8 scenario S5). code is
// the numeric fetch-error code to carry into [RetryState.FinalOID] if
// the error proves terminal (e.g. an HTTP status or internal fetch
// errno); it is ignored when fetchErr is nil.
func (s *Scheduler) Finish(ctx context.Context, key HostKey, urlRest string, priority int32, code int, duration time.Duration, fetchErr error) {
	s.mu.Lock()

	delete(s.active, key)
	h := s.hostFor(key)

	class := Classify(fetchErr)
	rs := s.retries[urlRest]
	if rs == nil {
		rs = &RetryState{}
		s.retries[urlRest] = rs
	}
	requeue := rs.Record(class, code, s.maxRetries)

	if requeue {
		h.Items.Push(item{URLRest: urlRest, Priority: priority})
	} else {
		delete(s.retries, urlRest)
	}

	switch {
	case class == ClassSoft && h.RecentErrors < 1<<30:
		h.RecentErrors++
	case class == ClassSuccess || class == ClassNotModified:
		h.RecentErrors = 0
	}
	backoff := h.RecentErrors >= recErrLimitDefault

	if h.Items.Len() > 0 {
		h.QPriority = h.Items.MaxPriority()
		h.State = StateReady
		s.heap.Push(h)
	} else {
		h.State = StateIdle
	}
	s.mu.Unlock()

	observability.Gather().OnFetchComplete(ctx, key.Hostname, urlRest, code, duration)
	if backoff {
		observability.Gather().OnHostBackoff(ctx, key.Hostname, recErrDelay2Default)
	}
}

// recErrLimitDefault/recErrDelay2Default mirror [config.Gatherer]'s
// RecErrLimit/RecErrDelay2 defaults; callers running with a non-default
// config should treat [Scheduler.Finish]'s backoff notification as
// advisory only and apply their own thresholds upstream.
const recErrLimitDefault = 5

var recErrDelay2Default = 10 * time.Minute

// Tick advances per-host bookkeeping that doesn't depend on a fetch
// completing — recent-error decay and dirty-flag clearing (spec §4.1
// step "tick", run once per scheduler cycle by the caller).
func (s *Scheduler) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.hosts {
		if h.RecentErrors > 0 {
			h.RecentErrors--
		}
		h.Dirty = false
	}
}

// HostState returns a snapshot of host key's state, for the status
// server and TUI.
func (s *Scheduler) HostState(key HostKey) (State, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hosts[key]
	if !ok {
		return StateIdle, 0, false
	}
	return h.State, h.Items.Len(), true
}

// HostSnapshot is a point-in-time view of one host's state and queue
// depth, for the status server and the `holmes gather watch` TUI.
type HostSnapshot struct {
	Hostname string
	State    State
	Depth    int
}

// Snapshot returns every known host's current state and pending item
// count. Unlike HostState, which looks up a single host by key, this
// walks the full host table the TUI needs to render its dashboard.
func (s *Scheduler) Snapshot() []HostSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]HostSnapshot, 0, len(s.hosts))
	for key, h := range s.hosts {
		out = append(out, HostSnapshot{Hostname: key.Hostname, State: h.State, Depth: h.Items.Len()})
	}
	return out
}

// Len returns the number of distinct hosts known to the scheduler.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hosts)
}
