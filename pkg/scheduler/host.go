// Package scheduler implements the gatherer's per-host crawl queue and
// queue-key politeness heap (spec Component A, §4.1). It owns host
// state, the page-chain item queue, and the retry/backoff state
// machine; it consults pkg/filter only at the URL-admission boundary
// (the caller's reference filter runs before Enqueue, per §4.1's
// "apply the reference filter (§4.3 consumer)").
package scheduler

import "time"

// State is a host's position in the scheduler state machine (spec §3
// "Host record").
type State int

const (
	StateIdle State = iota
	StateWaiting
	StateActive
	StateReady
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaiting:
		return "waiting"
	case StateActive:
		return "active"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// HostKey identifies a host record (spec §3: "(protocol, hostname,
// port)-keyed").
type HostKey struct {
	Protocol string
	Hostname string
	Port     int
}

// Host is one host record: queue-key/politeness state plus the head of
// its item chain.
type Host struct {
	Key HostKey

	QueueKey  uint32
	QPriority int32 // highest priority of any item currently queued for this host
	State     State

	Items *itemQueue

	RecentErrors int
	RobotsOID    uint64
	RobotsFetch  time.Time

	Dirty bool

	// heap bookkeeping, owned by the scheduler's internal heaps.
	heapIndex int
	seq       uint64
}

func newHost(key HostKey, queueKey uint32) *Host {
	return &Host{Key: key, QueueKey: queueKey, State: StateIdle, Items: newItemQueue(), heapIndex: -1}
}

// Empty reports whether the host's item chain holds no pending URLs —
// the left side of spec §8 invariant 4 ("qf_pos == 0 <=> item chain
// empty <=> host state IDLE").
func (h *Host) Empty() bool { return h.Items.Len() == 0 }
