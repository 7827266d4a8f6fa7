package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/sherlocksearch/holmes/pkg/herrors"
)

// S4 — queue fairness: two hosts with distinct queue keys, both
// carrying queued items; dequeue/finish/tick must rotate between them
// rather than starving either.
func TestQueueFairnessS4(t *testing.T) {
	s := New(3)
	h1 := HostKey{Protocol: "http", Hostname: "h1.example", Port: 80}
	h2 := HostKey{Protocol: "http", Hostname: "h2.example", Port: 80}

	s.Enqueue(h1, "/a", 10)
	s.Enqueue(h2, "/b", 10)

	first, ok := s.Dequeue(context.Background())
	if !ok {
		t.Fatal("expected a dequeue")
	}
	s.Finish(context.Background(), first.Host, first.URLRest, first.Priority, 0, time.Millisecond, nil)

	second, ok := s.Dequeue(context.Background())
	if !ok {
		t.Fatal("expected a second dequeue")
	}
	if second.Host == first.Host {
		t.Fatalf("expected the scheduler to rotate to the other host, got %v twice", first.Host)
	}
	s.Finish(context.Background(), second.Host, second.URLRest, second.Priority, 0, time.Millisecond, nil)

	if _, ok := s.Dequeue(context.Background()); ok {
		t.Fatal("expected the queue to be drained after both hosts finish")
	}
}

// S5 — retry policy: the same URL fails with error code 1000 five
// times under max_retries=3; after the third recorded failure the
// state becomes terminal with oid=FirstError+1000 and the item is no
// longer re-enqueued.
func TestRetryPolicyS5(t *testing.T) {
	s := New(3)
	host := HostKey{Protocol: "http", Hostname: "flaky.example", Port: 80}
	s.Enqueue(host, "/p", 5)

	transient := herrors.New(herrors.ErrCodeFetchTransient, "boom")

	var last RetryState
	var tracked *RetryState
	for range 5 {
		d, ok := s.Dequeue(context.Background())
		if !ok {
			break
		}
		s.Finish(context.Background(), d.Host, d.URLRest, d.Priority, 1000, time.Millisecond, transient)
		// Finish removes the entry once it turns terminal; the pointer
		// kept from an earlier round is the same record, updated in place.
		if rs, ok := s.retries[d.URLRest]; ok {
			tracked = rs
		}
		last = *tracked
		if last.Terminal {
			break
		}
	}

	if !last.Terminal {
		t.Fatalf("expected retry state to become terminal, got %+v", last)
	}
	if last.Retries != 3 {
		t.Fatalf("expected retries=3, got %d", last.Retries)
	}
	if got := last.FinalOID(); got != FirstError+1000 {
		t.Fatalf("expected final oid=%d, got %d", FirstError+1000, got)
	}
	if _, queued := s.retries["/p"]; queued {
		t.Fatal("terminal state should have been cleared from the retry table")
	}
	if _, ok := s.Dequeue(context.Background()); ok {
		t.Fatal("a terminal error must not be re-enqueued")
	}
}

func TestDequeueEmptyScheduler(t *testing.T) {
	s := New(3)
	if _, ok := s.Dequeue(context.Background()); ok {
		t.Fatal("expected Dequeue on an empty scheduler to report false")
	}
}

func TestMarkUnresolvableMovesQueueKey(t *testing.T) {
	s := New(3)
	host := HostKey{Protocol: "http", Hostname: "nodns.example", Port: 80}
	s.Enqueue(host, "/x", 1)
	s.MarkUnresolvable(host)
	state, _, ok := s.HostState(host)
	if !ok {
		t.Fatal("expected host to exist")
	}
	if state != StateReady {
		t.Fatalf("expected host to remain ready with its queued item, got %v", state)
	}
	if s.hosts[host].QueueKey < UnresolvableHostMin || s.hosts[host].QueueKey > UnresolvableHostMax {
		t.Fatalf("expected queue key in the unresolvable-host range, got %d", s.hosts[host].QueueKey)
	}
}

func TestSnapshotReportsPerHostDepth(t *testing.T) {
	s := New(3)
	a := HostKey{Protocol: "http", Hostname: "a.example", Port: 80}
	b := HostKey{Protocol: "http", Hostname: "b.example", Port: 80}
	s.Enqueue(a, "/1", 1)
	s.Enqueue(a, "/2", 1)
	s.Enqueue(b, "/1", 1)

	snaps := s.Snapshot()
	if len(snaps) != 2 {
		t.Fatalf("expected 2 hosts, got %d", len(snaps))
	}
	depths := map[string]int{}
	for _, snap := range snaps {
		depths[snap.Hostname] = snap.Depth
	}
	if depths["a.example"] != 2 {
		t.Fatalf("expected a.example depth 2, got %d", depths["a.example"])
	}
	if depths["b.example"] != 1 {
		t.Fatalf("expected b.example depth 1, got %d", depths["b.example"])
	}
}
