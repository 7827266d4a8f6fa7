// Package bucket implements the "Bucket file" storage primitive from
// spec §6: an append-only store of opaque card records keyed by a
// monotonically increasing oid, with in-place tombstoning and a
// Shakedown compaction pass that rewrites into a fresh store and
// returns the (old_oid, new_oid|DELETED) remap stream every downstream
// indexer stage consumes to renumber its own oid references.
//
// The production Bucket is backed by a MongoDB collection
// (go.mongodb.org/mongo-driver) per SPEC_FULL.md's domain-stack
// wiring: one document per oid, a tombstone is a `deleted` field set
// in place rather than a real delete, and Shakedown drains the
// collection into a new one.
package bucket

import (
	"context"
	"sort"
	"sync"

	"github.com/sherlocksearch/holmes/pkg/herrors"
)

// DeletedOID marks a remap entry whose source record was a tombstone
// and therefore has no surviving destination oid.
const DeletedOID uint64 = ^uint64(0)

// Record is one stored card: a typed, length-prefixed opaque blob plus
// its storage bookkeeping (spec §6 "oid/length/type headers").
type Record struct {
	OID     uint64
	Type    string
	Data    []byte
	Deleted bool
}

// Remap is one entry of the stream [Bucket.Shakedown] returns.
type Remap struct {
	OldOID uint64
	NewOID uint64 // DeletedOID if the source record was a tombstone
}

// Bucket is the append-only card store interface both the Mongo-backed
// production store and the in-memory test fake implement.
type Bucket interface {
	Append(ctx context.Context, typ string, data []byte) (oid uint64, err error)
	Get(ctx context.Context, oid uint64) (Record, error)
	Tombstone(ctx context.Context, oid uint64) error
	Shakedown(ctx context.Context) ([]Remap, error)
	Len(ctx context.Context) (int, error)
}

// MemBucket is an in-memory Bucket, used by tests and by any caller
// that hasn't configured a Mongo connection. It satisfies the same
// ordering and tombstone semantics as the Mongo-backed store.
type MemBucket struct {
	mu      sync.Mutex
	records []Record
	nextOID uint64
}

// NewMemBucket creates an empty in-memory bucket, first oid 1 (oid 0
// is reserved as "no record").
func NewMemBucket() *MemBucket {
	return &MemBucket{nextOID: 1}
}

func (b *MemBucket) Append(_ context.Context, typ string, data []byte) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	oid := b.nextOID
	b.nextOID++
	cp := make([]byte, len(data))
	copy(cp, data)
	b.records = append(b.records, Record{OID: oid, Type: typ, Data: cp})
	return oid, nil
}

func (b *MemBucket) Get(_ context.Context, oid uint64) (Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.find(oid)
	if i < 0 {
		return Record{}, herrors.New(herrors.ErrCodeStore, "no such oid %d", oid)
	}
	return b.records[i], nil
}

func (b *MemBucket) Tombstone(_ context.Context, oid uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.find(oid)
	if i < 0 {
		return herrors.New(herrors.ErrCodeStore, "no such oid %d", oid)
	}
	b.records[i].Deleted = true
	b.records[i].Data = nil
	return nil
}

// Shakedown compacts the store: every non-tombstoned record is
// reassigned a fresh, gap-free oid in original order; tombstoned
// records are dropped and reported as DeletedOID in the remap stream.
func (b *MemBucket) Shakedown(_ context.Context) ([]Remap, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sort.Slice(b.records, func(i, j int) bool { return b.records[i].OID < b.records[j].OID })

	remaps := make([]Remap, 0, len(b.records))
	fresh := make([]Record, 0, len(b.records))
	next := uint64(1)
	for _, r := range b.records {
		if r.Deleted {
			remaps = append(remaps, Remap{OldOID: r.OID, NewOID: DeletedOID})
			continue
		}
		newOID := next
		next++
		remaps = append(remaps, Remap{OldOID: r.OID, NewOID: newOID})
		fresh = append(fresh, Record{OID: newOID, Type: r.Type, Data: r.Data})
	}
	b.records = fresh
	b.nextOID = next
	return remaps, nil
}

func (b *MemBucket) Len(_ context.Context) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records), nil
}

func (b *MemBucket) find(oid uint64) int {
	for i, r := range b.records {
		if r.OID == oid {
			return i
		}
	}
	return -1
}
