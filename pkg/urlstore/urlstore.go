// Package urlstore implements the URL-DB and MD5-DB keyed stores from
// spec §6: a lookup/store/delete table plus a rewind/get_next cursor
// for full-table scans. The production store is backed by a Redis hash
// (github.com/redis/go-redis/v9) per SPEC_FULL.md's domain-stack
// wiring; urlrec/md5rec values are opaque encoded byte blobs under
// HSET, and rewind/get_next is HSCAN with a remembered cursor.
package urlstore

import (
	"context"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/sherlocksearch/holmes/pkg/herrors"
)

// Store is the lookup/store/delete/rewind/get_next interface both the
// Redis-backed production store and the in-memory test fake implement.
// One Store instance corresponds to one of URL-DB or MD5-DB.
type Store interface {
	Lookup(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Rewind(ctx context.Context) error
	GetNext(ctx context.Context) (key string, value []byte, ok bool, err error)
}

// MemStore is an in-memory Store for tests and for running without a
// Redis connection configured.
type MemStore struct {
	mu     sync.Mutex
	values map[string][]byte
	cursor []string // snapshot taken at Rewind time
	pos    int
}

func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string][]byte)}
}

func (m *MemStore) Lookup(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemStore) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.values[key] = cp
	return nil
}

func (m *MemStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Rewind snapshots the current key set in sorted order and resets the
// get_next cursor to its start.
func (m *MemStore) Rewind(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	m.cursor = keys
	m.pos = 0
	return nil
}

func (m *MemStore) GetNext(_ context.Context) (string, []byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pos >= len(m.cursor) {
		return "", nil, false, nil
	}
	k := m.cursor[m.pos]
	m.pos++
	return k, m.values[k], true, nil
}

// RedisStore is the production Store, one Redis hash per table
// (spec §6's URL-DB / MD5-DB).
type RedisStore struct {
	rdb    *redis.Client
	hash   string
	cursor uint64
	scanAt int // index into the current scanned page
	page   []string
	done   bool
}

// NewRedisStore wraps an existing client; hash names the Redis hash
// key this store reads and writes (e.g. "holmes:urldb", "holmes:md5db").
func NewRedisStore(rdb *redis.Client, hash string) *RedisStore {
	return &RedisStore{rdb: rdb, hash: hash}
}

func (s *RedisStore) Lookup(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.rdb.HGet(ctx, s.hash, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, herrors.Wrap(herrors.ErrCodeStore, err, "lookup %s/%s", s.hash, key)
	}
	return v, true, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.rdb.HSet(ctx, s.hash, key, value).Err(); err != nil {
		return herrors.Wrap(herrors.ErrCodeStore, err, "store %s/%s", s.hash, key)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.HDel(ctx, s.hash, key).Err(); err != nil {
		return herrors.Wrap(herrors.ErrCodeStore, err, "delete %s/%s", s.hash, key)
	}
	return nil
}

// Rewind resets the HSCAN cursor to the beginning of the hash.
func (s *RedisStore) Rewind(_ context.Context) error {
	s.cursor = 0
	s.page = nil
	s.scanAt = 0
	s.done = false
	return nil
}

// GetNext returns the next field/value pair from the hash via HSCAN,
// fetching additional pages as the current one is exhausted.
func (s *RedisStore) GetNext(ctx context.Context) (string, []byte, bool, error) {
	for s.scanAt >= len(s.page) {
		if s.done {
			return "", nil, false, nil
		}
		keys, next, err := s.rdb.HScan(ctx, s.hash, s.cursor, "", 256).Result()
		if err != nil {
			return "", nil, false, herrors.Wrap(herrors.ErrCodeStore, err, "hscan %s", s.hash)
		}
		s.cursor = next
		s.page = keys // alternating field,value,field,value...
		s.scanAt = 0
		if next == 0 {
			s.done = true
		}
		if len(s.page) == 0 && s.done {
			return "", nil, false, nil
		}
	}
	key := s.page[s.scanAt]
	val := s.page[s.scanAt+1]
	s.scanAt += 2
	return key, []byte(val), true, nil
}
