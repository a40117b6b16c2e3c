// Package repository implements the in-memory TTL store for encrypted vault records.
//
// Records are spread across a fixed number of shards, each a map guarded by its own
// sync.RWMutex, so operations on unrelated request ids only contend when they hash to the
// same shard. Expiry is enforced on every read and records are physically reclaimed by
// DeleteExpired, which the reaper calls periodically.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	vaultDomain "github.com/saferoute/vault/internal/vault/domain"
)

// DefaultShardCount is the number of shards used when none is configured.
const DefaultShardCount = 32

type shard struct {
	mu      sync.RWMutex
	records map[string]*vaultDomain.EncryptedRecord
}

// MemoryRecordRepository is a concurrency-safe request id to record mapping.
type MemoryRecordRepository struct {
	shards []*shard
	mask   uint64
	now    func() time.Time
}

// Option configures a MemoryRecordRepository.
type Option func(*MemoryRecordRepository)

// WithClock replaces time.Now as the source of the current time used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(r *MemoryRecordRepository) {
		if now != nil {
			r.now = now
		}
	}
}

// WithShardCount sets the number of shards. Values that are not a power of two are rounded up.
func WithShardCount(n int) Option {
	return func(r *MemoryRecordRepository) {
		if n > 0 {
			r.shards = make([]*shard, nextPowerOfTwo(n))
		}
	}
}

// NewMemoryRecordRepository creates an empty store.
func NewMemoryRecordRepository(opts ...Option) *MemoryRecordRepository {
	r := &MemoryRecordRepository{
		shards: make([]*shard, DefaultShardCount),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	for i := range r.shards {
		r.shards[i] = &shard{records: make(map[string]*vaultDomain.EncryptedRecord)}
	}
	r.mask = uint64(len(r.shards) - 1)

	return r
}

func (r *MemoryRecordRepository) shardFor(requestID string) *shard {
	return r.shards[xxhash.Sum64String(requestID)&r.mask]
}

// Put inserts or replaces the record stored under requestID.
func (r *MemoryRecordRepository) Put(
	_ context.Context,
	requestID string,
	record *vaultDomain.EncryptedRecord,
) error {
	s := r.shardFor(requestID)

	s.mu.Lock()
	s.records[requestID] = record
	s.mu.Unlock()

	return nil
}

// Get returns the live record stored under requestID, or ErrRecordNotFound when the id was
// never stored, was purged, or has expired. An expired record observed here is removed unless
// a concurrent Put replaced it in the meantime.
func (r *MemoryRecordRepository) Get(
	_ context.Context,
	requestID string,
) (*vaultDomain.EncryptedRecord, error) {
	s := r.shardFor(requestID)

	s.mu.RLock()
	record, ok := s.records[requestID]
	s.mu.RUnlock()

	if !ok {
		return nil, vaultDomain.ErrRecordNotFound
	}

	if record.IsLive(r.now()) {
		return record, nil
	}

	s.mu.Lock()
	if current, ok := s.records[requestID]; ok && current == record {
		delete(s.records, requestID)
	}
	s.mu.Unlock()

	return nil, vaultDomain.ErrRecordNotFound
}

// DeleteExpired removes every expired record and returns how many were removed. Only one
// shard is locked at a time. A cancelled context stops the sweep between shards.
func (r *MemoryRecordRepository) DeleteExpired(ctx context.Context) (int64, error) {
	var deleted int64

	for _, s := range r.shards {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}

		now := r.now()

		s.mu.Lock()
		for id, record := range s.records {
			if !record.IsLive(now) {
				delete(s.records, id)
				deleted++
			}
		}
		s.mu.Unlock()
	}

	return deleted, nil
}

// Len returns the number of live records. Expired records awaiting purge are not counted.
func (r *MemoryRecordRepository) Len(_ context.Context) (int64, error) {
	var count int64

	for _, s := range r.shards {
		now := r.now()

		s.mu.RLock()
		for _, record := range s.records {
			if record.IsLive(now) {
				count++
			}
		}
		s.mu.RUnlock()
	}

	return count, nil
}

// Clear drops all records.
func (r *MemoryRecordRepository) Clear(_ context.Context) error {
	for _, s := range r.shards {
		s.mu.Lock()
		clear(s.records)
		s.mu.Unlock()
	}
	return nil
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
