// Package memory provides an in-memory types.Store, useful for tests and
// for exercising the balancing algorithm without a running NATS cluster.
package memory

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/zeebo/xxh3"

	"github.com/streamforge/quorumpart/types"
)

// Store is a goroutine-safe, in-memory implementation of types.Store. Every
// balancer instance in a test process can share one Store the way a real
// fleet shares a NATS KV bucket.
type Store struct {
	mu      sync.Mutex
	records map[string]types.OwnershipRecord
	seq     atomic.Uint64
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{records: make(map[string]types.OwnershipRecord)}
}

// List returns every record recorded for the given scope.
func (s *Store) List(_ context.Context, namespace, hub, consumerGroup string) ([]types.OwnershipRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.OwnershipRecord, 0, len(s.records))
	for _, rec := range s.records {
		if rec.Namespace == namespace && rec.Hub == hub && rec.ConsumerGroup == consumerGroup {
			out = append(out, rec)
		}
	}

	return out, nil
}

// Claim applies the optimistic-concurrency rule to each record in batch
// independently: a record with no prior version is accepted only if no
// record yet exists for its key; a record with a version token is accepted
// only if the token matches the store's current one.
func (s *Store) Claim(_ context.Context, batch []types.OwnershipRecord) ([]types.OwnershipRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accepted := make([]types.OwnershipRecord, 0, len(batch))

	for _, rec := range batch {
		key := rec.Key()
		existing, found := s.records[key]

		switch {
		case !rec.HasVersion() && found:
			continue
		case rec.HasVersion() && (!found || existing.VersionToken != rec.VersionToken):
			continue
		}

		rec = rec.WithVersionToken(s.nextVersion(key), true)
		s.records[key] = rec
		accepted = append(accepted, rec)
	}

	return accepted, nil
}

// nextVersion derives a version token by hashing the record's key together
// with a monotonic sequence number, so tokens never collide across keys
// even though the counter itself is process-global.
func (s *Store) nextVersion(key string) string {
	n := s.seq.Add(1)
	h := xxh3.HashStringSeed(key, n)

	return strconv.FormatUint(h, 16)
}
