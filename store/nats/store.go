// Package nats implements types.Store on top of a NATS JetStream KV bucket,
// using per-key revisions as the optimistic-concurrency version token.
package nats

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/streamforge/quorumpart/internal/natsutil"
	"github.com/streamforge/quorumpart/types"
)

// Store implements types.Store against a NATS JetStream KV bucket. Every
// key is "<namespace>.<hub>.<consumerGroup>.<partitionID>", matching
// OwnershipRecord.Key, and its value is the JSON-encoded owner and
// timestamp. The bucket's own per-key revision counter is the version
// token: Create rejects an existing key, Update rejects a stale revision,
// which is exactly the rule types.Store documents.
type Store struct {
	kv jetstream.KeyValue
}

// Open ensures the given KV bucket exists (creating it with entryTTL if
// necessary) and returns a Store backed by it.
func Open(ctx context.Context, js jetstream.JetStream, bucket string, entryTTL time.Duration) (*Store, error) {
	kv, err := ensureKVBucket(ctx, js, jetstream.KeyValueConfig{Bucket: bucket, TTL: entryTTL})
	if err != nil {
		return nil, &types.StoreError{Op: "open", Transient: natsutil.IsConnectivityError(err), Err: err}
	}

	return &Store{kv: kv}, nil
}

// NewStore wraps an already-opened KV bucket.
func NewStore(kv jetstream.KeyValue) *Store {
	return &Store{kv: kv}
}

// ensureKVBucket creates the bucket, or opens it if a concurrent Open call
// already created it first — CreateKeyValue's ErrBucketExists is the only
// outcome that gets that fallback, everything else goes through the same
// connectivity-aware retry every other call in this file uses.
func ensureKVBucket(ctx context.Context, js jetstream.JetStream, cfg jetstream.KeyValueConfig) (jetstream.KeyValue, error) {
	var kv jetstream.KeyValue
	err := natsutil.Retry(ctx, func() error {
		var cerr error
		kv, cerr = js.CreateKeyValue(ctx, cfg)
		if cerr == nil {
			return nil
		}
		if errors.Is(cerr, jetstream.ErrBucketExists) {
			kv, cerr = js.KeyValue(ctx, cfg.Bucket)
		}

		return cerr
	})

	return kv, err
}

type wireValue struct {
	OwnerID      string    `json:"ownerId"`
	LastModified time.Time `json:"lastModified"`
}

// List returns every record whose key falls under the given scope prefix.
func (s *Store) List(ctx context.Context, namespace, hub, consumerGroup string) ([]types.OwnershipRecord, error) {
	prefix := namespace + "." + hub + "." + consumerGroup + "."

	var keys []string
	err := natsutil.Retry(ctx, func() error {
		var kerr error
		keys, kerr = s.kv.Keys(ctx)

		return kerr
	})
	if err != nil {
		if types.IsNoKeysFoundError(err) {
			return nil, nil
		}

		return nil, &types.StoreError{Op: "list", Transient: natsutil.IsConnectivityError(err), Err: err}
	}

	out := make([]types.OwnershipRecord, 0, len(keys))
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}

		rec, ok, err := s.getRecord(ctx, key)
		if err != nil {
			return nil, &types.StoreError{Op: "list", Transient: natsutil.IsConnectivityError(err), Err: err}
		}
		if !ok {
			continue
		}

		out = append(out, rec)
	}

	return out, nil
}

func (s *Store) getRecord(ctx context.Context, key string) (types.OwnershipRecord, bool, error) {
	var entry jetstream.KeyValueEntry
	err := natsutil.Retry(ctx, func() error {
		var gerr error
		entry, gerr = s.kv.Get(ctx, key)

		return gerr
	})
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return types.OwnershipRecord{}, false, nil
		}

		return types.OwnershipRecord{}, false, err
	}

	var wv wireValue
	if err := json.Unmarshal(entry.Value(), &wv); err != nil {
		return types.OwnershipRecord{}, false, nil
	}

	parts := strings.Split(key, ".")
	if len(parts) < 4 {
		return types.OwnershipRecord{}, false, nil
	}
	namespace, hub, consumerGroup := parts[0], parts[1], parts[2]
	partitionID := strings.Join(parts[3:], ".")

	rec := types.NewOwnershipRecord(namespace, hub, consumerGroup, partitionID).
		WithOwner(wv.OwnerID).
		WithLastModified(wv.LastModified).
		WithVersionToken(strconv.FormatUint(entry.Revision(), 10), true)

	return rec, true, nil
}

// Claim submits each record's write independently: a record with no prior
// version calls Create (rejected if the key already exists), a record with
// a version token calls Update against that revision (rejected if the
// bucket's current revision has moved on).
func (s *Store) Claim(ctx context.Context, batch []types.OwnershipRecord) ([]types.OwnershipRecord, error) {
	accepted := make([]types.OwnershipRecord, 0, len(batch))

	for _, rec := range batch {
		newRec, ok, err := s.claimOne(ctx, rec)
		if err != nil {
			return nil, &types.StoreError{Op: "claim", Transient: natsutil.IsConnectivityError(err), Err: err}
		}
		if ok {
			accepted = append(accepted, newRec)
		}
	}

	return accepted, nil
}

func (s *Store) claimOne(ctx context.Context, rec types.OwnershipRecord) (types.OwnershipRecord, bool, error) {
	payload, err := json.Marshal(wireValue{OwnerID: rec.OwnerID, LastModified: rec.LastModified})
	if err != nil {
		return types.OwnershipRecord{}, false, err
	}

	key := rec.Key()

	var revision uint64
	if !rec.HasVersion() {
		err = natsutil.Retry(ctx, func() error {
			var cerr error
			revision, cerr = s.kv.Create(ctx, key, payload)

			return cerr
		})
	} else {
		var lastRevision uint64
		lastRevision, err = strconv.ParseUint(rec.VersionToken, 10, 64)
		if err != nil {
			return types.OwnershipRecord{}, false, nil
		}
		err = natsutil.Retry(ctx, func() error {
			var uerr error
			revision, uerr = s.kv.Update(ctx, key, payload, lastRevision)

			return uerr
		})
	}

	if err != nil {
		if isRejected(err) {
			return types.OwnershipRecord{}, false, nil
		}

		return types.OwnershipRecord{}, false, err
	}

	return rec.WithVersionToken(strconv.FormatUint(revision, 10), true), true, nil
}

// isRejected reports whether err represents the store correctly refusing a
// write because the caller's view of the key was stale — not a transport
// failure.
func isRejected(err error) bool {
	if errors.Is(err, jetstream.ErrKeyExists) {
		return true
	}

	msg := err.Error()

	return strings.Contains(msg, "wrong last sequence") || strings.Contains(msg, "sequence mismatch")
}
