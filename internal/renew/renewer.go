// Package renew refreshes timestamps on this instance's current holdings at
// the start of every tick, before any planning happens.
package renew

import (
	"context"
	"time"

	"github.com/streamforge/quorumpart/types"
)

// Renewer refreshes an instance's holdings against the ownership store.
type Renewer struct {
	store         types.Store
	namespace     string
	hub           string
	consumerGroup string
	logger        types.Logger
	metrics       types.MetricsCollector
	hooks         *types.Hooks
}

// New creates a Renewer scoped to a single (namespace, hub, consumerGroup)
// tuple. Callers pass already-defaulted logger, metrics, and hooks (see
// internal/hooks.Merge).
func New(store types.Store, namespace, hub, consumerGroup string, logger types.Logger, metrics types.MetricsCollector, hooks *types.Hooks) *Renewer {
	return &Renewer{
		store:         store,
		namespace:     namespace,
		hub:           hub,
		consumerGroup: consumerGroup,
		logger:        logger,
		metrics:       metrics,
		hooks:         hooks,
	}
}

// Renew submits a claim batch containing every entry in holdings, each with
// its owner id unchanged, its timestamp set to now, and its existing
// version token, then replaces holdings wholesale with the accepted result.
//
// Records silently rejected by the store (a peer concurrently claimed the
// partition) drop out of the returned map — this is how an instance learns
// it lost a partition. On error, the returned map is the caller's original
// holdings unchanged, so the next tick can retry.
func (r *Renewer) Renew(ctx context.Context, holdings map[string]types.OwnershipRecord, now time.Time) (map[string]types.OwnershipRecord, error) {
	if len(holdings) == 0 {
		return holdings, nil
	}

	if err := ctx.Err(); err != nil {
		return holdings, types.ErrCanceled
	}

	batch := make([]types.OwnershipRecord, 0, len(holdings))
	for _, rec := range holdings {
		batch = append(batch, rec.WithLastModified(now))
	}

	r.logger.Debug("renewal starting", "count", len(batch))
	start := time.Now()

	accepted, err := r.store.Claim(ctx, batch)
	duration := time.Since(start).Seconds()
	if err != nil {
		r.metrics.RecordRenewal("error", 0, duration)
		if ctx.Err() != nil {
			r.logger.Debug("renewal canceled")

			return holdings, types.ErrCanceled
		}
		r.logger.Error("renewal failed", "error", err)

		return holdings, err
	}

	next := make(map[string]types.OwnershipRecord, len(accepted))
	for _, rec := range accepted {
		next[rec.PartitionID] = rec
	}

	for partitionID := range holdings {
		if _, ok := next[partitionID]; !ok {
			r.hooks.OnLost(ctx, partitionID)
		}
	}

	r.metrics.RecordRenewal("success", len(next), duration)
	r.logger.Debug("renewal complete", "accepted", len(next), "submitted", len(batch))

	return next, nil
}
