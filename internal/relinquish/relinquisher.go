// Package relinquish marks an instance's holdings as unowned on shutdown.
package relinquish

import (
	"context"

	"github.com/streamforge/quorumpart/types"
)

// Relinquisher releases an instance's holdings back to the fleet.
type Relinquisher struct {
	store   types.Store
	logger  types.Logger
	metrics types.MetricsCollector
	hooks   *types.Hooks
}

// New creates a Relinquisher.
func New(store types.Store, logger types.Logger, metrics types.MetricsCollector, hooks *types.Hooks) *Relinquisher {
	return &Relinquisher{store: store, logger: logger, metrics: metrics, hooks: hooks}
}

// Relinquish builds, for every entry in holdings, a record identical to the
// stored one except with an empty owner id and the original timestamp
// preserved — the owner is stepping down, not touching the record — and
// submits them as a single batch.
//
// The caller clears its holdings unconditionally after this call regardless
// of which individual writes were accepted: the process is exiting, and any
// partition this call failed to release will be reclaimed by a peer once the
// expiration window passes.
func (r *Relinquisher) Relinquish(ctx context.Context, holdings map[string]types.OwnershipRecord) error {
	if len(holdings) == 0 {
		return nil
	}

	batch := make([]types.OwnershipRecord, 0, len(holdings))
	for _, rec := range holdings {
		batch = append(batch, rec.WithOwner(""))
	}

	r.logger.Debug("relinquish starting", "count", len(batch))

	_, err := r.store.Claim(ctx, batch)

	for partitionID := range holdings {
		r.hooks.OnRelinquished(ctx, partitionID)
	}

	if err != nil {
		if ctx.Err() != nil {
			r.logger.Debug("relinquish canceled")

			return types.ErrCanceled
		}
		r.logger.Error("relinquish failed", "error", err)

		return err
	}

	r.logger.Debug("relinquish complete")

	return nil
}
