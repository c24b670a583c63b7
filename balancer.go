package quorumpart

import (
	"context"
	"sync"
	"time"

	"github.com/streamforge/quorumpart/internal/distribution"
	"github.com/streamforge/quorumpart/internal/hooks"
	"github.com/streamforge/quorumpart/internal/logging"
	"github.com/streamforge/quorumpart/internal/metrics"
	"github.com/streamforge/quorumpart/internal/plan"
	"github.com/streamforge/quorumpart/internal/relinquish"
	"github.com/streamforge/quorumpart/internal/renew"
	"github.com/streamforge/quorumpart/types"
)

// Balancer runs the per-tick claim/steal/renew cycle for a single fleet
// instance. Every method is safe to call from more than one goroutine, but a
// driver should only ever have one RunTick in flight at a time — a second
// concurrent call simply serializes behind the first rather than running two
// ticks in parallel, which the synchronous-tick model does not support.
type Balancer struct {
	cfg     Config
	store   types.Store
	logger  types.Logger
	metrics types.MetricsCollector
	hooks   *types.Hooks

	renewer      *renew.Renewer
	planner      *plan.Planner
	relinquisher *relinquish.Relinquisher

	mu       sync.Mutex
	holdings map[string]types.OwnershipRecord
}

// NewBalancer constructs a Balancer for cfg against store. Missing config
// fields are filled with production defaults before validation. store must
// not be nil.
func NewBalancer(cfg *Config, store types.Store, opts ...Option) (*Balancer, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	resolved := *cfg
	SetDefaults(&resolved)

	options := balancerOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	logger := options.logger
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := resolved.ValidateWithWarnings(logger); err != nil {
		return nil, err
	}

	mcollector := options.metrics
	if mcollector == nil {
		mcollector = metrics.NewNop()
	}

	mergedHooks := hooks.Merge(options.hooks)

	b := &Balancer{
		cfg:      resolved,
		store:    store,
		logger:   logger,
		metrics:  mcollector,
		hooks:    mergedHooks,
		holdings: make(map[string]types.OwnershipRecord),
	}

	b.renewer = renew.New(store, resolved.Namespace, resolved.Hub, resolved.ConsumerGroup, logger, mcollector, mergedHooks)
	b.planner = plan.New(store, resolved.Namespace, resolved.Hub, resolved.ConsumerGroup, resolved.OwnerID, logger, mcollector, mergedHooks)
	b.relinquisher = relinquish.New(store, logger, mcollector, mergedHooks)

	return b, nil
}

// RunTick runs one pass of the tick pipeline: renew this instance's
// holdings, list the store's current state, analyze it into active/expired/
// unclaimed, and — if this instance is entitled to more than it currently
// holds — attempt exactly one claim.
//
// It returns the newly claimed record, or nil if no claim was accepted this
// tick — not eligible, no viable target, or the attempted claim was
// rejected by a concurrent writer. A non-nil error means the tick could not
// complete; the Balancer's holdings are left as they were observed before
// the failing step, ready to retry on the next call.
func (b *Balancer) RunTick(ctx context.Context, allPartitionIDs []string) (*types.OwnershipRecord, error) {
	if len(allPartitionIDs) == 0 {
		b.hooks.OnTickError(ctx, ErrNoPartitions)

		return nil, ErrNoPartitions
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()

	holdings, err := b.renewer.Renew(ctx, b.holdings, now)
	b.holdings = holdings
	if err != nil {
		b.hooks.OnTickError(ctx, err)

		return nil, err
	}

	records, err := b.store.List(ctx, b.cfg.Namespace, b.cfg.Hub, b.cfg.ConsumerGroup)
	if err != nil {
		if ctx.Err() != nil {
			err = types.ErrCanceled
		}
		b.logger.Error("tick: list failed", "error", err)
		b.hooks.OnTickError(ctx, err)

		return nil, err
	}

	snap := distribution.Analyze(records, allPartitionIDs, b.cfg.OwnerID, now, b.cfg.ExpirationWindow)

	result, err := b.planner.Plan(ctx, snap, b.holdings, len(allPartitionIDs), now)
	if err != nil {
		b.hooks.OnTickError(ctx, err)

		return nil, err
	}

	if result.Claimed != nil {
		b.holdings[result.Claimed.PartitionID] = *result.Claimed
	}

	b.metrics.RecordHoldings(len(b.holdings))

	return result.Claimed, nil
}

// Relinquish releases every partition this instance currently holds back to
// the fleet and clears the Balancer's holdings unconditionally, regardless
// of which individual writes were accepted. Intended for graceful shutdown.
func (b *Balancer) Relinquish(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	err := b.relinquisher.Relinquish(ctx, b.holdings)
	b.holdings = make(map[string]types.OwnershipRecord)

	return err
}

// OwnedPartitionIDs returns the partition ids this instance currently
// believes it holds, as of the last completed RunTick or Relinquish call.
func (b *Balancer) OwnedPartitionIDs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]string, 0, len(b.holdings))
	for id := range b.holdings {
		ids = append(ids, id)
	}

	return ids
}
