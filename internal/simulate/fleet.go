// Package simulate drives a multi-instance fleet of Balancers against a
// shared in-memory store, the way test/simulation drives a fleet of workers
// against a shared NATS deployment, trimmed down to the properties that
// matter for a leaderless balancer: convergence, no double ownership, and
// eventual recovery from a stopped instance.
package simulate

import (
	"context"
	"time"

	"github.com/streamforge/quorumpart/internal/distribution"
	"github.com/streamforge/quorumpart/internal/hooks"
	"github.com/streamforge/quorumpart/internal/logging"
	"github.com/streamforge/quorumpart/internal/metrics"
	"github.com/streamforge/quorumpart/internal/plan"
	"github.com/streamforge/quorumpart/internal/relinquish"
	"github.com/streamforge/quorumpart/internal/renew"
	"github.com/streamforge/quorumpart/store/memory"
	"github.com/streamforge/quorumpart/types"
)

// Instance is one fleet member's tick pipeline, built directly from the
// internal packages rather than the public Balancer, so a scenario can
// pause an instance (stop calling Tick) without touching a mutex or a
// background goroutine — the same "drive it by hand" model quorumpart's own
// Balancer.RunTick uses internally.
type Instance struct {
	OwnerID  string
	holdings map[string]types.OwnershipRecord

	renewer      *renew.Renewer
	planner      *plan.Planner
	relinquisher *relinquish.Relinquisher

	store                         types.Store
	namespace, hub, consumerGroup string
	expirationWindow              time.Duration
}

// NewInstance builds a fleet member scoped to namespace/hub/consumerGroup
// against store.
func NewInstance(store types.Store, ownerID, namespace, hub, consumerGroup string, expirationWindow time.Duration) *Instance {
	logger := logging.NewNop()
	mcollector := metrics.NewNop()
	h := hooks.NewNop()

	return &Instance{
		OwnerID:          ownerID,
		holdings:         make(map[string]types.OwnershipRecord),
		renewer:          renew.New(store, namespace, hub, consumerGroup, logger, mcollector, h),
		planner:          plan.New(store, namespace, hub, consumerGroup, ownerID, logger, mcollector, h),
		relinquisher:     relinquish.New(store, logger, mcollector, h),
		store:            store,
		namespace:        namespace,
		hub:              hub,
		consumerGroup:    consumerGroup,
		expirationWindow: expirationWindow,
	}
}

// Tick runs one renew+plan pass, mirroring Balancer.RunTick.
func (i *Instance) Tick(ctx context.Context, allPartitionIDs []string, now time.Time) error {
	holdings, err := i.renewer.Renew(ctx, i.holdings, now)
	i.holdings = holdings
	if err != nil {
		return err
	}

	records, err := i.store.List(ctx, i.namespace, i.hub, i.consumerGroup)
	if err != nil {
		return err
	}

	snap := distribution.Analyze(records, allPartitionIDs, i.OwnerID, now, i.expirationWindow)

	result, err := i.planner.Plan(ctx, snap, i.holdings, len(allPartitionIDs), now)
	if err != nil {
		return err
	}
	if result.Claimed != nil {
		i.holdings[result.Claimed.PartitionID] = *result.Claimed
	}

	return nil
}

// Relinquish releases every held partition.
func (i *Instance) Relinquish(ctx context.Context) error {
	err := i.relinquisher.Relinquish(ctx, i.holdings)
	i.holdings = make(map[string]types.OwnershipRecord)

	return err
}

// Holdings returns the partition ids this instance currently believes it
// holds.
func (i *Instance) Holdings() []string {
	ids := make([]string, 0, len(i.holdings))
	for id := range i.holdings {
		ids = append(ids, id)
	}

	return ids
}

// Fleet is a set of Instances sharing one store and scope.
type Fleet struct {
	Store     *memory.Store
	Instances []*Instance

	namespace, hub, consumerGroup string
	expirationWindow              time.Duration
}

// NewFleet creates n instances named "instance-a", "instance-b", and so on
// ("instance-extra" past the 26th), sharing a fresh in-memory store.
func NewFleet(n int, expirationWindow time.Duration) *Fleet {
	store := memory.NewStore()
	f := &Fleet{
		Store:            store,
		namespace:        "sim-ns",
		hub:              "sim-hub",
		consumerGroup:    "sim-cg",
		expirationWindow: expirationWindow,
	}

	for idx := 0; idx < n; idx++ {
		id := ownerName(idx)
		f.Instances = append(f.Instances, NewInstance(store, id, f.namespace, f.hub, f.consumerGroup, expirationWindow))
	}

	return f
}

func ownerName(idx int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	if idx < len(letters) {
		return "instance-" + string(letters[idx])
	}

	return "instance-extra"
}

// TickAll runs one tick for every instance in order, returning the first
// error encountered.
func (f *Fleet) TickAll(ctx context.Context, allPartitionIDs []string, now time.Time) error {
	for _, inst := range f.Instances {
		if err := inst.Tick(ctx, allPartitionIDs, now); err != nil {
			return err
		}
	}

	return nil
}

// ConvergeUntilStable runs rounds of TickAll until no instance's holding
// count changes between two consecutive rounds, or maxRounds is reached.
func (f *Fleet) ConvergeUntilStable(ctx context.Context, allPartitionIDs []string, maxRounds int) error {
	prev := f.shareCounts()

	for round := 0; round < maxRounds; round++ {
		if err := f.TickAll(ctx, allPartitionIDs, time.Now()); err != nil {
			return err
		}

		next := f.shareCounts()
		if equalCounts(prev, next) && round > 0 {
			return nil
		}
		prev = next
	}

	return nil
}

func (f *Fleet) shareCounts() []int {
	out := make([]int, len(f.Instances))
	for i, inst := range f.Instances {
		out[i] = len(inst.holdings)
	}

	return out
}

func equalCounts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
