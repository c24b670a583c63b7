package plan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamforge/quorumpart/internal/distribution"
	"github.com/streamforge/quorumpart/internal/hooks"
	"github.com/streamforge/quorumpart/internal/logging"
	"github.com/streamforge/quorumpart/internal/metrics"
	"github.com/streamforge/quorumpart/store/memory"
	"github.com/streamforge/quorumpart/types"
)

func newPlanner(store types.Store, self string, h *types.Hooks) *Planner {
	return New(store, "ns", "hub", "cg", self, logging.NewSlogDefault(), metrics.NewNop(), hooks.Merge(h))
}

func recAt(owner, partitionID string) types.OwnershipRecord {
	return types.NewOwnershipRecord("ns", "hub", "cg", partitionID).
		WithOwner(owner).
		WithLastModified(time.Now()).
		WithVersionToken("v1", true)
}

// seedStore writes each record to store as a first-ever claim and returns
// the accepted records, carrying the version tokens the store assigned.
func seedStore(t *testing.T, store types.Store, recs ...types.OwnershipRecord) []types.OwnershipRecord {
	t.Helper()

	out := make([]types.OwnershipRecord, 0, len(recs))
	for _, r := range recs {
		accepted, err := store.Claim(context.Background(), []types.OwnershipRecord{r.WithVersionToken("", false)})
		require.NoError(t, err)
		require.Len(t, accepted, 1)
		out = append(out, accepted[0])
	}

	return out
}

func TestFairShare(t *testing.T) {
	active := map[string][]types.OwnershipRecord{
		"a": {recAt("a", "p0"), recAt("a", "p1"), recAt("a", "p2")},
		"b": {recAt("b", "p3"), recAt("b", "p4")},
	}

	minShare, maxShare, own := fairShare(5, active, "b")
	assert.Equal(t, 2, minShare)
	assert.Equal(t, 3, maxShare)
	assert.Equal(t, 2, own)
}

func TestPlan_ClaimsOrphanWhenBelowMinShare(t *testing.T) {
	store := memory.NewStore()
	p := newPlanner(store, "self", nil)

	snap := distribution.Snapshot{
		Active:    map[string][]types.OwnershipRecord{"self": {}},
		Unclaimed: []string{"p-0"},
		Raw:       map[string]types.OwnershipRecord{},
	}

	result, err := p.Plan(context.Background(), snap, map[string]types.OwnershipRecord{}, 1, time.Now())
	require.NoError(t, err)
	require.NotNil(t, result.Claimed)
	assert.Equal(t, "p-0", result.Claimed.PartitionID)
	assert.Equal(t, "self", result.Claimed.OwnerID)
}

func TestPlan_NotEligibleWhenAtOrAboveMinShareAndOthersBelow(t *testing.T) {
	store := memory.NewStore()
	p := newPlanner(store, "self", nil)

	snap := distribution.Snapshot{
		Active: map[string][]types.OwnershipRecord{
			"self":  {recAt("self", "p-0")},
			"other": {},
		},
		Unclaimed: nil,
		Raw:       map[string]types.OwnershipRecord{"p-0": recAt("self", "p-0")},
	}

	result, err := p.Plan(context.Background(), snap, map[string]types.OwnershipRecord{"p-0": recAt("self", "p-0")}, 2, time.Now())
	require.NoError(t, err)
	assert.Nil(t, result.Claimed)
}

func TestPlan_StealsFromOverProvisionedOwner(t *testing.T) {
	store := memory.NewStore()
	seeded := seedStore(t, store,
		recAt("owner-a", "p-0"), recAt("owner-a", "p-1"), recAt("owner-a", "p-2"), recAt("owner-a", "p-3"), recAt("owner-a", "p-4"))

	p := newPlanner(store, "self", nil)

	active := map[string][]types.OwnershipRecord{
		"owner-a": seeded,
		"self":    {},
	}
	raw := map[string]types.OwnershipRecord{}
	for _, r := range seeded {
		raw[r.PartitionID] = r
	}
	snap := distribution.Snapshot{
		Active:    active,
		Unclaimed: nil,
		Raw:       raw,
	}

	result, err := p.Plan(context.Background(), snap, map[string]types.OwnershipRecord{}, 5, time.Now())
	require.NoError(t, err)
	require.NotNil(t, result.Claimed)
	assert.Contains(t, []string{"p-0", "p-1", "p-2", "p-3", "p-4"}, result.Claimed.PartitionID)
}

func TestPlan_StealsAtMaxShareWhenNoOrphanOrOverProvisioned(t *testing.T) {
	store := memory.NewStore()
	recs := seedStore(t, store,
		recAt("owner-a", "p-0"), recAt("owner-a", "p-1"), recAt("owner-a", "p-2"),
		recAt("owner-b", "p-3"), recAt("owner-b", "p-4"), recAt("owner-b", "p-5"),
	)

	p := newPlanner(store, "self", nil)

	active := map[string][]types.OwnershipRecord{
		"owner-a": recs[:3],
		"owner-b": recs[3:],
		"self":    {},
	}
	raw := map[string]types.OwnershipRecord{}
	for _, r := range recs {
		raw[r.PartitionID] = r
	}
	snap := distribution.Snapshot{Active: active, Unclaimed: nil, Raw: raw}

	result, err := p.Plan(context.Background(), snap, map[string]types.OwnershipRecord{}, 6, time.Now())
	require.NoError(t, err)
	require.NotNil(t, result.Claimed)
}

func TestPlan_ClaimFiresOnClaimedHook(t *testing.T) {
	store := memory.NewStore()
	var claimed []string
	p := newPlanner(store, "self", &types.Hooks{
		OnClaimed: func(_ context.Context, rec types.OwnershipRecord) { claimed = append(claimed, rec.PartitionID) },
	})

	snap := distribution.Snapshot{
		Active:    map[string][]types.OwnershipRecord{"self": {}},
		Unclaimed: []string{"p-0"},
		Raw:       map[string]types.OwnershipRecord{},
	}

	_, err := p.Plan(context.Background(), snap, map[string]types.OwnershipRecord{}, 1, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{"p-0"}, claimed)
}

func TestPlan_RejectedClaimReturnsNilWithoutError(t *testing.T) {
	store := memory.NewStore()
	existing := seedStore(t, store, recAt("owner-a", "p-0"))[0]

	p := newPlanner(store, "self", nil)

	// Raw carries a stale version token for p-0, so the claim attempt will
	// be rejected by the store as a stale write.
	snap := distribution.Snapshot{
		Active:    map[string][]types.OwnershipRecord{"self": {}},
		Unclaimed: []string{"p-0"},
		Raw:       map[string]types.OwnershipRecord{"p-0": existing.WithVersionToken("stale", true)},
	}

	result, err := p.Plan(context.Background(), snap, map[string]types.OwnershipRecord{}, 1, time.Now())
	require.NoError(t, err)
	assert.Nil(t, result.Claimed)
}
