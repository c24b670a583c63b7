package simulate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func partitionIDs(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "p-" + string(rune('0'+i))
	}

	return out
}

func holdingCounts(f *Fleet) []int {
	out := make([]int, len(f.Instances))
	for i, inst := range f.Instances {
		out[i] = len(inst.Holdings())
	}

	return out
}

// TestScenario_S1_CleanStartExactDivision: N=2, P=4, empty store. After 2
// ticks each, every instance holds 2 partitions and every partition is
// owned.
func TestScenario_S1_CleanStartExactDivision(t *testing.T) {
	f := NewFleet(2, time.Minute)
	partitions := partitionIDs(4)
	ctx := context.Background()

	for round := 0; round < 2; round++ {
		require.NoError(t, f.TickAll(ctx, partitions, time.Now()))
	}

	assert.ElementsMatch(t, []int{2, 2}, holdingCounts(f))

	owned := map[string]bool{}
	for _, inst := range f.Instances {
		for _, id := range inst.Holdings() {
			owned[id] = true
		}
	}
	assert.Len(t, owned, 4)
}

// TestScenario_S2_Leftover: N=3, P=7. After convergence, the holdings
// multiset is {2,2,3}.
func TestScenario_S2_Leftover(t *testing.T) {
	f := NewFleet(3, time.Minute)
	partitions := partitionIDs(7)
	ctx := context.Background()

	require.NoError(t, f.ConvergeUntilStable(ctx, partitions, 20))

	assert.ElementsMatch(t, []int{2, 2, 3}, holdingCounts(f))
}

// TestScenario_S3_OrphanRecovery: N=3, P=6 balanced at {2,2,2}. Instance C
// stops renewing. After expiration_window, A and B tick for up to six
// rounds and together hold all 6 partitions, {3,3}.
func TestScenario_S3_OrphanRecovery(t *testing.T) {
	window := 50 * time.Millisecond
	f := NewFleet(3, window)
	partitions := partitionIDs(6)
	ctx := context.Background()

	require.NoError(t, f.ConvergeUntilStable(ctx, partitions, 20))
	require.ElementsMatch(t, []int{2, 2, 2}, holdingCounts(f))

	survivors := f.Instances[:2]
	time.Sleep(window + 10*time.Millisecond)

	for round := 0; round < 6; round++ {
		now := time.Now()
		for _, inst := range survivors {
			require.NoError(t, inst.Tick(ctx, partitions, now))
		}
	}

	counts := []int{len(survivors[0].Holdings()), len(survivors[1].Holdings())}
	assert.ElementsMatch(t, []int{3, 3}, counts)
}

// TestScenario_S4_StealFromOverHolder: seed the store with A holding 5, B
// holding 1, P=6, N=2. After at most 3 ticks of B, B holds 3 and A holds 3.
func TestScenario_S4_StealFromOverHolder(t *testing.T) {
	f := NewFleet(2, time.Minute)
	partitions := partitionIDs(6)
	ctx := context.Background()

	a, b := f.Instances[0], f.Instances[1]

	// A tick claims at most one partition, so A needs five ticks to hold 5.
	now := time.Now()
	for round := 0; round < 5; round++ {
		require.NoError(t, a.Tick(ctx, partitions[:5], now))
	}
	require.NoError(t, b.Tick(ctx, partitions[5:], now))
	require.Len(t, a.Holdings(), 5)
	require.Len(t, b.Holdings(), 1)

	for round := 0; round < 3; round++ {
		require.NoError(t, b.Tick(ctx, partitions, time.Now()))
		require.NoError(t, a.Tick(ctx, partitions, time.Now()))
	}

	assert.Len(t, a.Holdings(), 3)
	assert.Len(t, b.Holdings(), 3)
}

// TestScenario_S5_SymmetryBreaking: N=2, P=1, empty store. Both instances
// tick simultaneously each round. Within a bounded number of rounds exactly
// one instance ends up owning the single partition.
func TestScenario_S5_SymmetryBreaking(t *testing.T) {
	f := NewFleet(2, time.Minute)
	partitions := partitionIDs(1)
	ctx := context.Background()

	for round := 0; round < 10; round++ {
		now := time.Now()
		require.NoError(t, f.Instances[0].Tick(ctx, partitions, now))
		require.NoError(t, f.Instances[1].Tick(ctx, partitions, now))

		total := len(f.Instances[0].Holdings()) + len(f.Instances[1].Holdings())
		if total == 1 {
			break
		}
	}

	total := len(f.Instances[0].Holdings()) + len(f.Instances[1].Holdings())
	assert.Equal(t, 1, total)
}

// TestScenario_S6_Relinquish: a single instance owns 3 partitions, then
// relinquishes. The store's 3 records now carry an empty owner id and the
// next list returns them as unclaimed for any peer.
func TestScenario_S6_Relinquish(t *testing.T) {
	f := NewFleet(1, time.Minute)
	partitions := partitionIDs(3)
	ctx := context.Background()

	for round := 0; round < 3; round++ {
		require.NoError(t, f.TickAll(ctx, partitions, time.Now()))
	}
	require.Len(t, f.Instances[0].Holdings(), 3)

	require.NoError(t, f.Instances[0].Relinquish(ctx))
	assert.Empty(t, f.Instances[0].Holdings())

	records, err := f.Store.List(ctx, "sim-ns", "sim-hub", "sim-cg")
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, rec := range records {
		assert.Empty(t, rec.OwnerID)
	}
}
