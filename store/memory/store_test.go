package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamforge/quorumpart/types"
)

func TestStore_ClaimFirstWriteHasNoPriorVersion(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	rec := types.NewOwnershipRecord("ns", "hub", "cg", "p-0").WithOwner("owner-a")

	accepted, err := s.Claim(ctx, []types.OwnershipRecord{rec})
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.True(t, accepted[0].HasVersion())
	assert.NotEmpty(t, accepted[0].VersionToken)
}

func TestStore_ClaimRejectsBlindOverwrite(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	first := types.NewOwnershipRecord("ns", "hub", "cg", "p-0").WithOwner("owner-a")
	_, err := s.Claim(ctx, []types.OwnershipRecord{first})
	require.NoError(t, err)

	blind := types.NewOwnershipRecord("ns", "hub", "cg", "p-0").WithOwner("owner-b")
	accepted, err := s.Claim(ctx, []types.OwnershipRecord{blind})
	require.NoError(t, err)
	assert.Empty(t, accepted)
}

func TestStore_ClaimAcceptsMatchingVersion(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	first := types.NewOwnershipRecord("ns", "hub", "cg", "p-0").WithOwner("owner-a")
	accepted, err := s.Claim(ctx, []types.OwnershipRecord{first})
	require.NoError(t, err)
	require.Len(t, accepted, 1)

	renewal := accepted[0].WithOwner("owner-a")
	accepted2, err := s.Claim(ctx, []types.OwnershipRecord{renewal})
	require.NoError(t, err)
	require.Len(t, accepted2, 1)
	assert.NotEqual(t, accepted[0].VersionToken, accepted2[0].VersionToken)
}

func TestStore_ClaimRejectsStaleVersion(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	first := types.NewOwnershipRecord("ns", "hub", "cg", "p-0").WithOwner("owner-a")
	accepted, err := s.Claim(ctx, []types.OwnershipRecord{first})
	require.NoError(t, err)

	stale := accepted[0]
	_, err = s.Claim(ctx, []types.OwnershipRecord{stale.WithOwner("owner-a")})
	require.NoError(t, err)

	rejected, err := s.Claim(ctx, []types.OwnershipRecord{stale.WithOwner("owner-b")})
	require.NoError(t, err)
	assert.Empty(t, rejected)
}

func TestStore_ClaimBatchIsIndependentPerRecord(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	p0 := types.NewOwnershipRecord("ns", "hub", "cg", "p-0").WithOwner("owner-a")
	p1 := types.NewOwnershipRecord("ns", "hub", "cg", "p-1").WithOwner("owner-a")
	accepted, err := s.Claim(ctx, []types.OwnershipRecord{p0, p1})
	require.NoError(t, err)
	require.Len(t, accepted, 2)

	blindP0 := types.NewOwnershipRecord("ns", "hub", "cg", "p-0").WithOwner("owner-b")
	staleRenewal := accepted[1]

	mixed, err := s.Claim(ctx, []types.OwnershipRecord{blindP0, staleRenewal.WithOwner("owner-a")})
	require.NoError(t, err)
	require.Len(t, mixed, 1)
	assert.Equal(t, "p-1", mixed[0].PartitionID)
}

func TestStore_ListScopesToNamespaceHubConsumerGroup(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	rec := types.NewOwnershipRecord("ns-a", "hub", "cg", "p-0").WithOwner("owner-a")
	other := types.NewOwnershipRecord("ns-b", "hub", "cg", "p-0").WithOwner("owner-a")
	_, err := s.Claim(ctx, []types.OwnershipRecord{rec, other})
	require.NoError(t, err)

	listed, err := s.List(ctx, "ns-a", "hub", "cg")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "ns-a", listed[0].Namespace)
}
