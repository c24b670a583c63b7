// Package plan implements fair-share arithmetic, eligibility to claim this
// tick, target selection among orphans and over-provisioned or
// at-maximum peers, and the single claim attempt a tick is allowed to make.
package plan

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
	"time"

	"github.com/streamforge/quorumpart/internal/distribution"
	"github.com/streamforge/quorumpart/types"
)

// Planner decides whether an instance should attempt a claim this tick and,
// if so, against which partition.
type Planner struct {
	store         types.Store
	namespace     string
	hub           string
	consumerGroup string
	self          string
	logger        types.Logger
	metrics       types.MetricsCollector
	hooks         *types.Hooks
	rng           *mrand.Rand
}

// New creates a Planner for the given instance. The PRNG is seeded from
// crypto/rand at construction time, deriving two math/rand/v2 PCG seed
// halves from independent entropy, so that no two Planner instances — in
// this process or a peer's — draw correlated claim/steal targets.
func New(store types.Store, namespace, hub, consumerGroup, self string, logger types.Logger, metrics types.MetricsCollector, hooks *types.Hooks) *Planner {
	return &Planner{
		store:         store,
		namespace:     namespace,
		hub:           hub,
		consumerGroup: consumerGroup,
		self:          self,
		logger:        logger,
		metrics:       metrics,
		hooks:         hooks,
		rng:           mrand.New(mrand.NewPCG(seedHalf(), seedHalf())),
	}
}

// seedHalf draws 8 bytes of entropy from crypto/rand for one half of a PCG
// seed, falling back to the wall clock only if the system entropy source is
// unavailable — a condition production code should never actually hit.
func seedHalf() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err == nil {
		return binary.LittleEndian.Uint64(buf[:])
	}

	return uint64(time.Now().UnixNano()) //nolint:gosec // last-resort fallback only
}

// Result is the outcome of a single planning pass.
type Result struct {
	// Claimed is the newly accepted record, or nil if no claim was
	// accepted this tick (not eligible, no target, or rejected).
	Claimed *types.OwnershipRecord
}

// Plan runs one pass of fair-share eligibility and target selection,
// attempting at most one claim per tick.
func (p *Planner) Plan(ctx context.Context, snap distribution.Snapshot, holdings map[string]types.OwnershipRecord, totalPartitions int, now time.Time) (Result, error) {
	minShare, maxShare, own := fairShare(totalPartitions, snap.Active, p.self)
	p.metrics.RecordFairShare(minShare, maxShare, own)
	p.metrics.RecordUnclaimed(len(snap.Unclaimed))

	if !p.eligible(minShare, own, snap.Active) {
		p.metrics.RecordStealDecision("none")
		p.logger.Debug("not eligible to claim this tick", "own", own, "minShare", minShare)

		return Result{}, nil
	}

	partitionID, kind, ok := p.selectTarget(snap, holdings, minShare, maxShare, own)
	p.metrics.RecordStealDecision(kind)
	if !ok {
		p.logger.Debug("eligible but no viable claim target", "own", own, "minShare", minShare, "maxShare", maxShare)

		return Result{}, nil
	}

	return p.attemptClaim(ctx, partitionID, snap.Raw, now)
}

// fairShare computes the min share, max share, and this instance's current
// holdings count from the total partition count and the active owner count.
func fairShare(totalPartitions int, active map[string][]types.OwnershipRecord, self string) (minShare, maxShare, own int) {
	n := len(active)
	if n == 0 {
		n = 1
	}
	minShare = totalPartitions / n
	maxShare = minShare + 1
	own = len(active[self])

	return minShare, maxShare, own
}

// eligible reports whether this instance may attempt a claim this tick:
// strictly below min share, or exactly at min share with no other owner
// below it (the leftover-partition case when total partitions isn't evenly
// divisible by the active owner count).
func (p *Planner) eligible(minShare, own int, active map[string][]types.OwnershipRecord) bool {
	if own < minShare {
		return true
	}
	if own != minShare {
		return false
	}

	for _, records := range active {
		if len(records) < minShare {
			return false
		}
	}

	return true
}

// selectTarget picks a claim target in priority order: an orphan first, then
// a steal from an over-provisioned owner, then — only if still strictly
// below min share — a steal from an owner sitting exactly at max share.
func (p *Planner) selectTarget(snap distribution.Snapshot, holdings map[string]types.OwnershipRecord, minShare, maxShare, own int) (partitionID, kind string, ok bool) {
	if len(snap.Unclaimed) > 0 {
		return snap.Unclaimed[p.rng.IntN(len(snap.Unclaimed))], "orphan", true
	}

	over := p.candidatesAbove(snap.Active, maxShare, holdings)
	if len(over) > 0 {
		return over[p.rng.IntN(len(over))], "steal_over", true
	}

	// This guard can never be true when eligible() returned true via its
	// second clause (own == minShare), because that clause requires no
	// owner — including self — to hold fewer than minShare, which is only
	// consistent with own == minShare, not own < minShare. The branch is
	// kept anyway, conservatively, in case the eligibility test ever
	// changes shape.
	if own < minShare {
		atMax := p.candidatesAt(snap.Active, maxShare)
		if len(atMax) > 0 {
			return atMax[p.rng.IntN(len(atMax))], "steal_at_max", true
		}
	}

	return "", "none", false
}

func (p *Planner) candidatesAbove(active map[string][]types.OwnershipRecord, maxShare int, holdings map[string]types.OwnershipRecord) []string {
	var out []string
	for _, records := range active {
		if len(records) <= maxShare {
			continue
		}
		for _, rec := range records {
			if _, mine := holdings[rec.PartitionID]; mine {
				continue
			}

			out = append(out, rec.PartitionID)
		}
	}

	return out
}

func (p *Planner) candidatesAt(active map[string][]types.OwnershipRecord, maxShare int) []string {
	var out []string
	for owner, records := range active {
		if owner == p.self || len(records) != maxShare {
			continue
		}
		for _, rec := range records {
			out = append(out, rec.PartitionID)
		}
	}

	return out
}

// attemptClaim builds a proposed record for partitionID from the raw
// snapshot's version token (or none, if the partition has never been
// written) and submits it as a single-element claim batch.
func (p *Planner) attemptClaim(ctx context.Context, partitionID string, raw map[string]types.OwnershipRecord, now time.Time) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, types.ErrCanceled
	}

	proposed := types.NewOwnershipRecord(p.namespace, p.hub, p.consumerGroup, partitionID).
		WithOwner(p.self).
		WithLastModified(now)

	if old, found := raw[partitionID]; found {
		proposed = proposed.WithVersionToken(old.VersionToken, old.HasVersion())
	}

	p.logger.Debug("claim attempt starting", "partitionID", partitionID)
	start := time.Now()

	accepted, err := p.store.Claim(ctx, []types.OwnershipRecord{proposed})
	duration := time.Since(start).Seconds()
	if err != nil {
		p.metrics.RecordClaimAttempt("error", duration)
		if ctx.Err() != nil {
			return Result{}, types.ErrCanceled
		}
		p.logger.Error("claim attempt failed", "partitionID", partitionID, "error", err)

		return Result{}, err
	}

	if len(accepted) == 0 {
		p.metrics.RecordClaimAttempt("rejected", duration)
		p.logger.Debug("claim rejected", "partitionID", partitionID)

		return Result{}, nil
	}

	p.metrics.RecordClaimAttempt("accepted", duration)
	p.logger.Debug("claim accepted", "partitionID", partitionID)

	rec := accepted[0]
	p.hooks.OnClaimed(ctx, rec)

	return Result{Claimed: &rec}, nil
}
