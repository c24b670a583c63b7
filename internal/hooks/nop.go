// Package hooks provides default no-op callbacks for types.Hooks, so the
// rest of the codebase never has to nil-check an individual callback field.
package hooks

import (
	"context"

	"github.com/streamforge/quorumpart/types"
)

// NewNop returns a Hooks value with every callback set to a no-op.
func NewNop() *types.Hooks {
	return &types.Hooks{
		OnClaimed:      func(context.Context, types.OwnershipRecord) {},
		OnLost:         func(context.Context, string) {},
		OnRelinquished: func(context.Context, string) {},
		OnTickError:    func(context.Context, error) {},
	}
}

// Merge returns a Hooks value with every nil field in h replaced by its
// no-op default, so callers only ever have to set the callbacks they care
// about and the rest of the codebase never has to nil-check them.
func Merge(h *types.Hooks) *types.Hooks {
	merged := NewNop()
	if h == nil {
		return merged
	}

	if h.OnClaimed != nil {
		merged.OnClaimed = h.OnClaimed
	}
	if h.OnLost != nil {
		merged.OnLost = h.OnLost
	}
	if h.OnRelinquished != nil {
		merged.OnRelinquished = h.OnRelinquished
	}
	if h.OnTickError != nil {
		merged.OnTickError = h.OnTickError
	}

	return merged
}
