package quorumpart

import "github.com/streamforge/quorumpart/types"

// Re-export types from the internal types package.
//
// This solves the import-cycle problem: internal pipeline packages
// (internal/renew, internal/distribution, internal/plan,
// internal/relinquish) depend on types, but must not depend on this root
// package, while callers still get a convenient quorumpart.OwnershipRecord,
// quorumpart.Logger, and so on.
type (
	OwnershipRecord = types.OwnershipRecord
	Store           = types.Store
)

// Re-export interfaces and the hooks struct from the internal types package.
type (
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)
