// Package types holds the shared data model and collaborator interfaces of
// the quorumpart cooperative partition balancer: OwnershipRecord, the Store
// contract, and the Logger/MetricsCollector/Hooks surface a driver plugs in.
//
// It exists to avoid an import cycle between the root quorumpart package and
// the internal packages that implement each stage of a tick (renewal,
// distribution analysis, claim/steal planning, relinquish): those internal
// packages depend on types, never on quorumpart itself.
package types
