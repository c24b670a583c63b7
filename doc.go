// Package quorumpart implements a cooperative, leaderless partition load
// balancer for a fleet of event-stream consumer processes sharing a fixed
// set of partitions of an event hub.
//
// Every process in the fleet runs an identical Balancer instance. Instances
// never talk to each other directly: they coordinate only through a shared
// Store of ownership records, each carrying an optimistic-concurrency
// version token. On every tick, a Balancer renews its own holdings, lists
// the store's current state, classifies every record as active or expired,
// computes a fair-share target, and — if it is entitled to more — attempts
// exactly one claim: an orphaned partition first, then a steal from a peer
// holding more than its fair share.
//
// # Quick start
//
//	cfg := quorumpart.DefaultConfig()
//	cfg.OwnerID = "consumer-7"
//	cfg.Namespace, cfg.Hub, cfg.ConsumerGroup = "prod", "orders-hub", "billing"
//
//	bal, err := quorumpart.NewBalancer(&cfg, store)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for {
//		claimed, err := bal.RunTick(ctx, allPartitionIDs)
//		if err != nil {
//			log.Println("tick failed:", err)
//		}
//		if claimed != nil {
//			startReaderFor(claimed.PartitionID)
//		}
//		time.Sleep(cfg.TickInterval)
//	}
//
// # What this package does not do
//
// It does not read events, checkpoint stream offsets, authenticate against
// or serialize for a specific store backend, or drive the tick loop's
// cadence — those are the driver's job and the ownership Store's job. This
// package does not elect a leader and does not guarantee two instances
// never briefly overlap on the same partition; both are explicit
// non-goals, reconciled by the expiration window and the store's
// optimistic concurrency rather than avoided outright.
//
// See package store/nats and store/memory for two Store implementations,
// and package internal/simulate for a fleet-scale test harness exercising
// the properties this package guarantees.
package quorumpart
