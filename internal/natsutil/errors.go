// Package natsutil classifies NATS/JetStream errors so store/nats can wrap
// them as *types.StoreError with the right Transient value. Kept separate
// from types/ so that package never needs to import the NATS client.
package natsutil

import (
	"errors"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// IsConnectivityError reports whether err is a transport-level NATS failure
// — timeout, no servers, disconnect, connection refused — that is worth
// retrying on the next tick rather than a permanent one.
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, nats.ErrTimeout) ||
		errors.Is(err, nats.ErrNoServers) ||
		errors.Is(err, nats.ErrDisconnected) ||
		errors.Is(err, nats.ErrConnectionClosed) ||
		errors.Is(err, jetstream.ErrNoStreamResponse) ||
		strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "i/o timeout")
}
