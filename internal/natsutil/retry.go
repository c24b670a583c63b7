package natsutil

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Retry runs op, retrying with exponential backoff as long as op's error is
// a connectivity error and ctx is not done. Bounded to a few hundred
// milliseconds total so a single Store call never stalls a tick waiting out
// a longer outage — the tick loop's own next-tick retry handles that.
func Retry(ctx context.Context, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 10 * time.Millisecond
	bo.MaxInterval = 100 * time.Millisecond
	bo.MaxElapsedTime = 300 * time.Millisecond

	return backoff.Retry(func() error {
		err := op()
		if err != nil && !IsConnectivityError(err) {
			return backoff.Permanent(err)
		}

		return err
	}, backoff.WithContext(bo, ctx))
}
