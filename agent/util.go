package agent

import (
	"context"
	"time"
)

// tickImmediately is like time.Tick, but the first tick is sent right away
// and the ticker stops when ctx is done.
func tickImmediately(ctx context.Context, d time.Duration) <-chan time.Time {
	c := make(chan time.Time)

	go func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()

		t := time.Now()
		for {
			select {
			case <-ctx.Done():
				return
			case c <- t:
			}

			select {
			case <-ctx.Done():
				return
			case t = <-ticker.C:
			}
		}
	}()

	return c
}
