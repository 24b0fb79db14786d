//go:build !darwin && !linux

package netmon

import (
	"context"
	"time"
)

const pollInterval = 5 * time.Second

// pollingMonitor is used where there's no way to subscribe to interface changes.
// refresh only publishes real changes, so signalling on every tick is fine.
type pollingMonitor struct {
	interval time.Duration
}

func newPlatformMonitor() platformMonitor {
	return &pollingMonitor{interval: pollInterval}
}

func (m *pollingMonitor) run(ctx context.Context, events chan<- struct{}) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			notify(events)
		}
	}
}
