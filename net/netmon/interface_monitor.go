// Package netmon watches the system's network interfaces and publishes the
// full interface list whenever it changes.
package netmon

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/davidbalbert/lldpd/lldpd/services"
	"github.com/davidbalbert/lldpd/sync"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// How long to wait after an event for others to accumulate before refreshing.
const debounceDelay = 200 * time.Millisecond

// A platformMonitor sends on events whenever something about the system's
// interfaces might have changed. Sends may be dropped, so they must not block.
type platformMonitor interface {
	run(ctx context.Context, events chan<- struct{}) error
}

type Monitor struct {
	*sync.Notifier[[]Interface]
	p      platformMonitor
	list   func() ([]Interface, error)
	logger *zap.Logger
}

func New(serviceManager *services.ServiceManager, conf any) (services.Runner, error) {
	return newMonitor(newPlatformMonitor(), listInterfaces, serviceManager.Logger().Named("netmon"))
}

func newMonitor(p platformMonitor, list func() ([]Interface, error), logger *zap.Logger) (*Monitor, error) {
	interfaces, err := list()
	if err != nil {
		return nil, err
	}

	return &Monitor{
		Notifier: sync.NewNotifier(interfaces),
		p:        p,
		list:     list,
		logger:   logger,
	}, nil
}

// Interfaces returns the most recently published interface list.
func (m *Monitor) Interfaces() []Interface {
	interfaces, _ := m.LastChange()
	return interfaces
}

// Get returns the named interface.
func (m *Monitor) Get(name string) (Interface, bool) {
	for _, iface := range m.Interfaces() {
		if iface.Name == name {
			return iface, true
		}
	}

	return Interface{}, false
}

func (m *Monitor) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	events := make(chan struct{}, 1)

	g.Go(func() error {
		err := m.p.run(ctx, events)
		if err != nil {
			return fmt.Errorf("interface monitor: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		return m.debounce(ctx, events, debounceDelay)
	})

	return g.Wait()
}

// debounce batches events together, refreshing once d has passed since the
// first event in a batch.
func (m *Monitor) debounce(ctx context.Context, events <-chan struct{}, d time.Duration) error {
	var (
		notifyTimer *time.Timer
		notifyCh    <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			if notifyTimer != nil {
				notifyTimer.Stop()
			}

			return nil
		case <-events:
			if notifyTimer == nil {
				notifyTimer = time.NewTimer(d)
				notifyCh = notifyTimer.C
			}
		case <-notifyCh:
			notifyTimer = nil
			notifyCh = nil

			if err := m.refresh(); err != nil {
				m.logger.Warn("failed to refresh interfaces", zap.Error(err))
			}
		}
	}
}

// refresh publishes the current interface list if it differs from the last one.
func (m *Monitor) refresh() error {
	interfaces, err := m.list()
	if err != nil {
		return err
	}

	last, _ := m.LastChange()
	if reflect.DeepEqual(last, interfaces) {
		return nil
	}

	m.logger.Debug("interfaces changed", zap.Int("count", len(interfaces)))
	m.NotifyChange(interfaces)

	return nil
}

func notify(events chan<- struct{}) {
	select {
	case events <- struct{}{}:
	default:
	}
}
