// Package services runs the daemon's services and restarts them when the
// config changes.
package services

import (
	"context"
	"fmt"

	"github.com/davidbalbert/lldpd/config"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

type Runner interface {
	Run(ctx context.Context) error
}

// BuilderFunc builds the service for one bootstrap entry. conf is the
// service's section of the config, or nil for services without one.
type BuilderFunc func(m *ServiceManager, conf any) (Runner, error)

var builders = make(map[config.ServiceType]BuilderFunc)

func registerServiceType(t config.ServiceType, fn BuilderFunc) error {
	if _, ok := builders[t]; ok {
		return fmt.Errorf("service type already registered: %v", t)
	}

	builders[t] = fn

	return nil
}

func MustRegisterServiceType(t config.ServiceType, fn BuilderFunc) {
	err := registerServiceType(t, fn)
	if err != nil {
		panic(err)
	}
}

type service struct {
	id     config.ServiceID
	runner Runner
	cancel context.CancelFunc
	done   chan struct{}
}

// ServiceManager starts the services named by the running config, and restarts
// all of them whenever the config changes.
//
// running is a channel-as-mutex holding the running services by name. It is
// never held while waiting on a service, so a service that calls Get while it
// is being stopped gets an error instead of blocking the restart.
type ServiceManager struct {
	running       chan map[string]*service
	configManager *config.ConfigManager
	logger        *zap.Logger
}

func NewServiceManager(configManager *config.ConfigManager, logger *zap.Logger) *ServiceManager {
	running := make(chan map[string]*service, 1)
	running <- make(map[string]*service)

	return &ServiceManager{
		running:       running,
		configManager: configManager,
		logger:        logger,
	}
}

func (m *ServiceManager) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		conf, seq := m.configManager.LastChange()

		for {
			m.stopAll()

			if err := m.startAll(ctx, g, conf); err != nil {
				return err
			}

			conf, seq = m.configManager.AwaitChange(ctx, seq)
			if ctx.Err() != nil {
				return nil
			}

			m.logger.Info("config changed, restarting services")
		}
	})

	return g.Wait()
}

// stopAll cancels every running service and waits for them to return.
func (m *ServiceManager) stopAll() {
	running := <-m.running
	stopping := maps.Values(running)
	m.running <- make(map[string]*service)

	for _, s := range stopping {
		s.cancel()
	}

	for _, s := range stopping {
		<-s.done
		m.logger.Info("stopped service", zap.String("service", s.id.Name))
	}
}

func (m *ServiceManager) startAll(ctx context.Context, g *errgroup.Group, conf *config.Config) error {
	running := <-m.running
	defer func() {
		m.running <- running
	}()

	for _, b := range conf.Bootstraps() {
		if err := m.start(ctx, g, running, b); err != nil {
			return err
		}
	}

	return nil
}

func (m *ServiceManager) start(ctx context.Context, g *errgroup.Group, running map[string]*service, b config.Bootstrap) error {
	if _, ok := running[b.ID.Name]; ok {
		return fmt.Errorf("service already running: %s", b.ID.Name)
	}

	builder, ok := builders[b.ID.Type]
	if !ok {
		return fmt.Errorf("unknown service type: %v", b.ID.Type)
	}

	runner, err := builder(m, b.Config)
	if err != nil {
		return fmt.Errorf("failed to build %s: %w", b.ID.Name, err)
	}

	ctx, cancel := context.WithCancel(ctx)

	s := &service{
		id:     b.ID,
		runner: runner,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	running[b.ID.Name] = s

	m.logger.Info("starting service", zap.String("service", b.ID.Name))

	g.Go(func() error {
		defer close(s.done)

		err := runner.Run(ctx)
		if err == nil {
			return nil
		}

		// Errors from a service on its way out don't take the daemon down.
		if ctx.Err() != nil {
			m.logger.Debug("service returned error while stopping", zap.String("service", b.ID.Name), zap.Error(err))
			return nil
		}

		return fmt.Errorf("%s: %w", b.ID.Name, err)
	})

	return nil
}

// Get returns the running service with the given ID. It fails if the service
// isn't running, including while services restart after a config change.
func (m *ServiceManager) Get(id config.ServiceID) (any, error) {
	running := <-m.running
	s, ok := running[id.Name]
	m.running <- running

	if !ok {
		return nil, fmt.Errorf("service not running: %s", id.Name)
	}

	return s.runner, nil
}

func (m *ServiceManager) ConfigManager() *config.ConfigManager {
	return m.configManager
}

func (m *ServiceManager) Logger() *zap.Logger {
	return m.logger
}

// RunningServices returns the IDs of the running services sorted by name.
func (m *ServiceManager) RunningServices() []config.ServiceID {
	running := <-m.running
	ids := make([]config.ServiceID, 0, len(running))
	for _, s := range running {
		ids = append(ids, s.id)
	}
	m.running <- running

	slices.SortFunc(ids, func(a, b config.ServiceID) bool {
		return a.Name < b.Name
	})

	return ids
}
