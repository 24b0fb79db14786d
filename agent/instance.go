// Package agent runs LLDP on the system's interfaces: it announces the local
// system, receives neighbors' LLDPDUs and keeps the neighbor table.
package agent

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/davidbalbert/lldpd/config"
	"github.com/davidbalbert/lldpd/lldpd/services"
	"github.com/davidbalbert/lldpd/net/netmon"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

const expireInterval = time.Second

type interfaceSource interface {
	LastChange() ([]netmon.Interface, int64)
	AwaitChange(ctx context.Context, seq int64) ([]netmon.Interface, int64)
}

type runningPort struct {
	iface  netmon.Interface
	cancel context.CancelFunc
	done   chan struct{}
}

func (rp *runningPort) stop() {
	rp.cancel()
	<-rp.done
}

type Instance struct {
	neighbors *NeighborTable

	serviceManager *services.ServiceManager
	config         *config.LLDPConfig
	version        string
	hostname       func() (string, error)
	listen         listenFunc
	logger         *zap.Logger

	// Only touched by the goroutine running updatePorts.
	ports  map[string]*runningPort
	system *localSystem
}

func NewInstance(serviceManager *services.ServiceManager, conf any, version string) (services.Runner, error) {
	if conf == nil {
		return nil, fmt.Errorf("no lldp config provided")
	}

	lldpConf, ok := conf.(*config.LLDPConfig)
	if !ok {
		return nil, fmt.Errorf("expected *config.LLDPConfig, but got %T", conf)
	}

	i := newInstance(lldpConf, version, serviceManager.Logger().Named("lldp"))
	i.serviceManager = serviceManager

	return i, nil
}

func newInstance(conf *config.LLDPConfig, version string, logger *zap.Logger) *Instance {
	return &Instance{
		neighbors: NewNeighborTable(),
		config:    conf,
		version:   version,
		hostname:  os.Hostname,
		listen:    listenPacket,
		logger:    logger,
		ports:     make(map[string]*runningPort),
	}
}

func (i *Instance) Run(ctx context.Context) error {
	s, err := i.serviceManager.Get(config.ServiceInterfaceMonitor)
	if err != nil {
		return fmt.Errorf("failed to get interface monitor service: %w", err)
	}

	monitor, ok := s.(*netmon.Monitor)
	if !ok {
		return fmt.Errorf("expected *netmon.Monitor but got %T", s)
	}

	return i.run(ctx, monitor)
}

func (i *Instance) run(ctx context.Context, source interfaceSource) error {
	g, ctx := errgroup.WithContext(ctx)

	intCh := make(chan []netmon.Interface)

	g.Go(func() error {
		interfaces, seq := source.LastChange()
		for {
			select {
			case <-ctx.Done():
				return nil
			case intCh <- interfaces:
			}

			interfaces, seq = source.AwaitChange(ctx, seq)
		}
	})

	g.Go(func() error {
		expire := time.NewTicker(expireInterval)
		defer expire.Stop()

		defer i.stopPorts()

		for {
			select {
			case <-ctx.Done():
				return nil
			case interfaces := <-intCh:
				err := i.updatePorts(ctx, g, interfaces)
				if err != nil {
					return err
				}
			case now := <-expire.C:
				i.neighbors.Expire(now)
			}
		}
	})

	return g.Wait()
}

func (i *Instance) eligible(iface netmon.Interface) (config.LLDPInterfaceConfig, bool) {
	if !iface.IsUp() || iface.IsLoopback() || !iface.IsEthernet() {
		return config.LLDPInterfaceConfig{}, false
	}

	return i.config.InterfaceConfig(iface.Name)
}

func (i *Instance) updatePorts(ctx context.Context, g *errgroup.Group, interfaces []netmon.Interface) error {
	if i.system == nil {
		hostname, err := i.hostname()
		if err != nil {
			i.logger.Warn("failed to get hostname", zap.Error(err))
		}

		i.system, err = newLocalSystem(i.config, chassisMAC(interfaces), hostname, i.version)
		if err != nil {
			i.logger.Warn("not starting LLDP yet", zap.Error(err))
			return nil
		}

		i.logger.Info("chassis ID", zap.Stringer("chassis_id", i.system.chassisID))
	}

	byName := make(map[string]netmon.Interface)
	for _, iface := range interfaces {
		byName[iface.Name] = iface
	}

	// stop ports whose interface is gone, no longer eligible, or changed
	for name, rp := range i.ports {
		iface, ok := byName[name]
		if ok {
			_, ok = i.eligible(iface)
		}

		if ok && reflect.DeepEqual(rp.iface, iface) {
			continue
		}

		rp.stop()
		delete(i.ports, name)

		if !ok {
			i.logger.Info("stopped port", zap.String("interface", name))
			i.neighbors.RemoveInterface(name)
		}
	}

	// start new ports, and restart changed ones
	names := maps.Keys(byName)
	slices.Sort(names)

	for _, name := range names {
		if _, ok := i.ports[name]; ok {
			continue
		}

		iface := byName[name]

		ic, ok := i.eligible(iface)
		if !ok {
			continue
		}

		i.startPort(ctx, g, iface, ic)
	}

	return nil
}

func (i *Instance) startPort(ctx context.Context, g *errgroup.Group, iface netmon.Interface, ic config.LLDPInterfaceConfig) {
	logger := i.logger.With(zap.String("interface", iface.Name))

	conn, err := i.listen(&iface.Interface, ic.Promiscuous)
	if err != nil {
		logger.Error("failed to open port", zap.Error(err))
		return
	}

	p := &port{
		iface:     iface,
		conf:      ic,
		dst:       i.config.Destination,
		interval:  i.config.Interval,
		system:    i.system,
		conn:      conn,
		neighbors: i.neighbors,
		logger:    logger,
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	i.ports[iface.Name] = &runningPort{
		iface:  iface,
		cancel: cancel,
		done:   done,
	}

	logger.Info("started port", zap.Stringer("mode", ic.Mode))

	g.Go(func() error {
		defer close(done)

		// A port failing takes down that port only.
		if err := p.Run(ctx); err != nil {
			logger.Error("port stopped", zap.Error(err))
		}

		return nil
	})
}

func (i *Instance) stopPorts() {
	for name, rp := range i.ports {
		rp.stop()
		delete(i.ports, name)
	}
}

// Neighbors returns every neighbor currently known.
func (i *Instance) Neighbors() []Neighbor {
	return i.neighbors.Neighbors()
}

func (i *Instance) NeighborTable() *NeighborTable {
	return i.neighbors
}
