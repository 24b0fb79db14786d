package api

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"

	"github.com/davidbalbert/lldpd/agent"
	"github.com/davidbalbert/lldpd/config"
	"github.com/davidbalbert/lldpd/lldpd/services"
	"github.com/davidbalbert/lldpd/net/netmon"
	"github.com/davidbalbert/lldpd/rpc"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type serviceGetter interface {
	Get(id config.ServiceID) (any, error)
}

type Server struct {
	services serviceGetter
	shutdown context.CancelFunc
	socket   string
	version  string
	logger   *zap.Logger

	// closed when Run is asked to stop, so streams end and GracefulStop
	// doesn't wait on them forever
	stopping chan struct{}
}

func NewServer(serviceManager *services.ServiceManager, socket string, shutdown context.CancelFunc, version string) *Server {
	return newServer(serviceManager, socket, shutdown, version, serviceManager.Logger().Named("api"))
}

func newServer(services serviceGetter, socket string, shutdown context.CancelFunc, version string, logger *zap.Logger) *Server {
	return &Server{
		services: services,
		shutdown: shutdown,
		socket:   socket,
		version:  version,
		logger:   logger,
		stopping: make(chan struct{}),
	}
}

func (s *Server) Run(ctx context.Context) error {
	if err := removeStaleSocket(s.socket); err != nil {
		return err
	}

	listener, err := net.Listen("unix", s.socket)
	if err != nil {
		return err
	}

	grpcServer := grpc.NewServer()
	rpcServer := rpc.NewAPIServer(s)

	rpc.RegisterAPIServer(grpcServer, rpcServer)

	s.logger.Info("listening", zap.String("socket", s.socket))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return grpcServer.Serve(listener)
	})

	g.Go(func() error {
		<-ctx.Done()
		close(s.stopping)
		grpcServer.GracefulStop()
		return nil
	})

	return g.Wait()
}

// A socket left behind by a daemon that didn't exit cleanly would make Listen
// fail. Anything other than a socket is left alone.
func removeStaleSocket(path string) error {
	fi, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}

	if fi.Mode()&fs.ModeSocket == 0 {
		return fmt.Errorf("%s exists and is not a socket", path)
	}

	return os.Remove(path)
}

func (s *Server) GetVersion(ctx context.Context) (string, error) {
	return s.version, nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutdown requested")
	s.shutdown()
	return nil
}

func (s *Server) monitor() (*netmon.Monitor, error) {
	svc, err := s.services.Get(config.ServiceInterfaceMonitor)
	if err != nil {
		return nil, status.Error(codes.Unavailable, err.Error())
	}

	m, ok := svc.(*netmon.Monitor)
	if !ok {
		return nil, status.Errorf(codes.Internal, "expected *netmon.Monitor but got %T", svc)
	}

	return m, nil
}

func (s *Server) instance() (*agent.Instance, error) {
	svc, err := s.services.Get(config.ServiceLLDP)
	if err != nil {
		return nil, status.Error(codes.Unavailable, err.Error())
	}

	inst, ok := svc.(*agent.Instance)
	if !ok {
		return nil, status.Errorf(codes.Internal, "expected *agent.Instance but got %T", svc)
	}

	return inst, nil
}

func (s *Server) GetInterfaces(ctx context.Context) ([]rpc.Interface, error) {
	m, err := s.monitor()
	if err != nil {
		return nil, err
	}

	netifs := m.Interfaces()

	interfaces := make([]rpc.Interface, len(netifs))
	for i, netif := range netifs {
		interfaces[i] = rpc.Interface{
			Index:        netif.Index,
			MTU:          netif.MTU,
			Name:         netif.Name,
			HardwareAddr: netif.HardwareAddr,
			Flags:        netif.Flags,
			Prefixes:     netif.Prefixes,
		}
	}

	return interfaces, nil
}

func toRPCNeighbor(n agent.Neighbor) rpc.Neighbor {
	return rpc.Neighbor{
		Interface: n.Interface,
		Src:       n.Src,
		LLDPDU:    n.LLDPDU.Encode(),
		LastSeen:  n.LastSeen,
		Expires:   n.Expires,
	}
}

func (s *Server) GetNeighbors(ctx context.Context) ([]rpc.Neighbor, error) {
	inst, err := s.instance()
	if err != nil {
		return nil, err
	}

	neighbors := inst.Neighbors()

	rpcNeighbors := make([]rpc.Neighbor, len(neighbors))
	for i, n := range neighbors {
		rpcNeighbors[i] = toRPCNeighbor(n)
	}

	return rpcNeighbors, nil
}

func (s *Server) WatchNeighbors(ctx context.Context, send func(rpc.NeighborEvent) error) error {
	inst, err := s.instance()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-s.stopping:
			cancel()
		case <-ctx.Done():
		}
	}()

	table := inst.NeighborTable()

	token := table.Register()
	defer table.Unregister(token)

	for {
		e, ok := table.AwaitEvent(ctx, token)
		if !ok {
			return nil
		}

		n, ok := e.Data.(agent.Neighbor)
		if !ok {
			continue
		}

		err := send(rpc.NeighborEvent{
			Type:     string(e.Type),
			Neighbor: toRPCNeighbor(n),
		})
		if err != nil {
			return err
		}
	}
}
