package api

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/davidbalbert/lldpd/agent"
	"github.com/davidbalbert/lldpd/config"
	"github.com/davidbalbert/lldpd/lldp"
	"github.com/davidbalbert/lldpd/lldpd/services"
	"github.com/davidbalbert/lldpd/net/netmon"
	"github.com/davidbalbert/lldpd/rpc"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeServices map[config.ServiceID]any

func (f fakeServices) Get(id config.ServiceID) (any, error) {
	svc, ok := f[id]
	if !ok {
		return nil, fmt.Errorf("service not running: %s", id.Name)
	}

	return svc, nil
}

func neighborLLDPDU(t *testing.T, port string) *lldp.LLDPDU {
	t.Helper()

	c, err := lldp.NewChassisIDFromMAC(net.HardwareAddr{0xff, 0xee, 0xdd, 0xcc, 0xbb, 0xaa})
	if err != nil {
		t.Fatal(err)
	}

	p, err := lldp.NewPortID(lldp.PortInterfaceName, []byte(port))
	if err != nil {
		t.Fatal(err)
	}

	ttl, err := lldp.NewTTL(120)
	if err != nil {
		t.Fatal(err)
	}

	du, err := lldp.NewLLDPDU(c, p, ttl, lldp.NewEndOfLLDPDU())
	if err != nil {
		t.Fatal(err)
	}

	return du
}

func startServer(t *testing.T, svcs serviceGetter) (*Client, chan struct{}) {
	t.Helper()

	socket := filepath.Join(t.TempDir(), "lldpd.sock")
	shutdown := make(chan struct{})

	var closed bool
	s := newServer(svcs, socket, func() {
		if !closed {
			closed = true
			close(shutdown)
		}
	}, "1.2.3", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- s.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()

		if err := <-done; err != nil {
			t.Error(err)
		}
	})

	deadline := time.Now().Add(time.Second)
	for {
		if _, err := os.Stat(socket); err == nil {
			break
		} else if time.Now().After(deadline) {
			t.Fatal("timed out waiting for the server socket")
		}

		time.Sleep(10 * time.Millisecond)
	}

	client, err := NewClient(socket)
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		client.Close()
	})

	return client, shutdown
}

func TestServer(t *testing.T) {
	m := services.NewServiceManager(nil, zap.NewNop())

	r, err := agent.NewInstance(m, &config.LLDPConfig{Interval: time.Hour, TTL: 120, ChassisID: "test"}, "1.2.3")
	if err != nil {
		t.Fatal(err)
	}
	inst := r.(*agent.Instance)

	monitor, err := netmon.New(m, nil)
	if err != nil {
		t.Fatal(err)
	}

	src := net.HardwareAddr{0xff, 0xee, 0xdd, 0xcc, 0xbb, 0xaa}
	du := neighborLLDPDU(t, "port0")
	inst.NeighborTable().Update("eth0", src, du, time.Now())

	client, shutdown := startServer(t, fakeServices{
		config.ServiceInterfaceMonitor: monitor,
		config.ServiceLLDP:             inst,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	version, err := client.GetVersion(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if version != "1.2.3" {
		t.Fatalf("expected version 1.2.3, got %s", version)
	}

	interfaces, err := client.GetInterfaces(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if len(interfaces) != len(monitor.(*netmon.Monitor).Interfaces()) {
		t.Fatalf("expected %d interfaces, got %d", len(monitor.(*netmon.Monitor).Interfaces()), len(interfaces))
	}

	neighbors, err := client.GetNeighbors(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if len(neighbors) != 1 || neighbors[0].Interface != "eth0" {
		t.Fatalf("unexpected neighbors: %v", neighbors)
	}

	got, err := lldp.DecodeLLDPDU(neighbors[0].LLDPDU)
	if err != nil {
		t.Fatal(err)
	}

	if got.String() != du.String() {
		t.Fatalf("expected %v, got %v", du, got)
	}

	events := make(chan rpc.NeighborEvent, 16)
	go client.WatchNeighbors(ctx, func(e rpc.NeighborEvent) error {
		events <- e
		return nil
	})

	// The watch may not be registered yet, so keep adding neighbors until
	// one is reported.
	for i := 1; ; i++ {
		inst.NeighborTable().Update("eth0", src, neighborLLDPDU(t, fmt.Sprintf("port%d", i)), time.Now())

		select {
		case e := <-events:
			if e.Type != "NeighborAdded" || e.Neighbor.Interface != "eth0" {
				t.Fatalf("unexpected event: %+v", e)
			}
		case <-time.After(20 * time.Millisecond):
			continue
		case <-ctx.Done():
			t.Fatal("timed out waiting for a neighbor event")
		}

		break
	}

	if err := client.Shutdown(ctx); err != nil {
		t.Fatal(err)
	}

	select {
	case <-shutdown:
	case <-ctx.Done():
		t.Fatal("shutdown wasn't called")
	}
}

func TestServerServiceNotRunning(t *testing.T) {
	client, _ := startServer(t, fakeServices{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.GetNeighbors(ctx)
	if status.Code(err) != codes.Unavailable {
		t.Fatalf("expected Unavailable, got %v", err)
	}

	_, err = client.GetInterfaces(ctx)
	if status.Code(err) != codes.Unavailable {
		t.Fatalf("expected Unavailable, got %v", err)
	}
}

func TestRemoveStaleSocket(t *testing.T) {
	dir := t.TempDir()

	if err := removeStaleSocket(filepath.Join(dir, "missing.sock")); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "lldpd.sock")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	if err := removeStaleSocket(path); err == nil {
		t.Fatal("expected an error for a regular file")
	}

	os.Remove(path)

	l, err := net.Listen("unix", path)
	if err != nil {
		t.Fatal(err)
	}
	// Leave the socket file behind.
	l.(*net.UnixListener).SetUnlinkOnClose(false)
	l.Close()

	if err := removeStaleSocket(path); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be removed, got %v", path, err)
	}
}
