package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/davidbalbert/lldpd/config"
	"go.uber.org/zap"
)

type idleService struct{}

func (idleService) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// lookupService waits for release, even after it has been told to stop, and
// then looks up the interface monitor.
type lookupService struct {
	m       *ServiceManager
	release chan struct{}
	results chan error
}

func (s *lookupService) Run(ctx context.Context) error {
	<-s.release

	_, err := s.m.Get(config.ServiceInterfaceMonitor)
	s.results <- err

	<-ctx.Done()
	return nil
}

type failingService struct{}

func (failingService) Run(ctx context.Context) error {
	return errors.New("boom")
}

func withBuilders(t *testing.T, b map[config.ServiceType]BuilderFunc) {
	t.Helper()

	old := builders
	builders = b
	t.Cleanup(func() {
		builders = old
	})
}

func testConfigManager(t *testing.T) *config.ConfigManager {
	t.Helper()

	path := filepath.Join(t.TempDir(), "lldpd.yaml")
	if err := os.WriteFile(path, []byte("lldp:\n  interval: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cm, err := config.NewConfigManager(path, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	return cm
}

func idleBuilder(m *ServiceManager, conf any) (Runner, error) {
	return idleService{}, nil
}

func TestReloadWhileServiceCallsGet(t *testing.T) {
	release := make(chan struct{})
	results := make(chan error, 4)
	built := make(chan struct{}, 4)

	withBuilders(t, map[config.ServiceType]BuilderFunc{
		config.ServiceTypeAPIServer:        idleBuilder,
		config.ServiceTypeInterfaceMonitor: idleBuilder,
		config.ServiceTypeLLDP: func(m *ServiceManager, conf any) (Runner, error) {
			built <- struct{}{}
			return &lookupService{m: m, release: release, results: results}, nil
		},
	})

	cm := testConfigManager(t)
	m := NewServiceManager(cm, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.Run(ctx)
	}()

	select {
	case <-built:
	case <-time.After(2 * time.Second):
		t.Fatal("LLDP service was never built")
	}

	if err := cm.Reload(); err != nil {
		t.Fatal(err)
	}

	// Let the manager start stopping the first LLDP service before it calls Get.
	time.Sleep(50 * time.Millisecond)
	close(release)

	select {
	case <-results:
	case <-time.After(2 * time.Second):
		t.Fatal("Get blocked while services were restarting")
	}

	select {
	case err := <-results:
		if err != nil {
			t.Fatalf("expected restarted service to find the interface monitor, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("LLDP service was not restarted")
	}

	want := []config.ServiceID{config.ServiceAPIServer, config.ServiceInterfaceMonitor, config.ServiceLLDP}
	if got := m.RunningServices(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestServiceError(t *testing.T) {
	withBuilders(t, map[config.ServiceType]BuilderFunc{
		config.ServiceTypeAPIServer:        idleBuilder,
		config.ServiceTypeInterfaceMonitor: idleBuilder,
		config.ServiceTypeLLDP: func(m *ServiceManager, conf any) (Runner, error) {
			return failingService{}, nil
		},
	})

	m := NewServiceManager(testConfigManager(t), zap.NewNop())

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.Run(context.Background())
	}()

	select {
	case err := <-errCh:
		if err == nil || err.Error() != "LLDP: boom" {
			t.Fatalf("expected LLDP: boom, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after a service failed")
	}
}

func TestUnknownServiceType(t *testing.T) {
	withBuilders(t, map[config.ServiceType]BuilderFunc{
		config.ServiceTypeAPIServer: idleBuilder,
	})

	m := NewServiceManager(testConfigManager(t), zap.NewNop())

	err := m.Run(context.Background())
	if err == nil {
		t.Fatal("expected error for an unregistered service type")
	}

	if _, err := m.Get(config.ServiceLLDP); err == nil {
		t.Fatal("expected LLDP not to be running")
	}
}

func TestRegisterServiceTypeTwice(t *testing.T) {
	withBuilders(t, map[config.ServiceType]BuilderFunc{})

	if err := registerServiceType(config.ServiceTypeLLDP, idleBuilder); err != nil {
		t.Fatal(err)
	}

	if err := registerServiceType(config.ServiceTypeLLDP, idleBuilder); err == nil {
		t.Fatal("expected error registering a service type twice")
	}
}
