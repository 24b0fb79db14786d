package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/davidbalbert/lldpd/agent"
	"github.com/davidbalbert/lldpd/api"
	"github.com/davidbalbert/lldpd/config"
	"github.com/davidbalbert/lldpd/lldpd/services"
	"github.com/davidbalbert/lldpd/net/netmon"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

var (
	version    = "0.0.1"
	configPath string
	socketPath string
	logLevel   string
)

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	conf := zap.NewProductionConfig()
	conf.Level = zap.NewAtomicLevelAt(lvl)

	return conf.Build()
}

func main() {
	flag.StringVar(&configPath, "config", "/etc/lldpd/lldpd.yaml", "path to lldpd.yaml")
	flag.StringVar(&socketPath, "socket", "/var/run/lldpd.sock", "path to lldpd socket")
	flag.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")

	flag.Parse()

	logger, err := newLogger(logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting lldpd", zap.String("version", version), zap.Int("uid", os.Getuid()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	services.MustRegisterServiceType(config.ServiceTypeAPIServer, func(serviceManager *services.ServiceManager, conf any) (services.Runner, error) {
		return api.NewServer(serviceManager, socketPath, cancel, version), nil
	})
	services.MustRegisterServiceType(config.ServiceTypeInterfaceMonitor, netmon.New)
	services.MustRegisterServiceType(config.ServiceTypeLLDP, func(serviceManager *services.ServiceManager, conf any) (services.Runner, error) {
		return agent.NewInstance(serviceManager, conf, version)
	})

	configManager, err := config.NewConfigManager(configPath, logger.Named("config"))
	if err != nil {
		logger.Fatal("failed to load config", zap.String("path", configPath), zap.Error(err))
	}

	serviceManager := services.NewServiceManager(configManager, logger)

	g.Go(func() error {
		return configManager.Run(ctx)
	})

	g.Go(func() error {
		return serviceManager.Run(ctx)
	})

	err = g.Wait()
	if err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}

	logger.Info("stopped")
}
