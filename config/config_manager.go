package config

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/davidbalbert/lldpd/sync"
	"go.uber.org/zap"
)

type ConfigManager struct {
	*sync.Notifier[*Config]
	path   string
	logger *zap.Logger
}

func NewConfigManager(path string, logger *zap.Logger) (*ConfigManager, error) {
	conf, err := loadConfig(path)
	if err != nil {
		return nil, err
	}

	return &ConfigManager{
		Notifier: sync.NewNotifier(conf),
		path:     path,
		logger:   logger,
	}, nil
}

// Run reloads the config file whenever the process receives SIGHUP.
func (c *ConfigManager) Run(ctx context.Context) error {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-hup:
			if err := c.Reload(); err != nil {
				c.logger.Error("failed to reload config, keeping the running config", zap.String("path", c.path), zap.Error(err))
				continue
			}

			c.logger.Info("reloaded config", zap.String("path", c.path))
		}
	}
}

func (c *ConfigManager) Reload() error {
	conf, err := loadConfig(c.path)
	if err != nil {
		return err
	}

	c.NotifyChange(conf)

	return nil
}

func (c *ConfigManager) UpdateConfig(conf *Config) error {
	err := conf.validate()
	if err != nil {
		return err
	}

	c.NotifyChange(conf)

	return nil
}
