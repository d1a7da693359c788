package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"cliprelay/internal/auth"
	"cliprelay/internal/config"
	"cliprelay/internal/history"
	"cliprelay/internal/logging"
	"cliprelay/internal/notify"
	"cliprelay/internal/pipeline"
	"cliprelay/internal/services/youtube"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) broker() (*notify.Broker, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return notify.NewBroker(cfg.Notifications, logger), nil
}

// driver assembles the full pipeline: authenticated API client, retry
// orchestrator, history store, and notification broker. The returned cleanup
// closes the history store.
func (c *commandContext) driver(ctx context.Context) (*pipeline.Driver, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}

	credentials, err := auth.LoadCredentials(cfg.YouTube.CredentialsPath)
	if err != nil {
		return nil, nil, err
	}
	source, err := auth.TokenSource(ctx, credentials, cfg.YouTube.TokenPath, logger)
	if err != nil {
		return nil, nil, err
	}
	client := youtube.NewClient(ctx, source)

	store, err := history.Open(cfg.Paths.StateDir)
	if err != nil {
		return nil, nil, err
	}

	driver, err := pipeline.New(cfg, pipeline.Deps{
		Uploader: pipeline.NewYouTubeUploader(client, cfg.YouTube),
		Store:    store,
		Logger:   logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return driver, func() { _ = store.Close() }, nil
}
