package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"news_sync/internal/api"
	"news_sync/internal/cache"
	"news_sync/internal/config"
	"news_sync/internal/logging"
	"news_sync/internal/prefs"
	"news_sync/internal/realtime"
	"news_sync/internal/service"
	"news_sync/internal/storage/kv"
)

// app holds the wired client for the lifetime of one command.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	db      *sqlx.DB
	kv      *kv.Store
	store   *cache.Store
	channel *realtime.Manager
	service *service.Service
	logs    io.Closer
}

func newApp(ctx context.Context, configPath string, explicit bool) (*app, error) {
	cfg, err := loadConfig(configPath, explicit)
	if err != nil {
		return nil, err
	}

	logger, logs, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	db, err := kv.Open(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		logs.Close()
		return nil, fmt.Errorf("open local state: %w", err)
	}
	kvStore := kv.New(db)
	if err := kvStore.Migrate(ctx); err != nil {
		db.Close()
		logs.Close()
		return nil, fmt.Errorf("migrate local state: %w", err)
	}
	logger.Debug("local state ready", "driver", cfg.Storage.Driver)

	client := api.New(api.Config{
		BaseURL:        cfg.API.BaseURL,
		Timeout:        cfg.API.Timeout,
		MaxAttempts:    cfg.API.Retry.MaxAttempts,
		InitialBackoff: cfg.API.Retry.InitialBackoff,
		MaxBackoff:     cfg.API.Retry.MaxBackoff,
	}, logger)

	channel := realtime.NewManager(newDialer(cfg.Realtime, logger), logger)
	store := cache.New(cache.Options{StaleTime: cfg.Cache.StaleTime}, logger)

	svc := service.New(
		client,
		channel,
		prefs.New(kvStore, logger),
		store,
		logger,
		cfg.Feed,
		cfg.Cache,
	)

	return &app{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		kv:      kvStore,
		store:   store,
		channel: channel,
		service: svc,
		logs:    logs,
	}, nil
}

// loadConfig falls back to defaults when the default config file is
// absent. A path given on the command line must exist.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return nil, fmt.Errorf("load config: %w", err)
}

func newDialer(cfg config.RealtimeConfig, logger *slog.Logger) realtime.Dialer {
	backoff := realtime.Backoff{
		Initial: cfg.Reconnect.InitialBackoff,
		Max:     cfg.Reconnect.MaxBackoff,
	}
	switch cfg.Transport {
	case "amqp":
		return realtime.NewAMQPDialer(realtime.AMQPConfig{
			URL:        cfg.URL,
			Exchange:   cfg.Exchange,
			BindingKey: cfg.BindingKey,
			Backoff:    backoff,
		}, logger)
	default:
		return realtime.NewWebSocketDialer(realtime.WebSocketConfig{
			URL:          cfg.URL,
			ReadTimeout:  cfg.ReadTimeout,
			PingInterval: cfg.PingInterval,
			Backoff:      backoff,
		}, logger)
	}
}

func (a *app) Close() {
	a.channel.Disconnect()
	a.store.Close()
	if err := a.db.Close(); err != nil {
		a.logger.Warn("close local state", "error", err)
	}
	a.logs.Close()
}
