package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/auto-dns/github-host-sync/internal/config"
	"github.com/auto-dns/github-host-sync/internal/core"
	"github.com/auto-dns/github-host-sync/internal/fetch"
	"github.com/auto-dns/github-host-sync/internal/metrics"
	"github.com/auto-dns/github-host-sync/internal/store"
)

type App struct {
	versions store.VersionStore
	updater  *core.Updater
	logger   zerolog.Logger
}

// New creates a new App by wiring up all dependencies.
func New(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	return newApp(cfg, logger, afero.NewOsFs())
}

func newApp(cfg *config.Config, logger zerolog.Logger, fs afero.Fs) (*App, error) {
	versions, err := newVersionStore(cfg, logger, fs)
	if err != nil {
		return nil, err
	}

	var recorder core.Recorder
	if cfg.Metrics.TextfilePath != "" {
		recorder = metrics.NewTextfileRecorder(cfg.Metrics.TextfilePath, logger)
	}

	fetcher := fetch.NewHTTPFetcher(&cfg.Source, logger)
	output := store.NewFileOutputWriter(fs, cfg.Output.Path)
	updater := core.NewUpdater(logger, &cfg.App, fetcher, versions, output, recorder)

	return &App{
		versions: versions,
		updater:  updater,
		logger:   logger,
	}, nil
}

func newVersionStore(cfg *config.Config, logger zerolog.Logger, fs afero.Fs) (store.VersionStore, error) {
	switch cfg.Marker.Backend {
	case config.BackendEtcd:
		etcdClient, err := clientv3.New(clientv3.Config{
			Endpoints:   cfg.Marker.Etcd.Endpoints,
			DialTimeout: cfg.Marker.Etcd.DialTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to etcd: %w", err)
		}
		return store.NewEtcdVersionStore(etcdClient, cfg.Marker.Etcd.Key, logger), nil
	case config.BackendFile:
		return store.NewFileVersionStore(fs, cfg.Marker.Path, logger), nil
	default:
		return nil, fmt.Errorf("unknown marker backend %q", cfg.Marker.Backend)
	}
}

// Run performs one update attempt.
func (a *App) Run(ctx context.Context) (core.Result, error) {
	a.logger.Debug().Msg("Application starting")
	return a.updater.Run(ctx)
}

func (a *App) Close() error {
	if a.versions != nil {
		if err := a.versions.Close(); err != nil {
			return fmt.Errorf("close marker store: %w", err)
		}
	}
	return nil
}
