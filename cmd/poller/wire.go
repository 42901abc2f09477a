package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/commit-poller/internal/config"
	"github.com/commit-poller/internal/github"
	"github.com/commit-poller/internal/notify"
	"github.com/commit-poller/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
)

type components struct {
	fetcher  github.Fetcher
	store    store.Store
	notifier notify.Notifier
	fixedKey string
	closers  []func()
}

func (c *components) close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func wire(ctx context.Context, cfg *config.Config) (*components, error) {
	c := &components{}
	timeout := time.Duration(cfg.HTTPTimeoutSec) * time.Second
	mode := github.ModeBranches
	if cfg.Mode == config.ModeCommit {
		mode = github.ModeCommit
		c.fixedKey = store.DefaultKey
	}

	switch cfg.ClientKind {
	case config.ClientSDK:
		owner, repo, _ := cfg.OwnerRepo()
		sdk, err := github.NewSDKClient(owner, repo, cfg.Token, cfg.APIRoot, timeout)
		if err != nil {
			return nil, err
		}
		sdk.Mode = mode
		sdk.Branch = cfg.Branch
		c.fetcher = sdk
	default:
		client := github.NewClient(cfg.RepoBaseURL(), cfg.Token, timeout)
		client.Mode = mode
		client.Branch = cfg.Branch
		c.fetcher = client
	}

	switch cfg.StateBackend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		c.closers = append(c.closers, pool.Close)
		pg := store.NewPostgres(pool)
		if err := pg.Ping(ctx); err != nil {
			c.close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			c.close()
			return nil, err
		}
		slog.Debug("database connected")
		c.store = pg
	default:
		dir := cfg.StateDir
		if cfg.Mode == config.ModeCommit && cfg.StateFile != "" {
			dir = filepath.Dir(cfg.StateFile)
		}
		fs, err := store.NewFile(dir)
		if err != nil {
			return nil, err
		}
		if cfg.Mode == config.ModeCommit && cfg.StateFile != "" {
			if err := fs.Pin(store.DefaultKey, cfg.StateFile); err != nil {
				return nil, err
			}
		}
		c.store = fs
	}

	switch cfg.NotifierKind {
	case config.NotifierKafka:
		k := notify.NewKafka(notify.KafkaConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaTopic,
			WriteTimeout: timeout,
		})
		c.closers = append(c.closers, func() {
			if err := k.Close(); err != nil {
				slog.Warn("close kafka writer", "err", err)
			}
		})
		c.notifier = k
	default:
		wh, err := notify.NewWebhook(cfg.WebhookURL, cfg.WebhookSecret, timeout)
		if err != nil {
			c.close()
			return nil, err
		}
		c.notifier = wh
	}
	return c, nil
}
