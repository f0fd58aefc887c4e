// Package app opens the shared resources both binaries run on: the store,
// object storage, the identity provider and the notification sinks.
package app

import (
	"alcyxob/fitness-admin/internal/config"
	"alcyxob/fitness-admin/internal/identity"
	"alcyxob/fitness-admin/internal/notify"
	"alcyxob/fitness-admin/internal/repository"
	"alcyxob/fitness-admin/internal/repository/memory"
	"alcyxob/fitness-admin/internal/repository/mongo"
	"alcyxob/fitness-admin/internal/storage"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const indexTimeout = time.Minute

type App struct {
	Config config.Config
	Log    *zap.Logger
	Repos  repository.Repositories
	// Files is nil when object storage is disabled.
	Files    storage.FileStorage
	Queue    *notify.Queue
	Notifier notify.Notifier

	closers []func() error
}

// Open connects to the configured store and object storage.
func Open(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log, Queue: notify.NewQueue()}
	a.Notifier = notify.Multi(a.Queue, notify.NewLogNotifier(log))

	switch cfg.Database.Driver {
	case "memory":
		log.Warn("using the in-memory store; nothing survives a restart")
		a.Repos = memory.NewStore().Repositories()
	default:
		client, err := mongo.ConnectDB(cfg.Database.URI)
		if err != nil {
			return nil, fmt.Errorf("connect to MongoDB: %w", err)
		}
		a.closers = append(a.closers, func() error { return mongo.DisconnectDB(client) })
		db := client.Database(cfg.Database.Name)
		log.Info("database connection established", zap.String("database", cfg.Database.Name))

		ictx, cancel := context.WithTimeout(ctx, indexTimeout)
		err = mongo.EnsureIndexes(ictx, db)
		cancel()
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		a.Repos = mongo.NewRepositories(db, cfg.Database.BatchSize)
	}

	if cfg.S3.Enabled {
		files, err := storage.NewS3Storage(ctx, cfg.S3, log)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("initialize S3 storage: %w", err)
		}
		a.Files = files
	}
	return a, nil
}

// Identity returns the provider that verifies sign-in credentials.
func (a *App) Identity() (identity.Provider, error) {
	switch a.Config.Auth.Provider {
	case "local":
		return identity.NewLocalProvider(a.Repos.Accounts), nil
	default:
		return identity.NewTokenProvider(a.Config.Auth.IdentitySecret, a.Config.Auth.Issuer, a.Config.Auth.Audience)
	}
}

// PresignExpiry is how long download links stay valid.
func (a *App) PresignExpiry() time.Duration {
	if a.Config.S3.PresignExpiry > 0 {
		return a.Config.S3.PresignExpiry
	}
	return storage.DefaultPresignedURLExpiry
}

// Close releases everything Open acquired, newest first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
