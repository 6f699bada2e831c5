package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Mukungiisaac/Sakeja/internal/auth"
	"github.com/Mukungiisaac/Sakeja/internal/config"
	"github.com/Mukungiisaac/Sakeja/internal/events"
	"github.com/Mukungiisaac/Sakeja/internal/metrics"
	"github.com/Mukungiisaac/Sakeja/internal/photo"

	"github.com/uptrace/bun"
)

type closer func(ctx context.Context) error

func newSessionStore(ctx context.Context, cfg *config.Config, database *bun.DB, m *metrics.Metrics, logger *slog.Logger) (auth.SessionStore, closer, error) {
	switch cfg.Session.Store {
	case "", "postgres":
		return auth.NewPostgresStore(database, m), nil, nil
	case "redis":
		client, err := auth.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("redis session store connected", "host", cfg.Redis.Host, "port", cfg.Redis.Port)
		return auth.NewRedisStore(client), func(context.Context) error { return client.Close() }, nil
	case "memory":
		logger.Warn("using in-memory session store; sessions are lost on restart")
		return auth.NewMemoryStore(), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
}

func newPhotoStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (photo.Store, closer, error) {
	switch cfg.Driver {
	case "", "disk":
		store, err := photo.NewDiskStore(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("photo store ready", "driver", "disk", "dir", cfg.Dir)
		return store, nil, nil
	case "gridfs":
		store, err := photo.NewGridFSStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("photo store ready", "driver", "gridfs", "database", cfg.MongoDatabase)
		return store, store.Close, nil
	case "memory":
		logger.Warn("using in-memory photo store; uploads are lost on restart")
		return photo.NewMemoryStore(), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// newPublisher falls back to a no-op publisher when NATS is unset or unreachable.
func newPublisher(cfg config.NATSConfig, m *metrics.Metrics, logger *slog.Logger) events.Publisher {
	if cfg.URL == "" {
		logger.Info("NATS not configured, admin events disabled")
		return events.NewNop()
	}

	pub, err := events.NewNATSPublisher(cfg.URL, cfg.Subject, m.Messaging, logger)
	if err != nil {
		logger.Warn("failed to initialize NATS publisher", "error", err)
		return events.NewNop()
	}
	return pub
}
