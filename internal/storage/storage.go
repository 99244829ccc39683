// Package storage opens the configured repository backend and its session store.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	dbfs "github.com/garnizeh/reelwork/db"
	"github.com/garnizeh/reelwork/internal/config"
	"github.com/garnizeh/reelwork/internal/db"
	"github.com/garnizeh/reelwork/internal/repository/memory"
	"github.com/garnizeh/reelwork/internal/repository/sqlrepo"
	"github.com/garnizeh/reelwork/internal/session"
	"github.com/garnizeh/reelwork/pkg/repository"
)

// Backend bundles an open store with the resources backing it.
type Backend struct {
	Store    repository.Store
	Sessions session.Store
	// DB is nil for the memory backend.
	DB *db.DB
}

func (b *Backend) Close() error {
	if b.DB == nil {
		return nil
	}
	return b.DB.Close()
}

// Open connects to the backend named in cfg, running migrations first when the SQL
// backend is configured to do so.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	b := &Backend{}

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		b.Store = memory.New()
	case config.BackendSQL:
		conn, err := db.New(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		if cfg.Storage.MigrateOnStart {
			if err := db.Migrate(ctx, conn, dbfs.Migrations); err != nil {
				conn.Close()
				return nil, err
			}
		}
		b.DB = conn
		b.Store = sqlrepo.New(conn, logger)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}

	if cfg.Session.Store == config.BackendSQL && b.DB != nil {
		b.Sessions = session.NewSQLStore(b.DB)
	} else {
		b.Sessions = session.NewMemoryStore()
	}

	logger.Info("storage opened", "backend", cfg.Storage.Backend, "driver", cfg.Storage.Driver, "sessions", cfg.Session.Store)
	return b, nil
}
