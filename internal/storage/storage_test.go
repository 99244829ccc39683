package storage_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/garnizeh/reelwork/internal/config"
	"github.com/garnizeh/reelwork/internal/repository/memory"
	"github.com/garnizeh/reelwork/internal/repository/sqlrepo"
	"github.com/garnizeh/reelwork/internal/session"
	"github.com/garnizeh/reelwork/internal/storage"
	"github.com/garnizeh/reelwork/pkg/models"
)

func quiet() *slog.Logger { return slog.New(slog.NewJSONHandler(io.Discard, nil)) }

func TestOpenMemory(t *testing.T) {
	cfg := &config.Config{
		Storage: config.StorageConfig{Backend: config.BackendMemory},
		Session: config.SessionConfig{Store: config.BackendMemory, TTL: time.Hour},
	}
	b, err := storage.Open(context.Background(), cfg, quiet())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer b.Close()

	if _, ok := b.Store.(*memory.Store); !ok {
		t.Fatalf("expected memory store, got %T", b.Store)
	}
	if _, ok := b.Sessions.(*session.MemoryStore); !ok {
		t.Fatalf("expected memory session store, got %T", b.Sessions)
	}
}

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Storage: config.StorageConfig{
			Backend:        config.BackendSQL,
			Driver:         "sqlite",
			DSN:            filepath.Join(t.TempDir(), "reelwork.db"),
			MigrateOnStart: true,
		},
		Session: config.SessionConfig{Store: config.BackendSQL, TTL: time.Hour},
	}
	b, err := storage.Open(ctx, cfg, quiet())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer b.Close()

	if _, ok := b.Store.(*sqlrepo.Repo); !ok {
		t.Fatalf("expected sql repo, got %T", b.Store)
	}
	if _, ok := b.Sessions.(*session.SQLStore); !ok {
		t.Fatalf("expected sql session store, got %T", b.Sessions)
	}

	u, err := b.Store.CreateUser(ctx, models.InsertUser{Username: "alice", Email: "a@example.com", Password: "x", FullName: "Alice", Role: models.RoleCreator})
	if err != nil {
		t.Fatalf("CreateUser after migrate: %v", err)
	}
	if u.ID != 1 {
		t.Fatalf("id = %d, want 1", u.ID)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Backend: "redis"}}
	if _, err := storage.Open(context.Background(), cfg, quiet()); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
