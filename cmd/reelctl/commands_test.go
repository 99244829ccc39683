package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garnizeh/reelwork/internal/config"
	"github.com/garnizeh/reelwork/internal/security"
	"github.com/garnizeh/reelwork/internal/storage"
	"github.com/garnizeh/reelwork/pkg/models"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env: config.EnvDevelopment,
		Storage: config.StorageConfig{
			Backend:        config.BackendSQL,
			Driver:         "sqlite",
			DSN:            filepath.Join(t.TempDir(), "reelctl.db"),
			MigrateOnStart: true,
		},
		Session: config.SessionConfig{Store: config.BackendMemory},
	}
}

func TestCreateAdmin(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t)

	u, err := createAdmin(ctx, cfg, models.InsertUser{
		Username: "root",
		Email:    "root@example.com",
		Password: "correct horse",
		FullName: "Root",
		Role:     models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)

	backend, err := storage.Open(ctx, cfg, newLogger())
	require.NoError(t, err)
	defer backend.Close()

	stored, err := backend.Store.GetUserByUsername(ctx, "root")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, security.CheckPassword(stored.Password, "correct horse"))

	_, err = createAdmin(ctx, cfg, models.InsertUser{Username: "root", Email: "x@example.com", Password: "correct horse", FullName: "Dup", Role: models.RoleAdmin})
	assert.Error(t, err)

	_, err = createAdmin(ctx, cfg, models.InsertUser{Username: "tiny", Email: "t@example.com", Password: "123", Role: models.RoleAdmin})
	assert.Error(t, err)
}

func TestCommandsRequireSQLBackend(t *testing.T) {
	t.Setenv("REELWORK_STORAGE_BACKEND", config.BackendMemory)
	t.Chdir(t.TempDir())

	cmd := migrateCommand()
	err := cmd.Run(context.Background(), []string{"migrate"})
	assert.True(t, errors.Is(err, errNeedsSQL), "got %v", err)
}
