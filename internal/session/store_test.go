package session_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbfs "github.com/garnizeh/reelwork/db"
	"github.com/garnizeh/reelwork/internal/db"
	"github.com/garnizeh/reelwork/internal/session"
	"github.com/garnizeh/reelwork/pkg/models"
)

func newSQLStore(t *testing.T) *session.SQLStore {
	t.Helper()
	ctx := context.Background()
	d, err := db.New(ctx, db.DialectSQLite, filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	require.NoError(t, db.Migrate(ctx, d, dbfs.Migrations))
	return session.NewSQLStore(d)
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) session.Store{
		"memory": func(t *testing.T) session.Store { return session.NewMemoryStore() },
		"sql":    func(t *testing.T) session.Store { return newSQLStore(t) },
	}
	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)
			now := time.Now().UTC().Truncate(time.Millisecond)

			live := session.Session{Token: "live", UserID: 1, Role: models.RoleCreator, ExpiresAt: now.Add(time.Hour)}
			stale := session.Session{Token: "stale", UserID: 2, Role: models.RoleEditor, ExpiresAt: now.Add(-time.Minute)}
			require.NoError(t, s.Save(ctx, live))
			require.NoError(t, s.Save(ctx, stale))

			got, err := s.Get(ctx, "live")
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, int64(1), got.UserID)
			assert.Equal(t, models.RoleCreator, got.Role)
			assert.True(t, live.ExpiresAt.Equal(got.ExpiresAt))

			missing, err := s.Get(ctx, "nope")
			require.NoError(t, err)
			assert.Nil(t, missing)

			n, err := s.DeleteExpired(ctx, now)
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)

			gone, err := s.Get(ctx, "stale")
			require.NoError(t, err)
			assert.Nil(t, gone)

			require.NoError(t, s.Delete(ctx, "live"))
			require.NoError(t, s.Delete(ctx, "live"), "deleting twice is not an error")
			gone, err = s.Get(ctx, "live")
			require.NoError(t, err)
			assert.Nil(t, gone)
		})
	}
}
