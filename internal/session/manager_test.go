package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garnizeh/reelwork/internal/session"
	"github.com/garnizeh/reelwork/pkg/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newManager(store session.Store, ttl time.Duration) *session.Manager {
	return session.NewManager(store, session.Options{Secret: testSecret, CookieName: "rw", TTL: ttl})
}

func TestCookieRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := newManager(session.NewMemoryStore(), time.Hour)

	s, err := m.Create(ctx, 7, models.RoleEditor)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Issue(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil), s))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "rw", c.Name)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.NotContains(t, c.Value, s.Token, "cookie must be encoded, not the raw token")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(c)
	got, err := m.FromRequest(req)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, models.RoleEditor, got.Role)
	assert.Equal(t, s.Token, m.Token(req))
}

func TestTamperedCookieIsAnonymous(t *testing.T) {
	m := newManager(session.NewMemoryStore(), time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "rw", Value: "forged"})

	got, err := m.FromRequest(req)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBearerRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := newManager(session.NewMemoryStore(), time.Hour)

	s, err := m.Create(ctx, 3, models.RoleCreator)
	require.NoError(t, err)
	bearer, err := m.SignBearer(s)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+bearer)
	got, err := m.FromRequest(req)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(3), got.UserID)

	require.NoError(t, m.Destroy(ctx, s.Token))
	revoked, err := m.FromRequest(req)
	require.NoError(t, err)
	assert.Nil(t, revoked, "destroyed sessions must not resolve from a still-valid JWT")
}

func TestBearerSignedWithOtherSecret(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	m := newManager(store, time.Hour)
	other := session.NewManager(store, session.Options{Secret: "another-secret-another-secret!!", TTL: time.Hour})

	s, err := other.Create(ctx, 3, models.RoleCreator)
	require.NoError(t, err)
	bearer, err := other.SignBearer(s)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+bearer)
	got, err := m.FromRequest(req)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestExpiredSessionIsDeleted(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	m := newManager(store, time.Hour)

	require.NoError(t, store.Save(ctx, session.Session{Token: "expired", UserID: 1, ExpiresAt: time.Now().Add(-time.Minute)}))
	got, err := m.Resolve(ctx, "expired")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 0, store.Len())
}

func TestClearExpiresCookie(t *testing.T) {
	m := newManager(session.NewMemoryStore(), time.Hour)
	rec := httptest.NewRecorder()
	require.NoError(t, m.Clear(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].MaxAge < 0)
}
