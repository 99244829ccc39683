package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/garnizeh/reelwork/pkg/models"
)

const tokenKey = "sid"

type Options struct {
	// Secret signs both the cookie and bearer tokens.
	Secret     string
	CookieName string
	TTL        time.Duration
	// Secure marks the cookie HTTPS-only.
	Secure bool
}

// Manager issues, resolves and revokes sessions.
type Manager struct {
	store   Store
	cookies *sessions.CookieStore
	name    string
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
}

func NewManager(store Store, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "reelwork_session"
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}

	cookies := sessions.NewCookieStore([]byte(opts.Secret))
	cookies.MaxAge(int(opts.TTL.Seconds()))
	cookies.Options.Path = "/"
	cookies.Options.HttpOnly = true
	cookies.Options.Secure = opts.Secure
	cookies.Options.SameSite = http.SameSiteLaxMode

	return &Manager{
		store:   store,
		cookies: cookies,
		name:    opts.CookieName,
		secret:  []byte(opts.Secret),
		ttl:     opts.TTL,
		now:     time.Now,
	}
}

// Create starts a new session for the user.
func (m *Manager) Create(ctx context.Context, userID int64, role models.Role) (*Session, error) {
	s := Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		Role:      role,
		ExpiresAt: m.now().Add(m.ttl).UTC(),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Resolve returns the live session for token, or nil. Expired sessions are deleted
// on sight.
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}
	s, err := m.store.Get(ctx, token)
	if err != nil || s == nil {
		return nil, err
	}
	if s.Expired(m.now()) {
		if err := m.store.Delete(ctx, token); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return s, nil
}

func (m *Manager) Destroy(ctx context.Context, token string) error {
	return m.store.Delete(ctx, token)
}

// Issue writes the signed session cookie.
func (m *Manager) Issue(w http.ResponseWriter, r *http.Request, s *Session) error {
	// New still returns a usable session when an old cookie fails to decode.
	cs, _ := m.cookies.New(r, m.name)
	cs.Values[tokenKey] = s.Token
	if err := m.cookies.Save(r, w, cs); err != nil {
		return fmt.Errorf("write session cookie: %w", err)
	}
	return nil
}

// Clear expires the session cookie on the client.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) error {
	cs, _ := m.cookies.New(r, m.name)
	opts := *m.cookies.Options
	opts.MaxAge = -1
	cs.Options = &opts
	if err := m.cookies.Save(r, w, cs); err != nil {
		return fmt.Errorf("clear session cookie: %w", err)
	}
	return nil
}

// SignBearer returns an HS256 JWT naming the session, for clients that cannot keep
// cookies.
func (m *Manager) SignBearer(s *Session) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(s.UserID, 10),
		ID:        s.Token,
		IssuedAt:  jwt.NewNumericDate(m.now()),
		ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign bearer: %w", err)
	}
	return signed, nil
}

var errNoSession = errors.New("no session token")

// parseBearer validates a bearer JWT and returns the session token and user id it
// names.
func (m *Manager) parseBearer(raw string) (string, int64, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return "", 0, err
	}
	uid, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || claims.ID == "" {
		return "", 0, errNoSession
	}
	return claims.ID, uid, nil
}

// FromRequest resolves the session carried by r, preferring a bearer token over the
// cookie. It returns nil when the request is anonymous or its credential is stale.
func (m *Manager) FromRequest(r *http.Request) (*Session, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		raw, ok := strings.CutPrefix(h, "Bearer ")
		if !ok {
			return nil, nil
		}
		token, uid, err := m.parseBearer(strings.TrimSpace(raw))
		if err != nil {
			return nil, nil
		}
		s, err := m.Resolve(r.Context(), token)
		if err != nil || s == nil || s.UserID != uid {
			return nil, err
		}
		return s, nil
	}

	return m.Resolve(r.Context(), m.cookieToken(r))
}

// Token returns the raw session token carried by r, without checking the store.
func (m *Manager) Token(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		raw, ok := strings.CutPrefix(h, "Bearer ")
		if !ok {
			return ""
		}
		token, _, err := m.parseBearer(strings.TrimSpace(raw))
		if err != nil {
			return ""
		}
		return token
	}
	return m.cookieToken(r)
}

func (m *Manager) cookieToken(r *http.Request) string {
	if _, err := r.Cookie(m.name); err != nil {
		return ""
	}
	cs, err := m.cookies.New(r, m.name)
	if err != nil {
		return ""
	}
	token, _ := cs.Values[tokenKey].(string)
	return token
}
