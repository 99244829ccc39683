package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/garnizeh/reelwork/api"
	"github.com/garnizeh/reelwork/internal/config"
	"github.com/garnizeh/reelwork/internal/metrics"
	"github.com/garnizeh/reelwork/internal/repository/memory"
	"github.com/garnizeh/reelwork/internal/session"
	"github.com/garnizeh/reelwork/pkg/models"
	"github.com/garnizeh/reelwork/pkg/repository/mock"
)

const testPassword = "secret123"

type fixture struct {
	t        *testing.T
	srv      *httptest.Server
	store    *mock.Store
	sessions *session.MemoryStore
	metrics  *metrics.Metrics
}

func newFixture(t *testing.T, env string) *fixture {
	t.Helper()
	api.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	store := mock.New(memory.New())
	sessions := session.NewMemoryStore()
	mgr := session.NewManager(sessions, session.Options{
		Secret: "0123456789abcdef0123456789abcdef",
		TTL:    time.Hour,
	})
	m := metrics.New("reelwork", prometheus.NewRegistry())
	cfg := &config.Config{Env: env}

	srv := httptest.NewServer(api.SetupRoutes(cfg, "v-test", "2026-01-01T00:00:00Z", store, mgr, m))
	t.Cleanup(srv.Close)

	return &fixture{t: t, srv: srv, store: store, sessions: sessions, metrics: m}
}

// browser returns a client with its own cookie jar.
func (f *fixture) browser() *http.Client {
	jar, err := cookiejar.New(nil)
	if err != nil {
		f.t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (r response) message() string {
	var b struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(r.body, &b)
	return b.Message
}

func (f *fixture) do(c *http.Client, method, path string, body any, headers ...string) response {
	f.t.Helper()

	var rd io.Reader
	switch v := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			f.t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, f.srv.URL+path, rd)
	if err != nil {
		f.t.Fatalf("new request: %v", err)
	}
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	res, err := c.Do(req)
	if err != nil {
		f.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		f.t.Fatalf("read body: %v", err)
	}
	return response{status: res.StatusCode, header: res.Header, body: b}
}

func decodeAs[T any](t *testing.T, r response) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(r.body, &v); err != nil {
		t.Fatalf("decode %s: %v", r.body, err)
	}
	return v
}

func expectStatus(t *testing.T, r response, want int) {
	t.Helper()
	if r.status != want {
		t.Fatalf("expected status %d, got %d: %s", want, r.status, r.body)
	}
}

func (f *fixture) register(c *http.Client, username string, role models.Role) models.User {
	f.t.Helper()
	r := f.do(c, http.MethodPost, "/api/auth/register", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": testPassword,
		"fullName": "User " + username,
		"role":     role,
	})
	expectStatus(f.t, r, http.StatusCreated)
	return decodeAs[models.User](f.t, r)
}

func (f *fixture) login(c *http.Client, username string) response {
	f.t.Helper()
	r := f.do(c, http.MethodPost, "/api/auth/login", map[string]string{"username": username, "password": testPassword})
	expectStatus(f.t, r, http.StatusOK)
	return r
}

// signedIn registers username and returns a client holding its session cookie.
func (f *fixture) signedIn(username string, role models.Role) (*http.Client, models.User) {
	f.t.Helper()
	c := f.browser()
	u := f.register(c, username, role)
	f.login(c, username)
	return c, u
}

func jobBody(creatorID int64) map[string]any {
	return map[string]any{
		"title":          "Edit my travel vlog",
		"description":    "Cut a 12 minute vlog from four hours of footage.",
		"jobType":        "Remote",
		"employmentType": "Per Project",
		"minPrice":       50,
		"maxPrice":       200,
		"priceType":      "per video",
		"skills":         []string{"Premiere Pro"},
		"creatorId":      creatorID,
	}
}

func (f *fixture) createJob(c *http.Client, creatorID int64) models.Job {
	f.t.Helper()
	r := f.do(c, http.MethodPost, "/api/jobs", jobBody(creatorID))
	expectStatus(f.t, r, http.StatusCreated)
	return decodeAs[models.Job](f.t, r)
}

func (f *fixture) apply(c *http.Client, jobID, editorID int64) models.Application {
	f.t.Helper()
	r := f.do(c, http.MethodPost, "/api/applications", map[string]any{
		"jobId":       jobID,
		"editorId":    editorID,
		"coverLetter": "I have cut forty travel vlogs this year.",
		"price":       120,
	})
	expectStatus(f.t, r, http.StatusCreated)
	return decodeAs[models.Application](f.t, r)
}
