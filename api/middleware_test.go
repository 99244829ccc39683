package api_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/garnizeh/reelwork/api"
	"github.com/garnizeh/reelwork/internal/config"
	"github.com/garnizeh/reelwork/pkg/models"
)

func TestLoggingMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("ok"))
	})

	handler := api.LoggingMiddleware(next)
	req := httptest.NewRequest(http.MethodGet, "/log", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)
	res := w.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusTeapot {
		t.Fatalf("expected status 418, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if string(b) != "ok" {
		t.Fatalf("unexpected body: %q", string(b))
	}
}

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := api.CORSMiddleware(next)

	// OPTIONS should return 204 and not call next
	reqOpt := httptest.NewRequest(http.MethodOptions, "/cors", nil)
	wOpt := httptest.NewRecorder()
	handler.ServeHTTP(wOpt, reqOpt)
	resOpt := wOpt.Result()
	defer resOpt.Body.Close()
	if resOpt.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 for OPTIONS, got %d", resOpt.StatusCode)
	}
	if got := resOpt.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected CORS header set, got %q", got)
	}

	// GET should pass through and set headers
	reqGet := httptest.NewRequest(http.MethodGet, "/cors", nil)
	wGet := httptest.NewRecorder()
	handler.ServeHTTP(wGet, reqGet)
	resGet := wGet.Result()
	defer resGet.Body.Close()
	if resGet.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for GET, got %d", resGet.StatusCode)
	}
	if got := resGet.Header.Get("Access-Control-Allow-Methods"); !strings.Contains(got, "PATCH") {
		t.Fatalf("expected Allow-Methods to include PATCH, got %q", got)
	}
	if got := resGet.Header.Get("Access-Control-Expose-Headers"); !strings.Contains(got, "X-Auth-Token") {
		t.Fatalf("expected X-Auth-Token to be exposed, got %q", got)
	}
}

func TestPreflightThroughRouter(t *testing.T) {
	f := newFixture(t, config.EnvDevelopment)
	r := f.do(f.browser(), http.MethodOptions, "/api/jobs/1", nil)
	expectStatus(t, r, http.StatusNoContent)
}

func TestRecoveryMiddleware(t *testing.T) {
	// handler that panics
	pan := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	handler := api.RecoveryMiddleware(pan)
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	res := w.Result()
	defer res.Body.Close()
	if res.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 from panic recovery, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), `"message":"An error occurred"`) || strings.Contains(string(b), "boom") {
		t.Fatalf("unexpected body for recovery: %s", string(b))
	}

	// normal handler should pass through
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	handler2 := api.RecoveryMiddleware(ok)
	w2 := httptest.NewRecorder()
	handler2.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if w2.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for normal path, got %d", w2.Result().StatusCode)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := api.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = api.RequestIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || w.Header().Get("X-Request-ID") != seen {
		t.Fatalf("expected generated id to be echoed, ctx=%q header=%q", seen, w.Header().Get("X-Request-ID"))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if seen != "abc-123" || w.Header().Get("X-Request-ID") != "abc-123" {
		t.Fatalf("expected client id to be kept, got %q", seen)
	}
}

func TestSessionMiddlewareIgnoresForgedBearer(t *testing.T) {
	f := newFixture(t, config.EnvDevelopment)
	c := f.browser()
	u := f.register(c, "mallory", models.RoleCreator)

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(u.ID, 10),
		ID:        "made-up-session",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("another-secret-another-secret-xx"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	r := f.do(&http.Client{}, http.MethodGet, "/api/auth/me", nil, "Authorization", "Bearer "+forged)
	expectStatus(t, r, http.StatusUnauthorized)
}

func TestErrorDetailByEnvironment(t *testing.T) {
	cause := errors.New("disk on fire")

	tests := []struct {
		env        string
		wantDetail bool
	}{
		{env: config.EnvDevelopment, wantDetail: true},
		{env: config.EnvProduction, wantDetail: false},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			f := newFixture(t, tt.env)
			f.store.FailOn("ListJobs", cause)

			r := f.do(f.browser(), http.MethodGet, "/api/jobs", nil)
			expectStatus(t, r, http.StatusInternalServerError)
			if r.message() != "An error occurred" {
				t.Fatalf("unexpected message %q", r.message())
			}
			if got := strings.Contains(string(r.body), "disk on fire"); got != tt.wantDetail {
				t.Fatalf("detail shown=%v, want %v: %s", got, tt.wantDetail, r.body)
			}
		})
	}
}

func TestValidationDetailInDevelopment(t *testing.T) {
	f := newFixture(t, config.EnvDevelopment)
	r := f.do(f.browser(), http.MethodPost, "/api/jobs", map[string]any{"title": "x"})
	expectStatus(t, r, http.StatusBadRequest)

	body := decodeAs[map[string]string](t, r)
	if !strings.HasPrefix(body["message"], "Invalid job data") || body["error"] == "" {
		t.Fatalf("expected message and detail, got %v", body)
	}
}

func TestUnknownRoutes(t *testing.T) {
	f := newFixture(t, config.EnvDevelopment)
	c := f.browser()

	nf := f.do(c, http.MethodGet, "/api/nothing-here", nil)
	expectStatus(t, nf, http.StatusNotFound)
	if ct := nf.header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("expected json content-type, got %q", ct)
	}

	expectStatus(t, f.do(c, http.MethodDelete, "/api/jobs", nil), http.StatusMethodNotAllowed)

	// nested auth routes report mismatches the same way
	na := f.do(c, http.MethodGet, "/api/auth/login", nil)
	expectStatus(t, na, http.StatusMethodNotAllowed)
	if ct := na.header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("expected json content-type, got %q", ct)
	}
	expectStatus(t, f.do(c, http.MethodGet, "/api/auth/nothing-here", nil), http.StatusNotFound)
	expectStatus(t, f.do(c, http.MethodOptions, "/api/auth/login", nil), http.StatusNoContent)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, config.EnvDevelopment)
	c := f.browser()
	creator := f.register(c, "studio", models.RoleCreator)
	job := f.createJob(c, creator.ID)
	f.login(c, "studio")
	f.do(c, http.MethodGet, "/api/jobs/"+strconv.FormatInt(job.ID, 10), nil)

	r := f.do(c, http.MethodGet, "/metrics", nil)
	expectStatus(t, r, http.StatusOK)
	body := string(r.body)

	for _, want := range []string{
		`reelwork_http_requests_total{method="GET",route="/api/jobs/{id:[0-9]+}",status="200"} 1`,
		`reelwork_entities_created_total{entity="job"} 1`,
		`reelwork_entities_created_total{entity="user"} 1`,
		`reelwork_logins_total{result="success"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
