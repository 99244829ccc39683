package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/garnizeh/reelwork/internal/apperr"
	"github.com/garnizeh/reelwork/internal/metrics"
	"github.com/garnizeh/reelwork/internal/schema"
	"github.com/garnizeh/reelwork/internal/security"
	"github.com/garnizeh/reelwork/internal/session"
	"github.com/garnizeh/reelwork/pkg/models"
	"github.com/garnizeh/reelwork/pkg/repository"
)

type AuthHandler struct {
	users    repository.UserRepo
	sessions *session.Manager
	metrics  *metrics.Metrics
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(users repository.UserRepo, sessions *session.Manager, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, metrics: m}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

var errInvalidCredentials = apperr.Authentication("Invalid credentials")

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx := r.Context()
	in, err := schema.ParseUser(ctx, raw)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if in.Role == models.RoleAdmin {
		writeError(w, r, apperr.Validation("Invalid user data: role admin cannot be self-assigned"))
		return
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	in.Password = hash

	user, err := h.users.CreateUser(ctx, in)
	if err != nil {
		writeError(w, r, conflictError(err))
		return
	}

	h.metrics.RecordCreated("user")
	writeJSON(w, user, http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, r, apperr.Validation("Username and password are required"))
		return
	}

	ctx := r.Context()
	user, err := h.users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		security.BurnPasswordCheck(req.Password)
		h.metrics.RecordLogin(false)
		writeError(w, r, errInvalidCredentials)
		return
	}
	if !security.CheckPassword(user.Password, req.Password) {
		h.metrics.RecordLogin(false)
		writeError(w, r, errInvalidCredentials)
		return
	}

	// Rotate: never reuse a token that existed before authentication.
	if old := h.sessions.Token(r); old != "" {
		if err := h.sessions.Destroy(ctx, old); err != nil {
			logger.Warn("drop previous session", slog.Any("err", err))
		}
	}

	s, err := h.sessions.Create(ctx, user.ID, user.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.sessions.Issue(w, r, s); err != nil {
		writeError(w, r, err)
		return
	}
	bearer, err := h.sessions.SignBearer(s)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("X-Auth-Token", bearer)

	h.metrics.RecordLogin(true)
	writeJSON(w, user, http.StatusOK)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := h.sessions.Token(r); token != "" {
		if err := h.sessions.Destroy(r.Context(), token); err != nil {
			writeError(w, r, &apperr.Error{Kind: apperr.KindInternal, Message: "Failed to logout", Err: err})
			return
		}
	}
	if err := h.sessions.Clear(w, r); err != nil {
		writeError(w, r, &apperr.Error{Kind: apperr.KindInternal, Message: "Failed to logout", Err: err})
		return
	}
	writeJSON(w, messageBody{Message: "Logged out successfully"}, http.StatusOK)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	s, err := requireSession(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.users.GetUser(r.Context(), s.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		writeError(w, r, apperr.Authentication("Not authenticated"))
		return
	}
	writeJSON(w, user, http.StatusOK)
}

