package api

import (
	"net/http"

	"github.com/garnizeh/reelwork/internal/apperr"
	"github.com/garnizeh/reelwork/internal/metrics"
	"github.com/garnizeh/reelwork/internal/schema"
	"github.com/garnizeh/reelwork/pkg/models"
	"github.com/garnizeh/reelwork/pkg/repository"
)

type ProfilesHandler struct {
	profiles repository.EditorProfileRepo
	users    repository.UserRepo
	metrics  *metrics.Metrics
}

func NewProfilesHandler(profiles repository.EditorProfileRepo, users repository.UserRepo, m *metrics.Metrics) *ProfilesHandler {
	return &ProfilesHandler{profiles: profiles, users: users, metrics: m}
}

var errProfileNotFound = apperr.NotFound("Editor profile not found")

func (h *ProfilesHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	available, err := queryBool(r.URL.Query(), "isAvailable")
	if err != nil {
		writeError(w, r, err)
		return
	}
	profiles, err := h.profiles.ListEditorProfiles(r.Context(), repository.EditorProfileFilter{IsAvailable: available})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, profiles, http.StatusOK)
}

func (h *ProfilesHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.loadProfile(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, p, http.StatusOK)
}

// CreateProfile requires an existing user without a profile. The unique index on
// userId still decides races between concurrent creates.
func (h *ProfilesHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx := r.Context()
	in, err := schema.ParseEditorProfile(ctx, raw)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.users.GetUser(ctx, in.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		writeError(w, r, errUserNotFound)
		return
	}
	existing, err := h.profiles.GetEditorProfileByUserID(ctx, in.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if existing != nil {
		writeError(w, r, apperr.Conflict("User already has an editor profile", repository.ErrConflict))
		return
	}

	p, err := h.profiles.CreateEditorProfile(ctx, in)
	if err != nil {
		writeError(w, r, conflictError(err))
		return
	}

	h.metrics.RecordCreated("editor_profile")
	writeJSON(w, p, http.StatusCreated)
}

func (h *ProfilesHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	s, err := requireSession(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	current, err := h.loadProfile(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !canActFor(s, current.UserID) {
		writeError(w, r, apperr.Forbidden("You can only update your own editor profile"))
		return
	}

	raw, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx := r.Context()
	patch, err := schema.ParseEditorProfilePatch(ctx, raw)
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.profiles.UpdateEditorProfile(ctx, current.ID, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if p == nil {
		writeError(w, r, errProfileNotFound)
		return
	}
	writeJSON(w, p, http.StatusOK)
}

func (h *ProfilesHandler) loadProfile(r *http.Request) (*models.EditorProfile, error) {
	id, ok := pathID(r, "id")
	if !ok {
		return nil, errProfileNotFound
	}
	p, err := h.profiles.GetEditorProfile(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errProfileNotFound
	}
	return p, nil
}
