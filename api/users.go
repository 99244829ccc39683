package api

import (
	"net/http"

	"github.com/garnizeh/reelwork/internal/apperr"
	"github.com/garnizeh/reelwork/internal/schema"
	"github.com/garnizeh/reelwork/pkg/repository"
)

type UsersHandler struct {
	users    repository.UserRepo
	profiles repository.EditorProfileRepo
}

func NewUsersHandler(users repository.UserRepo, profiles repository.EditorProfileRepo) *UsersHandler {
	return &UsersHandler{users: users, profiles: profiles}
}

var errUserNotFound = apperr.NotFound("User not found")

func (h *UsersHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, errUserNotFound)
		return
	}
	user, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		writeError(w, r, errUserNotFound)
		return
	}
	writeJSON(w, user, http.StatusOK)
}

// UpdateUser lets a user edit their own contact details. Role and username are fixed.
func (h *UsersHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	s, err := requireSession(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, errUserNotFound)
		return
	}

	ctx := r.Context()
	current, err := h.users.GetUser(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if current == nil {
		writeError(w, r, errUserNotFound)
		return
	}
	if !canActFor(s, id) {
		writeError(w, r, apperr.Forbidden("You can only update your own account"))
		return
	}

	raw, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	patch, err := schema.ParseUserPatch(ctx, raw)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.users.UpdateUser(ctx, id, patch)
	if err != nil {
		writeError(w, r, conflictError(err))
		return
	}
	if user == nil {
		writeError(w, r, errUserNotFound)
		return
	}
	writeJSON(w, user, http.StatusOK)
}

func (h *UsersHandler) GetEditorProfile(w http.ResponseWriter, r *http.Request) {
	notFound := apperr.NotFound("Editor profile not found")
	userID, ok := pathID(r, "userId")
	if !ok {
		writeError(w, r, notFound)
		return
	}
	profile, err := h.profiles.GetEditorProfileByUserID(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if profile == nil {
		writeError(w, r, notFound)
		return
	}
	writeJSON(w, profile, http.StatusOK)
}
