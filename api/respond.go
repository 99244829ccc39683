package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/garnizeh/reelwork/internal/apperr"
	"github.com/garnizeh/reelwork/internal/session"
	"github.com/garnizeh/reelwork/pkg/models"
	"github.com/garnizeh/reelwork/pkg/repository"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

func statusFor(k apperr.Kind) int {
	switch k {
	case apperr.KindValidation, apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindAuthentication:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err with the status of its kind. Anything that is not an
// *apperr.Error is treated as internal and logged.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = apperr.Internal(err)
	}

	if ae.Kind == apperr.KindInternal {
		logger.Error("request failed",
			slog.Any("err", err),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", RequestIDFromContext(r.Context())),
		)
	}

	body := errorBody{Message: ae.Message}
	if detail, _ := r.Context().Value(ctxErrorDetail).(bool); detail {
		switch {
		case len(ae.Details) > 0:
			body.Error = strings.Join(ae.Details, "; ")
		case ae.Err != nil:
			body.Error = ae.Err.Error()
		}
	}
	writeJSON(w, body, statusFor(ae.Kind))
}

// conflictError turns a storage conflict into the client-facing message.
func conflictError(err error) error {
	switch repository.ConflictField(err) {
	case repository.FieldUsername:
		return apperr.Conflict("Username already exists", err)
	case repository.FieldEmail:
		return apperr.Conflict("Email already exists", err)
	case repository.FieldUserID:
		return apperr.Conflict("User already has an editor profile", err)
	case repository.FieldStatus:
		return apperr.Conflict("Application has already been processed", err)
	}
	if errors.Is(err, repository.ErrConflict) {
		return apperr.Conflict("Conflicting record", err)
	}
	return err
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, apperr.Validation("Invalid request body")
	}
	return b, nil
}

// pathID reads a positive integer path variable. Values that do not parse are
// reported as absent so handlers answer 404.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func requireSession(r *http.Request) (*session.Session, error) {
	s := SessionFromContext(r.Context())
	if s == nil {
		return nil, apperr.Authentication("Not authenticated")
	}
	return s, nil
}

// canActFor reports whether the session may modify a record owned by ownerID.
func canActFor(s *session.Session, ownerID int64) bool {
	return s.UserID == ownerID || s.Role == models.RoleAdmin
}

func queryBool(q url.Values, key string) (*bool, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, apperr.Validation("Invalid " + key + " filter: expected true or false")
	}
	return &b, nil
}

func queryInt(q url.Values, key string) (*int64, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, apperr.Validation("Invalid " + key + " filter: expected an integer")
	}
	return &n, nil
}

func queryString(q url.Values, key string) *string {
	if !q.Has(key) {
		return nil
	}
	v := q.Get(key)
	return &v
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, messageBody{Message: "Not found"}, http.StatusNotFound)
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, messageBody{Message: "Method not allowed"}, http.StatusMethodNotAllowed)
}
