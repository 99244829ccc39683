package api

import (
	"errors"
	"net/http"

	"github.com/garnizeh/reelwork/internal/apperr"
	"github.com/garnizeh/reelwork/internal/metrics"
	"github.com/garnizeh/reelwork/internal/schema"
	"github.com/garnizeh/reelwork/pkg/models"
	"github.com/garnizeh/reelwork/pkg/repository"
)

type ApplicationsHandler struct {
	applications repository.ApplicationRepo
	jobs         repository.JobRepo
	users        repository.UserRepo
	metrics      *metrics.Metrics
}

func NewApplicationsHandler(apps repository.ApplicationRepo, jobs repository.JobRepo, users repository.UserRepo, m *metrics.Metrics) *ApplicationsHandler {
	return &ApplicationsHandler{applications: apps, jobs: jobs, users: users, metrics: m}
}

var errApplicationNotFound = apperr.NotFound("Application not found")

func (h *ApplicationsHandler) GetApplication(w http.ResponseWriter, r *http.Request) {
	app, err := h.loadApplication(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, app, http.StatusOK)
}

func (h *ApplicationsHandler) ListByEditor(w http.ResponseWriter, r *http.Request) {
	editorID, ok := pathID(r, "editorId")
	if !ok {
		writeJSON(w, []models.Application{}, http.StatusOK)
		return
	}
	apps, err := h.applications.ListApplicationsByEditor(r.Context(), editorID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, apps, http.StatusOK)
}

// CreateApplication files an application against an open job. New applications are
// always pending regardless of what the client sent.
func (h *ApplicationsHandler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx := r.Context()
	in, err := schema.ParseApplication(ctx, raw)
	if err != nil {
		writeError(w, r, err)
		return
	}

	job, err := h.jobs.GetJob(ctx, in.JobID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if job == nil {
		writeError(w, r, errJobNotFound)
		return
	}
	if !job.IsActive {
		writeError(w, r, apperr.Validation("Job is not accepting applications"))
		return
	}
	editor, err := h.users.GetUser(ctx, in.EditorID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if editor == nil {
		writeError(w, r, apperr.NotFound("Editor not found"))
		return
	}

	in.Status = models.StatusPending
	app, err := h.applications.CreateApplication(ctx, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.metrics.RecordCreated("application")
	writeJSON(w, app, http.StatusCreated)
}

// UpdateApplication records the job creator's decision. Only pending applications
// can be decided, and the check-and-set happens in storage.
func (h *ApplicationsHandler) UpdateApplication(w http.ResponseWriter, r *http.Request) {
	s, err := requireSession(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	app, err := h.loadApplication(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx := r.Context()
	job, err := h.jobs.GetJob(ctx, app.JobID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if job == nil {
		writeError(w, r, errJobNotFound)
		return
	}
	if !canActFor(s, job.CreatorID) {
		writeError(w, r, apperr.Forbidden("Only the job's creator can decide on applications"))
		return
	}

	raw, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	patch, err := schema.ParseApplicationPatch(ctx, raw)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if app.Status.IsTerminal() {
		writeError(w, r, apperr.Conflict("Application has already been "+string(app.Status), repository.ErrConflict))
		return
	}

	updated, err := h.applications.TransitionApplication(ctx, app.ID, models.StatusPending, *patch.Status)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			writeError(w, r, conflictError(err))
			return
		}
		writeError(w, r, err)
		return
	}
	if updated == nil {
		writeError(w, r, errApplicationNotFound)
		return
	}
	writeJSON(w, updated, http.StatusOK)
}

func (h *ApplicationsHandler) loadApplication(r *http.Request) (*models.Application, error) {
	id, ok := pathID(r, "id")
	if !ok {
		return nil, errApplicationNotFound
	}
	app, err := h.applications.GetApplication(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, errApplicationNotFound
	}
	return app, nil
}
