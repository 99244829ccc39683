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

type JobsHandler struct {
	jobs         repository.JobRepo
	users        repository.UserRepo
	applications repository.ApplicationRepo
	metrics      *metrics.Metrics
}

func NewJobsHandler(jobs repository.JobRepo, users repository.UserRepo, apps repository.ApplicationRepo, m *metrics.Metrics) *JobsHandler {
	return &JobsHandler{jobs: jobs, users: users, applications: apps, metrics: m}
}

var errJobNotFound = apperr.NotFound("Job not found")

// ListJobs supports equality filters on creatorId, isActive, jobType,
// employmentType and priceType.
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var f repository.JobFilter
	var err error
	if f.CreatorID, err = queryInt(q, "creatorId"); err != nil {
		writeError(w, r, err)
		return
	}
	if f.IsActive, err = queryBool(q, "isActive"); err != nil {
		writeError(w, r, err)
		return
	}
	f.JobType = queryString(q, "jobType")
	f.EmploymentType = queryString(q, "employmentType")
	f.PriceType = queryString(q, "priceType")

	jobs, err := h.jobs.ListJobs(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, jobs, http.StatusOK)
}

func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.loadJob(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, job, http.StatusOK)
}

func (h *JobsHandler) ListByCreator(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := pathID(r, "creatorId")
	if !ok {
		writeJSON(w, []models.Job{}, http.StatusOK)
		return
	}
	jobs, err := h.jobs.ListJobsByCreator(r.Context(), creatorID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, jobs, http.StatusOK)
}

func (h *JobsHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx := r.Context()
	in, err := schema.ParseJob(ctx, raw)
	if err != nil {
		writeError(w, r, err)
		return
	}

	creator, err := h.users.GetUser(ctx, in.CreatorID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if creator == nil || creator.Role == models.RoleEditor {
		writeError(w, r, apperr.Validation("Invalid job data: creatorId must reference a creator account"))
		return
	}

	job, err := h.jobs.CreateJob(ctx, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.metrics.RecordCreated("job")
	writeJSON(w, job, http.StatusCreated)
}

func (h *JobsHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	s, err := requireSession(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	job, err := h.loadJob(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !canActFor(s, job.CreatorID) {
		writeError(w, r, apperr.Forbidden("Only the job's creator can update it"))
		return
	}

	raw, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx := r.Context()
	patch, err := schema.ParseJobPatch(ctx, raw)
	if err != nil {
		writeError(w, r, err)
		return
	}
	merged := *job
	merged.Apply(patch)
	if err := schema.CheckPriceRange(merged.MinPrice, merged.MaxPrice); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.jobs.UpdateJob(ctx, job.ID, patch)
	if errors.Is(err, repository.ErrPriceRange) {
		writeError(w, r, apperr.Validation("Invalid job data: minPrice must not exceed maxPrice", err.Error()))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	if updated == nil {
		writeError(w, r, errJobNotFound)
		return
	}
	writeJSON(w, updated, http.StatusOK)
}

// ListApplications shows a job's applicants to its creator.
func (h *JobsHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	s, err := requireSession(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	job, err := h.loadJob(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !canActFor(s, job.CreatorID) {
		writeError(w, r, apperr.Forbidden("Only the job's creator can view its applications"))
		return
	}

	apps, err := h.applications.ListApplicationsByJob(r.Context(), job.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, apps, http.StatusOK)
}

func (h *JobsHandler) loadJob(r *http.Request) (*models.Job, error) {
	id, ok := pathID(r, "id")
	if !ok {
		return nil, errJobNotFound
	}
	job, err := h.jobs.GetJob(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, errJobNotFound
	}
	return job, nil
}
