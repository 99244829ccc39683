package api

import (
	"context"
	"net/http"

	"github.com/garnizeh/reelwork/internal/apperr"
	"github.com/garnizeh/reelwork/internal/metrics"
	"github.com/garnizeh/reelwork/internal/schema"
	"github.com/garnizeh/reelwork/pkg/models"
	"github.com/garnizeh/reelwork/pkg/repository"
)

type ReviewsHandler struct {
	reviews repository.ReviewRepo
	users   repository.UserRepo
	metrics *metrics.Metrics
}

func NewReviewsHandler(reviews repository.ReviewRepo, users repository.UserRepo, m *metrics.Metrics) *ReviewsHandler {
	return &ReviewsHandler{reviews: reviews, users: users, metrics: m}
}

func (h *ReviewsHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	notFound := apperr.NotFound("Review not found")
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, notFound)
		return
	}
	review, err := h.reviews.GetReview(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if review == nil {
		writeError(w, r, notFound)
		return
	}
	writeJSON(w, review, http.StatusOK)
}

func (h *ReviewsHandler) ListByEditor(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "editorId", h.reviews.ListReviewsByEditor)
}

func (h *ReviewsHandler) ListByCreator(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "creatorId", h.reviews.ListReviewsByCreator)
}

func (h *ReviewsHandler) list(w http.ResponseWriter, r *http.Request, param string, fetch func(ctx context.Context, id int64) ([]models.Review, error)) {
	id, ok := pathID(r, param)
	if !ok {
		writeJSON(w, []models.Review{}, http.StatusOK)
		return
	}
	reviews, err := fetch(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, reviews, http.StatusOK)
}

func (h *ReviewsHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx := r.Context()
	in, err := schema.ParseReview(ctx, raw)
	if err != nil {
		writeError(w, r, err)
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
	creator, err := h.users.GetUser(ctx, in.CreatorID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if creator == nil {
		writeError(w, r, apperr.NotFound("Creator not found"))
		return
	}

	review, err := h.reviews.CreateReview(ctx, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.metrics.RecordCreated("review")
	writeJSON(w, review, http.StatusCreated)
}
