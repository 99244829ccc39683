package memory

import (
	"context"

	"github.com/garnizeh/reelwork/pkg/models"
)

func (s *Store) GetReview(_ context.Context, id int64) (*models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := at(id, len(s.reviews))
	if i < 0 {
		return nil, nil
	}
	r := cloneReview(s.reviews[i])
	return &r, nil
}

func (s *Store) ListReviewsByEditor(_ context.Context, editorID int64) ([]models.Review, error) {
	return s.listReviews(func(r models.Review) bool { return r.EditorID == editorID }), nil
}

func (s *Store) ListReviewsByCreator(_ context.Context, creatorID int64) ([]models.Review, error) {
	return s.listReviews(func(r models.Review) bool { return r.CreatorID == creatorID }), nil
}

func (s *Store) listReviews(keep func(models.Review) bool) []models.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Review, 0)
	for _, r := range s.reviews {
		if keep(r) {
			out = append(out, cloneReview(r))
		}
	}
	return out
}

func (s *Store) CreateReview(_ context.Context, in models.InsertReview) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := models.Review{
		ID:        int64(len(s.reviews)) + 1,
		EditorID:  in.EditorID,
		CreatorID: in.CreatorID,
		Rating:    in.Rating,
		Comment:   cloneString(in.Comment),
		CreatedAt: s.now(),
	}
	s.reviews = append(s.reviews, r)

	out := cloneReview(r)
	return &out, nil
}
