package sqlrepo

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/garnizeh/reelwork/pkg/models"
)

func (r *Repo) GetReview(ctx context.Context, id int64) (*models.Review, error) {
	var row reviewRow
	found, err := get(ctx, r.conn.X(), &row, r.qb.Select(reviewColumns...).From("reviews").Where(sq.Eq{"id": id}))
	if err != nil || !found {
		return nil, err
	}
	rv := row.model()
	return &rv, nil
}

func (r *Repo) ListReviewsByEditor(ctx context.Context, editorID int64) ([]models.Review, error) {
	return r.listReviews(ctx, sq.Eq{"editor_id": editorID})
}

func (r *Repo) ListReviewsByCreator(ctx context.Context, creatorID int64) ([]models.Review, error) {
	return r.listReviews(ctx, sq.Eq{"creator_id": creatorID})
}

func (r *Repo) listReviews(ctx context.Context, pred sq.Eq) ([]models.Review, error) {
	var rows []reviewRow
	if err := list(ctx, r.conn.X(), &rows, r.qb.Select(reviewColumns...).From("reviews").Where(pred).OrderBy("id")); err != nil {
		return nil, err
	}
	out := make([]models.Review, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.model())
	}
	return out, nil
}

func (r *Repo) CreateReview(ctx context.Context, in models.InsertReview) (*models.Review, error) {
	row := reviewRow{
		EditorID:  in.EditorID,
		CreatorID: in.CreatorID,
		Rating:    in.Rating,
		Comment:   nullString(in.Comment),
		CreatedAt: now(),
	}
	id, err := insert(ctx, r.conn.X(), r.qb.Insert("reviews").
		Columns("editor_id", "creator_id", "rating", "comment", "created_at").
		Values(row.EditorID, row.CreatorID, row.Rating, row.Comment, row.CreatedAt))
	if err != nil {
		return nil, err
	}
	row.ID = id

	rv := row.model()
	return &rv, nil
}
