package sqlrepo

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/garnizeh/reelwork/pkg/models"
	"github.com/garnizeh/reelwork/pkg/repository"
)

func (r *Repo) jobByID(ctx context.Context, q sqlx.QueryerContext, id int64) (*models.Job, error) {
	var row jobRow
	found, err := get(ctx, q, &row, r.qb.Select(jobColumns...).From("jobs").Where(sq.Eq{"id": id}))
	if err != nil || !found {
		return nil, err
	}
	j, err := row.model()
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *Repo) GetJob(ctx context.Context, id int64) (*models.Job, error) {
	return r.jobByID(ctx, r.conn.X(), id)
}

func (r *Repo) ListJobs(ctx context.Context, f repository.JobFilter) ([]models.Job, error) {
	pred := sq.Eq{}
	if f.CreatorID != nil {
		pred["creator_id"] = *f.CreatorID
	}
	if f.IsActive != nil {
		pred["is_active"] = *f.IsActive
	}
	if f.JobType != nil {
		pred["job_type"] = *f.JobType
	}
	if f.EmploymentType != nil {
		pred["employment_type"] = *f.EmploymentType
	}
	if f.PriceType != nil {
		pred["price_type"] = *f.PriceType
	}

	var rows []jobRow
	if err := list(ctx, r.conn.X(), &rows, r.qb.Select(jobColumns...).From("jobs").Where(pred).OrderBy("id")); err != nil {
		return nil, err
	}

	out := make([]models.Job, 0, len(rows))
	for _, row := range rows {
		j, err := row.model()
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, nil
}

func (r *Repo) ListJobsByCreator(ctx context.Context, creatorID int64) ([]models.Job, error) {
	return r.ListJobs(ctx, repository.JobFilter{CreatorID: &creatorID})
}

func (r *Repo) CreateJob(ctx context.Context, j models.InsertJob) (*models.Job, error) {
	skills, err := encodeSkills(j.Skills)
	if err != nil {
		return nil, err
	}

	row := jobRow{
		Title:          j.Title,
		Description:    j.Description,
		JobType:        j.JobType,
		EmploymentType: j.EmploymentType,
		MinPrice:       j.MinPrice,
		MaxPrice:       j.MaxPrice,
		PriceType:      j.PriceType,
		Skills:         skills,
		CreatorID:      j.CreatorID,
		IsActive:       boolOr(j.IsActive, true),
		CreatedAt:      now(),
	}
	row.ID, err = insert(ctx, r.conn.X(), r.qb.Insert("jobs").
		Columns("title", "description", "job_type", "employment_type", "min_price", "max_price", "price_type", "skills", "creator_id", "is_active", "created_at").
		Values(row.Title, row.Description, row.JobType, row.EmploymentType, row.MinPrice, row.MaxPrice, row.PriceType, row.Skills, row.CreatorID, row.IsActive, row.CreatedAt))
	if err != nil {
		return nil, err
	}

	out, err := row.model()
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) UpdateJob(ctx context.Context, id int64, p models.JobPatch) (*models.Job, error) {
	set := map[string]any{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.JobType != nil {
		set["job_type"] = *p.JobType
	}
	if p.EmploymentType != nil {
		set["employment_type"] = *p.EmploymentType
	}
	if p.MinPrice != nil {
		set["min_price"] = *p.MinPrice
	}
	if p.MaxPrice != nil {
		set["max_price"] = *p.MaxPrice
	}
	if p.PriceType != nil {
		set["price_type"] = *p.PriceType
	}
	if p.Skills != nil {
		skills, err := encodeSkills(p.Skills)
		if err != nil {
			return nil, err
		}
		set["skills"] = skills
	}
	if p.IsActive != nil {
		set["is_active"] = *p.IsActive
	}

	var out *models.Job
	err := r.conn.WithTx(ctx, func(tx *sqlx.Tx) error {
		if len(set) > 0 {
			if _, err := exec(ctx, tx, r.qb.Update("jobs").SetMap(set).Where(sq.Eq{"id": id})); err != nil {
				return err
			}
		}
		j, err := r.jobByID(ctx, tx, id)
		if err != nil {
			return err
		}
		// Rolls back a patch that inverts the range given what other writers committed.
		if j != nil && j.MinPrice > j.MaxPrice {
			return repository.ErrPriceRange
		}
		out = j
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
