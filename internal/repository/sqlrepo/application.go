package sqlrepo

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/garnizeh/reelwork/pkg/models"
	"github.com/garnizeh/reelwork/pkg/repository"
)

func (r *Repo) applicationByID(ctx context.Context, q sqlx.QueryerContext, id int64) (*models.Application, error) {
	var row applicationRow
	found, err := get(ctx, q, &row, r.qb.Select(applicationColumns...).From("applications").Where(sq.Eq{"id": id}))
	if err != nil || !found {
		return nil, err
	}
	a := row.model()
	return &a, nil
}

func (r *Repo) GetApplication(ctx context.Context, id int64) (*models.Application, error) {
	return r.applicationByID(ctx, r.conn.X(), id)
}

func (r *Repo) ListApplicationsByJob(ctx context.Context, jobID int64) ([]models.Application, error) {
	return r.listApplications(ctx, sq.Eq{"job_id": jobID})
}

func (r *Repo) ListApplicationsByEditor(ctx context.Context, editorID int64) ([]models.Application, error) {
	return r.listApplications(ctx, sq.Eq{"editor_id": editorID})
}

func (r *Repo) listApplications(ctx context.Context, pred sq.Eq) ([]models.Application, error) {
	var rows []applicationRow
	if err := list(ctx, r.conn.X(), &rows, r.qb.Select(applicationColumns...).From("applications").Where(pred).OrderBy("id")); err != nil {
		return nil, err
	}
	out := make([]models.Application, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.model())
	}
	return out, nil
}

func (r *Repo) CreateApplication(ctx context.Context, in models.InsertApplication) (*models.Application, error) {
	status := in.Status
	if status == "" {
		status = models.StatusPending
	}

	row := applicationRow{
		JobID:       in.JobID,
		EditorID:    in.EditorID,
		CoverLetter: in.CoverLetter,
		Price:       in.Price,
		Status:      string(status),
		CreatedAt:   now(),
	}
	id, err := insert(ctx, r.conn.X(), r.qb.Insert("applications").
		Columns("job_id", "editor_id", "cover_letter", "price", "status", "created_at").
		Values(row.JobID, row.EditorID, row.CoverLetter, row.Price, row.Status, row.CreatedAt))
	if err != nil {
		return nil, err
	}
	row.ID = id

	a := row.model()
	return &a, nil
}

func (r *Repo) UpdateApplication(ctx context.Context, id int64, p models.ApplicationPatch) (*models.Application, error) {
	set := map[string]any{}
	if p.CoverLetter != nil {
		set["cover_letter"] = *p.CoverLetter
	}
	if p.Price != nil {
		set["price"] = *p.Price
	}
	if p.Status != nil {
		set["status"] = string(*p.Status)
	}

	var out *models.Application
	err := r.conn.WithTx(ctx, func(tx *sqlx.Tx) error {
		if len(set) > 0 {
			if _, err := exec(ctx, tx, r.qb.Update("applications").SetMap(set).Where(sq.Eq{"id": id})); err != nil {
				return err
			}
		}
		a, err := r.applicationByID(ctx, tx, id)
		out = a
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) TransitionApplication(ctx context.Context, id int64, from, to models.ApplicationStatus) (*models.Application, error) {
	var out *models.Application
	err := r.conn.WithTx(ctx, func(tx *sqlx.Tx) error {
		res, err := exec(ctx, tx, r.qb.Update("applications").
			Set("status", string(to)).
			Where(sq.Eq{"id": id, "status": string(from)}))
		if err != nil {
			return err
		}
		changed, err := res.RowsAffected()
		if err != nil {
			return err
		}

		a, err := r.applicationByID(ctx, tx, id)
		if err != nil || a == nil {
			return err
		}
		if changed == 0 {
			return &repository.ConflictError{Field: repository.FieldStatus}
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
