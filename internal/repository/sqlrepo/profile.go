package sqlrepo

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/garnizeh/reelwork/pkg/models"
	"github.com/garnizeh/reelwork/pkg/repository"
)

func (r *Repo) profileWhere(ctx context.Context, q sqlx.QueryerContext, pred sq.Eq) (*models.EditorProfile, error) {
	var row profileRow
	found, err := get(ctx, q, &row, r.qb.Select(profileColumns...).From("editor_profiles").Where(pred))
	if err != nil || !found {
		return nil, err
	}
	p, err := row.model()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) GetEditorProfile(ctx context.Context, id int64) (*models.EditorProfile, error) {
	return r.profileWhere(ctx, r.conn.X(), sq.Eq{"id": id})
}

func (r *Repo) GetEditorProfileByUserID(ctx context.Context, userID int64) (*models.EditorProfile, error) {
	return r.profileWhere(ctx, r.conn.X(), sq.Eq{"user_id": userID})
}

func (r *Repo) ListEditorProfiles(ctx context.Context, f repository.EditorProfileFilter) ([]models.EditorProfile, error) {
	pred := sq.Eq{}
	if f.UserID != nil {
		pred["user_id"] = *f.UserID
	}
	if f.IsAvailable != nil {
		pred["is_available"] = *f.IsAvailable
	}

	var rows []profileRow
	if err := list(ctx, r.conn.X(), &rows, r.qb.Select(profileColumns...).From("editor_profiles").Where(pred).OrderBy("id")); err != nil {
		return nil, err
	}

	out := make([]models.EditorProfile, 0, len(rows))
	for _, row := range rows {
		p, err := row.model()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *Repo) CreateEditorProfile(ctx context.Context, p models.InsertEditorProfile) (*models.EditorProfile, error) {
	skills, err := encodeSkills(p.Skills)
	if err != nil {
		return nil, err
	}

	row := profileRow{
		UserID:       p.UserID,
		Title:        p.Title,
		Description:  p.Description,
		Skills:       skills,
		HourlyRate:   p.HourlyRate,
		Experience:   p.Experience,
		PortfolioURL: nullString(p.PortfolioURL),
		IsAvailable:  boolOr(p.IsAvailable, true),
	}
	row.ID, err = insert(ctx, r.conn.X(), r.qb.Insert("editor_profiles").
		Columns("user_id", "title", "description", "skills", "hourly_rate", "experience", "portfolio_url", "is_available").
		Values(row.UserID, row.Title, row.Description, row.Skills, row.HourlyRate, row.Experience, row.PortfolioURL, row.IsAvailable))
	if err != nil {
		return nil, err
	}

	out, err := row.model()
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) UpdateEditorProfile(ctx context.Context, id int64, p models.EditorProfilePatch) (*models.EditorProfile, error) {
	set := map[string]any{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Skills != nil {
		skills, err := encodeSkills(p.Skills)
		if err != nil {
			return nil, err
		}
		set["skills"] = skills
	}
	if p.HourlyRate != nil {
		set["hourly_rate"] = *p.HourlyRate
	}
	if p.Experience != nil {
		set["experience"] = *p.Experience
	}
	if p.PortfolioURL != nil {
		set["portfolio_url"] = *p.PortfolioURL
	}
	if p.IsAvailable != nil {
		set["is_available"] = *p.IsAvailable
	}

	var out *models.EditorProfile
	err := r.conn.WithTx(ctx, func(tx *sqlx.Tx) error {
		if len(set) > 0 {
			if _, err := exec(ctx, tx, r.qb.Update("editor_profiles").SetMap(set).Where(sq.Eq{"id": id})); err != nil {
				return err
			}
		}
		ep, err := r.profileWhere(ctx, tx, sq.Eq{"id": id})
		out = ep
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
