package sqlrepo

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/garnizeh/reelwork/pkg/models"
	"github.com/garnizeh/reelwork/pkg/repository"
)

func (r *Repo) userWhere(ctx context.Context, q sqlx.QueryerContext, pred sq.Eq) (*models.User, error) {
	var row userRow
	found, err := get(ctx, q, &row, r.qb.Select(userColumns...).From("users").Where(pred))
	if err != nil || !found {
		return nil, err
	}
	return row.model(), nil
}

func (r *Repo) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return r.userWhere(ctx, r.conn.X(), sq.Eq{"id": id})
}

func (r *Repo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.userWhere(ctx, r.conn.X(), sq.Eq{"username": username})
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.userWhere(ctx, r.conn.X(), sq.Eq{"email": email})
}

func (r *Repo) ListUsers(ctx context.Context, f repository.UserFilter) ([]models.User, error) {
	b := r.qb.Select(userColumns...).From("users").OrderBy("id")
	if f.Role != nil {
		b = b.Where(sq.Eq{"role": string(*f.Role)})
	}

	var rows []userRow
	if err := list(ctx, r.conn.X(), &rows, b); err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row.model())
	}
	return out, nil
}

func (r *Repo) CreateUser(ctx context.Context, u models.InsertUser) (*models.User, error) {
	created := now()
	id, err := insert(ctx, r.conn.X(), r.qb.Insert("users").
		Columns("username", "email", "password_hash", "full_name", "role", "avatar_url", "created_at").
		Values(u.Username, u.Email, u.Password, u.FullName, string(u.Role), nullString(u.AvatarURL), created))
	if err != nil {
		return nil, err
	}

	r.logger.Debug("user created", "id", id, "role", u.Role)
	return userRow{
		ID:           id,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.Password,
		FullName:     u.FullName,
		Role:         string(u.Role),
		AvatarURL:    nullString(u.AvatarURL),
		CreatedAt:    created,
	}.model(), nil
}

func (r *Repo) UpdateUser(ctx context.Context, id int64, p models.UserPatch) (*models.User, error) {
	set := map[string]any{}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if p.FullName != nil {
		set["full_name"] = *p.FullName
	}
	if p.AvatarURL != nil {
		set["avatar_url"] = *p.AvatarURL
	}

	var out *models.User
	err := r.conn.WithTx(ctx, func(tx *sqlx.Tx) error {
		if len(set) > 0 {
			if _, err := exec(ctx, tx, r.qb.Update("users").SetMap(set).Where(sq.Eq{"id": id})); err != nil {
				return conflictFrom(err)
			}
		}
		u, err := r.userWhere(ctx, tx, sq.Eq{"id": id})
		out = u
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
