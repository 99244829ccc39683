package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/garnizeh/reelwork/internal/db"
	"github.com/garnizeh/reelwork/pkg/models"
)

// SQLStore keeps sessions in the sessions table so they survive restarts and are
// shared between server instances.
type SQLStore struct {
	conn *db.DB
	qb   sq.StatementBuilderType
}

var _ Store = (*SQLStore)(nil)

func NewSQLStore(conn *db.DB) *SQLStore {
	return &SQLStore{conn: conn, qb: db.StatementBuilder(conn.Dialect())}
}

type sessionRow struct {
	Token     string `db:"token"`
	UserID    int64  `db:"user_id"`
	Role      string `db:"role"`
	ExpiresAt int64  `db:"expires_at"`
}

func (s *SQLStore) Save(ctx context.Context, sess Session) error {
	query, args, err := s.qb.Insert("sessions").
		Columns("token", "user_id", "role", "expires_at").
		Values(sess.Token, sess.UserID, string(sess.Role), sess.ExpiresAt.UnixMilli()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := s.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, token string) (*Session, error) {
	query, args, err := s.qb.Select("token", "user_id", "role", "expires_at").
		From("sessions").
		Where(sq.Eq{"token": token}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row sessionRow
	if err := s.conn.X().GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	return &Session{
		Token:     row.Token,
		UserID:    row.UserID,
		Role:      models.Role(row.Role),
		ExpiresAt: time.UnixMilli(row.ExpiresAt).UTC(),
	}, nil
}

func (s *SQLStore) Delete(ctx context.Context, token string) error {
	query, args, err := s.qb.Delete("sessions").Where(sq.Eq{"token": token}).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := s.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SQLStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := s.qb.Delete("sessions").Where(sq.LtOrEq{"expires_at": now.UnixMilli()}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	res, err := s.conn.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}
