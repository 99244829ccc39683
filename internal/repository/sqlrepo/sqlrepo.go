// Package sqlrepo implements the repository interfaces on top of a relational
// database. The same code serves SQLite and PostgreSQL; only the placeholder format
// differs.
package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/garnizeh/reelwork/internal/db"
	"github.com/garnizeh/reelwork/pkg/repository"
)

// Repo implements repository.Store using the internal DB wrapper.
type Repo struct {
	conn   *db.DB
	qb     sq.StatementBuilderType
	logger *slog.Logger
}

var _ repository.Store = (*Repo)(nil)

func New(conn *db.DB, logger *slog.Logger) *Repo {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	return &Repo{
		conn:   conn,
		qb:     db.StatementBuilder(conn.Dialect()),
		logger: logger,
	}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// get scans a single row into dest. found is false when no row matched.
func get(ctx context.Context, q sqlx.QueryerContext, dest any, b sq.Sqlizer) (found bool, err error) {
	query, args, err := b.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}
	if err := sqlx.GetContext(ctx, q, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func list(ctx context.Context, q sqlx.QueryerContext, dest any, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return sqlx.SelectContext(ctx, q, dest, query, args...)
}

func exec(ctx context.Context, e sqlx.ExecerContext, b sq.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return e.ExecContext(ctx, query, args...)
}

// insert runs b with a RETURNING clause and yields the new id. Both SQLite and
// PostgreSQL support RETURNING, which avoids relying on LastInsertId.
func insert(ctx context.Context, q sqlx.QueryerContext, b sq.InsertBuilder) (int64, error) {
	query, args, err := b.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	var id int64
	if err := q.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, conflictFrom(err)
	}
	return id, nil
}

// conflictFrom maps unique-constraint violations onto repository.ConflictError and
// passes every other error through.
func conflictFrom(err error) error {
	if err == nil {
		return nil
	}

	var detail string
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr) && pgErr.Code == "23505":
		detail = pgErr.ConstraintName + " " + pgErr.Detail
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		detail = err.Error()
	default:
		return err
	}

	switch {
	case strings.Contains(detail, "username"):
		return &repository.ConflictError{Field: repository.FieldUsername}
	case strings.Contains(detail, "email"):
		return &repository.ConflictError{Field: repository.FieldEmail}
	case strings.Contains(detail, "user_id"):
		return &repository.ConflictError{Field: repository.FieldUserID}
	default:
		return fmt.Errorf("%w: %v", repository.ErrConflict, err)
	}
}
