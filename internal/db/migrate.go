package db

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"github.com/pressly/goose/v3"
)

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// Migrate applies every pending migration under migrations/<dialect> in migrationFS.
// Already-applied versions are tracked by goose and skipped, so Migrate is safe to
// call on every start.
func Migrate(ctx context.Context, d *DB, migrationFS fs.FS) error {
	gooseDialect := "sqlite3"
	if d.Dialect() == DialectPostgres {
		gooseDialect = "postgres"
	}
	dir := path.Join("migrations", d.Dialect())

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationFS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, d.GetConn(), dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Version reports the latest applied migration version.
func Version(ctx context.Context, d *DB) (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	gooseDialect := "sqlite3"
	if d.Dialect() == DialectPostgres {
		gooseDialect = "postgres"
	}
	if err := goose.SetDialect(gooseDialect); err != nil {
		return 0, fmt.Errorf("set migration dialect: %w", err)
	}
	return goose.GetDBVersionContext(ctx, d.GetConn())
}
