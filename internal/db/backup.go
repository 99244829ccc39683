package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SQLitePath extracts the database file from a sqlite DSN such as
// "reelwork.db" or "file:reelwork.db?_pragma=busy_timeout(5000)".
func SQLitePath(dsn string) (string, error) {
	p := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	if p == "" || p == ":memory:" {
		return "", fmt.Errorf("dsn %q does not name a database file", dsn)
	}
	return p, nil
}

// Backup writes a consistent copy of a live sqlite database to dst.
func Backup(ctx context.Context, d *DB, dst string) error {
	if d.Dialect() != DialectSQLite {
		return errors.New("backup is only supported for sqlite; use pg_dump for postgres")
	}
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("backup target %s already exists", dst)
	}
	if _, err := d.Exec(ctx, "VACUUM INTO ?", dst); err != nil {
		return fmt.Errorf("backup database: %w", err)
	}
	return nil
}

// Restore replaces the sqlite file at dst with src. The server must not hold dst open.
func Restore(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open backup: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".restore-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return fmt.Errorf("copy backup: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync restore: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close restore: %w", err)
	}

	// Stale journal files belong to the database being replaced.
	for _, suffix := range []string{"-wal", "-shm", "-journal"} {
		if err := os.Remove(dst + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", dst+suffix, err)
		}
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("replace database: %w", err)
	}
	return nil
}
