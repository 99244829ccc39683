package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	dbfs "github.com/garnizeh/reelwork/db"
	"github.com/garnizeh/reelwork/internal/config"
	"github.com/garnizeh/reelwork/internal/db"
	"github.com/garnizeh/reelwork/internal/security"
	"github.com/garnizeh/reelwork/internal/seed"
	"github.com/garnizeh/reelwork/internal/storage"
	"github.com/garnizeh/reelwork/pkg/models"
)

var errNeedsSQL = errors.New("this command needs storage.backend: sql")

func loadConfig(c *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Storage.Backend != config.BackendSQL {
		return nil, errNeedsSQL
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending schema migrations",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			conn, err := db.New(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := db.Migrate(ctx, conn, dbfs.Migrations); err != nil {
				return err
			}
			v, err := db.Version(ctx, conn)
			if err != nil {
				return err
			}
			fmt.Printf("schema at version %d\n", v)
			return nil
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Load the bundled sample users, jobs and profiles",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			logger := newLogger()
			backend, err := storage.Open(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer backend.Close()

			res, err := seed.Apply(ctx, backend.Store, dbfs.SeedFiles, logger)
			if err != nil {
				return err
			}
			fmt.Printf("seeded %d users, %d jobs, %d editor profiles\n", res.Users, res.Jobs, res.Profiles)
			return nil
		},
	}
}

func backupCommand() *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Write a consistent copy of the sqlite database",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Usage: "backup file (default: <database>.bak)"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			path, err := db.SQLitePath(cfg.Storage.DSN)
			if err != nil {
				return err
			}
			out := c.String("out")
			if out == "" {
				out = path + ".bak"
			}

			conn, err := db.New(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := db.Backup(ctx, conn, out); err != nil {
				return err
			}
			fmt.Printf("database backed up to %s\n", out)
			return nil
		},
	}
}

func restoreCommand() *cli.Command {
	return &cli.Command{
		Name:  "restore",
		Usage: "Replace the sqlite database with a backup (stop the server first)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "backup file (default: <database>.bak)"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != db.DialectSQLite {
				return errors.New("restore is only supported for sqlite")
			}
			path, err := db.SQLitePath(cfg.Storage.DSN)
			if err != nil {
				return err
			}
			from := c.String("from")
			if from == "" {
				from = path + ".bak"
			}

			if err := db.Restore(from, path); err != nil {
				return err
			}
			fmt.Printf("database restored from %s\n", from)
			return nil
		},
	}
}

func adminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Manage administrator accounts",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create an administrator; admins cannot self-register",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true, Sources: cli.EnvVars("REELWORK_ADMIN_PASSWORD")},
					&cli.StringFlag{Name: "full-name", Value: "Administrator"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					u, err := createAdmin(ctx, cfg, models.InsertUser{
						Username: c.String("username"),
						Email:    c.String("email"),
						Password: c.String("password"),
						FullName: c.String("full-name"),
						Role:     models.RoleAdmin,
					})
					if err != nil {
						return err
					}
					fmt.Printf("created admin %s (id %d)\n", u.Username, u.ID)
					return nil
				},
			},
		},
	}
}

func createAdmin(ctx context.Context, cfg *config.Config, in models.InsertUser) (*models.User, error) {
	if len(in.Password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}
	backend, err := storage.Open(ctx, cfg, newLogger())
	if err != nil {
		return nil, err
	}
	defer backend.Close()

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	in.Password = hash

	u, err := backend.Store.CreateUser(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return u, nil
}
