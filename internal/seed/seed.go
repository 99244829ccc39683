// Package seed loads demo marketplace data into a store. Applying the same seed twice
// leaves the store unchanged.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"

	"github.com/garnizeh/reelwork/internal/security"
	"github.com/garnizeh/reelwork/pkg/models"
	"github.com/garnizeh/reelwork/pkg/repository"
)

type document struct {
	Users          []models.InsertUser `json:"users"`
	Jobs           []jobSeed           `json:"jobs"`
	EditorProfiles []profileSeed       `json:"editorProfiles"`
}

// jobSeed names its creator by username so seed files stay independent of ids.
type jobSeed struct {
	Creator string `json:"creator"`
	models.InsertJob
}

type profileSeed struct {
	User string `json:"user"`
	models.InsertEditorProfile
}

// Result counts the records created by Apply.
type Result struct {
	Users    int
	Jobs     int
	Profiles int
}

// Apply loads every seed/*.json document in fsys in name order. Users are matched by
// username, jobs by creator and title, profiles by user.
func Apply(ctx context.Context, store repository.Store, fsys fs.FS, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	names, err := fs.Glob(fsys, path.Join("seed", "*.json"))
	if err != nil {
		return Result{}, fmt.Errorf("list seed files: %w", err)
	}
	sort.Strings(names)

	var total Result
	for _, name := range names {
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return total, fmt.Errorf("read seed %s: %w", name, err)
		}
		var doc document
		if err := json.Unmarshal(b, &doc); err != nil {
			return total, fmt.Errorf("decode seed %s: %w", name, err)
		}

		res, err := applyDocument(ctx, store, doc)
		total.Users += res.Users
		total.Jobs += res.Jobs
		total.Profiles += res.Profiles
		if err != nil {
			return total, fmt.Errorf("apply seed %s: %w", name, err)
		}
	}

	logger.Info("seed applied", "users", total.Users, "jobs", total.Jobs, "profiles", total.Profiles)
	return total, nil
}

func applyDocument(ctx context.Context, store repository.Store, doc document) (Result, error) {
	var res Result

	for _, in := range doc.Users {
		existing, err := store.GetUserByUsername(ctx, in.Username)
		if err != nil {
			return res, err
		}
		if existing != nil {
			continue
		}
		hash, err := security.HashPassword(in.Password)
		if err != nil {
			return res, err
		}
		in.Password = hash
		if _, err := store.CreateUser(ctx, in); err != nil {
			return res, fmt.Errorf("user %s: %w", in.Username, err)
		}
		res.Users++
	}

	for _, js := range doc.Jobs {
		creator, err := userByName(ctx, store, js.Creator)
		if err != nil {
			return res, err
		}
		jobs, err := store.ListJobsByCreator(ctx, creator.ID)
		if err != nil {
			return res, err
		}
		if hasTitle(jobs, js.Title) {
			continue
		}
		in := js.InsertJob
		in.CreatorID = creator.ID
		if _, err := store.CreateJob(ctx, in); err != nil {
			return res, fmt.Errorf("job %q: %w", js.Title, err)
		}
		res.Jobs++
	}

	for _, ps := range doc.EditorProfiles {
		owner, err := userByName(ctx, store, ps.User)
		if err != nil {
			return res, err
		}
		existing, err := store.GetEditorProfileByUserID(ctx, owner.ID)
		if err != nil {
			return res, err
		}
		if existing != nil {
			continue
		}
		in := ps.InsertEditorProfile
		in.UserID = owner.ID
		if _, err := store.CreateEditorProfile(ctx, in); err != nil {
			return res, fmt.Errorf("editor profile for %s: %w", ps.User, err)
		}
		res.Profiles++
	}

	return res, nil
}

func userByName(ctx context.Context, store repository.UserRepo, username string) (*models.User, error) {
	u, err := store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("seed references unknown user %q", username)
	}
	return u, nil
}

func hasTitle(jobs []models.Job, title string) bool {
	for _, j := range jobs {
		if j.Title == title {
			return true
		}
	}
	return false
}
