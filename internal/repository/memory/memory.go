// Package memory is the process-local storage engine. All state sits behind one
// RWMutex so uniqueness checks and id assignment are atomic with the insert.
package memory

import (
	"slices"
	"sync"
	"time"

	"github.com/garnizeh/reelwork/pkg/models"
	"github.com/garnizeh/reelwork/pkg/repository"
)

// Store keeps each entity kind in an id-ordered slice. Ids start at 1 and records are
// never deleted, so record n lives at index n-1.
type Store struct {
	mu sync.RWMutex

	users        []models.User
	jobs         []models.Job
	profiles     []models.EditorProfile
	reviews      []models.Review
	applications []models.Application

	byUsername    map[string]int64
	byEmail       map[string]int64
	profileByUser map[int64]int64

	now func() time.Time
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		byUsername:    make(map[string]int64),
		byEmail:       make(map[string]int64),
		profileByUser: make(map[int64]int64),
		now:           now,
	}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// at returns the index for id in a slice of length n, or -1.
func at(id int64, n int) int {
	if id < 1 || id > int64(n) {
		return -1
	}
	return int(id - 1)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneUser(u models.User) *models.User {
	u.AvatarURL = cloneString(u.AvatarURL)
	return &u
}

func cloneJob(j models.Job) models.Job {
	j.Skills = slices.Clone(j.Skills)
	return j
}

func cloneProfile(p models.EditorProfile) models.EditorProfile {
	p.Skills = slices.Clone(p.Skills)
	p.PortfolioURL = cloneString(p.PortfolioURL)
	return p
}

func cloneReview(r models.Review) models.Review {
	r.Comment = cloneString(r.Comment)
	return r
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func skills(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
