// Package repotest holds the behavioural suite every repository.Store implementation
// must pass. Backends call Run from their own tests with a factory that returns an
// empty store.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garnizeh/reelwork/pkg/models"
	"github.com/garnizeh/reelwork/pkg/repository"
)

type Factory func(t *testing.T) repository.Store

func Run(t *testing.T, newStore Factory) {
	t.Run("UserRoundTrip", func(t *testing.T) { testUserRoundTrip(t, newStore(t)) })
	t.Run("UserUniqueness", func(t *testing.T) { testUserUniqueness(t, newStore(t)) })
	t.Run("UserUpdate", func(t *testing.T) { testUserUpdate(t, newStore(t)) })
	t.Run("JobLifecycle", func(t *testing.T) { testJobLifecycle(t, newStore(t)) })
	t.Run("JobPriceRange", func(t *testing.T) { testJobPriceRange(t, newStore(t)) })
	t.Run("JobFilters", func(t *testing.T) { testJobFilters(t, newStore(t)) })
	t.Run("EditorProfiles", func(t *testing.T) { testEditorProfiles(t, newStore(t)) })
	t.Run("Reviews", func(t *testing.T) { testReviews(t, newStore(t)) })
	t.Run("Applications", func(t *testing.T) { testApplications(t, newStore(t)) })
	t.Run("ConcurrentCreates", func(t *testing.T) { testConcurrentCreates(t, newStore(t)) })
	t.Run("ConcurrentSameUsername", func(t *testing.T) { testConcurrentSameUsername(t, newStore(t)) })
	t.Run("ReturnedValuesAreCopies", func(t *testing.T) { testCopies(t, newStore(t)) })
}

func ptr[T any](v T) *T { return &v }

// NewUser returns a valid insertable user whose unique fields derive from name.
func NewUser(name string, role models.Role) models.InsertUser {
	return models.InsertUser{
		Username: name,
		Email:    name + "@example.com",
		Password: "hashed-" + name,
		FullName: "User " + name,
		Role:     role,
	}
}

// NewJob returns a valid insertable job owned by creatorID.
func NewJob(creatorID int64, title string) models.InsertJob {
	return models.InsertJob{
		Title:          title,
		Description:    "A reasonably long description of the editing work.",
		JobType:        "Remote",
		EmploymentType: "Per Project",
		MinPrice:       50,
		MaxPrice:       200,
		PriceType:      "per video",
		Skills:         []string{"Premiere Pro", "After Effects"},
		CreatorID:      creatorID,
	}
}

func mustUser(t *testing.T, s repository.Store, name string, role models.Role) *models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), NewUser(name, role))
	require.NoError(t, err)
	require.NotNil(t, u)
	return u
}

func testUserRoundTrip(t *testing.T, s repository.Store) {
	ctx := context.Background()
	before := time.Now().Add(-time.Second)

	in := NewUser("alice", models.RoleCreator)
	in.AvatarURL = ptr("https://cdn.example.com/alice.png")
	u, err := s.CreateUser(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, in.Username, u.Username)
	assert.Equal(t, in.Email, u.Email)
	assert.Equal(t, in.Password, u.Password)
	assert.Equal(t, in.FullName, u.FullName)
	assert.Equal(t, in.Role, u.Role)
	require.NotNil(t, u.AvatarURL)
	assert.Equal(t, *in.AvatarURL, *u.AvatarURL)
	assert.True(t, u.CreatedAt.After(before), "createdAt should be set at insertion")

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.Username, got.Username)
	assert.Equal(t, u.Password, got.Password)
	assert.True(t, u.CreatedAt.Equal(got.CreatedAt))

	byName, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, u.ID, byName.ID)

	byEmail, err := s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, u.ID, byEmail.ID)

	second := mustUser(t, s, "bob", models.RoleEditor)
	assert.Equal(t, int64(2), second.ID)
	assert.Nil(t, second.AvatarURL)

	for _, id := range []int64{0, -1, 99} {
		missing, err := s.GetUser(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, missing, "id %d", id)
	}
	missing, err := s.GetUserByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	editors, err := s.ListUsers(ctx, repository.UserFilter{Role: ptr(models.RoleEditor)})
	require.NoError(t, err)
	require.Len(t, editors, 1)
	assert.Equal(t, "bob", editors[0].Username)
}

func testUserUniqueness(t *testing.T, s repository.Store) {
	ctx := context.Background()
	mustUser(t, s, "alice", models.RoleCreator)

	dupName := NewUser("alice", models.RoleEditor)
	dupName.Email = "other@example.com"
	_, err := s.CreateUser(ctx, dupName)
	require.ErrorIs(t, err, repository.ErrConflict)
	assert.Equal(t, repository.FieldUsername, repository.ConflictField(err))

	dupEmail := NewUser("alice2", models.RoleEditor)
	dupEmail.Email = "alice@example.com"
	_, err = s.CreateUser(ctx, dupEmail)
	require.ErrorIs(t, err, repository.ErrConflict)
	assert.Equal(t, repository.FieldEmail, repository.ConflictField(err))

	all, err := s.ListUsers(ctx, repository.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1, "failed creates must not leave records behind")

	next := mustUser(t, s, "carol", models.RoleEditor)
	assert.Greater(t, next.ID, int64(1))
}

func testUserUpdate(t *testing.T, s repository.Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice", models.RoleCreator)
	mustUser(t, s, "bob", models.RoleEditor)

	updated, err := s.UpdateUser(ctx, alice.ID, models.UserPatch{FullName: ptr("Alice Liddell")})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Alice Liddell", updated.FullName)
	assert.Equal(t, alice.Email, updated.Email)
	assert.Equal(t, alice.Role, updated.Role)
	assert.True(t, alice.CreatedAt.Equal(updated.CreatedAt))

	_, err = s.UpdateUser(ctx, alice.ID, models.UserPatch{Email: ptr("bob@example.com")})
	require.ErrorIs(t, err, repository.ErrConflict)

	moved, err := s.UpdateUser(ctx, alice.ID, models.UserPatch{Email: ptr("alice@new.example.com")})
	require.NoError(t, err)
	assert.Equal(t, "alice@new.example.com", moved.Email)

	gone, err := s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Nil(t, gone, "old email must be released")

	missing, err := s.UpdateUser(ctx, 42, models.UserPatch{FullName: ptr("Nobody")})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func testJobLifecycle(t *testing.T, s repository.Store) {
	ctx := context.Background()
	creator := mustUser(t, s, "alice", models.RoleCreator)

	in := NewJob(creator.ID, "Gaming Video Editor Needed")
	job, err := s.CreateJob(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(1), job.ID)
	assert.True(t, job.IsActive, "jobs default to active")
	assert.Equal(t, in.Skills, job.Skills)
	assert.Equal(t, in.MinPrice, job.MinPrice)
	assert.Equal(t, in.MaxPrice, job.MaxPrice)

	inactive := NewJob(creator.ID, "Weekly Vlog Editor")
	inactive.IsActive = ptr(false)
	second, err := s.CreateJob(ctx, inactive)
	require.NoError(t, err)
	assert.False(t, second.IsActive)

	closed, err := s.UpdateJob(ctx, job.ID, models.JobPatch{IsActive: ptr(false), Skills: []string{"DaVinci Resolve"}})
	require.NoError(t, err)
	require.NotNil(t, closed)
	assert.False(t, closed.IsActive)
	assert.Equal(t, []string{"DaVinci Resolve"}, closed.Skills)
	assert.Equal(t, job.Title, closed.Title)
	assert.Equal(t, job.CreatorID, closed.CreatorID)
	assert.True(t, job.CreatedAt.Equal(closed.CreatedAt))

	noop, err := s.UpdateJob(ctx, job.ID, models.JobPatch{})
	require.NoError(t, err)
	require.NotNil(t, noop)
	assert.False(t, noop.IsActive)

	missing, err := s.UpdateJob(ctx, 99, models.JobPatch{IsActive: ptr(false)})
	require.NoError(t, err)
	assert.Nil(t, missing)

	got, err := s.GetJob(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testJobFilters(t *testing.T, s repository.Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice", models.RoleCreator)
	carol := mustUser(t, s, "carol", models.RoleCreator)

	a1 := NewJob(alice.ID, "First job for alice")
	a2 := NewJob(alice.ID, "Second job for alice")
	a2.JobType = "On-site"
	a2.IsActive = ptr(false)
	c1 := NewJob(carol.ID, "First job for carol")
	for _, in := range []models.InsertJob{a1, a2, c1} {
		_, err := s.CreateJob(ctx, in)
		require.NoError(t, err)
	}

	all, err := s.ListJobs(ctx, repository.JobFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, j := range all {
		assert.Equal(t, int64(i+1), j.ID, "jobs must come back in insertion order")
	}

	active, err := s.ListJobs(ctx, repository.JobFilter{IsActive: ptr(true)})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	remoteAlice, err := s.ListJobs(ctx, repository.JobFilter{CreatorID: ptr(alice.ID), JobType: ptr("Remote")})
	require.NoError(t, err)
	require.Len(t, remoteAlice, 1)
	assert.Equal(t, "First job for alice", remoteAlice[0].Title)

	byCreator, err := s.ListJobsByCreator(ctx, carol.ID)
	require.NoError(t, err)
	require.Len(t, byCreator, 1)
	assert.Equal(t, carol.ID, byCreator[0].CreatorID)

	none, err := s.ListJobsByCreator(ctx, 404)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func testEditorProfiles(t *testing.T, s repository.Store) {
	ctx := context.Background()
	jane := mustUser(t, s, "jane", models.RoleEditor)
	mark := mustUser(t, s, "mark", models.RoleEditor)

	in := models.InsertEditorProfile{
		UserID:       jane.ID,
		Title:        "Professional Video Editor",
		Description:  "Experienced editor specializing in gaming content.",
		Skills:       []string{"Premiere Pro"},
		HourlyRate:   25,
		Experience:   5,
		PortfolioURL: ptr("https://portfolio.example.com"),
	}
	p, err := s.CreateEditorProfile(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	assert.True(t, p.IsAvailable, "profiles default to available")
	require.NotNil(t, p.PortfolioURL)
	assert.Equal(t, "https://portfolio.example.com", *p.PortfolioURL)

	_, err = s.CreateEditorProfile(ctx, in)
	require.ErrorIs(t, err, repository.ErrConflict)
	assert.Equal(t, repository.FieldUserID, repository.ConflictField(err))

	busy := in
	busy.UserID = mark.ID
	busy.IsAvailable = ptr(false)
	busy.PortfolioURL = nil
	second, err := s.CreateEditorProfile(ctx, busy)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)
	assert.Nil(t, second.PortfolioURL)

	byUser, err := s.GetEditorProfileByUserID(ctx, jane.ID)
	require.NoError(t, err)
	require.NotNil(t, byUser)
	assert.Equal(t, p.ID, byUser.ID)

	nobody, err := s.GetEditorProfileByUserID(ctx, 77)
	require.NoError(t, err)
	assert.Nil(t, nobody)

	available, err := s.ListEditorProfiles(ctx, repository.EditorProfileFilter{IsAvailable: ptr(true)})
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, jane.ID, available[0].UserID)

	updated, err := s.UpdateEditorProfile(ctx, p.ID, models.EditorProfilePatch{HourlyRate: ptr(int64(40)), IsAvailable: ptr(false)})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, int64(40), updated.HourlyRate)
	assert.False(t, updated.IsAvailable)
	assert.Equal(t, jane.ID, updated.UserID)

	missing, err := s.UpdateEditorProfile(ctx, 99, models.EditorProfilePatch{Title: ptr("Nobody here")})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func testReviews(t *testing.T, s repository.Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice", models.RoleCreator)
	jane := mustUser(t, s, "jane", models.RoleEditor)
	mark := mustUser(t, s, "mark", models.RoleEditor)

	r1, err := s.CreateReview(ctx, models.InsertReview{EditorID: jane.ID, CreatorID: alice.ID, Rating: 5, Comment: ptr("Great pacing")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), r1.ID)
	require.NotNil(t, r1.Comment)

	r2, err := s.CreateReview(ctx, models.InsertReview{EditorID: mark.ID, CreatorID: alice.ID, Rating: 3})
	require.NoError(t, err)
	assert.Nil(t, r2.Comment)

	got, err := s.GetReview(ctx, r2.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.Rating)

	forJane, err := s.ListReviewsByEditor(ctx, jane.ID)
	require.NoError(t, err)
	require.Len(t, forJane, 1)
	assert.Equal(t, r1.ID, forJane[0].ID)

	byAlice, err := s.ListReviewsByCreator(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, byAlice, 2)

	empty, err := s.ListReviewsByEditor(ctx, alice.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func testApplications(t *testing.T, s repository.Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice", models.RoleCreator)
	jane := mustUser(t, s, "jane", models.RoleEditor)
	job, err := s.CreateJob(ctx, NewJob(alice.ID, "Gaming Video Editor Needed"))
	require.NoError(t, err)

	a, err := s.CreateApplication(ctx, models.InsertApplication{
		JobID:       job.ID,
		EditorID:    jane.ID,
		CoverLetter: "I have edited gaming videos for five years.",
		Price:       120,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, models.StatusPending, a.Status)

	byJob, err := s.ListApplicationsByJob(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, byJob, 1)

	byEditor, err := s.ListApplicationsByEditor(ctx, jane.ID)
	require.NoError(t, err)
	require.Len(t, byEditor, 1)

	repriced, err := s.UpdateApplication(ctx, a.ID, models.ApplicationPatch{Price: ptr(int64(100))})
	require.NoError(t, err)
	require.NotNil(t, repriced)
	assert.Equal(t, int64(100), repriced.Price)
	assert.Equal(t, models.StatusPending, repriced.Status)

	accepted, err := s.TransitionApplication(ctx, a.ID, models.StatusPending, models.StatusAccepted)
	require.NoError(t, err)
	require.NotNil(t, accepted)
	assert.Equal(t, models.StatusAccepted, accepted.Status)

	_, err = s.TransitionApplication(ctx, a.ID, models.StatusPending, models.StatusRejected)
	require.ErrorIs(t, err, repository.ErrConflict)

	stored, err := s.GetApplication(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, stored.Status)

	missing, err := s.TransitionApplication(ctx, 99, models.StatusPending, models.StatusAccepted)
	require.NoError(t, err)
	assert.Nil(t, missing)

	missingUpdate, err := s.UpdateApplication(ctx, 99, models.ApplicationPatch{Price: ptr(int64(1))})
	require.NoError(t, err)
	assert.Nil(t, missingUpdate)
}

func testConcurrentCreates(t *testing.T, s repository.Store) {
	const n = 20
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make(chan int64, n)
	errs := make(chan error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := s.CreateUser(ctx, NewUser(fmt.Sprintf("user%02d", i), models.RoleEditor))
			if err != nil {
				errs <- err
				return
			}
			ids <- u.ID
		}()
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent create failed: %v", err)
	}
	seen := make(map[int64]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	for id := int64(1); id <= n; id++ {
		assert.True(t, seen[id], "missing id %d", id)
	}
}

func testConcurrentSameUsername(t *testing.T, s repository.Store) {
	const n = 10
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var ok, conflicts int
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			in := NewUser("contested", models.RoleCreator)
			in.Email = fmt.Sprintf("contested%d@example.com", i)
			_, err := s.CreateUser(ctx, in)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, repository.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)
}

func testCopies(t *testing.T, s repository.Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice", models.RoleCreator)
	job, err := s.CreateJob(ctx, NewJob(alice.ID, "Gaming Video Editor Needed"))
	require.NoError(t, err)

	job.Skills[0] = "mutated"
	job.Title = "mutated"

	again, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Premiere Pro", again.Skills[0])
	assert.Equal(t, "Gaming Video Editor Needed", again.Title)
}

func testJobPriceRange(t *testing.T, s repository.Store) {
	ctx := context.Background()
	creator := mustUser(t, s, "alice", models.RoleCreator)
	job, err := s.CreateJob(ctx, NewJob(creator.ID, "Podcast Editor"))
	require.NoError(t, err)

	raised, err := s.UpdateJob(ctx, job.ID, models.JobPatch{MinPrice: ptr(int64(150))})
	require.NoError(t, err)
	assert.Equal(t, int64(150), raised.MinPrice)

	// Built from the pre-update snapshot, this patch is valid on its own.
	_, err = s.UpdateJob(ctx, job.ID, models.JobPatch{MaxPrice: ptr(int64(100)), Title: ptr("Renamed")})
	require.ErrorIs(t, err, repository.ErrPriceRange)

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(150), got.MinPrice)
	assert.Equal(t, int64(200), got.MaxPrice)
	assert.Equal(t, "Podcast Editor", got.Title, "rejected update must not persist any field")

	_, err = s.UpdateJob(ctx, job.ID, models.JobPatch{MinPrice: ptr(int64(120)), MaxPrice: ptr(int64(120))})
	require.NoError(t, err)
}
