package memory_test

import (
	"context"
	"testing"

	"github.com/garnizeh/reelwork/internal/repository/memory"
	"github.com/garnizeh/reelwork/internal/repository/repotest"
	"github.com/garnizeh/reelwork/pkg/models"
	"github.com/garnizeh/reelwork/pkg/repository"
)

func TestStoreConformance(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.Store { return memory.New() })
}

func TestNilSkillsBecomeEmpty(t *testing.T) {
	s := memory.New()
	in := repotest.NewJob(1, "Job without skills")
	in.Skills = nil

	j, err := s.CreateJob(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if j.Skills == nil || len(j.Skills) != 0 {
		t.Fatalf("expected empty skills, got %#v", j.Skills)
	}
}

func TestApplicationDefaultsToPending(t *testing.T) {
	s := memory.New()
	a, err := s.CreateApplication(context.Background(), models.InsertApplication{JobID: 1, EditorID: 2, CoverLetter: "cover", Price: 1})
	if err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}
	if a.Status != models.StatusPending {
		t.Fatalf("status = %q, want pending", a.Status)
	}
}

func TestFailedCreateDoesNotConsumeID(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	if _, err := s.CreateUser(ctx, repotest.NewUser("alice", models.RoleCreator)); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := s.CreateUser(ctx, repotest.NewUser("alice", models.RoleCreator)); err == nil {
		t.Fatalf("expected conflict")
	}
	u, err := s.CreateUser(ctx, repotest.NewUser("bob", models.RoleEditor))
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID != 2 {
		t.Fatalf("id = %d, want 2", u.ID)
	}
}
