package memory

import (
	"context"

	"github.com/garnizeh/reelwork/pkg/models"
	"github.com/garnizeh/reelwork/pkg/repository"
)

func (s *Store) GetApplication(_ context.Context, id int64) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := at(id, len(s.applications))
	if i < 0 {
		return nil, nil
	}
	a := s.applications[i]
	return &a, nil
}

func (s *Store) ListApplicationsByJob(_ context.Context, jobID int64) ([]models.Application, error) {
	return s.listApplications(func(a models.Application) bool { return a.JobID == jobID }), nil
}

func (s *Store) ListApplicationsByEditor(_ context.Context, editorID int64) ([]models.Application, error) {
	return s.listApplications(func(a models.Application) bool { return a.EditorID == editorID }), nil
}

func (s *Store) listApplications(keep func(models.Application) bool) []models.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Application, 0)
	for _, a := range s.applications {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s *Store) CreateApplication(_ context.Context, in models.InsertApplication) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := in.Status
	if status == "" {
		status = models.StatusPending
	}

	a := models.Application{
		ID:          int64(len(s.applications)) + 1,
		JobID:       in.JobID,
		EditorID:    in.EditorID,
		CoverLetter: in.CoverLetter,
		Price:       in.Price,
		Status:      status,
		CreatedAt:   s.now(),
	}
	s.applications = append(s.applications, a)

	return &a, nil
}

func (s *Store) UpdateApplication(_ context.Context, id int64, p models.ApplicationPatch) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := at(id, len(s.applications))
	if i < 0 {
		return nil, nil
	}
	s.applications[i].Apply(p)

	a := s.applications[i]
	return &a, nil
}

func (s *Store) TransitionApplication(_ context.Context, id int64, from, to models.ApplicationStatus) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := at(id, len(s.applications))
	if i < 0 {
		return nil, nil
	}
	if s.applications[i].Status != from {
		return nil, &repository.ConflictError{Field: repository.FieldStatus}
	}
	s.applications[i].Status = to

	a := s.applications[i]
	return &a, nil
}
