package memory

import (
	"context"

	"github.com/garnizeh/reelwork/pkg/models"
	"github.com/garnizeh/reelwork/pkg/repository"
)

func (s *Store) GetJob(_ context.Context, id int64) (*models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := at(id, len(s.jobs))
	if i < 0 {
		return nil, nil
	}
	j := cloneJob(s.jobs[i])
	return &j, nil
}

func (s *Store) ListJobs(_ context.Context, f repository.JobFilter) ([]models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		if !matchJob(j, f) {
			continue
		}
		out = append(out, cloneJob(j))
	}
	return out, nil
}

func matchJob(j models.Job, f repository.JobFilter) bool {
	switch {
	case f.CreatorID != nil && j.CreatorID != *f.CreatorID:
		return false
	case f.IsActive != nil && j.IsActive != *f.IsActive:
		return false
	case f.JobType != nil && j.JobType != *f.JobType:
		return false
	case f.EmploymentType != nil && j.EmploymentType != *f.EmploymentType:
		return false
	case f.PriceType != nil && j.PriceType != *f.PriceType:
		return false
	}
	return true
}

func (s *Store) ListJobsByCreator(ctx context.Context, creatorID int64) ([]models.Job, error) {
	return s.ListJobs(ctx, repository.JobFilter{CreatorID: &creatorID})
}

func (s *Store) CreateJob(_ context.Context, in models.InsertJob) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j := models.Job{
		ID:             int64(len(s.jobs)) + 1,
		Title:          in.Title,
		Description:    in.Description,
		JobType:        in.JobType,
		EmploymentType: in.EmploymentType,
		MinPrice:       in.MinPrice,
		MaxPrice:       in.MaxPrice,
		PriceType:      in.PriceType,
		Skills:         skills(in.Skills),
		CreatorID:      in.CreatorID,
		IsActive:       boolOr(in.IsActive, true),
		CreatedAt:      s.now(),
	}
	s.jobs = append(s.jobs, j)

	out := cloneJob(j)
	return &out, nil
}

func (s *Store) UpdateJob(_ context.Context, id int64, p models.JobPatch) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := at(id, len(s.jobs))
	if i < 0 {
		return nil, nil
	}
	merged := cloneJob(s.jobs[i])
	merged.Apply(p)
	if merged.MinPrice > merged.MaxPrice {
		return nil, repository.ErrPriceRange
	}
	s.jobs[i] = merged

	out := cloneJob(merged)
	return &out, nil
}
