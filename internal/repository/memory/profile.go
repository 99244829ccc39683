package memory

import (
	"context"

	"github.com/garnizeh/reelwork/pkg/models"
	"github.com/garnizeh/reelwork/pkg/repository"
)

func (s *Store) GetEditorProfile(_ context.Context, id int64) (*models.EditorProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := at(id, len(s.profiles))
	if i < 0 {
		return nil, nil
	}
	p := cloneProfile(s.profiles[i])
	return &p, nil
}

func (s *Store) GetEditorProfileByUserID(ctx context.Context, userID int64) (*models.EditorProfile, error) {
	s.mu.RLock()
	id, ok := s.profileByUser[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return s.GetEditorProfile(ctx, id)
}

func (s *Store) ListEditorProfiles(_ context.Context, f repository.EditorProfileFilter) ([]models.EditorProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.EditorProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if f.UserID != nil && p.UserID != *f.UserID {
			continue
		}
		if f.IsAvailable != nil && p.IsAvailable != *f.IsAvailable {
			continue
		}
		out = append(out, cloneProfile(p))
	}
	return out, nil
}

func (s *Store) CreateEditorProfile(_ context.Context, in models.InsertEditorProfile) (*models.EditorProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profileByUser[in.UserID]; ok {
		return nil, &repository.ConflictError{Field: repository.FieldUserID}
	}

	p := models.EditorProfile{
		ID:           int64(len(s.profiles)) + 1,
		UserID:       in.UserID,
		Title:        in.Title,
		Description:  in.Description,
		Skills:       skills(in.Skills),
		HourlyRate:   in.HourlyRate,
		Experience:   in.Experience,
		PortfolioURL: cloneString(in.PortfolioURL),
		IsAvailable:  boolOr(in.IsAvailable, true),
	}
	s.profiles = append(s.profiles, p)
	s.profileByUser[p.UserID] = p.ID

	out := cloneProfile(p)
	return &out, nil
}

func (s *Store) UpdateEditorProfile(_ context.Context, id int64, patch models.EditorProfilePatch) (*models.EditorProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := at(id, len(s.profiles))
	if i < 0 {
		return nil, nil
	}
	s.profiles[i].Apply(patch)

	out := cloneProfile(s.profiles[i])
	return &out, nil
}
