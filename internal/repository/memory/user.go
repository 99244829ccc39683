package memory

import (
	"context"

	"github.com/garnizeh/reelwork/pkg/models"
	"github.com/garnizeh/reelwork/pkg/repository"
)

func (s *Store) GetUser(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := at(id, len(s.users))
	if i < 0 {
		return nil, nil
	}
	return cloneUser(s.users[i]), nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	id, ok := s.byUsername[username]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return s.GetUser(ctx, id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	id, ok := s.byEmail[email]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return s.GetUser(ctx, id)
}

func (s *Store) ListUsers(_ context.Context, f repository.UserFilter) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		if f.Role != nil && u.Role != *f.Role {
			continue
		}
		out = append(out, *cloneUser(u))
	}
	return out, nil
}

func (s *Store) CreateUser(_ context.Context, in models.InsertUser) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byUsername[in.Username]; ok {
		return nil, &repository.ConflictError{Field: repository.FieldUsername}
	}
	if _, ok := s.byEmail[in.Email]; ok {
		return nil, &repository.ConflictError{Field: repository.FieldEmail}
	}

	u := models.User{
		ID:        int64(len(s.users)) + 1,
		Username:  in.Username,
		Email:     in.Email,
		Password:  in.Password,
		FullName:  in.FullName,
		Role:      in.Role,
		AvatarURL: cloneString(in.AvatarURL),
		CreatedAt: s.now(),
	}
	s.users = append(s.users, u)
	s.byUsername[u.Username] = u.ID
	s.byEmail[u.Email] = u.ID

	return cloneUser(u), nil
}

func (s *Store) UpdateUser(_ context.Context, id int64, p models.UserPatch) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := at(id, len(s.users))
	if i < 0 {
		return nil, nil
	}

	u := s.users[i]
	if p.Email != nil && *p.Email != u.Email {
		if _, taken := s.byEmail[*p.Email]; taken {
			return nil, &repository.ConflictError{Field: repository.FieldEmail}
		}
		delete(s.byEmail, u.Email)
		s.byEmail[*p.Email] = u.ID
	}
	u.Apply(p)
	s.users[i] = u

	return cloneUser(u), nil
}
