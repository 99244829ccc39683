package mock

import (
	"context"
	"sync"

	"github.com/garnizeh/reelwork/pkg/models"
	"github.com/garnizeh/reelwork/pkg/repository"
)

// Store wraps a working repository.Store and fails selected methods on demand.
// Methods that were not told to fail delegate to the wrapped store.
type Store struct {
	base repository.Store

	mu    sync.Mutex
	errs  map[string]error
	calls map[string]int
}

var _ repository.Store = (*Store)(nil)

func New(base repository.Store) *Store {
	return &Store{base: base, errs: map[string]error{}, calls: map[string]int{}}
}

// FailOn makes every later call to method return err. A nil err clears it.
func (s *Store) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.errs, method)
		return
	}
	s.errs[method] = err
}

// Calls reports how many times method was invoked.
func (s *Store) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func (s *Store) enter(method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[method]++
	return s.errs[method]
}

func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	if err := s.enter("GetUser"); err != nil {
		return nil, err
	}
	return s.base.GetUser(ctx, id)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := s.enter("GetUserByUsername"); err != nil {
		return nil, err
	}
	return s.base.GetUserByUsername(ctx, username)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := s.enter("GetUserByEmail"); err != nil {
		return nil, err
	}
	return s.base.GetUserByEmail(ctx, email)
}

func (s *Store) ListUsers(ctx context.Context, f repository.UserFilter) ([]models.User, error) {
	if err := s.enter("ListUsers"); err != nil {
		return nil, err
	}
	return s.base.ListUsers(ctx, f)
}

func (s *Store) CreateUser(ctx context.Context, u models.InsertUser) (*models.User, error) {
	if err := s.enter("CreateUser"); err != nil {
		return nil, err
	}
	return s.base.CreateUser(ctx, u)
}

func (s *Store) UpdateUser(ctx context.Context, id int64, p models.UserPatch) (*models.User, error) {
	if err := s.enter("UpdateUser"); err != nil {
		return nil, err
	}
	return s.base.UpdateUser(ctx, id, p)
}

func (s *Store) GetJob(ctx context.Context, id int64) (*models.Job, error) {
	if err := s.enter("GetJob"); err != nil {
		return nil, err
	}
	return s.base.GetJob(ctx, id)
}

func (s *Store) ListJobs(ctx context.Context, f repository.JobFilter) ([]models.Job, error) {
	if err := s.enter("ListJobs"); err != nil {
		return nil, err
	}
	return s.base.ListJobs(ctx, f)
}

func (s *Store) ListJobsByCreator(ctx context.Context, creatorID int64) ([]models.Job, error) {
	if err := s.enter("ListJobsByCreator"); err != nil {
		return nil, err
	}
	return s.base.ListJobsByCreator(ctx, creatorID)
}

func (s *Store) CreateJob(ctx context.Context, j models.InsertJob) (*models.Job, error) {
	if err := s.enter("CreateJob"); err != nil {
		return nil, err
	}
	return s.base.CreateJob(ctx, j)
}

func (s *Store) UpdateJob(ctx context.Context, id int64, p models.JobPatch) (*models.Job, error) {
	if err := s.enter("UpdateJob"); err != nil {
		return nil, err
	}
	return s.base.UpdateJob(ctx, id, p)
}

func (s *Store) GetEditorProfile(ctx context.Context, id int64) (*models.EditorProfile, error) {
	if err := s.enter("GetEditorProfile"); err != nil {
		return nil, err
	}
	return s.base.GetEditorProfile(ctx, id)
}

func (s *Store) GetEditorProfileByUserID(ctx context.Context, userID int64) (*models.EditorProfile, error) {
	if err := s.enter("GetEditorProfileByUserID"); err != nil {
		return nil, err
	}
	return s.base.GetEditorProfileByUserID(ctx, userID)
}

func (s *Store) ListEditorProfiles(ctx context.Context, f repository.EditorProfileFilter) ([]models.EditorProfile, error) {
	if err := s.enter("ListEditorProfiles"); err != nil {
		return nil, err
	}
	return s.base.ListEditorProfiles(ctx, f)
}

func (s *Store) CreateEditorProfile(ctx context.Context, p models.InsertEditorProfile) (*models.EditorProfile, error) {
	if err := s.enter("CreateEditorProfile"); err != nil {
		return nil, err
	}
	return s.base.CreateEditorProfile(ctx, p)
}

func (s *Store) UpdateEditorProfile(ctx context.Context, id int64, p models.EditorProfilePatch) (*models.EditorProfile, error) {
	if err := s.enter("UpdateEditorProfile"); err != nil {
		return nil, err
	}
	return s.base.UpdateEditorProfile(ctx, id, p)
}

func (s *Store) GetReview(ctx context.Context, id int64) (*models.Review, error) {
	if err := s.enter("GetReview"); err != nil {
		return nil, err
	}
	return s.base.GetReview(ctx, id)
}

func (s *Store) ListReviewsByEditor(ctx context.Context, editorID int64) ([]models.Review, error) {
	if err := s.enter("ListReviewsByEditor"); err != nil {
		return nil, err
	}
	return s.base.ListReviewsByEditor(ctx, editorID)
}

func (s *Store) ListReviewsByCreator(ctx context.Context, creatorID int64) ([]models.Review, error) {
	if err := s.enter("ListReviewsByCreator"); err != nil {
		return nil, err
	}
	return s.base.ListReviewsByCreator(ctx, creatorID)
}

func (s *Store) CreateReview(ctx context.Context, r models.InsertReview) (*models.Review, error) {
	if err := s.enter("CreateReview"); err != nil {
		return nil, err
	}
	return s.base.CreateReview(ctx, r)
}

func (s *Store) GetApplication(ctx context.Context, id int64) (*models.Application, error) {
	if err := s.enter("GetApplication"); err != nil {
		return nil, err
	}
	return s.base.GetApplication(ctx, id)
}

func (s *Store) ListApplicationsByJob(ctx context.Context, jobID int64) ([]models.Application, error) {
	if err := s.enter("ListApplicationsByJob"); err != nil {
		return nil, err
	}
	return s.base.ListApplicationsByJob(ctx, jobID)
}

func (s *Store) ListApplicationsByEditor(ctx context.Context, editorID int64) ([]models.Application, error) {
	if err := s.enter("ListApplicationsByEditor"); err != nil {
		return nil, err
	}
	return s.base.ListApplicationsByEditor(ctx, editorID)
}

func (s *Store) CreateApplication(ctx context.Context, a models.InsertApplication) (*models.Application, error) {
	if err := s.enter("CreateApplication"); err != nil {
		return nil, err
	}
	return s.base.CreateApplication(ctx, a)
}

func (s *Store) UpdateApplication(ctx context.Context, id int64, p models.ApplicationPatch) (*models.Application, error) {
	if err := s.enter("UpdateApplication"); err != nil {
		return nil, err
	}
	return s.base.UpdateApplication(ctx, id, p)
}

func (s *Store) TransitionApplication(ctx context.Context, id int64, from, to models.ApplicationStatus) (*models.Application, error) {
	if err := s.enter("TransitionApplication"); err != nil {
		return nil, err
	}
	return s.base.TransitionApplication(ctx, id, from, to)
}
