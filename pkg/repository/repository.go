package repository

import (
	"context"
	"errors"

	"github.com/garnizeh/reelwork/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
//
// Lookups return (nil, nil) when the record does not exist. Updates return
// (nil, nil) when the target id is unknown.

type UserRepo interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, f UserFilter) ([]models.User, error)
	CreateUser(ctx context.Context, u models.InsertUser) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, p models.UserPatch) (*models.User, error)
}

type JobRepo interface {
	GetJob(ctx context.Context, id int64) (*models.Job, error)
	ListJobs(ctx context.Context, f JobFilter) ([]models.Job, error)
	ListJobsByCreator(ctx context.Context, creatorID int64) ([]models.Job, error)
	CreateJob(ctx context.Context, j models.InsertJob) (*models.Job, error)
	UpdateJob(ctx context.Context, id int64, p models.JobPatch) (*models.Job, error)
}

type EditorProfileRepo interface {
	GetEditorProfile(ctx context.Context, id int64) (*models.EditorProfile, error)
	GetEditorProfileByUserID(ctx context.Context, userID int64) (*models.EditorProfile, error)
	ListEditorProfiles(ctx context.Context, f EditorProfileFilter) ([]models.EditorProfile, error)
	CreateEditorProfile(ctx context.Context, p models.InsertEditorProfile) (*models.EditorProfile, error)
	UpdateEditorProfile(ctx context.Context, id int64, p models.EditorProfilePatch) (*models.EditorProfile, error)
}

type ReviewRepo interface {
	GetReview(ctx context.Context, id int64) (*models.Review, error)
	ListReviewsByEditor(ctx context.Context, editorID int64) ([]models.Review, error)
	ListReviewsByCreator(ctx context.Context, creatorID int64) ([]models.Review, error)
	CreateReview(ctx context.Context, r models.InsertReview) (*models.Review, error)
}

type ApplicationRepo interface {
	GetApplication(ctx context.Context, id int64) (*models.Application, error)
	ListApplicationsByJob(ctx context.Context, jobID int64) ([]models.Application, error)
	ListApplicationsByEditor(ctx context.Context, editorID int64) ([]models.Application, error)
	CreateApplication(ctx context.Context, a models.InsertApplication) (*models.Application, error)
	UpdateApplication(ctx context.Context, id int64, p models.ApplicationPatch) (*models.Application, error)
	// TransitionApplication moves an application from one status to another only if it
	// still holds the expected status. A mismatch yields an error matching ErrConflict.
	TransitionApplication(ctx context.Context, id int64, from, to models.ApplicationStatus) (*models.Application, error)
}

// Store is the full storage surface used by the HTTP layer.
type Store interface {
	UserRepo
	JobRepo
	EditorProfileRepo
	ReviewRepo
	ApplicationRepo
}

// Filters select records by equality on every non-nil field. Results are always
// ordered by ascending id, which matches insertion order.

type UserFilter struct {
	Role *models.Role
}

type JobFilter struct {
	CreatorID      *int64
	IsActive       *bool
	JobType        *string
	EmploymentType *string
	PriceType      *string
}

type EditorProfileFilter struct {
	UserID      *int64
	IsAvailable *bool
}

// ErrConflict is matched by every uniqueness or state-precondition failure.
var ErrConflict = errors.New("conflict")

// ErrPriceRange is returned when an update would leave a job's minPrice above its
// maxPrice. The check runs against the stored row inside the write.
var ErrPriceRange = errors.New("minPrice exceeds maxPrice")

// Fields reported by ConflictError.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldUserID   = "userId"
	FieldStatus   = "status"
)

// ConflictError names the field whose uniqueness (or expected state) was violated.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return "conflict on " + e.Field
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ConflictField returns the conflicting field name, or "" when err is not a conflict.
func ConflictField(err error) string {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Field
	}
	return ""
}
