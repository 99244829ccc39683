package sqlrepo

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/garnizeh/reelwork/pkg/models"
)

// Row types mirror the table layout. Timestamps are unix milliseconds and skill
// lists are JSON arrays in a TEXT column so both dialects share one schema.

var userColumns = []string{"id", "username", "email", "password_hash", "full_name", "role", "avatar_url", "created_at"}

type userRow struct {
	ID           int64          `db:"id"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	FullName     string         `db:"full_name"`
	Role         string         `db:"role"`
	AvatarURL    sql.NullString `db:"avatar_url"`
	CreatedAt    int64          `db:"created_at"`
}

func (r userRow) model() *models.User {
	return &models.User{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		Password:  r.PasswordHash,
		FullName:  r.FullName,
		Role:      models.Role(r.Role),
		AvatarURL: fromNull(r.AvatarURL),
		CreatedAt: fromMillis(r.CreatedAt),
	}
}

var jobColumns = []string{"id", "title", "description", "job_type", "employment_type", "min_price", "max_price", "price_type", "skills", "creator_id", "is_active", "created_at"}

type jobRow struct {
	ID             int64  `db:"id"`
	Title          string `db:"title"`
	Description    string `db:"description"`
	JobType        string `db:"job_type"`
	EmploymentType string `db:"employment_type"`
	MinPrice       int64  `db:"min_price"`
	MaxPrice       int64  `db:"max_price"`
	PriceType      string `db:"price_type"`
	Skills         string `db:"skills"`
	CreatorID      int64  `db:"creator_id"`
	IsActive       bool   `db:"is_active"`
	CreatedAt      int64  `db:"created_at"`
}

func (r jobRow) model() (models.Job, error) {
	skills, err := decodeSkills(r.Skills)
	if err != nil {
		return models.Job{}, fmt.Errorf("job %d: %w", r.ID, err)
	}
	return models.Job{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		JobType:        r.JobType,
		EmploymentType: r.EmploymentType,
		MinPrice:       r.MinPrice,
		MaxPrice:       r.MaxPrice,
		PriceType:      r.PriceType,
		Skills:         skills,
		CreatorID:      r.CreatorID,
		IsActive:       r.IsActive,
		CreatedAt:      fromMillis(r.CreatedAt),
	}, nil
}

var profileColumns = []string{"id", "user_id", "title", "description", "skills", "hourly_rate", "experience", "portfolio_url", "is_available"}

type profileRow struct {
	ID           int64          `db:"id"`
	UserID       int64          `db:"user_id"`
	Title        string         `db:"title"`
	Description  string         `db:"description"`
	Skills       string         `db:"skills"`
	HourlyRate   int64          `db:"hourly_rate"`
	Experience   int64          `db:"experience"`
	PortfolioURL sql.NullString `db:"portfolio_url"`
	IsAvailable  bool           `db:"is_available"`
}

func (r profileRow) model() (models.EditorProfile, error) {
	skills, err := decodeSkills(r.Skills)
	if err != nil {
		return models.EditorProfile{}, fmt.Errorf("editor profile %d: %w", r.ID, err)
	}
	return models.EditorProfile{
		ID:           r.ID,
		UserID:       r.UserID,
		Title:        r.Title,
		Description:  r.Description,
		Skills:       skills,
		HourlyRate:   r.HourlyRate,
		Experience:   r.Experience,
		PortfolioURL: fromNull(r.PortfolioURL),
		IsAvailable:  r.IsAvailable,
	}, nil
}

var reviewColumns = []string{"id", "editor_id", "creator_id", "rating", "comment", "created_at"}

type reviewRow struct {
	ID        int64          `db:"id"`
	EditorID  int64          `db:"editor_id"`
	CreatorID int64          `db:"creator_id"`
	Rating    int            `db:"rating"`
	Comment   sql.NullString `db:"comment"`
	CreatedAt int64          `db:"created_at"`
}

func (r reviewRow) model() models.Review {
	return models.Review{
		ID:        r.ID,
		EditorID:  r.EditorID,
		CreatorID: r.CreatorID,
		Rating:    r.Rating,
		Comment:   fromNull(r.Comment),
		CreatedAt: fromMillis(r.CreatedAt),
	}
}

var applicationColumns = []string{"id", "job_id", "editor_id", "cover_letter", "price", "status", "created_at"}

type applicationRow struct {
	ID          int64  `db:"id"`
	JobID       int64  `db:"job_id"`
	EditorID    int64  `db:"editor_id"`
	CoverLetter string `db:"cover_letter"`
	Price       int64  `db:"price"`
	Status      string `db:"status"`
	CreatedAt   int64  `db:"created_at"`
}

func (r applicationRow) model() models.Application {
	return models.Application{
		ID:          r.ID,
		JobID:       r.JobID,
		EditorID:    r.EditorID,
		CoverLetter: r.CoverLetter,
		Price:       r.Price,
		Status:      models.ApplicationStatus(r.Status),
		CreatedAt:   fromMillis(r.CreatedAt),
	}
}

func encodeSkills(s []string) (string, error) {
	if s == nil {
		s = []string{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode skills: %w", err)
	}
	return string(b), nil
}

func decodeSkills(s string) ([]string, error) {
	out := []string{}
	if s == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("decode skills: %w", err)
	}
	return out, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
