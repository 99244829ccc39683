package models

import (
	"slices"
	"time"
)

// Domain models exchanged between the API and the storage engines. JSON names follow
// the camelCase contract the web client expects.

type Role string

const (
	RoleCreator Role = "creator"
	RoleEditor  Role = "editor"
	RoleAdmin   Role = "admin"
)

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

// User is a registered account. Password holds the stored credential and is never
// serialized.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	FullName  string    `json:"fullName"`
	Role      Role      `json:"role"`
	AvatarURL *string   `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

type Job struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	JobType        string    `json:"jobType"`
	EmploymentType string    `json:"employmentType"`
	MinPrice       int64     `json:"minPrice"`
	MaxPrice       int64     `json:"maxPrice"`
	PriceType      string    `json:"priceType"`
	Skills         []string  `json:"skills"`
	CreatorID      int64     `json:"creatorId"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

type EditorProfile struct {
	ID           int64    `json:"id"`
	UserID       int64    `json:"userId"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Skills       []string `json:"skills"`
	HourlyRate   int64    `json:"hourlyRate"`
	Experience   int64    `json:"experience"`
	PortfolioURL *string  `json:"portfolioUrl"`
	IsAvailable  bool     `json:"isAvailable"`
}

type Review struct {
	ID        int64     `json:"id"`
	EditorID  int64     `json:"editorId"`
	CreatorID int64     `json:"creatorId"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type Application struct {
	ID          int64             `json:"id"`
	JobID       int64             `json:"jobId"`
	EditorID    int64             `json:"editorId"`
	CoverLetter string            `json:"coverLetter"`
	Price       int64             `json:"price"`
	Status      ApplicationStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// Insertable forms: the fields a client may supply at creation time.

type InsertUser struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FullName  string  `json:"fullName"`
	Role      Role    `json:"role"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

type InsertJob struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	JobType        string   `json:"jobType"`
	EmploymentType string   `json:"employmentType"`
	MinPrice       int64    `json:"minPrice"`
	MaxPrice       int64    `json:"maxPrice"`
	PriceType      string   `json:"priceType"`
	Skills         []string `json:"skills"`
	CreatorID      int64    `json:"creatorId"`
	IsActive       *bool    `json:"isActive,omitempty"`
}

type InsertEditorProfile struct {
	UserID       int64    `json:"userId"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Skills       []string `json:"skills"`
	HourlyRate   int64    `json:"hourlyRate"`
	Experience   int64    `json:"experience"`
	PortfolioURL *string  `json:"portfolioUrl,omitempty"`
	IsAvailable  *bool    `json:"isAvailable,omitempty"`
}

type InsertReview struct {
	EditorID  int64   `json:"editorId"`
	CreatorID int64   `json:"creatorId"`
	Rating    int     `json:"rating"`
	Comment   *string `json:"comment,omitempty"`
}

type InsertApplication struct {
	JobID       int64             `json:"jobId"`
	EditorID    int64             `json:"editorId"`
	CoverLetter string            `json:"coverLetter"`
	Price       int64             `json:"price"`
	Status      ApplicationStatus `json:"status,omitempty"`
}

// Patches carry partial updates; nil fields are left untouched.

type UserPatch struct {
	Email     *string `json:"email,omitempty"`
	FullName  *string `json:"fullName,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

type JobPatch struct {
	Title          *string  `json:"title,omitempty"`
	Description    *string  `json:"description,omitempty"`
	JobType        *string  `json:"jobType,omitempty"`
	EmploymentType *string  `json:"employmentType,omitempty"`
	MinPrice       *int64   `json:"minPrice,omitempty"`
	MaxPrice       *int64   `json:"maxPrice,omitempty"`
	PriceType      *string  `json:"priceType,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	IsActive       *bool    `json:"isActive,omitempty"`
}

type EditorProfilePatch struct {
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Skills       []string `json:"skills,omitempty"`
	HourlyRate   *int64   `json:"hourlyRate,omitempty"`
	Experience   *int64   `json:"experience,omitempty"`
	PortfolioURL *string  `json:"portfolioUrl,omitempty"`
	IsAvailable  *bool    `json:"isAvailable,omitempty"`
}

type ApplicationPatch struct {
	CoverLetter *string            `json:"coverLetter,omitempty"`
	Price       *int64             `json:"price,omitempty"`
	Status      *ApplicationStatus `json:"status,omitempty"`
}

// Apply merges p into u.
func (u *User) Apply(p UserPatch) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.AvatarURL != nil {
		v := *p.AvatarURL
		u.AvatarURL = &v
	}
}

// Apply merges p into j.
func (j *Job) Apply(p JobPatch) {
	if p.Title != nil {
		j.Title = *p.Title
	}
	if p.Description != nil {
		j.Description = *p.Description
	}
	if p.JobType != nil {
		j.JobType = *p.JobType
	}
	if p.EmploymentType != nil {
		j.EmploymentType = *p.EmploymentType
	}
	if p.MinPrice != nil {
		j.MinPrice = *p.MinPrice
	}
	if p.MaxPrice != nil {
		j.MaxPrice = *p.MaxPrice
	}
	if p.PriceType != nil {
		j.PriceType = *p.PriceType
	}
	if p.Skills != nil {
		j.Skills = slices.Clone(p.Skills)
	}
	if p.IsActive != nil {
		j.IsActive = *p.IsActive
	}
}

// Apply merges p into e.
func (e *EditorProfile) Apply(p EditorProfilePatch) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Skills != nil {
		e.Skills = slices.Clone(p.Skills)
	}
	if p.HourlyRate != nil {
		e.HourlyRate = *p.HourlyRate
	}
	if p.Experience != nil {
		e.Experience = *p.Experience
	}
	if p.PortfolioURL != nil {
		v := *p.PortfolioURL
		e.PortfolioURL = &v
	}
	if p.IsAvailable != nil {
		e.IsAvailable = *p.IsAvailable
	}
}

// Apply merges p into a.
func (a *Application) Apply(p ApplicationPatch) {
	if p.CoverLetter != nil {
		a.CoverLetter = *p.CoverLetter
	}
	if p.Price != nil {
		a.Price = *p.Price
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
}

// IsTerminal reports whether no further status transition is allowed.
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected
}
