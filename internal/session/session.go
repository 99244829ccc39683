// Package session tracks authenticated users between requests. A session lives in a
// server-side Store and reaches the client either as a signed cookie or as a bearer
// JWT naming the session.
package session

import (
	"context"
	"time"

	"github.com/garnizeh/reelwork/pkg/models"
)

type Session struct {
	Token     string
	UserID    int64
	Role      models.Role
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions by token. Get returns (nil, nil) for unknown tokens.
type Store interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
