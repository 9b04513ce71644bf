// Package session keeps dashboard sessions and their upstream credentials.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/ubox-pos/cloud-dashboard/internal/domain"
)

// ErrNotFound is returned when a session is missing or expired.
var ErrNotFound = errors.New("session not found")

// Store persists sessions by id.
type Store interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, sess *domain.Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
