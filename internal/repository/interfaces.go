package repository

import (
	"context"
	"errors"
	"time"

	"github.com/RMahshie/medvis/internal/gaze"
	"github.com/RMahshie/medvis/pkg/models"
	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrPageNotFound    = errors.New("page not found")
)

// SessionRepository defines the interface for attention session storage
type SessionRepository interface {
	Create(ctx context.Context, session *gaze.Session) error
	// Update runs fn with exclusive access to the session and marks it active.
	Update(ctx context.Context, id uuid.UUID, fn func(*gaze.Session) error) error
	// View runs fn with exclusive access to the session for reads; it also
	// marks the session active.
	View(ctx context.Context, id uuid.UUID, fn func(*gaze.Session) error) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
	EvictIdle(ctx context.Context, before time.Time) (int, error)
}

// ContentRepository defines the interface for page label lookups
type ContentRepository interface {
	GetPage(ctx context.Context, page string) (models.PageContent, error)
}
