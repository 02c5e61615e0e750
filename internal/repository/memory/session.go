// Package memory holds in-process repository implementations.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/RMahshie/medvis/internal/gaze"
	"github.com/RMahshie/medvis/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type sessionEntry struct {
	mu      sync.Mutex
	session *gaze.Session
}

// SessionRepository keeps attention sessions in memory. Each session has its
// own lock so transitions on one session never block another.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*sessionEntry
	now      func() time.Time
}

// NewSessionRepository creates an empty in-memory session repository
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[uuid.UUID]*sessionEntry),
		now:      time.Now,
	}
}

// WithClock replaces the clock used to stamp activity
func (r *SessionRepository) WithClock(now func() time.Time) *SessionRepository {
	r.now = now
	return r
}

// Create stores a new session
func (r *SessionRepository) Create(ctx context.Context, session *gaze.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = &sessionEntry{session: session}
	return nil
}

func (r *SessionRepository) entry(id uuid.UUID) (*sessionEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return e, nil
}

// Update runs fn while holding the session lock
func (r *SessionRepository) Update(ctx context.Context, id uuid.UUID, fn func(*gaze.Session) error) error {
	e, err := r.entry(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.LastActiveAt = r.now()
	return fn(e.session)
}

// View runs fn while holding the session lock
func (r *SessionRepository) View(ctx context.Context, id uuid.UUID, fn func(*gaze.Session) error) error {
	return r.Update(ctx, id, fn)
}

// Delete removes a session
func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return repository.ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// Count returns the number of live sessions
func (r *SessionRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions), nil
}

// EvictIdle removes sessions whose last activity is before the cutoff
func (r *SessionRepository) EvictIdle(ctx context.Context, before time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, e := range r.sessions {
		e.mu.Lock()
		idle := e.session.LastActiveAt.Before(before)
		e.mu.Unlock()
		if idle {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted, nil
}

// RunJanitor evicts sessions idle longer than ttl every interval until ctx
// is cancelled.
func (r *SessionRepository) RunJanitor(ctx context.Context, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.EvictIdle(ctx, r.now().Add(-ttl))
			if err != nil {
				log.Error().Err(err).Msg("Session eviction failed")
				continue
			}
			if n > 0 {
				log.Info().Int("evicted", n).Dur("ttl", ttl).Msg("Evicted idle attention sessions")
			}
		}
	}
}
