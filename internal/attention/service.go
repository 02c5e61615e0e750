// Package attention runs the click-driven gaze demo: it owns session
// lifecycle, applies state transitions and renders after every change.
package attention

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/RMahshie/medvis/internal/gaze"
	"github.com/RMahshie/medvis/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Snapshot describes a session without its point log
type Snapshot struct {
	ID             uuid.UUID
	Width          int
	Height         int
	DotRadius      int
	HeatmapEnabled bool
	Stats          gaze.Stats
	CreatedAt      time.Time
	LastActiveAt   time.Time
}

// Export is the downloadable point log of a session
type Export struct {
	SessionID  uuid.UUID
	ExportedAt time.Time
	DotRadius  int
	Points     []gaze.Point
}

type Service interface {
	StartSession(ctx context.Context, dotRadius int) (Snapshot, error)
	EndSession(ctx context.Context, id uuid.UUID) error
	Snapshot(ctx context.Context, id uuid.UUID) (Snapshot, error)
	RecordPoint(ctx context.Context, id uuid.UUID, ev gaze.PointerEvent, rect gaze.SurfaceRect) (gaze.Point, gaze.Frame, error)
	ClearPoints(ctx context.Context, id uuid.UUID) (gaze.Frame, error)
	SetDotRadius(ctx context.Context, id uuid.UUID, radius int) (gaze.Frame, error)
	ToggleHeatmap(ctx context.Context, id uuid.UUID) (gaze.Frame, error)
	Frame(ctx context.Context, id uuid.UUID) (gaze.Frame, error)
	ExportPoints(ctx context.Context, id uuid.UUID) (Export, error)
	FramePNG(ctx context.Context, id uuid.UUID, w io.Writer) error
	ActiveSessions(ctx context.Context) (int, error)
}

// Config sets the surface every new session draws on
type Config struct {
	Width            int
	Height           int
	DefaultDotRadius int
	// Now defaults to time.Now.
	Now func() time.Time
}

type service struct {
	sessions repository.SessionRepository
	cfg      Config
	now      func() time.Time
}

func NewService(sessions repository.SessionRepository, cfg Config) Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	if cfg.DefaultDotRadius == 0 {
		cfg.DefaultDotRadius = gaze.DefaultDotRadius
	}
	return &service{
		sessions: sessions,
		cfg:      cfg,
		now:      now,
	}
}

// StartSession opens a session. A zero radius selects the configured default.
func (s *service) StartSession(ctx context.Context, dotRadius int) (Snapshot, error) {
	if dotRadius == 0 {
		dotRadius = s.cfg.DefaultDotRadius
	}
	session := gaze.NewSession(gaze.NewRenderState(s.cfg.Width, s.cfg.Height, dotRadius), s.now())
	if err := s.sessions.Create(ctx, session); err != nil {
		return Snapshot{}, fmt.Errorf("failed to create session: %w", err)
	}

	log.Info().
		Str("session_id", session.ID.String()).
		Int("dot_radius", session.State.DotRadius()).
		Msg("Attention session started")
	return snapshotOf(session), nil
}

func (s *service) EndSession(ctx context.Context, id uuid.UUID) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("session_id", id.String()).Msg("Attention session ended")
	return nil
}

func (s *service) Snapshot(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	var snap Snapshot
	err := s.sessions.View(ctx, id, func(session *gaze.Session) error {
		snap = snapshotOf(session)
		return nil
	})
	return snap, err
}

// RecordPoint appends a click and returns the point with the new frame
func (s *service) RecordPoint(ctx context.Context, id uuid.UUID, ev gaze.PointerEvent, rect gaze.SurfaceRect) (gaze.Point, gaze.Frame, error) {
	var point gaze.Point
	frame, err := s.mutate(ctx, id, func(state *gaze.RenderState, now time.Time) {
		point = state.Record(ev, rect, now)
	})
	return point, frame, err
}

func (s *service) ClearPoints(ctx context.Context, id uuid.UUID) (gaze.Frame, error) {
	return s.mutate(ctx, id, func(state *gaze.RenderState, _ time.Time) {
		state.Clear()
	})
}

func (s *service) SetDotRadius(ctx context.Context, id uuid.UUID, radius int) (gaze.Frame, error) {
	return s.mutate(ctx, id, func(state *gaze.RenderState, _ time.Time) {
		state.SetRadius(radius)
	})
}

func (s *service) ToggleHeatmap(ctx context.Context, id uuid.UUID) (gaze.Frame, error) {
	return s.mutate(ctx, id, func(state *gaze.RenderState, _ time.Time) {
		state.ToggleHeatmap()
	})
}

// Frame renders the current state without changing it
func (s *service) Frame(ctx context.Context, id uuid.UUID) (gaze.Frame, error) {
	var frame gaze.Frame
	err := s.sessions.View(ctx, id, func(session *gaze.Session) error {
		frame = session.State.RenderFrame(s.now())
		return nil
	})
	return frame, err
}

func (s *service) ExportPoints(ctx context.Context, id uuid.UUID) (Export, error) {
	var export Export
	err := s.sessions.View(ctx, id, func(session *gaze.Session) error {
		export = Export{
			SessionID:  session.ID,
			ExportedAt: s.now(),
			DotRadius:  session.State.DotRadius(),
			Points:     session.State.Points(),
		}
		return nil
	})
	return export, err
}

// FramePNG rasterizes the current state and writes it as PNG
func (s *service) FramePNG(ctx context.Context, id uuid.UUID, w io.Writer) error {
	raster := gaze.NewRaster()
	err := s.sessions.View(ctx, id, func(session *gaze.Session) error {
		session.State.Render(raster, s.now())
		return nil
	})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := raster.EncodePNG(&buf); err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}

func (s *service) ActiveSessions(ctx context.Context) (int, error) {
	return s.sessions.Count(ctx)
}

// mutate applies fn under the session lock and renders the result
func (s *service) mutate(ctx context.Context, id uuid.UUID, fn func(*gaze.RenderState, time.Time)) (gaze.Frame, error) {
	var frame gaze.Frame
	err := s.sessions.Update(ctx, id, func(session *gaze.Session) error {
		now := s.now()
		fn(session.State, now)
		frame = session.State.RenderFrame(now)
		return nil
	})
	return frame, err
}

func snapshotOf(session *gaze.Session) Snapshot {
	return Snapshot{
		ID:             session.ID,
		Width:          session.State.Width(),
		Height:         session.State.Height(),
		DotRadius:      session.State.DotRadius(),
		HeatmapEnabled: session.State.HeatmapEnabled(),
		Stats:          session.State.Stats(),
		CreatedAt:      session.CreatedAt,
		LastActiveAt:   session.LastActiveAt,
	}
}
