package gaze

import (
	"time"

	"github.com/google/uuid"
)

// Session owns the render state of one open attention page.
type Session struct {
	ID           uuid.UUID
	State        *RenderState
	CreatedAt    time.Time
	LastActiveAt time.Time
}

// NewSession creates a session with a fresh state.
func NewSession(state *RenderState, now time.Time) *Session {
	return &Session{
		ID:           uuid.New(),
		State:        state,
		CreatedAt:    now,
		LastActiveAt: now,
	}
}

// Frame is the result of rendering a session at a point in time.
type Frame struct {
	Ops            []Op  `json:"ops" doc:"Drawing operations in paint order"`
	Width          int   `json:"width" doc:"Intrinsic surface width"`
	Height         int   `json:"height" doc:"Intrinsic surface height"`
	PointCount     int   `json:"point_count" doc:"Number of recorded points"`
	DotRadius      int   `json:"dot_radius" doc:"Current dot radius"`
	HeatmapEnabled bool  `json:"heatmap_enabled" doc:"Whether heatmap mode is on"`
	RenderedAt     int64 `json:"rendered_at_millis" doc:"Render time"`
}

// RenderFrame renders the state into a display list.
func (s *RenderState) RenderFrame(now time.Time) Frame {
	var dl DisplayList
	s.Render(&dl, now)
	return Frame{
		Ops:            dl.Ops(),
		Width:          s.width,
		Height:         s.height,
		PointCount:     len(s.points),
		DotRadius:      s.dotRadius,
		HeatmapEnabled: s.heatmapEnabled,
		RenderedAt:     now.UnixMilli(),
	}
}
