// Package gaze records simulated eye-tracking fixations on a fixed-size
// drawing surface and renders them as fading dots or a radial heatmap.
package gaze

import (
	"math"
	"time"
)

const (
	MinDotRadius     = 5
	MaxDotRadius     = 30
	DefaultDotRadius = 15

	DefaultSurfaceWidth  = 700
	DefaultSurfaceHeight = 500
)

// Point is a recorded fixation in surface-pixel space.
type Point struct {
	X                float64 `json:"x"`
	Y                float64 `json:"y"`
	CapturedAtMillis int64   `json:"captured_at_millis"`
}

// PointerEvent is a raw click position in client (viewport) coordinates.
type PointerEvent struct {
	ClientX float64
	ClientY float64
}

// SurfaceRect is where the surface is displayed in client coordinates,
// after CSS scaling.
type SurfaceRect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// RenderState is the mutable state of one attention demo session. It is not
// safe for concurrent use; the owner serializes transitions.
type RenderState struct {
	width          int
	height         int
	points         []Point
	dotRadius      int
	heatmapEnabled bool
}

// NewRenderState returns an empty state for a surface of the given
// intrinsic size. Non-positive sizes fall back to the defaults.
func NewRenderState(width, height, dotRadius int) *RenderState {
	if width <= 0 {
		width = DefaultSurfaceWidth
	}
	if height <= 0 {
		height = DefaultSurfaceHeight
	}
	return &RenderState{
		width:     width,
		height:    height,
		dotRadius: ClampRadius(dotRadius),
	}
}

// Record converts a pointer event to surface coordinates and appends it.
// Coordinates that overflow to infinity pin to the nearest surface edge.
func (s *RenderState) Record(ev PointerEvent, rect SurfaceRect, at time.Time) Point {
	p := Point{
		X:                surfaceCoord((ev.ClientX-rect.Left)*scale(s.width, rect.Width), s.width),
		Y:                surfaceCoord((ev.ClientY-rect.Top)*scale(s.height, rect.Height), s.height),
		CapturedAtMillis: at.UnixMilli(),
	}
	s.points = append(s.points, p)
	return p
}

// scale is the per-axis factor from display pixels to intrinsic pixels.
func scale(intrinsic int, displayed float64) float64 {
	if displayed <= 0 {
		return 1
	}
	return float64(intrinsic) / displayed
}

func surfaceCoord(v float64, limit int) float64 {
	switch {
	case math.IsNaN(v), math.IsInf(v, -1):
		return 0
	case math.IsInf(v, 1):
		return float64(limit)
	}
	return v
}

// Clear drops every recorded point. Radius and mode are kept.
func (s *RenderState) Clear() {
	s.points = nil
}

// SetRadius replaces the dot radius, clamped to [MinDotRadius, MaxDotRadius],
// and returns the applied value.
func (s *RenderState) SetRadius(r int) int {
	s.dotRadius = ClampRadius(r)
	return s.dotRadius
}

// ToggleHeatmap flips the render mode and returns the new value.
func (s *RenderState) ToggleHeatmap() bool {
	s.heatmapEnabled = !s.heatmapEnabled
	return s.heatmapEnabled
}

// Points returns a copy of the recorded points in capture order.
func (s *RenderState) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// PointCount is the number of recorded points.
func (s *RenderState) PointCount() int { return len(s.points) }

// DotRadius is the current dot radius in surface pixels.
func (s *RenderState) DotRadius() int { return s.dotRadius }

// HeatmapEnabled reports whether Render paints the heatmap.
func (s *RenderState) HeatmapEnabled() bool { return s.heatmapEnabled }

// Width is the intrinsic surface width.
func (s *RenderState) Width() int { return s.width }

// Height is the intrinsic surface height.
func (s *RenderState) Height() int { return s.height }

// ClampRadius clamps r into the slider range.
func ClampRadius(r int) int {
	if r < MinDotRadius {
		return MinDotRadius
	}
	if r > MaxDotRadius {
		return MaxDotRadius
	}
	return r
}
