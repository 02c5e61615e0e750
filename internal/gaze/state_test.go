package gaze

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestRecord_ScalesToSurface(t *testing.T) {
	tests := []struct {
		name  string
		ev    PointerEvent
		rect  SurfaceRect
		wantX float64
		wantY float64
	}{
		{
			name:  "unscaled",
			ev:    PointerEvent{ClientX: 110, ClientY: 70},
			rect:  SurfaceRect{Left: 10, Top: 20, Width: 700, Height: 500},
			wantX: 100,
			wantY: 50,
		},
		{
			name:  "displayed at half size",
			ev:    PointerEvent{ClientX: 60, ClientY: 45},
			rect:  SurfaceRect{Left: 10, Top: 20, Width: 350, Height: 250},
			wantX: 100,
			wantY: 50,
		},
		{
			name:  "independent axis scales",
			ev:    PointerEvent{ClientX: 140, ClientY: 100},
			rect:  SurfaceRect{Width: 1400, Height: 250},
			wantX: 70,
			wantY: 200,
		},
		{
			name:  "zero display size keeps client offset",
			ev:    PointerEvent{ClientX: 30, ClientY: 40},
			rect:  SurfaceRect{Left: 10, Top: 10},
			wantX: 20,
			wantY: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewRenderState(700, 500, DefaultDotRadius)
			p := s.Record(tt.ev, tt.rect, t0)
			assert.InDelta(t, tt.wantX, p.X, 1e-9)
			assert.InDelta(t, tt.wantY, p.Y, 1e-9)
			assert.Equal(t, t0.UnixMilli(), p.CapturedAtMillis)
			assert.Equal(t, []Point{p}, s.Points())
		})
	}
}

func TestRecord_OverflowPinsToSurfaceEdge(t *testing.T) {
	tests := []struct {
		name  string
		ev    PointerEvent
		rect  SurfaceRect
		wantX float64
		wantY float64
	}{
		{
			name:  "positive overflow",
			ev:    PointerEvent{ClientX: 1e308, ClientY: 50},
			rect:  SurfaceRect{Left: -1e308, Width: 700, Height: 500},
			wantX: 700,
			wantY: 50,
		},
		{
			name:  "negative overflow",
			ev:    PointerEvent{ClientX: 10, ClientY: -1e308},
			rect:  SurfaceRect{Top: 1e308, Width: 700, Height: 500},
			wantX: 10,
			wantY: 0,
		},
		{
			name:  "subnormal display width",
			ev:    PointerEvent{ClientX: 10, ClientY: 10},
			rect:  SurfaceRect{Width: 1e-320, Height: 500},
			wantX: 700,
			wantY: 10,
		},
		{
			name:  "nan client position",
			ev:    PointerEvent{ClientX: math.NaN(), ClientY: 10},
			rect:  SurfaceRect{Width: 700, Height: 500},
			wantX: 0,
			wantY: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewRenderState(700, 500, DefaultDotRadius)
			p := s.Record(tt.ev, tt.rect, t0)
			assert.Equal(t, tt.wantX, p.X)
			assert.Equal(t, tt.wantY, p.Y)

			_, err := json.Marshal(s.RenderFrame(t0))
			assert.NoError(t, err)
		})
	}
}

func TestRecord_CountAndOrder(t *testing.T) {
	s := NewRenderState(0, 0, 0)
	rect := SurfaceRect{Width: DefaultSurfaceWidth, Height: DefaultSurfaceHeight}

	for i := 0; i < 25; i++ {
		s.Record(PointerEvent{ClientX: float64(i), ClientY: float64(2 * i)}, rect, t0.Add(time.Duration(i)*time.Millisecond))
		assert.Equal(t, i+1, s.PointCount())
	}

	points := s.Points()
	for i, p := range points {
		assert.Equal(t, float64(i), p.X)
		assert.Equal(t, t0.UnixMilli()+int64(i), p.CapturedAtMillis)
	}
}

func TestNewRenderState_Defaults(t *testing.T) {
	s := NewRenderState(0, -1, 100)
	assert.Equal(t, DefaultSurfaceWidth, s.Width())
	assert.Equal(t, DefaultSurfaceHeight, s.Height())
	assert.Equal(t, MaxDotRadius, s.DotRadius())
	assert.False(t, s.HeatmapEnabled())
}

func TestClear(t *testing.T) {
	s := NewRenderState(700, 500, 20)
	s.ToggleHeatmap()
	rect := SurfaceRect{Width: 700, Height: 500}
	s.Record(PointerEvent{ClientX: 1, ClientY: 1}, rect, t0)
	s.Record(PointerEvent{ClientX: 2, ClientY: 2}, rect, t0)

	s.Clear()

	assert.Equal(t, 0, s.PointCount())
	assert.Equal(t, 20, s.DotRadius())
	assert.True(t, s.HeatmapEnabled())

	frame := s.RenderFrame(t0)
	require.Len(t, frame.Ops, 1)
	assert.Equal(t, OpClear, frame.Ops[0].Kind)
}

func TestSetRadius_Clamps(t *testing.T) {
	s := NewRenderState(700, 500, DefaultDotRadius)
	for _, tc := range []struct{ in, want int }{
		{-10, 5}, {0, 5}, {4, 5}, {5, 5}, {17, 17}, {30, 30}, {31, 30}, {1000, 30},
	} {
		assert.Equal(t, tc.want, s.SetRadius(tc.in), "SetRadius(%d)", tc.in)
		assert.Equal(t, tc.want, s.DotRadius())
	}
}

func TestToggleHeatmap_Twice(t *testing.T) {
	s := NewRenderState(700, 500, DefaultDotRadius)
	rect := SurfaceRect{Width: 700, Height: 500}
	s.Record(PointerEvent{ClientX: 10, ClientY: 10}, rect, t0)
	s.Record(PointerEvent{ClientX: 20, ClientY: 30}, rect, t0)
	before := s.Points()

	assert.True(t, s.ToggleHeatmap())
	assert.False(t, s.ToggleHeatmap())

	assert.False(t, s.HeatmapEnabled())
	assert.Equal(t, before, s.Points())
}

func TestPoints_ReturnsCopy(t *testing.T) {
	s := NewRenderState(700, 500, DefaultDotRadius)
	s.Record(PointerEvent{ClientX: 10, ClientY: 10}, SurfaceRect{Width: 700, Height: 500}, t0)

	points := s.Points()
	points[0].X = 999

	assert.Equal(t, 10.0, s.Points()[0].X)
}

func TestStats(t *testing.T) {
	s := NewRenderState(700, 500, DefaultDotRadius)
	assert.Equal(t, Stats{}, s.Stats())

	rect := SurfaceRect{Width: 700, Height: 500}
	s.Record(PointerEvent{ClientX: 0, ClientY: 0}, rect, t0)
	s.Record(PointerEvent{ClientX: 3, ClientY: 4}, rect, t0.Add(time.Second))
	s.Record(PointerEvent{ClientX: 3, ClientY: 10}, rect, t0.Add(2*time.Second))

	st := s.Stats()
	assert.Equal(t, 3, st.PointCount)
	assert.Equal(t, t0.UnixMilli(), st.FirstCapturedAt)
	assert.Equal(t, t0.Add(2*time.Second).UnixMilli(), st.LastCapturedAt)
	assert.InDelta(t, 11.0, st.PathLength, 1e-9)
}
