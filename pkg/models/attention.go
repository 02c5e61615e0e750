package models

import (
	"time"

	"github.com/RMahshie/medvis/internal/gaze"
)

// SessionSummary describes an attention session without its points
type SessionSummary struct {
	ID             string     `json:"id" doc:"Session identifier"`
	Width          int        `json:"width" doc:"Intrinsic surface width"`
	Height         int        `json:"height" doc:"Intrinsic surface height"`
	DotRadius      int        `json:"dot_radius" minimum:"5" maximum:"30" doc:"Dot radius"`
	HeatmapEnabled bool       `json:"heatmap_enabled" doc:"Whether heatmap mode is on"`
	Stats          gaze.Stats `json:"stats" doc:"Point statistics"`
	CreatedAt      time.Time  `json:"created_at" doc:"Session start"`
	LastActiveAt   time.Time  `json:"last_active_at" doc:"Last interaction"`
}

// StartSessionRequest represents a request to open an attention session
type StartSessionRequest struct {
	Body *struct {
		DotRadius int `json:"dot_radius,omitempty" doc:"Initial dot radius, clamped to [5,30]"`
	}
}

// SessionResponse returns a session summary
type SessionResponse struct {
	Body SessionSummary
}

// SessionPathRequest addresses a session
type SessionPathRequest struct {
	ID string `path:"id" doc:"Session ID"`
}

// RecordPointRequest represents a click on the drawing surface
type RecordPointRequest struct {
	ID   string `path:"id" doc:"Session ID"`
	Body struct {
		ClientX       float64 `json:"client_x" required:"true" minimum:"-100000" maximum:"100000" doc:"Pointer x in client coordinates"`
		ClientY       float64 `json:"client_y" required:"true" minimum:"-100000" maximum:"100000" doc:"Pointer y in client coordinates"`
		RectLeft      float64 `json:"rect_left" minimum:"-100000" maximum:"100000" doc:"Left of the displayed surface in client coordinates"`
		RectTop       float64 `json:"rect_top" minimum:"-100000" maximum:"100000" doc:"Top of the displayed surface in client coordinates"`
		DisplayWidth  float64 `json:"display_width" required:"true" minimum:"1" maximum:"100000" doc:"Displayed surface width"`
		DisplayHeight float64 `json:"display_height" required:"true" minimum:"1" maximum:"100000" doc:"Displayed surface height"`
	}
}

// RecordPointResponse returns the recorded point and the new frame
type RecordPointResponse struct {
	Body struct {
		Point gaze.Point `json:"point" doc:"Recorded point in surface pixels"`
		Frame gaze.Frame `json:"frame" doc:"Frame rendered after recording"`
	}
}

// SetRadiusRequest represents a dot radius change
type SetRadiusRequest struct {
	ID   string `path:"id" doc:"Session ID"`
	Body struct {
		Radius int `json:"radius" required:"true" doc:"Requested radius, clamped to [5,30]"`
	}
}

// FrameResponse returns a rendered frame
type FrameResponse struct {
	Body gaze.Frame
}

// ExportPointsResponse returns the recorded points as a downloadable document
type ExportPointsResponse struct {
	ContentDisposition string `header:"Content-Disposition"`
	Body               struct {
		SessionID  string       `json:"session_id" doc:"Session ID"`
		ExportedAt time.Time    `json:"exported_at" doc:"Export time"`
		DotRadius  int          `json:"dot_radius" doc:"Dot radius at export"`
		Points     []gaze.Point `json:"points" doc:"Recorded points in insertion order"`
	}
}

// EndSessionResponse is empty; the session is gone
type EndSessionResponse struct{}
