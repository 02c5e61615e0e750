package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/RMahshie/medvis/internal/attention"
	"github.com/RMahshie/medvis/internal/gaze"
	"github.com/RMahshie/medvis/internal/repository"
	"github.com/RMahshie/medvis/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AttentionHandler handles attention demo session requests
type AttentionHandler struct {
	svc attention.Service
}

// NewAttentionHandler creates a new attention handler
func NewAttentionHandler(svc attention.Service) *AttentionHandler {
	return &AttentionHandler{svc: svc}
}

// StartSession opens a new drawing session
func (h *AttentionHandler) StartSession(ctx context.Context, req *models.StartSessionRequest) (*models.SessionResponse, error) {
	radius := 0
	if req.Body != nil {
		radius = req.Body.DotRadius
	}

	snap, err := h.svc.StartSession(ctx, radius)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to start session", err)
	}
	return &models.SessionResponse{Body: summaryOf(snap)}, nil
}

// GetSession returns the session state and point statistics
func (h *AttentionHandler) GetSession(ctx context.Context, req *models.SessionPathRequest) (*models.SessionResponse, error) {
	id, err := parseSessionID(req.ID)
	if err != nil {
		return nil, err
	}

	snap, err := h.svc.Snapshot(ctx, id)
	if err != nil {
		return nil, sessionError(err)
	}
	return &models.SessionResponse{Body: summaryOf(snap)}, nil
}

// EndSession discards a session and its points
func (h *AttentionHandler) EndSession(ctx context.Context, req *models.SessionPathRequest) (*models.EndSessionResponse, error) {
	id, err := parseSessionID(req.ID)
	if err != nil {
		return nil, err
	}

	if err := h.svc.EndSession(ctx, id); err != nil {
		return nil, sessionError(err)
	}
	return &models.EndSessionResponse{}, nil
}

// RecordPoint records a click on the surface
func (h *AttentionHandler) RecordPoint(ctx context.Context, req *models.RecordPointRequest) (*models.RecordPointResponse, error) {
	id, err := parseSessionID(req.ID)
	if err != nil {
		return nil, err
	}

	ev := gaze.PointerEvent{ClientX: req.Body.ClientX, ClientY: req.Body.ClientY}
	rect := gaze.SurfaceRect{
		Left:   req.Body.RectLeft,
		Top:    req.Body.RectTop,
		Width:  req.Body.DisplayWidth,
		Height: req.Body.DisplayHeight,
	}

	point, frame, err := h.svc.RecordPoint(ctx, id, ev, rect)
	if err != nil {
		return nil, sessionError(err)
	}

	resp := &models.RecordPointResponse{}
	resp.Body.Point = point
	resp.Body.Frame = frame
	return resp, nil
}

// ClearPoints drops every recorded point
func (h *AttentionHandler) ClearPoints(ctx context.Context, req *models.SessionPathRequest) (*models.FrameResponse, error) {
	return h.frameOp(ctx, req.ID, h.svc.ClearPoints)
}

// SetRadius changes the dot radius
func (h *AttentionHandler) SetRadius(ctx context.Context, req *models.SetRadiusRequest) (*models.FrameResponse, error) {
	return h.frameOp(ctx, req.ID, func(ctx context.Context, id uuid.UUID) (gaze.Frame, error) {
		return h.svc.SetDotRadius(ctx, id, req.Body.Radius)
	})
}

// ToggleHeatmap switches between dot and heatmap rendering
func (h *AttentionHandler) ToggleHeatmap(ctx context.Context, req *models.SessionPathRequest) (*models.FrameResponse, error) {
	return h.frameOp(ctx, req.ID, h.svc.ToggleHeatmap)
}

// GetFrame renders the session at the current time
func (h *AttentionHandler) GetFrame(ctx context.Context, req *models.SessionPathRequest) (*models.FrameResponse, error) {
	return h.frameOp(ctx, req.ID, h.svc.Frame)
}

// ExportPoints returns the point log as a JSON download
func (h *AttentionHandler) ExportPoints(ctx context.Context, req *models.SessionPathRequest) (*models.ExportPointsResponse, error) {
	id, err := parseSessionID(req.ID)
	if err != nil {
		return nil, err
	}

	export, err := h.svc.ExportPoints(ctx, id)
	if err != nil {
		return nil, sessionError(err)
	}

	log.Info().Str("session_id", id.String()).Int("points", len(export.Points)).Msg("Exporting attention points")
	resp := &models.ExportPointsResponse{
		ContentDisposition: fmt.Sprintf(`attachment; filename="gaze-points-%s.json"`, id),
	}
	resp.Body.SessionID = export.SessionID.String()
	resp.Body.ExportedAt = export.ExportedAt
	resp.Body.DotRadius = export.DotRadius
	resp.Body.Points = export.Points
	return resp, nil
}

func (h *AttentionHandler) frameOp(ctx context.Context, rawID string, op func(context.Context, uuid.UUID) (gaze.Frame, error)) (*models.FrameResponse, error) {
	id, err := parseSessionID(rawID)
	if err != nil {
		return nil, err
	}

	frame, err := op(ctx, id)
	if err != nil {
		return nil, sessionError(err)
	}
	return &models.FrameResponse{Body: frame}, nil
}

func parseSessionID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, huma.Error400BadRequest("Invalid session ID", err)
	}
	return id, nil
}

func sessionError(err error) error {
	if errors.Is(err, repository.ErrSessionNotFound) {
		return huma.Error404NotFound("Session not found", err)
	}
	return huma.Error500InternalServerError("Session operation failed", err)
}

func summaryOf(snap attention.Snapshot) models.SessionSummary {
	return models.SessionSummary{
		ID:             snap.ID.String(),
		Width:          snap.Width,
		Height:         snap.Height,
		DotRadius:      snap.DotRadius,
		HeatmapEnabled: snap.HeatmapEnabled,
		Stats:          snap.Stats,
		CreatedAt:      snap.CreatedAt,
		LastActiveAt:   snap.LastActiveAt,
	}
}
