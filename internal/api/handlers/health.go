package handlers

import (
	"context"
	"time"

	"github.com/RMahshie/medvis/internal/attention"
	"github.com/RMahshie/medvis/pkg/models"
	"github.com/rs/zerolog/log"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// HealthHandler reports service health
type HealthHandler struct {
	attention attention.Service
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(svc attention.Service) *HealthHandler {
	return &HealthHandler{attention: svc}
}

// Health returns the service status and the number of open sessions
func (h *HealthHandler) Health(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
	resp := &models.HealthResponse{}
	resp.Body.Status = "healthy"
	resp.Body.Version = Version
	resp.Body.Time = time.Now()

	n, err := h.attention.ActiveSessions(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to count attention sessions")
	}
	resp.Body.ActiveSessions = n
	return resp, nil
}
