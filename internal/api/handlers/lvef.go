package handlers

import (
	"context"
	"errors"

	"github.com/RMahshie/medvis/internal/lvef"
	"github.com/RMahshie/medvis/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"
)

// LVEFHandler handles ejection fraction requests
type LVEFHandler struct{}

// NewLVEFHandler creates a new LVEF handler
func NewLVEFHandler() *LVEFHandler {
	return &LVEFHandler{}
}

// Compute calculates and classifies an ejection fraction
func (h *LVEFHandler) Compute(ctx context.Context, req *models.ComputeLVEFRequest) (*models.ComputeLVEFResponse, error) {
	in, err := lvef.ParseInput(req.Body.EDV.String(), req.Body.ESV.String())
	if err != nil {
		log.Debug().Str("edv", req.Body.EDV.String()).Str("esv", req.Body.ESV.String()).Msg("Unparsable LVEF input")
		return nil, lvefError(err)
	}

	result, err := lvef.Compute(in.EDV, in.ESV)
	if err != nil {
		log.Debug().Float64("edv", in.EDV).Float64("esv", in.ESV).Err(err).Msg("Rejected LVEF input")
		return nil, lvefError(err)
	}

	return &models.ComputeLVEFResponse{
		Body: models.ComputeLVEFResponseBody{
			Percentage: result.Percentage,
			Category:   string(result.Category),
			Color:      result.Color,
			Summary:    result.Summary(),
		},
	}, nil
}

// ListCategories returns the classification table
func (h *LVEFHandler) ListCategories(ctx context.Context, req *struct{}) (*models.ListLVEFCategoriesResponse, error) {
	resp := &models.ListLVEFCategoriesResponse{}
	for _, b := range lvef.Bands() {
		resp.Body.Bands = append(resp.Body.Bands, models.LVEFBand{
			Category:  string(b.Category),
			Color:     b.Color,
			Lower:     b.Lower,
			Inclusive: b.Inclusive,
			Range:     b.Range,
		})
	}
	return resp, nil
}

// lvefError maps validation failures to HTTP errors
func lvefError(err error) error {
	var verr *lvef.ValidationError
	if !errors.As(err, &verr) {
		return huma.Error500InternalServerError("Failed to compute LVEF", err)
	}
	if errors.Is(err, lvef.ErrRangeViolation) {
		return huma.Error422UnprocessableEntity(verr.Message, err)
	}
	return huma.Error400BadRequest(verr.Message, err)
}
