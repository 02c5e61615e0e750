package handlers

import (
	"context"
	"errors"
	"maps"

	"github.com/RMahshie/medvis/internal/content"
	"github.com/RMahshie/medvis/internal/repository"
	"github.com/RMahshie/medvis/pkg/models"
	"github.com/danielgtaylor/huma/v2"
)

// ContentHandler serves page label documents
type ContentHandler struct {
	repo   repository.ContentRepository
	assets content.AssetResolver
}

// NewContentHandler creates a new content handler
func NewContentHandler(repo repository.ContentRepository, assets content.AssetResolver) *ContentHandler {
	return &ContentHandler{
		repo:   repo,
		assets: assets,
	}
}

// GetContent returns a page's labels with image references resolved to URLs
func (h *ContentHandler) GetContent(ctx context.Context, req *models.GetContentRequest) (*models.GetContentResponse, error) {
	pc, err := h.repo.GetPage(ctx, req.Page)
	if err != nil {
		if errors.Is(err, repository.ErrPageNotFound) {
			return nil, huma.Error404NotFound("Page not found", err)
		}
		return nil, huma.Error500InternalServerError("Failed to load page content", err)
	}

	return &models.GetContentResponse{Body: withResolvedImages(ctx, h.assets, pc)}, nil
}

// withResolvedImages returns a shallow copy of pc whose "images" object
// holds resolved URLs. pc itself may be shared by a cache and is not modified.
func withResolvedImages(ctx context.Context, assets content.AssetResolver, pc models.PageContent) models.PageContent {
	images := pc.Images()
	if len(images) == 0 {
		return pc
	}

	out := maps.Clone(pc)
	resolved := make(map[string]any, len(images))
	for name, url := range content.ResolveAll(ctx, assets, images) {
		resolved[name] = url
	}
	out["images"] = resolved
	return out
}
