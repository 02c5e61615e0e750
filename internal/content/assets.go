package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/RMahshie/medvis/internal/storage"
	"github.com/rs/zerolog/log"
)

// AssetResolver turns an image reference from a page document into a URL
type AssetResolver interface {
	Resolve(ctx context.Context, path string) (string, error)
}

// BasePathResolver prefixes references with the site's base path.
// Absolute URLs pass through unchanged.
type BasePathResolver struct {
	BasePath string
}

func (r BasePathResolver) Resolve(ctx context.Context, path string) (string, error) {
	if isAbsoluteURL(path) {
		return path, nil
	}
	base := strings.TrimSuffix(r.BasePath, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path, nil
}

// S3Resolver presigns bucket objects; the reference path is the object key.
type S3Resolver struct {
	S3 storage.S3Service
}

func (r S3Resolver) Resolve(ctx context.Context, path string) (string, error) {
	if isAbsoluteURL(path) {
		return path, nil
	}
	url, err := r.S3.GenerateDownloadURL(ctx, strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("failed to resolve asset %s: %w", path, err)
	}
	return url, nil
}

// ResolveAll resolves a name to path map. Failures are logged and the
// original path is kept so a page still renders.
func ResolveAll(ctx context.Context, r AssetResolver, paths map[string]string) map[string]string {
	out := make(map[string]string, len(paths))
	for name, path := range paths {
		url, err := r.Resolve(ctx, path)
		if err != nil {
			log.Warn().Err(err).Str("asset", name).Msg("Falling back to unresolved asset path")
			url = path
		}
		out[name] = url
	}
	return out
}

func isAbsoluteURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}
