package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/RMahshie/medvis/internal/repository"
	"github.com/RMahshie/medvis/internal/storage"
	"github.com/RMahshie/medvis/pkg/models"
)

// S3Repository reads page documents from a bucket under a key prefix
type S3Repository struct {
	s3     storage.S3Service
	prefix string
}

// NewS3Repository creates a content repository backed by S3 or MinIO
func NewS3Repository(s3Service storage.S3Service, prefix string) repository.ContentRepository {
	return &S3Repository{s3: s3Service, prefix: prefix}
}

// ObjectKey returns the key a page document is stored under
func ObjectKey(prefix, page string) string {
	return prefix + page + ".json"
}

// GetPage downloads and decodes a page document
func (r *S3Repository) GetPage(ctx context.Context, page string) (models.PageContent, error) {
	if !ValidPageKey(page) {
		return nil, fmt.Errorf("%q: %w", page, repository.ErrPageNotFound)
	}

	data, err := r.s3.DownloadFile(ctx, ObjectKey(r.prefix, page))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, fmt.Errorf("%s: %w", page, repository.ErrPageNotFound)
		}
		return nil, err
	}
	return Decode(page, data)
}
