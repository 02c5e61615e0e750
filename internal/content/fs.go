package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/RMahshie/medvis/internal/repository"
	"github.com/RMahshie/medvis/pkg/models"
)

// FSRepository reads <page>.json documents from a file system
type FSRepository struct {
	fsys fs.FS
}

// NewFSRepository creates a content repository over fsys
func NewFSRepository(fsys fs.FS) repository.ContentRepository {
	return &FSRepository{fsys: fsys}
}

// GetPage loads and decodes a page document
func (r *FSRepository) GetPage(ctx context.Context, page string) (models.PageContent, error) {
	if !ValidPageKey(page) {
		return nil, fmt.Errorf("%q: %w", page, repository.ErrPageNotFound)
	}

	data, err := fs.ReadFile(r.fsys, page+".json")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", page, repository.ErrPageNotFound)
		}
		return nil, fmt.Errorf("failed to read page %s: %w", page, err)
	}
	return Decode(page, data)
}
