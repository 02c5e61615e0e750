package content

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/RMahshie/medvis/internal/storage"
)

// Sink receives page documents when seeding a remote backend
type Sink interface {
	PutPage(ctx context.Context, page string, body []byte) error
}

// S3Sink uploads page documents to a bucket
type S3Sink struct {
	S3     storage.S3Service
	Prefix string
}

func (s S3Sink) PutPage(ctx context.Context, page string, body []byte) error {
	return s.S3.UploadFile(ctx, ObjectKey(s.Prefix, page), "application/json", body)
}

// Seed copies every known page from src into sink. Each document is decoded
// first so malformed JSON never reaches the backend.
func Seed(ctx context.Context, src fs.FS, sink Sink) (int, error) {
	seeded := 0
	for _, page := range Pages {
		data, err := fs.ReadFile(src, page+".json")
		if err != nil {
			return seeded, fmt.Errorf("failed to read page %s: %w", page, err)
		}
		if _, err := Decode(page, data); err != nil {
			return seeded, err
		}
		if err := sink.PutPage(ctx, page, data); err != nil {
			return seeded, fmt.Errorf("failed to seed page %s: %w", page, err)
		}
		seeded++
	}
	return seeded, nil
}
