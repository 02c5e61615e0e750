package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/RMahshie/medvis/internal/content"
	"github.com/RMahshie/medvis/internal/repository"
	"github.com/RMahshie/medvis/pkg/models"
)

// PostgresContentRepository implements ContentRepository for PostgreSQL
type PostgresContentRepository struct {
	db *sql.DB
}

// NewPostgresContentRepository creates a new PostgreSQL content repository
func NewPostgresContentRepository(db *sql.DB) *PostgresContentRepository {
	return &PostgresContentRepository{db: db}
}

// EnsureSchema creates the page_content table if it does not exist
func (r *PostgresContentRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS page_content (
			page       TEXT PRIMARY KEY,
			body       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create page_content table: %w", err)
	}
	return nil
}

// GetPage retrieves a page document by key
func (r *PostgresContentRepository) GetPage(ctx context.Context, page string) (models.PageContent, error) {
	query := `
		SELECT body
		FROM page_content
		WHERE page = $1`

	var body []byte
	err := r.db.QueryRowContext(ctx, query, page).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", page, repository.ErrPageNotFound)
		}
		return nil, fmt.Errorf("failed to query page %s: %w", page, err)
	}

	return content.Decode(page, body)
}

// PutPage inserts or replaces a page document
func (r *PostgresContentRepository) PutPage(ctx context.Context, page string, body []byte) error {
	query := `
		INSERT INTO page_content (page, body, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (page) DO UPDATE
		SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query, page, string(body), time.Now())
	return err
}

// ListPages returns the stored page keys with their last update time
func (r *PostgresContentRepository) ListPages(ctx context.Context) (map[string]time.Time, error) {
	query := `
		SELECT page, updated_at
		FROM page_content
		ORDER BY page`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pages := make(map[string]time.Time)
	for rows.Next() {
		var page string
		var updatedAt time.Time
		if err := rows.Scan(&page, &updatedAt); err != nil {
			return nil, err
		}
		pages[page] = updatedAt
	}
	return pages, rows.Err()
}
