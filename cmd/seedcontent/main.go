package main

import (
	"context"
	"database/sql"
	"io/fs"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/medvis/internal/config"
	"github.com/RMahshie/medvis/internal/content"
	"github.com/RMahshie/medvis/internal/repository/postgres"
	"github.com/RMahshie/medvis/internal/storage"
	"github.com/RMahshie/medvis/internal/web"
)

// seedcontent copies the page label documents into the S3 or Postgres
// content backend. SEED_TARGET overrides CONTENT_BACKEND.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var src fs.FS = web.Content()
	if cfg.Content.Dir != "" {
		src = os.DirFS(cfg.Content.Dir)
	}

	target := config.GetStringOrDefault("SEED_TARGET", cfg.Content.Backend)

	var sink content.Sink
	var pgRepo *postgres.PostgresContentRepository
	switch target {
	case config.ContentBackendS3:
		s3Service, err := storage.NewS3Service(storage.S3Config{
			Bucket:    cfg.AWS.S3Bucket,
			Endpoint:  cfg.AWS.S3Endpoint,
			Region:    cfg.AWS.Region,
			AccessKey: cfg.AWS.AccessKeyID,
			SecretKey: cfg.AWS.SecretAccessKey,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 service")
		}
		sink = content.S3Sink{S3: s3Service, Prefix: cfg.AWS.ContentPrefix}

	case config.ContentBackendPostgres:
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open database")
		}
		defer db.Close()

		pgRepo = postgres.NewPostgresContentRepository(db)
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to prepare content schema")
		}
		sink = pgRepo

	default:
		log.Fatal().Str("target", target).Msg("SEED_TARGET must be s3 or postgres")
	}

	n, err := content.Seed(ctx, src, sink)
	if err != nil {
		log.Fatal().Err(err).Int("seeded", n).Msg("Seeding failed")
	}

	log.Info().Str("target", target).Int("pages", n).Msg("Content seeded")

	if pgRepo != nil {
		stored, err := pgRepo.ListPages(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to list stored pages")
		}
		for page, updatedAt := range stored {
			log.Info().Str("page", page).Time("updated_at", updatedAt).Msg("Stored page")
		}
	}
}
