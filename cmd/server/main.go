package main

import (
	"context"
	"database/sql"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/medvis/internal/api"
	"github.com/RMahshie/medvis/internal/api/handlers"
	"github.com/RMahshie/medvis/internal/attention"
	"github.com/RMahshie/medvis/internal/config"
	"github.com/RMahshie/medvis/internal/content"
	"github.com/RMahshie/medvis/internal/repository"
	"github.com/RMahshie/medvis/internal/repository/memory"
	"github.com/RMahshie/medvis/internal/repository/postgres"
	"github.com/RMahshie/medvis/internal/storage"
	"github.com/RMahshie/medvis/internal/web"
)

func main() {
	// Configure zerolog for structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	configureLogging(cfg.Server)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// S3 is only dialled when a backend needs it
	var s3Service storage.S3Service
	if cfg.Content.Backend == config.ContentBackendS3 || cfg.Content.AssetBackend == config.AssetBackendS3 {
		s3Service, err = storage.NewS3Service(storage.S3Config{
			Bucket:    cfg.AWS.S3Bucket,
			Endpoint:  cfg.AWS.S3Endpoint,
			Region:    cfg.AWS.Region,
			AccessKey: cfg.AWS.AccessKeyID,
			SecretKey: cfg.AWS.SecretAccessKey,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 service")
		}
	}

	contentRepo, closeContent := openContent(ctx, cfg, s3Service)
	defer closeContent()

	// SIGHUP drops cached page labels
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-reload:
				contentRepo.Invalidate()
				log.Info().Msg("Content cache invalidated")
			}
		}
	}()

	var assets content.AssetResolver = content.BasePathResolver{BasePath: cfg.Server.BasePath}
	if cfg.Content.AssetBackend == config.AssetBackendS3 {
		assets = content.S3Resolver{S3: s3Service}
	}

	// Attention sessions live in memory and expire after SESSION_TTL
	sessions := memory.NewSessionRepository()
	go sessions.RunJanitor(ctx, cfg.Attention.SessionTTL, max(cfg.Attention.SessionTTL/2, time.Second))

	attentionSvc := attention.NewService(sessions, attention.Config{
		Width:            cfg.Attention.SurfaceWidth,
		Height:           cfg.Attention.SurfaceHeight,
		DefaultDotRadius: cfg.Attention.DefaultDotRadius,
	})

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse page templates")
	}

	// Create Chi router
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(zerologLogger())
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	// Create Huma API
	humaConfig := huma.DefaultConfig("Medical Visualization Hub API", handlers.Version)
	humaConfig.DocsPath = "/api/docs"
	humaAPI := humachi.New(router, humaConfig)

	api.RegisterAPI(humaAPI, attentionSvc, contentRepo, assets)
	api.RegisterPages(router, handlers.NewPageHandler(contentRepo, assets, renderer, attentionSvc, handlers.PageConfig{
		BasePath:    cfg.Server.BasePath,
		Width:       cfg.Attention.SurfaceWidth,
		Height:      cfg.Attention.SurfaceHeight,
		DotRadius:   cfg.Attention.DefaultDotRadius,
		FadeRefresh: cfg.Attention.FadeRefresh,
	}), cfg.Content.AssetsDir)

	// Start server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("content_backend", cfg.Content.Backend).
			Str("asset_backend", cfg.Content.AssetBackend).
			Msg("Starting Medical Visualization Hub server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// configureLogging switches to JSON output outside dev and applies LOG_LEVEL
func configureLogging(cfg config.ServerConfig) {
	if cfg.Env != "dev" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

// openContent builds the configured content repository behind a TTL cache.
// The returned func releases backend resources.
func openContent(ctx context.Context, cfg *config.Config, s3Service storage.S3Service) (*content.CachedRepository, func()) {
	var repo repository.ContentRepository
	closeFn := func() {}

	switch cfg.Content.Backend {
	case config.ContentBackendS3:
		repo = content.NewS3Repository(s3Service, cfg.AWS.ContentPrefix)

	case config.ContentBackendPostgres:
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open database")
		}
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		pgRepo := postgres.NewPostgresContentRepository(db)
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to prepare content schema")
		}
		repo = pgRepo
		closeFn = func() { db.Close() }

	default:
		var src fs.FS = web.Content()
		if cfg.Content.Dir != "" {
			src = os.DirFS(cfg.Content.Dir)
		}
		repo = content.NewFSRepository(src)
	}

	return content.NewCachedRepository(repo, cfg.Content.CacheTTL), closeFn
}

// zerologLogger returns a Chi middleware that logs HTTP requests using zerolog
func zerologLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("remote_ip", r.RemoteAddr).
					Str("request_id", middleware.GetReqID(r.Context())).
					Int("status", ww.Status()).
					Dur("latency", time.Since(start)).
					Str("user_agent", r.UserAgent()).
					Msg("HTTP request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
