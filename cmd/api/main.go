package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/statement-ingest/internal/api"
	"github.com/dvloznov/statement-ingest/internal/api/handlers"
	"github.com/dvloznov/statement-ingest/internal/app"
	"github.com/dvloznov/statement-ingest/internal/config"
	"github.com/dvloznov/statement-ingest/internal/gcs"
	"github.com/dvloznov/statement-ingest/internal/gcsuploader"
	"github.com/dvloznov/statement-ingest/internal/jobs"
	"github.com/dvloznov/statement-ingest/internal/jobs/inmemory"
	"github.com/dvloznov/statement-ingest/internal/logger"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("Invalid log level")
	}

	var (
		port   = flag.String("port", cfg.ServerPort, "HTTP server port (or set SERVER_PORT env)")
		bucket = flag.String("bucket", cfg.GCSBucket, "GCS bucket for archiving uploaded statements (or set GCS_BUCKET env)")
		dryRun = flag.Bool("dry-run", false, "Keep expenses in memory instead of PostgreSQL")
	)
	flag.Parse()

	ctx := logger.WithContext(context.Background(), log)

	stack, err := app.NewStack(ctx, cfg, *dryRun)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize import stack")
	}
	defer stack.Close()

	var storage gcs.StorageService
	if *bucket == "" {
		log.Warn().Msg("No GCS bucket configured - uploads are held in memory until processed")
	} else {
		storage = gcsuploader.NewGCSStorageService()
	}

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, cfg.JobWorkers, jobStore)

	var factories []jobs.ReporterFactory
	if notion := app.NotionReporters(cfg); notion != nil {
		log.Info().Msg("Import progress is mirrored to Notion")
		factories = append(factories, notion)
	}
	processor := jobs.NewProcessor(stack.Importer, gcsuploader.NewGCSStorageService(), jobStore, factories...)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	log.Info().Int("workers", cfg.JobWorkers).Msg("Starting job workers")
	if err := jobQueue.Start(workerCtx, processor.Handle); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job workers")
	}

	uploadsHandler := handlers.NewUploadsHandler(jobQueue, storage, *bucket, cfg.MaxUploadBytes)
	jobsHandler := handlers.NewJobsHandler(jobStore)

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      api.NewRouter(uploadsHandler, jobsHandler, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// In-flight imports finish before the workers are released
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}
	cancelWorker()

	if err := jobQueue.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close job queue")
	}

	log.Info().Msg("Server exited")
}
