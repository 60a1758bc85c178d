package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"order-etl/internal/archive"
	"order-etl/internal/config"
	"order-etl/internal/database"
	"order-etl/internal/metrics"
	"order-etl/internal/repository"
	"order-etl/internal/service"
	"order-etl/internal/weekday"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	runID := uuid.NewString()
	logger := config.NewLogger(cfg.Logger).With().Str("run_id", runID).Logger()
	logger.Info().Msg("starting order ETL run")

	// Cancel on interrupt so blocking database calls return.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Source, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize source database: %w", err)
	}
	defer pool.Close()

	mongoClient, err := database.NewMongoClient(ctx, cfg.Sink, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize document store: %w", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from document store")
		}
	}()

	location, err := time.LoadLocation(cfg.Source.WeekdayTimezone)
	if err != nil {
		return fmt.Errorf("failed to load weekday timezone: %w", err)
	}

	resolver, err := weekday.NewResolver(cfg.Source.WeekdayLocale, location)
	if err != nil {
		return fmt.Errorf("failed to initialize weekday resolver: %w", err)
	}

	sourceRepo := repository.NewSourceRepository(pool, logger)
	collection := mongoClient.Database(cfg.Sink.Database).Collection(cfg.Sink.Collection)
	documentRepo := repository.NewOrderDocumentRepository(collection, logger)

	registry := metrics.NewRegistry()

	etl := service.NewETLService(
		sourceRepo,
		documentRepo,
		service.NewAggregator(resolver, logger),
		newArchiver(ctx, cfg.Archive, logger),
		registry,
		service.ETLConfig{RunID: runID, FetchSize: cfg.Source.FetchSize},
		logger,
	)

	_, runErr := etl.Run(ctx)

	if cfg.Metrics.PushgatewayURL != "" {
		pushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := registry.Push(pushCtx, cfg.Metrics.PushgatewayURL, cfg.Metrics.JobName); err != nil {
			logger.Warn().Err(err).Msg("failed to push run metrics")
		}
	}

	if runErr != nil {
		logger.Error().Err(runErr).Msg("order ETL run failed")
		return runErr
	}

	logger.Info().Msg("order ETL run completed")
	return nil
}

// newArchiver returns nil when archiving is disabled. S3 initialisation
// failures fall back to the local file system.
func newArchiver(ctx context.Context, cfg config.ArchiveConfig, logger zerolog.Logger) archive.Archiver {
	if !cfg.Enabled {
		return nil
	}

	fileArchiver := archive.NewFileArchiver(cfg.LocalDir, logger)
	if !cfg.S3Enabled {
		logger.Info().Str("dir", cfg.LocalDir).Msg("archiving to local file system (S3 disabled)")
		return fileArchiver
	}

	s3Archiver, err := archive.NewS3Archiver(ctx, cfg.Bucket, cfg.Region, cfg.Prefix, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 archiver, falling back to local file system only")
		return fileArchiver
	}

	return archive.NewFallbackArchiver(s3Archiver, fileArchiver, logger)
}
