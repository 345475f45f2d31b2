package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	api "github.com/biotools-linter/linter-api/pkg/api_client"
	"github.com/biotools-linter/linter-api/pkg/api_client/catalog"
	"github.com/biotools-linter/linter-api/pkg/api_client/handler"
	"github.com/biotools-linter/linter-api/pkg/api_client/jobs"
	"github.com/biotools-linter/linter-api/pkg/api_client/middleware"
	"github.com/biotools-linter/linter-api/pkg/api_client/services"
	"github.com/biotools-linter/linter-api/pkg/api_client/store"
	"github.com/biotools-linter/linter-api/pkg/cache"
	"github.com/biotools-linter/linter-api/pkg/config"
)

func loadConfig() (*config.Config, error) {
	// Flags override the environment.
	if statsFlag != "" {
		os.Setenv("STATS_FILE", statsFlag)
	}
	if portFlag != 0 {
		os.Setenv("PORT", strconv.Itoa(portFlag))
	}
	return config.Load()
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}
	return logger.Level(level)
}

func newStatisticsService(cfg *config.Config, s store.MessageStore, logger zerolog.Logger) *services.StatisticsService {
	return services.NewStatisticsService(cfg.StatsFile, catalog.Default(), s, services.NewBiotoolsClient(cfg.BiotoolsAPIURL), logger)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Wire store and cache
	msgStore, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer msgStore.Close()
	logger.Info().Str("driver", cfg.DatabaseDriver).Int("max_conns", cfg.DBMaxConns).Msg("connected to database")

	var (
		summaryCache services.SummaryCache
		cachePinger  handler.Pinger
	)
	if cfg.RedisURL != "" {
		rc, err := cache.New(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rc.Close()
		summaryCache = rc
		cachePinger = rc
		logger.Info().Msg("connected to Redis")
	}

	// Wire services and controller
	registry := services.NewInFlightRegistry()
	runner := services.NewJobRunner(
		services.ExecSpawner{},
		cfg.AnalyzerCommand,
		cfg.AnalyzerTimeout,
		services.ExitCodes{MalformedInput: cfg.AnalyzerExitMalformed, NoData: cfg.AnalyzerExitNoData},
		logger,
	)
	if cfg.AnalyzerTimeout == 0 {
		logger.Warn().Msg("ANALYZER_TIMEOUT is not set, a hanging analyzer keeps its relint slot forever")
	}
	statsSvc := newStatisticsService(cfg, msgStore, logger)
	controller := &handler.LinterController{
		Search:           services.NewSearchService(msgStore, logger),
		Summary:          services.NewSummaryService(msgStore, summaryCache, cfg.SummaryCacheTTL, logger),
		Statistics:       statsSvc,
		Relint:           services.NewRelintService(registry, runner, logger),
		Catalog:          catalog.Default(),
		Store:            msgStore,
		Cache:            cachePinger,
		ValidationStatus: cfg.RelintValidationStatus,
		Logger:           logger,
	}
	router := api.NewRouter(api.RouterOptions{
		APIVersion:  cfg.APIVersion,
		TrustRealIP: cfg.TrustRealIP,
		Limiter:     middleware.NewGlobalLimiter(cfg.RelintInterval),
		Logger:      logger,
	}, controller)

	if _, err := jobs.ScheduleStatistics(ctx, cfg.StatsSchedule, jobs.SnapshotFunc(func(ctx context.Context) error {
		_, err := statsSvc.Snapshot(ctx)
		return err
	}), logger); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Int("port", cfg.Port).Str("version", cfg.APIVersion).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	msgStore, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer msgStore.Close()

	entry, err := newStatisticsService(cfg, msgStore, logger).Snapshot(ctx)
	if err != nil {
		return err
	}
	logger.Info().Int64("time", entry.Time).Str("file", cfg.StatsFile).Msg("statistics snapshot written")
	return nil
}
