package main

import (
	"context"
	"github.com/maxaizer/job-assistant/internal/config"
	"github.com/maxaizer/job-assistant/internal/logger"
	"github.com/maxaizer/job-assistant/internal/metrics"
	"github.com/maxaizer/job-assistant/internal/pdftext"
	"github.com/maxaizer/job-assistant/internal/services"
	"github.com/maxaizer/job-assistant/internal/web"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"time"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the feed scheduler and the usage cleaner",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func serve(ctx context.Context) error {

	cfg := config.Get()

	logger.Setup(ctx, cfg.Logger)
	defer logger.Cleanup()

	metrics.Register()

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	aiClient, closeAi, err := newAiClient(ctx, cfg.AI)
	if err != nil {
		return err
	}
	defer closeAi()

	limiter, closeLimiter, err := newRateLimitStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLimiter()

	source := newFeedSource(cfg.Feed)
	if cfg.Feed.Schedule != "" {
		scheduler, err := services.NewFeedScheduler(a.ingest, source, cfg.Feed.Schedule)
		if err != nil {
			return err
		}
		defer scheduler.Stop()
	}

	cleaner, err := services.NewUsageCleaner(a.usage, cfg.Usage.RetentionDays)
	if err != nil {
		return err
	}
	defer cleaner.Stop()

	router := web.NewRouter(web.Dependencies{
		Jobs:         a.jobs,
		Ingester:     a.ingest,
		Feed:         source,
		Matcher:      services.NewMatchService(a.bus, a.cachedJobs, a.resumes, a.matches),
		CoverLetters: services.NewCoverLetterService(a.bus, a.cachedJobs, a.resumes, a.drafts, aiClient),
		Resumes:      services.NewResumeService(a.bus, a.resumes, pdftext.NewExtractor(), aiClient),
		Usage:        services.NewUsageSummaryService(a.usage),
		Users:        a.users,
		Database:     a.db,
	}, limiter, cfg.Server, cfg.Limits)

	server := web.NewServer(cfg.Server.Port, router)
	errs := make(chan error, 1)
	go func() {
		errs <- server.Run()
	}()

	select {
	case <-ctx.Done():
	case err = <-errs:
		if err != nil {
			return err
		}
	}

	log.Info("Shutting down services...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("http server shutdown failed: %v", err)
	}
	log.Info("Services stopped.")
	return nil
}
