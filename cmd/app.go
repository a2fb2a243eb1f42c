package main

import (
	"context"
	"fmt"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-assistant/internal/clients/gemini"
	"github.com/maxaizer/job-assistant/internal/clients/openai"
	"github.com/maxaizer/job-assistant/internal/config"
	"github.com/maxaizer/job-assistant/internal/events"
	"github.com/maxaizer/job-assistant/internal/feed"
	"github.com/maxaizer/job-assistant/internal/llm"
	"github.com/maxaizer/job-assistant/internal/ratelimit"
	"github.com/maxaizer/job-assistant/internal/repositories"
	"github.com/maxaizer/job-assistant/internal/services"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// app holds what both the server and the one-shot commands need: storage,
// the event bus and the usage recorder listening on it.
type app struct {
	cfg        *config.Config
	db         *repositories.DbContext
	bus        EventBus.Bus
	jobs       *repositories.Jobs
	cachedJobs *repositories.CachedJobs
	resumes    *repositories.Resumes
	matches    *repositories.Matches
	drafts     *repositories.Drafts
	users      *repositories.Users
	usage      *repositories.Usage
	ingest     *services.IngestService
}

func newApp(cfg *config.Config) (*app, error) {

	dbContext, err := repositories.NewDbContext(cfg.DB.Driver, cfg.DB.ConnectionString)
	if err != nil {
		return nil, errors.Wrap(err, "can't create db context")
	}

	if err = dbContext.Migrate(); err != nil {
		_ = dbContext.Close()
		return nil, errors.Wrap(err, "can't migrate db context")
	}

	a := &app{
		cfg:     cfg,
		db:      dbContext,
		bus:     EventBus.New(),
		jobs:    repositories.NewJobsRepository(dbContext.DB),
		resumes: repositories.NewResumesRepository(dbContext.DB),
		matches: repositories.NewMatchesRepository(dbContext.DB),
		drafts:  repositories.NewDraftsRepository(dbContext.DB),
		users:   repositories.NewUsersRepository(dbContext.DB),
		usage:   repositories.NewUsageRepository(dbContext.DB),
	}
	a.cachedJobs = repositories.NewCachedJobs(a.jobs)
	a.ingest = services.NewIngestService(a.bus, a.jobs)

	err = a.bus.SubscribeAsync(events.JobsIngestedTopic, func(events.JobsIngested) {
		a.cachedJobs.Invalidate()
	}, false)
	if err != nil {
		return nil, err
	}

	recorder := services.NewUsageRecorder(a.usage, cfg.AI.Prices)
	if err = recorder.Subscribe(a.bus); err != nil {
		return nil, errors.Wrap(err, "can't subscribe usage recorder")
	}

	return a, nil
}

// close waits for pending usage records before closing the database.
func (a *app) close() {
	a.bus.WaitAsync()
	if err := a.db.Close(); err != nil {
		log.Errorf("failed to close db: %v", err)
	}
}

func newAiClient(ctx context.Context, cfg config.AIConfig) (llm.Client, func(), error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		client := openai.NewClient(cfg.Key, cfg.BaseURL, cfg.Model)
		if cfg.MaxRequestsPerMinute > 0 {
			client.SetMinuteRateLimit(cfg.MaxRequestsPerMinute)
		}
		return client, func() {}, nil
	default:
		client, err := gemini.NewClient(ctx, cfg.Key, gemini.Model(cfg.Model))
		if err != nil {
			return nil, nil, err
		}
		if cfg.MaxRequestsPerMinute > 0 {
			client.SetMinuteRateLimit(cfg.MaxRequestsPerMinute)
		}
		if cfg.MaxRequestsPerDay > 0 {
			client.SetDayRateLimit(cfg.MaxRequestsPerDay)
		}
		return client, func() { _ = client.Close() }, nil
	}
}

// newRateLimitStore uses Redis when configured so that several instances
// share windows; otherwise buckets live in memory and are swept periodically.
func newRateLimitStore(ctx context.Context, cfg *config.Config) (ratelimit.Store, func(), error) {
	if cfg.Redis.URL != "" {
		options, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, nil, errors.Wrap(err, "invalid redis url")
		}
		client := redis.NewClient(options)
		if err = client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, errors.Wrap(err, "can't reach redis")
		}
		log.Info("rate limits are stored in redis")
		return ratelimit.NewRedisStore(client, cfg.Redis.Prefix), func() { _ = client.Close() }, nil
	}

	store := ratelimit.NewMemoryStore()
	if cfg.Limits.SweepInterval <= 0 {
		return store, func() {}, nil
	}

	sweeper := cron.New()
	_, err := sweeper.AddFunc(fmt.Sprintf("@every %s", cfg.Limits.SweepInterval), func() {
		if removed := store.Sweep(); removed > 0 {
			log.Debugf("rate limiter swept %d expired buckets, %d active", removed, store.Len())
		}
	})
	if err != nil {
		return nil, nil, err
	}
	sweeper.Start()
	return store, func() { sweeper.Stop() }, nil
}

func newFeedSource(cfg config.FeedConfig) feed.Source {
	if cfg.URL != "" {
		source := feed.NewHTTPSource(cfg.URL)
		if cfg.MaxRequestsPerSecond > 0 {
			source.SetRateLimit(cfg.MaxRequestsPerSecond)
		}
		return source
	}
	return feed.NewFileSource(cfg.Path)
}
