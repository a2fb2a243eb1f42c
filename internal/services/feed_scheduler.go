package services

import (
	"context"
	"github.com/maxaizer/job-assistant/internal/feed"
	"github.com/maxaizer/job-assistant/internal/logger"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"time"
)

const feedFetchTimeout = 2 * time.Minute

type sourceIngester interface {
	IngestSource(ctx context.Context, source feed.Source) (IngestReport, error)
}

// FeedScheduler pulls the configured feed on a cron schedule.
type FeedScheduler struct {
	ingester sourceIngester
	source   feed.Source
	cron     *cron.Cron
}

func NewFeedScheduler(ingester sourceIngester, source feed.Source, schedule string) (*FeedScheduler, error) {

	if schedule == "" {
		return nil, errors.New("feed schedule is empty")
	}

	fs := &FeedScheduler{
		ingester: ingester,
		source:   source,
		cron:     cron.New(),
	}

	if _, err := fs.cron.AddFunc(schedule, fs.pull); err != nil {
		return nil, errors.Wrapf(err, "invalid feed schedule %q", schedule)
	}

	fs.cron.Start()
	log.Infof("feed scheduler started for %s, schedule: %s", source.Name(), schedule)
	return fs, nil
}

func (fs *FeedScheduler) Stop() {
	<-fs.cron.Stop().Done()
}

func (fs *FeedScheduler) pull() {
	ctx, cancel := context.WithTimeout(context.Background(), feedFetchTimeout)
	defer cancel()

	report, err := fs.ingester.IngestSource(ctx, fs.source)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeFeed).Errorf("failed to ingest feed: %v", err)
		return
	}
	log.Infof("feed %s ingested: total %d, created %d, updated %d, skipped %d, rejected %d",
		fs.source.Name(), report.Total, report.Created, report.Updated, report.Skipped, report.Rejected)
}
