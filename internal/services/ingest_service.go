package services

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-assistant/internal/entities"
	"github.com/maxaizer/job-assistant/internal/events"
	"github.com/maxaizer/job-assistant/internal/feed"
	"github.com/maxaizer/job-assistant/internal/logger"
	"github.com/maxaizer/job-assistant/internal/metrics"
	"github.com/maxaizer/job-assistant/internal/repositories"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const manualSource = "request"

type jobStore interface {
	ExistingKeys(ctx context.Context, keys []repositories.JobKey) (map[repositories.JobKey]bool, error)
	Upsert(ctx context.Context, job entities.Job) error
}

// IngestReport counts one ingest run. Total is the number of raw items
// received, before normalization, so Total = Created + Updated + Skipped +
// Rejected. Skipped covers repeated keys within the batch and records the
// store failed to save.
type IngestReport struct {
	Total    int `json:"total"`
	Created  int `json:"created"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Rejected int `json:"rejected"`
}

type IngestService struct {
	bus  EventBus.Bus
	jobs jobStore
}

func NewIngestService(bus EventBus.Bus, jobs jobStore) *IngestService {
	return &IngestService{bus: bus, jobs: jobs}
}

// IngestSource fetches the whole feed from the source and ingests it.
func (s *IngestService) IngestSource(ctx context.Context, source feed.Source) (IngestReport, error) {
	items, err := source.Fetch(ctx)
	if err != nil {
		return IngestReport{}, errors.Wrapf(err, "fetch feed %s", source.Name())
	}
	return s.ingest(ctx, source.Name(), items)
}

// Ingest stores raw feed items. Items without title or company are counted
// as rejected, repeated keys within one batch as skipped. A record that fails
// to save is skipped and the rest of the batch is still stored.
func (s *IngestService) Ingest(ctx context.Context, items []any) (IngestReport, error) {
	return s.ingest(ctx, manualSource, items)
}

func (s *IngestService) ingest(ctx context.Context, sourceName string, items []any) (IngestReport, error) {
	batch := feed.NormalizeFeed(items)
	report := IngestReport{Total: len(items), Rejected: batch.Rejected}

	keys := make([]repositories.JobKey, 0, len(batch.Accepted))
	for _, job := range batch.Accepted {
		keys = append(keys, repositories.JobKey{Source: job.Source, ExternalID: job.ExternalID})
	}

	existing, err := s.jobs.ExistingKeys(ctx, keys)
	if err != nil {
		return report, errors.Wrap(err, "load existing jobs")
	}

	seen := make(map[repositories.JobKey]bool, len(keys))
	for i, job := range batch.Accepted {
		key := keys[i]
		if seen[key] {
			report.Skipped++
			continue
		}
		seen[key] = true

		if err = s.jobs.Upsert(ctx, toEntity(job)); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Errorf("failed to save job %s/%s: %v", job.Source, job.ExternalID, err)
			report.Skipped++
			continue
		}

		if existing[key] {
			report.Updated++
		} else {
			report.Created++
		}
	}

	metrics.FeedJobsCounter.WithLabelValues("created").Add(float64(report.Created))
	metrics.FeedJobsCounter.WithLabelValues("updated").Add(float64(report.Updated))
	metrics.FeedJobsCounter.WithLabelValues("skipped").Add(float64(report.Skipped))
	metrics.FeedJobsCounter.WithLabelValues("rejected").Add(float64(report.Rejected))

	if report.Rejected > 0 {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeFeed).
			Warnf("feed %s: %d of %d items rejected", sourceName, report.Rejected, report.Total)
	}

	s.bus.Publish(events.JobsIngestedTopic, events.JobsIngested{
		Source:   sourceName,
		Total:    report.Total,
		Created:  report.Created,
		Updated:  report.Updated,
		Skipped:  report.Skipped,
		Rejected: report.Rejected,
	})
	return report, nil
}

func toEntity(job feed.Job) entities.Job {
	return entities.Job{
		Source:         job.Source,
		ExternalID:     job.ExternalID,
		Title:          job.Title,
		Company:        job.Company,
		Location:       job.Location,
		Description:    job.Description,
		SkillsRequired: job.SkillsRequired,
		URL:            job.URL,
	}
}
