package services

import (
	"context"
	"github.com/maxaizer/job-assistant/internal/entities"
	"github.com/maxaizer/job-assistant/internal/repositories"
	"github.com/pkg/errors"
	"math"
	"time"
)

const (
	DefaultSummaryDays = 7
	MaxSummaryDays     = 365
)

type usageReader interface {
	AggregateAi(ctx context.Context, userID string, since time.Time) (repositories.AiAggregate, error)
	CountEvents(ctx context.Context, userID, eventType string, since time.Time) (int64, error)
}

type SummaryRange struct {
	Days int       `json:"days"`
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type AiSummary struct {
	Calls            int64    `json:"calls"`
	PromptTokens     int64    `json:"promptTokens"`
	CompletionTokens int64    `json:"completionTokens"`
	TotalTokens      int64    `json:"totalTokens"`
	AvgLatencyMs     int64    `json:"avgLatencyMs"`
	CostUsd          *float64 `json:"costUsd"`
}

type CoverLetterSummary struct {
	Created     int64 `json:"created"`
	Regenerated int64 `json:"regenerated"`
	Edited      int64 `json:"edited"`
	Total       int64 `json:"total"`
}

type Summary struct {
	Range        SummaryRange       `json:"range"`
	Ai           AiSummary          `json:"ai"`
	CoverLetters CoverLetterSummary `json:"coverLetters"`
}

type UsageSummaryService struct {
	usage usageReader
	now   func() time.Time
}

func NewUsageSummaryService(usage usageReader) *UsageSummaryService {
	return &UsageSummaryService{usage: usage, now: time.Now}
}

// Summary reports the user's AI consumption and cover letter activity over
// the last days. Zero days means the default window.
func (s *UsageSummaryService) Summary(ctx context.Context, userID string, days int) (Summary, error) {
	if days == 0 {
		days = DefaultSummaryDays
	}
	if days < 1 || days > MaxSummaryDays {
		return Summary{}, ErrInvalidDays
	}

	to := s.now().UTC()
	from := to.Add(-time.Duration(days) * 24 * time.Hour)
	summary := Summary{Range: SummaryRange{Days: days, From: from, To: to}}

	aggregate, err := s.usage.AggregateAi(ctx, userID, from)
	if err != nil {
		return Summary{}, errors.Wrap(err, "aggregate ai usage")
	}
	summary.Ai = AiSummary{
		Calls:            aggregate.Calls,
		PromptTokens:     aggregate.PromptTokens,
		CompletionTokens: aggregate.CompletionTokens,
		TotalTokens:      aggregate.TotalTokens,
	}
	if aggregate.Calls > 0 {
		summary.Ai.AvgLatencyMs = int64(math.Round(float64(aggregate.LatencyMs) / float64(aggregate.Calls)))
	}
	if aggregate.CostUsd != nil {
		cost := math.Round(*aggregate.CostUsd*1e6) / 1e6
		summary.Ai.CostUsd = &cost
	}

	counts := map[string]*int64{
		entities.EventCoverLetterCreated:     &summary.CoverLetters.Created,
		entities.EventCoverLetterRegenerated: &summary.CoverLetters.Regenerated,
		entities.EventCoverLetterEdited:      &summary.CoverLetters.Edited,
	}
	for eventType, target := range counts {
		if *target, err = s.usage.CountEvents(ctx, userID, eventType, from); err != nil {
			return Summary{}, errors.Wrapf(err, "count %s events", eventType)
		}
	}
	summary.CoverLetters.Total = summary.CoverLetters.Created + summary.CoverLetters.Regenerated

	return summary, nil
}
