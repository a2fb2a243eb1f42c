package services

import (
	"context"
	"encoding/json"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-assistant/internal/config"
	"github.com/maxaizer/job-assistant/internal/entities"
	"github.com/maxaizer/job-assistant/internal/events"
	"github.com/maxaizer/job-assistant/internal/logger"
	"github.com/maxaizer/job-assistant/internal/metrics"
	log "github.com/sirupsen/logrus"
	"math"
	"strings"
	"unicode/utf8"
)

const maxStoredErrorLength = 500

type usageWriter interface {
	AddAiUsage(ctx context.Context, usage entities.AiUsage) error
	AddEvent(ctx context.Context, event entities.UsageEvent) error
}

// UsageRecorder persists AI calls and product events published on the bus.
// Recording never fails the request that produced the event.
type UsageRecorder struct {
	usage  usageWriter
	prices []config.Price
}

func NewUsageRecorder(usage usageWriter, prices []config.Price) *UsageRecorder {
	return &UsageRecorder{usage: usage, prices: prices}
}

func (r *UsageRecorder) Subscribe(bus EventBus.Bus) error {
	subscriptions := map[string]any{
		events.AiCallFinishedTopic:   r.onAiCallFinished,
		events.MatchComputedTopic:    r.onMatchComputed,
		events.CoverLetterSavedTopic: r.onCoverLetterSaved,
		events.ResumeAnalyzedTopic:   r.onResumeAnalyzed,
		events.JobsIngestedTopic:     r.onJobsIngested,
	}
	for topic, handler := range subscriptions {
		if err := bus.SubscribeAsync(topic, handler, false); err != nil {
			return err
		}
	}
	return nil
}

func (r *UsageRecorder) onAiCallFinished(event events.AiCallFinished) {
	usage := entities.AiUsage{
		UserID:           optional(event.UserID),
		Endpoint:         event.Endpoint,
		Method:           event.Method,
		Model:            event.Model,
		PromptTokens:     event.PromptTokens,
		CompletionTokens: event.CompletionTokens,
		TotalTokens:      event.TotalTokens,
		LatencyMs:        int(event.Latency.Milliseconds()),
		Status:           entities.AiUsageOK,
		CostUsd:          EstimateCost(r.prices, event.Model, event.PromptTokens, event.CompletionTokens),
	}
	if event.Err != nil {
		usage.Status = entities.AiUsageError
		message := truncateRunes(event.Err.Error(), maxStoredErrorLength)
		usage.Error = &message
	}

	metrics.AiTokensCounter.WithLabelValues(event.Model, "prompt").Add(float64(event.PromptTokens))
	metrics.AiTokensCounter.WithLabelValues(event.Model, "completion").Add(float64(event.CompletionTokens))

	if err := r.usage.AddAiUsage(context.Background(), usage); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to record ai usage: %v", err)
	}
}

func (r *UsageRecorder) onMatchComputed(event events.MatchComputed) {
	r.addEvent(event.UserID, entities.EventMatchComputed, event.JobID, map[string]any{"score": event.Score})
}

func (r *UsageRecorder) onCoverLetterSaved(event events.CoverLetterSaved) {
	eventType := entities.EventCoverLetterCreated
	switch event.Origin {
	case events.CoverLetterRegenerated:
		eventType = entities.EventCoverLetterRegenerated
	case events.CoverLetterEdited:
		eventType = entities.EventCoverLetterEdited
	}
	r.addEvent(event.UserID, eventType, event.DraftID, map[string]any{"jobId": event.JobID, "words": event.Words})
}

func (r *UsageRecorder) onResumeAnalyzed(event events.ResumeAnalyzed) {
	r.addEvent(event.UserID, entities.EventResumeAnalyzed, event.ResumeID, map[string]any{"skills": event.Skills})
}

func (r *UsageRecorder) onJobsIngested(event events.JobsIngested) {
	r.addEvent("", entities.EventJobsIngested, "", map[string]any{
		"source":   event.Source,
		"total":    event.Total,
		"created":  event.Created,
		"updated":  event.Updated,
		"skipped":  event.Skipped,
		"rejected": event.Rejected,
	})
}

func (r *UsageRecorder) addEvent(userID, eventType, refID string, meta map[string]any) {
	encoded, err := json.Marshal(meta)
	if err != nil {
		log.Errorf("failed to encode %s event meta: %v", eventType, err)
		return
	}

	err = r.usage.AddEvent(context.Background(), entities.UsageEvent{
		UserID: optional(userID),
		Type:   eventType,
		RefID:  optional(refID),
		Meta:   encoded,
	})
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to record %s event: %v", eventType, err)
	}
}

// EstimateCost prices a call from per-1K token prices. An exact model match
// wins over a prefix match; among prefixes the first configured one is used.
// Returns nil when the model has no price.
func EstimateCost(prices []config.Price, model string, promptTokens, completionTokens int) *float64 {
	price, found := findPrice(prices, model)
	if !found {
		return nil
	}

	cost := float64(promptTokens)/1000*price.Input + float64(completionTokens)/1000*price.Output
	cost = math.Round(cost*1e6) / 1e6
	return &cost
}

func findPrice(prices []config.Price, model string) (config.Price, bool) {
	if model == "" {
		return config.Price{}, false
	}
	for _, price := range prices {
		if price.Model == model {
			return price, true
		}
	}
	for _, price := range prices {
		if price.Model != "" && strings.HasPrefix(model, price.Model) {
			return price, true
		}
	}
	return config.Price{}, false
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
