package repositories

import (
	"context"
	"github.com/maxaizer/job-assistant/internal/entities"
	"gorm.io/gorm"
	"time"
)

type AiAggregate struct {
	Calls            int64
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
	LatencyMs        int64
	CostUsd          *float64
}

type Usage struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) *Usage {
	return &Usage{db: db}
}

func (repo *Usage) AddAiUsage(ctx context.Context, usage entities.AiUsage) error {
	return repo.db.WithContext(ctx).Create(&usage).Error
}

func (repo *Usage) AddEvent(ctx context.Context, event entities.UsageEvent) error {
	return repo.db.WithContext(ctx).Create(&event).Error
}

// AggregateAi sums the AI usage of a user since the given moment. CostUsd is
// nil when no call in the range had a known cost.
func (repo *Usage) AggregateAi(ctx context.Context, userID string, since time.Time) (AiAggregate, error) {
	var aggregate AiAggregate
	err := repo.db.WithContext(ctx).
		Model(&entities.AiUsage{}).
		Select("COUNT(*) AS calls, "+
			"COALESCE(SUM(prompt_tokens), 0) AS prompt_tokens, "+
			"COALESCE(SUM(completion_tokens), 0) AS completion_tokens, "+
			"COALESCE(SUM(total_tokens), 0) AS total_tokens, "+
			"COALESCE(SUM(latency_ms), 0) AS latency_ms, "+
			"SUM(cost_usd) AS cost_usd").
		Where("user_id = ? AND created_at >= ?", userID, since).
		Scan(&aggregate).Error
	return aggregate, err
}

func (repo *Usage) CountEvents(ctx context.Context, userID, eventType string, since time.Time) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&entities.UsageEvent{}).
		Where("user_id = ? AND type = ? AND created_at >= ?", userID, eventType, since).
		Count(&count).Error
	return count, err
}

// RemoveOlderThan deletes usage events and AI usage rows created before the
// expiration time and returns how many rows were removed.
func (repo *Usage) RemoveOlderThan(ctx context.Context, expirationTime time.Time) (int64, error) {
	var removed int64
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&entities.UsageEvent{}, "created_at < ?", expirationTime)
		if res.Error != nil {
			return res.Error
		}
		removed += res.RowsAffected

		res = tx.Delete(&entities.AiUsage{}, "created_at < ?", expirationTime)
		if res.Error != nil {
			return res.Error
		}
		removed += res.RowsAffected
		return nil
	})
	return removed, err
}
