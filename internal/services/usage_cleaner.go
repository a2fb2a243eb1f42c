package services

import (
	"context"
	"github.com/maxaizer/job-assistant/internal/logger"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"time"
)

type UsageCleanupRepository interface {
	RemoveOlderThan(ctx context.Context, expirationTime time.Time) (int64, error)
}

type UsageCleaner struct {
	usage         UsageCleanupRepository
	cron          *cron.Cron
	retentionDays int
}

func NewUsageCleaner(usage UsageCleanupRepository, retentionDays int) (*UsageCleaner, error) {

	if retentionDays <= 0 {
		return nil, errors.New("retention in days must be greater than zero")
	}

	uc := &UsageCleaner{
		usage:         usage,
		cron:          cron.New(),
		retentionDays: retentionDays,
	}

	_, err := uc.cron.AddFunc("0 0 * * *", uc.cleanOldUsage)
	if err != nil {
		return nil, err
	}

	uc.cron.Start()
	log.Infof("usage cleaner started, retention in days: %d", uc.retentionDays)
	return uc, nil
}

func (uc *UsageCleaner) Stop() {
	uc.cron.Stop()
}

func (uc *UsageCleaner) cleanOldUsage() {
	expirationTime := time.Now().Add(-time.Duration(uc.retentionDays) * 24 * time.Hour)
	rowsAffected, err := uc.usage.RemoveOlderThan(context.Background(), expirationTime)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to clean old usage records: %v", err)
	} else {
		log.Infof("old usage records were cleaned, affected rows: %d", rowsAffected)
	}
}
