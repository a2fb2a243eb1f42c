package repositories

import (
	"context"
	"github.com/maxaizer/job-assistant/internal/entities"
	gocache "github.com/patrickmn/go-cache"
	"time"
)

type jobReader interface {
	GetByID(ctx context.Context, id string) (*entities.Job, error)
}

// CachedJobs keeps recently read jobs in memory. Match and cover letter
// requests read the same job repeatedly while a user works on it.
type CachedJobs struct {
	repo  jobReader
	cache *gocache.Cache
}

func NewCachedJobs(repo jobReader) *CachedJobs {
	return &CachedJobs{repo: repo, cache: gocache.New(5*time.Minute, 10*time.Minute)}
}

func (c *CachedJobs) GetByID(ctx context.Context, id string) (*entities.Job, error) {
	if value, found := c.cache.Get(id); found {
		job := value.(entities.Job)
		return &job, nil
	}

	job, err := c.repo.GetByID(ctx, id)
	if err != nil || job == nil {
		return job, err
	}

	c.cache.SetDefault(id, *job)
	return job, nil
}

// Invalidate drops every cached job; called after a feed ingestion.
func (c *CachedJobs) Invalidate() {
	c.cache.Flush()
}
