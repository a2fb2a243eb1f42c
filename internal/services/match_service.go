package services

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-assistant/internal/entities"
	"github.com/maxaizer/job-assistant/internal/events"
	"github.com/maxaizer/job-assistant/internal/matching"
	"github.com/maxaizer/job-assistant/internal/metrics"
	"github.com/pkg/errors"
)

type jobGetter interface {
	GetByID(ctx context.Context, id string) (*entities.Job, error)
}

type resumeGetter interface {
	GetByUser(ctx context.Context, userID string) (*entities.Resume, error)
}

type matchStore interface {
	Upsert(ctx context.Context, match entities.Match) error
}

type MatchService struct {
	bus     EventBus.Bus
	jobs    jobGetter
	resumes resumeGetter
	matches matchStore
}

func NewMatchService(bus EventBus.Bus, jobs jobGetter, resumes resumeGetter, matches matchStore) *MatchService {
	return &MatchService{bus: bus, jobs: jobs, resumes: resumes, matches: matches}
}

// Compute scores the user's resume against a job and stores the latest score.
func (s *MatchService) Compute(ctx context.Context, userID, jobID string) (matching.Result, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return matching.Result{}, errors.Wrap(err, "get job")
	}
	if job == nil {
		return matching.Result{}, ErrJobNotFound
	}

	resume, err := s.resumes.GetByUser(ctx, userID)
	if err != nil {
		return matching.Result{}, errors.Wrap(err, "get resume")
	}
	if resume == nil {
		return matching.Result{}, ErrNoResume
	}

	candidateSkills := resume.Profile().CandidateSkills()
	if len(candidateSkills) == 0 {
		return matching.Result{}, ErrNoCandidateSkills
	}

	var years *float64
	if resume.YearsExp != nil {
		value := float64(*resume.YearsExp)
		years = &value
	}

	result := matching.Compute(matching.Input{
		CandidateSkills: candidateSkills,
		JobSkills:       job.Skills(),
		CandidateYears:  years,
		JobLocation:     job.Location,
	})

	err = s.matches.Upsert(ctx, entities.Match{
		UserID:  userID,
		JobID:   job.ID,
		Score:   result.Score,
		Reasons: result.Reasons,
	})
	if err != nil {
		return matching.Result{}, errors.Wrap(err, "save match")
	}

	metrics.MatchScore.Observe(float64(result.Score))
	s.bus.Publish(events.MatchComputedTopic, events.MatchComputed{UserID: userID, JobID: job.ID, Score: result.Score})
	return result, nil
}
