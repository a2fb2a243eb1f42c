package services

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-assistant/internal/coverletter"
	"github.com/maxaizer/job-assistant/internal/entities"
	"github.com/maxaizer/job-assistant/internal/events"
	"github.com/maxaizer/job-assistant/internal/llm"
	"github.com/pkg/errors"
	"net/http"
	"strings"
)

const coverLetterTemperature = 0.3

type draftStore interface {
	Get(ctx context.Context, userID, jobID string) (*entities.ApplicationDraft, error)
	Upsert(ctx context.Context, userID, jobID, coverLetter string) (*entities.ApplicationDraft, error)
}

type CoverLetterService struct {
	bus     EventBus.Bus
	jobs    jobGetter
	resumes resumeGetter
	drafts  draftStore
	ai      llm.Client
}

func NewCoverLetterService(bus EventBus.Bus, jobs jobGetter, resumes resumeGetter, drafts draftStore,
	ai llm.Client) *CoverLetterService {
	return &CoverLetterService{bus: bus, jobs: jobs, resumes: resumes, drafts: drafts, ai: ai}
}

// Get returns the stored draft, or nil when the user has none for the job.
func (s *CoverLetterService) Get(ctx context.Context, userID, jobID string) (*entities.ApplicationDraft, error) {
	if _, err := s.requireJob(ctx, jobID); err != nil {
		return nil, err
	}

	draft, err := s.drafts.Get(ctx, userID, jobID)
	if err != nil {
		return nil, errors.Wrap(err, "get draft")
	}
	return draft, nil
}

// Generate asks the language model for a cover letter and stores it as the
// user's draft. The returned int is the word limit that was applied.
func (s *CoverLetterService) Generate(ctx context.Context, userID, jobID string,
	opts coverletter.Options) (*entities.ApplicationDraft, int, error) {

	job, err := s.requireJob(ctx, jobID)
	if err != nil {
		return nil, 0, err
	}

	resume, err := s.resumes.GetByUser(ctx, userID)
	if err != nil {
		return nil, 0, errors.Wrap(err, "get resume")
	}
	if resume == nil {
		return nil, 0, ErrNoResume
	}

	prompt := coverletter.Build(coverletter.Job{
		Title:          job.Title,
		Company:        job.Company,
		Location:       job.Location,
		Description:    job.Description,
		SkillsRequired: job.Skills(),
	}, coverletter.Resume{
		Profile:  resume.Profile(),
		YearsExp: resume.YearsExp,
	}, opts)

	response, err := completeAndReport(ctx, s.bus, s.ai, userID, EndpointCoverLetter, http.MethodPost, llm.Request{
		Messages:    prompt.Messages,
		Temperature: coverLetterTemperature,
	})
	if err != nil {
		return nil, prompt.MaxWords, errors.Wrap(err, "generate cover letter")
	}

	text := strings.TrimSpace(response.Text)
	if text == "" {
		return nil, prompt.MaxWords, ErrEmptyCompletion
	}
	if words := coverletter.WordCount(text); words > prompt.MaxWords {
		return nil, prompt.MaxWords, &OverWordLimitError{MaxWords: prompt.MaxWords, Words: words}
	}

	previous, err := s.drafts.Get(ctx, userID, job.ID)
	if err != nil {
		return nil, prompt.MaxWords, errors.Wrap(err, "get draft")
	}

	draft, err := s.drafts.Upsert(ctx, userID, job.ID, text)
	if err != nil {
		return nil, prompt.MaxWords, errors.Wrap(err, "save draft")
	}

	origin := events.CoverLetterCreated
	if previous != nil {
		origin = events.CoverLetterRegenerated
	}
	s.publishSaved(userID, job.ID, draft, origin)

	return draft, prompt.MaxWords, nil
}

// Save stores a manually edited cover letter.
func (s *CoverLetterService) Save(ctx context.Context, userID, jobID, coverLetter string) (*entities.ApplicationDraft, error) {
	text := strings.TrimSpace(coverLetter)
	if text == "" {
		return nil, ErrEmptyCoverLetter
	}
	if words := coverletter.WordCount(text); words > coverletter.MaxWords {
		return nil, &OverWordLimitError{MaxWords: coverletter.MaxWords, Words: words}
	}

	job, err := s.requireJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	draft, err := s.drafts.Upsert(ctx, userID, job.ID, text)
	if err != nil {
		return nil, errors.Wrap(err, "save draft")
	}

	s.publishSaved(userID, job.ID, draft, events.CoverLetterEdited)
	return draft, nil
}

func (s *CoverLetterService) requireJob(ctx context.Context, jobID string) (*entities.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, errors.Wrap(err, "get job")
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	return job, nil
}

func (s *CoverLetterService) publishSaved(userID, jobID string, draft *entities.ApplicationDraft,
	origin events.CoverLetterOrigin) {
	s.bus.Publish(events.CoverLetterSavedTopic, events.CoverLetterSaved{
		UserID:  userID,
		JobID:   jobID,
		DraftID: draft.ID,
		Origin:  origin,
		Words:   coverletter.WordCount(draft.CoverLetter),
	})
}
