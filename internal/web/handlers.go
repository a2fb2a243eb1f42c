package web

import (
	"context"
	"github.com/go-playground/validator/v10"
	"github.com/maxaizer/job-assistant/internal/coverletter"
	"github.com/maxaizer/job-assistant/internal/entities"
	"github.com/maxaizer/job-assistant/internal/feed"
	"github.com/maxaizer/job-assistant/internal/matching"
	"github.com/maxaizer/job-assistant/internal/repositories"
	"github.com/maxaizer/job-assistant/internal/services"
)

type JobReader interface {
	GetByID(ctx context.Context, id string) (*entities.Job, error)
	List(ctx context.Context, filter repositories.JobFilter) ([]entities.Job, int64, error)
}

type Ingester interface {
	Ingest(ctx context.Context, items []any) (services.IngestReport, error)
	IngestSource(ctx context.Context, source feed.Source) (services.IngestReport, error)
}

type Matcher interface {
	Compute(ctx context.Context, userID, jobID string) (matching.Result, error)
}

type CoverLetters interface {
	Get(ctx context.Context, userID, jobID string) (*entities.ApplicationDraft, error)
	Generate(ctx context.Context, userID, jobID string, opts coverletter.Options) (*entities.ApplicationDraft, int, error)
	Save(ctx context.Context, userID, jobID, coverLetter string) (*entities.ApplicationDraft, error)
}

type Resumes interface {
	Upload(ctx context.Context, userID, filename string, data []byte) (services.UploadResult, error)
	Analyze(ctx context.Context, userID string) (services.AnalyzeResult, error)
}

type UsageSummaries interface {
	Summary(ctx context.Context, userID string, days int) (services.Summary, error)
}

type Pinger interface {
	Ping() error
}

type Users interface {
	userResolver
	Count(ctx context.Context) (int64, error)
}

// Dependencies are the collaborators the HTTP handlers delegate to. Feed is
// the source ingested when POST /api/jobs/ingest arrives without a body.
// Database is checked by the health endpoint when set.
type Dependencies struct {
	Jobs         JobReader
	Ingester     Ingester
	Feed         feed.Source
	Matcher      Matcher
	CoverLetters CoverLetters
	Resumes      Resumes
	Usage        UsageSummaries
	Users        Users
	Database     Pinger
}

type handlers struct {
	Dependencies
	validate *validator.Validate
}

func newHandlers(deps Dependencies) *handlers {
	return &handlers{Dependencies: deps, validate: validator.New()}
}
