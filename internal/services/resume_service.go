package services

import (
	"context"
	"encoding/json"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-assistant/internal/entities"
	"github.com/maxaizer/job-assistant/internal/events"
	"github.com/maxaizer/job-assistant/internal/llm"
	"github.com/maxaizer/job-assistant/internal/pdftext"
	"github.com/maxaizer/job-assistant/internal/skills"
	"github.com/pkg/errors"
	"math"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	MaxResumeBytes       = 5 * 1024 * 1024
	minResumeTextLength  = 20
	analyzeTemperature   = 0
	UploadStatusStored   = "stored"
	UploadStatusNeedsOCR = "needs_ocr"
)

const analyzeSystemPrompt = `You are an ATS assistant. Extract a structured candidate profile from the given resume text.
Return ONLY a JSON object with exactly these fields (no prose):
{"skills": string[], "tools": string[], "dbs": string[], "years": number, "highlights": string[]}
Guidelines:
- skills: primary languages/frameworks/libs (lowercase, deduplicate).
- tools: dev tools/services (e.g., git, docker, postman, firebase, aws, vite).
- dbs: databases (e.g., postgres, mysql, mongodb, firestore).
- years: total hands-on experience in years (may be fractional, never negative).
- highlights: 4-8 short bullets (achievements/responsibilities).`

type resumeStore interface {
	GetByUser(ctx context.Context, userID string) (*entities.Resume, error)
	SaveText(ctx context.Context, userID, text string) (*entities.Resume, error)
	SaveProfile(ctx context.Context, userID string, profile []byte, yearsExp int) error
}

type textExtractor interface {
	Extract(data []byte) (string, error)
}

type UploadResult struct {
	Status   string `json:"status"`
	ResumeID string `json:"resumeId,omitempty"`
	Bytes    int    `json:"bytes"`
	Chars    int    `json:"chars"`
}

type AnalyzeResult struct {
	ResumeID string         `json:"resumeId"`
	Profile  skills.Profile `json:"profile"`
	YearsExp int            `json:"yearsExp"`
}

type ResumeService struct {
	bus       EventBus.Bus
	resumes   resumeStore
	extractor textExtractor
	ai        llm.Client
}

func NewResumeService(bus EventBus.Bus, resumes resumeStore, extractor textExtractor, ai llm.Client) *ResumeService {
	return &ResumeService{bus: bus, resumes: resumes, extractor: extractor, ai: ai}
}

// Upload validates a PDF, extracts its text and stores it as the user's
// resume. Documents without a text layer are reported as needing OCR and
// are not stored.
func (s *ResumeService) Upload(ctx context.Context, userID, filename string, data []byte) (UploadResult, error) {
	result := UploadResult{Bytes: len(data)}

	switch {
	case len(data) == 0:
		return result, ErrEmptyFile
	case len(data) > MaxResumeBytes:
		return result, ErrFileTooLarge
	case !strings.EqualFold(filepath.Ext(filename), ".pdf"):
		return result, ErrNotPDF
	case !pdftext.HasSignature(data):
		return result, ErrPDFSignature
	}

	text, err := s.extractor.Extract(data)
	if err != nil {
		return result, errors.Wrap(err, "extract resume text")
	}

	text = strings.TrimSpace(text)
	result.Chars = utf8.RuneCountInString(text)
	if result.Chars < minResumeTextLength {
		result.Status = UploadStatusNeedsOCR
		return result, nil
	}

	resume, err := s.resumes.SaveText(ctx, userID, text)
	if err != nil {
		return result, errors.Wrap(err, "save resume text")
	}

	result.Status = UploadStatusStored
	result.ResumeID = resume.ID
	return result, nil
}

type extractedProfile struct {
	Skills     []string `json:"skills"`
	Tools      []string `json:"tools"`
	DBs        []string `json:"dbs"`
	Years      *float64 `json:"years"`
	Highlights []string `json:"highlights"`
}

// Analyze asks the language model for a structured profile of the stored
// resume text and saves it.
func (s *ResumeService) Analyze(ctx context.Context, userID string) (AnalyzeResult, error) {
	resume, err := s.resumes.GetByUser(ctx, userID)
	if err != nil {
		return AnalyzeResult{}, errors.Wrap(err, "get resume")
	}
	if resume == nil || strings.TrimSpace(resume.Text) == "" {
		return AnalyzeResult{}, ErrNoResume
	}

	response, err := completeAndReport(ctx, s.bus, s.ai, userID, EndpointResumeAnalyze, http.MethodPost, llm.Request{
		Messages: []llm.Message{
			llm.SystemMessage(analyzeSystemPrompt),
			llm.UserMessage(resume.Text),
		},
		Temperature: analyzeTemperature,
		JSON:        true,
	})
	if err != nil {
		return AnalyzeResult{}, errors.Wrap(err, "analyze resume")
	}

	profile, err := parseProfile(response.Text)
	if err != nil {
		return AnalyzeResult{}, err
	}

	stored, err := json.Marshal(profile)
	if err != nil {
		return AnalyzeResult{}, errors.Wrap(err, "encode profile")
	}

	yearsExp := int(math.Round(math.Max(0, *profile.Years)))
	if err = s.resumes.SaveProfile(ctx, userID, stored, yearsExp); err != nil {
		return AnalyzeResult{}, errors.Wrap(err, "save profile")
	}

	parsed := skills.ParseProfile(stored)
	s.bus.Publish(events.ResumeAnalyzedTopic, events.ResumeAnalyzed{
		UserID:   userID,
		ResumeID: resume.ID,
		Skills:   len(parsed.CandidateSkills()),
	})

	return AnalyzeResult{ResumeID: resume.ID, Profile: parsed, YearsExp: yearsExp}, nil
}

func parseProfile(text string) (extractedProfile, error) {
	var profile extractedProfile
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &profile); err != nil {
		return profile, errors.Wrap(ErrInvalidProfile, err.Error())
	}

	if profile.Skills == nil || profile.Tools == nil || profile.DBs == nil || profile.Highlights == nil ||
		profile.Years == nil {
		return profile, ErrInvalidProfile
	}
	return profile, nil
}

// stripCodeFence removes a markdown code fence some models wrap JSON in.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	return strings.TrimSpace(strings.TrimSuffix(text, "```"))
}
