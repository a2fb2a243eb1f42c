package web

import (
	"bytes"
	"context"
	"encoding/json"
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/job-assistant/internal/config"
	"github.com/maxaizer/job-assistant/internal/coverletter"
	"github.com/maxaizer/job-assistant/internal/entities"
	"github.com/maxaizer/job-assistant/internal/feed"
	"github.com/maxaizer/job-assistant/internal/matching"
	"github.com/maxaizer/job-assistant/internal/ratelimit"
	"github.com/maxaizer/job-assistant/internal/repositories"
	"github.com/maxaizer/job-assistant/internal/services"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type mockJobs struct{ mock.Mock }

func (m *mockJobs) GetByID(ctx context.Context, id string) (*entities.Job, error) {
	args := m.Called(ctx, id)
	job, _ := args.Get(0).(*entities.Job)
	return job, args.Error(1)
}

func (m *mockJobs) List(ctx context.Context, filter repositories.JobFilter) ([]entities.Job, int64, error) {
	args := m.Called(ctx, filter)
	jobs, _ := args.Get(0).([]entities.Job)
	return jobs, args.Get(1).(int64), args.Error(2)
}

type mockIngester struct{ mock.Mock }

func (m *mockIngester) Ingest(ctx context.Context, items []any) (services.IngestReport, error) {
	args := m.Called(ctx, items)
	return args.Get(0).(services.IngestReport), args.Error(1)
}

func (m *mockIngester) IngestSource(ctx context.Context, source feed.Source) (services.IngestReport, error) {
	args := m.Called(ctx, source)
	return args.Get(0).(services.IngestReport), args.Error(1)
}

type mockMatcher struct{ mock.Mock }

func (m *mockMatcher) Compute(ctx context.Context, userID, jobID string) (matching.Result, error) {
	args := m.Called(ctx, userID, jobID)
	return args.Get(0).(matching.Result), args.Error(1)
}

type mockCoverLetters struct{ mock.Mock }

func (m *mockCoverLetters) Get(ctx context.Context, userID, jobID string) (*entities.ApplicationDraft, error) {
	args := m.Called(ctx, userID, jobID)
	draft, _ := args.Get(0).(*entities.ApplicationDraft)
	return draft, args.Error(1)
}

func (m *mockCoverLetters) Generate(ctx context.Context, userID, jobID string,
	opts coverletter.Options) (*entities.ApplicationDraft, int, error) {
	args := m.Called(ctx, userID, jobID, opts)
	draft, _ := args.Get(0).(*entities.ApplicationDraft)
	return draft, args.Int(1), args.Error(2)
}

func (m *mockCoverLetters) Save(ctx context.Context, userID, jobID, coverLetter string) (*entities.ApplicationDraft, error) {
	args := m.Called(ctx, userID, jobID, coverLetter)
	draft, _ := args.Get(0).(*entities.ApplicationDraft)
	return draft, args.Error(1)
}

type mockResumes struct{ mock.Mock }

func (m *mockResumes) Upload(ctx context.Context, userID, filename string, data []byte) (services.UploadResult, error) {
	args := m.Called(ctx, userID, filename, data)
	return args.Get(0).(services.UploadResult), args.Error(1)
}

func (m *mockResumes) Analyze(ctx context.Context, userID string) (services.AnalyzeResult, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(services.AnalyzeResult), args.Error(1)
}

type mockUsage struct{ mock.Mock }

func (m *mockUsage) Summary(ctx context.Context, userID string, days int) (services.Summary, error) {
	args := m.Called(ctx, userID, days)
	return args.Get(0).(services.Summary), args.Error(1)
}

type fakeUsers struct{}

func (fakeUsers) FindOrCreateByEmail(_ context.Context, email string) (*entities.User, error) {
	return &entities.User{ID: "user-" + email, Email: email}, nil
}

func (fakeUsers) Count(context.Context) (int64, error) { return 3, nil }

type fakeDatabase struct {
	err error
}

func (d *fakeDatabase) Ping() error { return d.err }

type testApp struct {
	router       *gin.Engine
	db           *fakeDatabase
	jobs         *mockJobs
	ingester     *mockIngester
	matcher      *mockMatcher
	coverLetters *mockCoverLetters
	resumes      *mockResumes
	usage        *mockUsage
	token        string
}

func newTestApp(t *testing.T) *testApp {
	gin.SetMode(gin.TestMode)
	app := &testApp{
		jobs:         &mockJobs{},
		ingester:     &mockIngester{},
		matcher:      &mockMatcher{},
		coverLetters: &mockCoverLetters{},
		resumes:      &mockResumes{},
		usage:        &mockUsage{},
		db:           &fakeDatabase{},
	}

	rule := ratelimit.Rule{Limit: 2, Window: time.Minute}
	limits := config.LimitsConfig{
		Ingest: rule, Match: rule, CoverGet: rule, CoverPost: rule, CoverPut: rule, ResumeUpload: rule, ResumeAnalyze: rule,
	}
	app.router = NewRouter(Dependencies{
		Jobs:         app.jobs,
		Ingester:     app.ingester,
		Matcher:      app.matcher,
		CoverLetters: app.coverLetters,
		Resumes:      app.resumes,
		Usage:        app.usage,
		Users:        fakeUsers{},
		Database:     app.db,
	}, ratelimit.NewMemoryStore(), config.ServerConfig{JWTSecret: testSecret}, limits)

	token, err := IssueToken([]byte(testSecret), "dev@example.com", time.Hour)
	require.NoError(t, err)
	app.token = token
	return app
}

func (app *testApp) do(method, path string, body []byte, authorized bool) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if authorized {
		request.Header.Set("Authorization", "Bearer "+app.token)
	}
	recorder := httptest.NewRecorder()
	app.router.ServeHTTP(recorder, request)
	return recorder
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

const userID = "user-dev@example.com"

func Test_Health_ShouldReportUsers(t *testing.T) {
	app := newTestApp(t)

	recorder := app.do(http.MethodGet, "/api/health", nil, false)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, map[string]any{"ok": true, "users": float64(3)}, decode(t, recorder))
}

func Test_Health_DatabaseDown_ShouldReturnUnavailable(t *testing.T) {
	app := newTestApp(t)
	app.db.err = errors.New("connection refused")

	recorder := app.do(http.MethodGet, "/api/health", nil, false)

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Equal(t, false, decode(t, recorder)["ok"])
}

func Test_ListJobs_ShouldApplyDefaultsAndLowercaseSkill(t *testing.T) {
	app := newTestApp(t)
	app.jobs.On("List", mock.Anything, repositories.JobFilter{Skill: "react", Page: 1, PageSize: 20}).
		Return([]entities.Job{{ID: "j1", Title: "Dev"}}, int64(1), nil).Once()

	recorder := app.do(http.MethodGet, "/api/jobs/list?skill=%20React%20", nil, false)

	require.Equal(t, http.StatusOK, recorder.Code)
	body := decode(t, recorder)
	assert.Equal(t, float64(1), body["total"])
	assert.Equal(t, float64(20), body["pageSize"])
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, []any{}, items[0].(map[string]any)["skillsRequired"])
	app.jobs.AssertExpectations(t)
}

func Test_ListJobs_InvalidPaging_ShouldReturnBadRequest(t *testing.T) {
	app := newTestApp(t)

	for _, query := range []string{"pageSize=51", "page=0", "page=abc"} {
		recorder := app.do(http.MethodGet, "/api/jobs/list?"+query, nil, false)

		assert.Equal(t, http.StatusBadRequest, recorder.Code, query)
		assert.Equal(t, CodeInvalidQuery, decode(t, recorder)["error"])
	}
	app.jobs.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func Test_GetJob_Missing_ShouldReturnNotFound(t *testing.T) {
	app := newTestApp(t)
	app.jobs.On("GetByID", mock.Anything, "nope").Return(nil, nil)

	recorder := app.do(http.MethodGet, "/api/jobs/nope", nil, false)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, map[string]any{"ok": false, "error": CodeJobNotFound}, decode(t, recorder))
}

func Test_PrivateRoute_WithoutToken_ShouldReturnUnauthorized(t *testing.T) {
	app := newTestApp(t)

	recorder := app.do(http.MethodGet, "/api/jobs/j1/match", nil, false)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, CodeUnauthorized, decode(t, recorder)["error"])
	assert.Empty(t, recorder.Header().Get(ratelimit.HeaderLimit))
}

func Test_PrivateRoute_TokenSignedWithOtherSecret_ShouldReturnUnauthorized(t *testing.T) {
	app := newTestApp(t)
	forged, err := IssueToken([]byte("another-secret-another-secret-00"), "dev@example.com", time.Hour)
	require.NoError(t, err)
	app.token = forged

	recorder := app.do(http.MethodGet, "/api/jobs/j1/match", nil, true)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func Test_PrivateRoute_ExpiredToken_ShouldReturnUnauthorized(t *testing.T) {
	app := newTestApp(t)
	expired, err := IssueToken([]byte(testSecret), "dev@example.com", -time.Minute)
	require.NoError(t, err)
	app.token = expired

	recorder := app.do(http.MethodGet, "/api/jobs/j1/match", nil, true)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func Test_PrivateRoute_SessionCookie_ShouldAuthenticate(t *testing.T) {
	app := newTestApp(t)
	app.coverLetters.On("Get", mock.Anything, userID, "j1").Return(nil, nil)

	request := httptest.NewRequest(http.MethodGet, "/api/jobs/j1/cover-letter", nil)
	request.AddCookie(&http.Cookie{Name: SessionCookie, Value: app.token})
	recorder := httptest.NewRecorder()
	app.router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, map[string]any{"ok": true, "draft": nil}, decode(t, recorder))
}

func Test_Match_OverLimit_ShouldReturn429WithoutComputing(t *testing.T) {
	app := newTestApp(t)
	app.matcher.On("Compute", mock.Anything, userID, "j1").
		Return(matching.Compute(matching.Input{CandidateSkills: []string{"go"}, JobSkills: []string{"go"}}), nil)

	first := app.do(http.MethodGet, "/api/jobs/j1/match", nil, true)
	second := app.do(http.MethodGet, "/api/jobs/j1/match", nil, true)
	third := app.do(http.MethodGet, "/api/jobs/j1/match", nil, true)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get(ratelimit.HeaderLimit))
	assert.Equal(t, "1", first.Header().Get(ratelimit.HeaderRemaining))
	assert.Empty(t, first.Header().Get(ratelimit.HeaderRetryAfter))
	assert.Equal(t, float64(100), decode(t, first)["score"])

	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "0", second.Header().Get(ratelimit.HeaderRemaining))

	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Equal(t, map[string]any{"ok": false, "error": CodeRateLimited}, decode(t, third))
	assert.NotEmpty(t, third.Header().Get(ratelimit.HeaderRetryAfter))
	app.matcher.AssertNumberOfCalls(t, "Compute", 2)
}

func Test_Match_ServiceErrors_ShouldMapToCodes(t *testing.T) {
	cases := map[error]struct {
		status int
		code   string
	}{
		services.ErrJobNotFound:       {http.StatusNotFound, CodeJobNotFound},
		services.ErrNoResume:          {http.StatusUnprocessableEntity, CodeNoResume},
		services.ErrNoCandidateSkills: {http.StatusUnprocessableEntity, CodeNoCandidateSkills},
	}
	for err, expected := range cases {
		app := newTestApp(t)
		app.matcher.On("Compute", mock.Anything, userID, "j1").Return(matching.Result{}, err)

		recorder := app.do(http.MethodGet, "/api/jobs/j1/match", nil, true)

		assert.Equal(t, expected.status, recorder.Code)
		assert.Equal(t, expected.code, decode(t, recorder)["error"])
	}
}

func Test_GenerateCoverLetter_InvalidMaxWords_ShouldRejectAfterCountingRequest(t *testing.T) {
	app := newTestApp(t)

	recorder := app.do(http.MethodPost, "/api/jobs/j1/cover-letter", []byte(`{"maxWords":30}`), true)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, CodeInvalidBody, decode(t, recorder)["error"])
	assert.Equal(t, "1", recorder.Header().Get(ratelimit.HeaderRemaining))
	app.coverLetters.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func Test_GenerateCoverLetter_EmptyBody_ShouldUseDefaults(t *testing.T) {
	app := newTestApp(t)
	draft := &entities.ApplicationDraft{ID: "d1", CoverLetter: "hello", UpdatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
	app.coverLetters.On("Generate", mock.Anything, userID, "j1", coverletter.Options{MaxWords: coverletter.DefaultWords}).
		Return(draft, coverletter.DefaultWords, nil).Once()

	recorder := app.do(http.MethodPost, "/api/jobs/j1/cover-letter", nil, true)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, map[string]any{
		"ok":       true,
		"maxWords": float64(220),
		"draft":    map[string]any{"id": "d1", "coverLetter": "hello", "updatedAt": "2024-01-02T03:04:05Z"},
	}, decode(t, recorder))
}

func Test_GenerateCoverLetter_ServiceErrors_ShouldMapToCodes(t *testing.T) {
	app := newTestApp(t)
	app.coverLetters.On("Generate", mock.Anything, userID, "j1", mock.Anything).
		Return(nil, 100, &services.OverWordLimitError{MaxWords: 100, Words: 130}).Once()
	app.coverLetters.On("Generate", mock.Anything, userID, "j1", mock.Anything).
		Return(nil, 100, services.ErrEmptyCompletion).Once()

	overLimit := app.do(http.MethodPost, "/api/jobs/j1/cover-letter", []byte(`{"maxWords":100,"language":"he"}`), true)
	empty := app.do(http.MethodPost, "/api/jobs/j1/cover-letter", []byte(`{"maxWords":100}`), true)

	assert.Equal(t, http.StatusUnprocessableEntity, overLimit.Code)
	assert.Equal(t, map[string]any{"ok": false, "error": CodeOverWordLimit, "maxWords": float64(100), "words": float64(130)},
		decode(t, overLimit))
	assert.Equal(t, http.StatusBadGateway, empty.Code)
	assert.Equal(t, CodeEmptyCompletion, decode(t, empty)["error"])
	app.coverLetters.AssertCalled(t, "Generate", mock.Anything, userID, "j1",
		coverletter.Options{MaxWords: 100, Language: coverletter.Hebrew})
}

func Test_GenerateCoverLetter_UnknownLanguage_ShouldReturnBadRequest(t *testing.T) {
	app := newTestApp(t)

	recorder := app.do(http.MethodPost, "/api/jobs/j1/cover-letter", []byte(`{"language":"ru"}`), true)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func Test_GenerateCoverLetter_LanguageCase_ShouldBeNormalized(t *testing.T) {
	app := newTestApp(t)
	app.coverLetters.On("Generate", mock.Anything, userID, "j1",
		coverletter.Options{MaxWords: coverletter.DefaultWords, Language: coverletter.English}).
		Return(&entities.ApplicationDraft{ID: "d1", CoverLetter: "hi"}, coverletter.DefaultWords, nil)

	recorder := app.do(http.MethodPost, "/api/jobs/j1/cover-letter", []byte(`{"language":" EN "}`), true)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func Test_SaveCoverLetter_MissingField_ShouldReturnBadRequest(t *testing.T) {
	app := newTestApp(t)

	recorder := app.do(http.MethodPut, "/api/jobs/j1/cover-letter", []byte(`{"text":"hi"}`), true)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, CodeInvalidBody, decode(t, recorder)["error"])
}

func Test_SaveCoverLetter_ShouldReturnDraft(t *testing.T) {
	app := newTestApp(t)
	app.coverLetters.On("Save", mock.Anything, userID, "j1", " edited ").
		Return(&entities.ApplicationDraft{ID: "d1", CoverLetter: "edited"}, nil)

	recorder := app.do(http.MethodPut, "/api/jobs/j1/cover-letter", []byte(`{"coverLetter":" edited "}`), true)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "edited", decode(t, recorder)["draft"].(map[string]any)["coverLetter"])
}

func Test_Ingest_NotAnArray_ShouldReturnBadRequest(t *testing.T) {
	app := newTestApp(t)

	recorder := app.do(http.MethodPost, "/api/jobs/ingest", []byte(`{"title":"x"}`), true)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	app.ingester.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything)
}

func Test_Ingest_Array_ShouldReturnReport(t *testing.T) {
	app := newTestApp(t)
	app.ingester.On("Ingest", mock.Anything, mock.Anything).
		Return(services.IngestReport{Total: 2, Created: 1, Rejected: 1}, nil)

	recorder := app.do(http.MethodPost, "/api/jobs/ingest", []byte(`[{"title":"a","company":"b"},{}]`), true)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, map[string]any{
		"ok": true, "total": float64(2), "created": float64(1), "updated": float64(0),
		"skipped": float64(0), "rejected": float64(1),
	}, decode(t, recorder))
}

func Test_Ingest_EmptyBodyWithoutFeed_ShouldReturnBadRequest(t *testing.T) {
	app := newTestApp(t)

	recorder := app.do(http.MethodPost, "/api/jobs/ingest", nil, true)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func Test_UploadResume_ShouldPassFileToService(t *testing.T) {
	app := newTestApp(t)
	content := []byte("%PDF-1.4 resume")
	app.resumes.On("Upload", mock.Anything, userID, "cv.pdf", content).
		Return(services.UploadResult{Status: services.UploadStatusStored, ResumeID: "r1", Bytes: len(content)}, nil)

	body, contentType := multipartBody(t, "file", "cv.pdf", content)
	request := httptest.NewRequest(http.MethodPost, "/api/resume/upload", body)
	request.Header.Set("Content-Type", contentType)
	request.Header.Set("Authorization", "Bearer "+app.token)
	recorder := httptest.NewRecorder()
	app.router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	response := decode(t, recorder)
	assert.Equal(t, "r1", response["resumeId"])
	assert.Equal(t, services.UploadStatusStored, response["status"])
}

func Test_UploadResume_MissingFile_ShouldReturnBadRequest(t *testing.T) {
	app := newTestApp(t)

	body, contentType := multipartBody(t, "other", "cv.pdf", []byte("%PDF"))
	request := httptest.NewRequest(http.MethodPost, "/api/resume/upload", body)
	request.Header.Set("Content-Type", contentType)
	request.Header.Set("Authorization", "Bearer "+app.token)
	recorder := httptest.NewRecorder()
	app.router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, CodeMissingFile, decode(t, recorder)["error"])
}

func Test_AnalyzeResume_InvalidProfile_ShouldReturnBadGateway(t *testing.T) {
	app := newTestApp(t)
	app.resumes.On("Analyze", mock.Anything, userID).Return(services.AnalyzeResult{}, services.ErrInvalidProfile)

	recorder := app.do(http.MethodPost, "/api/resume/analyze", nil, true)

	assert.Equal(t, http.StatusBadGateway, recorder.Code)
	assert.Equal(t, CodeInvalidProfile, decode(t, recorder)["error"])
}

func Test_Summary_InvalidDays_ShouldReturnBadRequest(t *testing.T) {
	app := newTestApp(t)

	for _, days := range []string{"abc", "0", "-3"} {
		recorder := app.do(http.MethodGet, "/api/metrics/summary?days="+days, nil, true)
		assert.Equal(t, http.StatusBadRequest, recorder.Code, days)
	}
	app.usage.AssertNotCalled(t, "Summary", mock.Anything, mock.Anything, mock.Anything)
}

func Test_Summary_ShouldFlattenSections(t *testing.T) {
	app := newTestApp(t)
	app.usage.On("Summary", mock.Anything, userID, 0).
		Return(services.Summary{CoverLetters: services.CoverLetterSummary{Created: 2, Total: 2}}, nil)

	recorder := app.do(http.MethodGet, "/api/metrics/summary", nil, true)

	require.Equal(t, http.StatusOK, recorder.Code)
	body := decode(t, recorder)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, float64(2), body["coverLetters"].(map[string]any)["created"])
	assert.Nil(t, body["ai"].(map[string]any)["costUsd"])
}
