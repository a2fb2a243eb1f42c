package services

import (
	"context"
	"github.com/maxaizer/job-assistant/internal/entities"
	"github.com/maxaizer/job-assistant/internal/llm"
	"github.com/maxaizer/job-assistant/internal/repositories"
	"github.com/stretchr/testify/mock"
	"time"
)

type mockJobs struct {
	mock.Mock
}

func (m *mockJobs) GetByID(ctx context.Context, id string) (*entities.Job, error) {
	args := m.Called(ctx, id)
	job, _ := args.Get(0).(*entities.Job)
	return job, args.Error(1)
}

func (m *mockJobs) ExistingKeys(ctx context.Context, keys []repositories.JobKey) (map[repositories.JobKey]bool, error) {
	args := m.Called(ctx, keys)
	existing, _ := args.Get(0).(map[repositories.JobKey]bool)
	return existing, args.Error(1)
}

func (m *mockJobs) Upsert(ctx context.Context, job entities.Job) error {
	return m.Called(ctx, job).Error(0)
}

type mockResumes struct {
	mock.Mock
}

func (m *mockResumes) GetByUser(ctx context.Context, userID string) (*entities.Resume, error) {
	args := m.Called(ctx, userID)
	resume, _ := args.Get(0).(*entities.Resume)
	return resume, args.Error(1)
}

func (m *mockResumes) SaveText(ctx context.Context, userID, text string) (*entities.Resume, error) {
	args := m.Called(ctx, userID, text)
	resume, _ := args.Get(0).(*entities.Resume)
	return resume, args.Error(1)
}

func (m *mockResumes) SaveProfile(ctx context.Context, userID string, profile []byte, yearsExp int) error {
	return m.Called(ctx, userID, profile, yearsExp).Error(0)
}

type mockMatches struct {
	mock.Mock
}

func (m *mockMatches) Upsert(ctx context.Context, match entities.Match) error {
	return m.Called(ctx, match).Error(0)
}

type mockDrafts struct {
	mock.Mock
}

func (m *mockDrafts) Get(ctx context.Context, userID, jobID string) (*entities.ApplicationDraft, error) {
	args := m.Called(ctx, userID, jobID)
	draft, _ := args.Get(0).(*entities.ApplicationDraft)
	return draft, args.Error(1)
}

func (m *mockDrafts) Upsert(ctx context.Context, userID, jobID, coverLetter string) (*entities.ApplicationDraft, error) {
	args := m.Called(ctx, userID, jobID, coverLetter)
	draft, _ := args.Get(0).(*entities.ApplicationDraft)
	return draft, args.Error(1)
}

type mockAiClient struct {
	mock.Mock
}

func (m *mockAiClient) Complete(ctx context.Context, request llm.Request) (llm.Response, error) {
	args := m.Called(ctx, request)
	return args.Get(0).(llm.Response), args.Error(1)
}

func (m *mockAiClient) Model() string {
	return "test-model"
}

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(data []byte) (string, error) {
	args := m.Called(data)
	return args.String(0), args.Error(1)
}

type mockUsage struct {
	mock.Mock
}

func (m *mockUsage) AddAiUsage(ctx context.Context, usage entities.AiUsage) error {
	return m.Called(ctx, usage).Error(0)
}

func (m *mockUsage) AddEvent(ctx context.Context, event entities.UsageEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockUsage) AggregateAi(ctx context.Context, userID string, since time.Time) (repositories.AiAggregate, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(repositories.AiAggregate), args.Error(1)
}

func (m *mockUsage) CountEvents(ctx context.Context, userID, eventType string, since time.Time) (int64, error) {
	args := m.Called(ctx, userID, eventType, since)
	return args.Get(0).(int64), args.Error(1)
}

func ptr[T any](v T) *T { return &v }
