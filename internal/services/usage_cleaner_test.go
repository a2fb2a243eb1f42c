package services

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

type mockUsageCleanup struct {
	mock.Mock
}

func (m *mockUsageCleanup) RemoveOlderThan(ctx context.Context, expirationTime time.Time) (int64, error) {
	args := m.Called(ctx, expirationTime)
	return args.Get(0).(int64), args.Error(1)
}

func Test_NewUsageCleaner_NonPositiveRetention_ShouldFail(t *testing.T) {
	_, err := NewUsageCleaner(&mockUsageCleanup{}, 0)

	assert.Error(t, err)
}

func Test_UsageCleaner_ShouldRemoveRecordsOlderThanRetention(t *testing.T) {
	repo := &mockUsageCleanup{}
	before := time.Now()
	repo.On("RemoveOlderThan", mock.Anything, mock.MatchedBy(func(expiration time.Time) bool {
		age := before.Sub(expiration)
		return age > 29*24*time.Hour && age <= 30*24*time.Hour
	})).Return(int64(5), nil).Once()

	cleaner, err := NewUsageCleaner(repo, 30)
	require.NoError(t, err)
	defer cleaner.Stop()

	cleaner.cleanOldUsage()

	repo.AssertExpectations(t)
}
