package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lennartwolf/tippliga/models"
)

func newRecomputeFixture() (*UserRepositoryMock, *TipRepositoryMock, *MatchRepositoryMock, *RunLockMock, *LeaderboardServiceMock, RecomputeService) {
	userRepo := &UserRepositoryMock{}
	tipRepo := &TipRepositoryMock{}
	matchRepo := &MatchRepositoryMock{}
	lock := &RunLockMock{}
	boards := &LeaderboardServiceMock{}

	service := NewRecomputeService(
		userRepo,
		tipRepo,
		matchRepo,
		NewStatsService(testLogger()),
		lock,
		boards,
		testLogger(),
		RecomputeConfig{Workers: 2, RunTimeout: time.Minute, UserTimeout: 10 * time.Second},
	)
	return userRepo, tipRepo, matchRepo, lock, boards, service
}

func TestRecomputeAllRefusedWhileRunning(t *testing.T) {
	_, _, _, lock, _, service := newRecomputeFixture()
	lock.On("Acquire", mock.Anything).Return(false, nil)

	_, err := service.RecomputeAll(context.Background())
	assert.ErrorIs(t, err, ErrRecomputeAlreadyRunning)
	lock.AssertNotCalled(t, "Release", mock.Anything)
}

func TestRecomputeAllComputesTotals(t *testing.T) {
	userRepo, tipRepo, matchRepo, lock, boards, service := newRecomputeFixture()

	lock.On("Acquire", mock.Anything).Return(true, nil)
	lock.On("Release", mock.Anything).Return(nil)
	boards.On("InvalidateAll", mock.Anything).Return(nil)

	matchRepo.On("List", mock.Anything).Return([]*models.Match{
		finishedMatch(1, 2, 1),
		finishedMatch(2, 0, 0),
	}, nil)
	userRepo.On("ListIDs", mock.Anything).Return([]int{1}, nil)
	userRepo.On("GetByID", mock.Anything, 1).Return(&models.User{ID: 1, Groups: []int{10, 20}}, nil)

	// Exact hit in group 10 on both matches, one miss in group 20.
	tipRepo.On("ListByUser", mock.Anything, 1).Return([]models.Tip{
		{ID: 1, UserID: 1, GroupID: 10, MatchID: 1, HomeGoals: 2, AwayGoals: 1},
		{ID: 2, UserID: 1, GroupID: 10, MatchID: 2, HomeGoals: 0, AwayGoals: 0},
		{ID: 3, UserID: 1, GroupID: 20, MatchID: 1, HomeGoals: 0, AwayGoals: 2},
	}, nil)

	expectedStats := map[int]models.GroupStat{
		10: {Total: 6, Correct: 2},
		20: {Total: 0, Wrong: 1},
	}
	userRepo.On("UpdateAggregates", mock.Anything, 1, expectedStats, 6, 6).Return(nil)

	report, err := service.RecomputeAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 0, report.Failed)
	assert.Empty(t, report.Failures)
	userRepo.AssertExpectations(t)
	lock.AssertExpectations(t)
	boards.AssertExpectations(t)
}

func TestRecomputeAllZeroesUserWithoutGroups(t *testing.T) {
	userRepo, _, matchRepo, lock, boards, service := newRecomputeFixture()

	lock.On("Acquire", mock.Anything).Return(true, nil)
	lock.On("Release", mock.Anything).Return(nil)
	boards.On("InvalidateAll", mock.Anything).Return(nil)

	matchRepo.On("List", mock.Anything).Return([]*models.Match{}, nil)
	userRepo.On("ListIDs", mock.Anything).Return([]int{7}, nil)
	userRepo.On("GetByID", mock.Anything, 7).Return(&models.User{ID: 7}, nil)
	userRepo.On("UpdateAggregates", mock.Anything, 7, map[int]models.GroupStat{}, 0, 0).Return(nil)

	report, err := service.RecomputeAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Succeeded)
	userRepo.AssertExpectations(t)
}

func TestRecomputeAllIsolatesUserFailures(t *testing.T) {
	userRepo, tipRepo, matchRepo, lock, boards, service := newRecomputeFixture()

	lock.On("Acquire", mock.Anything).Return(true, nil)
	lock.On("Release", mock.Anything).Return(nil)
	boards.On("InvalidateAll", mock.Anything).Return(nil)

	matchRepo.On("List", mock.Anything).Return([]*models.Match{finishedMatch(1, 1, 0)}, nil)
	userRepo.On("ListIDs", mock.Anything).Return([]int{1, 2}, nil)

	userRepo.On("GetByID", mock.Anything, 1).Return(nil, assert.AnError)

	userRepo.On("GetByID", mock.Anything, 2).Return(&models.User{ID: 2, Groups: []int{10}}, nil)
	tipRepo.On("ListByUser", mock.Anything, 2).Return([]models.Tip{
		{ID: 1, UserID: 2, GroupID: 10, MatchID: 1, HomeGoals: 1, AwayGoals: 0},
	}, nil)
	userRepo.On("UpdateAggregates", mock.Anything, 2, map[int]models.GroupStat{10: {Total: 3, Correct: 1}}, 3, 3).Return(nil)

	report, err := service.RecomputeAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, 1, report.Failures[0].UserID)
	userRepo.AssertExpectations(t)
}

// blockingUserRepository hangs every GetByID call until the caller's context
// expires, simulating a stalled persistence layer.
type blockingUserRepository struct {
	UserRepositoryMock
}

func (r *blockingUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestRecomputeAllUserTimeoutCountsAsFailure(t *testing.T) {
	userRepo := &blockingUserRepository{}
	tipRepo := &TipRepositoryMock{}
	matchRepo := &MatchRepositoryMock{}
	lock := &RunLockMock{}
	boards := &LeaderboardServiceMock{}

	service := NewRecomputeService(
		userRepo,
		tipRepo,
		matchRepo,
		NewStatsService(testLogger()),
		lock,
		boards,
		testLogger(),
		RecomputeConfig{Workers: 2, RunTimeout: time.Minute, UserTimeout: 50 * time.Millisecond},
	)

	lock.On("Acquire", mock.Anything).Return(true, nil)
	lock.On("Release", mock.Anything).Return(nil)
	boards.On("InvalidateAll", mock.Anything).Return(nil)
	matchRepo.On("List", mock.Anything).Return([]*models.Match{}, nil)
	userRepo.On("ListIDs", mock.Anything).Return([]int{1}, nil)

	report, err := service.RecomputeAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 0, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, 1, report.Failures[0].UserID)
	assert.Contains(t, report.Failures[0].Reason, context.DeadlineExceeded.Error())
	userRepo.AssertNotCalled(t, "UpdateAggregates",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecomputeAllRunDeadlineBoundsStalledUsers(t *testing.T) {
	userRepo := &blockingUserRepository{}
	tipRepo := &TipRepositoryMock{}
	matchRepo := &MatchRepositoryMock{}
	lock := &RunLockMock{}
	boards := &LeaderboardServiceMock{}

	// No per-user timeout: only the run deadline cuts the stalled lookup off.
	service := NewRecomputeService(
		userRepo,
		tipRepo,
		matchRepo,
		NewStatsService(testLogger()),
		lock,
		boards,
		testLogger(),
		RecomputeConfig{Workers: 2, RunTimeout: 50 * time.Millisecond},
	)

	lock.On("Acquire", mock.Anything).Return(true, nil)
	lock.On("Release", mock.Anything).Return(nil)
	boards.On("InvalidateAll", mock.Anything).Return(nil)
	matchRepo.On("List", mock.Anything).Return([]*models.Match{}, nil)
	userRepo.On("ListIDs", mock.Anything).Return([]int{1}, nil)

	done := make(chan struct{})
	var report *models.RecomputeReport
	var err error
	go func() {
		report, err = service.RecomputeAll(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("recompute run did not finish within the run deadline")
	}

	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Contains(t, report.Failures[0].Reason, context.DeadlineExceeded.Error())
	lock.AssertCalled(t, "Release", mock.Anything)
}

func TestRecomputeAllReleasesLockOnError(t *testing.T) {
	userRepo, _, matchRepo, lock, _, service := newRecomputeFixture()

	lock.On("Acquire", mock.Anything).Return(true, nil)
	lock.On("Release", mock.Anything).Return(nil)

	matchRepo.On("List", mock.Anything).Return(nil, assert.AnError)

	_, err := service.RecomputeAll(context.Background())
	require.Error(t, err)
	lock.AssertCalled(t, "Release", mock.Anything)
	userRepo.AssertNotCalled(t, "ListIDs", mock.Anything)
}
