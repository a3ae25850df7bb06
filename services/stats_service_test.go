package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lennartwolf/tippliga/models"
	"github.com/lennartwolf/tippliga/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int { return &v }

func finishedMatch(id, home, away int) *models.Match {
	return &models.Match{
		ID:        id,
		HomeGoals: intPtr(home),
		AwayGoals: intPtr(away),
		Started:   true,
	}
}

func snapshotOf(matches ...*models.Match) matchSnapshot {
	snap := make(matchSnapshot, len(matches))
	for _, m := range matches {
		snap[m.ID] = m
	}
	return snap
}

func TestAggregateGroup(t *testing.T) {
	service := NewStatsService(testLogger())

	// 2:1 result: exact hit, strict tendency, loose tendency, and a miss.
	snap := snapshotOf(finishedMatch(1, 2, 1))
	tips := []models.Tip{
		{ID: 1, GroupID: 5, MatchID: 1, HomeGoals: 2, AwayGoals: 1},
		{ID: 2, GroupID: 5, MatchID: 1, HomeGoals: 3, AwayGoals: 2},
		{ID: 3, GroupID: 5, MatchID: 1, HomeGoals: 1, AwayGoals: 0},
		{ID: 4, GroupID: 5, MatchID: 1, HomeGoals: 0, AwayGoals: 3},
	}

	stat, err := service.AggregateGroup(context.Background(), tips, 5, snap)
	require.NoError(t, err)

	assert.Equal(t, 1, stat.Correct)
	assert.Equal(t, 2, stat.Tendency)
	assert.Equal(t, 1, stat.Wrong)
	assert.Equal(t, 3+2+1+0, stat.Total)
}

func TestAggregateGroupFiltersOtherGroups(t *testing.T) {
	service := NewStatsService(testLogger())

	snap := snapshotOf(finishedMatch(1, 1, 0))
	tips := []models.Tip{
		{ID: 1, GroupID: 5, MatchID: 1, HomeGoals: 1, AwayGoals: 0},
		{ID: 2, GroupID: 9, MatchID: 1, HomeGoals: 1, AwayGoals: 0},
	}

	stat, err := service.AggregateGroup(context.Background(), tips, 5, snap)
	require.NoError(t, err)

	assert.Equal(t, 1, stat.Correct)
	assert.Equal(t, 3, stat.Total)
}

func TestAggregateGroupSkipsUnscoreableMatches(t *testing.T) {
	service := NewStatsService(testLogger())

	notStarted := &models.Match{ID: 2, HomeGoals: intPtr(1), AwayGoals: intPtr(1)}
	dummy := &models.Match{ID: 3, HomeGoals: intPtr(2), AwayGoals: intPtr(0), Started: true, IsDummy: true}
	noResult := &models.Match{ID: 4, Started: true}
	snap := snapshotOf(finishedMatch(1, 2, 1), notStarted, dummy, noResult)

	tips := []models.Tip{
		{ID: 1, GroupID: 5, MatchID: 1, HomeGoals: 2, AwayGoals: 1},
		{ID: 2, GroupID: 5, MatchID: 2, HomeGoals: 1, AwayGoals: 1},
		{ID: 3, GroupID: 5, MatchID: 3, HomeGoals: 2, AwayGoals: 0},
		{ID: 4, GroupID: 5, MatchID: 4, HomeGoals: 1, AwayGoals: 0},
	}

	stat, err := service.AggregateGroup(context.Background(), tips, 5, snap)
	require.NoError(t, err)

	// Only the finished match counts, even where the prediction would have
	// been exact.
	assert.Equal(t, models.GroupStat{Total: 3, Correct: 1}, stat)
}

func TestAggregateGroupMissingMatchIsUnscored(t *testing.T) {
	service := NewStatsService(testLogger())

	tips := []models.Tip{
		{ID: 1, GroupID: 5, MatchID: 42, HomeGoals: 1, AwayGoals: 0},
	}

	stat, err := service.AggregateGroup(context.Background(), tips, 5, snapshotOf())
	require.NoError(t, err)
	assert.Equal(t, models.GroupStat{}, stat)
}

func TestAggregateGroupEmptyTipSet(t *testing.T) {
	service := NewStatsService(testLogger())

	stat, err := service.AggregateGroup(context.Background(), nil, 5, snapshotOf())
	require.NoError(t, err)
	assert.Equal(t, models.GroupStat{}, stat)
}

func TestAggregateGroupPropagatesResolverErrors(t *testing.T) {
	service := NewStatsService(testLogger())

	matchRepo := &MatchRepositoryMock{}
	matchRepo.On("GetByID", mock.Anything, 1).Return(nil, assert.AnError)

	tips := []models.Tip{
		{ID: 1, GroupID: 5, MatchID: 1, HomeGoals: 1, AwayGoals: 0},
	}

	_, err := service.AggregateGroup(context.Background(), tips, 5, RepositoryMatchResolver{Repo: matchRepo})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestRepositoryMatchResolver(t *testing.T) {
	matchRepo := &MatchRepositoryMock{}
	matchRepo.On("GetByID", mock.Anything, 7).Return((*models.Match)(nil), repositories.ErrMatchNotFound)

	resolver := RepositoryMatchResolver{Repo: matchRepo}
	_, err := resolver.ResolveMatch(context.Background(), 7)
	assert.ErrorIs(t, err, repositories.ErrMatchNotFound)
}
