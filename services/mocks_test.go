package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lennartwolf/tippliga/models"
	"github.com/lennartwolf/tippliga/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepositoryMock) GetByID(ctx context.Context, id int) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepositoryMock) ListIDs(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *UserRepositoryMock) ListByGroup(ctx context.Context, groupID int) ([]*models.User, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *UserRepositoryMock) UpdateAvatar(ctx context.Context, userID int, avatarURL string) error {
	args := m.Called(ctx, userID, avatarURL)
	return args.Error(0)
}

func (m *UserRepositoryMock) UpdateAggregates(ctx context.Context, userID int, stats map[int]models.GroupStat, totalPoints, maxPoints int) error {
	args := m.Called(ctx, userID, stats, totalPoints, maxPoints)
	return args.Error(0)
}

type TipRepositoryMock struct {
	mock.Mock
}

func (m *TipRepositoryMock) Create(ctx context.Context, tip *models.Tip) error {
	args := m.Called(ctx, tip)
	return args.Error(0)
}

func (m *TipRepositoryMock) GetByID(ctx context.Context, id int) (*models.Tip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tip), args.Error(1)
}

func (m *TipRepositoryMock) ListByUser(ctx context.Context, userID int) ([]models.Tip, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tip), args.Error(1)
}

func (m *TipRepositoryMock) UpdateScoreline(ctx context.Context, tip *models.Tip) error {
	args := m.Called(ctx, tip)
	return args.Error(0)
}

type MatchRepositoryMock struct {
	mock.Mock
}

func (m *MatchRepositoryMock) Create(ctx context.Context, match *models.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MatchRepositoryMock) GetByID(ctx context.Context, id int) (*models.Match, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Match), args.Error(1)
}

func (m *MatchRepositoryMock) List(ctx context.Context) ([]*models.Match, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Match), args.Error(1)
}

func (m *MatchRepositoryMock) RecordResult(ctx context.Context, id, homeGoals, awayGoals int) error {
	args := m.Called(ctx, id, homeGoals, awayGoals)
	return args.Error(0)
}

func (m *MatchRepositoryMock) MarkStarted(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type GroupRepositoryMock struct {
	mock.Mock
}

func (m *GroupRepositoryMock) Create(ctx context.Context, exec repositories.SQLExecutor, group *models.Group) error {
	args := m.Called(ctx, exec, group)
	return args.Error(0)
}

func (m *GroupRepositoryMock) GetByID(ctx context.Context, id int) (*models.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Group), args.Error(1)
}

func (m *GroupRepositoryMock) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Group), args.Error(1)
}

func (m *GroupRepositoryMock) List(ctx context.Context) ([]*models.Group, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Group), args.Error(1)
}

func (m *GroupRepositoryMock) AddMember(ctx context.Context, exec repositories.SQLExecutor, groupID, userID int) error {
	args := m.Called(ctx, exec, groupID, userID)
	return args.Error(0)
}

func (m *GroupRepositoryMock) RemoveMember(ctx context.Context, groupID, userID int) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *GroupRepositoryMock) IsMember(ctx context.Context, groupID, userID int) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

type RunLockMock struct {
	mock.Mock
}

func (m *RunLockMock) Acquire(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *RunLockMock) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type LeaderboardCacheMock struct {
	mock.Mock
}

func (m *LeaderboardCacheMock) Get(ctx context.Context, groupID int) ([]models.LeaderboardEntry, bool) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]models.LeaderboardEntry), args.Bool(1)
}

func (m *LeaderboardCacheMock) Set(ctx context.Context, groupID int, entries []models.LeaderboardEntry) {
	m.Called(ctx, groupID, entries)
}

func (m *LeaderboardCacheMock) InvalidateAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type LeaderboardServiceMock struct {
	mock.Mock
}

func (m *LeaderboardServiceMock) BuildLeaderboard(ctx context.Context, groupID int) ([]models.LeaderboardEntry, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LeaderboardEntry), args.Error(1)
}

func (m *LeaderboardServiceMock) InvalidateAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
