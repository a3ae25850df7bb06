package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/lennartwolf/tippliga/models"
	"github.com/lennartwolf/tippliga/repositories"
)

type LeaderboardService interface {
	// BuildLeaderboard returns the group's members ordered by their current
	// points in this group. Members without recomputed stats for the group
	// rank with the zero record instead of failing.
	BuildLeaderboard(ctx context.Context, groupID int) ([]models.LeaderboardEntry, error)
	// InvalidateAll drops every cached leaderboard, called after a recompute
	// run has moved the underlying stats.
	InvalidateAll(ctx context.Context) error
}

type leaderboardService struct {
	groupRepo repositories.GroupRepository
	userRepo  repositories.UserRepository
	cache     LeaderboardCache
	logger    *slog.Logger
}

func NewLeaderboardService(
	groupRepo repositories.GroupRepository,
	userRepo repositories.UserRepository,
	cache LeaderboardCache,
	logger *slog.Logger,
) LeaderboardService {
	return &leaderboardService{
		groupRepo: groupRepo,
		userRepo:  userRepo,
		cache:     cache,
		logger:    logger,
	}
}

func (s *leaderboardService) BuildLeaderboard(ctx context.Context, groupID int) ([]models.LeaderboardEntry, error) {
	if entries, ok := s.cache.Get(ctx, groupID); ok {
		return entries, nil
	}

	var members []*models.User

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.groupRepo.GetByID(gCtx, groupID)
		if err != nil {
			if errors.Is(err, repositories.ErrGroupNotFound) {
				return ErrGroupNotFound
			}
			return fmt.Errorf("failed to load group %d: %w", groupID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		members, err = s.userRepo.ListByGroup(gCtx, groupID)
		if err != nil {
			return fmt.Errorf("failed to load members of group %d: %w", groupID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(members))
	for _, member := range members {
		stat := member.StatsInGroup(groupID)
		entries = append(entries, models.LeaderboardEntry{
			UserID:    member.ID,
			Name:      member.Name,
			AvatarURL: member.AvatarURL,
			Points:    stat.Total,
			Correct:   stat.Correct,
			Tendency:  stat.Tendency,
			Wrong:     stat.Wrong,
		})
	}

	// Points decide the order; ties break on correct tips, then tendency
	// tips, then user ID, which keeps the ordering reproducible across runs.
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Correct != b.Correct {
			return a.Correct > b.Correct
		}
		if a.Tendency != b.Tendency {
			return a.Tendency > b.Tendency
		}
		return a.UserID < b.UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	s.cache.Set(ctx, groupID, entries)
	return entries, nil
}

func (s *leaderboardService) InvalidateAll(ctx context.Context) error {
	return s.cache.InvalidateAll(ctx)
}
