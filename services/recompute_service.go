package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lennartwolf/tippliga/models"
	"github.com/lennartwolf/tippliga/repositories"
)

type RecomputeService interface {
	// RecomputeAll rebuilds every user's per-group stats, total and maximum
	// points from their tips and the current match results. Users are
	// processed independently: one user failing is recorded in the report and
	// does not abort the run.
	RecomputeAll(ctx context.Context) (*models.RecomputeReport, error)
}

type RecomputeConfig struct {
	// Workers bounds how many users are processed concurrently, sized to what
	// the database can absorb.
	Workers int
	// RunTimeout is the deadline for a whole run, UserTimeout for a single
	// user. A timed-out user counts as failed and is not retried within the
	// run.
	RunTimeout  time.Duration
	UserTimeout time.Duration
}

type recomputeService struct {
	userRepo  repositories.UserRepository
	tipRepo   repositories.TipRepository
	matchRepo repositories.MatchRepository
	stats     StatsService
	lock      RunLock
	boards    LeaderboardService
	logger    *slog.Logger
	cfg       RecomputeConfig
}

func NewRecomputeService(
	userRepo repositories.UserRepository,
	tipRepo repositories.TipRepository,
	matchRepo repositories.MatchRepository,
	stats StatsService,
	lock RunLock,
	boards LeaderboardService,
	logger *slog.Logger,
	cfg RecomputeConfig,
) RecomputeService {
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	return &recomputeService{
		userRepo:  userRepo,
		tipRepo:   tipRepo,
		matchRepo: matchRepo,
		stats:     stats,
		lock:      lock,
		boards:    boards,
		logger:    logger,
		cfg:       cfg,
	}
}

// matchSnapshot resolves matches from an in-memory copy of the fixture list,
// loaded once per run.
type matchSnapshot map[int]*models.Match

func (s matchSnapshot) ResolveMatch(_ context.Context, id int) (*models.Match, error) {
	match, ok := s[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return match, nil
}

func (s *recomputeService) RecomputeAll(ctx context.Context) (*models.RecomputeReport, error) {
	acquired, err := s.lock.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire recompute lock: %w", err)
	}
	if !acquired {
		return nil, ErrRecomputeAlreadyRunning
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Error("failed to release recompute lock", slog.Any("error", err))
		}
	}()

	started := time.Now()
	if s.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RunTimeout)
		defer cancel()
	}

	matches, err := s.matchRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load match list: %w", err)
	}
	snapshot := make(matchSnapshot, len(matches))
	for _, m := range matches {
		snapshot[m.ID] = m
	}

	userIDs, err := s.userRepo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	report := &models.RecomputeReport{Processed: len(userIDs)}
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(s.cfg.Workers)

	for _, userID := range userIDs {
		userID := userID
		g.Go(func() error {
			userCtx := ctx
			if s.cfg.UserTimeout > 0 {
				var cancel context.CancelFunc
				userCtx, cancel = context.WithTimeout(ctx, s.cfg.UserTimeout)
				defer cancel()
			}

			err := s.recomputeUser(userCtx, userID, snapshot)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed++
				report.Failures = append(report.Failures, models.UserFailure{
					UserID: userID,
					Reason: err.Error(),
				})
				s.logger.Warn("recompute failed for user",
					slog.Int("user_id", userID), slog.Any("error", err))
				return nil
			}
			report.Succeeded++
			return nil
		})
	}
	// Workers record their own failures and never return an error.
	_ = g.Wait()

	report.Duration = time.Since(started)

	// Stats have moved, so cached leaderboards are stale. A failed
	// invalidation only delays freshness until the cache TTL runs out.
	if err := s.boards.InvalidateAll(context.WithoutCancel(ctx)); err != nil {
		s.logger.Warn("failed to invalidate leaderboard cache", slog.Any("error", err))
	}

	s.logger.Info("recompute run finished",
		slog.Int("processed", report.Processed),
		slog.Int("succeeded", report.Succeeded),
		slog.Int("failed", report.Failed),
		slog.Duration("duration", report.Duration),
	)
	return report, nil
}

// recomputeUser rebuilds one user's aggregates. Per-group aggregations fan
// out concurrently and are joined before anything is written, so the stored
// stats always describe one consistent pass over the user's memberships.
func (s *recomputeService) recomputeUser(ctx context.Context, userID int, matches MatchResolver) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	if len(user.Groups) == 0 {
		return s.userRepo.UpdateAggregates(ctx, userID, map[int]models.GroupStat{}, 0, 0)
	}

	tips, err := s.tipRepo.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load tips: %w", err)
	}

	stats := make([]models.GroupStat, len(user.Groups))
	g, gCtx := errgroup.WithContext(ctx)
	for i, groupID := range user.Groups {
		i, groupID := i, groupID
		g.Go(func() error {
			stat, err := s.stats.AggregateGroup(gCtx, tips, groupID, matches)
			if err != nil {
				return fmt.Errorf("failed to aggregate group %d: %w", groupID, err)
			}
			stats[i] = stat
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	byGroup := make(map[int]models.GroupStat, len(user.Groups))
	totalPoints, maxPoints := 0, 0
	for i, groupID := range user.Groups {
		stat := stats[i]
		byGroup[groupID] = stat
		totalPoints += stat.Total
		if stat.Total > maxPoints {
			maxPoints = stat.Total
		}
	}

	if err := s.userRepo.UpdateAggregates(ctx, userID, byGroup, totalPoints, maxPoints); err != nil {
		return fmt.Errorf("failed to persist aggregates: %w", err)
	}
	return nil
}
